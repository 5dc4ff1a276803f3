package ratingstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/psymap/psymap/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixturePath = "testdata/dataset.yaml"

func loadFixture(t *testing.T) *Dataset {
	t.Helper()
	ds, err := LoadDataset(fixturePath)
	require.NoError(t, err)
	return ds
}

func TestLoadDataset(t *testing.T) {
	ds := loadFixture(t)

	require.Len(t, ds.Templates, 1)
	tmpl := ds.Templates[0]
	assert.Equal(t, "MANAGERIAL", tmpl.Code)
	require.Len(t, tmpl.Categories, 2)
	assert.Equal(t, schema.PotensiCategory, tmpl.Categories[0].Code)
	assert.Equal(t, 40.0, tmpl.Categories[0].WeightPercentage)
	assert.Len(t, tmpl.Categories[0].Aspects[0].SubAspects, 6)
	assert.Empty(t, tmpl.Categories[1].Aspects[0].SubAspects)

	assert.Len(t, ds.Participants, 4)
	require.Len(t, ds.Ratings, 4)
	rec, ok := ds.Ratings[0].SubAspectRating("ku-1")
	require.True(t, ok)
	assert.Equal(t, 4.0, rec.IndividualRating)
}

func TestLoadDataset_JSON(t *testing.T) {
	ds, err := LoadDataset("testdata/small.json")
	require.NoError(t, err)

	require.Len(t, ds.Templates, 1)
	assert.Equal(t, int64(7), ds.Templates[0].ID)
	assert.Equal(t, "komunikasi", ds.Templates[0].Categories[1].Aspects[0].Code)
	require.Len(t, ds.Participants, 1)
	assert.Equal(t, "DEWI", ds.Participants[0].Name)
	assert.Equal(t, 2.0, ds.Ratings[0].Aspects["komunikasi"].IndividualRating)
}

func TestLoadDataset_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadDataset(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorContains(t, err, "failed to read dataset")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("templates: [\n"), 0o600))
		_, err := LoadDataset(path)
		assert.ErrorContains(t, err, "failed to parse dataset")
	})
}

func TestDatasetValidate(t *testing.T) {
	base := func() *Dataset {
		return &Dataset{
			Templates: []schema.Template{{
				ID:   1,
				Code: "T",
				Categories: []schema.Category{{
					Code:             schema.PotensiCategory,
					WeightPercentage: 100,
					Aspects:          []schema.Aspect{{Code: "a", WeightPercentage: 100, StandardRating: 3}},
				}},
			}},
			Participants: []schema.Participant{{ID: 1, Name: "A", TemplateID: 1}},
			Ratings: []schema.RatingSet{{
				ParticipantID: 1,
				Aspects:       map[string]schema.RatingRecord{"a": {StandardRating: 3, IndividualRating: 4}},
			}},
		}
	}

	assert.NoError(t, base().Validate())

	tests := []struct {
		name    string
		mutate  func(*Dataset)
		wantErr string
		isErr   error
	}{
		{
			name:    "duplicate template",
			mutate:  func(d *Dataset) { d.Templates = append(d.Templates, d.Templates[0]) },
			wantErr: "duplicate template id 1",
			isErr:   schema.ErrInvalidTemplate,
		},
		{
			name:   "category weight above 100",
			mutate: func(d *Dataset) { d.Templates[0].Categories[0].WeightPercentage = 120 },
			isErr:  schema.ErrInvalidTemplate,
		},
		{
			name: "duplicate aspect code",
			mutate: func(d *Dataset) {
				c := &d.Templates[0].Categories[0]
				c.Aspects = append(c.Aspects, c.Aspects[0])
			},
			wantErr: `duplicate aspect code "a"`,
			isErr:   schema.ErrInvalidTemplate,
		},
		{
			name:    "duplicate participant",
			mutate:  func(d *Dataset) { d.Participants = append(d.Participants, d.Participants[0]) },
			wantErr: "duplicate participant id 1",
		},
		{
			name:    "unknown template",
			mutate:  func(d *Dataset) { d.Participants[0].TemplateID = 9 },
			wantErr: "references unknown template 9",
		},
		{
			name:    "participant without name",
			mutate:  func(d *Dataset) { d.Participants[0].Name = "" },
			wantErr: "invalid participant 1",
		},
		{
			name:    "ratings for unknown participant",
			mutate:  func(d *Dataset) { d.Ratings[0].ParticipantID = 2 },
			wantErr: "unknown participant 2",
		},
		{
			name:    "duplicate ratings",
			mutate:  func(d *Dataset) { d.Ratings = append(d.Ratings, d.Ratings[0]) },
			wantErr: "duplicate ratings for participant 1",
		},
		{
			name: "rating off scale",
			mutate: func(d *Dataset) {
				d.Ratings[0].Aspects["a"] = schema.RatingRecord{StandardRating: 3, IndividualRating: 7}
			},
			wantErr: "invalid ratings for participant 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := base()
			tt.mutate(ds)
			err := ds.Validate()
			require.Error(t, err)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
			}
			if tt.isErr != nil {
				assert.ErrorIs(t, err, tt.isErr)
			}
		})
	}
}
