package ratingstore

import (
	"fmt"
	"os"

	"github.com/psymap/psymap/schema"
	"gopkg.in/yaml.v3"
)

// Dataset is the document form of a rating source. JSON documents parse as
// well since every JSON document is valid YAML.
type Dataset struct {
	Templates    []schema.Template    `json:"templates" yaml:"templates"`
	Participants []schema.Participant `json:"participants" yaml:"participants"`
	Ratings      []schema.RatingSet   `json:"ratings" yaml:"ratings"`
}

// LoadDataset reads and validates a dataset file.
func LoadDataset(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}
	ds, err := ParseDataset(data)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", path, err)
	}
	return ds, nil
}

// ParseDataset decodes and validates a dataset document.
func ParseDataset(data []byte) (*Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("failed to parse dataset: %w", err)
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return &ds, nil
}

// Validate checks every entity and the references between them.
func (d *Dataset) Validate() error {
	templates := make(map[int64]struct{}, len(d.Templates))
	for i := range d.Templates {
		t := &d.Templates[i]
		if err := schema.ValidateTemplate(t); err != nil {
			return err
		}
		if _, dup := templates[t.ID]; dup {
			return fmt.Errorf("%w: duplicate template id %d", schema.ErrInvalidTemplate, t.ID)
		}
		templates[t.ID] = struct{}{}
	}

	participants := make(map[int64]struct{}, len(d.Participants))
	for _, p := range d.Participants {
		if err := schema.ValidateStruct(p); err != nil {
			return fmt.Errorf("invalid participant %d: %w", p.ID, err)
		}
		if _, dup := participants[p.ID]; dup {
			return fmt.Errorf("duplicate participant id %d", p.ID)
		}
		if _, ok := templates[p.TemplateID]; !ok {
			return fmt.Errorf("participant %d references unknown template %d", p.ID, p.TemplateID)
		}
		participants[p.ID] = struct{}{}
	}

	rated := make(map[int64]struct{}, len(d.Ratings))
	for _, r := range d.Ratings {
		if _, ok := participants[r.ParticipantID]; !ok {
			return fmt.Errorf("ratings reference unknown participant %d", r.ParticipantID)
		}
		if _, dup := rated[r.ParticipantID]; dup {
			return fmt.Errorf("duplicate ratings for participant %d", r.ParticipantID)
		}
		if err := schema.ValidateStruct(r); err != nil {
			return fmt.Errorf("invalid ratings for participant %d: %w", r.ParticipantID, err)
		}
		rated[r.ParticipantID] = struct{}{}
	}
	return nil
}
