package algo

import (
	"fmt"
	"math"

	"github.com/psymap/psymap/schema"
)

// Band is one row of a threshold table. Min is the inclusive lower bound.
type Band struct {
	Min         float64
	Code        schema.ConclusionCode
	Text        string
	Description string
	Style       schema.StyleTag
}

// competencyBands is ordered from the highest threshold down.
var competencyBands = []Band{
	{Min: 1, Text: schema.VeryCompetentBandText, Style: schema.SuccessStyle,
		Description: "Kompetensi jauh melampaui standar jabatan"},
	{Min: 0, Text: schema.CompetentBandText, Style: schema.InfoStyle,
		Description: "Kompetensi memenuhi standar jabatan"},
	{Min: -0.5, Text: schema.FairlyCompetentBandText, Style: schema.WarningStyle,
		Description: "Kompetensi sedikit di bawah standar dan masih dapat dikembangkan"},
	{Min: -1, Text: schema.LessCompetentBandText, Style: schema.DangerStyle,
		Description: "Kompetensi di bawah standar dan memerlukan pengembangan"},
	{Min: math.Inf(-1), Text: schema.NotCompetentBandText, Style: schema.CriticalStyle,
		Description: "Kompetensi jauh di bawah standar dan memerlukan pengembangan intensif"},
}

var finalBands = []Band{
	{Min: 120, Code: schema.FinalVeryCompetentCode, Text: schema.FinalVeryCompetentText, Style: schema.SuccessStyle},
	{Min: 100, Code: schema.FinalCompetentCode, Text: schema.FinalCompetentText, Style: schema.InfoStyle},
	{Min: 80, Code: schema.FinalMeetsCode, Text: schema.FinalMeetsText, Style: schema.WarningStyle},
	{Min: math.Inf(-1), Code: schema.FinalBelowCode, Text: schema.FinalBelowText, Style: schema.DangerStyle},
}

var gapStyles = map[string]schema.StyleTag{
	schema.AboveStandardText: schema.SuccessStyle,
	schema.MeetsStandardText: schema.WarningStyle,
	schema.BelowStandardText: schema.DangerStyle,
}

var potensialMap = map[string]schema.Conclusion{
	schema.AboveStandardText: {Code: schema.VeryPotentialCode, Text: schema.VeryPotentialText},
	schema.MeetsStandardText: {Code: schema.PotentialWithNotesCode, Text: schema.PotentialWithNotesText},
	schema.BelowStandardText: {Code: schema.LessPotentialCode, Text: schema.LessPotentialText},
}

var potensialStyles = map[string]schema.StyleTag{
	schema.VeryPotentialText:      schema.SuccessStyle,
	schema.PotentialWithNotesText: schema.WarningStyle,
	schema.LessPotentialText:      schema.DangerStyle,
}

// GapConclusion is the three-state rule. The original gap is checked first.
func GapConclusion(originalGap, adjustedGap float64) schema.Conclusion {
	switch {
	case originalGap >= 0:
		return schema.Conclusion{Code: schema.AboveStandardCode, Text: schema.AboveStandardText}
	case adjustedGap >= 0:
		return schema.Conclusion{Code: schema.MeetsStandardCode, Text: schema.MeetsStandardText}
	default:
		return schema.Conclusion{Code: schema.BelowStandardCode, Text: schema.BelowStandardText}
	}
}

// PotensialConclusion maps a gap conclusion label to the potensial taxonomy.
func PotensialConclusion(gapConclusionText string) (schema.Conclusion, error) {
	c, ok := potensialMap[gapConclusionText]
	if !ok {
		return schema.Conclusion{}, fmt.Errorf("%w: no potensial label for %q", schema.ErrUnmappedConclusion, gapConclusionText)
	}
	return c, nil
}

// DisplayStyleFor returns the style tag of a conclusion label within a scheme.
func DisplayStyleFor(conclusionText string, scheme schema.ConclusionScheme) (schema.StyleTag, error) {
	var (
		style schema.StyleTag
		ok    bool
	)
	switch scheme {
	case schema.GapScheme:
		style, ok = gapStyles[conclusionText]
	case schema.PotensialScheme:
		style, ok = potensialStyles[conclusionText]
	case schema.CompetencyScheme:
		style, ok = styleFromBands(competencyBands, conclusionText)
	case schema.FinalScheme:
		style, ok = styleFromBands(finalBands, conclusionText)
	default:
		return "", fmt.Errorf("%w: unknown scheme %q", schema.ErrUnmappedConclusion, scheme)
	}
	if !ok {
		return "", fmt.Errorf("%w: %q in scheme %s", schema.ErrUnmappedConclusion, conclusionText, scheme)
	}
	return style, nil
}

func styleFromBands(bands []Band, text string) (schema.StyleTag, bool) {
	for _, b := range bands {
		if b.Text == text {
			return b.Style, true
		}
	}
	return "", false
}

func pickBand(bands []Band, value float64) Band {
	for _, b := range bands {
		if value >= b.Min {
			return b
		}
	}
	// NaN compares false against every bound.
	return bands[len(bands)-1]
}

// CompetencyBand returns the five-band label for a rating gap.
func CompetencyBand(gap float64) Band {
	return pickBand(competencyBands, gap)
}

// CompetencyBands returns a copy of the five-band table.
func CompetencyBands() []Band {
	return append([]Band(nil), competencyBands...)
}

// FinalBand returns the four-band conclusion for an achievement percentage.
func FinalBand(achievementPercentage float64) schema.Conclusion {
	b := pickBand(finalBands, achievementPercentage)
	return schema.Conclusion{Code: b.Code, Text: b.Text}
}

// FinalBands returns a copy of the four-band table.
func FinalBands() []Band {
	return append([]Band(nil), finalBands...)
}

// ConclusionTables lists every static conclusion table for display.
func ConclusionTables() []schema.ConclusionTableRow {
	var rows []schema.ConclusionTableRow

	gapRules := []struct {
		c    schema.Conclusion
		rule string
	}{
		{GapConclusion(0, 0), "original gap >= 0"},
		{GapConclusion(-1, 0), "original gap < 0, adjusted gap >= 0"},
		{GapConclusion(-1, -1), "adjusted gap < 0"},
	}
	for _, g := range gapRules {
		mapped, _ := PotensialConclusion(g.c.Text)
		rows = append(rows, schema.ConclusionTableRow{
			Scheme: schema.GapScheme,
			Code:   g.c.Code,
			Text:   g.c.Text,
			Rule:   g.rule,
			Mapped: mapped.Text,
			Style:  gapStyles[g.c.Text],
		})
	}
	for _, g := range gapRules {
		mapped, _ := PotensialConclusion(g.c.Text)
		rows = append(rows, schema.ConclusionTableRow{
			Scheme: schema.PotensialScheme,
			Code:   mapped.Code,
			Text:   mapped.Text,
			Rule:   "from " + g.c.Text,
			Style:  potensialStyles[mapped.Text],
		})
	}
	for i, b := range competencyBands {
		rows = append(rows, schema.ConclusionTableRow{
			Scheme:      schema.CompetencyScheme,
			Text:        b.Text,
			Rule:        bandRule("gap", competencyBands, i),
			Description: b.Description,
			Style:       b.Style,
		})
	}
	for i, b := range finalBands {
		rows = append(rows, schema.ConclusionTableRow{
			Scheme: schema.FinalScheme,
			Code:   b.Code,
			Text:   b.Text,
			Rule:   bandRule("achievement %", finalBands, i),
			Style:  b.Style,
		})
	}
	return rows
}

func bandRule(subject string, bands []Band, i int) string {
	lower := bands[i].Min
	switch {
	case i == 0:
		return fmt.Sprintf("%s >= %g", subject, lower)
	case math.IsInf(lower, -1):
		return fmt.Sprintf("%s < %g", subject, bands[i-1].Min)
	default:
		return fmt.Sprintf("%g <= %s < %g", lower, subject, bands[i-1].Min)
	}
}
