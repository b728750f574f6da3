package extract

import (
	"testing"

	"recipe-box-server/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkLines(texts ...string) []domain.LogicalLine {
	lines := make([]domain.LogicalLine, 0, len(texts))
	for _, t := range texts {
		lines = append(lines, domain.LogicalLine{Text: t})
	}
	return lines
}

func tagsOf(sections []domain.Section) []domain.SectionTag {
	tags := make([]domain.SectionTag, 0, len(sections))
	for _, s := range sections {
		tags = append(tags, s.Tag)
	}
	return tags
}

func TestSegment_KeywordAnchors(t *testing.T) {
	lines := mkLines(
		"Apfelkuchen",
		"Zutaten",
		"200g Mehl",
		"100g Zucker",
		"Zubereitung",
		"Alles vermengen und bei 180 Grad backen.",
	)

	sections, info := segment(lines, GermanLexicon())

	assert.Equal(t, []domain.SectionTag{
		domain.SectionTitle,
		domain.SectionIngredients,
		domain.SectionInstructions,
	}, tagsOf(sections))
	assert.True(t, info.anchoredIngredients)
	assert.True(t, info.anchoredInstructions)
	assert.False(t, info.structuralIngredients)
}

// No headers at all: the short numeral-led run is classified as ingredients
// and the following prose as instructions.
func TestSegment_StructuralFallback(t *testing.T) {
	lines := mkLines(
		"Schneller Pfannkuchen",
		"250g Mehl",
		"2 Eier",
		"300 ml Milch",
		"Mehl, Eier und Milch zu einem glatten Teig verrühren und portionsweise in der Pfanne ausbacken.",
	)

	sections, info := segment(lines, GermanLexicon())

	require.Len(t, sections, 3)
	assert.Equal(t, domain.SectionTitle, sections[0].Tag)
	assert.Equal(t, domain.SectionIngredients, sections[1].Tag)
	assert.Len(t, sections[1].Lines, 3)
	assert.Equal(t, domain.SectionInstructions, sections[2].Tag)
	assert.True(t, info.structuralIngredients)
	assert.True(t, info.structuralInstructions)
}

// A keyword anchor beats the structural heuristic: once any anchor exists,
// the fallback does not run.
func TestSegment_KeywordWinsOverStructural(t *testing.T) {
	lines := mkLines(
		"Salatdressing",
		"Zubereitung",
		"3 EL Essig mit Öl verrühren.",
	)

	sections, info := segment(lines, GermanLexicon())

	assert.True(t, info.anchoredInstructions)
	assert.False(t, info.structuralIngredients)
	for _, sec := range sections {
		assert.NotEqual(t, domain.SectionIngredients, sec.Tag)
	}
}

func TestSegment_TitleFromFontHint(t *testing.T) {
	lines := []domain.LogicalLine{
		{Text: "Ein Magazin für Geniesser", PageIndex: 0},
		{Text: "Zitronentarte", PageIndex: 0, FontSizeHint: 24},
		{Text: "Zutaten", PageIndex: 0},
		{Text: "3 Zitronen", PageIndex: 0},
	}

	sections, info := segment(lines, GermanLexicon())

	assert.True(t, info.titleFromFont)
	require.GreaterOrEqual(t, len(sections), 2)
	assert.Equal(t, domain.SectionUnknown, sections[0].Tag)
	assert.Equal(t, domain.SectionTitle, sections[1].Tag)
	assert.Equal(t, "Zitronentarte", sections[1].Lines[0].Text)
}

func TestSegment_UnmatchedLinesAreUnknown(t *testing.T) {
	lines := mkLines(
		"Irgendein Rezept",
		"Dies ist weder kurz noch nummeriert noch durch Marker verankert, bleibt also unklassifiziert?",
	)

	sections, _ := segment(lines, GermanLexicon())

	found := false
	for _, sec := range sections {
		if sec.Tag == domain.SectionUnknown {
			found = true
		}
	}
	assert.True(t, found, "unmatched lines must surface as unknown, never be dropped")
}

// Sections must partition the input: same line count, same order, no
// overlaps, no gaps.
func TestSegment_PartitionInvariant(t *testing.T) {
	inputs := [][]domain.LogicalLine{
		mkLines("Titel", "Zutaten", "1 Ei", "Zubereitung", "Backen."),
		mkLines("Nur Prosa ohne jede Struktur und ohne Marker."),
		mkLines("200g Mehl", "3 Eier", "Alles gut verrühren, dann eine halbe Stunde im Ofen backen lassen."),
		{},
		mkLines("Zutaten"),
	}

	for _, lines := range inputs {
		sections, _ := segment(lines, GermanLexicon())

		var flat []string
		for _, sec := range sections {
			for _, l := range sec.Lines {
				flat = append(flat, l.Text)
			}
		}

		require.Len(t, flat, len(lines))
		for i, l := range lines {
			assert.Equal(t, l.Text, flat[i])
		}
	}
}

func TestSegment_Deterministic(t *testing.T) {
	lines := mkLines("Titel", "Zutaten", "1 Ei", "2 EL Zucker", "Zubereitung", "Verrühren.")

	first, _ := segment(lines, GermanLexicon())
	second, _ := segment(lines, GermanLexicon())

	assert.Equal(t, first, second)
}
