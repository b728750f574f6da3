package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIngredientLine_AmountUnitName(t *testing.T) {
	got := parseIngredientLine("200g Mehl", GermanLexicon())

	require.NotNil(t, got.Amount)
	assert.Equal(t, 200.0, *got.Amount)
	assert.Equal(t, "g", got.Unit)
	assert.Equal(t, "Mehl", got.Name)
	assert.Empty(t, got.Note)
	assert.Nil(t, got.AmountRange)
}

func TestParseIngredientLine_FractionAndNote(t *testing.T) {
	got := parseIngredientLine("1/2 TL Salz (fein)", GermanLexicon())

	require.NotNil(t, got.Amount)
	assert.Equal(t, 0.5, *got.Amount)
	assert.Equal(t, "TL", got.Unit)
	assert.Equal(t, "Salz", got.Name)
	assert.Equal(t, "fein", got.Note)
}

// Every parenthetical ends up in the note, not just the first one.
func TestParseIngredientLine_MultipleParentheticals(t *testing.T) {
	got := parseIngredientLine("200 g Mehl (Typ 405) (gesiebt)", GermanLexicon())

	require.NotNil(t, got.Amount)
	assert.Equal(t, 200.0, *got.Amount)
	assert.Equal(t, "g", got.Unit)
	assert.Equal(t, "Mehl", got.Name)
	assert.Equal(t, "Typ 405, gesiebt", got.Note)
}

func TestParseIngredientLine_NoLeadingNumber(t *testing.T) {
	got := parseIngredientLine("Salz nach Geschmack", GermanLexicon())

	assert.Nil(t, got.Amount)
	assert.Empty(t, got.Unit)
	assert.Equal(t, "Salz nach Geschmack", got.Name)
}

func TestParseIngredientLine_VulgarFraction(t *testing.T) {
	got := parseIngredientLine("½ Zwiebel", GermanLexicon())

	require.NotNil(t, got.Amount)
	assert.Equal(t, 0.5, *got.Amount)
	assert.Equal(t, "Zwiebel", got.Name)
}

func TestParseIngredientLine_MixedNumber(t *testing.T) {
	got := parseIngredientLine("1 ½ Tassen Milch", GermanLexicon())

	require.NotNil(t, got.Amount)
	assert.Equal(t, 1.5, *got.Amount)
	assert.Equal(t, "Tasse", got.Unit)
	assert.Equal(t, "Milch", got.Name)
}

func TestParseIngredientLine_Range(t *testing.T) {
	got := parseIngredientLine("2-3 EL Olivenöl", GermanLexicon())

	assert.Nil(t, got.Amount)
	require.NotNil(t, got.AmountRange)
	assert.Equal(t, 2.0, got.AmountRange.Min)
	assert.Equal(t, 3.0, got.AmountRange.Max)
	assert.Equal(t, "EL", got.Unit)
	assert.Equal(t, "Olivenöl", got.Name)
}

func TestParseIngredientLine_DecimalComma(t *testing.T) {
	got := parseIngredientLine("1,5 kg Kartoffeln", GermanLexicon())

	require.NotNil(t, got.Amount)
	assert.Equal(t, 1.5, *got.Amount)
	assert.Equal(t, "kg", got.Unit)
	assert.Equal(t, "Kartoffeln", got.Name)
}

func TestParseIngredientLine_GroupHeader(t *testing.T) {
	got := parseIngredientLine("Für die Sauce:", GermanLexicon())

	assert.True(t, got.IsGroupHeader)
	assert.Equal(t, "Für die Sauce", got.Name)
	assert.Nil(t, got.Amount)
}

func TestParseIngredientLine_ConnectorTrimmed(t *testing.T) {
	got := parseIngredientLine("1 Prise von Muskatnuss", GermanLexicon())

	assert.Equal(t, "Prise", got.Unit)
	assert.Equal(t, "Muskatnuss", got.Name)
}

func TestParseIngredientLine_EnglishLexicon(t *testing.T) {
	got := parseIngredientLine("2 cups of flour", EnglishLexicon())

	require.NotNil(t, got.Amount)
	assert.Equal(t, 2.0, *got.Amount)
	assert.Equal(t, "cup", got.Unit)
	assert.Equal(t, "flour", got.Name)
}

// Name must never come back empty for a non-blank input line.
func TestParseIngredientLine_NameNeverEmpty(t *testing.T) {
	lines := []string{
		"200g Mehl",
		"200 g",
		"½",
		"1/2",
		"Salz",
		"3",
		"2-3",
		"etwas Pfeffer",
	}
	for _, line := range lines {
		got := parseIngredientLine(line, GermanLexicon())
		assert.NotEmpty(t, got.Name, "line %q", line)
	}
}
