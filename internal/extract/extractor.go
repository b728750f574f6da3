// Package extract implements the PDF recipe extraction pipeline: raw bytes
// in, structured recipe out. The pipeline is pure and synchronous; each
// call owns all of its intermediate state, so independent extractions can
// run concurrently without coordination.
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"recipe-box-server/internal/domain"
)

// Extractor runs the full pipeline for one locale lexicon.
type Extractor struct {
	lex    Lexicon
	logger domain.Logger
}

// NewExtractor creates an extractor for the given lexicon.
func NewExtractor(lex Lexicon, logger domain.Logger) *Extractor {
	return &Extractor{lex: lex, logger: logger}
}

var (
	caloriesRe = regexp.MustCompile(`(?i)kcal\s*:?\s*(\d+)|(\d+)\s*kcal`)
	fatRe      = regexp.MustCompile(`(?i)fett\s*:?\s*(\d+(?:[.,]\d+)?)\s*g|fat\s*:?\s*(\d+(?:[.,]\d+)?)\s*g`)
	carbsRe    = regexp.MustCompile(`(?i)kohlenhydrate\s*:?\s*(\d+(?:[.,]\d+)?)\s*g|carbs?\s*:?\s*(\d+(?:[.,]\d+)?)\s*g`)
	proteinRe  = regexp.MustCompile(`(?i)eiweiss\s*:?\s*(\d+(?:[.,]\d+)?)\s*g|eiweiß\s*:?\s*(\d+(?:[.,]\d+)?)\s*g|protein\s*:?\s*(\d+(?:[.,]\d+)?)\s*g`)
	servingsRe = regexp.MustCompile(`(?i)für\s+(\d+)\s*(?:-\s*(\d+))?\s*(?:personen|portionen|stück)|(?:serves|for)\s+(\d+)\s*(?:-\s*(\d+))?`)
	titleNumRe = regexp.MustCompile(`^\d+[\s\-.]+`)
	titleJunkRe = regexp.MustCompile(`(?i)\.pdf|www\.|http|\.ch|\.com`)
)

// Extract runs the whole pipeline on a PDF byte stream. Only an unreadable
// input returns an error; every other shortfall is reported through the
// per-field confidence so the caller can prompt for manual correction.
func (e *Extractor) Extract(pdfBytes []byte) (*domain.ExtractedRecipe, error) {
	pages, err := extractPages(pdfBytes)
	if err != nil {
		return nil, err
	}

	lines := normalizeLines(pages)
	if len(lines) == 0 {
		return nil, ErrUnreadablePDF
	}

	sections, info := segment(lines, e.lex)

	recipe := &domain.ExtractedRecipe{
		Confidence: domain.FieldConfidence{
			Title:        domain.ConfidenceDefaulted,
			Ingredients:  domain.ConfidenceFailed,
			Instructions: domain.ConfidenceFailed,
			Nutrition:    domain.ConfidenceFailed,
		},
	}

	var ingredientLines, instructionLines, nutritionLines []string
	for _, sec := range sections {
		switch sec.Tag {
		case domain.SectionTitle:
			recipe.Title = cleanTitle(joinLines(sec.Lines))
		case domain.SectionIngredients:
			ingredientLines = append(ingredientLines, sectionTexts(sec, e.lex)...)
		case domain.SectionInstructions:
			instructionLines = append(instructionLines, sectionTexts(sec, e.lex)...)
		case domain.SectionNutrition:
			nutritionLines = append(nutritionLines, lineTexts(sec.Lines)...)
		case domain.SectionNotes:
			recipe.Notes = append(recipe.Notes, sectionTexts(sec, e.lex)...)
		case domain.SectionUnknown:
			recipe.Unclassified = append(recipe.Unclassified, lineTexts(sec.Lines)...)
		}
	}

	if recipe.Title != "" {
		recipe.Confidence.Title = domain.ConfidenceOK
	}

	recipe.Ingredients = make([]domain.ParsedIngredient, 0, len(ingredientLines))
	for _, line := range ingredientLines {
		// Serving-size lines live in the ingredients zone but are not
		// ingredients; they feed the servings field instead.
		if servingsRe.MatchString(line) {
			continue
		}
		recipe.Ingredients = append(recipe.Ingredients, parseIngredientLine(line, e.lex))
	}
	if len(recipe.Ingredients) > 0 {
		if info.structuralIngredients {
			recipe.Confidence.Ingredients = domain.ConfidenceDefaulted
		} else {
			recipe.Confidence.Ingredients = domain.ConfidenceOK
		}
	}

	recipe.Instructions = splitSteps(instructionLines)
	if recipe.Instructions == nil {
		recipe.Instructions = []domain.InstructionStep{}
	}
	if len(recipe.Instructions) > 0 {
		if info.structuralInstructions {
			recipe.Confidence.Instructions = domain.ConfidenceDefaulted
		} else {
			recipe.Confidence.Instructions = domain.ConfidenceOK
		}
	}

	if len(nutritionLines) > 0 {
		nutrition, found := parseNutrition(strings.Join(nutritionLines, " "))
		if found {
			recipe.Nutrition = nutrition
			recipe.Confidence.Nutrition = domain.ConfidenceOK
		} else {
			recipe.Confidence.Nutrition = domain.ConfidenceDefaulted
		}
	}

	recipe.Servings = parseServings(append(ingredientLines, recipe.Unclassified...))

	if e.logger != nil {
		e.logger.Debug("extraction finished",
			"title", recipe.Title,
			"ingredients", len(recipe.Ingredients),
			"steps", len(recipe.Instructions),
			"title_from_font", info.titleFromFont,
			"structural_fallback", info.structuralIngredients)
	}

	return recipe, nil
}

// sectionTexts returns a section's line texts with the header anchor lines
// themselves removed; the header labels the zone, it is not content.
func sectionTexts(sec domain.Section, lex Lexicon) []string {
	var out []string
	for _, line := range sec.Lines {
		if _, isHeader := lex.headerTag(line.Text); isHeader {
			continue
		}
		out = append(out, line.Text)
	}
	return out
}

func lineTexts(lines []domain.LogicalLine) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, l.Text)
	}
	return out
}

func joinLines(lines []domain.LogicalLine) string {
	return strings.TrimSpace(strings.Join(lineTexts(lines), " "))
}

// cleanTitle strips filename residue, URLs and leading numbering from a
// title candidate.
func cleanTitle(title string) string {
	title = titleJunkRe.ReplaceAllString(title, "")
	title = titleNumRe.ReplaceAllString(title, "")
	return strings.TrimSpace(title)
}

func parseNutrition(text string) (*domain.Nutrition, bool) {
	n := &domain.Nutrition{}
	found := false

	if m := caloriesRe.FindStringSubmatch(text); m != nil {
		v, err := strconv.Atoi(firstGroup(m))
		if err == nil {
			n.Calories = &v
			found = true
		}
	}
	if v, ok := matchGrams(fatRe, text); ok {
		n.Fat = &v
		found = true
	}
	if v, ok := matchGrams(carbsRe, text); ok {
		n.Carbs = &v
		found = true
	}
	if v, ok := matchGrams(proteinRe, text); ok {
		n.Protein = &v
		found = true
	}

	if !found {
		return nil, false
	}
	return n, true
}

func matchGrams(re *regexp.Regexp, text string) (float64, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(firstGroup(m), ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func firstGroup(m []string) string {
	for _, g := range m[1:] {
		if g != "" {
			return g
		}
	}
	return ""
}

// parseServings finds "für 4 Personen" style lines, including ranges.
func parseServings(lines []string) string {
	for _, line := range lines {
		m := servingsRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		low := m[1]
		high := m[2]
		if low == "" {
			low, high = m[3], m[4]
		}
		if low == "" {
			continue
		}
		if high != "" {
			return low + "-" + high
		}
		return low
	}
	return ""
}
