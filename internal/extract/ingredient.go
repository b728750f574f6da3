package extract

import (
	"regexp"
	"strconv"
	"strings"

	"recipe-box-server/internal/domain"
)

var (
	noteRe     = regexp.MustCompile(`\(([^)]*)\)`)
	decimalRe  = regexp.MustCompile(`^(\d+(?:[.,]\d+)?)`)
	fractionRe = regexp.MustCompile(`^(\d+)\s*/\s*(\d+)`)
	rangeRe    = regexp.MustCompile(`^\s*(?:-|bis)\s*(\d+(?:[.,]\d+)?)`)
)

var vulgarFractions = map[rune]float64{
	'½': 0.5,
	'⅓': 1.0 / 3.0,
	'⅔': 2.0 / 3.0,
	'¼': 0.25,
	'¾': 0.75,
	'⅛': 0.125,
}

func isVulgarFraction(r rune) bool {
	_, ok := vulgarFractions[r]
	return ok
}

// parseIngredientLine parses one ingredients-section line into amount, unit,
// name and note. It never fails: when nothing numeric can be read, the whole
// line is kept verbatim as the name so no text is ever dropped.
func parseIngredientLine(line string, lex Lexicon) domain.ParsedIngredient {
	original := strings.TrimSpace(line)
	rest := original

	// Parenthetical text anywhere in the line becomes the note. Multiple
	// parentheticals are joined so none of the line's text is lost.
	var note string
	if ms := noteRe.FindAllStringSubmatch(rest, -1); ms != nil {
		parts := make([]string, 0, len(ms))
		for _, m := range ms {
			if p := strings.TrimSpace(m[1]); p != "" {
				parts = append(parts, p)
			}
		}
		note = strings.Join(parts, ", ")
		rest = strings.TrimSpace(collapseWhitespace(noteRe.ReplaceAllString(rest, " ")))
	}

	// Sub-headers like "Für die Sauce:" group the lines that follow. A
	// trailing colon with no numeric content marks them.
	if strings.HasSuffix(rest, ":") && !strings.ContainsAny(rest, "0123456789") {
		return domain.ParsedIngredient{
			Name:          strings.TrimSuffix(rest, ":"),
			Note:          note,
			IsGroupHeader: true,
		}
	}

	amount, amountRange, rest := parseQuantity(rest)

	var unit string
	if amount != nil || amountRange != nil {
		fields := strings.Fields(rest)
		if len(fields) > 0 {
			if canonical, ok := lex.canonicalUnit(fields[0]); ok {
				unit = canonical
				rest = strings.TrimSpace(strings.TrimPrefix(rest, fields[0]))
			}
		}
	}

	name := trimConnectors(rest, lex)
	if name == "" {
		// Never return an empty name for a non-blank line.
		name = original
	}

	return domain.ParsedIngredient{
		Amount:      amount,
		AmountRange: amountRange,
		Unit:        unit,
		Name:        name,
		Note:        note,
	}
}

// parseQuantity reads a leading amount: integer, decimal with "." or ","
// separator, vulgar or simple fraction, optionally followed by a range
// ("2-3", "2 bis 3"). Returns the remainder with the quantity removed.
func parseQuantity(s string) (*float64, *domain.AmountRange, string) {
	runes := []rune(s)
	if len(runes) == 0 {
		return nil, nil, s
	}

	// Vulgar fraction, possibly after a whole number ("1 ½").
	if v, ok := vulgarFractions[runes[0]]; ok {
		amount := v
		return &amount, nil, strings.TrimSpace(string(runes[1:]))
	}

	// Simple fraction "1/2".
	if m := fractionRe.FindStringSubmatch(s); m != nil {
		num, _ := strconv.ParseFloat(m[1], 64)
		den, _ := strconv.ParseFloat(m[2], 64)
		if den != 0 {
			amount := num / den
			return &amount, nil, strings.TrimSpace(s[len(m[0]):])
		}
	}

	m := decimalRe.FindStringSubmatch(s)
	if m == nil {
		return nil, nil, s
	}
	first := parseDecimal(m[1])
	rest := s[len(m[0]):]

	// Mixed number "1 ½".
	trimmed := strings.TrimSpace(rest)
	if r := []rune(trimmed); len(r) > 0 {
		if v, ok := vulgarFractions[r[0]]; ok {
			amount := first + v
			return &amount, nil, strings.TrimSpace(string(r[1:]))
		}
	}

	// Range "2-3" / "2 bis 3".
	if rm := rangeRe.FindStringSubmatch(rest); rm != nil {
		max := parseDecimal(rm[1])
		if max >= first {
			return nil, &domain.AmountRange{Min: first, Max: max}, strings.TrimSpace(rest[len(rm[0]):])
		}
	}

	amount := first
	return &amount, nil, strings.TrimSpace(rest)
}

func parseDecimal(s string) float64 {
	v, _ := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	return v
}

func trimConnectors(s string, lex Lexicon) string {
	fields := strings.Fields(s)
	for len(fields) > 0 && lex.Connectors[strings.ToLower(fields[0])] {
		fields = fields[1:]
	}
	return strings.Join(fields, " ")
}
