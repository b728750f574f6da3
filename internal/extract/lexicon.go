package extract

import (
	"strings"

	"recipe-box-server/internal/domain"
)

// Lexicon holds the locale-specific vocabulary the pipeline matches against.
// All lookups are lowercase. Adding a locale is a data change, not a code
// change.
type Lexicon struct {
	Locale string

	// SectionHeaders maps header keywords to the section they open.
	SectionHeaders map[string]domain.SectionTag

	// Units maps unit surface forms to their canonical token.
	Units map[string]string

	// Connectors are filler words trimmed from the front of ingredient names.
	Connectors map[string]bool

	// CookingVerbs hint that a line is an instruction rather than an ingredient.
	CookingVerbs map[string]bool

	// TitleIgnore lists substrings that disqualify a line as a title candidate.
	TitleIgnore []string
}

// ForLocale returns the lexicon for a locale code, falling back to German,
// the primary target locale.
func ForLocale(locale string) Lexicon {
	switch strings.ToLower(strings.TrimSpace(locale)) {
	case "en", "en-us", "en-gb":
		return EnglishLexicon()
	default:
		return GermanLexicon()
	}
}

// GermanLexicon covers the German/Swiss recipe vocabulary of the supported
// source sites (lemenu.ch, meintiptopf.ch, kochen.ch).
func GermanLexicon() Lexicon {
	return Lexicon{
		Locale: "de",
		SectionHeaders: map[string]domain.SectionTag{
			"zutaten":       domain.SectionIngredients,
			"zubereitung":   domain.SectionInstructions,
			"anleitung":     domain.SectionInstructions,
			"vorgehen":      domain.SectionInstructions,
			"notizen":       domain.SectionNotes,
			"tipp":          domain.SectionNotes,
			"tipps":         domain.SectionNotes,
			"eigenschaften": domain.SectionNotes,
			"nährwerte":     domain.SectionNutrition,
			"nährwert":      domain.SectionNutrition,
			"pro portion":   domain.SectionNutrition,
		},
		Units: map[string]string{
			"g":          "g",
			"gr":         "g",
			"gramm":      "g",
			"kg":         "kg",
			"kilogramm":  "kg",
			"ml":         "ml",
			"milliliter": "ml",
			"l":          "l",
			"liter":      "l",
			"dl":         "dl",
			"cl":         "cl",
			"el":         "EL",
			"essl.":      "EL",
			"esslöffel":  "EL",
			"tl":         "TL",
			"teel.":      "TL",
			"teelöffel":  "TL",
			"prise":      "Prise",
			"prisen":     "Prise",
			"stück":      "Stück",
			"stk":        "Stück",
			"bund":       "Bund",
			"zehe":       "Zehe",
			"zehen":      "Zehe",
			"scheibe":    "Scheibe",
			"scheiben":   "Scheibe",
			"tasse":      "Tasse",
			"tassen":     "Tasse",
			"dose":       "Dose",
			"dosen":      "Dose",
			"packung":    "Packung",
			"päckchen":   "Päckchen",
			"würfel":     "Würfel",
			"blatt":      "Blatt",
			"blätter":    "Blatt",
		},
		Connectors: map[string]bool{
			"von": true,
			"vom": true,
			"an":  true,
		},
		CookingVerbs: map[string]bool{
			"mischen": true, "rühren": true, "schneiden": true, "hacken": true,
			"kochen": true, "braten": true, "backen": true, "gießen": true,
			"hinzufügen": true, "erhitzen": true, "abkühlen": true,
			"garnieren": true, "servieren": true, "pürieren": true,
			"vermengen": true, "schlagen": true, "kneten": true, "formen": true,
			"dünsten": true, "garen": true, "lassen": true, "geben": true,
		},
		TitleIgnore: []string{
			"www.", "http", "©", "erschienen in",
			"zutaten", "zubereitung", "eigenschaften", "nährwert",
		},
	}
}

// EnglishLexicon exists to prove that locale support is a data change.
func EnglishLexicon() Lexicon {
	return Lexicon{
		Locale: "en",
		SectionHeaders: map[string]domain.SectionTag{
			"ingredients":  domain.SectionIngredients,
			"instructions": domain.SectionInstructions,
			"directions":   domain.SectionInstructions,
			"method":       domain.SectionInstructions,
			"notes":        domain.SectionNotes,
			"nutrition":    domain.SectionNutrition,
			"per serving":  domain.SectionNutrition,
		},
		Units: map[string]string{
			"g":           "g",
			"gram":        "g",
			"grams":       "g",
			"kg":          "kg",
			"ml":          "ml",
			"l":           "l",
			"tsp":         "tsp",
			"teaspoon":    "tsp",
			"teaspoons":   "tsp",
			"tbsp":        "tbsp",
			"tablespoon":  "tbsp",
			"tablespoons": "tbsp",
			"cup":         "cup",
			"cups":        "cup",
			"oz":          "oz",
			"ounce":       "oz",
			"ounces":      "oz",
			"lb":          "lb",
			"pound":       "lb",
			"pinch":       "pinch",
			"clove":       "clove",
			"cloves":      "clove",
			"slice":       "slice",
			"slices":      "slice",
			"can":         "can",
			"cans":        "can",
		},
		Connectors: map[string]bool{
			"of": true,
		},
		CookingVerbs: map[string]bool{
			"mix": true, "stir": true, "chop": true, "cook": true,
			"bake": true, "fry": true, "add": true, "heat": true,
			"combine": true, "whisk": true, "knead": true, "serve": true,
		},
		TitleIgnore: []string{
			"www.", "http", "©",
			"ingredients", "instructions", "nutrition",
		},
	}
}

// headerTag reports whether a normalized line opens a named section.
// Header lines are short; a keyword buried in prose is not an anchor.
func (lex Lexicon) headerTag(line string) (domain.SectionTag, bool) {
	trimmed := strings.ToLower(strings.TrimSpace(line))
	trimmed = strings.TrimSuffix(trimmed, ":")
	if trimmed == "" || len(trimmed) > 40 {
		return "", false
	}
	if tag, ok := lex.SectionHeaders[trimmed]; ok {
		return tag, true
	}
	for keyword, tag := range lex.SectionHeaders {
		if strings.HasPrefix(trimmed, keyword+" ") || strings.HasPrefix(trimmed, keyword+":") {
			return tag, true
		}
	}
	return "", false
}

// canonicalUnit resolves a token to its canonical unit, if it is one.
func (lex Lexicon) canonicalUnit(token string) (string, bool) {
	unit, ok := lex.Units[strings.ToLower(strings.TrimSuffix(token, "."))]
	if !ok {
		// Re-try with the trailing dot kept, for forms like "Teel.".
		unit, ok = lex.Units[strings.ToLower(token)]
	}
	return unit, ok
}
