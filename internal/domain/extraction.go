package domain

// PageText is one page of raw text pulled from a PDF, in document order.
type PageText struct {
	PageIndex    int     `json:"page_index"`
	Text         string  `json:"text"`
	FontSizeHint float64 `json:"font_size_hint"` // largest font size seen on the page, 0 if unknown
	// LargestText is the text of the run rendered at FontSizeHint, used to
	// attribute the hint to a logical line for title detection.
	LargestText string `json:"largest_text,omitempty"`
}

// LogicalLine is a normalized line of document text.
type LogicalLine struct {
	Text         string  `json:"text"`
	PageIndex    int     `json:"page_index"`
	FontSizeHint float64 `json:"font_size_hint"`
	// AfterBlank marks that one or more blank lines preceded this line in
	// the source. Blank lines are dropped but kept as boundary evidence.
	AfterBlank bool `json:"after_blank"`
}

// SectionTag labels a contiguous run of document lines.
type SectionTag string

const (
	SectionTitle        SectionTag = "title"
	SectionIngredients  SectionTag = "ingredients"
	SectionInstructions SectionTag = "instructions"
	SectionNotes        SectionTag = "notes"
	SectionNutrition    SectionTag = "nutrition"
	SectionUnknown      SectionTag = "unknown"
)

// Section is a labeled contiguous range of LogicalLines. Sections partition
// the line sequence: every line belongs to exactly one section and the
// section order matches document order.
type Section struct {
	Tag   SectionTag    `json:"tag"`
	Lines []LogicalLine `json:"lines"`
}

// Confidence states how trustworthy an extracted field is.
type Confidence string

const (
	ConfidenceOK        Confidence = "ok"
	ConfidenceDefaulted Confidence = "defaulted"
	ConfidenceFailed    Confidence = "failed"
)

// FieldConfidence carries per-field extraction confidence so the UI can
// highlight fields that need manual correction.
type FieldConfidence struct {
	Title        Confidence `json:"title"`
	Ingredients  Confidence `json:"ingredients"`
	Instructions Confidence `json:"instructions"`
	Nutrition    Confidence `json:"nutrition"`
}

// AmountRange covers quantities written as a span, e.g. "2-3 Eier".
type AmountRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// ParsedIngredient is one parsed line from the ingredients section.
// When no amount could be read, Name holds the original line verbatim.
type ParsedIngredient struct {
	Amount      *float64     `json:"amount,omitempty"`
	AmountRange *AmountRange `json:"amount_range,omitempty"`
	Unit        string       `json:"unit,omitempty"` // canonical unit token, empty if none
	Name        string       `json:"name"`
	Note        string       `json:"note,omitempty"`
	// IsGroupHeader marks sub-headers like "Für die Sauce:" so the UI can
	// render them as group labels instead of quantity lines.
	IsGroupHeader bool `json:"is_group_header,omitempty"`
}

// InstructionStep is one ordered preparation step. Index is 1-based and
// strictly increasing with no gaps.
type InstructionStep struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// Nutrition holds per-portion figures when the document carries them.
type Nutrition struct {
	Calories *int     `json:"calories,omitempty"`
	Protein  *float64 `json:"protein,omitempty"` // grams
	Carbs    *float64 `json:"carbs,omitempty"`   // grams
	Fat      *float64 `json:"fat,omitempty"`     // grams
}

// ExtractedRecipe is the assembled extraction result for one uploaded PDF.
// Immutable after creation; persistence happens downstream.
type ExtractedRecipe struct {
	Title        string             `json:"title"`
	Ingredients  []ParsedIngredient `json:"ingredients"`
	Instructions []InstructionStep  `json:"instructions"`
	Nutrition    *Nutrition         `json:"nutrition,omitempty"`
	Servings     string             `json:"servings,omitempty"` // "4" or "4-6"
	// Unclassified keeps lines no rule could place, so nothing is discarded.
	Unclassified []string        `json:"unclassified,omitempty"`
	Notes        []string        `json:"notes,omitempty"`
	Confidence   FieldConfidence `json:"confidence"`
}
