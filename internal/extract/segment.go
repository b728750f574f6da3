package extract

import (
	"strings"
	"unicode"

	"recipe-box-server/internal/domain"
)

// segmentInfo reports how the segmentation was reached, so the orchestrator
// can grade field confidence.
type segmentInfo struct {
	titleFromFont          bool
	titleFromFirstLine     bool
	anchoredIngredients    bool
	anchoredInstructions   bool
	structuralIngredients  bool
	structuralInstructions bool
}

const (
	// shortLineMax is the structural-fallback length threshold: ingredient
	// lines are short, instruction prose is not.
	shortLineMax = 60
	// proseLineMin marks a line as instruction prose for the fallback.
	proseLineMin = 50
)

// segment partitions the line sequence into labeled contiguous sections.
// It runs an ordered rule pipeline over the immutable line slice; each rule
// only labels lines no earlier rule claimed, so a keyword anchor always
// beats the structural heuristic. Deterministic for a given input.
func segment(lines []domain.LogicalLine, lex Lexicon) ([]domain.Section, segmentInfo) {
	labels := make([]domain.SectionTag, len(lines))
	var info segmentInfo

	applyTitleRule(lines, labels, lex, &info)
	applyKeywordRule(lines, labels, lex, &info)
	if !info.anchoredIngredients && !info.anchoredInstructions {
		applyStructuralRule(lines, labels, lex, &info)
	}

	for i := range labels {
		if labels[i] == "" {
			labels[i] = domain.SectionUnknown
		}
	}

	return buildSections(lines, labels), info
}

// applyTitleRule labels the title line: the first line carrying the largest
// font-size hint on the first page, else the first usable non-blank line of
// the document. ("First non-blank line" was chosen over "longest line on
// page 1" as the no-hint fallback; it matches the dominant source layouts.)
func applyTitleRule(lines []domain.LogicalLine, labels []domain.SectionTag, lex Lexicon, info *segmentInfo) {
	best := -1
	var bestHint float64
	for i, line := range lines {
		if line.PageIndex > 0 {
			break
		}
		if line.FontSizeHint > bestHint && usableTitle(line.Text, lex) {
			best = i
			bestHint = line.FontSizeHint
		}
	}
	if best >= 0 {
		labels[best] = domain.SectionTitle
		info.titleFromFont = true
		return
	}

	for i, line := range lines {
		if usableTitle(line.Text, lex) {
			labels[i] = domain.SectionTitle
			info.titleFromFirstLine = true
			return
		}
	}
}

func usableTitle(text string, lex Lexicon) bool {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < 3 || len(trimmed) > 100 {
		return false
	}
	lower := strings.ToLower(trimmed)
	for _, ignore := range lex.TitleIgnore {
		if strings.Contains(lower, ignore) {
			return false
		}
	}
	return true
}

// applyKeywordRule labels runs opened by section-header keywords. The label
// persists until the next anchor or end of document.
func applyKeywordRule(lines []domain.LogicalLine, labels []domain.SectionTag, lex Lexicon, info *segmentInfo) {
	var current domain.SectionTag
	for i, line := range lines {
		if tag, ok := lex.headerTag(line.Text); ok {
			current = tag
			switch tag {
			case domain.SectionIngredients:
				info.anchoredIngredients = true
			case domain.SectionInstructions:
				info.anchoredInstructions = true
			}
		}
		if current != "" && labels[i] == "" {
			labels[i] = current
		}
	}
}

// applyStructuralRule is the unanchored fallback: a contiguous run of short
// lines each starting with a numeral or unit token is ingredients; the first
// long-prose run after it is instructions. Many source PDFs omit headers.
func applyStructuralRule(lines []domain.LogicalLine, labels []domain.SectionTag, lex Lexicon, info *segmentInfo) {
	ingStart, ingEnd := -1, -1
	run := 0
	for i, line := range lines {
		if labels[i] == "" && looksLikeIngredient(line.Text, lex) {
			if run == 0 {
				ingStart = i
			}
			run++
			ingEnd = i + 1
			continue
		}
		if run >= 2 {
			break
		}
		run = 0
		ingStart, ingEnd = -1, -1
	}
	if run < 2 {
		return
	}

	for i := ingStart; i < ingEnd; i++ {
		if labels[i] == "" {
			labels[i] = domain.SectionIngredients
		}
	}
	info.structuralIngredients = true

	// First prose run after the ingredient block.
	insStart := -1
	for i := ingEnd; i < len(lines); i++ {
		if labels[i] != "" {
			continue
		}
		if len(lines[i].Text) >= proseLineMin || startsWithCookingVerb(lines[i].Text, lex) {
			if insStart == -1 {
				insStart = i
			}
			labels[i] = domain.SectionInstructions
			info.structuralInstructions = true
		} else if insStart != -1 {
			break
		}
	}
}

func looksLikeIngredient(text string, lex Lexicon) bool {
	if len(text) > shortLineMax {
		return false
	}
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return false
	}
	first := fields[0]
	r := []rune(first)[0]
	if unicode.IsDigit(r) || isVulgarFraction(r) {
		return true
	}
	_, ok := lex.canonicalUnit(first)
	return ok
}

func startsWithCookingVerb(text string, lex Lexicon) bool {
	fields := strings.Fields(strings.ToLower(text))
	if len(fields) == 0 {
		return false
	}
	return lex.CookingVerbs[strings.Trim(fields[0], ".,")]
}

// buildSections groups contiguously labeled lines. The result partitions
// the input: every line lands in exactly one section, in document order.
func buildSections(lines []domain.LogicalLine, labels []domain.SectionTag) []domain.Section {
	var sections []domain.Section
	for i, line := range lines {
		if i == 0 || labels[i] != labels[i-1] {
			sections = append(sections, domain.Section{Tag: labels[i]})
		}
		last := &sections[len(sections)-1]
		last.Lines = append(last.Lines, line)
	}
	return sections
}
