package extract

import (
	"strconv"
	"strings"
	"unicode"

	"recipe-box-server/internal/domain"
)

// charReplacer normalizes typographic characters the source PDFs carry so
// downstream matching sees plain ASCII punctuation. Same table the scraped
// recipe sites require.
var charReplacer = strings.NewReplacer(
	"«", `"`,
	"»", `"`,
	"‘", "'",
	"’", "'",
	"“", `"`,
	"”", `"`,
	"–", "-",
	"—", "-",
	" ", " ",
	"​", "",
)

// boilerplateMinPages is how many pages must repeat a line at the same
// relative position before it is treated as a header/footer.
const boilerplateMinPages = 3

// normalizeLines turns raw page text into the ordered LogicalLine sequence:
// typographic cleanup, whitespace collapsing, header/footer stripping,
// wrap-joining and blank-line boundary hints. Text inside a logical line is
// never paraphrased, only filtered and merged.
func normalizeLines(pages []domain.PageText) []domain.LogicalLine {
	type rawLine struct {
		text      string
		pageIndex int
		fontHint  float64
		posKey    string // relative page position, for boilerplate detection
	}

	var raw []rawLine
	for _, page := range pages {
		lines := strings.Split(strings.ReplaceAll(strings.ReplaceAll(page.Text, "\r\n", "\n"), "\r", "\n"), "\n")

		nonBlank := 0
		for _, l := range lines {
			if strings.TrimSpace(l) != "" {
				nonBlank++
			}
		}

		seen := 0
		for _, l := range lines {
			text := collapseWhitespace(charReplacer.Replace(l))

			var posKey string
			if text != "" {
				switch {
				case seen < 2:
					posKey = "head:" + strconv.Itoa(seen)
				case seen >= nonBlank-2:
					posKey = "foot:" + strconv.Itoa(nonBlank-seen)
				}
				seen++
			}

			hint := 0.0
			if text != "" && page.LargestText != "" && linesOverlap(text, page.LargestText) {
				hint = page.FontSizeHint
			}

			raw = append(raw, rawLine{
				text:      text,
				pageIndex: page.PageIndex,
				fontHint:  hint,
				posKey:    posKey,
			})
		}
	}

	// Header/footer stripping: identical text at the same relative position
	// on enough pages is boilerplate.
	counts := make(map[string]map[int]bool)
	for _, l := range raw {
		if l.text == "" || l.posKey == "" {
			continue
		}
		key := l.posKey + "|" + l.text
		if counts[key] == nil {
			counts[key] = make(map[int]bool)
		}
		counts[key][l.pageIndex] = true
	}

	var out []domain.LogicalLine
	afterBlank := false
	for _, l := range raw {
		if l.text == "" {
			afterBlank = true
			continue
		}
		if l.posKey != "" && len(counts[l.posKey+"|"+l.text]) >= boilerplateMinPages {
			continue
		}

		// Wrap-joining: a line without terminal punctuation followed by a
		// line starting lowercase was broken by layout, not by the author.
		if !afterBlank && len(out) > 0 {
			prev := &out[len(out)-1]
			if joinsWithPrevious(prev.Text, l.text) {
				prev.Text = prev.Text + " " + l.text
				continue
			}
		}

		out = append(out, domain.LogicalLine{
			Text:         l.text,
			PageIndex:    l.pageIndex,
			FontSizeHint: l.fontHint,
			AfterBlank:   afterBlank,
		})
		afterBlank = false
	}

	return out
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func joinsWithPrevious(prev, next string) bool {
	if prev == "" || next == "" {
		return false
	}
	last, _ := lastRune(prev)
	switch last {
	case '.', '!', '?', ':', ';':
		return false
	}
	first := []rune(next)[0]
	return unicode.IsLower(first)
}

func lastRune(s string) (rune, bool) {
	var r rune
	found := false
	for _, c := range s {
		r = c
		found = true
	}
	return r, found
}

// linesOverlap matches a normalized line against the largest-font run text,
// tolerating the whitespace differences between the two renderings.
func linesOverlap(line, runText string) bool {
	a := strings.ToLower(collapseWhitespace(charReplacer.Replace(runText)))
	b := strings.ToLower(line)
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
