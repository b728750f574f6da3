package extract

import (
	"regexp"
	"strconv"
	"strings"

	"recipe-box-server/internal/domain"
)

var ordinalRe = regexp.MustCompile(`^(\d{1,2})[.)]\s+`)

// splitSteps turns instruction-section lines into ordered steps. When the
// lines carry explicit ordinal markers forming a strictly increasing
// sequence from 1, each marker opens a step and unmarked lines continue the
// previous one. Otherwise every non-blank line is its own step. Step indexes
// are 1-based and contiguous either way.
func splitSteps(lines []string) []domain.InstructionStep {
	var texts []string
	for _, l := range lines {
		if t := strings.TrimSpace(l); t != "" {
			texts = append(texts, t)
		}
	}
	if len(texts) == 0 {
		return nil
	}

	if markers := ordinalMarkers(texts); len(markers) >= 1 {
		var steps []domain.InstructionStep
		for _, t := range texts {
			if m := ordinalRe.FindStringSubmatch(t); m != nil {
				steps = append(steps, domain.InstructionStep{
					Index: len(steps) + 1,
					Text:  strings.TrimSpace(t[len(m[0]):]),
				})
				continue
			}
			if len(steps) == 0 {
				// Leading unmarked text before step 1, keep as its own step.
				steps = append(steps, domain.InstructionStep{Index: 1, Text: t})
				continue
			}
			last := &steps[len(steps)-1]
			last.Text = last.Text + " " + t
		}
		return steps
	}

	steps := make([]domain.InstructionStep, 0, len(texts))
	for i, t := range texts {
		steps = append(steps, domain.InstructionStep{Index: i + 1, Text: t})
	}
	return steps
}

// ordinalMarkers returns the marker values found in order, but only when
// they form a strictly increasing sequence starting at 1. Anything else
// (dates, quantities, decreasing numbers) is not a step numbering.
func ordinalMarkers(texts []string) []int {
	var markers []int
	for _, t := range texts {
		m := ordinalRe.FindStringSubmatch(t)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return nil
		}
		if n != len(markers)+1 {
			return nil
		}
		markers = append(markers, n)
	}
	return markers
}
