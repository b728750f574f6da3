package extract

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"recipe-box-server/internal/domain"

	"github.com/gen2brain/go-fitz"
)

// ErrUnreadablePDF is the single fatal extraction error: the upload is not a
// valid PDF or carries no extractable text layer (e.g. scanned images).
var ErrUnreadablePDF = errors.New("unreadable pdf")

var (
	fontRunRe = regexp.MustCompile(`(?s)<p[^>]*font-size:(\d+(?:\.\d+)?)pt[^>]*>(.*?)</p>`)
	tagRe     = regexp.MustCompile(`<[^>]+>`)
)

// extractPages pulls raw page text from a PDF byte stream, in document
// order. The font-size hint is the largest font size seen on the page,
// taken from the HTML rendering; it is best-effort and 0 when unavailable.
func extractPages(pdfBytes []byte) ([]domain.PageText, error) {
	doc, err := fitz.NewFromMemory(pdfBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadablePDF, err)
	}
	defer doc.Close()

	numPages := doc.NumPage()
	if numPages == 0 {
		return nil, fmt.Errorf("%w: document has no pages", ErrUnreadablePDF)
	}

	pages := make([]domain.PageText, 0, numPages)
	hasText := false

	for pageNum := 0; pageNum < numPages; pageNum++ {
		text, err := doc.Text(pageNum)
		if err != nil {
			// A single broken page is not fatal; keep page order intact.
			pages = append(pages, domain.PageText{PageIndex: pageNum})
			continue
		}
		if strings.TrimSpace(text) != "" {
			hasText = true
		}

		size, largest := largestFontRun(doc, pageNum)
		pages = append(pages, domain.PageText{
			PageIndex:    pageNum,
			Text:         text,
			FontSizeHint: size,
			LargestText:  largest,
		})
	}

	if !hasText {
		return nil, fmt.Errorf("%w: no extractable text layer", ErrUnreadablePDF)
	}

	return pages, nil
}

// largestFontRun scans the page's HTML rendering and returns the largest
// font size together with the text rendered at that size.
func largestFontRun(doc *fitz.Document, pageNum int) (float64, string) {
	html, err := doc.HTML(pageNum, false)
	if err != nil {
		return 0, ""
	}

	var max float64
	var text string
	for _, m := range fontRunRe.FindAllStringSubmatch(html, -1) {
		size, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		if size > max {
			max = size
			text = strings.TrimSpace(tagRe.ReplaceAllString(m[2], " "))
		}
	}
	return max, text
}
