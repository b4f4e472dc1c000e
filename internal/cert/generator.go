// Package cert renders quiz certificates as one-page A4 PDFs.
package cert

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/go-pdf/fpdf"
)

// Generator writes certificates into a directory, one file per (name, topic)
// pair. The filename does not include score or date, so a later certificate
// for the same pair overwrites the earlier one.
type Generator struct {
	dir string
	now func() time.Time
}

func NewGenerator(dir string) *Generator {
	return &Generator{dir: dir, now: time.Now}
}

// NewGeneratorWithClock is test-only for deterministic output.
func NewGeneratorWithClock(dir string, now func() time.Time) *Generator {
	return &Generator{dir: dir, now: now}
}

// Generate renders the certificate and returns its file path. The issue date
// is the generator's "now" at call time, not the submission time, so repeated
// calls on different days produce different content at the same path.
func (g *Generator) Generate(name, topic string, score, total int) (string, error) {
	if err := os.MkdirAll(g.dir, 0o755); err != nil {
		return "", fmt.Errorf("create certificates dir: %w", err)
	}
	path := filepath.Join(g.dir, fmt.Sprintf("certificate_%s_%s.pdf", sanitize(name), sanitize(topic)))

	now := g.now()

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(now)
	pdf.SetModificationDate(now)
	pdf.AddPage()
	width, height := pdf.GetPageSize()

	// pale blue background with a heavy indigo border
	pdf.SetFillColor(230, 242, 255)
	pdf.Rect(0, 0, width, height, "F")
	pdf.SetDrawColor(51, 77, 179)
	pdf.SetLineWidth(1.8)
	pdf.Rect(10, 10, width-20, height-20, "D")

	pdf.SetTextColor(26, 26, 102)
	pdf.SetFont("Helvetica", "B", 28)
	pdf.SetY(42)
	pdf.CellFormat(0, 12, "Certificate of Achievement", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 18)
	pdf.SetY(63)
	pdf.CellFormat(0, 9, "This certifies that", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetY(74)
	pdf.CellFormat(0, 10, name, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 16)
	pdf.SetY(88)
	pdf.CellFormat(0, 8, fmt.Sprintf("has successfully completed the %s Quiz", titleCase(topic)), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("with a score of %d/%d", score, total), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "I", 14)
	pdf.SetY(110)
	pdf.CellFormat(0, 7, "Date: "+now.Format("02-01-2006"), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetY(121)
	pdf.CellFormat(0, 7, "Authorized by EduQuiz Portal", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("write certificate %s: %w", path, err)
	}
	return path, nil
}

// sanitize keeps filenames flat and deterministic: anything outside letters,
// digits, spaces, dashes and underscores becomes an underscore.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			return r
		case r == ' ', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}

// titleCase uppercases the first letter of each space-separated word, the way
// the topic appears on the certificate and in email subjects.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// TitleTopic is the display form of a topic, shared with the notifier.
func TitleTopic(topic string) string {
	return titleCase(topic)
}
