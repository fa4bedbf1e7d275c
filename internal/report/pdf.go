// Package report renders the downloadable PDF result report for a room:
// a summary page followed by one page per finished player listing every
// solved problem.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"

	"rechenraum/internal/model"
)

// solvedProblem is the subset of a solved-list record the report needs.
// The core relays these records opaquely; only the renderer looks inside.
type solvedProblem struct {
	Type      string          `json:"type"`
	Operation string          `json:"operation"`
	A         *int            `json:"a"`
	B         *int            `json:"b"`
	Number    int             `json:"number"`
	Correct   json.RawMessage `json:"correct"`
	User      json.RawMessage `json:"user"`
}

// Generate writes the report for the given finished players (fastest
// first) into w.
func Generate(w io.Writer, roomCode string, finished []model.PlayerView) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetAutoPageBreak(true, 20)

	summaryPage(pdf, tr, roomCode, finished)
	for i, p := range finished {
		playerPage(pdf, tr, p, i)
	}

	return pdf.Output(w)
}

func summaryPage(pdf *fpdf.Fpdf, tr func(string) string, roomCode string, finished []model.PlayerView) {
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, tr("Raum: "+roomCode), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	var totalTime float64
	var totalErrors int
	for _, p := range finished {
		totalTime += p.Score.Time
		totalErrors += p.Score.WrongCount
	}
	avgTime := totalTime / float64(len(finished))
	avgErrors := float64(totalErrors) / float64(len(finished))

	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 7, tr(fmt.Sprintf("Teilnehmer abgeschlossen: %d", len(finished))), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, tr(fmt.Sprintf("Ø Lösungszeit: %.1fs", avgTime)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, tr(fmt.Sprintf("Ø Fehleranzahl: %.1f", avgErrors)), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(100, 7, "Name", "B", 0, "L", false, 0, "")
	pdf.CellFormat(35, 7, "Zeit (s)", "B", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, "Fehler", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, p := range finished {
		pdf.CellFormat(100, 6, tr(p.Username), "", 0, "L", false, 0, "")
		pdf.CellFormat(35, 6, fmt.Sprintf("%g", p.Score.Time), "", 0, "R", false, 0, "")
		pdf.CellFormat(35, 6, fmt.Sprintf("%d", p.Score.WrongCount), "", 1, "R", false, 0, "")
	}
}

func playerPage(pdf *fpdf.Fpdf, tr func(string) string, p model.PlayerView, idx int) {
	pdf.AddPage()
	name := p.Username
	if name == "" {
		name = fmt.Sprintf("Spieler %d", idx+1)
	}
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 9, tr(name), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 7, tr(fmt.Sprintf("Zeit: %gs", p.Score.Time)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, tr(fmt.Sprintf("Fehler: %d", p.Score.WrongCount)), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 10)
	if len(p.Solved) == 0 {
		pdf.CellFormat(0, 6, tr("Keine gelösten Aufgaben vorhanden."), "", 1, "L", false, 0, "")
		return
	}
	for _, raw := range p.Solved {
		var prob solvedProblem
		if err := json.Unmarshal(raw, &prob); err != nil {
			continue
		}
		pdf.MultiCell(0, 6, tr(formatProblem(&prob)), "", "L", false)
	}
}

func formatProblem(prob *solvedProblem) string {
	user := rawString(prob.User)
	if user == "" {
		user = "—"
	} else {
		user = formatFactorString(user)
	}

	if prob.Type == "primfaktorisierung" {
		correct := formatFactorString(rawString(prob.Correct))
		return fmt.Sprintf("Primfaktoren von %d = %s  (Deine Antwort: %s)", prob.Number, correct, user)
	}

	op := "·"
	switch {
	case prob.Operation == "add" || prob.Type == "add":
		op = "+"
	case prob.Operation == "subtract" || prob.Type == "subtract":
		op = "-"
	}

	left, right := "—", "—"
	if prob.A != nil {
		left = fmt.Sprintf("%d", *prob.A)
	}
	if prob.B != nil {
		right = fmt.Sprintf("%d", *prob.B)
	}
	correct := rawString(prob.Correct)
	if correct == "" {
		correct = "—"
	}
	return fmt.Sprintf("%s %s %s = %s  (Deine Antwort: %s)", left, op, right, correct, user)
}

// formatFactorString joins whitespace-separated factor tokens with a
// middle dot, matching the client's factor notation.
func formatFactorString(value string) string {
	tokens := strings.Fields(value)
	if len(tokens) == 0 {
		return "—"
	}
	return strings.Join(tokens, " · ")
}

// rawString renders a JSON scalar (string or number) as plain text.
func rawString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return string(raw)
}
