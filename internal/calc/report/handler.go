package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	sfrc "SFRC/internal/calc/sfrc"

	"github.com/phpdave11/gofpdf"
)

type Input struct {
	Project string     `json:"project"`
	Author  string     `json:"author"`
	Title   string     `json:"title"`
	Notes   string     `json:"notes"`
	Mix     sfrc.Input `json:"mix"`
}

type Handler struct {
	Engine *sfrc.Engine
	Now    func() time.Time
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	engine := h.Engine
	if engine == nil {
		engine = sfrc.Default()
	}
	res, err := engine.Predict(input.Mix)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	if err := render(&buf, input, res, engine.Params(), h.now()); err != nil {
		log.Printf("report: %v", err)
		http.Error(w, "Report generation error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"sfrc-report.pdf\"")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("report: %v", err)
	}
}

// render is replaced in tests.
var render = Write

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// Write renders the calculation sheet for one mix as an A4 PDF.
func Write(out io.Writer, input Input, res sfrc.Result, p sfrc.Params, date time.Time) error {
	if input.Title == "" {
		input.Title = "SFRC Residual Flexural Strengths"
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr(input.Title))
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Project: %s", input.Project)))
	pdf.Ln(6)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Author: %s", input.Author)))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", date.Format("2006-01-02")))
	pdf.Ln(10)

	n := res.Normalized
	section(pdf, "Inputs (normalized)")
	rows(pdf, [][2]string{
		{"V_f", fmt.Sprintf("%.3f %% (%.6f)", n.FiberPercent, n.FiberFraction)},
		{"f_c", fmt.Sprintf("%.2f MPa (f_cu = %.2f MPa, f_c = %.2f f_cu)", n.StrengthFc, n.StrengthFcu, p.FcFromFcu)},
		{"l_f / d_f", fmt.Sprintf("%.1f mm / %.2f mm = %.2f", n.LengthMM, n.DiameterMM, n.AspectRatio)},
		{"f_fu", fmt.Sprintf("%.0f MPa (f_fu* = %.3f, l_f* = %.3f)", n.TensileMPa, n.TensileStar, n.LengthStar)},
	})

	section(pdf, "Results (MPa)")
	pdf.SetFont("Helvetica", "B", 10)
	for _, h := range []string{"", "mean", "characteristic", "design", "gamma"} {
		pdf.CellFormat(36, 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 10)
	resultRow(pdf, "f_R,1", res.MeanFR1, res.CharacteristicFR1, res.DesignFR1, res.GammaFR1)
	resultRow(pdf, "f_R,3", res.MeanFR3, res.CharacteristicFR3, res.DesignFR3, res.GammaFR3)
	pdf.Ln(4)

	section(pdf, "Validity")
	pdf.SetFont("Helvetica", "", 10)
	if res.InDomain {
		pdf.MultiCell(0, 5, "All inputs are within the calibration range.", "", "L", false)
	}
	for _, w := range res.Warnings {
		pdf.MultiCell(0, 5, tr("- "+w), "", "L", false)
	}
	if res.ClampedFR1 || res.ClampedFR3 {
		pdf.MultiCell(0, 5, "A negative raw mean prediction was set to 0.0 MPa.", "", "L", false)
	}
	pdf.MultiCell(0, 5, tr("Fibre type: "+p.FiberType), "", "L", false)
	pdf.Ln(4)

	if input.Notes != "" {
		section(pdf, "Notes")
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, tr(input.Notes), "", "L", false)
		pdf.Ln(4)
	}

	pdf.SetFont("Helvetica", "I", 9)
	pdf.MultiCell(0, 5, tr(p.Disclaimer), "", "L", false)

	return pdf.Output(out)
}

func section(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, title)
	pdf.Ln(8)
}

func rows(pdf *gofpdf.Fpdf, kv [][2]string) {
	pdf.SetFont("Helvetica", "", 10)
	for _, row := range kv {
		pdf.CellFormat(30, 6, row[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, row[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

func resultRow(pdf *gofpdf.Fpdf, name string, mean, char, design, gamma float64) {
	pdf.CellFormat(36, 7, name, "1", 0, "C", false, 0, "")
	for _, v := range []float64{mean, char, design} {
		pdf.CellFormat(36, 7, fmt.Sprintf("%.3f", v), "1", 0, "R", false, 0, "")
	}
	pdf.CellFormat(36, 7, fmt.Sprintf("%.2f", gamma), "1", 1, "R", false, 0, "")
}
