package importer

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	batch "SFRC/internal/calc/premium/batch"
	sfrc "SFRC/internal/calc/sfrc"

	"github.com/xuri/excelize/v2"
)

const MaxUploadSize = 10 << 20 // 10MB

type Handler struct {
	Engine *sfrc.Engine
}

type RowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

type ImportResult struct {
	Count   int          `json:"count"`
	Rows    []int        `json:"rows"`
	Batch   batch.Result `json:"batch"`
	Skipped []RowError   `json:"skipped"`
}

func (h *Handler) SFRC(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	res, err := Import(h.Engine, file)
	if err != nil {
		log.Printf("importer: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

// Import reads mixes from the first sheet of a workbook. The first row is a
// header. Columns: vf, vf_mode, strength_mpa, strength_mode, l_f, d_f, f_fu; the
// last three may be blank.
func Import(e *sfrc.Engine, rd io.Reader) (ImportResult, error) {
	f, err := excelize.OpenReader(rd)
	if err != nil {
		return ImportResult{}, fmt.Errorf("invalid file: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil || len(rows) < 2 {
		return ImportResult{}, fmt.Errorf("empty sheet")
	}

	res := ImportResult{Skipped: []RowError{}}
	var mixes []sfrc.Input
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if blank(row) {
			continue
		}
		// spreadsheet rows are 1-based
		n := i + 1
		input, err := parseRow(row)
		if err != nil {
			res.Skipped = append(res.Skipped, RowError{Row: n, Error: err.Error()})
			continue
		}
		mixes = append(mixes, input)
		res.Rows = append(res.Rows, n)
	}
	if len(mixes) == 0 {
		return ImportResult{}, fmt.Errorf("no usable rows (%d skipped)", len(res.Skipped))
	}

	res.Batch, err = batch.Calculate(e, batch.Input{Items: mixes})
	if err != nil {
		return ImportResult{}, err
	}
	res.Count = len(mixes)
	return res, nil
}

func parseRow(row []string) (sfrc.Input, error) {
	if len(row) < 4 {
		return sfrc.Input{}, fmt.Errorf("expected at least 4 columns, got %d", len(row))
	}
	vf, err := toFloat("vf", row[0])
	if err != nil {
		return sfrc.Input{}, err
	}
	strength, err := toFloat("strength_mpa", row[2])
	if err != nil {
		return sfrc.Input{}, err
	}
	in := sfrc.Input{
		Vf:           vf,
		VfMode:       sfrc.FiberMode(strings.ToLower(strings.TrimSpace(row[1]))),
		StrengthMPa:  strength,
		StrengthMode: sfrc.StrengthMode(strings.ToLower(strings.TrimSpace(row[3]))),
	}
	optional := []struct {
		name string
		dst  *float64
	}{
		{"l_f", &in.FiberLengthMM},
		{"d_f", &in.FiberDiameterMM},
		{"f_fu", &in.FiberTensileMPa},
	}
	for i, opt := range optional {
		col := 4 + i
		if len(row) <= col || strings.TrimSpace(row[col]) == "" {
			continue
		}
		if *opt.dst, err = toFloat(opt.name, row[col]); err != nil {
			return sfrc.Input{}, err
		}
	}
	return in, nil
}

func toFloat(name, s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a number", name, s)
	}
	return v, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
