package importer

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

var header = []any{"vf", "vf_mode", "strength_mpa", "strength_mode", "l_f", "d_f", "f_fu"}

func TestImport(t *testing.T) {
	buf := workbook(t, [][]any{
		header,
		{1.0, "percent", 40.0, "fc"},
		{0.012, "Decimal", 55.0, "FCU", 60.0, 0.9, 2300.0},
		{"abc", "percent", 40.0, "fc"},
		{" "},
		{0.0, "percent", 40.0, "fc"},
		{1.0, "percent"},
	})

	res, err := Import(nil, buf)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Count)
	assert.Equal(t, []int{2, 3, 6}, res.Rows)
	require.Len(t, res.Skipped, 2)
	assert.Equal(t, 4, res.Skipped[0].Row)
	assert.Equal(t, 7, res.Skipped[1].Row)

	items := res.Batch.Items
	require.Len(t, items, 3)
	require.NotNil(t, items[1].Result)
	assert.InDelta(t, 0.82*55, items[1].Result.Normalized.StrengthFc, 1e-9)
	assert.InDelta(t, 60/0.9, items[1].Result.Normalized.AspectRatio, 1e-9)
	assert.NotEmpty(t, items[2].Error)
	assert.Equal(t, 2, res.Batch.Summary.Valid)
}

func TestImportRejectsUnusableFiles(t *testing.T) {
	_, err := Import(nil, bytes.NewBufferString("not a workbook"))
	assert.Error(t, err)

	_, err = Import(nil, workbook(t, [][]any{header}))
	assert.Error(t, err)

	_, err = Import(nil, workbook(t, [][]any{header, {"x", "percent", "y", "fc"}}))
	assert.Error(t, err)
}

func TestHandlerSFRC(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "mixes.xlsx")
	require.NoError(t, err)
	_, err = part.Write(workbook(t, [][]any{header, {1.0, "percent", 40.0, "fc"}}).Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/tools/premium/import/sfrc", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	(&Handler{}).SFRC(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var res ImportResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, 1, res.Count)
	assert.Equal(t, 1, res.Batch.Summary.InDomain)

	rec = httptest.NewRecorder()
	(&Handler{}).SFRC(rec, httptest.NewRequest(http.MethodPost, "/api/tools/premium/import/sfrc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
