package report

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sfrc "SFRC/internal/calc/sfrc"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePDF(t *testing.T) {
	h := &Handler{Now: func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }}
	body := `{"project":"Slab S1","author":"QA","notes":"trial mix","mix":{"vf":1,"strength_mpa":40}}`
	rec := httptest.NewRecorder()
	h.Generate(rec, httptest.NewRequest(http.MethodPost, "/api/tools/report/pdf", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))
}

func TestGenerateRejectsInvalidMix(t *testing.T) {
	h := &Handler{}
	rec := httptest.NewRecorder()
	h.Generate(rec, httptest.NewRequest(http.MethodPost, "/api/tools/report/pdf", strings.NewReader(`{"mix":{"vf":0,"strength_mpa":40}}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.Generate(rec, httptest.NewRequest(http.MethodPost, "/api/tools/report/pdf", strings.NewReader(`not json`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWriteOutOfDomain(t *testing.T) {
	in := Input{Title: "Extrapolated", Mix: sfrc.Input{Vf: 3, StrengthMPa: 95, FiberDiameterMM: 0.3}}
	res, err := sfrc.Calculate(in.Mix)
	require.NoError(t, err)
	require.False(t, res.InDomain)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, in, res, sfrc.DefaultParams(), time.Now()))
	assert.Greater(t, buf.Len(), 500)
}

func TestGenerateRenderFailure(t *testing.T) {
	orig := render
	t.Cleanup(func() { render = orig })
	render = func(out io.Writer, _ Input, _ sfrc.Result, _ sfrc.Params, _ time.Time) error {
		_, _ = out.Write([]byte("%PDF-1.3 partial"))
		return errors.New("font table exhausted")
	}

	rec := httptest.NewRecorder()
	(&Handler{}).Generate(rec, httptest.NewRequest(http.MethodPost, "/api/tools/report/pdf", strings.NewReader(`{"mix":{"vf":1,"strength_mpa":40}}`)))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotEqual(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Empty(t, rec.Header().Get("Content-Disposition"))
	assert.NotContains(t, rec.Body.String(), "%PDF")
}
