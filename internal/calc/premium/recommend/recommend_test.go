package recommend

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sfrc "SFRC/internal/calc/sfrc"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFiberDosageRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		in    DosageInput
		value func(r sfrc.Result) float64
	}{
		{"characteristic fr1", DosageInput{Target: TargetFR1, TargetMPa: 4, StrengthMPa: 40},
			func(r sfrc.Result) float64 { return r.CharacteristicFR1 }},
		{"design fr3", DosageInput{Target: TargetFR3, Level: LevelDesign, TargetMPa: 3, StrengthMPa: 50, StrengthMode: sfrc.StrengthCube, FiberLengthMM: 60, FiberDiameterMM: 0.9},
			func(r sfrc.Result) float64 { return r.DesignFR3 }},
		{"mean fr3", DosageInput{Target: TargetFR3, Level: LevelMean, TargetMPa: 8, StrengthMPa: 35, FiberTensileMPa: 1500},
			func(r sfrc.Result) float64 { return r.MeanFR3 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := FiberDosage(nil, tt.in)
			require.NoError(t, err)
			assert.Greater(t, res.FiberFraction, 0.0)
			assert.InDelta(t, res.FiberFraction*100, res.FiberPercent, 1e-12)
			assert.InDelta(t, tt.in.TargetMPa, tt.value(res.Check), 1e-9)
		})
	}
}

func TestFiberDosageDefaultsToCharacteristicFR1(t *testing.T) {
	res, err := FiberDosage(nil, DosageInput{TargetMPa: 3, StrengthMPa: 40})
	require.NoError(t, err)
	assert.InDelta(t, 3/0.67, res.MeanTargetMPa, 1e-12)
	assert.InDelta(t, 3.0, res.Check.CharacteristicFR1, 1e-9)
	assert.Contains(t, res.Notes, "characteristic fr1")
}

func TestFiberDosageOutsideDomainFlagged(t *testing.T) {
	res, err := FiberDosage(nil, DosageInput{Target: TargetFR1, TargetMPa: 12, StrengthMPa: 40})
	require.NoError(t, err)
	assert.Greater(t, res.FiberPercent, 2.0)
	assert.False(t, res.Check.InDomain)
	assert.Contains(t, res.Notes, "outside")
}

func TestFiberDosageInvalid(t *testing.T) {
	for name, in := range map[string]DosageInput{
		"zero target":      {TargetMPa: 0, StrengthMPa: 40},
		"unknown target":   {Target: "fr2", TargetMPa: 3, StrengthMPa: 40},
		"unknown level":    {Level: "upper", TargetMPa: 3, StrengthMPa: 40},
		"missing strength": {TargetMPa: 3},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := FiberDosage(nil, in)
			require.Error(t, err)
			assert.True(t, sfrc.IsInvalidInput(err))
		})
	}
}

func TestFiberDosageUnreachable(t *testing.T) {
	p := sfrc.DefaultParams()
	p.FR1.Const = 5
	e, err := sfrc.NewEngine(p)
	require.NoError(t, err)
	_, err = FiberDosage(e, DosageInput{Level: LevelMean, TargetMPa: 4, StrengthMPa: 40})
	assert.True(t, sfrc.IsInvalidInput(err))

	// needs more fibre than concrete
	_, err = FiberDosage(nil, DosageInput{TargetMPa: 1000, StrengthMPa: 40})
	require.Error(t, err)
	assert.True(t, sfrc.IsInvalidInput(err))
	assert.Contains(t, err.Error(), "target_mpa")
}

func TestHandlerDosage(t *testing.T) {
	rec := httptest.NewRecorder()
	body := `{"target":"fr3","target_mpa":5,"strength_mpa":40}`
	(&Handler{}).Dosage(rec, httptest.NewRequest(http.MethodPost, "/api/tools/premium/recommend/dosage", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	var res DosageResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.InDelta(t, 5.0, res.Check.CharacteristicFR3, 1e-9)

	rec = httptest.NewRecorder()
	(&Handler{}).Dosage(rec, httptest.NewRequest(http.MethodPost, "/api/tools/premium/recommend/dosage", strings.NewReader(`{"target_mpa":-1,"strength_mpa":40}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
