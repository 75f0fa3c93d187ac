package sfrc

import (
	"encoding/json"
	"log"
	"net/http"
)

type Handler struct {
	Engine *Engine
	// when false, out-of-domain results are answered with 422
	AllowExtrapolation bool
}

func NewHandler(e *Engine, allowExtrapolation bool) *Handler {
	if e == nil {
		e = Default()
	}
	return &Handler{Engine: e, AllowExtrapolation: allowExtrapolation}
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := h.Engine.Predict(input)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	status := http.StatusOK
	if !res.InDomain && !h.AllowExtrapolation {
		log.Printf("sfrc: extrapolation refused: %v", res.Warnings)
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, res)
}

type ModelInfo struct {
	Params
	Defaults map[string]float64 `json:"defaults"`
}

// Model serves the coefficients, scaling factors and validity domain in use.
func (h *Handler) Model(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ModelInfo{
		Params: h.Engine.Params(),
		Defaults: map[string]float64{
			"fiber_length_mm":   DefaultLengthMM,
			"fiber_diameter_mm": DefaultDiameterMM,
			"fiber_tensile_mpa": DefaultTensileMPa,
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("sfrc: encode response: %v", err)
	}
}
