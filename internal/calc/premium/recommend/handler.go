package recommend

import (
	"encoding/json"
	"net/http"

	sfrc "SFRC/internal/calc/sfrc"
)

type Handler struct {
	Engine *sfrc.Engine
}

func (h *Handler) Dosage(w http.ResponseWriter, r *http.Request) {
	var input DosageInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := FiberDosage(h.Engine, input)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}
