package batch

import (
	"encoding/json"
	"net/http"

	sfrc "SFRC/internal/calc/sfrc"
)

type Handler struct {
	Engine *sfrc.Engine
}

func (h *Handler) SFRC(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := Calculate(h.Engine, input)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}
