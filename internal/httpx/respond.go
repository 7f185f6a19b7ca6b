package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/pasarkirana/marketplace/internal/market"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError memetakan keluarga error domain ke status HTTP. Semua error
// berhenti di sini sebagai pesan untuk user; tidak ada retry otomatis.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, market.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	case errors.Is(err, market.ErrUsernameTaken):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "username ini sudah digunakan, silakan pilih yang lain"})
	case market.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, market.ErrDependency):
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "layanan data sedang bermasalah, coba lagi"})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: body JSON tidak valid", market.ErrValidation)
	}
	return nil
}
