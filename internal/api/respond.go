package api

import (
	"encoding/json"
	"net/http"
)

// envelope is the {success, message, ...} response shape shared by every
// action except get_devices and get_device_log, which answer with bare
// arrays. Shipped clients parse these shapes verbatim.
type envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	User    *userView   `json:"user,omitempty"`
	Device  *deviceView `json:"device,omitempty"`
}

// userView is the login response payload. The password hash never appears.
type userView struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// deviceView is the device shape the mobile app renders. Status and battery
// are synthesised, never stored; the id is serialised as a string.
type deviceView struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	PlantName string  `json:"plantName"`
	Status    string  `json:"status"`
	Moisture  int     `json:"moisture"`
	Light     int     `json:"light"`
	Temp      float64 `json:"temp"`
	Battery   int     `json:"battery"`
}

// writeJSON writes a JSON response with the given status code and payload.
// The Content-Type matches the original server byte-for-byte, charset
// parameter included.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeEnvelope writes an envelope response. Always HTTP 200: the contract
// carries success and failure in the body, never in the status code.
func writeEnvelope(w http.ResponseWriter, env envelope) {
	writeJSON(w, http.StatusOK, env)
}

// fail writes a failure envelope with the given client-facing message.
func fail(w http.ResponseWriter, message string) {
	writeEnvelope(w, envelope{Success: false, Message: message})
}
