package webutil

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// Envelope holds the fields of a JSON response next to "success".
type Envelope map[string]any

// RespondSuccess writes payload with "success": true added.
func RespondSuccess(w http.ResponseWriter, status int, payload Envelope) {
	body := Envelope{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	RespondWithJSON(w, status, body)
}

// RespondWithError writes the failure envelope {"success": false, "message": ...}.
func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, Envelope{"success": false, "message": message})
}

func RespondWithJSON(w http.ResponseWriter, status int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		zap.L().Error("Failed to marshal JSON response", zap.Error(err))
		w.Header().Set(HeaderContentType, ContentTypeJSONUTF8)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success":false,"message":"Internal Server Error"}`))
		return
	}

	w.Header().Set(HeaderContentType, ContentTypeJSONUTF8)
	w.WriteHeader(status)
	_, _ = w.Write(response)
}

func RespondWithText(w http.ResponseWriter, status int, text string) {
	w.Header().Set(HeaderContentType, ContentTypeTextPlainUTF8)
	w.WriteHeader(status)
	_, _ = w.Write([]byte(text))
}
