package response

import (
	"encoding/json"
	"net/http"
)

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"error": message})
}

// ListResponse wraps a list endpoint payload.
type ListResponse struct {
	Items any `json:"items"`
	Count int `json:"count"`
}

func WriteList(w http.ResponseWriter, status int, items any, count int) {
	WriteJSON(w, status, ListResponse{Items: items, Count: count})
}
