package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func hashKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

func authStack(apiKeyHash string) http.Handler {
	return Auth(apiKeyHash)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestAuth_MissingKey(t *testing.T) {
	handler := authStack(hashKey("secret"))

	req := httptest.NewRequest("POST", "/api/v1/provisions", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]string
	err := json.Unmarshal(rec.Body.Bytes(), &body)
	assert.NoError(t, err)
	assert.Equal(t, "missing API key", body["error"])
}

func TestAuth_WrongKey(t *testing.T) {
	handler := authStack(hashKey("secret"))

	req := httptest.NewRequest("POST", "/api/v1/provisions", nil)
	req.Header.Set("X-API-Key", "not-the-secret")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_ValidKey(t *testing.T) {
	handler := authStack(hashKey("secret"))

	req := httptest.NewRequest("POST", "/api/v1/provisions", nil)
	req.Header.Set("X-API-Key", "secret")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
