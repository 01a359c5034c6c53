package apitest

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStandaloneRouter(t *testing.T) {
	r := Standalone("1234").Router()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK\n", rec.Body.String())

	rec = httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/plan", strings.NewReader(`{"plan":{"departure":"KJFK"}}`))
	req.SetBasicAuth("User", "1234")
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Missing field: destination")

	rec = httptest.NewRecorder()
	req = httptest.NewRequest("POST", "/plan", strings.NewReader(`{}`))
	req.SetBasicAuth("User", "0000")
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/plan", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
