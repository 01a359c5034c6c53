// Package apitest runs a stand-in desktop service for tests and local
// development.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

var requiredFields = []string{"departure", "destination", "callsign", "route"}

// Received is one request the desktop accepted or refused.
type Received struct {
	Username string
	Password string
	Body     map[string]any
}

// Desktop mimics POST /plan of the desktop application: Basic auth with user
// "User" and a PIN, 422 for a plan missing fields, and the plan echoed back.
type Desktop struct {
	*httptest.Server

	mu           sync.Mutex
	pinHash      []byte
	received     []Received
	exportErrors map[string]string
	override     int
}

// NewDesktop starts a desktop accepting pin. Close it when done.
func NewDesktop(pin string) *Desktop {
	d := Standalone(pin)
	d.Server = httptest.NewServer(d.Router())
	return d
}

// Standalone builds a desktop without starting a listener; serve Router()
// yourself.
func Standalone(pin string) *Desktop {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return &Desktop{pinHash: hash}
}

// SetExportErrors makes successful responses report exporter failures.
func (d *Desktop) SetExportErrors(errs map[string]string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.exportErrors = errs
}

// Fail answers every authenticated request with status.
func (d *Desktop) Fail(status int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.override = status
}

// Received returns the requests seen so far.
func (d *Desktop) Received() []Received {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Received(nil), d.received...)
}

func (d *Desktop) postPlan(w http.ResponseWriter, r *http.Request) {
	user, pass, _ := r.BasicAuth()
	var body map[string]any
	decodeErr := json.NewDecoder(r.Body).Decode(&body)

	d.mu.Lock()
	d.received = append(d.received, Received{Username: user, Password: pass, Body: body})
	override := d.override
	exportErrors := d.exportErrors
	d.mu.Unlock()

	if user != "User" || bcrypt.CompareHashAndPassword(d.pinHash, []byte(pass)) != nil {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	if override != 0 {
		w.WriteHeader(override)
		return
	}
	if decodeErr != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	plan, _ := body["plan"].(map[string]any)
	for _, f := range requiredFields {
		if _, ok := plan[f]; !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnprocessableEntity)
			json.NewEncoder(w).Encode(map[string]string{"error": "Missing field: " + f})
			return
		}
	}

	if exportErrors == nil {
		exportErrors = map[string]string{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"plan":           plan,
		"secondary_plan": body["secondary_plan"],
		"export_errors":  exportErrors,
	})
}
