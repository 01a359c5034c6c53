package apitest

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
)

// Router exposes the desktop's endpoints.
func (d *Desktop) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "OK")
	}).Methods("GET")
	r.HandleFunc("/plan", d.postPlan).Methods("POST")
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Test"))
	}).Methods("GET")
	return r
}
