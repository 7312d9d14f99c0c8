package app

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/koperta/koperta/internal/rest"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	api := r.PathPrefix("/api/v1").Subrouter()

	// Categories
	api.HandleFunc("/categories", deps.CategoryHandler.List).Methods("GET")
	api.HandleFunc("/categories", deps.CategoryHandler.Create).Methods("POST")
	api.HandleFunc("/categories/{id}", deps.CategoryHandler.Update).Methods("PATCH")

	// Months
	api.HandleFunc("/months", deps.MonthHandler.List).Methods("GET")
	api.HandleFunc("/months", deps.MonthHandler.Create).Methods("POST")
	api.HandleFunc("/months/{id}", deps.MonthHandler.Get).Methods("GET")
	api.HandleFunc("/months/{id}/summary", deps.SummaryHandler.Get).Methods("GET")

	// Budget entries
	api.HandleFunc("/months/{id}/entries", deps.EntryHandler.List).Methods("GET")
	api.HandleFunc("/months/{id}/entries", deps.EntryHandler.Create).Methods("POST")
	api.HandleFunc("/months/{id}/entries/{entryId}", deps.EntryHandler.Update).Methods("PATCH")
	api.HandleFunc("/months/{id}/entries/{entryId}", deps.EntryHandler.Delete).Methods("DELETE")

	// Transactions
	api.HandleFunc("/transactions", deps.TransactionHandler.List).Methods("GET")
	api.HandleFunc("/transactions", deps.TransactionHandler.Create).Methods("POST")
	api.HandleFunc("/transactions/{id}", deps.TransactionHandler.Update).Methods("PATCH")
	api.HandleFunc("/transactions/{id}", deps.TransactionHandler.Delete).Methods("DELETE")

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		rest.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")
}
