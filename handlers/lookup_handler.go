package handlers

import (
	"database/sql"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/muster-archive/musterbackend/database"
)

type LookupHandler struct {
	DB *sql.DB
}

// ListOptions serves the options of one reference vocabulary (regiments,
// ranks, places, ...) for the review UI's dropdowns. The table name is
// checked against an allow-list before any SQL is built.
func (lh *LookupHandler) ListOptions(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")
	if !database.IsLookupTable(table) {
		WriteAPIError(w, http.StatusNotFound, "unknown_lookup", "Unknown lookup table")
		return
	}

	options, err := database.ListLookupOptions(lh.DB, table)
	if err != nil {
		log.Printf("Error listing lookup options for %s: %v", table, err)
		WriteAPIError(w, http.StatusInternalServerError, "query_failed", "Failed to retrieve lookup options")
		return
	}
	if options == nil {
		options = []database.LookupOption{}
	}
	writeJSON(w, http.StatusOK, options)
}
