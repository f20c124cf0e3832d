package handlers

import (
	"database/sql"
	"log"
	"net/http"
	"strconv"

	"github.com/muster-archive/musterbackend/database"
)

type AuditHandler struct {
	DB *sql.DB
}

// ListAuditEntries serves the change history, filterable by table, record,
// field, and review session. Entries come back oldest first so the trail
// reads as a replay of the record's life.
func (ah *AuditHandler) ListAuditEntries(w http.ResponseWriter, r *http.Request) {
	query := database.AuditQuery{
		TableName: r.URL.Query().Get("table_name"),
		FieldName: r.URL.Query().Get("field_name"),
		SessionID: r.URL.Query().Get("session_id"),
	}

	if recordStr := r.URL.Query().Get("record_id"); recordStr != "" {
		recordID, err := strconv.ParseInt(recordStr, 10, 64)
		if err != nil {
			WriteAPIError(w, http.StatusBadRequest, "invalid_record_id", "record_id must be an integer")
			return
		}
		query.RecordID = recordID
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.ParseUint(limitStr, 10, 32)
		if err != nil {
			WriteAPIError(w, http.StatusBadRequest, "invalid_limit", "limit must be a positive integer")
			return
		}
		query.Limit = uint64(limit)
	}

	entries, err := database.QueryAuditEntries(ah.DB, query)
	if err != nil {
		log.Printf("Error querying audit entries: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "query_failed", "Failed to retrieve audit entries")
		return
	}
	if entries == nil {
		entries = []database.AuditRow{}
	}
	writeJSON(w, http.StatusOK, entries)
}
