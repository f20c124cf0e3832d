package database

import (
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// AuditRow is one audit ledger entry as returned by ledger queries.
type AuditRow struct {
	ID           int64     `json:"id"`
	TableName    string    `json:"table_name"`
	RecordID     int64     `json:"record_id"`
	FieldName    string    `json:"field_name"`
	FieldType    string    `json:"field_type"`
	OldValue     string    `json:"old_value"`
	NewValue     string    `json:"new_value"`
	ChangeReason string    `json:"change_reason"`
	SessionID    string    `json:"session_id"`
	Timestamp    time.Time `json:"timestamp"`
}

// AuditQuery holds the optional filters for a ledger query. Zero values mean
// no filter.
type AuditQuery struct {
	TableName string
	RecordID  int64
	FieldName string
	SessionID string
	Limit     uint64
}

// QueryAuditEntries retrieves audit ledger rows matching the given filters,
// oldest first. table_name and record_id are both indexed, so the per-record
// history view is cheap.
func QueryAuditEntries(db *sql.DB, q AuditQuery) ([]AuditRow, error) {
	queryBuilder := psql.Select("id", "table_name", "record_id", "field_name", "field_type",
		"old_value", "new_value", "change_reason", "session_id", "timestamp").
		From("audit_entries").
		OrderBy("id ASC")

	if q.TableName != "" {
		queryBuilder = queryBuilder.Where(sq.Eq{"table_name": q.TableName})
	}
	if q.RecordID != 0 {
		queryBuilder = queryBuilder.Where(sq.Eq{"record_id": q.RecordID})
	}
	if q.FieldName != "" {
		queryBuilder = queryBuilder.Where(sq.Eq{"field_name": q.FieldName})
	}
	if q.SessionID != "" {
		queryBuilder = queryBuilder.Where(sq.Eq{"session_id": q.SessionID})
	}
	if q.Limit > 0 {
		queryBuilder = queryBuilder.Limit(q.Limit)
	}

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build SQL for QueryAuditEntries: %w", err)
	}

	rows, err := db.Query(sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute QueryAuditEntries query: %w", err)
	}
	defer rows.Close()

	entries := []AuditRow{}
	for rows.Next() {
		var e AuditRow
		err := rows.Scan(&e.ID, &e.TableName, &e.RecordID, &e.FieldName, &e.FieldType,
			&e.OldValue, &e.NewValue, &e.ChangeReason, &e.SessionID, &e.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit entry row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit entry rows: %w", err)
	}

	return entries, nil
}
