package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// ConsoleAuditRecord is the console's own record of a mutating action it
// forwarded to the governance backend (batch applies, deletes, policy
// edits). It lives beside the platform audit trail, scoped to this console.
type ConsoleAuditRecord struct {
	ID           string
	Timestamp    time.Time
	Actor        string
	Action       string
	ResourceType string
	Resource     string
	ClusterID    string
	Environment  string
	ChangeID     string
	Outcome      string
	Detail       string
}

// ConsoleAuditQuery filters the console audit listing.
type ConsoleAuditQuery struct {
	ClusterID string
	Actor     string
	Action    string
	Since     *time.Time
	Until     *time.Time
	Page      int
	PageSize  int
}

// ConsoleAuditStore handles console audit persistence.
type ConsoleAuditStore struct {
	db *sql.DB
}

// NewConsoleAuditStore creates a new ConsoleAuditStore using the global DB connection.
func NewConsoleAuditStore() *ConsoleAuditStore {
	return &ConsoleAuditStore{db: DB}
}

const consoleAuditSelectSQL = `
	SELECT id, ts, actor, action, resource_type, resource, cluster_id, environment, change_id, outcome, detail
	FROM console_audit`

// Append inserts one audit record.
func (s *ConsoleAuditStore) Append(ctx context.Context, rec *ConsoleAuditRecord) error {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO console_audit (id, ts, actor, action, resource_type, resource, cluster_id, environment, change_id, outcome, detail)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.Timestamp, rec.Actor, rec.Action, rec.ResourceType, rec.Resource,
		rec.ClusterID, rec.Environment, rec.ChangeID, rec.Outcome, rec.Detail)
	if err != nil {
		return fmt.Errorf("failed to append console audit record: %w", err)
	}
	return nil
}

// ListRecent returns the most recent records, newest first.
func (s *ConsoleAuditStore) ListRecent(ctx context.Context, limit int) ([]ConsoleAuditRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, consoleAuditSelectSQL+" ORDER BY ts DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent console audit records: %w", err)
	}
	defer rows.Close()
	return scanConsoleAuditRows(rows)
}

// List returns one page of records matching the query, newest first, plus
// the total match count.
func (s *ConsoleAuditStore) List(ctx context.Context, query ConsoleAuditQuery) ([]ConsoleAuditRecord, int, error) {
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.PageSize <= 0 {
		query.PageSize = 20
	}
	if query.PageSize > 100 {
		query.PageSize = 100
	}

	var where []string
	var args []any
	if query.ClusterID != "" {
		where = append(where, "cluster_id = ?")
		args = append(args, query.ClusterID)
	}
	if query.Actor != "" {
		where = append(where, "actor = ?")
		args = append(args, query.Actor)
	}
	if query.Action != "" {
		where = append(where, "action = ?")
		args = append(args, query.Action)
	}
	if query.Since != nil {
		where = append(where, "ts >= ?")
		args = append(args, *query.Since)
	}
	if query.Until != nil {
		where = append(where, "ts <= ?")
		args = append(args, *query.Until)
	}

	whereSQL := ""
	if len(where) > 0 {
		whereSQL = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	countSQL := "SELECT COUNT(1) FROM console_audit" + whereSQL
	if err := s.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count console audit records: %w", err)
	}

	offset := (query.Page - 1) * query.PageSize
	listSQL := consoleAuditSelectSQL + whereSQL + " ORDER BY ts DESC LIMIT ? OFFSET ?"
	listArgs := append(append([]any{}, args...), query.PageSize, offset)
	rows, err := s.db.QueryContext(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list console audit records: %w", err)
	}
	defer rows.Close()

	items, err := scanConsoleAuditRows(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// PurgeOlderThan removes records older than the cutoff and returns how many
// were deleted.
func (s *ConsoleAuditStore) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM console_audit WHERE ts < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge console audit records: %w", err)
	}
	return result.RowsAffected()
}

func scanConsoleAuditRows(rows *sql.Rows) ([]ConsoleAuditRecord, error) {
	var items []ConsoleAuditRecord
	for rows.Next() {
		var rec ConsoleAuditRecord
		if err := rows.Scan(&rec.ID, &rec.Timestamp, &rec.Actor, &rec.Action, &rec.ResourceType,
			&rec.Resource, &rec.ClusterID, &rec.Environment, &rec.ChangeID, &rec.Outcome, &rec.Detail); err != nil {
			return nil, fmt.Errorf("failed to scan console audit record: %w", err)
		}
		items = append(items, rec)
	}
	return items, rows.Err()
}
