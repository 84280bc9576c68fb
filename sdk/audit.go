package kafgov

import (
	"context"
	"strconv"
	"time"
)

// AuditService reads the governance audit trail.
type AuditService struct {
	client *Client
}

// Recent retrieves the most recent audit entries, newest first. A limit of
// 0 uses the server default.
func (s *AuditService) Recent(ctx context.Context, limit int) ([]AuditEntry, error) {
	queryParams := make(map[string]string)
	if limit > 0 {
		queryParams["limit"] = strconv.Itoa(limit)
	}
	var result []AuditEntry
	err := s.client.doJSON(ctx, "GET", s.client.buildPath("audit", "recent"), nil, &result, queryParams)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// History retrieves one page of the audit trail matching the query filters.
func (s *AuditService) History(ctx context.Context, query *AuditHistoryQuery) (*AuditHistoryPage, error) {
	queryParams := make(map[string]string)
	if query != nil {
		if query.ClusterID != "" {
			queryParams["cluster_id"] = query.ClusterID
		}
		if query.Actor != "" {
			queryParams["actor"] = query.Actor
		}
		if query.Action != "" {
			queryParams["action"] = query.Action
		}
		if !query.Since.IsZero() {
			queryParams["since"] = query.Since.UTC().Format(time.RFC3339)
		}
		if !query.Until.IsZero() {
			queryParams["until"] = query.Until.UTC().Format(time.RFC3339)
		}
		if query.Page > 0 {
			queryParams["page"] = strconv.Itoa(query.Page)
		}
		if query.PageSize > 0 {
			queryParams["page_size"] = strconv.Itoa(query.PageSize)
		}
	}
	var result AuditHistoryPage
	err := s.client.doJSON(ctx, "GET", s.client.buildPath("audit", "history"), nil, &result, queryParams)
	if err != nil {
		return nil, err
	}
	return &result, nil
}
