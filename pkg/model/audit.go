package model

import "time"

// AuditOutcome is the recorded result of an audited action.
type AuditOutcome string

const (
	AuditOutcomeSuccess AuditOutcome = "success"
	AuditOutcomeFailed  AuditOutcome = "failed"
	AuditOutcomeDenied  AuditOutcome = "denied"
)

// AuditEntry is one recorded governance action.
type AuditEntry struct {
	ID           string       `json:"id"`
	Timestamp    time.Time    `json:"timestamp"`
	Actor        string       `json:"actor"`
	Action       string       `json:"action"`
	ResourceType string       `json:"resource_type"`
	Resource     string       `json:"resource"`
	ClusterID    string       `json:"cluster_id,omitempty"`
	Environment  string       `json:"environment,omitempty"`
	ChangeID     string       `json:"change_id,omitempty"`
	Outcome      AuditOutcome `json:"outcome"`
	Detail       string       `json:"detail,omitempty"`
}

// AuditHistoryQuery filters the audit history listing.
type AuditHistoryQuery struct {
	ClusterID string
	Actor     string
	Action    string
	Since     time.Time
	Until     time.Time
	Page      int
	PageSize  int
}

// AuditHistoryPage is one page of audit history.
type AuditHistoryPage struct {
	Items    []AuditEntry `json:"items"`
	Total    int          `json:"total"`
	Page     int          `json:"page"`
	PageSize int          `json:"page_size"`
}
