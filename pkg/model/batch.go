package model

// FailureType classifies why a batch document failed.
type FailureType string

const (
	FailureTypeValidation FailureType = "validation_error"
	FailureTypeHTTP       FailureType = "http_error"
	FailureTypeNetwork    FailureType = "network_error"
)

// TopicSpec is one declared topic inside a batch document.
type TopicSpec struct {
	Name              string            `json:"name" yaml:"name" binding:"required"`
	Partitions        int32             `json:"partitions" yaml:"partitions"`
	ReplicationFactor int16             `json:"replication_factor" yaml:"replicationFactor"`
	Configs           map[string]string `json:"configs,omitempty" yaml:"configs,omitempty"`
	Owner             string            `json:"owner,omitempty" yaml:"owner,omitempty"`
	Description       string            `json:"description,omitempty" yaml:"description,omitempty"`
}

// BatchMetadata is the metadata section of a batch document.
type BatchMetadata struct {
	Team   string `json:"team,omitempty" yaml:"team,omitempty"`
	Owner  string `json:"owner,omitempty" yaml:"owner,omitempty"`
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// TopicBatch is one declarative YAML document describing a set of topic
// operations for a single environment.
type TopicBatch struct {
	APIVersion  string        `json:"api_version" yaml:"apiVersion"`
	Kind        string        `json:"kind" yaml:"kind"`
	Environment string        `json:"environment" yaml:"environment"`
	ClusterID   string        `json:"cluster_id,omitempty" yaml:"clusterId,omitempty"`
	Metadata    BatchMetadata `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Topics      []TopicSpec   `json:"topics" yaml:"topics"`
}

// BatchApplyRequest is the request body for batch dry-run and apply calls.
type BatchApplyRequest struct {
	Batch TopicBatch `json:"batch" binding:"required"`
	Force bool       `json:"force,omitempty"`
}

// Violation is a single governance policy violation reported for a topic.
type Violation struct {
	Rule     string `json:"rule"`
	Field    string `json:"field,omitempty"`
	Message  string `json:"message"`
	Severity string `json:"severity,omitempty"`
}

// FailedTopic describes one topic that could not be applied.
type FailedTopic struct {
	Name         string      `json:"name"`
	FailureType  FailureType `json:"failure_type"`
	ErrorMessage string      `json:"error_message"`
	Suggestions  []string    `json:"suggestions,omitempty"`
	Violations   []Violation `json:"violations,omitempty"`
}

// BatchApplyResult is the outcome of submitting one batch document.
// Success is true only when no topic in the document failed.
type BatchApplyResult struct {
	Success     bool          `json:"success"`
	Environment string        `json:"environment"`
	ChangeID    string        `json:"change_id,omitempty"`
	Applied     []string      `json:"applied"`
	Skipped     []string      `json:"skipped"`
	Failed      []FailedTopic `json:"failed"`
}

// FailedNames returns the names of all failed topics in the result.
func (r *BatchApplyResult) FailedNames() []string {
	names := make([]string, 0, len(r.Failed))
	for _, f := range r.Failed {
		names = append(names, f.Name)
	}
	return names
}

// HasViolations reports whether any failed topic carries policy violations.
func (r *BatchApplyResult) HasViolations() bool {
	for _, f := range r.Failed {
		if len(f.Violations) > 0 {
			return true
		}
	}
	return false
}
