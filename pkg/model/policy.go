package model

import "time"

// PolicySeverity is the enforcement level of a policy rule.
type PolicySeverity string

const (
	PolicySeverityError   PolicySeverity = "error"
	PolicySeverityWarning PolicySeverity = "warning"
)

// PolicyRule is one constraint inside a policy.
type PolicyRule struct {
	Field      string         `json:"field" yaml:"field" binding:"required"`
	Constraint string         `json:"constraint" yaml:"constraint" binding:"required"`
	Value      string         `json:"value,omitempty" yaml:"value,omitempty"`
	Severity   PolicySeverity `json:"severity,omitempty" yaml:"severity,omitempty"`
	Message    string         `json:"message,omitempty" yaml:"message,omitempty"`
}

// Policy is a named set of governance rules scoped to an environment.
type Policy struct {
	ID          string       `json:"id"`
	Name        string       `json:"name" yaml:"name" binding:"required"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
	Environment string       `json:"environment" yaml:"environment"`
	Enabled     bool         `json:"enabled" yaml:"enabled"`
	Rules       []PolicyRule `json:"rules" yaml:"rules"`
	CreatedAt   time.Time    `json:"created_at,omitempty"`
	UpdatedAt   time.Time    `json:"updated_at,omitempty"`
}

// PolicyYAML is the authoring format for a policy document.
type PolicyYAML struct {
	APIVersion string `yaml:"apiVersion"`
	Kind       string `yaml:"kind"`
	Policy     Policy `yaml:"policy"`
}

// PolicyListResponse is the response for listing policies.
type PolicyListResponse struct {
	Items []Policy `json:"items"`
	Total int      `json:"total"`
}

// SetPolicyEnabledRequest toggles enforcement of a policy.
type SetPolicyEnabledRequest struct {
	Enabled bool `json:"enabled"`
}
