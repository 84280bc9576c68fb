package model

import "time"

// SchemaType is the serialization format of a registered schema.
type SchemaType string

const (
	SchemaTypeAvro     SchemaType = "AVRO"
	SchemaTypeJSON     SchemaType = "JSON"
	SchemaTypeProtobuf SchemaType = "PROTOBUF"
)

// SchemaReference names another subject version a schema depends on.
type SchemaReference struct {
	Name    string `json:"name"`
	Subject string `json:"subject"`
	Version int    `json:"version"`
}

// Schema represents one subject version in the schema registry.
type Schema struct {
	Subject       string            `json:"subject"`
	Version       int               `json:"version"`
	ID            int               `json:"id"`
	SchemaType    SchemaType        `json:"schema_type"`
	Compatibility string            `json:"compatibility,omitempty"`
	ClusterID     string            `json:"cluster_id,omitempty"`
	Definition    string            `json:"definition,omitempty"`
	References    []SchemaReference `json:"references,omitempty"`
	UpdatedAt     time.Time         `json:"updated_at,omitempty"`
}

// SchemaListResponse is the response for listing schema subjects.
type SchemaListResponse struct {
	Items []Schema `json:"items"`
	Total int      `json:"total"`
}

// RegisterSchemaRequest is the request body for registering a schema version.
type RegisterSchemaRequest struct {
	Subject    string     `json:"subject" binding:"required"`
	SchemaType SchemaType `json:"schema_type"`
	Definition string     `json:"definition" binding:"required"`
	ClusterID  string     `json:"cluster_id,omitempty"`
}

// SchemaSyncRequest triggers reconciliation between the registry and the
// governance catalog for one cluster.
type SchemaSyncRequest struct {
	ClusterID string `json:"cluster_id" binding:"required"`
}

// SchemaSyncReport summarizes one registry sync run.
type SchemaSyncReport struct {
	ClusterID  string   `json:"cluster_id"`
	Synced     []string `json:"synced"`
	Skipped    []string `json:"skipped"`
	Failed     []string `json:"failed"`
	DurationMS int64    `json:"duration_ms"`
}
