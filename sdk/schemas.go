package kafgov

import (
	"context"
	"strconv"
)

// SchemaService handles schema registry operations.
type SchemaService struct {
	client *Client
}

// List retrieves the schema subjects registered for a cluster.
func (s *SchemaService) List(ctx context.Context, clusterID string) (*SchemaListResponse, error) {
	queryParams := make(map[string]string)
	if clusterID != "" {
		queryParams["cluster_id"] = clusterID
	}
	var result SchemaListResponse
	err := s.client.doJSON(ctx, "GET", s.client.buildPath("schemas"), nil, &result, queryParams)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Get retrieves one version of a subject. Version 0 requests the latest.
func (s *SchemaService) Get(ctx context.Context, subject string, version int) (*Schema, error) {
	queryParams := make(map[string]string)
	if version > 0 {
		queryParams["version"] = strconv.Itoa(version)
	}
	var result Schema
	err := s.client.doJSON(ctx, "GET", s.client.buildPath("schemas", subject), nil, &result, queryParams)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Register uploads a new schema version for a subject.
func (s *SchemaService) Register(ctx context.Context, req *RegisterSchemaRequest) (*Schema, error) {
	var result Schema
	err := s.client.doJSON(ctx, "POST", s.client.buildPath("schemas"), req, &result, nil)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Delete removes a subject and all of its versions.
func (s *SchemaService) Delete(ctx context.Context, subject string) error {
	return s.client.doEmptyResponse(ctx, "DELETE", s.client.buildPath("schemas", subject), nil, nil)
}

// Sync reconciles the registry metadata cache for a cluster and returns
// the reconciliation report.
func (s *SchemaService) Sync(ctx context.Context, clusterID string) (*SchemaSyncReport, error) {
	req := &SchemaSyncRequest{ClusterID: clusterID}
	var result SchemaSyncReport
	err := s.client.doJSON(ctx, "POST", s.client.buildPath("schemas", "sync"), req, &result, nil)
	if err != nil {
		return nil, err
	}
	return &result, nil
}
