package kafgov

import (
	"context"
)

// ConnectService manages connectors on registered Kafka Connect clusters.
// Every operation addresses one Connect cluster by its registered ID.
type ConnectService struct {
	client *Client
}

// List retrieves the connectors deployed on a Connect cluster.
func (s *ConnectService) List(ctx context.Context, connectID string) (*ConnectorListResponse, error) {
	var result ConnectorListResponse
	err := s.client.doJSON(ctx, "GET", s.client.buildPath("connect", connectID, "connectors"), nil, &result, nil)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Get retrieves one connector with its config and task status.
func (s *ConnectService) Get(ctx context.Context, connectID, name string) (*Connector, error) {
	var result Connector
	err := s.client.doJSON(ctx, "GET", s.client.buildPath("connect", connectID, "connectors", name), nil, &result, nil)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Create deploys a new connector.
func (s *ConnectService) Create(ctx context.Context, connectID string, req *CreateConnectorRequest) (*Connector, error) {
	var result Connector
	err := s.client.doJSON(ctx, "POST", s.client.buildPath("connect", connectID, "connectors"), req, &result, nil)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateConfig replaces a connector's configuration.
func (s *ConnectService) UpdateConfig(ctx context.Context, connectID, name string, config map[string]string) (*Connector, error) {
	var result Connector
	err := s.client.doJSON(ctx, "PUT", s.client.buildPath("connect", connectID, "connectors", name, "config"), config, &result, nil)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Delete removes a connector from the Connect cluster.
func (s *ConnectService) Delete(ctx context.Context, connectID, name string) error {
	return s.client.doEmptyResponse(ctx, "DELETE", s.client.buildPath("connect", connectID, "connectors", name), nil, nil)
}

// Pause suspends a connector and its tasks.
func (s *ConnectService) Pause(ctx context.Context, connectID, name string) error {
	return s.client.doEmptyResponse(ctx, "PUT", s.client.buildPath("connect", connectID, "connectors", name, "pause"), nil, nil)
}

// Resume restarts a paused connector.
func (s *ConnectService) Resume(ctx context.Context, connectID, name string) error {
	return s.client.doEmptyResponse(ctx, "PUT", s.client.buildPath("connect", connectID, "connectors", name, "resume"), nil, nil)
}

// Restart restarts a connector, optionally including its tasks.
func (s *ConnectService) Restart(ctx context.Context, connectID, name string, includeTasks bool) error {
	queryParams := make(map[string]string)
	if includeTasks {
		queryParams["include_tasks"] = "true"
	}
	return s.client.doEmptyResponse(ctx, "POST", s.client.buildPath("connect", connectID, "connectors", name, "restart"), nil, queryParams)
}
