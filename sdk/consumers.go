package kafgov

import (
	"context"
)

// ConsumerService reads consumer group state and lag.
type ConsumerService struct {
	client *Client
}

// List retrieves the consumer groups known for a cluster.
func (s *ConsumerService) List(ctx context.Context, clusterID string) (*ConsumerGroupListResponse, error) {
	queryParams := make(map[string]string)
	if clusterID != "" {
		queryParams["cluster_id"] = clusterID
	}
	var result ConsumerGroupListResponse
	err := s.client.doJSON(ctx, "GET", s.client.buildPath("consumers"), nil, &result, queryParams)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Get retrieves one consumer group with its current lag snapshot.
func (s *ConsumerService) Get(ctx context.Context, clusterID, groupID string) (*ConsumerGroupDetail, error) {
	queryParams := make(map[string]string)
	if clusterID != "" {
		queryParams["cluster_id"] = clusterID
	}
	var result ConsumerGroupDetail
	err := s.client.doJSON(ctx, "GET", s.client.buildPath("consumers", groupID), nil, &result, queryParams)
	if err != nil {
		return nil, err
	}
	return &result, nil
}
