package kafgov

import (
	"context"
	"strconv"
)

// TopicService handles topic operations.
type TopicService struct {
	client *Client
}

// List retrieves all governed topics of a cluster.
func (t *TopicService) List(ctx context.Context, clusterID string) ([]Topic, error) {
	queryParams := map[string]string{}
	if clusterID != "" {
		queryParams["cluster_id"] = clusterID
	}
	var result TopicListResponse
	err := t.client.doJSON(ctx, "GET", t.client.buildPath("topics"), nil, &result, queryParams)
	if err != nil {
		return nil, err
	}
	return result.Items, nil
}

// Get retrieves one topic with its partition layout.
func (t *TopicService) Get(ctx context.Context, clusterID, name string) (*TopicDetail, error) {
	queryParams := map[string]string{}
	if clusterID != "" {
		queryParams["cluster_id"] = clusterID
	}
	var result TopicDetail
	err := t.client.doJSON(ctx, "GET", t.client.buildPath("topics", name), nil, &result, queryParams)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Delete removes a topic from the cluster.
func (t *TopicService) Delete(ctx context.Context, clusterID, name string) (*DeleteTopicResponse, error) {
	queryParams := map[string]string{}
	if clusterID != "" {
		queryParams["cluster_id"] = clusterID
	}
	var result DeleteTopicResponse
	err := t.client.doJSON(ctx, "DELETE", t.client.buildPath("topics", name), nil, &result, queryParams)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// DryRunBatch validates one batch document against governance policy
// without committing anything.
func (t *TopicService) DryRunBatch(ctx context.Context, batch *TopicBatch) (*BatchApplyResult, error) {
	req := &BatchApplyRequest{Batch: *batch}
	var result BatchApplyResult
	err := t.client.doJSON(ctx, "POST", t.client.buildPath("topics", "batch", "dry-run"), req, &result, nil)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ApplyBatch commits one batch document. Policy violations block the commit
// unless force is set.
func (t *TopicService) ApplyBatch(ctx context.Context, batch *TopicBatch, force bool) (*BatchApplyResult, error) {
	req := &BatchApplyRequest{Batch: *batch, Force: force}
	queryParams := map[string]string{}
	if force {
		queryParams["force"] = strconv.FormatBool(force)
	}
	var result BatchApplyResult
	err := t.client.doJSON(ctx, "POST", t.client.buildPath("topics", "batch", "apply"), req, &result, queryParams)
	if err != nil {
		return nil, err
	}
	return &result, nil
}
