package kafgov

import (
	"context"
)

// PolicyService manages governance policies.
type PolicyService struct {
	client *Client
}

// List retrieves the registered policies, optionally filtered by environment.
func (s *PolicyService) List(ctx context.Context, environment string) (*PolicyListResponse, error) {
	queryParams := make(map[string]string)
	if environment != "" {
		queryParams["environment"] = environment
	}
	var result PolicyListResponse
	err := s.client.doJSON(ctx, "GET", s.client.buildPath("policies"), nil, &result, queryParams)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Get retrieves one policy by name.
func (s *PolicyService) Get(ctx context.Context, name string) (*Policy, error) {
	var result Policy
	err := s.client.doJSON(ctx, "GET", s.client.buildPath("policies", name), nil, &result, nil)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Create registers a new policy.
func (s *PolicyService) Create(ctx context.Context, policy *Policy) (*Policy, error) {
	var result Policy
	err := s.client.doJSON(ctx, "POST", s.client.buildPath("policies"), policy, &result, nil)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Update replaces a policy's rules and metadata.
func (s *PolicyService) Update(ctx context.Context, name string, policy *Policy) (*Policy, error) {
	var result Policy
	err := s.client.doJSON(ctx, "PUT", s.client.buildPath("policies", name), policy, &result, nil)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Delete removes a policy.
func (s *PolicyService) Delete(ctx context.Context, name string) error {
	return s.client.doEmptyResponse(ctx, "DELETE", s.client.buildPath("policies", name), nil, nil)
}

// SetEnabled toggles whether a policy is enforced during batch validation.
func (s *PolicyService) SetEnabled(ctx context.Context, name string, enabled bool) (*Policy, error) {
	req := &SetPolicyEnabledRequest{Enabled: enabled}
	var result Policy
	err := s.client.doJSON(ctx, "PUT", s.client.buildPath("policies", name, "enabled"), req, &result, nil)
	if err != nil {
		return nil, err
	}
	return &result, nil
}
