package model

// ConnectorState is the lifecycle state reported by a Connect worker.
type ConnectorState string

const (
	ConnectorStateRunning    ConnectorState = "RUNNING"
	ConnectorStatePaused     ConnectorState = "PAUSED"
	ConnectorStateFailed     ConnectorState = "FAILED"
	ConnectorStateUnassigned ConnectorState = "UNASSIGNED"
	ConnectorStateRestarting ConnectorState = "RESTARTING"
)

// ConnectorTask is one task of a connector.
type ConnectorTask struct {
	ID       int            `json:"id"`
	State    ConnectorState `json:"state"`
	WorkerID string         `json:"worker_id,omitempty"`
	Trace    string         `json:"trace,omitempty"`
}

// Connector represents a Kafka Connect connector on one Connect cluster.
type Connector struct {
	Name      string            `json:"name"`
	ConnectID string            `json:"connect_id"`
	Class     string            `json:"class,omitempty"`
	Type      string            `json:"type,omitempty"`
	State     ConnectorState    `json:"state"`
	WorkerID  string            `json:"worker_id,omitempty"`
	Tasks     []ConnectorTask   `json:"tasks,omitempty"`
	Config    map[string]string `json:"config,omitempty"`
	Trace     string            `json:"trace,omitempty"`
}

// ConnectorListResponse is the response for listing connectors.
type ConnectorListResponse struct {
	Items []Connector `json:"items"`
	Total int         `json:"total"`
}

// CreateConnectorRequest is the request body for creating a connector.
type CreateConnectorRequest struct {
	Name   string            `json:"name" binding:"required"`
	Config map[string]string `json:"config" binding:"required"`
}
