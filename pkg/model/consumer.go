package model

import "time"

// GroupState is the coordinator-reported state of a consumer group.
type GroupState string

const (
	GroupStateStable       GroupState = "Stable"
	GroupStateEmpty        GroupState = "Empty"
	GroupStateDead         GroupState = "Dead"
	GroupStateRebalancing  GroupState = "Rebalancing"
	GroupStatePreparing    GroupState = "PreparingRebalance"
	GroupStateCompletingRB GroupState = "CompletingRebalance"
)

// ConsumerGroup summarizes one consumer group for list views.
type ConsumerGroup struct {
	GroupID      string     `json:"group_id"`
	ClusterID    string     `json:"cluster_id"`
	State        GroupState `json:"state"`
	ProtocolType string     `json:"protocol_type,omitempty"`
	Members      int        `json:"members"`
	Coordinator  int32      `json:"coordinator"`
	Topics       []string   `json:"topics,omitempty"`
	TotalLag     int64      `json:"total_lag"`
}

// ConsumerGroupListResponse is the response for listing consumer groups.
type ConsumerGroupListResponse struct {
	Items []ConsumerGroup `json:"items"`
	Total int             `json:"total"`
}

// PartitionLag is the lag of a group on one topic partition.
type PartitionLag struct {
	Topic     string `json:"topic"`
	Partition int32  `json:"partition"`
	Lag       int64  `json:"lag"`
}

// LagStats are the lag percentiles and totals across a group's partitions.
type LagStats struct {
	P50   int64 `json:"p50"`
	P95   int64 `json:"p95"`
	Max   int64 `json:"max"`
	Total int64 `json:"total"`
}

// LiveSnapshot is one point-in-time observation of a consumer group,
// delivered over the live stream. Each snapshot supersedes the previous one.
type LiveSnapshot struct {
	Timestamp    time.Time      `json:"timestamp"`
	State        GroupState     `json:"state"`
	LagStats     LagStats       `json:"lag_stats"`
	FairnessGini float64        `json:"fairness_gini"`
	Partitions   []PartitionLag `json:"partitions"`
}

// LagPoint is the chart point derived from one live snapshot.
type LagPoint struct {
	Timestamp time.Time `json:"timestamp"`
	TotalLag  int64     `json:"total_lag"`
	P95Lag    int64     `json:"p95_lag"`
}

// Point derives the chart point for a snapshot.
func (s LiveSnapshot) Point() LagPoint {
	return LagPoint{
		Timestamp: s.Timestamp,
		TotalLag:  s.LagStats.Total,
		P95Lag:    s.LagStats.P95,
	}
}

// ConsumerGroupDetail is a group with its latest partition assignment and
// lag statistics, as shown on the group detail view.
type ConsumerGroupDetail struct {
	ConsumerGroup
	Partitions   []PartitionLag `json:"partitions"`
	LagStats     LagStats       `json:"lag_stats"`
	FairnessGini float64        `json:"fairness_gini"`
	UpdatedAt    time.Time      `json:"updated_at,omitempty"`
}
