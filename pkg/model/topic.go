package model

import "time"

// Topic represents a Kafka topic under governance.
type Topic struct {
	Name              string            `json:"name"`
	ClusterID         string            `json:"cluster_id"`
	Partitions        int32             `json:"partitions"`
	ReplicationFactor int16             `json:"replication_factor"`
	Configs           map[string]string `json:"configs,omitempty"`
	Owner             string            `json:"owner,omitempty"`
	Internal          bool              `json:"internal,omitempty"`
	TotalMessages     int64             `json:"total_messages,omitempty"`
	SizeBytes         int64             `json:"size_bytes,omitempty"`
	CreatedAt         time.Time         `json:"created_at,omitempty"`
}

// PartitionInfo describes a single partition of a topic.
type PartitionInfo struct {
	ID       int32   `json:"id"`
	Leader   int32   `json:"leader"`
	Replicas []int32 `json:"replicas"`
	ISR      []int32 `json:"isr"`
	Offline  bool    `json:"offline,omitempty"`
}

// TopicDetail is a topic with full partition layout and configuration.
type TopicDetail struct {
	Topic
	PartitionInfos []PartitionInfo `json:"partition_infos"`
}

// TopicListResponse is the response for listing topics.
type TopicListResponse struct {
	Items []Topic `json:"items"`
	Total int     `json:"total"`
}

// DeleteTopicResponse is returned after a topic deletion request.
type DeleteTopicResponse struct {
	Name     string `json:"name"`
	ChangeID string `json:"change_id,omitempty"`
	Deleted  bool   `json:"deleted"`
}
