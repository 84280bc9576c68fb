package kafgov

import "github.com/limhaneul12/kafka-gov-console/pkg/model"

// Topic types
type Topic = model.Topic
type TopicDetail = model.TopicDetail
type PartitionInfo = model.PartitionInfo
type TopicListResponse = model.TopicListResponse
type DeleteTopicResponse = model.DeleteTopicResponse

// Batch types
type TopicSpec = model.TopicSpec
type TopicBatch = model.TopicBatch
type BatchMetadata = model.BatchMetadata
type BatchApplyRequest = model.BatchApplyRequest
type BatchApplyResult = model.BatchApplyResult
type FailedTopic = model.FailedTopic
type Violation = model.Violation
type FailureType = model.FailureType

// Schema types
type Schema = model.Schema
type SchemaType = model.SchemaType
type SchemaListResponse = model.SchemaListResponse
type RegisterSchemaRequest = model.RegisterSchemaRequest
type SchemaSyncRequest = model.SchemaSyncRequest
type SchemaSyncReport = model.SchemaSyncReport

// Connect types
type Connector = model.Connector
type ConnectorTask = model.ConnectorTask
type ConnectorState = model.ConnectorState
type ConnectorListResponse = model.ConnectorListResponse
type CreateConnectorRequest = model.CreateConnectorRequest

// Policy types
type Policy = model.Policy
type PolicyRule = model.PolicyRule
type PolicyYAML = model.PolicyYAML
type PolicyListResponse = model.PolicyListResponse
type SetPolicyEnabledRequest = model.SetPolicyEnabledRequest

// Consumer group types
type ConsumerGroup = model.ConsumerGroup
type ConsumerGroupDetail = model.ConsumerGroupDetail
type ConsumerGroupListResponse = model.ConsumerGroupListResponse
type GroupState = model.GroupState
type LiveSnapshot = model.LiveSnapshot
type LagStats = model.LagStats
type PartitionLag = model.PartitionLag
type LagPoint = model.LagPoint

// Audit types
type AuditEntry = model.AuditEntry
type AuditHistoryQuery = model.AuditHistoryQuery
type AuditHistoryPage = model.AuditHistoryPage

// Constants
const (
	FailureTypeValidation = model.FailureTypeValidation
	FailureTypeHTTP       = model.FailureTypeHTTP
	FailureTypeNetwork    = model.FailureTypeNetwork

	GroupStateStable      = model.GroupStateStable
	GroupStateEmpty       = model.GroupStateEmpty
	GroupStateDead        = model.GroupStateDead
	GroupStateRebalancing = model.GroupStateRebalancing

	ConnectorStateRunning = model.ConnectorStateRunning
	ConnectorStatePaused  = model.ConnectorStatePaused
	ConnectorStateFailed  = model.ConnectorStateFailed
)
