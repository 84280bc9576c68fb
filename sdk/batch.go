package kafgov

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/limhaneul12/kafka-gov-console/pkg/model"
)

// BatchApplyOptions control how a multi-document batch input is submitted.
type BatchApplyOptions struct {
	// DryRun validates against governance policy without committing.
	DryRun bool
	// Force commits even when policy violations are reported.
	Force bool
	// Environment is stamped on documents that do not declare one.
	Environment string
	// ClusterID is stamped on documents that do not declare one.
	ClusterID string
}

// BatchApplier submits multi-document batch input to the governance backend,
// one document at a time. Every document is attempted: a document that fails
// to parse or to submit yields a failed result and processing continues with
// the next one.
type BatchApplier struct {
	topics *TopicService
}

// NewBatchApplier creates a BatchApplier over the given topic service.
func NewBatchApplier(topics *TopicService) *BatchApplier {
	return &BatchApplier{topics: topics}
}

// Applier returns a BatchApplier bound to this client.
func (c *Client) Applier() *BatchApplier {
	return NewBatchApplier(c.Topics)
}

// SplitDocuments splits multi-document YAML input on the document separator
// line. Documents that are empty or contain only comments are dropped; the
// remaining documents keep their input order.
func SplitDocuments(input string) []string {
	var docs []string
	var current []string

	flush := func() {
		doc := strings.Join(current, "\n")
		current = current[:0]
		if !isBlankDocument(doc) {
			docs = append(docs, doc)
		}
	}

	scanner := bufio.NewScanner(strings.NewReader(input))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if isSeparatorLine(line) {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()

	return docs
}

// isSeparatorLine reports whether the line is a YAML document separator.
func isSeparatorLine(line string) bool {
	trimmed := strings.TrimRight(line, " \t")
	return trimmed == "---"
}

// isBlankDocument reports whether the document holds no content besides
// whitespace and comments.
func isBlankDocument(doc string) bool {
	for _, line := range strings.Split(doc, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" && !strings.HasPrefix(trimmed, "#") {
			return false
		}
	}
	return true
}

// ParseBatchDocument parses a single batch YAML document.
func ParseBatchDocument(doc string) (*model.TopicBatch, error) {
	var batch model.TopicBatch
	if err := yaml.Unmarshal([]byte(doc), &batch); err != nil {
		return nil, fmt.Errorf("failed to parse batch document: %w", err)
	}
	if batch.Kind != "" && batch.Kind != "TopicBatch" {
		return nil, fmt.Errorf("unexpected document kind %q", batch.Kind)
	}
	return &batch, nil
}

// Run splits the input into documents and submits each one independently,
// returning exactly one result per document in input order. Submission is
// sequential and never short-circuits: a parse, validation, server, or
// transport failure for one document is captured in that document's result
// and the next document is still attempted.
func (a *BatchApplier) Run(ctx context.Context, input string, opts BatchApplyOptions) ([]model.BatchApplyResult, error) {
	docs := SplitDocuments(input)
	if len(docs) == 0 {
		return nil, fmt.Errorf("no batch documents found in input")
	}

	results := make([]model.BatchApplyResult, 0, len(docs))
	for i, doc := range docs {
		results = append(results, a.applyDocument(ctx, i, doc, opts))
	}
	return results, nil
}

// applyDocument submits one document and folds any failure into the result.
func (a *BatchApplier) applyDocument(ctx context.Context, index int, doc string, opts BatchApplyOptions) model.BatchApplyResult {
	docName := fmt.Sprintf("document-%d", index+1)

	batch, err := ParseBatchDocument(doc)
	if err != nil {
		return failedResult(opts.Environment, []string{docName}, model.FailureTypeValidation, err, nil)
	}
	if batch.Environment == "" {
		batch.Environment = opts.Environment
	}
	if batch.ClusterID == "" {
		batch.ClusterID = opts.ClusterID
	}
	if len(batch.Topics) == 0 {
		err := fmt.Errorf("document declares no topics")
		return failedResult(batch.Environment, []string{docName}, model.FailureTypeValidation, err, nil)
	}

	var result *model.BatchApplyResult
	if opts.DryRun {
		result, err = a.topics.DryRunBatch(ctx, batch)
	} else {
		result, err = a.topics.ApplyBatch(ctx, batch, opts.Force)
	}
	if err != nil {
		names := make([]string, 0, len(batch.Topics))
		for _, t := range batch.Topics {
			names = append(names, t.Name)
		}
		var apiErr *APIError
		errors.As(err, &apiErr)
		return failedResult(batch.Environment, names, ClassifyFailure(err), err, apiErr)
	}

	if result.Environment == "" {
		result.Environment = batch.Environment
	}
	normalizeResult(result)
	return *result
}

// failedResult synthesizes the result for a document that never produced a
// backend report. One failed entry is recorded per affected name.
func failedResult(environment string, names []string, failureType model.FailureType, cause error, apiErr *APIError) model.BatchApplyResult {
	result := model.BatchApplyResult{
		Success:     false,
		Environment: environment,
		Applied:     []string{},
		Skipped:     []string{},
	}
	for _, name := range names {
		failed := model.FailedTopic{
			Name:         name,
			FailureType:  failureType,
			ErrorMessage: cause.Error(),
		}
		if apiErr != nil {
			failed.Violations = apiErr.Violations
			failed.Suggestions = apiErr.Suggestions
		}
		result.Failed = append(result.Failed, failed)
	}
	return result
}

// normalizeResult keeps report slices non-nil and the success flag
// consistent with the failed list.
func normalizeResult(result *model.BatchApplyResult) {
	if result.Applied == nil {
		result.Applied = []string{}
	}
	if result.Skipped == nil {
		result.Skipped = []string{}
	}
	if result.Failed == nil {
		result.Failed = []model.FailedTopic{}
	}
	if len(result.Failed) > 0 {
		result.Success = false
	}
}
