package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/limhaneul12/kafka-gov-console/pkg/model"
)

func TestRenderBatchReportPerDocumentSections(t *testing.T) {
	results := []model.BatchApplyResult{
		{
			Success:     true,
			Environment: "dev",
			ChangeID:    "chg-7f3a",
			Applied:     []string{"orders.created", "orders.refunded"},
			Skipped:     []string{"orders.archived"},
			Failed:      []model.FailedTopic{},
		},
		{
			Success:     false,
			Environment: "prod",
			Applied:     []string{},
			Skipped:     []string{},
			Failed: []model.FailedTopic{
				{
					Name:         "payments.events",
					FailureType:  model.FailureTypeValidation,
					ErrorMessage: "partition count 64 exceeds maximum",
					Suggestions:  []string{"reduce partitions to 48"},
					Violations: []model.Violation{
						{Rule: "max-partitions", Field: "partitions", Message: "64 > 48"},
					},
				},
			},
		},
	}

	var buf bytes.Buffer
	renderBatchReport(&buf, results, false)
	out := buf.String()

	first := strings.Index(out, "Document 1 [dev] OK")
	second := strings.Index(out, "Document 2 [prod] FAILED")
	if first < 0 || second < 0 {
		t.Fatalf("report missing document sections:\n%s", out)
	}
	if first > second {
		t.Errorf("documents rendered out of input order:\n%s", out)
	}

	for _, want := range []string{
		"change: chg-7f3a",
		"applied (2): orders.created, orders.refunded",
		"skipped (1): orders.archived",
		"failed: payments.events (validation_error): partition count 64 exceeds maximum",
		"violation [max-partitions] partitions: 64 > 48",
		"suggestion: reduce partitions to 48",
		"Applied 1 of 2 documents",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestRenderBatchReportDryRunVerb(t *testing.T) {
	results := []model.BatchApplyResult{
		{Success: true, Environment: "stg", Applied: []string{"a"}, Skipped: []string{}, Failed: []model.FailedTopic{}},
	}

	var buf bytes.Buffer
	renderBatchReport(&buf, results, true)

	if !strings.Contains(buf.String(), "Validated 1 of 1 documents") {
		t.Errorf("dry-run report should say Validated:\n%s", buf.String())
	}
}
