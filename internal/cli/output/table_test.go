package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

type tableFixture struct {
	GroupID  string    `json:"group_id"`
	State    string    `json:"state"`
	Nested   nestedFix `json:"lag_stats"`
	Topics   []string  `json:"topics"`
	Seen     time.Time `json:"seen"`
	internal string
}

type nestedFix struct {
	P95 int64 `json:"p95"`
}

type FixtureBase struct {
	GroupID string `json:"group_id"`
}

type embeddedFixture struct {
	FixtureBase
	TotalLag int64 `json:"total_lag"`
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{"yaml", FormatYAML},
		{"yml", FormatYAML},
		{"table", FormatTable},
		{"", FormatTable},
		{"bogus", FormatTable},
	}

	for _, tt := range tests {
		if got := ParseFormat(tt.in); got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTableFormatterSelectsFields(t *testing.T) {
	formatter := NewTableFormatterWithLabels(
		[]string{"group_id", "lag_stats.p95", "topics"},
		map[string]string{"group_id": "GROUP"},
	)

	rows := []tableFixture{
		{
			GroupID: "settlement-loader",
			State:   "Stable",
			Nested:  nestedFix{P95: 1200},
			Topics:  []string{"orders.created", "orders.refunded"},
		},
	}

	var buf bytes.Buffer
	if err := formatter.Write(&buf, rows); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "GROUP") {
		t.Errorf("output missing custom label GROUP:\n%s", out)
	}
	if !strings.Contains(out, "P95") {
		t.Errorf("output missing derived label P95:\n%s", out)
	}
	if !strings.Contains(out, "settlement-loader") {
		t.Errorf("output missing row value:\n%s", out)
	}
	if !strings.Contains(out, "1200") {
		t.Errorf("output missing nested field value:\n%s", out)
	}
	if !strings.Contains(out, "orders.created,orders.refunded") {
		t.Errorf("output should join string slices:\n%s", out)
	}
	if strings.Contains(out, "Stable") {
		t.Errorf("output should omit unselected fields:\n%s", out)
	}
}

func TestTableFormatterDefaultHeadersSkipUnexported(t *testing.T) {
	formatter := NewFormatter(FormatTable)

	var buf bytes.Buffer
	err := formatter.Write(&buf, []tableFixture{{GroupID: "g1", State: "Empty", internal: "hidden"}})
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	out := buf.String()
	// tablewriter's header autoformat turns group_id into GROUP ID.
	if !strings.Contains(out, "GROUP ID") {
		t.Errorf("output missing default header GROUP ID:\n%s", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("output leaked unexported field:\n%s", out)
	}
}

func TestTableFormatterPromotedFields(t *testing.T) {
	formatter := NewTableFormatter([]string{"group_id", "total_lag"})

	var buf bytes.Buffer
	err := formatter.Write(&buf, []embeddedFixture{
		{FixtureBase: FixtureBase{GroupID: "g1"}, TotalLag: 400},
	})
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "g1") {
		t.Errorf("output missing promoted field value:\n%s", out)
	}
	if !strings.Contains(out, "400") {
		t.Errorf("output missing own field value:\n%s", out)
	}
}

func TestTableFormatterRelativeTime(t *testing.T) {
	formatter := NewTableFormatter([]string{"group_id", "seen"})

	var buf bytes.Buffer
	err := formatter.Write(&buf, []tableFixture{
		{GroupID: "g1", Seen: time.Now().Add(-5 * time.Minute)},
	})
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if !strings.Contains(buf.String(), "5m ago") {
		t.Errorf("recent timestamps should render relatively:\n%s", buf.String())
	}
}

func TestTableFormatterEmptySlice(t *testing.T) {
	var buf bytes.Buffer
	if err := NewFormatter(FormatTable).Write(&buf, []tableFixture{}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !strings.Contains(buf.String(), "No items found") {
		t.Errorf("empty slice should render placeholder, got:\n%s", buf.String())
	}
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	err := NewFormatter(FormatJSON).Write(&buf, tableFixture{GroupID: "g1", State: "Stable"})
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["group_id"] != "g1" {
		t.Errorf("group_id = %v, want g1", decoded["group_id"])
	}
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	err := NewFormatter(FormatYAML).Write(&buf, map[string]string{"name": "orders.created"})
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !strings.Contains(buf.String(), "name: orders.created") {
		t.Errorf("unexpected YAML output:\n%s", buf.String())
	}
}
