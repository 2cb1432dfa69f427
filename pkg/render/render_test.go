package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"northcheck/pkg/fault"
)

func TestLevelBoundaries(t *testing.T) {
	tests := []struct {
		score    float64
		expected string
	}{
		{100, LevelVeryHigh},
		{90, LevelVeryHigh},
		{89.99, LevelHigh},
		{89, LevelHigh},
		{70, LevelHigh},
		{69, LevelModerate},
		{40, LevelModerate},
		{39, LevelLow},
		{10, LevelLow},
		{9, LevelVeryLow},
		{0, LevelVeryLow},
		{-5, LevelVeryLow},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.score), func(t *testing.T) {
			if got := Level(tt.score); got != tt.expected {
				t.Errorf("Level(%v) = %q, expected %q", tt.score, got, tt.expected)
			}
		})
	}
}

func TestLevelMonotonic(t *testing.T) {
	rank := map[string]int{LevelVeryLow: 0, LevelLow: 1, LevelModerate: 2, LevelHigh: 3, LevelVeryHigh: 4}
	prev := rank[Level(-1)]
	for s := 0.0; s <= 110; s += 0.5 {
		r := rank[Level(s)]
		if r < prev {
			t.Fatalf("Level is not monotonic at %v: %s", s, Level(s))
		}
		prev = r
	}
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		found bool
	}{
		{"full", `{"data":{"risk":{"score":95,"categories":["malware"]}}}`, true},
		{"no score", `{"data":{"risk":{"categories":[]}}}`, true},
		{"object categories", `{"data":{"risk":{"score":95,"categories":[{"id":3,"name":"malware"}]}}}`, true},
		{"mixed categories", `{"data":{"risk":{"score":95,"categories":["malware",7]}}}`, true},
		{"string score", `{"data":{"risk":{"score":"95","categories":["malware"]}}}`, true},
		{"bad score", `{"data":{"risk":{"score":true}}}`, true},
		{"no risk", `{"data":{"status":"clean"}}`, false},
		{"null risk", `{"data":{"risk":null}}`, false},
		{"scalar risk", `{"data":{"risk":"high"}}`, false},
		{"null data", `{"data":null}`, false},
		{"no data", `{"message":"ok"}`, false},
		{"array body", `[1,2,3]`, false},
		{"string body", `"hello"`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, found := Extract(json.RawMessage(tt.body))
			if found != tt.found {
				t.Errorf("Extract(%s) found = %v, expected %v", tt.body, found, tt.found)
			}
		})
	}
}

func TestSummaryWithRisk(t *testing.T) {
	raw := json.RawMessage(`{"data":{"risk":{"score":95,"categories":["malware","phishing"]}}}`)
	var buf bytes.Buffer
	if err := Summary(&buf, raw); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	for _, want := range []string{
		"--- Analysis Result ---",
		"Risk Level: Very High (Score: 95)",
		"Category(s): malware, phishing",
		"--- Raw Details ---",
		`"score": 95`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestSummaryEmptyCategoriesAndFractionalScore(t *testing.T) {
	out := SummaryText(json.RawMessage(`{"data":{"risk":{"score":42.5,"categories":[]}}}`))
	if !strings.Contains(out, "Risk Level: Moderate (Score: 42.5)") {
		t.Errorf("unexpected summary:\n%s", out)
	}
	if !strings.Contains(out, "Category(s): Unknown") {
		t.Errorf("empty categories should render Unknown:\n%s", out)
	}
}

func TestSummaryMissingScore(t *testing.T) {
	out := SummaryText(json.RawMessage(`{"data":{"risk":{"categories":["ads"]}}}`))
	if !strings.Contains(out, "Risk Level: Unknown (Score: n/a)") {
		t.Errorf("unexpected summary:\n%s", out)
	}
}

func TestSummaryLenientRiskFields(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		level      string
		categories string
	}{
		{"object categories", `{"data":{"risk":{"score":95,"categories":[{"id":3,"name":"malware"}]}}}`, "Very High (Score: 95)", "Unknown"},
		{"mixed categories", `{"data":{"risk":{"score":95,"categories":["malware",7,"phishing"]}}}`, "Very High (Score: 95)", "malware, phishing"},
		{"string score", `{"data":{"risk":{"score":"95","categories":["malware"]}}}`, "Very High (Score: 95)", "malware"},
		{"padded string score", `{"data":{"risk":{"score":" 12.5 "}}}`, "Low (Score: 12.5)", "Unknown"},
		{"non-numeric score", `{"data":{"risk":{"score":"high","categories":"malware"}}}`, "Unknown (Score: n/a)", "Unknown"},
		{"null score", `{"data":{"risk":{"score":null}}}`, "Unknown (Score: n/a)", "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := SummaryText(json.RawMessage(tt.body))
			if !strings.Contains(out, "Risk Level: "+tt.level) {
				t.Errorf("expected level %q:\n%s", tt.level, out)
			}
			if !strings.Contains(out, "Category(s): "+tt.categories+"\n") {
				t.Errorf("expected categories %q:\n%s", tt.categories, out)
			}
		})
	}
}

func TestSummaryWithoutRisk(t *testing.T) {
	raw := json.RawMessage(`{"data":{"status":"clean"}}`)
	out := SummaryText(raw)
	if !strings.HasPrefix(out, "No risk information found.") {
		t.Errorf("expected no-risk message first:\n%s", out)
	}
	if !strings.Contains(out, `"status": "clean"`) {
		t.Errorf("expected raw payload after the message:\n%s", out)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	raw := json.RawMessage(`{"z":1,"a":{"risk":{"score":3}},"list":[true,null,"x"],"n":1.25}`)
	var buf bytes.Buffer
	if err := JSON(&buf, raw); err != nil {
		t.Fatal(err)
	}

	var got, expected interface{}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	json.Unmarshal(raw, &expected)
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("round trip mismatch: %v vs %v", got, expected)
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, buf.Bytes()); err != nil {
		t.Fatal(err)
	}
	if compact.String() != string(raw) {
		t.Errorf("key order or content changed: %s", compact.String())
	}
}

func TestFailureMessages(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		showBody bool
		contains []string
		excludes []string
	}{
		{
			name:     "validation with hint",
			err:      fault.Validationf("--size option is required when using --hash").WithHint("Example: nc file dummy --hash abc --size 1"),
			contains: []string{"❌ Error: --size option is required", "   Example: nc file dummy"},
		},
		{
			name:     "not found",
			err:      fault.File(fault.NotFound, "/tmp/missing.exe", nil),
			contains: []string{"File not found at /tmp/missing.exe"},
		},
		{
			name:     "permission denied",
			err:      fault.File(fault.PermissionDenied, "/root/secret", nil),
			contains: []string{"Permission denied accessing /root/secret"},
		},
		{
			name:     "io failure",
			err:      fault.File(fault.IOFailure, "/dev/dir", nil),
			contains: []string{"Cannot access file at /dev/dir"},
		},
		{
			name:     "timeout",
			err:      fault.Wrap(fault.Timeout, fmt.Errorf("deadline")),
			contains: []string{"Request timeout"},
			excludes: []string{"Network error", "API Error"},
		},
		{
			name:     "network",
			err:      fault.Wrap(fault.Network, fmt.Errorf("no such host")),
			contains: []string{"Network error"},
			excludes: []string{"Request timeout", "API Error"},
		},
		{
			name:     "api hides body",
			err:      fault.APIStatus(429, "Too Many Requests", []byte(`{"e":1}`)),
			contains: []string{"❌ API Error (429): Too Many Requests"},
			excludes: []string{"Response data"},
		},
		{
			name:     "api shows body",
			err:      fault.APIStatus(429, "Too Many Requests", []byte(`{"e":1}`)),
			showBody: true,
			contains: []string{"Response data:", `"e": 1`},
		},
		{
			name:     "untagged",
			err:      fmt.Errorf("boom"),
			contains: []string{"❌ Error checking link: boom"},
		},
		{
			name:     "unexpected",
			err:      fault.Wrap(fault.Unexpected, fmt.Errorf("bad json")),
			contains: []string{"❌ Error checking link: bad json"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Failure(&buf, tt.err, "link", tt.showBody)
			out := buf.String()
			for _, c := range tt.contains {
				if !strings.Contains(out, c) {
					t.Errorf("output missing %q:\n%s", c, out)
				}
			}
			for _, e := range tt.excludes {
				if strings.Contains(out, e) {
					t.Errorf("output should not contain %q:\n%s", e, out)
				}
			}
		})
	}
}
