package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Pretty indents raw with two spaces, keeping key order. Input that is not
// valid JSON is returned as is.
func Pretty(raw []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}

// JSON writes the raw payload for --json mode.
func JSON(w io.Writer, raw json.RawMessage) error {
	_, err := fmt.Fprintln(w, Pretty(raw))
	return err
}

// Summary writes the human-readable assessment followed by the raw payload.
func Summary(w io.Writer, raw json.RawMessage) error {
	_, err := io.WriteString(w, SummaryText(raw)+"\n")
	return err
}

// SummaryText is Summary as a string.
func SummaryText(raw json.RawMessage) string {
	var buf bytes.Buffer
	risk, ok := Extract(raw)
	if !ok {
		fmt.Fprintln(&buf, "No risk information found.")
		buf.WriteString(Pretty(raw))
		return buf.String()
	}

	fmt.Fprintln(&buf, "\n--- Analysis Result ---")
	fmt.Fprintf(&buf, "Risk Level: %s (Score: %s)\n", risk.Level(), risk.ScoreText())
	fmt.Fprintf(&buf, "Category(s): %s\n", risk.CategoryText())
	fmt.Fprintln(&buf, "\n--- Raw Details ---")
	buf.WriteString(Pretty(raw))
	return buf.String()
}
