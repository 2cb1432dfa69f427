package render

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Risk is the data.risk object of a service response.
type Risk struct {
	Score      *float64 `json:"score"`
	Categories []string `json:"categories"`
}

// Risk level labels, highest first.
const (
	LevelVeryHigh = "Very High"
	LevelHigh     = "High"
	LevelModerate = "Moderate"
	LevelLow      = "Low"
	LevelVeryLow  = "Very Low"
	LevelUnknown  = "Unknown"
)

// Level maps a score to its label. Each band includes its lower bound.
func Level(score float64) string {
	switch {
	case score >= 90:
		return LevelVeryHigh
	case score >= 70:
		return LevelHigh
	case score >= 40:
		return LevelModerate
	case score >= 10:
		return LevelLow
	default:
		return LevelVeryLow
	}
}

// Extract returns data.risk from a raw response body. A body that is not
// an object, or has no data.risk object, yields false. Fields inside the
// risk object are read leniently: a score may be a number or a numeric
// string, and only string categories are kept.
func Extract(raw json.RawMessage) (*Risk, bool) {
	var body struct {
		Data *struct {
			Risk json.RawMessage `json:"risk"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || body.Data == nil {
		return nil, false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body.Data.Risk, &fields); err != nil || fields == nil {
		return nil, false
	}
	return &Risk{
		Score:      parseScore(fields["score"]),
		Categories: parseCategories(fields["categories"]),
	}, true
}

func parseScore(raw json.RawMessage) *float64 {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return &n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return &n
}

func parseCategories(raw json.RawMessage) []string {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	var out []string
	for _, item := range items {
		var s string
		if json.Unmarshal(item, &s) == nil {
			out = append(out, s)
		}
	}
	return out
}

// Level returns the label for r, or Unknown when no score was sent.
func (r *Risk) Level() string {
	if r.Score == nil {
		return LevelUnknown
	}
	return Level(*r.Score)
}

// ScoreText formats the score as sent, or "n/a".
func (r *Risk) ScoreText() string {
	if r.Score == nil {
		return "n/a"
	}
	return strconv.FormatFloat(*r.Score, 'f', -1, 64)
}

// CategoryText joins the categories in order, or returns "Unknown".
func (r *Risk) CategoryText() string {
	if len(r.Categories) == 0 {
		return LevelUnknown
	}
	return strings.Join(r.Categories, ", ")
}
