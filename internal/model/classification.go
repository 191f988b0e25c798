package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ClassificationResponse is the classification endpoint's answer for one image.
// Values are fractions in [0,1] and are not required to sum to 1. It only
// lives while the result is on screen.
type ClassificationResponse struct {
	TB     float64 `json:"result_tb"`
	NonTB  float64 `json:"result_no_tb"`
	Normal float64 `json:"result_normal"`
}

// Percentage is a labelled value ready for display.
type Percentage struct {
	Label string
	Value string
}

// Percentages converts the fractions to two-decimal percentages.
func (r ClassificationResponse) Percentages() []Percentage {
	return []Percentage{
		{Label: "Tuberculosis", Value: FormatFraction(r.TB)},
		{Label: "No Tuberculosis", Value: FormatFraction(r.NonTB)},
		{Label: "Normal", Value: FormatFraction(r.Normal)},
	}
}

// FormatFraction renders a 0-1 fraction as a percentage with two decimals.
func FormatFraction(f float64) string {
	return strconv.FormatFloat(f*100, 'f', 2, 64)
}

// FormatPercent renders an already scaled 0-100 value as stored remotely.
func FormatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

// RecordID is the unique identifier of a historical classification record.
// The listing endpoint may send it as a JSON number or string.
type RecordID string

// UnmarshalJSON accepts both numeric and string identifiers.
func (id *RecordID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return fmt.Errorf("record id is empty")
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("invalid record id: %w", err)
		}
		*id = RecordID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid record id: %w", err)
	}
	*id = RecordID(n.String())
	return nil
}

// examDateLayouts are tried in order when parsing a stored exam date.
var examDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ExamDate is the date a historical scan was taken.
type ExamDate struct {
	time.Time
}

// ParseExamDate parses the date formats the listing endpoint is known to send.
func ParseExamDate(s string) (ExamDate, error) {
	s = strings.TrimSpace(s)
	for _, layout := range examDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return ExamDate{Time: t}, nil
		}
	}
	return ExamDate{}, fmt.Errorf("unrecognized exam date %q", s)
}

// Format returns the zero-padded YYYY-MM-DD form used in reports.
func (d ExamDate) Format() string {
	return d.Time.Format("2006-01-02")
}

// UnmarshalJSON parses an ISO style date string. A JSON null leaves the
// date zero; callers treat a zero date as unusable.
func (d *ExamDate) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("exam date must be a string: %w", err)
	}
	parsed, err := ParseExamDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalJSON writes the date in YYYY-MM-DD form.
func (d ExamDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format())
}

// ClassificationRecord is one historical scan as listed by the results endpoint.
// Values are percentages on a 0-100 scale and are kept exactly as received.
type ClassificationRecord struct {
	ExamDate ExamDate `json:"fecha"`
	ID       RecordID `json:"id_registro"`
	TB       float64  `json:"result_tb"`
	NonTB    float64  `json:"result_no_tb"`
	Normal   float64  `json:"result_normal"`
}
