package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"sumo-go/internal/student"
	"sumo-go/internal/student/ranking"
)

const maxErrorBody = 512

// record is the JSON document the spreadsheet script returns.
// Older deployments send level/className instead of parts/class.
type record struct {
	Name       string          `json:"name"`
	Points     json.RawMessage `json:"points"`
	Parts      string          `json:"parts"`
	Level      string          `json:"level"`
	Class      string          `json:"class"`
	ClassName  string          `json:"className"`
	Rank       json.RawMessage `json:"rank"`
	Violations json.RawMessage `json:"violations"`
	Message    json.RawMessage `json:"message"`
}

// Client looks students up through the spreadsheet web app endpoint
type Client struct {
	endpoint   string
	httpClient *http.Client
}

func NewClient(endpoint string, timeout time.Duration) *Client {
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) Find(ctx context.Context, id string) (*student.Student, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to parse endpoint: %w", err)
	}
	q := u.Query()
	q.Set("studentId", id)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query spreadsheet: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("spreadsheet request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var rec record
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return rec.toStudent(id)
}

func (r record) toStudent(id string) (*student.Student, error) {
	// a non-blank message means the script found nothing for this id
	if hasMessage(r.Message) || isAbsent(r.Points) {
		return nil, student.ErrStudentNotFound
	}

	points, err := parsePoints(r.Points)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", student.ErrInvalidRecord, err)
	}

	violations, err := parseViolations(r.Violations)
	if err != nil {
		return nil, fmt.Errorf("%w: violations: %v", student.ErrInvalidRecord, err)
	}

	st := &student.Student{
		ID:         id,
		Name:       strings.TrimSpace(r.Name),
		Points:     points,
		Level:      firstNonEmpty(r.Parts, r.Level),
		ClassName:  firstNonEmpty(r.Class, r.ClassName),
		Violations: violations,
	}

	// rank is display-only, an unreadable value is dropped
	if rank, err := parsePoints(r.Rank); err == nil && !isAbsent(r.Rank) {
		st.Rank = &rank
	}

	return st, nil
}

func isAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// hasMessage reports whether message carries a value. Null, empty or blank
// strings, false and zero do not count.
func hasMessage(raw json.RawMessage) bool {
	if isAbsent(raw) {
		return false
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return true
	}
	switch m := v.(type) {
	case string:
		return strings.TrimSpace(m) != ""
	case bool:
		return m
	case float64:
		return m != 0
	}
	return true
}

// parsePoints accepts a JSON number or a numeric string. The value has to be
// a finite, whole, non-negative number that fits an int.
func parsePoints(raw json.RawMessage) (int, error) {
	text := string(bytes.TrimSpace(raw))
	if unquoted, err := strconv.Unquote(text); err == nil {
		text = strings.TrimSpace(unquoted)
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ranking.ErrInvalidPoints, text)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %q is not finite", ranking.ErrInvalidPoints, text)
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%w: %q is not a whole number", ranking.ErrInvalidPoints, text)
	}
	if f < 0 || f > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %q is out of range", ranking.ErrInvalidPoints, text)
	}
	return int(f), nil
}

// parseViolations accepts a list of strings or a single string.
// Blank entries are dropped, order is kept.
func parseViolations(raw json.RawMessage) ([]string, error) {
	if isAbsent(raw) {
		return nil, nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		var single string
		if err := json.Unmarshal(raw, &single); err != nil {
			return nil, err
		}
		list = []string{single}
	}

	out := make([]string, 0, len(list))
	for _, v := range list {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
