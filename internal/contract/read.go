package contract

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/alexanderramin/arbor/internal/domain"
)

// ReadQuery holds the parameters accepted by GET /api/lists/{listId}.
type ReadQuery struct {
	Confirm        string    `json:"confirm,omitempty"`
	ConfirmUncheck string    `json:"confirmUncheck,omitempty"`
	ConfirmReset   bool      `json:"confirmReset,omitempty"`
	OpenCompleted  bool      `json:"openCompleted,omitempty"`
	Error          ErrorCode `json:"error,omitempty"`
}

// ParseReadQuery rejects unknown parameters, repeated parameters and
// malformed booleans or error codes. Offending names are reported once each,
// sorted.
func ParseReadQuery(values url.Values) (ReadQuery, error) {
	var q ReadQuery
	var bad []string
	parseBool := func(key string, v string) bool {
		switch v {
		case "true":
			return true
		case "false":
			return false
		}
		bad = append(bad, key)
		return false
	}

	for key, vs := range values {
		if len(vs) != 1 {
			bad = append(bad, key)
			continue
		}
		v := vs[0]
		switch key {
		case "confirm":
			q.Confirm = v
		case "confirmUncheck":
			q.ConfirmUncheck = v
		case "confirmReset":
			q.ConfirmReset = parseBool(key, v)
		case "openCompleted":
			q.OpenCompleted = parseBool(key, v)
		case "error":
			q.Error = ErrorCode(v)
			if !q.Error.Valid() {
				bad = append(bad, key)
			}
		default:
			bad = append(bad, key)
		}
	}
	if len(bad) > 0 {
		return ReadQuery{}, &ValidationError{Fields: sortedUnique(bad)}
	}
	return q, nil
}

// Details renders the offending names the way the read endpoint reports them.
func (e *ValidationError) Details() string {
	return fmt.Sprintf("unsupported or malformed parameters: %s", strings.Join(e.Fields, ", "))
}

// ListReadResponse is the body of GET /api/lists/{listId}.
type ListReadResponse struct {
	Lists          []domain.ListSummary  `json:"lists"`
	ActiveList     *domain.List          `json:"activeList"`
	ParentOptions  []domain.ParentOption `json:"parentOptions"`
	PendingCount   int                   `json:"pendingCount"`
	CompletedCount int                   `json:"completedCount"`
	Query          ReadQuery             `json:"query"`
}

// DefaultListResponse is the body of GET /api/lists/default.
type DefaultListResponse struct {
	ID string `json:"id"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}
