package contract

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError reports malformed input by offending field or parameter name.
type ValidationError struct {
	Fields []string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid %s", strings.Join(e.Fields, ", "))
	}
	return fmt.Sprintf("invalid %s: %s", strings.Join(e.Fields, ", "), e.Reason)
}

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ErrorCode is the application error carried in a redirect's error parameter.
type ErrorCode string

const (
	ErrCodeAction     ErrorCode = "action"
	ErrCodeAdd        ErrorCode = "add"
	ErrCodeDelete     ErrorCode = "delete"
	ErrCodeEdit       ErrorCode = "edit"
	ErrCodeListEdit   ErrorCode = "listEdit"
	ErrCodeListDelete ErrorCode = "listDelete"
)

var errorMessages = map[ErrorCode]string{
	ErrCodeAction:     "The item could not be updated. It may have been removed.",
	ErrCodeAdd:        "The item could not be added. Its parent may have been removed.",
	ErrCodeDelete:     "The item could not be deleted. It may already be gone.",
	ErrCodeEdit:       "The item title could not be changed.",
	ErrCodeListEdit:   "The list could not be renamed.",
	ErrCodeListDelete: "The list could not be deleted.",
}

// Valid reports whether c is a known code.
func (c ErrorCode) Valid() bool {
	_, ok := errorMessages[c]
	return ok
}

// Message is the human-readable text shown for c.
func (c ErrorCode) Message() string {
	if msg, ok := errorMessages[c]; ok {
		return msg
	}
	return "Something went wrong."
}

func sortedUnique(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}
