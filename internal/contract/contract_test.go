package contract

import (
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAction(t *testing.T) {
	for _, a := range Actions {
		got, err := ParseAction(string(a))
		require.NoError(t, err)
		assert.Equal(t, a, got)
	}

	_, err := ParseAction("explode")
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"action"}, verr.Fields)
}

func TestMutationRequest_Accessors(t *testing.T) {
	req := NewMutationRequest(ActionToggleItem, KeyItemID, "  book ", KeyCompleted, "true", KeyTitle, "   ")

	id, err := req.Required(KeyItemID)
	require.NoError(t, err)
	assert.Equal(t, "book", id)

	_, err = req.Required(KeyTitle)
	assert.Error(t, err, "blank strings are missing")
	assert.Equal(t, "", req.Optional(KeyParentID))

	done, err := req.Bool(KeyCompleted)
	require.NoError(t, err)
	assert.True(t, done)

	for _, v := range []string{"TRUE", "1", "", "yes"} {
		_, err := NewMutationRequest(ActionToggleItem, KeyCompleted, v).Bool(KeyCompleted)
		assert.Error(t, err, "value %q", v)
	}
}

func TestMutationRequest_Validate(t *testing.T) {
	tests := []struct {
		name   string
		req    MutationRequest
		fields []string
	}{
		{"toggle ok", NewMutationRequest(ActionToggleItem, KeyItemID, "a", KeyCompleted, "false"), nil},
		{"toggle bad bool", NewMutationRequest(ActionToggleItem, KeyItemID, "a", KeyCompleted, "maybe"), []string{KeyCompleted}},
		{"toggle missing all", NewMutationRequest(ActionToggleItem), []string{KeyCompleted, KeyItemID}},
		{"create without title", NewMutationRequest(ActionCreateItem, KeyParentID, "p"), []string{KeyTitle}},
		{"create root", NewMutationRequest(ActionCreateItem, KeyTitle, "New"), nil},
		{"edit title", NewMutationRequest(ActionEditItemTitle, KeyItemID, "a"), []string{KeyTitle}},
		{"reset", NewMutationRequest(ActionResetCompleted), nil},
		{"create list untitled", NewMutationRequest(ActionCreateList), nil},
		{"delete list", NewMutationRequest(ActionDeleteList), nil},
		{"unknown", NewMutationRequest("nope"), []string{"action"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.fields == nil {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tt.fields, verr.Fields)
		})
	}
}

func TestErrorCode_Messages(t *testing.T) {
	codes := []ErrorCode{ErrCodeAction, ErrCodeAdd, ErrCodeDelete, ErrCodeEdit, ErrCodeListEdit, ErrCodeListDelete}
	seen := map[string]bool{}
	for _, c := range codes {
		assert.True(t, c.Valid())
		msg := c.Message()
		assert.NotEmpty(t, msg)
		assert.False(t, seen[msg], "messages must be distinct")
		seen[msg] = true
	}
	assert.False(t, ErrorCode("other").Valid())
}

func TestRedirectBuilders(t *testing.T) {
	assert.Equal(t, "/lists/l1", ListPath("l1"))
	assert.Equal(t, "/lists/l1?error=edit", ErrorRedirect("l1", ErrCodeEdit))
	assert.Equal(t, "/lists/l1?confirm=book", ConfirmRedirect("l1", "book"))
	assert.Equal(t, "/lists/l1?confirmUncheck=book", ConfirmUncheckRedirect("l1", "book"))
}

func TestParseRedirect(t *testing.T) {
	r, err := ParseRedirect("/lists/list-1?error=edit")
	require.NoError(t, err)
	assert.Equal(t, "list-1", r.ListID)
	assert.Equal(t, ErrCodeEdit, r.Error)
	assert.True(t, r.Failed())

	r, err = ParseRedirect(ConfirmUncheckRedirect("l 2", "x"))
	require.NoError(t, err)
	assert.Equal(t, "l 2", r.ListID)
	assert.Equal(t, "x", r.ConfirmUncheck)
	assert.True(t, r.NeedsConfirmation())
	assert.False(t, r.Failed())

	r, err = ParseRedirect("http://localhost:8080/lists/abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", r.ListID)

	r, err = ParseRedirect(ListsPath)
	require.NoError(t, err)
	assert.Empty(t, r.ListID)

	_, err = ParseRedirect("/elsewhere/abc")
	assert.Error(t, err)
}

func TestParseReadQuery(t *testing.T) {
	q, err := ParseReadQuery(url.Values{
		"confirm":       {"book"},
		"openCompleted": {"true"},
		"confirmReset":  {"false"},
		"error":         {"add"},
	})
	require.NoError(t, err)
	assert.Equal(t, "book", q.Confirm)
	assert.True(t, q.OpenCompleted)
	assert.False(t, q.ConfirmReset)
	assert.Equal(t, ErrCodeAdd, q.Error)

	q, err = ParseReadQuery(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, ReadQuery{}, q)
}

func TestParseReadQuery_ReportsOffendersSortedAndDeduplicated(t *testing.T) {
	_, err := ParseReadQuery(url.Values{
		"zeta":          {"1"},
		"openCompleted": {"yes"},
		"alpha":         {"1", "2"},
		"confirm":       {"a", "b"},
		"error":         {"nope"},
	})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"alpha", "confirm", "error", "openCompleted", "zeta"}, verr.Fields)
	assert.Equal(t, "unsupported or malformed parameters: alpha, confirm, error, openCompleted, zeta", verr.Details())
}
