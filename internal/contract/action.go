package contract

import (
	"fmt"
	"strings"
)

// Action names a list mutation.
type Action string

const (
	ActionToggleItem           Action = "toggleItem"
	ActionConfirmParent        Action = "confirmParent"
	ActionConfirmUncheckParent Action = "confirmUncheckParent"
	ActionResetCompleted       Action = "resetCompleted"
	ActionCreateItem           Action = "createItem"
	ActionDeleteItem           Action = "deleteItem"
	ActionEditItemTitle        Action = "editItemTitle"
	ActionCreateList           Action = "createList"
	ActionEditListTitle        Action = "editListTitle"
	ActionDeleteList           Action = "deleteList"
)

// Actions lists every supported action.
var Actions = []Action{
	ActionToggleItem,
	ActionConfirmParent,
	ActionConfirmUncheckParent,
	ActionResetCompleted,
	ActionCreateItem,
	ActionDeleteItem,
	ActionEditItemTitle,
	ActionCreateList,
	ActionEditListTitle,
	ActionDeleteList,
}

func ParseAction(s string) (Action, error) {
	for _, a := range Actions {
		if string(a) == s {
			return a, nil
		}
	}
	return "", &ValidationError{Fields: []string{"action"}, Reason: fmt.Sprintf("unknown action %q", s)}
}

// Payload keys.
const (
	KeyItemID    = "itemId"
	KeyParentID  = "parentId"
	KeyTitle     = "title"
	KeyCompleted = "completed"
)

// MutationRequest is the body of POST /api/lists/{listId}/actions.
// Booleans travel as "true"/"false".
type MutationRequest struct {
	Action  Action            `json:"action"`
	Payload map[string]string `json:"payload"`
}

// NewMutationRequest builds a request from alternating key/value pairs.
func NewMutationRequest(action Action, kv ...string) MutationRequest {
	payload := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		payload[kv[i]] = kv[i+1]
	}
	return MutationRequest{Action: action, Payload: payload}
}

// Required returns the trimmed, non-blank value of key.
func (r MutationRequest) Required(key string) (string, error) {
	v := strings.TrimSpace(r.Payload[key])
	if v == "" {
		return "", &ValidationError{Fields: []string{key}, Reason: "required"}
	}
	return v, nil
}

// Optional returns the trimmed value of key, "" when absent.
func (r MutationRequest) Optional(key string) string {
	return strings.TrimSpace(r.Payload[key])
}

// Bool accepts exactly "true" or "false".
func (r MutationRequest) Bool(key string) (bool, error) {
	switch r.Payload[key] {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, &ValidationError{Fields: []string{key}, Reason: `expected "true" or "false"`}
	}
}

// Validate checks the fields each action needs without touching any state.
func (r MutationRequest) Validate() error {
	if _, err := ParseAction(string(r.Action)); err != nil {
		return err
	}
	var missing []string
	need := func(key string) {
		if _, err := r.Required(key); err != nil {
			missing = append(missing, key)
		}
	}
	switch r.Action {
	case ActionToggleItem:
		need(KeyItemID)
		if _, err := r.Bool(KeyCompleted); err != nil {
			missing = append(missing, KeyCompleted)
		}
	case ActionConfirmParent, ActionConfirmUncheckParent, ActionDeleteItem:
		need(KeyItemID)
	case ActionCreateItem, ActionEditListTitle:
		need(KeyTitle)
	case ActionEditItemTitle:
		need(KeyItemID)
		need(KeyTitle)
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: sortedUnique(missing), Reason: "missing or malformed"}
	}
	return nil
}

// MutationResponse tells the client where the result lives.
type MutationResponse struct {
	RedirectTo string `json:"redirectTo"`
}
