package contract

import (
	"fmt"
	"net/url"
	"strings"
)

// ListsPath is the redirect target when no list remains.
const ListsPath = "/lists"

func ListPath(listID string) string {
	return ListsPath + "/" + url.PathEscape(listID)
}

func withParam(listID, key, value string) string {
	return ListPath(listID) + "?" + url.Values{key: {value}}.Encode()
}

func ErrorRedirect(listID string, code ErrorCode) string {
	return withParam(listID, "error", string(code))
}

func ConfirmRedirect(listID, itemID string) string {
	return withParam(listID, "confirm", itemID)
}

func ConfirmUncheckRedirect(listID, itemID string) string {
	return withParam(listID, "confirmUncheck", itemID)
}

// Redirect is a parsed redirectTo value.
type Redirect struct {
	ListID         string
	Error          ErrorCode
	Confirm        string
	ConfirmUncheck string
}

// Failed reports whether the server signalled an application error.
func (r Redirect) Failed() bool { return r.Error != "" }

// NeedsConfirmation reports whether the action was deferred.
func (r Redirect) NeedsConfirmation() bool {
	return r.Confirm != "" || r.ConfirmUncheck != ""
}

// ParseRedirect reads the list id from the second path segment and the
// error and confirmation parameters. "/lists" yields an empty ListID.
func ParseRedirect(s string) (Redirect, error) {
	u, err := url.Parse(s)
	if err != nil {
		return Redirect{}, fmt.Errorf("parsing redirect %q: %w", s, err)
	}
	segments := strings.Split(strings.Trim(u.EscapedPath(), "/"), "/")
	if len(segments) == 0 || segments[0] != "lists" {
		return Redirect{}, fmt.Errorf("parsing redirect %q: not a list path", s)
	}
	var r Redirect
	if len(segments) > 1 {
		r.ListID, err = url.PathUnescape(segments[1])
		if err != nil {
			return Redirect{}, fmt.Errorf("parsing redirect %q: %w", s, err)
		}
	}
	q := u.Query()
	r.Error = ErrorCode(q.Get("error"))
	r.Confirm = q.Get("confirm")
	r.ConfirmUncheck = q.Get("confirmUncheck")
	return r, nil
}
