package cli

import (
	"context"
	"fmt"
	"strings"
)

// resolveListID accepts a full list id or a unique prefix of one.
func resolveListID(ctx context.Context, app *App, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("list ID is required")
	}
	lists, err := app.Lists.GetListSummaries(ctx)
	if err != nil {
		return "", err
	}
	ids := make([]string, len(lists))
	for i, l := range lists {
		ids[i] = l.ID
	}
	return matchID(ids, input)
}

// matchID returns the exact match, else the single id starting with input.
func matchID(ids []string, input string) (string, error) {
	input = strings.TrimSpace(input)
	for _, id := range ids {
		if id == input {
			return id, nil
		}
	}

	var matches []string
	for _, id := range ids {
		if strings.HasPrefix(id, input) {
			matches = append(matches, id)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("list not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("list ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}
