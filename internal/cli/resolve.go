package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/nvetter/fieldline/internal/domain"
)

// resolveThreadID resolves user input to a thread ID by exact name match,
// exact ID match, or unambiguous ID prefix.
func resolveThreadID(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("thread is required")
	}

	threads, err := app.Threads.List(ctx)
	if err != nil {
		return "", err
	}

	for _, t := range threads {
		if strings.EqualFold(t.Name, input) {
			return t.ID, nil
		}
	}
	for _, t := range threads {
		if t.ID == input {
			return t.ID, nil
		}
	}

	var matches []string
	for _, t := range threads {
		if strings.HasPrefix(t.ID, input) {
			matches = append(matches, t.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("thread not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("thread %q is ambiguous (%d matches)", input, len(matches))
	}
}

// resolveFieldID resolves user input to an active field of the thread by
// exact name match, exact ID match, or unambiguous ID prefix.
func resolveFieldID(ctx context.Context, app *App, threadID, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("field is required")
	}

	fields, err := app.Fields.Fields(ctx, threadID)
	if err != nil {
		return "", err
	}

	for _, f := range fields {
		if f.Name == input {
			return f.ID, nil
		}
	}
	for _, f := range fields {
		if f.ID == input {
			return f.ID, nil
		}
	}

	var matches []string
	for _, f := range fields {
		if strings.HasPrefix(f.ID, input) {
			matches = append(matches, f.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("field %q: %w", input, domain.ErrFieldNotFound)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("field %q is ambiguous (%d matches)", input, len(matches))
	}
}
