package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"taskdeck/internal/api"
)

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}

func parseTaskID(s string) (int, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "#"))
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task id: %q", s)
	}
	return id, nil
}

// describe turns request failures into one line for stderr. Transport errors
// keep their full chain; HTTP errors prefer the server's own message.
func describe(err error) error {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return fmt.Errorf("%s (HTTP %d)", apiErr.Message, apiErr.Status)
	}
	return err
}
