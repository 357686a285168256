package models

import (
	"fmt"
	"strings"
)

// ErrModelUnavailable is returned when a model backend answers with something
// other than its API (proxy error pages, 5xx) or cannot be reached.
type ErrModelUnavailable struct {
	Provider string
	Body     string
	Cause    error
}

func (e *ErrModelUnavailable) Error() string {
	switch {
	case e.Cause != nil:
		return fmt.Sprintf("%s unavailable: %v", e.Provider, e.Cause)
	case e.Body != "":
		return fmt.Sprintf("%s unavailable: %s", e.Provider, e.Body)
	default:
		return e.Provider + " unavailable"
	}
}

func (e *ErrModelUnavailable) Unwrap() error { return e.Cause }

// HandleError prefixes common provider failures with a readable category.
func HandleError(err error) error {
	if err == nil {
		return nil
	}

	msg := strings.ToLower(err.Error())
	switch {
	case containsAny(msg, "401", "403", "unauthorized", "invalid api key", "forbidden"):
		return fmt.Errorf("authentication failed: %w", err)
	case containsAny(msg, "429", "rate limit", "quota", "too many requests"):
		return fmt.Errorf("rate limited: %w", err)
	case containsAny(msg, "model not found", "404", "deploymentnotfound"):
		return fmt.Errorf("model not found: %w", err)
	case containsAny(msg, "connection", "eof", "timeout", "dial", "refused", "unavailable"):
		return fmt.Errorf("connection error: %w", err)
	}
	return err
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
