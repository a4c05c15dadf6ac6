package api

import (
	"errors"
	"strconv"
	"strings"
)

// pathSegments splits a URL path after prefix into its non-empty segments.
func pathSegments(path, prefix string) []string {
	rest := strings.TrimPrefix(path, prefix)
	rest = strings.Trim(rest, "/")
	if rest == "" {
		return nil
	}
	return strings.Split(rest, "/")
}

// parseRound parses a 1-based round number from a path segment.
func parseRound(segment string) (int, error) {
	n, err := strconv.Atoi(segment)
	if err != nil || n < 1 {
		return 0, errors.New("round must be a positive integer")
	}
	return n, nil
}

// parseID parses an unsigned row id from a query or path value.
func parseID(raw string) (uint, error) {
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || n == 0 {
		return 0, errors.New("id must be a positive integer")
	}
	return uint(n), nil
}
