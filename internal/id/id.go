// Package id generates short unique identifiers for outgoing requests.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// requestAlphabet avoids characters that need escaping in headers or logs.
const requestAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// requestIDLength keeps ids short enough to scan in a log line.
const requestIDLength = 12

// Generate creates a prefixed unique ID, e.g. "req-4f0c9k2m1x8a".
//
// Returns an error if the system has insufficient entropy for secure random generation.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.Generate(requestAlphabet, requestIDLength)
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// Request returns an id for the X-Request-ID header. Entropy failures fall back
// to a fixed marker rather than failing the request.
func Request() string {
	id, err := Generate("req")
	if err != nil {
		return "req-unavailable"
	}
	return id
}
