package provider

import (
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// ErrNotConfigured is returned when no API key is present; the system is in
// a disabled, chat-rejecting state and performs no network calls.
var ErrNotConfigured = errors.New("provider not configured: missing API key")

// Kind classifies terminal provider failures so callers can report API-key
// problems distinguishably from transport ones.
type Kind string

const (
	KindAuth      Kind = "auth"
	KindRateLimit Kind = "rate_limit"
	KindNetwork   Kind = "network"
	KindMalformed Kind = "malformed"
)

// Error is the single terminal error surfaced per interaction.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("provider %s: %s", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Classify wraps a go-openai error into an *Error with its Kind.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var ae *openai.APIError
	if errors.As(err, &ae) {
		switch ae.HTTPStatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return &Error{Kind: KindAuth, Err: err}
		case http.StatusTooManyRequests:
			return &Error{Kind: KindRateLimit, Err: err}
		}
		return &Error{Kind: KindMalformed, Err: err}
	}
	var re *openai.RequestError
	if errors.As(err, &re) {
		if re.HTTPStatusCode == http.StatusUnauthorized || re.HTTPStatusCode == http.StatusForbidden {
			return &Error{Kind: KindAuth, Err: err}
		}
		return &Error{Kind: KindNetwork, Err: err}
	}
	return &Error{Kind: KindNetwork, Err: err}
}
