package llm

import (
	"context"
	"errors"
	"net"
)

// Failure kinds a ClauseClassifier reports. Wrap them with %w so callers can errors.Is.
var (
	// ErrRateLimited means the provider refused the call for quota reasons (HTTP 429).
	ErrRateLimited = errors.New("llm: rate limited")
	// ErrUnavailable means no answer could be obtained in time, or no classifier is configured.
	ErrUnavailable = errors.New("llm: unavailable")
	// ErrMalformedResponse means the provider answered but the body is not the expected shape.
	ErrMalformedResponse = errors.New("llm: malformed response")
)

type FailureKind int

const (
	KindNone FailureKind = iota
	KindRateLimited
	KindUnavailable
	KindMalformed
	KindOther
)

func (k FailureKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindRateLimited:
		return "rate_limited"
	case KindUnavailable:
		return "unavailable"
	case KindMalformed:
		return "malformed"
	default:
		return "other"
	}
}

// KindOf classifies err. Deadline and network timeouts count as unavailable even when
// the transport did not wrap them in ErrUnavailable.
func KindOf(err error) FailureKind {
	if err == nil {
		return KindNone
	}
	switch {
	case errors.Is(err, ErrRateLimited):
		return KindRateLimited
	case errors.Is(err, ErrMalformedResponse):
		return KindMalformed
	case errors.Is(err, ErrUnavailable), errors.Is(err, context.DeadlineExceeded):
		return KindUnavailable
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return KindUnavailable
	}
	return KindOther
}
