package github

import (
	"errors"
	"fmt"
)

// ErrUpstreamUnavailable is matched by every error returned by the Client.
// Callers treat it as "no data for this unit" rather than a request failure.
var ErrUpstreamUnavailable = errors.New("github api unavailable")

var (
	ErrTransport       = errors.New("transport failure")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrUnprocessable   = errors.New("unprocessable entity")
	ErrErrorEnvelope   = errors.New("error envelope in response")
	ErrDecode          = errors.New("invalid json response")
	ErrUnexpectedShape = errors.New("unexpected response shape")
)

const (
	maxLoggedBody = 512

	outcomeOK = "ok"
)

type UpstreamError struct {
	Endpoint string // endpointList or endpointGist
	Key      string // username or gist id
	URL      string
	Status   int
	Body     []byte
	Err      error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s %s: status %d: %v", e.Endpoint, e.Key, e.Status, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Endpoint, e.Key, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func (e *UpstreamError) Is(target error) bool { return target == ErrUpstreamUnavailable }

// loggedBody is the response body cut to a size that is reasonable to log.
func (e *UpstreamError) loggedBody() string {
	if len(e.Body) > maxLoggedBody {
		return string(e.Body[:maxLoggedBody]) + "..."
	}
	return string(e.Body)
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return outcomeOK
	case errors.Is(err, ErrTransport):
		return "transport"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrUnprocessable):
		return "unprocessable"
	case errors.Is(err, ErrErrorEnvelope):
		return "error_envelope"
	case errors.Is(err, ErrDecode):
		return "decode"
	case errors.Is(err, ErrUnexpectedShape):
		return "unexpected_shape"
	default:
		return "error"
	}
}
