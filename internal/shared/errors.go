package shared

import (
	"errors"
	"fmt"
)

// RequestError is used for host level failures that carry their own status
// code, such as method dispatch or rate limiting. Pipeline failures use
// pipeline.Error instead and are mapped by the generate handler.
//
// The Err message is what the user sees; wrap a RequestError with
// errors.Join when more detail is needed for the logs.
type RequestError struct {
	StatusCode int
	Err        error
}

func (r *RequestError) Error() string {
	return fmt.Sprintf("status %d: err %v", r.StatusCode, r.Err)
}

func (r *RequestError) Unwrap() error {
	return r.Err
}

var (
	ErrMissingAuth   = &RequestError{Err: errors.New("missing authorization header"), StatusCode: 401}
	ErrInvalidFormat = &RequestError{Err: errors.New("invalid authentication format"), StatusCode: 401}
	ErrUnauthorized  = &RequestError{Err: errors.New("unauthorized"), StatusCode: 401}

	ErrMethodNotAllowed    = &RequestError{Err: errors.New("Method Not Allowed"), StatusCode: 405}
	ErrRateLimited         = &RequestError{Err: errors.New("rate limit exceeded"), StatusCode: 429}
	ErrInternalServerError = &RequestError{Err: errors.New("internal server error"), StatusCode: 500}

	ErrProviderHTTP     = &MetricsError{Msg: "failed to send http request to provider", Code: "provider_http_err"}
	ErrProviderStatus   = &MetricsError{Msg: "provider responded with non-200", Code: "provider_http_status_err"}
	ErrProviderResponse = &MetricsError{Msg: "failed to read provider response", Code: "provider_response_err"}
	ErrProviderContext  = &MetricsError{Msg: "provider context canceled", Code: "provider_context_err"}
	ErrProviderBlocked  = &MetricsError{Msg: "provider blocked the prompt", Code: "provider_blocked"}
	ErrProviderConfig   = &MetricsError{Msg: "provider not configured", Code: "provider_config_err"}
)

// MetricsError names a failure class. Code is used as the "from" label of
// the error count metric.
type MetricsError struct {
	Msg  string
	Code string
}

func (m *MetricsError) Error() string {
	return m.String()
}

func (m *MetricsError) String() string {
	return m.Msg
}
