package gateway

import (
	"fmt"
	"time"
)

// Status is the outcome of a single gateway call.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Details carries operation specific values such as sizes, counts or tags.
type Details map[string]interface{}

// Result is returned by every gateway method. Remote failures are reported
// through Status and Message, never as Go errors.
type Result struct {
	Status   Status        `json:"status"`
	Message  string        `json:"message"`
	Details  Details       `json:"details,omitempty"`
	Latency  Latency       `json:"latency"`
	Duration time.Duration `json:"duration"`
}

func Succeeded(format string, args ...interface{}) Result {
	return Result{Status: StatusSuccess, Message: fmt.Sprintf(format, args...)}
}

func Failed(format string, args ...interface{}) Result {
	return Result{Status: StatusError, Message: fmt.Sprintf(format, args...)}
}

func (r Result) OK() bool { return r.Status == StatusSuccess }

// With returns a copy of r with key set in its details.
func (r Result) With(key string, value interface{}) Result {
	details := make(Details, len(r.Details)+1)
	for k, v := range r.Details {
		details[k] = v
	}
	details[key] = value
	r.Details = details
	return r
}

// Fail turns r into an error result, keeping its details and timings.
func (r Result) Fail(format string, args ...interface{}) Result {
	r.Status = StatusError
	r.Message = fmt.Sprintf(format, args...)
	return r
}

// Pass marks r successful with a new message, keeping its details and timings.
func (r Result) Pass(format string, args ...interface{}) Result {
	r.Status = StatusSuccess
	r.Message = fmt.Sprintf(format, args...)
	return r
}

// Int returns an integer detail, or 0 when it is missing.
func (r Result) Int(key string) int64 {
	switch v := r.Details[key].(type) {
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case int64:
		return v
	default:
		return 0
	}
}

// Text returns a string detail, or "" when it is missing.
func (r Result) Text(key string) string {
	switch v := r.Details[key].(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return ""
	}
}
