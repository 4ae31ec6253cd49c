// Package s3err maps backend failures into a small set of stable
// categories used for status reporting. Classification only annotates,
// it never retries.
package s3err

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"

	"github.com/aws/smithy-go"
)

// Category of a classified failure.
type Category string

const (
	// Validation is a local precondition failure, never sent to the backend.
	Validation Category = "validation"
	// ServiceRejected means the backend accepted the request shape but refused it.
	ServiceRejected Category = "service-rejected"
	// DispatchFailure means the backend could not be reached.
	DispatchFailure Category = "dispatch-failure"
	// Timeout means no response arrived in time.
	Timeout Category = "timeout"
	// ResponseMalformed means the backend reply could not be parsed.
	ResponseMalformed Category = "response-malformed"
	// Unknown is the fallback.
	Unknown Category = "unknown"
)

// Classified carries the category and display detail of a failure.
type Classified struct {
	Category Category
	Code     string
	Message  string
}

func (c *Classified) Error() string {
	if c.Code != "" {
		return fmt.Sprintf("%s: %s", c.Code, c.Message)
	}
	return c.Message
}

// Validationf builds a local validation failure.
func Validationf(format string, args ...any) *Classified {
	return &Classified{Category: Validation, Message: fmt.Sprintf(format, args...)}
}

// Classify maps err into a Classified failure. nil stays nil, an
// already classified error passes through unchanged.
func Classify(err error) *Classified {
	if err == nil {
		return nil
	}
	var already *Classified
	if errors.As(err, &already) {
		return already
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &Classified{Category: Timeout, Message: "request timed out; please retry"}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Classified{Category: Timeout, Message: "request timed out; please retry"}
	}

	var deserErr *smithy.DeserializationError
	if errors.As(err, &deserErr) {
		return &Classified{Category: ResponseMalformed, Message: deserErr.Error()}
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		message := apiErr.ErrorMessage()
		if message == "" {
			message = "no message provided"
		}
		switch code {
		case "NoSuchKey":
			message = "object was not found (mask may target stale keys or bucket differs)"
		case "InvalidObjectState":
			message = "object is already being restored or not eligible for this operation"
		}
		return &Classified{Category: ServiceRejected, Code: code, Message: message}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &Classified{Category: DispatchFailure, Message: fmt.Sprintf("network/dispatch failure: %v", urlErr)}
	}
	var opErr *smithy.OperationError
	if errors.As(err, &opErr) {
		return &Classified{Category: DispatchFailure, Message: fmt.Sprintf("network/dispatch failure: %v", opErr.Unwrap())}
	}

	return &Classified{Category: Unknown, Message: err.Error()}
}
