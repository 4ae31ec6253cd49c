package s3err_test

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgaunet/s3migrate/pkg/s3err"
)

func TestClassify_NilStaysNil(t *testing.T) {
	assert.Nil(t, s3err.Classify(nil))
}

func TestClassify_ServiceError(t *testing.T) {
	err := &smithy.GenericAPIError{Code: "AccessDenied", Message: "not allowed"}
	c := s3err.Classify(fmt.Errorf("op failed: %w", err))
	require.NotNil(t, c)
	assert.Equal(t, s3err.ServiceRejected, c.Category)
	assert.Equal(t, "AccessDenied", c.Code)
	assert.Equal(t, "not allowed", c.Message)
	assert.Equal(t, "AccessDenied: not allowed", c.Error())
}

func TestClassify_FriendlyMessages(t *testing.T) {
	c := s3err.Classify(&smithy.GenericAPIError{Code: "NoSuchKey", Message: "raw"})
	require.NotNil(t, c)
	assert.Contains(t, c.Message, "object was not found")

	c = s3err.Classify(&smithy.GenericAPIError{Code: "InvalidObjectState", Message: "raw"})
	require.NotNil(t, c)
	assert.Contains(t, c.Message, "already being restored")
}

func TestClassify_Timeout(t *testing.T) {
	c := s3err.Classify(fmt.Errorf("call: %w", context.DeadlineExceeded))
	require.NotNil(t, c)
	assert.Equal(t, s3err.Timeout, c.Category)
	assert.Contains(t, c.Message, "retry")
}

func TestClassify_DispatchFailure(t *testing.T) {
	err := &url.Error{Op: "Post", URL: "https://s3.example.com", Err: errors.New("connection refused")}
	c := s3err.Classify(err)
	require.NotNil(t, c)
	assert.Equal(t, s3err.DispatchFailure, c.Category)

	opErr := &smithy.OperationError{
		ServiceID:     "S3",
		OperationName: "CopyObject",
		Err:           errors.New("dial tcp: no route to host"),
	}
	c = s3err.Classify(opErr)
	require.NotNil(t, c)
	assert.Equal(t, s3err.DispatchFailure, c.Category)
}

func TestClassify_ResponseMalformed(t *testing.T) {
	err := &smithy.DeserializationError{Err: errors.New("unexpected EOF")}
	c := s3err.Classify(err)
	require.NotNil(t, c)
	assert.Equal(t, s3err.ResponseMalformed, c.Category)
}

func TestClassify_UnknownFallback(t *testing.T) {
	c := s3err.Classify(errors.New("something odd"))
	require.NotNil(t, c)
	assert.Equal(t, s3err.Unknown, c.Category)
	assert.Equal(t, "something odd", c.Message)
}

func TestClassify_PassesThroughClassified(t *testing.T) {
	v := s3err.Validationf("select a bucket first")
	assert.Equal(t, s3err.Validation, v.Category)
	assert.Same(t, v, s3err.Classify(v))
	assert.Same(t, v, s3err.Classify(fmt.Errorf("wrapped: %w", v)))
}
