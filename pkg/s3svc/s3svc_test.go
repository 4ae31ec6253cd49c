package s3svc_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgaunet/s3migrate/pkg/config"
	"github.com/sgaunet/s3migrate/pkg/dto"
	"github.com/sgaunet/s3migrate/pkg/s3svc"
)

// stubTransport serves canned S3 XML responses keyed on the request.
type stubTransport struct{}

func (stubTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var body string
	if req.URL.RawQuery == "location=" || strings.Contains(req.URL.RawQuery, "location") {
		body = `<?xml version="1.0" encoding="UTF-8"?>
<LocationConstraint xmlns="http://s3.amazonaws.com/doc/2006-03-01/">eu-west-1</LocationConstraint>`
	} else {
		body = `<?xml version="1.0" encoding="UTF-8"?>
<ListAllMyBucketsResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">
  <Owner><ID>owner</ID><DisplayName>owner</DisplayName></Owner>
  <Buckets>
    <Bucket><Name>b</Name><CreationDate>2024-01-01T00:00:00.000Z</CreationDate></Bucket>
    <Bucket><Name>a</Name><CreationDate>2024-01-02T00:00:00.000Z</CreationDate></Bucket>
    <Bucket><Name>c</Name><CreationDate>2024-01-03T00:00:00.000Z</CreationDate></Bucket>
  </Buckets>
</ListAllMyBucketsResult>`
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": []string{"application/xml"}},
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
	}, nil
}

// captureTransport records the last request and answers with a fixed body.
type captureTransport struct {
	req  *http.Request
	body string
}

func (c *captureTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	c.req = req
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": []string{"application/xml"}},
		Body:       io.NopCloser(strings.NewReader(c.body)),
	}, nil
}

func serviceWithTransport(t *testing.T, rt http.RoundTripper) *s3svc.Service {
	t.Helper()
	awsCfg := aws.Config{
		Region:      "us-east-1",
		Credentials: credentials.NewStaticCredentialsProvider("key", "secret", ""),
		HTTPClient:  &http.Client{Transport: rt},
	}
	client := s3.NewFromConfig(awsCfg)
	return s3svc.NewService(config.Config{}, client)
}

func stubService(t *testing.T) *s3svc.Service {
	t.Helper()
	return serviceWithTransport(t, stubTransport{})
}

func TestListBuckets_SortedByName(t *testing.T) {
	svc := stubService(t)
	buckets, err := svc.ListBuckets(context.Background())
	require.NoError(t, err)
	require.Len(t, buckets, 3)
	assert.Equal(t, "a", buckets[0].Name)
	assert.Equal(t, "b", buckets[1].Name)
	assert.Equal(t, "c", buckets[2].Name)
	assert.Equal(t, "eu-west-1", buckets[0].Region)
}

func TestTransitionStorageClass_CopySourceIsURLEncoded(t *testing.T) {
	tr := &captureTransport{body: `<?xml version="1.0" encoding="UTF-8"?>
<CopyObjectResult><ETag>"etag"</ETag><LastModified>2024-01-01T00:00:00.000Z</LastModified></CopyObjectResult>`}
	svc := serviceWithTransport(t, tr)

	// spaces, '?' and '/' are all valid in S3 keys and must not leak
	// into the header unencoded, '?' would start a versionId query
	err := svc.TransitionStorageClass(context.Background(), "bkt", "reports 2024/a?b", dto.ClassGlacier)
	require.NoError(t, err)
	require.NotNil(t, tr.req)
	assert.Equal(t, "bkt%2Freports%202024%2Fa%3Fb", tr.req.Header.Get("x-amz-copy-source"))
	assert.Equal(t, "GLACIER", tr.req.Header.Get("x-amz-storage-class"))
}
