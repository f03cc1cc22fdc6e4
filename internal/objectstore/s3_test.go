// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package objectstore

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"sync"

	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"
)

// fakeS3 is an in-memory S3Client keyed by bucket and object key.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: make(map[string][]byte)}
}

func objectID(bucket, key *string) string {
	return *bucket + "/" + *key
}

func (f *fakeS3) PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[objectID(input.Bucket, input.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, input *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[objectID(input.Bucket, input.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) HeadObject(ctx context.Context, input *s3.HeadObjectInput, opts ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.objects[objectID(input.Bucket, input.Key)]; !ok {
		return nil, &awshttp.ResponseError{
			ResponseError: &smithyhttp.ResponseError{
				Response: &smithyhttp.Response{
					Response: &http.Response{StatusCode: http.StatusNotFound},
				},
			},
		}
	}
	return &s3.HeadObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, input *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, objectID(input.Bucket, input.Key))
	return &s3.DeleteObjectOutput{}, nil
}

type s3Suite struct {
	testing.IsolationSuite

	client *fakeS3
	store  *S3Store
}

var _ = gc.Suite(&s3Suite{})

func (s *s3Suite) SetUpTest(c *gc.C) {
	s.IsolationSuite.SetUpTest(c)
	s.client = newFakeS3()
	s.store = NewS3StoreWithClient(s.client, "reports")
}

func (s *s3Suite) TestPutGetRemove(c *gc.C) {
	ctx := context.Background()
	err := s.store.Put(ctx, "attachments/one", strings.NewReader("hello"), 5)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(s.client.objects, jc.DeepEquals, map[string][]byte{"reports/attachments/one": []byte("hello")})

	r, err := s.store.Get(ctx, "attachments/one")
	c.Assert(err, jc.ErrorIsNil)
	data, err := io.ReadAll(r)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(string(data), gc.Equals, "hello")

	err = s.store.Remove(ctx, "attachments/one")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(s.client.objects, gc.HasLen, 0)
}

func (s *s3Suite) TestMissingObject(c *gc.C) {
	ctx := context.Background()
	_, err := s.store.Get(ctx, "attachments/none")
	c.Check(err, jc.ErrorIs, NotFound)

	err = s.store.Remove(ctx, "attachments/none")
	c.Check(err, jc.ErrorIs, NotFound)
}
