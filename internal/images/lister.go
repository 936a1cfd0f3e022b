// Package images lists the objects in the configured cat-images bucket and
// exposes their public URLs.
package images

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// ErrStoreUnavailable is returned when the object store cannot be reached.
var ErrStoreUnavailable = errors.New("object store unavailable")

// StoreError carries the store's own error code and message for pass-through.
type StoreError struct {
	Code    string
	Message string
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("S3 error (%s): %s", e.Code, e.Message)
}

// ObjectLister is the subset of the S3 client used by Lister.
type ObjectLister interface {
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// Lister lists objects in a single bucket.
type Lister struct {
	client ObjectLister
	bucket string
}

// NewLister creates a Lister over the given bucket.
func NewLister(client ObjectLister, bucket string) *Lister {
	return &Lister{client: client, bucket: bucket}
}

// PublicURLs returns the public URL of every object in the bucket, in a
// single listing call. An empty bucket yields an empty slice.
func (l *Lister) PublicURLs(ctx context.Context) ([]string, error) {
	out, err := l.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(l.bucket),
	})
	if err != nil {
		var ae smithy.APIError
		if errors.As(err, &ae) {
			return nil, &StoreError{Code: ae.ErrorCode(), Message: ae.ErrorMessage()}
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	urls := make([]string, 0, len(out.Contents))
	for _, obj := range out.Contents {
		urls = append(urls, fmt.Sprintf("https://%s.s3.amazonaws.com/%s", l.bucket, aws.ToString(obj.Key)))
	}

	return urls, nil
}
