/*
# Module: storage/s3.go
S3 publisher for rendered directory snapshots.

## Linked Modules
- [services/loader](../services/loader.go) - Snapshot consumer

## Tags
storage, s3, publishing

## Exports
S3API, S3SnapshotPublisher, NewS3SnapshotPublisher

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "storage/s3.go" ;
    code:description "S3 publisher for rendered directory snapshots" ;
    code:linksTo [
        code:name "services/loader" ;
        code:path "../services/loader.go" ;
        code:relationship "Snapshot consumer"
    ] ;
    code:exports :S3API, :S3SnapshotPublisher, :NewS3SnapshotPublisher ;
    code:tags "storage", "s3", "publishing" .
<!-- End LinkedDoc RDF -->
*/
package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// S3API is the subset of *s3.Client the publisher uses
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3SnapshotPublisher uploads rendered directory pages to a bucket
type S3SnapshotPublisher struct {
	client S3API
	bucket string
	region string
	prefix string
	now    func() time.Time
}

// NewS3SnapshotPublisher creates a publisher writing under snapshots/
func NewS3SnapshotPublisher(client S3API, bucket, region string) *S3SnapshotPublisher {
	return &S3SnapshotPublisher{
		client: client,
		bucket: bucket,
		region: region,
		prefix: "snapshots",
		now:    time.Now,
	}
}

// Publish uploads one page under a unique key and returns its public URL
func (p *S3SnapshotPublisher) Publish(ctx context.Context, page []byte) (string, error) {
	if p.client == nil {
		return "", fmt.Errorf("S3 client not initialized")
	}

	key := fmt.Sprintf("%s/%s-%d.html", p.prefix, uuid.New().String(), p.now().Unix())

	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(page),
		ContentType: aws.String("text/html; charset=utf-8"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload snapshot to S3: %w", err)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", p.bucket, p.region, key), nil
}
