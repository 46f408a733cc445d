package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	dynamodbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FallThunder/hack-at-davidson25/types"
)

func entryAt(id string, ts time.Time) types.FetchLog {
	return types.FetchLog{ID: id, Status: types.FetchRendered, Count: 1, Timestamp: ts}
}

func TestFetchLogMemoryRepository_NewestFirstAndCapped(t *testing.T) {
	repo := NewFetchLogMemoryRepository(3)
	ctx := context.Background()
	base := time.Now()

	for i, id := range []string{"a", "b", "c", "d"} {
		require.NoError(t, repo.Save(ctx, entryAt(id, base.Add(time.Duration(i)*time.Second))))
	}

	recent, err := repo.GetRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "d", recent[0].ID)
	assert.Equal(t, "c", recent[1].ID)
	assert.Equal(t, "b", recent[2].ID)

	limited, err := repo.GetRecent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "d", limited[0].ID)
}

func TestFetchLogMemoryRepository_Empty(t *testing.T) {
	repo := NewFetchLogMemoryRepository(0)

	recent, err := repo.GetRecent(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, recent)
}

// fakeDynamoDB stores items in memory and pages scans one item at a time
type fakeDynamoDB struct {
	items   []map[string]dynamodbtypes.AttributeValue
	putErr  error
	scanErr error
	scans   int
}

func (f *fakeDynamoDB) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	f.items = append(f.items, params.Item)
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamoDB) Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	if f.scanErr != nil {
		return nil, f.scanErr
	}
	f.scans++

	start := 0
	if params.ExclusiveStartKey != nil {
		var cursor struct {
			Index int `dynamodbav:"index"`
		}
		if err := attributevalue.UnmarshalMap(params.ExclusiveStartKey, &cursor); err != nil {
			return nil, err
		}
		start = cursor.Index
	}
	if start >= len(f.items) {
		return &dynamodb.ScanOutput{}, nil
	}

	out := &dynamodb.ScanOutput{Items: f.items[start : start+1]}
	if start+1 < len(f.items) {
		key, err := attributevalue.MarshalMap(struct {
			Index int `dynamodbav:"index"`
		}{Index: start + 1})
		if err != nil {
			return nil, err
		}
		out.LastEvaluatedKey = key
	}
	return out, nil
}

func TestFetchLogDynamoDBRepository_SaveAndGetRecent(t *testing.T) {
	fake := &fakeDynamoDB{}
	repo := NewFetchLogDynamoDBRepository(fake, "fetch-log")
	ctx := context.Background()
	base := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Save(ctx, entryAt("old", base)))
	require.NoError(t, repo.Save(ctx, entryAt("new", base.Add(time.Minute))))
	require.NoError(t, repo.Save(ctx, entryAt("mid", base.Add(30*time.Second))))

	recent, err := repo.GetRecent(ctx, 2)
	require.NoError(t, err)

	assert.Equal(t, 3, fake.scans, "scan should follow LastEvaluatedKey through every page")
	require.Len(t, recent, 2)
	assert.Equal(t, "new", recent[0].ID)
	assert.Equal(t, "mid", recent[1].ID)
	assert.Equal(t, types.FetchRendered, recent[0].Status)
}

func TestFetchLogDynamoDBRepository_Errors(t *testing.T) {
	ctx := context.Background()

	failing := NewFetchLogDynamoDBRepository(&fakeDynamoDB{putErr: errors.New("throttled"), scanErr: errors.New("throttled")}, "fetch-log")
	assert.Error(t, failing.Save(ctx, entryAt("x", time.Now())))
	_, err := failing.GetRecent(ctx, 1)
	assert.Error(t, err)

	uninitialized := NewFetchLogDynamoDBRepository(nil, "fetch-log")
	assert.Error(t, uninitialized.Save(ctx, entryAt("x", time.Now())))
}

type fakeS3 struct {
	input *s3.PutObjectInput
	body  string
	err   error
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = params
	data, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.body = string(data)
	return &s3.PutObjectOutput{}, nil
}

func TestS3SnapshotPublisher_Publish(t *testing.T) {
	fake := &fakeS3{}
	publisher := NewS3SnapshotPublisher(fake, "directory-snapshots", "us-east-1")
	publisher.now = func() time.Time { return time.Unix(1700000000, 0) }

	url, err := publisher.Publish(context.Background(), []byte("<html></html>"))
	require.NoError(t, err)

	require.NotNil(t, fake.input)
	assert.Equal(t, "directory-snapshots", *fake.input.Bucket)
	assert.True(t, strings.HasPrefix(*fake.input.Key, "snapshots/"))
	assert.True(t, strings.HasSuffix(*fake.input.Key, "-1700000000.html"))
	assert.Equal(t, "text/html; charset=utf-8", *fake.input.ContentType)
	assert.Equal(t, "<html></html>", fake.body)
	assert.Equal(t, "https://directory-snapshots.s3.us-east-1.amazonaws.com/"+*fake.input.Key, url)
}

func TestS3SnapshotPublisher_UploadError(t *testing.T) {
	publisher := NewS3SnapshotPublisher(&fakeS3{err: errors.New("access denied")}, "b", "us-east-1")

	_, err := publisher.Publish(context.Background(), []byte("x"))
	assert.Error(t, err)
}
