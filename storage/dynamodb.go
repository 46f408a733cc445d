/*
# Module: storage/dynamodb.go
DynamoDB fetch history repository.

## Linked Modules
- [storage/repository](./repository.go) - Repository interfaces
- [types/fetch_log](../types/fetch_log.go) - Fetch attempt records

## Tags
storage, dynamodb, persistence, repository

## Exports
DynamoDBAPI, FetchLogDynamoDBRepository, NewFetchLogDynamoDBRepository

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "storage/dynamodb.go" ;
    code:description "DynamoDB fetch history repository" ;
    code:linksTo [
        code:name "storage/repository" ;
        code:path "./repository.go" ;
        code:relationship "Repository interfaces"
    ], [
        code:name "types/fetch_log" ;
        code:path "../types/fetch_log.go" ;
        code:relationship "Fetch attempt records"
    ] ;
    code:exports :DynamoDBAPI, :FetchLogDynamoDBRepository, :NewFetchLogDynamoDBRepository ;
    code:tags "storage", "dynamodb", "persistence", "repository" .
<!-- End LinkedDoc RDF -->
*/
package storage

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	dynamodbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog/log"

	"github.com/FallThunder/hack-at-davidson25/types"
)

// DynamoDBAPI is the subset of *dynamodb.Client the repository uses
type DynamoDBAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// FetchLogDynamoDBRepository implements FetchLogRepository using DynamoDB
type FetchLogDynamoDBRepository struct {
	client    DynamoDBAPI
	tableName string
}

// NewFetchLogDynamoDBRepository creates a new DynamoDB fetch history repository
func NewFetchLogDynamoDBRepository(client DynamoDBAPI, tableName string) *FetchLogDynamoDBRepository {
	return &FetchLogDynamoDBRepository{
		client:    client,
		tableName: tableName,
	}
}

// Save stores a fetch attempt in DynamoDB
func (r *FetchLogDynamoDBRepository) Save(ctx context.Context, entry types.FetchLog) error {
	if r.client == nil {
		return fmt.Errorf("DynamoDB client not initialized")
	}

	item, err := attributevalue.MarshalMap(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal fetch log: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to save fetch log to DynamoDB: %w", err)
	}

	log.Debug().Str("id", entry.ID).Str("status", string(entry.Status)).Msg("💾 Fetch log saved to DynamoDB")
	return nil
}

// GetRecent scans the table and returns up to limit entries, newest first
func (r *FetchLogDynamoDBRepository) GetRecent(ctx context.Context, limit int) ([]types.FetchLog, error) {
	if r.client == nil {
		return nil, fmt.Errorf("DynamoDB client not initialized")
	}

	entries := make([]types.FetchLog, 0)
	var lastEvaluatedKey map[string]dynamodbtypes.AttributeValue

	for {
		input := &dynamodb.ScanInput{
			TableName: aws.String(r.tableName),
		}
		if lastEvaluatedKey != nil {
			input.ExclusiveStartKey = lastEvaluatedKey
		}

		result, err := r.client.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fetch logs: %w", err)
		}

		for _, item := range result.Items {
			var entry types.FetchLog
			if err := attributevalue.UnmarshalMap(item, &entry); err != nil {
				log.Warn().Err(err).Msg("⚠️  Failed to unmarshal fetch log")
				continue
			}
			entries = append(entries, entry)
		}

		lastEvaluatedKey = result.LastEvaluatedKey
		if lastEvaluatedKey == nil {
			break
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
