/*
 * MIT License
 *
 * Copyright (c) 2022-2025 Arsene Tochemey Gandote
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package dynamodb

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	goset "github.com/deckarep/golang-set/v2"

	"github.com/tochemey/projection/readmodel"
)

// RecordItem represents the dynamodb item of a read model record.
// RecordKind is the partition key and RecordKey the sort key.
type RecordItem struct {
	RecordKind    string
	RecordKey     string
	RecordPayload []byte
	VersionNumber uint64
	UpdatedAt     int64
}

const (
	tableName = "records_store"
)

// RecordsStore implements the records Store interface
// and helps persist read model records in a DynamoDB table
type RecordsStore struct {
	client *dynamodb.Client
}

// enforce the complete implementation of the Store interface
var _ readmodel.Store = (*RecordsStore)(nil)

// NewRecordsStore creates a new instance of RecordsStore using the ambient AWS configuration
func NewRecordsStore(ctx context.Context) (*RecordsStore, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load the aws configuration: %w", err)
	}

	return &RecordsStore{
		client: dynamodb.NewFromConfig(cfg),
	}, nil
}

// Connect connects to the records store
// No connection is needed because the client is stateless
func (d RecordsStore) Connect(_ context.Context) error {
	return nil
}

// Disconnect disconnects the records store
// There is no need to disconnect because the client is stateless
func (RecordsStore) Disconnect(_ context.Context) error {
	return nil
}

// Ping verifies a connection to the database is still alive, establishing a connection if necessary.
func (d RecordsStore) Ping(ctx context.Context) error {
	_, err := d.client.ListTables(ctx, &dynamodb.ListTablesInput{})
	if err != nil {
		return fmt.Errorf("failed to fetch tables in the dynamodb: %w", err)
	}
	return nil
}

// Upsert inserts the given record or replaces the existing record bearing the same (Kind, Key) pair
func (d RecordsStore) Upsert(ctx context.Context, record *readmodel.Record) error {
	if record == nil {
		return nil
	}

	// Define the item to upsert
	item := map[string]types.AttributeValue{
		"RecordKind":    &types.AttributeValueMemberS{Value: record.Kind}, // Partition key
		"RecordKey":     &types.AttributeValueMemberS{Value: record.Key},  // Sort key
		"RecordPayload": &types.AttributeValueMemberB{Value: record.Payload},
		"VersionNumber": &types.AttributeValueMemberN{Value: strconv.FormatUint(record.Version, 10)},
		"UpdatedAt":     &types.AttributeValueMemberN{Value: strconv.FormatInt(record.UpdatedAt, 10)},
	}

	_, err := d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert record into the dynamodb: %w", err)
	}

	return nil
}

// Get fetches the record identified by the given (kind, key) pair
func (d RecordsStore) Get(ctx context.Context, kind, key string) (*readmodel.Record, error) {
	// Get criteria
	criteria := map[string]types.AttributeValue{
		"RecordKind": &types.AttributeValueMemberS{Value: kind},
		"RecordKey":  &types.AttributeValueMemberS{Value: key},
	}

	// Perform the GetItem operation
	resp, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(tableName),
		Key:       criteria,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch the record from the dynamodb: %w", err)
	}

	// Check if item exists
	if resp.Item == nil {
		return nil, nil
	}

	item := &RecordItem{
		RecordKind:    kind,
		RecordKey:     key,
		RecordPayload: parseDynamoBytes(resp.Item["RecordPayload"]),
		VersionNumber: parseDynamoUint64(resp.Item["VersionNumber"]),
		UpdatedAt:     parseDynamoInt64(resp.Item["UpdatedAt"]),
	}

	return item.toRecord(), nil
}

// Delete removes the record identified by the given (kind, key) pair
func (d RecordsStore) Delete(ctx context.Context, kind, key string) error {
	criteria := map[string]types.AttributeValue{
		"RecordKind": &types.AttributeValueMemberS{Value: kind},
		"RecordKey":  &types.AttributeValueMemberS{Value: key},
	}

	_, err := d.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(tableName),
		Key:       criteria,
	})
	if err != nil {
		return fmt.Errorf("failed to delete the record from the dynamodb: %w", err)
	}
	return nil
}

// Kinds returns the distinct kinds present in the store
func (d RecordsStore) Kinds(ctx context.Context) ([]string, error) {
	paginator := dynamodb.NewScanPaginator(d.client, &dynamodb.ScanInput{
		TableName:            aws.String(tableName),
		ProjectionExpression: aws.String("RecordKind"),
	})

	// a set yields the unique list of kinds
	set := goset.NewSet[string]()
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch the list of kinds from the dynamodb: %w", err)
		}
		for _, item := range page.Items {
			if kind, ok := item["RecordKind"].(*types.AttributeValueMemberS); ok {
				set.Add(kind.Value)
			}
		}
	}

	if set.Cardinality() == 0 {
		return nil, nil
	}

	kinds := set.ToSlice()
	sort.SliceStable(kinds, func(i, j int) bool {
		return kinds[i] <= kinds[j]
	})

	return kinds, nil
}

// All fetches all the records of the given kind
func (d RecordsStore) All(ctx context.Context, kind string) ([]*readmodel.Record, error) {
	paginator := dynamodb.NewQueryPaginator(d.client, &dynamodb.QueryInput{
		TableName:              aws.String(tableName),
		KeyConditionExpression: aws.String("RecordKind = :kind"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":kind": &types.AttributeValueMemberS{Value: kind},
		},
	})

	var records []*readmodel.Record
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch the records of kind=%s from the dynamodb: %w", kind, err)
		}
		for _, raw := range page.Items {
			item := &RecordItem{
				RecordKind:    kind,
				RecordKey:     parseDynamoString(raw["RecordKey"]),
				RecordPayload: parseDynamoBytes(raw["RecordPayload"]),
				VersionNumber: parseDynamoUint64(raw["VersionNumber"]),
				UpdatedAt:     parseDynamoInt64(raw["UpdatedAt"]),
			}
			records = append(records, item.toRecord())
		}
	}

	return records, nil
}

// toRecord converts an item into a read model record
func (x RecordItem) toRecord() *readmodel.Record {
	return &readmodel.Record{
		Key:       x.RecordKey,
		Kind:      x.RecordKind,
		Payload:   x.RecordPayload,
		Version:   x.VersionNumber,
		UpdatedAt: x.UpdatedAt,
	}
}

// parseDynamoString extracts a string attribute value
func parseDynamoString(attribute types.AttributeValue) string {
	if member, ok := attribute.(*types.AttributeValueMemberS); ok {
		return member.Value
	}
	return ""
}

// parseDynamoBytes extracts a binary attribute value
func parseDynamoBytes(attribute types.AttributeValue) []byte {
	if member, ok := attribute.(*types.AttributeValueMemberB); ok {
		return member.Value
	}
	return nil
}

// parseDynamoUint64 extracts a numeric attribute value
func parseDynamoUint64(attribute types.AttributeValue) uint64 {
	if member, ok := attribute.(*types.AttributeValueMemberN); ok {
		value, _ := strconv.ParseUint(member.Value, 10, 64)
		return value
	}
	return 0
}

// parseDynamoInt64 extracts a numeric attribute value
func parseDynamoInt64(attribute types.AttributeValue) int64 {
	if member, ok := attribute.(*types.AttributeValueMemberN); ok {
		value, _ := strconv.ParseInt(member.Value, 10, 64)
		return value
	}
	return 0
}
