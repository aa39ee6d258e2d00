// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"

	"github.com/MKhiriev/go-sf-harness/internal/logger"
	"github.com/MKhiriev/go-sf-harness/models"
)

// DynamoDBAPI is the subset of the DynamoDB client used by the ledger.
type DynamoDBAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

// Attribute names of the claims table. MessageId is the partition key.
// MessageTimestamp is a number of epoch milliseconds so that other tools
// sharing the table can range over it.
const (
	attrMessageID        = "MessageId"
	attrTestRunID        = "TestRunId"
	attrOTP              = "Otp"
	attrUsername         = "Username"
	attrClaimedAt        = "ClaimedAt"
	attrMessageTimestamp = "MessageTimestamp"
)

// dynamoClaimLedger is the shared, cross-machine ledger used in CI. A
// conditional PutItem on attribute_not_exists(MessageId) is the one
// serialisation point between every worker of every job.
type dynamoClaimLedger struct {
	client DynamoDBAPI
	table  string
	logger *logger.Logger
}

func NewDynamoClaimLedger(client DynamoDBAPI, table string, log *logger.Logger) ClaimLedger {
	log.Debug().Str("table", table).Msg("creating dynamodb claim ledger")
	return &dynamoClaimLedger{client: client, table: table, logger: log}
}

// PutIfAbsent writes the claim under attribute_not_exists(MessageId). The
// SDK retries a put whose response was lost, and that retry then fails its
// own condition; the existing item returned with the failure tells such a
// retry apart from a real conflict.
func (l *dynamoClaimLedger) PutIfAbsent(ctx context.Context, record models.OtpClaimRecord) error {
	if record.MessageID == "" {
		return ErrInvalidClaim
	}

	claimedAt := record.ClaimedAt.UTC().Format(time.RFC3339Nano)
	_, err := l.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(l.table),
		Item: map[string]types.AttributeValue{
			attrMessageID:        &types.AttributeValueMemberS{Value: record.MessageID},
			attrTestRunID:        &types.AttributeValueMemberS{Value: record.TestRunID},
			attrOTP:              &types.AttributeValueMemberS{Value: record.OTP},
			attrUsername:         &types.AttributeValueMemberS{Value: record.Username},
			attrClaimedAt:        &types.AttributeValueMemberS{Value: claimedAt},
			attrMessageTimestamp: &types.AttributeValueMemberN{Value: strconv.FormatInt(record.MessageTimestamp.UnixMilli(), 10)},
		},
		ConditionExpression:                 aws.String("attribute_not_exists(" + attrMessageID + ")"),
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	})
	if err == nil {
		return nil
	}

	var condErr *types.ConditionalCheckFailedException
	if errors.As(err, &condErr) {
		if isOwnItem(condErr.Item, record, claimedAt) {
			logger.FromContext(ctx).Debug().Str("message_id", record.MessageID).Msg("otp claim already written by a retried put")
			return nil
		}
		return ErrClaimConflict
	}

	log := logger.FromContext(ctx)
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		log.Err(err).
			Str("func", "*dynamoClaimLedger.PutIfAbsent").
			Str("code", apiErr.ErrorCode()).
			Str("fault", apiErr.ErrorFault().String()).
			Msg("dynamodb rejected otp claim")
	} else {
		log.Err(err).Str("func", "*dynamoClaimLedger.PutIfAbsent").Msg("error writing otp claim")
	}
	return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
}

func (l *dynamoClaimLedger) Get(ctx context.Context, messageID string) (models.OtpClaimRecord, error) {
	out, err := l.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(l.table),
		Key: map[string]types.AttributeValue{
			attrMessageID: &types.AttributeValueMemberS{Value: messageID},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return models.OtpClaimRecord{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if len(out.Item) == 0 {
		return models.OtpClaimRecord{}, ErrClaimNotFound
	}
	return recordFromItem(out.Item)
}

func recordFromItem(item map[string]types.AttributeValue) (models.OtpClaimRecord, error) {
	rec := models.OtpClaimRecord{
		MessageID: stringAttr(item, attrMessageID),
		TestRunID: stringAttr(item, attrTestRunID),
		OTP:       stringAttr(item, attrOTP),
		Username:  stringAttr(item, attrUsername),
	}
	var err error
	if rec.ClaimedAt, err = timeAttr(item, attrClaimedAt); err != nil {
		return models.OtpClaimRecord{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	if rec.MessageTimestamp, err = timeAttr(item, attrMessageTimestamp); err != nil {
		return models.OtpClaimRecord{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	return rec, nil
}

// isOwnItem reports whether item is exactly the claim we tried to write.
// ClaimedAt is compared as stored text so a later claim of ours never
// matches.
func isOwnItem(item map[string]types.AttributeValue, record models.OtpClaimRecord, claimedAt string) bool {
	if len(item) == 0 {
		return false
	}
	stored, err := recordFromItem(item)
	if err != nil {
		return false
	}
	return stored.TestRunID == record.TestRunID &&
		stored.Username == record.Username &&
		stored.OTP == record.OTP &&
		stringAttr(item, attrClaimedAt) == claimedAt
}

func stringAttr(item map[string]types.AttributeValue, name string) string {
	if v, ok := item[name].(*types.AttributeValueMemberS); ok {
		return v.Value
	}
	return ""
}

// timeAttr reads either epoch milliseconds (N) or an RFC 3339 string (S).
func timeAttr(item map[string]types.AttributeValue, name string) (time.Time, error) {
	if v, ok := item[name].(*types.AttributeValueMemberN); ok {
		ms, err := strconv.ParseInt(v.Value, 10, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("attribute %s: %w", name, err)
		}
		return time.UnixMilli(ms).UTC(), nil
	}
	raw := stringAttr(item, name)
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, raw)
}
