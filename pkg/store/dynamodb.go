package store

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
	"liyu1981.xyz/medical-device-tracker/pkg/common"
	"liyu1981.xyz/medical-device-tracker/pkg/models"
)

const defaultSnapshotsTable = "tracker_snapshots"

//go:generate mockgen -source=dynamodb.go -destination=mocks/mock_dynamodb.go -package=mocks

// DynamoAPI is the part of the DynamoDB client the store calls.
type DynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

type snapshotItem struct {
	ID        string `dynamodbav:"id"`
	Payload   []byte `dynamodbav:"payload"`
	UpdatedAt string `dynamodbav:"updated_at"`
}

// DynamoStore persists the snapshot as a single item.
//
// Table requirements:
//   - PK: id (string)
type DynamoStore struct {
	ddb       DynamoAPI
	tableName string
	key       string
}

var _ Storage = (*DynamoStore)(nil)

func NewDynamoStore(ddb DynamoAPI, tableName, key string) *DynamoStore {
	if tableName == "" {
		tableName = defaultSnapshotsTable
	}
	if key == "" {
		key = common.DefaultSnapshotKey
	}
	return &DynamoStore{ddb: ddb, tableName: tableName, key: key}
}

// NewDynamoClientFromEnv builds a client from AWS_REGION, AWS_ACCESS_KEY_ID,
// AWS_SECRET_ACCESS_KEY and the optional DYNAMODB_ENDPOINT for a local
// DynamoDB.
func NewDynamoClientFromEnv(ctx context.Context) (*dynamodb.Client, error) {
	region := common.GetenvDefault("AWS_REGION", "us-east-1")
	endpoint := common.GetenvDefault("DYNAMODB_ENDPOINT", "")

	// local DynamoDB ignores credentials but the SDK insists on having some
	creds := credentials.NewStaticCredentialsProvider(
		common.GetenvDefault("AWS_ACCESS_KEY_ID", "local"),
		common.GetenvDefault("AWS_SECRET_ACCESS_KEY", "local"),
		"",
	)

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithCredentialsProvider(creds),
	)
	if err != nil {
		return nil, err
	}

	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	}), nil
}

func (s *DynamoStore) Load(ctx context.Context) (*models.State, error) {
	out, err := s.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: s.key},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Item) == 0 {
		return nil, ErrNoSnapshot
	}

	var item snapshotItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, err
	}
	state, err := Decode(item.Payload)
	if err != nil {
		return nil, fmt.Errorf("decode snapshot %q: %w", s.key, err)
	}
	return state, nil
}

func (s *DynamoStore) Save(ctx context.Context, state *models.State) error {
	logger := common.GetCategoryLogger(common.LoggerNameStorage, common.LoggerCategorySnapshot)

	payload, err := Encode(state)
	if err != nil {
		return err
	}

	av, err := attributevalue.MarshalMap(snapshotItem{
		ID:        s.key,
		Payload:   payload,
		UpdatedAt: models.FormatTimestamp(time.Now()),
	})
	if err != nil {
		return err
	}

	_, err = s.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      av,
	})
	if err != nil {
		return err
	}

	logger.Debug("Saved snapshot", zap.String("table", s.tableName), zap.String("key", s.key))
	return nil
}
