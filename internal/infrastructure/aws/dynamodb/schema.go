package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// API is the subset of the DynamoDB client the student table uses
type API interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
}

// StudentTable reads student records from a DynamoDB table keyed by id
type StudentTable struct {
	client API
	name   string
}

func NewStudentTable(client API, name string) *StudentTable {
	return &StudentTable{client: client, name: name}
}

// CreateTable creates the students table. An existing table is not an error.
func (s *StudentTable) CreateTable(ctx context.Context) error {
	_, err := s.client.CreateTable(ctx, s.tableSchema())
	if err != nil {
		var inUse *types.ResourceInUseException
		if errors.As(err, &inUse) {
			return nil
		}
		return fmt.Errorf("failed to create table %s: %w", s.name, err)
	}
	return nil
}

func (s *StudentTable) tableSchema() *dynamodb.CreateTableInput {
	return &dynamodb.CreateTableInput{
		TableName: aws.String(s.name),
		AttributeDefinitions: []types.AttributeDefinition{
			{
				AttributeName: aws.String(attrID),
				AttributeType: types.ScalarAttributeTypeS,
			},
		},
		KeySchema: []types.KeySchemaElement{
			{
				AttributeName: aws.String(attrID),
				KeyType:       types.KeyTypeHash,
			},
		},
		BillingMode: types.BillingModePayPerRequest,
	}
}
