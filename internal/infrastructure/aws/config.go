package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

type AWSConfig struct {
	Region   string
	DynamoDB *dynamodb.Client
}

func NewAWSConfig(ctx context.Context, region string) (*AWSConfig, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &AWSConfig{
		Region:   region,
		DynamoDB: dynamodb.NewFromConfig(cfg),
	}, nil
}
