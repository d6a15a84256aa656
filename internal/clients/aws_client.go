package clients

import (
	"context"
	"log/slog"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

var (
	awsCfg         aws.Config
	awsOnce        sync.Once
	dynamoInstance *dynamodb.Client
	dynamoOnce     sync.Once
)

func GetAWSConfig(region string) aws.Config {
	awsOnce.Do(func() {
		slog.Info("[AWSClient] Initializing AWS Config...", slog.String("region", region))
		cfg, err := config.LoadDefaultConfig(context.Background(),
			config.WithRegion(region))
		if err != nil {
			slog.Error("[AWSClient] Failed to load AWS config")
			panic(err)
		}

		awsCfg = cfg
		slog.Info("[AWSClient] AWS Config Initialized")
	})

	return awsCfg
}

// GetDynamoDBClient returns the shared DynamoDB client. An empty endpoint
// uses the regional AWS endpoint, anything else (e.g. DynamoDB Local) overrides it.
func GetDynamoDBClient(region, endpoint string) *dynamodb.Client {
	dynamoOnce.Do(func() {
		dynamoInstance = dynamodb.NewFromConfig(GetAWSConfig(region), func(o *dynamodb.Options) {
			if endpoint != "" {
				o.BaseEndpoint = aws.String(endpoint)
			}
		})
	})
	return dynamoInstance
}
