/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/suparena/dynamorepo/config"
	"github.com/suparena/dynamorepo/registry"
)

// NewDynamoDBClient initializes a DynamoDB client from the AWS section of
// the configuration. Static credentials are used when both keys are set,
// otherwise the SDK's default credential chain applies.
func NewDynamoDBClient(ctx context.Context, cfg config.AWSConfig) (*sdk.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken),
		))
	}
	if cfg.MaxRetries > 0 {
		opts = append(opts, awsconfig.WithRetryMaxAttempts(cfg.MaxRetries))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return sdk.NewFromConfig(awsCfg, func(o *sdk.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}

// NewFromConfig builds a client from cfg and a store for T using the
// configured table prefix, overrides, read consistency and page size.
// Options passed explicitly are applied last.
func NewFromConfig[T any](ctx context.Context, cfg config.Config, opts ...Option) (*DynamodbDataStore[T], error) {
	client, err := NewDynamoDBClient(ctx, cfg.AWS)
	if err != nil {
		return nil, fmt.Errorf("failed to create DynamoDB client: %w", err)
	}
	return NewDynamodbDataStore[T](client, append(ConfigOptions[T](cfg), opts...)...)
}

// ConfigOptions translates the table and query sections of cfg into store options.
// The table name is resolved by cfg.TableName from the Go type name of T.
func ConfigOptions[T any](cfg config.Config) []Option {
	typeName := registry.TypeOf[T]().Name()
	return []Option{
		WithTableNameFunc(func(name string) string { return cfg.TableName(typeName, name) }),
		WithConsistentReads(cfg.Query.ConsistentReads),
		WithPageSize(cfg.Query.PageSize),
	}
}
