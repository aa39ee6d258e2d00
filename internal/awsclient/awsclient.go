// Package awsclient builds AWS SDK configuration and service clients for
// the harness.
package awsclient

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/MKhiriev/go-sf-harness/internal/config"
)

// Load resolves the default credential chain for cfg.Region. With
// assumeRole set and cfg.SecretsRoleARN present, credentials are swapped
// for the role's temporary credentials, cached and refreshed by the SDK.
func Load(ctx context.Context, cfg config.AWS, assumeRole bool) (aws.Config, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}

	if assumeRole && cfg.SecretsRoleARN != "" {
		provider := stscreds.NewAssumeRoleProvider(sts.NewFromConfig(awsCfg), cfg.SecretsRoleARN,
			func(o *stscreds.AssumeRoleOptions) {
				o.RoleSessionName = cfg.RoleSessionName
			})
		awsCfg.Credentials = aws.NewCredentialsCache(provider)
	}

	return awsCfg, nil
}

// NewSecretsManager returns a Secrets Manager client reading with the
// secrets role.
func NewSecretsManager(ctx context.Context, cfg config.AWS) (*secretsmanager.Client, error) {
	awsCfg, err := Load(ctx, cfg, true)
	if err != nil {
		return nil, err
	}
	return secretsmanager.NewFromConfig(awsCfg, func(o *secretsmanager.Options) {
		if cfg.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
		}
	}), nil
}

// NewDynamoDB returns a DynamoDB client using the caller's own credentials.
func NewDynamoDB(ctx context.Context, cfg config.AWS) (*dynamodb.Client, error) {
	awsCfg, err := Load(ctx, cfg, false)
	if err != nil {
		return nil, err
	}
	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
		}
	}), nil
}
