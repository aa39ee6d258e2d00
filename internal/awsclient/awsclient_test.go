package awsclient

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-sf-harness/internal/config"
)

func testAWSConfig() config.AWS {
	return config.AWS{
		Region:          "ap-southeast-2",
		SecretsRoleARN:  "arn:aws:iam::123456789012:role/harness-secrets",
		RoleSessionName: "harness-test",
		EndpointURL:     "http://localhost:4566",
	}
}

func TestLoad_AssumeRoleWrapsCredentials(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "AKIDEXAMPLE")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")

	awsCfg, err := Load(context.Background(), testAWSConfig(), true)
	require.NoError(t, err)

	assert.Equal(t, "ap-southeast-2", awsCfg.Region)
	assert.IsType(t, &aws.CredentialsCache{}, awsCfg.Credentials)
}

func TestLoad_WithoutRoleKeepsDefaultChain(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "AKIDEXAMPLE")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")

	cfg := testAWSConfig()
	cfg.SecretsRoleARN = ""
	awsCfg, err := Load(context.Background(), cfg, true)
	require.NoError(t, err)

	creds, err := awsCfg.Credentials.Retrieve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "AKIDEXAMPLE", creds.AccessKeyID)
}

func TestNewClients(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "AKIDEXAMPLE")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")

	sm, err := NewSecretsManager(context.Background(), testAWSConfig())
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:4566", aws.ToString(sm.Options().BaseEndpoint))

	ddb, err := NewDynamoDB(context.Background(), testAWSConfig())
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:4566", aws.ToString(ddb.Options().BaseEndpoint))
}
