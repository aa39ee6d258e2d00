package secrets

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-sf-harness/internal/config"
	"github.com/MKhiriev/go-sf-harness/internal/credentials"
	"github.com/MKhiriev/go-sf-harness/internal/logger"
)

const usersSecret = `{
  "dev": {
    "casemanager": [
      {"username": "cm1@example.com", "password": "p1"},
      {"username": "cm2@example.com", "password": "p2", "allowSessionReuse": false}
    ],
    "systemadmin": {"username": "admin@example.com", "password": "p3"},
    "empty": []
  }
}`

type fakeSecretsManager struct {
	values map[string]string
	calls  atomic.Int32
}

func (f *fakeSecretsManager) GetSecretValue(_ context.Context, in *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	f.calls.Add(1)
	v, ok := f.values[aws.ToString(in.SecretId)]
	if !ok {
		return nil, &types.ResourceNotFoundException{Message: aws.String("Secrets Manager can't find the specified secret.")}
	}
	return &secretsmanager.GetSecretValueOutput{SecretString: aws.String(v)}, nil
}

func testConfig() config.AWS {
	return config.AWS{
		UserCredentialsSecretID: config.DefaultUserCredentialsSecretID,
		MailboxSecretID:         config.DefaultMailboxSecretID,
		SalesforceOAuthSecretID: config.DefaultSalesforceOAuthSecretID,
	}
}

func newTestStore(fake *fakeSecretsManager) (*AWSSecretStore, *atomic.Int32) {
	var created atomic.Int32
	s := NewSecretStore(testConfig(), func(context.Context) (SecretsManagerAPI, error) {
		created.Add(1)
		return fake, nil
	}, logger.Nop())
	return s, &created
}

func TestFetchRoster_Array(t *testing.T) {
	fake := &fakeSecretsManager{values: map[string]string{config.DefaultUserCredentialsSecretID: usersSecret}}
	s, _ := newTestStore(fake)

	roster, err := s.FetchRoster(context.Background(), "dev", "casemanager")

	require.NoError(t, err)
	require.Len(t, roster, 2)
	assert.Equal(t, "cm1@example.com", roster[0].Username)
	assert.True(t, roster[0].SessionReuseAllowed())
	assert.False(t, roster[1].SessionReuseAllowed())
}

func TestFetchRoster_SingleObject(t *testing.T) {
	fake := &fakeSecretsManager{values: map[string]string{config.DefaultUserCredentialsSecretID: usersSecret}}
	s, _ := newTestStore(fake)

	roster, err := s.FetchRoster(context.Background(), "dev", "systemadmin")

	require.NoError(t, err)
	require.Len(t, roster, 1)
	assert.Equal(t, "admin@example.com", roster[0].Username)
}

func TestFetchRoster_MissingIsEmpty(t *testing.T) {
	fake := &fakeSecretsManager{values: map[string]string{config.DefaultUserCredentialsSecretID: usersSecret}}
	s, _ := newTestStore(fake)

	for _, tc := range [][2]string{{"dev", "nobody"}, {"prod", "casemanager"}, {"dev", "empty"}} {
		roster, err := s.FetchRoster(context.Background(), tc[0], tc[1])
		require.NoError(t, err)
		assert.Empty(t, roster)
	}
}

func TestFetchRoster_Malformed(t *testing.T) {
	fake := &fakeSecretsManager{values: map[string]string{config.DefaultUserCredentialsSecretID: `{"dev": "oops"}`}}
	s, _ := newTestStore(fake)

	_, err := s.FetchRoster(context.Background(), "dev", "casemanager")

	assert.ErrorIs(t, err, ErrMalformedSecret)
}

func TestFetchRoster_SecretReadOnce(t *testing.T) {
	fake := &fakeSecretsManager{values: map[string]string{config.DefaultUserCredentialsSecretID: usersSecret}}
	s, created := newTestStore(fake)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			profile := "casemanager"
			if i%2 == 0 {
				profile = "systemadmin"
			}
			_, err := s.FetchRoster(context.Background(), "dev", profile)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), fake.calls.Load())
	assert.Equal(t, int32(1), created.Load())
}

func TestFetchMailboxSecrets(t *testing.T) {
	fake := &fakeSecretsManager{values: map[string]string{
		config.DefaultMailboxSecretID: `{"gmailClientId":"cid","gmailClientSecret":"cs","gmailRefreshToken":"rt"}`,
		"custom/mailbox":              `{"gmailClientId":"other","gmailClientSecret":"cs2","gmailRefreshToken":"rt2"}`,
	}}
	s, _ := newTestStore(fake)

	got, err := s.FetchMailboxSecrets(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "cid", got.ClientID)
	assert.Equal(t, "rt", got.RefreshToken)

	got, err = s.FetchMailboxSecrets(context.Background(), "custom/mailbox")
	require.NoError(t, err)
	assert.Equal(t, "other", got.ClientID)
}

func TestFetchSalesforceOAuth_DefaultsOrgURL(t *testing.T) {
	fake := &fakeSecretsManager{values: map[string]string{
		config.DefaultSalesforceOAuthSecretID: `{"salesforceClientId":"cid","salesforceClientSecret":"cs"}`,
	}}
	s, _ := newTestStore(fake)

	got, err := s.FetchSalesforceOAuth(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "cid", got.ClientID)
	assert.Equal(t, config.DefaultSalesforceLoginURL, got.OrgURL)
}

func TestSecret_NotFound(t *testing.T) {
	s, _ := newTestStore(&fakeSecretsManager{values: map[string]string{}})

	_, err := s.FetchMailboxSecrets(context.Background(), "")

	assert.ErrorIs(t, err, ErrSecretNotFound)
}

func TestSecret_ClientFactoryError(t *testing.T) {
	boom := errors.New("no credentials")
	s := NewSecretStore(testConfig(), func(context.Context) (SecretsManagerAPI, error) {
		return nil, boom
	}, logger.Nop())

	_, err := s.FetchRoster(context.Background(), "dev", "casemanager")

	assert.ErrorIs(t, err, boom)
}

func TestSecretStore_FeedsCredentialPool(t *testing.T) {
	fake := &fakeSecretsManager{values: map[string]string{config.DefaultUserCredentialsSecretID: usersSecret}}
	s, _ := newTestStore(fake)
	pool := credentials.NewPool(s, logger.Nop())

	for worker, want := range []string{"cm1@example.com", "cm2@example.com", "cm1@example.com"} {
		cred, err := pool.Resolve(context.Background(), "dev", "casemanager", worker)
		require.NoError(t, err)
		assert.Equal(t, want, cred.Username)
		assert.Equal(t, "dev", cred.Environment)
	}

	_, err := pool.Resolve(context.Background(), "dev", "empty", 0)
	assert.ErrorIs(t, err, credentials.ErrCredentialNotFound)
}

func TestDecodeRoster(t *testing.T) {
	roster, err := decodeRoster([]byte("  null "))
	require.NoError(t, err)
	assert.Nil(t, roster)

	_, err = decodeRoster([]byte(`[1, 2]`))
	assert.Error(t, err)
}
