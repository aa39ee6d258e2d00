// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package secrets reads harness secrets from AWS Secrets Manager: account
// rosters, the mailbox OAuth grant and the Salesforce connected app.
//
// One Secrets Manager client is created lazily and shared by every worker,
// and each secret document is fetched at most once per process.
package secrets

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"golang.org/x/sync/singleflight"

	"github.com/MKhiriev/go-sf-harness/internal/awsclient"
	"github.com/MKhiriev/go-sf-harness/internal/config"
	"github.com/MKhiriev/go-sf-harness/internal/logger"
	"github.com/MKhiriev/go-sf-harness/models"
)

// SecretsManagerAPI is the part of the Secrets Manager client the store uses.
type SecretsManagerAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// ClientFactory creates the Secrets Manager client on first use.
type ClientFactory func(ctx context.Context) (SecretsManagerAPI, error)

// AWSSecretStore implements credentials.RosterFetcher on top of Secrets
// Manager.
type AWSSecretStore struct {
	cfg       config.AWS
	newClient ClientFactory

	mu      sync.Mutex
	client  SecretsManagerAPI
	secrets map[string][]byte
	group   singleflight.Group

	log *logger.Logger
}

// NewAWSSecretStore reads secrets with the role configured in cfg.
func NewAWSSecretStore(cfg config.AWS, log *logger.Logger) *AWSSecretStore {
	return NewSecretStore(cfg, func(ctx context.Context) (SecretsManagerAPI, error) {
		return awsclient.NewSecretsManager(ctx, cfg)
	}, log)
}

func NewSecretStore(cfg config.AWS, newClient ClientFactory, log *logger.Logger) *AWSSecretStore {
	return &AWSSecretStore{
		cfg:       cfg,
		newClient: newClient,
		secrets:   make(map[string][]byte),
		log:       log,
	}
}

// FetchRoster returns the accounts stored under [environment][profile] of
// the user credentials secret. A profile may hold a single account object
// or an array of them; both come back as a slice. Missing environment or
// profile yields an empty roster.
func (s *AWSSecretStore) FetchRoster(ctx context.Context, environment, profile string) ([]models.Credential, error) {
	raw, err := s.secret(ctx, s.cfg.UserCredentialsSecretID)
	if err != nil {
		return nil, err
	}

	var doc map[string]map[string]json.RawMessage
	if err = json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformedSecret, s.cfg.UserCredentialsSecretID, err)
	}

	roster, err := decodeRoster(doc[environment][profile])
	if err != nil {
		return nil, fmt.Errorf("%w: %s/%s: %w", ErrMalformedSecret, environment, profile, err)
	}

	s.log.Debug().
		Str("environment", environment).
		Str("profile", profile).
		Int("accounts", len(roster)).
		Msg("fetched account roster")
	return roster, nil
}

// FetchMailboxSecrets reads the mailbox OAuth grant. An empty secretID
// means the configured default.
func (s *AWSSecretStore) FetchMailboxSecrets(ctx context.Context, secretID string) (models.MailboxSecrets, error) {
	if secretID == "" {
		secretID = s.cfg.MailboxSecretID
	}

	var out models.MailboxSecrets
	if err := s.decode(ctx, secretID, &out); err != nil {
		return models.MailboxSecrets{}, err
	}
	return out, nil
}

// FetchSalesforceOAuth reads the connected app used by API tests.
func (s *AWSSecretStore) FetchSalesforceOAuth(ctx context.Context) (models.SalesforceOAuth, error) {
	var out models.SalesforceOAuth
	if err := s.decode(ctx, s.cfg.SalesforceOAuthSecretID, &out); err != nil {
		return models.SalesforceOAuth{}, err
	}
	if out.OrgURL == "" {
		out.OrgURL = config.DefaultSalesforceLoginURL
	}
	return out, nil
}

func (s *AWSSecretStore) decode(ctx context.Context, secretID string, v any) error {
	raw, err := s.secret(ctx, secretID)
	if err != nil {
		return err
	}
	if err = json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrMalformedSecret, secretID, err)
	}
	return nil
}

// secret returns the cached SecretString of secretID, fetching it once.
func (s *AWSSecretStore) secret(ctx context.Context, secretID string) ([]byte, error) {
	s.mu.Lock()
	raw, ok := s.secrets[secretID]
	s.mu.Unlock()
	if ok {
		return raw, nil
	}

	v, err, _ := s.group.Do(secretID, func() (any, error) {
		client, err := s.getClient(ctx)
		if err != nil {
			return nil, err
		}

		out, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{SecretId: aws.String(secretID)})
		if err != nil {
			var notFound *types.ResourceNotFoundException
			if errors.As(err, &notFound) {
				return nil, fmt.Errorf("%w: %s", ErrSecretNotFound, secretID)
			}
			s.log.Err(err).Str("func", "*AWSSecretStore.secret").Str("secret_id", secretID).Msg("failed to read secret")
			return nil, fmt.Errorf("read secret %s: %w", secretID, err)
		}
		if out.SecretString == nil {
			return nil, fmt.Errorf("%w: %s has no string value", ErrSecretNotFound, secretID)
		}

		raw := []byte(aws.ToString(out.SecretString))
		s.mu.Lock()
		s.secrets[secretID] = raw
		s.mu.Unlock()
		return raw, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (s *AWSSecretStore) getClient(ctx context.Context) (SecretsManagerAPI, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		return s.client, nil
	}
	client, err := s.newClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create secrets manager client: %w", err)
	}
	s.client = client
	return client, nil
}

// decodeRoster accepts null, a single account object, or an array.
func decodeRoster(raw json.RawMessage) ([]models.Credential, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	if raw[0] == '{' {
		var one models.Credential
		if err := json.Unmarshal(raw, &one); err != nil {
			return nil, err
		}
		return []models.Credential{one}, nil
	}

	var many []models.Credential
	if err := json.Unmarshal(raw, &many); err != nil {
		return nil, err
	}
	return many, nil
}
