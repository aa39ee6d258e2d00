package adapter

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-sf-harness/internal/config"
	"github.com/MKhiriev/go-sf-harness/internal/logger"
	"github.com/MKhiriev/go-sf-harness/internal/utils"
	"github.com/MKhiriev/go-sf-harness/models"
)

const (
	jwtBearerGrantType       = "urn:ietf:params:oauth:grant-type:jwt-bearer"
	salesforceRequestTimeout = 30 * time.Second
)

type salesforceToken struct {
	AccessToken string `json:"access_token"`
	InstanceURL string `json:"instance_url"`
	TokenType   string `json:"token_type"`
}

type salesforceQueryResponse struct {
	TotalSize      int              `json:"totalSize"`
	Done           bool             `json:"done"`
	NextRecordsURL string           `json:"nextRecordsUrl"`
	Records        []map[string]any `json:"records"`
}

type salesforceCreateResponse struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
}

// SalesforceClient is a small REST client for API tests: SOQL queries and
// sObject create, update and delete. It authenticates lazily on the first
// call and re-authenticates once when the access token is rejected.
type SalesforceClient struct {
	client     *utils.HTTPClient
	tokenURL   string
	apiVersion string
	grant      func() (map[string]string, error)

	mu    sync.Mutex
	token salesforceToken

	logger *logger.Logger
}

// NewSalesforceClientCredentials authenticates with the OAuth client
// credentials flow against the org's own token endpoint.
func NewSalesforceClientCredentials(oauth models.SalesforceOAuth, cfg config.Salesforce, log *logger.Logger) (*SalesforceClient, error) {
	if oauth.ClientID == "" || oauth.ClientSecret == "" || oauth.OrgURL == "" {
		return nil, errors.New("salesforce oauth secret is incomplete")
	}

	return newSalesforceClient(strings.TrimRight(oauth.OrgURL, "/")+"/services/oauth2/token", cfg, log, func() (map[string]string, error) {
		return map[string]string{
			"grant_type":    "client_credentials",
			"client_id":     oauth.ClientID,
			"client_secret": oauth.ClientSecret,
		}, nil
	}), nil
}

// NewSalesforceJWTBearer authenticates with a signed JWT bearer assertion
// for cfg.JWTUsername. A fresh assertion is signed for every token request.
func NewSalesforceJWTBearer(clientID string, key *rsa.PrivateKey, cfg config.Salesforce, clock utils.Clock, log *logger.Logger) (*SalesforceClient, error) {
	if clientID == "" || key == nil || cfg.JWTUsername == "" {
		return nil, errors.New("jwt bearer flow needs client id, private key and username")
	}

	loginURL := strings.TrimRight(cfg.LoginURL, "/")
	return newSalesforceClient(loginURL+"/services/oauth2/token", cfg, log, func() (map[string]string, error) {
		assertion, err := utils.GenerateBearerAssertion(clientID, cfg.JWTUsername, loginURL, key, clock.Now())
		if err != nil {
			return nil, err
		}
		return map[string]string{
			"grant_type": jwtBearerGrantType,
			"assertion":  assertion,
		}, nil
	}), nil
}

func newSalesforceClient(tokenURL string, cfg config.Salesforce, log *logger.Logger, grant func() (map[string]string, error)) *SalesforceClient {
	return &SalesforceClient{
		client:     utils.NewHTTPClient(utils.WithTimeout(salesforceRequestTimeout)),
		tokenURL:   tokenURL,
		apiVersion: cfg.APIVersion,
		grant:      grant,
		logger:     log,
	}
}

// Query runs a SOQL query and follows nextRecordsUrl until every record is
// collected.
func (s *SalesforceClient) Query(ctx context.Context, soql string) ([]map[string]any, error) {
	var records []map[string]any

	next := s.dataPath("/query")
	params := map[string]string{"q": soql}
	for next != "" {
		var page salesforceQueryResponse
		err := s.do(ctx, func(r *resty.Request, base string) (*resty.Response, error) {
			return r.SetQueryParams(params).SetResult(&page).Get(base + next)
		})
		if err != nil {
			return nil, fmt.Errorf("soql query: %w", err)
		}

		records = append(records, page.Records...)
		if page.Done {
			break
		}
		next, params = page.NextRecordsURL, nil
	}

	return records, nil
}

// CreateRecord inserts an sObject and returns its id. Duplicate rules are
// told to allow the save since test data is intentionally repetitive.
func (s *SalesforceClient) CreateRecord(ctx context.Context, sObject string, fields map[string]any) (string, error) {
	var created salesforceCreateResponse
	err := s.do(ctx, func(r *resty.Request, base string) (*resty.Response, error) {
		return r.
			SetHeader("Content-Type", "application/json").
			SetHeader("Sforce-Duplicate-Rule-Header", "allowSave=true").
			SetBody(fields).
			SetResult(&created).
			Post(base + s.dataPath("/sobjects/"+sObject))
	})
	if err != nil {
		return "", fmt.Errorf("create %s: %w", sObject, err)
	}
	return created.ID, nil
}

func (s *SalesforceClient) UpdateRecord(ctx context.Context, sObject, id string, fields map[string]any) error {
	err := s.do(ctx, func(r *resty.Request, base string) (*resty.Response, error) {
		return r.
			SetHeader("Content-Type", "application/json").
			SetBody(fields).
			Patch(base + s.dataPath("/sobjects/"+sObject+"/"+id))
	})
	if err != nil {
		return fmt.Errorf("update %s %s: %w", sObject, id, err)
	}
	return nil
}

// DeleteRecord removes an sObject. Deleting an already deleted record is
// not an error so cleanup can run more than once.
func (s *SalesforceClient) DeleteRecord(ctx context.Context, sObject, id string) error {
	err := s.do(ctx, func(r *resty.Request, base string) (*resty.Response, error) {
		return r.Delete(base + s.dataPath("/sobjects/"+sObject+"/"+id))
	})
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("delete %s %s: %w", sObject, id, err)
	}
	return nil
}

func (s *SalesforceClient) dataPath(suffix string) string {
	return "/services/data/" + s.apiVersion + suffix
}

// do sends an authenticated request against the instance URL, retrying once
// with a new token on 401.
func (s *SalesforceClient) do(ctx context.Context, send func(r *resty.Request, base string) (*resty.Response, error)) error {
	for attempt := 0; attempt < 2; attempt++ {
		tok, err := s.authenticate(ctx)
		if err != nil {
			return err
		}

		req := s.client.R().SetContext(ctx).SetAuthToken(tok.AccessToken)
		resp, err := send(req, strings.TrimRight(tok.InstanceURL, "/"))
		if err != nil {
			return err
		}
		if resp.StatusCode() == http.StatusUnauthorized && attempt == 0 {
			s.logger.Warn().Str("func", "*SalesforceClient.do").Msg("salesforce session expired, re-authenticating")
			s.reset()
			continue
		}
		return mapHTTPError(resp)
	}
	return ErrUnauthorized
}

func (s *SalesforceClient) authenticate(ctx context.Context) (salesforceToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token.AccessToken != "" {
		return s.token, nil
	}

	form, err := s.grant()
	if err != nil {
		return salesforceToken{}, fmt.Errorf("build token request: %w", err)
	}

	var tok salesforceToken
	resp, err := s.client.R().
		SetContext(ctx).
		SetFormData(form).
		SetResult(&tok).
		Post(s.tokenURL)
	if err != nil {
		return salesforceToken{}, fmt.Errorf("salesforce token request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		s.logger.Err(err).Str("func", "*SalesforceClient.authenticate").Msg("salesforce authentication failed")
		return salesforceToken{}, fmt.Errorf("salesforce authentication: %w", err)
	}
	if tok.AccessToken == "" || tok.InstanceURL == "" {
		return salesforceToken{}, errors.New("salesforce token response is missing access token or instance url")
	}

	s.token = tok
	return s.token, nil
}

func (s *SalesforceClient) reset() {
	s.mu.Lock()
	s.token = salesforceToken{}
	s.mu.Unlock()
}
