package adapter

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-sf-harness/internal/config"
	"github.com/MKhiriev/go-sf-harness/internal/logger"
	"github.com/MKhiriev/go-sf-harness/internal/utils"
	"github.com/MKhiriev/go-sf-harness/models"
)

// tokenRefreshSkew renews the access token slightly before Google expires it.
const tokenRefreshSkew = 30 * time.Second

// OAuth error codes that mean the stored grant itself is unusable.
var fatalGrantErrors = map[string]bool{
	"invalid_grant":       true,
	"invalid_client":      true,
	"unauthorized_client": true,
}

type gmailTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

type gmailOAuthError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

type gmailListResponse struct {
	Messages           []models.MessageRef `json:"messages"`
	ResultSizeEstimate int                 `json:"resultSizeEstimate"`
}

type gmailPart struct {
	MimeType string `json:"mimeType"`
	Body     struct {
		Data string `json:"data"`
	} `json:"body"`
	Parts []gmailPart `json:"parts"`
}

type gmailMessage struct {
	ID           string    `json:"id"`
	InternalDate string    `json:"internalDate"`
	Snippet      string    `json:"snippet"`
	Payload      gmailPart `json:"payload"`
}

// gmailMailbox reads the shared inbox through the Gmail REST API using an
// OAuth refresh token. The access token is cached until shortly before it
// expires and shared by every call on the same mailbox.
type gmailMailbox struct {
	client   *utils.HTTPClient
	tokenURL string
	secrets  models.MailboxSecrets
	clock    utils.Clock

	mu          sync.Mutex
	accessToken string
	expiresAt   time.Time

	logger *logger.Logger
}

// NewGmailMailbox builds a [Mailbox] for the given OAuth secrets. Missing
// client id, client secret or refresh token fail with ErrMailboxAuth
// before any request is made.
func NewGmailMailbox(cfg config.Mailbox, secrets models.MailboxSecrets, clock utils.Clock, log *logger.Logger) (Mailbox, error) {
	if secrets.ClientID == "" || secrets.ClientSecret == "" {
		return nil, fmt.Errorf("%w: mailbox client id and secret are required", ErrMailboxAuth)
	}
	if secrets.RefreshToken == "" {
		return nil, fmt.Errorf("%w: mailbox refresh token is required", ErrMailboxAuth)
	}

	client := utils.NewHTTPClient(
		utils.WithBaseURL(strings.TrimRight(cfg.APIBaseURL, "/")),
		utils.WithTimeout(cfg.RequestTimeout),
	)

	return &gmailMailbox{
		client:   client,
		tokenURL: cfg.TokenURL,
		secrets:  secrets,
		clock:    clock,
		logger:   log,
	}, nil
}

func (g *gmailMailbox) ListMessages(ctx context.Context, query string, max int) ([]models.MessageRef, error) {
	token, err := g.token(ctx)
	if err != nil {
		return nil, err
	}

	var list gmailListResponse
	resp, err := g.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetQueryParam("q", query).
		SetQueryParam("maxResults", strconv.Itoa(max)).
		SetResult(&list).
		Get("/gmail/v1/users/me/messages")
	if err != nil {
		return nil, fmt.Errorf("%w: list messages: %w", ErrMailboxTransient, err)
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		g.invalidate()
	}
	if err = mapMailboxError(resp); err != nil {
		return nil, err
	}

	return list.Messages, nil
}

func (g *gmailMailbox) GetMessage(ctx context.Context, id string) (models.MailMessage, error) {
	token, err := g.token(ctx)
	if err != nil {
		return models.MailMessage{}, err
	}

	var msg gmailMessage
	resp, err := g.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetPathParam("id", id).
		SetQueryParam("format", "full").
		SetResult(&msg).
		Get("/gmail/v1/users/me/messages/{id}")
	if err != nil {
		return models.MailMessage{}, fmt.Errorf("%w: get message %s: %w", ErrMailboxTransient, id, err)
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		g.invalidate()
	}
	if err = mapMailboxError(resp); err != nil {
		return models.MailMessage{}, err
	}

	return models.MailMessage{
		ID:         msg.ID,
		Body:       extractBody(msg.Payload),
		ReceivedAt: parseInternalDate(msg.InternalDate),
	}, nil
}

// token returns a valid access token, refreshing it when needed.
func (g *gmailMailbox) token(ctx context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.clock.Now()
	if g.accessToken != "" && now.Before(g.expiresAt) {
		return g.accessToken, nil
	}

	var (
		tok    gmailTokenResponse
		oauthE gmailOAuthError
	)
	resp, err := g.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"grant_type":    "refresh_token",
			"client_id":     g.secrets.ClientID,
			"client_secret": g.secrets.ClientSecret,
			"refresh_token": g.secrets.RefreshToken,
		}).
		SetResult(&tok).
		SetError(&oauthE).
		Post(g.tokenURL)
	if err != nil {
		return "", fmt.Errorf("%w: refresh access token: %w", ErrMailboxTransient, err)
	}
	if resp.IsError() {
		if fatalGrantErrors[oauthE.Error] {
			g.logger.Error().
				Str("func", "*gmailMailbox.token").
				Str("oauth_error", oauthE.Error).
				Msg("mailbox refresh token is invalid or expired, regenerate it in the secret store")
			return "", fmt.Errorf("%w: %s: %s", ErrMailboxAuth, oauthE.Error, oauthE.ErrorDescription)
		}
		return "", mapMailboxError(resp)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("%w: token endpoint returned no access token", ErrMailboxTransient)
	}

	g.accessToken = tok.AccessToken
	g.expiresAt = now.Add(time.Duration(tok.ExpiresIn)*time.Second - tokenRefreshSkew)
	return g.accessToken, nil
}

func (g *gmailMailbox) invalidate() {
	g.mu.Lock()
	g.accessToken = ""
	g.mu.Unlock()
}

// extractBody prefers the first text/plain part anywhere in the MIME tree
// and falls back to the top-level body.
func extractBody(p gmailPart) string {
	if text, ok := findPlainText(p.Parts); ok {
		return text
	}
	return decodeBodyData(p.Body.Data)
}

func findPlainText(parts []gmailPart) (string, bool) {
	for _, part := range parts {
		if part.MimeType == "text/plain" && part.Body.Data != "" {
			return decodeBodyData(part.Body.Data), true
		}
		if text, ok := findPlainText(part.Parts); ok {
			return text, true
		}
	}
	return "", false
}

// decodeBodyData decodes Gmail's URL-safe base64, with or without padding.
func decodeBodyData(data string) string {
	if data == "" {
		return ""
	}
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(data, "="))
	if err != nil {
		return ""
	}
	return string(raw)
}

// parseInternalDate converts Gmail's millisecond epoch string.
func parseInternalDate(ms string) time.Time {
	v, err := strconv.ParseInt(ms, 10, 64)
	if err != nil || v <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(v).UTC()
}
