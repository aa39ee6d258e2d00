package adapter

import (
	"net/http"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func response(code int, body string) *resty.Response {
	resp := &resty.Response{RawResponse: &http.Response{StatusCode: code}}
	resp.SetBody([]byte(body))
	return resp
}

func TestMapHTTPError(t *testing.T) {
	tests := []struct {
		name     string
		code     int
		body     string
		sentinel error
		contains string
	}{
		{name: "bad request", code: 400, body: `[{"errorCode":"MALFORMED_QUERY"}]`, sentinel: ErrBadRequest, contains: "MALFORMED_QUERY"},
		{name: "unauthorized", code: 401, sentinel: ErrUnauthorized, contains: "Unauthorized"},
		{name: "forbidden", code: 403, sentinel: ErrForbidden},
		{name: "not found", code: 404, sentinel: ErrNotFound},
		{name: "throttled", code: 429, sentinel: ErrRateLimited},
		{name: "unavailable", code: 503, body: " down \n", sentinel: ErrServerError, contains: "(http 503): down"},
		{name: "unclassified", code: 409, body: "dup", contains: "http 409: dup"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mapHTTPError(response(tt.code, tt.body))
			require.Error(t, err)
			if tt.sentinel != nil {
				assert.ErrorIs(t, err, tt.sentinel)
			}
			if tt.contains != "" {
				assert.Contains(t, err.Error(), tt.contains)
			}
		})
	}

	assert.NoError(t, mapHTTPError(response(204, "")))
}

func TestMapMailboxError(t *testing.T) {
	err := mapMailboxError(response(500, "backend"))
	assert.ErrorIs(t, err, ErrMailboxTransient)
	assert.ErrorIs(t, err, ErrServerError)
	assert.NotErrorIs(t, err, ErrMailboxAuth)

	assert.NoError(t, mapMailboxError(response(200, "{}")))
}
