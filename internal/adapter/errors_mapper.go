package adapter

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

// mapHTTPError returns nil for 2xx and a sentinel-wrapped error carrying the
// trimmed body otherwise.
func mapHTTPError(resp *resty.Response) error {
	code := resp.StatusCode()
	if code >= http.StatusOK && code < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))
	if body == "" {
		body = http.StatusText(code)
	}

	var sentinel error
	switch {
	case code == http.StatusBadRequest:
		sentinel = ErrBadRequest
	case code == http.StatusUnauthorized:
		sentinel = ErrUnauthorized
	case code == http.StatusForbidden:
		sentinel = ErrForbidden
	case code == http.StatusNotFound:
		sentinel = ErrNotFound
	case code == http.StatusTooManyRequests:
		sentinel = ErrRateLimited
	case code >= http.StatusInternalServerError:
		sentinel = ErrServerError
	default:
		return fmt.Errorf("http %d: %s", code, body)
	}
	return fmt.Errorf("%w (http %d): %s", sentinel, code, body)
}

// mapMailboxError marks every HTTP failure of the mailbox API as transient.
// OAuth grant errors are classified by the token refresh itself.
func mapMailboxError(resp *resty.Response) error {
	if err := mapHTTPError(resp); err != nil {
		return fmt.Errorf("%w: %w", ErrMailboxTransient, err)
	}
	return nil
}
