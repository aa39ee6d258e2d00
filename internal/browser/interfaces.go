// Package browser is the harness's view of a browser tab: navigation,
// element queries, and the storage state (cookies and localStorage) that
// saved sessions are made of.
//
// ChromePage implements Page on top of chromedp. Everything else in the
// harness depends on the interfaces only.
package browser

import (
	"context"
	"time"

	"github.com/MKhiriev/go-sf-harness/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/browser_mock.go -package=mock

// StorageDriver reads and writes the storage state of a browser context.
type StorageDriver interface {
	// StorageState snapshots all cookies and the localStorage of every
	// origin the context has visited.
	StorageState(ctx context.Context) (models.StorageState, error)

	AddCookies(ctx context.Context, cookies []models.Cookie) error

	// SetOriginStorage writes localStorage entries for one origin by
	// visiting it in a transient tab.
	SetOriginStorage(ctx context.Context, origin models.OriginStorage) error

	// ClearStorage drops every cookie and all known localStorage.
	ClearStorage(ctx context.Context) error
}

// Page is a single browser tab.
type Page interface {
	StorageDriver

	Navigate(ctx context.Context, url string) error
	URL(ctx context.Context) (string, error)

	// WaitVisible blocks until selector is visible or timeout elapses.
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) error
	// IsVisible checks selector once without waiting.
	IsVisible(ctx context.Context, selector string) (bool, error)

	Fill(ctx context.Context, selector, value string) error
	Click(ctx context.Context, selector string) error
	Text(ctx context.Context, selector string) (string, error)

	Screenshot(ctx context.Context, path string) error
}
