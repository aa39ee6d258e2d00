// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/chromedp/cdproto/domstorage"
	"github.com/chromedp/cdproto/storage"
	"github.com/chromedp/chromedp"

	"github.com/MKhiriev/go-sf-harness/internal/config"
	"github.com/MKhiriev/go-sf-harness/internal/logger"
	"github.com/MKhiriev/go-sf-harness/models"
)

// Browser owns one Chrome process. Every worker gets its own Browser so
// cookies never leak between workers.
type Browser struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	log         *logger.Logger
}

// NewBrowser prepares a Chrome allocator. The process itself starts with
// the first page.
func NewBrowser(ctx context.Context, cfg config.Browser, log *logger.Logger) *Browser {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", !cfg.Headed),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(cfg.WindowWidth, cfg.WindowHeight),
	)
	if cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ExecPath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	return &Browser{allocCtx: allocCtx, allocCancel: cancel, log: log}
}

// NewPage opens a tab.
func (b *Browser) NewPage() (*ChromePage, error) {
	tabCtx, cancel := chromedp.NewContext(b.allocCtx,
		chromedp.WithLogf(func(format string, args ...any) {
			b.log.Debug().Msgf(format, args...)
		}),
	)
	// the first Run launches the browser
	if err := chromedp.Run(tabCtx); err != nil {
		cancel()
		return nil, fmt.Errorf("start browser: %w", err)
	}
	return &ChromePage{tabCtx: tabCtx, cancel: cancel, origins: make(map[string]struct{})}, nil
}

// Close stops the Chrome process.
func (b *Browser) Close() {
	b.allocCancel()
}

// ChromePage implements [Page] with chromedp. Selectors are CSS queries.
type ChromePage struct {
	tabCtx context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	origins map[string]struct{}
}

// Close closes the tab.
func (p *ChromePage) Close() {
	p.cancel()
}

// run executes actions in the tab, aborting when either ctx or the tab is
// done.
func (p *ChromePage) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(p.tabCtx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if err := chromedp.Run(runCtx, actions...); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

func (p *ChromePage) rememberOrigin(raw string) {
	if origin := originOf(raw); origin != "" {
		p.mu.Lock()
		p.origins[origin] = struct{}{}
		p.mu.Unlock()
	}
}

// rememberCurrentOrigin records the origin the tab is on now. Redirects
// and form posts reach origins that Navigate never saw.
func (p *ChromePage) rememberCurrentOrigin(ctx context.Context) {
	if current, err := p.URL(ctx); err == nil {
		p.rememberOrigin(current)
	}
}

func (p *ChromePage) knownOrigins() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.origins))
	for o := range p.origins {
		out = append(out, o)
	}
	return out
}

func (p *ChromePage) Navigate(ctx context.Context, target string) error {
	if err := p.run(ctx, chromedp.Navigate(target), chromedp.WaitReady("body", chromedp.ByQuery)); err != nil {
		return fmt.Errorf("navigate to %s: %w", target, err)
	}
	p.rememberCurrentOrigin(ctx)
	return nil
}

func (p *ChromePage) URL(ctx context.Context) (string, error) {
	var loc string
	if err := p.run(ctx, chromedp.Location(&loc)); err != nil {
		return "", err
	}
	return loc, nil
}

func (p *ChromePage) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := p.run(waitCtx, chromedp.WaitVisible(selector, chromedp.ByQuery)); err != nil {
		return err
	}
	p.rememberCurrentOrigin(ctx)
	return nil
}

func (p *ChromePage) IsVisible(ctx context.Context, selector string) (bool, error) {
	sel, _ := json.Marshal(selector)
	script := fmt.Sprintf(`(() => {
		const el = document.querySelector(%s);
		if (!el) return false;
		const style = window.getComputedStyle(el);
		const box = el.getBoundingClientRect();
		return style.display !== 'none' && style.visibility !== 'hidden' && box.width > 0 && box.height > 0;
	})()`, sel)

	var visible bool
	if err := p.run(ctx, chromedp.Evaluate(script, &visible)); err != nil {
		return false, err
	}
	return visible, nil
}

func (p *ChromePage) Fill(ctx context.Context, selector, value string) error {
	return p.run(ctx,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.Clear(selector, chromedp.ByQuery),
		chromedp.SendKeys(selector, value, chromedp.ByQuery),
	)
}

func (p *ChromePage) Click(ctx context.Context, selector string) error {
	return p.run(ctx,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.Click(selector, chromedp.ByQuery),
	)
}

func (p *ChromePage) Text(ctx context.Context, selector string) (string, error) {
	var text string
	if err := p.run(ctx, chromedp.Text(selector, &text, chromedp.ByQuery)); err != nil {
		return "", err
	}
	return text, nil
}

// Screenshot writes a PNG of the viewport to path, creating the directory.
func (p *ChromePage) Screenshot(ctx context.Context, path string) error {
	var buf []byte
	if err := p.run(ctx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0o644)
}

func (p *ChromePage) StorageState(ctx context.Context) (models.StorageState, error) {
	var state models.StorageState
	p.rememberCurrentOrigin(ctx)

	err := p.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		cookies, err := storage.GetCookies().Do(ctx)
		if err != nil {
			return fmt.Errorf("read cookies: %w", err)
		}
		state.Cookies = fromCDPCookies(cookies)

		if err = domstorage.Enable().Do(ctx); err != nil {
			return err
		}
		for _, origin := range p.knownOrigins() {
			items, err := domstorage.GetDOMStorageItems(&domstorage.StorageID{
				SecurityOrigin: origin,
				IsLocalStorage: true,
			}).Do(ctx)
			if err != nil {
				return fmt.Errorf("read local storage of %s: %w", origin, err)
			}
			if entries := fromDOMStorageItems(items); len(entries) > 0 {
				state.Origins = append(state.Origins, models.OriginStorage{Origin: origin, LocalStorage: entries})
			}
		}
		return nil
	}))
	if err != nil {
		return models.StorageState{}, err
	}
	sortOrigins(state.Origins)
	return state, nil
}

func (p *ChromePage) AddCookies(ctx context.Context, cookies []models.Cookie) error {
	if len(cookies) == 0 {
		return nil
	}
	return p.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		return storage.SetCookies(toCDPCookieParams(cookies)).Do(ctx)
	}))
}

// SetOriginStorage opens a second tab in the same browser, visits origin
// and writes the entries there, then closes the tab.
func (p *ChromePage) SetOriginStorage(ctx context.Context, origin models.OriginStorage) error {
	if len(origin.LocalStorage) == 0 {
		return nil
	}
	entries, err := json.Marshal(origin.LocalStorage)
	if err != nil {
		return err
	}

	tabCtx, cancel := chromedp.NewContext(p.tabCtx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	script := fmt.Sprintf(`(() => { for (const e of %s) { localStorage.setItem(e.name, e.value); } return true; })()`, entries)
	var ok bool
	err = chromedp.Run(tabCtx,
		chromedp.Navigate(origin.Origin),
		chromedp.Evaluate(script, &ok),
	)
	if err != nil {
		return fmt.Errorf("replay local storage for %s: %w", origin.Origin, err)
	}
	p.rememberOrigin(origin.Origin)
	return nil
}

func (p *ChromePage) ClearStorage(ctx context.Context) error {
	p.rememberCurrentOrigin(ctx)
	return p.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		if err := storage.ClearCookies().Do(ctx); err != nil {
			return fmt.Errorf("clear cookies: %w", err)
		}
		for _, origin := range p.knownOrigins() {
			if err := storage.ClearDataForOrigin(origin, "local_storage,session_storage").Do(ctx); err != nil {
				return fmt.Errorf("clear storage of %s: %w", origin, err)
			}
		}
		return nil
	}))
}

// originOf returns scheme://host[:port] for http(s) URLs, "" otherwise.
func originOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
