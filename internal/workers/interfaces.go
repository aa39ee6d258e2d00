// Package workers runs a scenario on N parallel workers, each with its own
// browser page, and guarantees per-worker teardown.
package workers

import (
	"context"

	"github.com/MKhiriev/go-sf-harness/internal/browser"
)

// Releaser frees whatever account a worker holds. The login orchestrator
// implements it.
type Releaser interface {
	Release(workerIndex int)
}

// PageFactory opens a page for workerIndex. closePage is called once the
// worker is done.
type PageFactory func(ctx context.Context, workerIndex int) (page browser.Page, closePage func(), err error)

// Scenario is the body run by every worker.
type Scenario func(ctx context.Context, w *Worker) error
