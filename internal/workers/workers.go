// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"golang.org/x/sync/errgroup"

	"github.com/MKhiriev/go-sf-harness/internal/browser"
	"github.com/MKhiriev/go-sf-harness/internal/logger"
	"github.com/MKhiriev/go-sf-harness/internal/timeline"
	"github.com/MKhiriev/go-sf-harness/internal/utils"
)

// Worker is what a scenario sees: its index, its page and a logger tagged
// with the index.
type Worker struct {
	Index  int
	Page   browser.Page
	Logger *logger.Logger
}

// WorkerError is the failure of a single worker.
type WorkerError struct {
	WorkerIndex int
	Err         error
}

func (e *WorkerError) Error() string {
	return fmt.Sprintf("worker %d: %v", e.WorkerIndex, e.Err)
}

func (e *WorkerError) Unwrap() error {
	return e.Err
}

// Workers runs scenarios across a fixed number of workers.
type Workers struct {
	size     int
	newPage  PageFactory
	releaser Releaser
	timeline *timeline.Recorder
	logger   *logger.Logger
}

func NewWorkers(size int, newPage PageFactory, releaser Releaser, rec *timeline.Recorder, log *logger.Logger) *Workers {
	if size < 1 {
		size = 1
	}
	return &Workers{
		size:     size,
		newPage:  newPage,
		releaser: releaser,
		timeline: rec,
		logger:   log,
	}
}

// Size is the number of workers.
func (w *Workers) Size() int {
	return w.size
}

// Run executes scenario once on every worker concurrently and waits for
// all of them. A failing worker does not stop the others; the failures are
// joined into the returned error as *WorkerError values.
func (w *Workers) Run(ctx context.Context, name string, scenario Scenario) error {
	var (
		g    errgroup.Group
		errs = make([]error, w.size)
	)
	for i := 0; i < w.size; i++ {
		g.Go(func() error {
			if err := w.runOne(ctx, i, name, scenario); err != nil {
				errs[i] = &WorkerError{WorkerIndex: i, Err: err}
			}
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

func (w *Workers) runOne(ctx context.Context, index int, name string, scenario Scenario) (err error) {
	log := w.logger.ForWorker(index)
	ctx = utils.WithWorkerIndex(log.WithContext(ctx), index)

	w.timeline.TestStart(index, name)
	defer func() {
		w.releaser.Release(index)
		w.timeline.TestEnd(index, name, err == nil)
	}()

	page, closePage, err := w.newPage(ctx, index)
	if err != nil {
		return fmt.Errorf("open page: %w", err)
	}
	defer closePage()

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("scenario panicked")
			err = fmt.Errorf("scenario panicked: %v", r)
		}
	}()

	return scenario(ctx, &Worker{Index: index, Page: page, Logger: log})
}
