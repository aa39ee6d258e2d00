// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-sf-harness/internal/logger"
	"github.com/MKhiriev/go-sf-harness/models"
)

type versionResponse struct {
	Version string `json:"version"`
	Date    string `json:"date"`
	Commit  string `json:"commit"`
}

type lockResponse struct {
	Username string    `json:"username"`
	Worker   int       `json:"worker"`
	Profile  string    `json:"profile"`
	LockedAt time.Time `json:"lockedAt"`
	AgeMs    int64     `json:"ageMs"`
	Waiting  []int     `json:"waiting"`
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte("ok"))
}

func (h *Handler) version(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, versionResponse{
		Version: h.buildInfo.BuildVersion(),
		Date:    h.buildInfo.BuildDate(),
		Commit:  h.buildInfo.BuildCommit(),
	})
}

func (h *Handler) timelineEvents(w http.ResponseWriter, r *http.Request) {
	body, err := h.timeline.ExportJSON()
	if err != nil {
		logger.FromContext(r.Context()).Err(err).Msg("export timeline")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

func (h *Handler) timelineSummary(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(h.timeline.Summary()))
}

func (h *Handler) heldLocks(w http.ResponseWriter, r *http.Request) {
	now := h.clock.Now()
	held := h.locks.Snapshot()

	resp := make([]lockResponse, 0, len(held))
	for _, l := range held {
		resp = append(resp, h.newLockResponse(l, now))
	}
	h.writeJSON(w, r, resp)
}

func (h *Handler) userLock(w http.ResponseWriter, r *http.Request) {
	l, ok := h.locks.Holder(chi.URLParam(r, "username"))
	if !ok {
		http.Error(w, "account is not locked", http.StatusNotFound)
		return
	}
	h.writeJSON(w, r, h.newLockResponse(l, h.clock.Now()))
}

func (h *Handler) workerLock(w http.ResponseWriter, r *http.Request) {
	worker, err := strconv.Atoi(chi.URLParam(r, "worker"))
	if err != nil || worker < 0 {
		http.Error(w, "worker must be a non-negative integer", http.StatusBadRequest)
		return
	}
	username, ok := h.locks.HeldBy(worker)
	if !ok {
		http.Error(w, "worker holds no account", http.StatusNotFound)
		return
	}
	// the lock may be released between the two reads
	l, ok := h.locks.Holder(username)
	if !ok || l.LockedByWorker != worker {
		http.Error(w, "worker holds no account", http.StatusNotFound)
		return
	}
	h.writeJSON(w, r, h.newLockResponse(l, h.clock.Now()))
}

func (h *Handler) newLockResponse(l models.UserLock, now time.Time) lockResponse {
	waiting := h.locks.Waiting(l.Username)
	if waiting == nil {
		waiting = []int{}
	}
	return lockResponse{
		Username: l.Username,
		Worker:   l.LockedByWorker,
		Profile:  l.Profile,
		LockedAt: l.LockedAt,
		AgeMs:    l.Age(now).Milliseconds(),
		Waiting:  waiting,
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Err(err).Msg("encode response")
	}
}
