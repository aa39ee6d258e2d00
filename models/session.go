// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Cookie mirrors a browser cookie as it is persisted in a session file.
// Expires is seconds since the epoch; -1 marks a session cookie.
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires"`
	HTTPOnly bool    `json:"httpOnly"`
	Secure   bool    `json:"secure"`
	SameSite string  `json:"sameSite,omitempty"`
}

// StorageEntry is one localStorage key/value pair.
type StorageEntry struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// OriginStorage groups localStorage entries of a single origin.
type OriginStorage struct {
	Origin       string         `json:"origin"`
	LocalStorage []StorageEntry `json:"localStorage"`
}

// StorageState is a browser-context snapshot: all cookies plus
// localStorage per origin.
type StorageState struct {
	Cookies []Cookie        `json:"cookies"`
	Origins []OriginStorage `json:"origins"`
}

// SessionMetadata identifies who a saved session belongs to. ProfileName is
// checked before a session is ever applied.
type SessionMetadata struct {
	ProfileName string    `json:"profileName"`
	Username    string    `json:"username"`
	SavedAt     time.Time `json:"savedAt"`
	WorkerIndex int       `json:"workerIndex"`
}

// SessionRecord is the on-disk representation of a saved login session.
type SessionRecord struct {
	StorageState
	Metadata *SessionMetadata `json:"metadata,omitempty"`
}
