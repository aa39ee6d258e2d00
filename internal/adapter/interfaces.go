// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter contains the HTTP clients the harness uses to talk to
// remote APIs: the shared verification-code mailbox (Gmail REST) and the
// Salesforce REST API used by API tests.
//
// Transport failures are mapped onto the sentinel values in errors.go so
// callers can branch with [errors.Is] without knowing about HTTP.
package adapter

import (
	"context"

	"github.com/MKhiriev/go-sf-harness/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/mailbox_mock.go -package=mock

// Mailbox is read access to the shared inbox that receives Salesforce
// verification codes.
type Mailbox interface {
	// ListMessages returns up to max messages matching query, newest first.
	// A rejected OAuth grant is reported as ErrMailboxAuth; anything that
	// may succeed on a later attempt as ErrMailboxTransient.
	ListMessages(ctx context.Context, query string, max int) ([]models.MessageRef, error)

	// GetMessage fetches a single message and decodes its text body.
	GetMessage(ctx context.Context, id string) (models.MailMessage, error)
}
