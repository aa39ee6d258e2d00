// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package crypto seals session files with a passphrase so saved cookies are
// useless to anyone who copies the session directory.
package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
)

const (
	saltSize = 16
	keySize  = 32
)

// magic prefixes every sealed blob: "sfhs" plus a format version.
var magic = []byte("sfhs\x01")

var (
	ErrNotSealed   = errors.New("data is not sealed")
	ErrEmptySecret = errors.New("passphrase is empty")
)

// PassphraseSealer derives a fresh AES-256-GCM key per blob from a
// passphrase and a random salt with Argon2id.
//
// Blob layout: magic || salt (16) || nonce (12) || ciphertext.
type PassphraseSealer struct {
	passphrase []byte

	argonTime    uint32
	argonMemory  uint32
	argonThreads uint8
}

// NewPassphraseSealer uses Argon2id with 1 iteration, 64 MiB and 4 threads.
func NewPassphraseSealer(passphrase string) (*PassphraseSealer, error) {
	if passphrase == "" {
		return nil, ErrEmptySecret
	}
	return &PassphraseSealer{
		passphrase:   []byte(passphrase),
		argonTime:    1,
		argonMemory:  64 * 1024,
		argonThreads: 4,
	}, nil
}

func (s *PassphraseSealer) deriveKey(salt []byte) []byte {
	return argon2.IDKey(s.passphrase, salt, s.argonTime, s.argonMemory, s.argonThreads, keySize)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}
	return gcm, nil
}

// Seal implements [Sealer].
func (s *PassphraseSealer) Seal(plaintext []byte) ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}

	gcm, err := newGCM(s.deriveKey(salt))
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err = io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	header := make([]byte, 0, len(magic)+saltSize+len(nonce))
	header = append(header, magic...)
	header = append(header, salt...)
	header = append(header, nonce...)

	// the header is authenticated as additional data
	return gcm.Seal(header, nonce, plaintext, header), nil
}

// Open implements [Sealer]. It returns [ErrNotSealed] for data without the
// sealed header.
func (s *PassphraseSealer) Open(blob []byte) ([]byte, error) {
	if !IsSealed(blob) {
		return nil, ErrNotSealed
	}
	rest := blob[len(magic):]
	if len(rest) < saltSize {
		return nil, fmt.Errorf("sealed data too short")
	}
	salt := rest[:saltSize]

	gcm, err := newGCM(s.deriveKey(salt))
	if err != nil {
		return nil, err
	}

	headerLen := len(magic) + saltSize + gcm.NonceSize()
	if len(blob) < headerLen+gcm.Overhead() {
		return nil, fmt.Errorf("sealed data too short")
	}
	header := blob[:headerLen]
	nonce := header[len(magic)+saltSize:]

	plaintext, err := gcm.Open(nil, nonce, blob[headerLen:], header)
	if err != nil {
		return nil, fmt.Errorf("decrypt: %w", err)
	}
	return plaintext, nil
}

// IsSealed reports whether blob starts with the sealed header.
func IsSealed(blob []byte) bool {
	return bytes.HasPrefix(blob, magic)
}
