// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package verify implements the operator gate in front of pending-course
// promotion. The shared credential is injected from configuration rather
// than compared inline, and may be supplied as a bcrypt hash so the
// plaintext never has to live in the environment.
package verify

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"studiegids/internal/models"
)

var (
	// ErrInvalidCredentials is returned when the supplied secret does not
	// match the configured credential.
	ErrInvalidCredentials = errors.New("verify: invalid credentials")

	// ErrNotMigratable is returned when the supplied code does not carry
	// the pending suffix and therefore cannot be promoted.
	ErrNotMigratable = errors.New("verify: code is not a pending code")
)

// Credential is the configured shared secret for the verification gate.
// A configured value with a bcrypt prefix is treated as a hash; anything
// else is compared in constant time.
type Credential struct {
	configured string
	hashed     bool
}

// NewCredential wraps a configured secret value.
func NewCredential(configured string) Credential {
	return Credential{
		configured: configured,
		hashed:     strings.HasPrefix(configured, "$2"),
	}
}

// Matches reports whether the supplied secret matches the credential.
// An unconfigured credential matches nothing.
func (c Credential) Matches(secret string) bool {
	if c.configured == "" {
		return false
	}
	if c.hashed {
		return bcrypt.CompareHashAndPassword([]byte(c.configured), []byte(secret)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(c.configured), []byte(secret)) == 1
}

// Promoter migrates a pending record onto its approved counterpart.
// Implemented by store.CourseStore.
type Promoter interface {
	Promote(ctx context.Context, pendingCode string) error
}

// Gate validates a promotion request before handing it to the store.
type Gate struct {
	cred     Credential
	promoter Promoter
}

// NewGate creates a verification gate over the given credential and store.
func NewGate(cred Credential, promoter Promoter) *Gate {
	return &Gate{cred: cred, promoter: promoter}
}

// Promote checks the credential and the pending suffix, then delegates the
// store-level preconditions and the atomic migration to the promoter.
// No state changes on any failure.
func (g *Gate) Promote(ctx context.Context, pendingCode, secret string) error {
	if !g.cred.Matches(secret) {
		return ErrInvalidCredentials
	}
	if !models.IsPendingCode(pendingCode) {
		return ErrNotMigratable
	}
	return g.promoter.Promote(ctx, pendingCode)
}
