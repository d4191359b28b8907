// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import "errors"

var (
	// ErrNotFound is returned when a referenced course code is absent.
	ErrNotFound = errors.New("store: course not found")

	// ErrPendingNotFound is returned by promotion when no active pending
	// record exists at the pending code.
	ErrPendingNotFound = errors.New("store: pending course not found")

	// ErrApprovedNotFound is returned by promotion when the approved
	// counterpart of a pending record is missing.
	ErrApprovedNotFound = errors.New("store: approved course not found")
)
