/*
 * stream-share is a project to efficiently share the use of an IPTV service.
 * Copyright (C) 2025  Lucas Duport
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <https://www.gnu.org/licenses/>.
 */

package portal

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthFailed covers 401/403 answers and auth-shaped error bodies.
	ErrAuthFailed = errors.New("portal authentication failed")
	// ErrUnavailable covers transport errors and other non-2xx statuses.
	ErrUnavailable = errors.New("portal unavailable")
	// ErrMalformed covers bodies missing what the caller needed.
	ErrMalformed = errors.New("portal response malformed")
	// ErrNotConfigured is returned when no portal URL was given.
	ErrNotConfigured = errors.New("portal url not configured")
)

// StatusError carries the HTTP status of a rejected portal call.
type StatusError struct {
	Action string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("portal action %s: unexpected status %d", e.Action, e.Status)
}

// Unwrap maps the status to ErrAuthFailed or ErrUnavailable.
func (e *StatusError) Unwrap() error {
	if e.Status == 401 || e.Status == 403 {
		return ErrAuthFailed
	}
	return ErrUnavailable
}

// Outcome labels an error for metrics and logs.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrAuthFailed):
		return "auth_failed"
	case errors.Is(err, ErrMalformed):
		return "malformed"
	default:
		return "unavailable"
	}
}
