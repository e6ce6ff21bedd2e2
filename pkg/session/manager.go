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

package session

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/lucasduport/stalker-share/pkg/metrics"
	"github.com/lucasduport/stalker-share/pkg/portal"
	"github.com/lucasduport/stalker-share/pkg/utils"
	"golang.org/x/sync/singleflight"
)

// maxAttempts bounds every logical request to the original call plus one
// retry with a fresh login.
const maxAttempts = 2

// Upstream is the portal as seen by the manager.
type Upstream interface {
	Handshake(ctx context.Context) (string, error)
	Profile(ctx context.Context, token string) (*portal.Response, error)
	Do(ctx context.Context, token string, a portal.Action) (*portal.Response, error)
}

// Manager owns the one portal session shared by every request.
type Manager struct {
	upstream Upstream
	ttl      time.Duration
	now      func() time.Time

	current atomic.Pointer[Session]
	flight  singleflight.Group
}

// NewManager creates a manager with an empty session. Sessions older than
// ttl are never reused.
func NewManager(upstream Upstream, ttl time.Duration) *Manager {
	m := &Manager{
		upstream: upstream,
		ttl:      ttl,
		now:      time.Now,
	}
	m.current.Store(&Session{})
	return m
}

// SetClock replaces the time source.
func (m *Manager) SetClock(now func() time.Time) {
	m.now = now
}

// Snapshot returns a copy of the current session.
func (m *Manager) Snapshot() Session {
	return *m.current.Load()
}

// TTL returns the validity window.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// EnsureHandshake makes sure a fresh token is cached. It only reaches the
// portal when the token is missing or older than the validity window, and
// leaves the session untouched on failure.
func (m *Manager) EnsureHandshake(ctx context.Context) error {
	_, err := m.tokenSession(ctx)
	return err
}

// EnsureProfile returns the cached profile, logging in when it is missing
// or stale. A rejected or unreadable profile clears the session and the
// login is retried once.
func (m *Manager) EnsureProfile(ctx context.Context) (json.RawMessage, error) {
	if s := m.current.Load(); s.HasProfile() && s.Fresh(m.now(), m.ttl) {
		return s.Profile, nil
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		s, err := m.tokenSession(ctx)
		if err != nil {
			return nil, err
		}

		profile, err := m.loadProfile(ctx, s)
		if err == nil {
			return profile, nil
		}
		lastErr = err
		m.invalidate(s, err)
		if ctx.Err() != nil {
			break
		}
	}
	utils.WarnLog("Profile unavailable after %d attempts: %v", maxAttempts, lastErr)
	return nil, lastErr
}

// Call runs an authenticated portal action. Any failure (rejected status,
// error page, transport error) clears the session and the action is tried
// once more with a fresh token. JSON is returned untouched; callers decode
// it through portal.Response.
func (m *Manager) Call(ctx context.Context, a portal.Action) (*portal.Response, error) {
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		s, err := m.tokenSession(ctx)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			continue
		}

		resp, err := m.upstream.Do(ctx, s.Token, a)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		m.invalidate(s, err)
		if ctx.Err() != nil {
			break
		}
		if attempt+1 < maxAttempts {
			utils.DebugLog("Retrying %s/%s with a fresh session", a.Type, a.Name)
		}
	}
	utils.WarnLog("Portal action %s failed: %v", a.Name, lastErr)
	return nil, lastErr
}

// tokenSession returns a session holding a fresh token. Concurrent callers
// share a single handshake.
func (m *Manager) tokenSession(ctx context.Context) (*Session, error) {
	if s := m.current.Load(); s.HasToken() && s.Fresh(m.now(), m.ttl) {
		return s, nil
	}

	v, err, shared := m.flight.Do("handshake", func() (interface{}, error) {
		if s := m.current.Load(); s.HasToken() && s.Fresh(m.now(), m.ttl) {
			return s, nil
		}

		token, err := m.upstream.Handshake(context.WithoutCancel(ctx))
		if err != nil {
			utils.WarnLog("Portal handshake failed: %v", err)
			return nil, err
		}

		s := &Session{Token: token, FetchedAt: m.now()}
		m.current.Store(s)
		utils.InfoLog("Portal handshake succeeded, token %s", utils.MaskString(token))
		return s, nil
	})
	if shared {
		metrics.SessionRefreshShared.WithLabelValues("handshake").Inc()
	}
	if err != nil {
		return nil, err
	}
	return v.(*Session), nil
}

// loadProfile fetches the profile for s and publishes token and profile
// together. Concurrent callers holding the same token share one fetch.
func (m *Manager) loadProfile(ctx context.Context, s *Session) (json.RawMessage, error) {
	v, err, shared := m.flight.Do("profile:"+s.Token, func() (interface{}, error) {
		if cur := m.current.Load(); cur.HasProfile() && cur.Token == s.Token && cur.Fresh(m.now(), m.ttl) {
			return cur.Profile, nil
		}

		resp, err := m.upstream.Profile(context.WithoutCancel(ctx), s.Token)
		if err != nil {
			return nil, err
		}

		next := &Session{Token: s.Token, Profile: resp.Raw(), FetchedAt: m.now()}
		if !m.current.CompareAndSwap(s, next) {
			utils.DebugLog("Session replaced while the profile was loading, not publishing it")
		}
		return next.Profile, nil
	})
	if shared {
		metrics.SessionRefreshShared.WithLabelValues("profile").Inc()
	}
	if err != nil {
		return nil, err
	}
	return v.(json.RawMessage), nil
}

// invalidate clears the session if it is still the one the failed request
// used; a newer login is left alone.
func (m *Manager) invalidate(seen *Session, cause error) {
	if m.current.CompareAndSwap(seen, &Session{}) {
		metrics.SessionResets.Inc()
		utils.InfoLog("Portal session cleared (%s): %v", portal.Outcome(cause), cause)
	}
}
