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
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/lucasduport/stalker-share/pkg/portal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	errRejected = &portal.StatusError{Action: "test", Status: 401}
	errDown     = fmt.Errorf("dial: %w", portal.ErrUnavailable)
)

// fakeUpstream replays scripted failures; an exhausted script means success.
type fakeUpstream struct {
	mu sync.Mutex

	handshakes int
	profiles   int
	actions    int
	tokens     []string

	handshakeErrs []error
	profileErrs   []error
	actionErrs    []error

	gate chan struct{}
}

func pop(errs *[]error) error {
	if len(*errs) == 0 {
		return nil
	}
	err := (*errs)[0]
	*errs = (*errs)[1:]
	return err
}

func (f *fakeUpstream) Handshake(ctx context.Context) (string, error) {
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handshakes++
	if err := pop(&f.handshakeErrs); err != nil {
		return "", err
	}
	return fmt.Sprintf("token-%d", f.handshakes), nil
}

func (f *fakeUpstream) Profile(ctx context.Context, token string) (*portal.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profiles++
	if err := pop(&f.profileErrs); err != nil {
		return nil, err
	}
	return portal.NewResponse(200, []byte(fmt.Sprintf(`{"js":{"id":1,"token":%q}}`, token))), nil
}

func (f *fakeUpstream) Do(ctx context.Context, token string, a portal.Action) (*portal.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actions++
	f.tokens = append(f.tokens, token)
	if err := pop(&f.actionErrs); err != nil {
		return nil, err
	}
	return portal.NewResponse(200, []byte(`{"js":{"data":[{"id":"1"}]}}`)), nil
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestManager(up *fakeUpstream) (*Manager, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	m := NewManager(up, 30*time.Minute)
	m.SetClock(clock.Now)
	return m, clock
}

func TestEnsureHandshakeReusesCachedToken(t *testing.T) {
	up := &fakeUpstream{}
	m, _ := newTestManager(up)
	ctx := context.Background()

	require.NoError(t, m.EnsureHandshake(ctx))
	require.NoError(t, m.EnsureHandshake(ctx))

	assert.Equal(t, 1, up.handshakes)
	assert.Equal(t, "token-1", m.Snapshot().Token)
}

func TestEnsureHandshakeRefreshesAfterWindow(t *testing.T) {
	up := &fakeUpstream{}
	m, clock := newTestManager(up)
	ctx := context.Background()

	require.NoError(t, m.EnsureHandshake(ctx))
	clock.Advance(29 * time.Minute)
	require.NoError(t, m.EnsureHandshake(ctx))
	assert.Equal(t, 1, up.handshakes)

	clock.Advance(2 * time.Minute)
	require.NoError(t, m.EnsureHandshake(ctx))
	assert.Equal(t, 2, up.handshakes)
	assert.Equal(t, "token-2", m.Snapshot().Token)
}

func TestEnsureHandshakeFailureLeavesStateUntouched(t *testing.T) {
	up := &fakeUpstream{handshakeErrs: []error{errDown}}
	m, _ := newTestManager(up)

	err := m.EnsureHandshake(context.Background())
	require.ErrorIs(t, err, portal.ErrUnavailable)

	snap := m.Snapshot()
	assert.Empty(t, snap.Token)
	assert.True(t, snap.FetchedAt.IsZero())
}

func TestEnsureProfileCachesTokenAndProfileTogether(t *testing.T) {
	up := &fakeUpstream{}
	m, clock := newTestManager(up)
	ctx := context.Background()

	profile, err := m.EnsureProfile(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"js":{"id":1,"token":"token-1"}}`, string(profile))

	snap := m.Snapshot()
	assert.Equal(t, "token-1", snap.Token)
	assert.Equal(t, clock.Now(), snap.FetchedAt)

	_, err = m.EnsureProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, up.handshakes)
	assert.Equal(t, 1, up.profiles)

	clock.Advance(31 * time.Minute)
	_, err = m.EnsureProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, up.handshakes)
	assert.Equal(t, 2, up.profiles)
}

func TestEnsureProfileRetriesOnceWithFreshLogin(t *testing.T) {
	tests := []struct {
		name           string
		profileErrs    []error
		wantErr        bool
		wantHandshakes int
		wantProfiles   int
	}{
		{"rejected then accepted", []error{errRejected}, false, 2, 2},
		{"malformed then accepted", []error{portal.ErrMalformed}, false, 2, 2},
		{"network then accepted", []error{errDown}, false, 2, 2},
		{"two failures give up", []error{errRejected, errRejected, nil}, true, 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			up := &fakeUpstream{profileErrs: tt.profileErrs}
			m, _ := newTestManager(up)

			profile, err := m.EnsureProfile(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, profile)
				assert.Empty(t, m.Snapshot().Token)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, profile)
			}
			assert.Equal(t, tt.wantHandshakes, up.handshakes)
			assert.Equal(t, tt.wantProfiles, up.profiles)
		})
	}
}

func TestEnsureProfileHandshakeFailureIsAbsent(t *testing.T) {
	up := &fakeUpstream{handshakeErrs: []error{errDown}}
	m, _ := newTestManager(up)

	profile, err := m.EnsureProfile(context.Background())
	assert.Error(t, err)
	assert.Nil(t, profile)
	assert.Equal(t, 0, up.profiles)
}

func TestCallSingleRetryBound(t *testing.T) {
	up := &fakeUpstream{actionErrs: []error{errRejected}}
	m, _ := newTestManager(up)

	resp, err := m.Call(context.Background(), portal.NewAction(portal.ActionGetGenres, portal.TypeITV))
	require.NoError(t, err)
	items, _ := resp.Items()
	assert.Len(t, items, 1)

	assert.Equal(t, 2, up.actions)
	assert.Equal(t, 2, up.handshakes)
	assert.Equal(t, []string{"token-1", "token-2"}, up.tokens, "retry must use a fresh token")
}

func TestCallRetryExhaustion(t *testing.T) {
	tests := []struct {
		name string
		errs []error
	}{
		{"rejected twice", []error{errRejected, errRejected, nil}},
		{"network twice", []error{errDown, errDown, nil}},
		{"error page twice", []error{portal.ErrAuthFailed, portal.ErrAuthFailed, nil}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			up := &fakeUpstream{actionErrs: tt.errs}
			m, _ := newTestManager(up)

			resp, err := m.Call(context.Background(), portal.NewAction(portal.ActionGetGenres, portal.TypeITV))
			assert.Error(t, err)
			assert.Nil(t, resp)
			assert.Equal(t, 2, up.actions, "never more than one retry")
		})
	}
}

func TestCallHandshakeFailureCountsAsAttempt(t *testing.T) {
	up := &fakeUpstream{handshakeErrs: []error{errDown}}
	m, _ := newTestManager(up)

	_, err := m.Call(context.Background(), portal.NewAction(portal.ActionGetGenres, portal.TypeITV))
	require.NoError(t, err)
	assert.Equal(t, 2, up.handshakes)
	assert.Equal(t, 1, up.actions)
}

func TestConcurrentColdStartSharesHandshake(t *testing.T) {
	up := &fakeUpstream{gate: make(chan struct{})}
	m, _ := newTestManager(up)

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- m.EnsureHandshake(context.Background())
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(up.gate)
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, 1, up.handshakes)
}

func TestInvalidateKeepsNewerSession(t *testing.T) {
	m, clock := newTestManager(&fakeUpstream{})

	stale := &Session{Token: "old", FetchedAt: clock.Now()}
	fresh := &Session{Token: "new", FetchedAt: clock.Now()}
	m.current.Store(fresh)

	m.invalidate(stale, errRejected)
	assert.Equal(t, "new", m.Snapshot().Token)

	m.invalidate(fresh, errRejected)
	assert.Empty(t, m.Snapshot().Token)
}

func TestSessionFreshness(t *testing.T) {
	now := time.Now()
	var empty *Session
	assert.False(t, empty.Fresh(now, time.Minute))
	assert.False(t, (&Session{}).HasToken())

	s := &Session{Token: "t", FetchedAt: now.Add(-time.Minute)}
	assert.True(t, s.Fresh(now, 2*time.Minute))
	assert.False(t, s.Fresh(now, time.Minute))
	assert.False(t, s.HasProfile())
	assert.Equal(t, time.Minute, s.Age(now))
}
