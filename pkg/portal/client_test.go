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
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lucasduport/stalker-share/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(&config.PortalConfig{
		URL:     srv.URL + "/stalker_portal/server/load.php",
		MAC:     "00:1A:79:AA:BB:CC",
		Token:   "tok",
		Prehash: "pre",
		Serial:  "SN1",
	}, 2*time.Second)
	require.NoError(t, err)
	return c
}

func TestNewRequiresURL(t *testing.T) {
	_, err := New(&config.PortalConfig{}, time.Second)
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = New(nil, time.Second)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestHandshake(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/stalker_portal/server/load.php", r.URL.Path)
		assert.Equal(t, "stb", q.Get("type"))
		assert.Equal(t, "handshake", q.Get("action"))
		assert.Equal(t, "tok", q.Get("token"))
		assert.Equal(t, "pre", q.Get("prehash"))
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(`{"js":{"token":"ABCDEF"}}`)) // nolint: errcheck
	})

	token, err := c.Handshake(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ABCDEF", token)
}

func TestHandshakeXMLToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<?xml version=\"1.0\"?><js><token>XYZ</token></js>")) // nolint: errcheck
	})

	token, err := c.Handshake(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "XYZ", token)
}

func TestHandshakeFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"forbidden", http.StatusForbidden, "", ErrAuthFailed},
		{"server error", http.StatusInternalServerError, "", ErrUnavailable},
		{"no token", http.StatusOK, `{"js":{}}`, ErrMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body)) // nolint: errcheck
			})
			_, err := c.Handshake(context.Background())
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDoSendsDeviceIdentity(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "vod", q.Get("type"))
		assert.Equal(t, "get_ordered_list", q.Get("action"))
		assert.Equal(t, "12", q.Get("category"))
		assert.Equal(t, "1-xml", q.Get("JsHttpRequest"))

		assert.Equal(t, "Bearer ABC", r.Header.Get("Authorization"))
		assert.Contains(t, r.Header.Get("Cookie"), "mac=00%3A1A%3A79%3AAA%3ABB%3ACC")
		assert.NotEmpty(t, r.Header.Get("X-User-Agent"))
		w.Write([]byte(`{"js":{"data":[{"id":"1"}]}}`)) // nolint: errcheck
	})

	resp, err := c.Do(context.Background(), "ABC", NewAction(ActionGetOrderedList, TypeVOD, "category", "12"))
	require.NoError(t, err)
	items, shape := resp.Items()
	assert.Len(t, items, 1)
	assert.Equal(t, ShapeJSData, shape)
}

func TestDoDefaultsToITV(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "itv", r.URL.Query().Get("type"))
		w.Write([]byte(`{"js":[]}`)) // nolint: errcheck
	})

	_, err := c.Do(context.Background(), "ABC", Action{Name: ActionGetGenres})
	require.NoError(t, err)
}

func TestDoErrorPageIsAuthFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>Unauthorized</html>")) // nolint: errcheck
	})

	resp, err := c.Do(context.Background(), "ABC", NewAction(ActionGetGenres, TypeITV))
	assert.True(t, errors.Is(err, ErrAuthFailed))
	require.NotNil(t, resp)
	assert.False(t, resp.JSON)
}

func TestDoPlainTextIsKept(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok")) // nolint: errcheck
	})

	resp, err := c.Do(context.Background(), "ABC", NewAction(ActionSetFav, TypeITV))
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Text())
}

func TestProfileSendsDeviceFields(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "get_profile", q.Get("action"))
		assert.Equal(t, "SN1", q.Get("sn"))
		assert.False(t, q.Has("device_id"), "empty identity fields are not sent")
		w.Write([]byte(`{"js":{"id":7}}`)) // nolint: errcheck
	})

	resp, err := c.Profile(context.Background(), "ABC")
	require.NoError(t, err)
	assert.JSONEq(t, `{"js":{"id":7}}`, string(resp.Raw()))
}

func TestProfileRejectsText(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("maintenance")) // nolint: errcheck
	})

	_, err := c.Profile(context.Background(), "ABC")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestActionWithCopiesParams(t *testing.T) {
	a := NewAction(ActionGetOrderedList, TypeITV, "genre", "3")
	b := a.With("p", "2")

	assert.Empty(t, a.Params.Get("p"))
	assert.Equal(t, "2", b.Params.Get("p"))
	assert.Equal(t, "3", b.Params.Get("genre"))
}
