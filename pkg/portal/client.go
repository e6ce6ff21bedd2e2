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

// Package portal talks to a Stalker middleware portal: one endpoint
// (usually .../server/load.php) driven by type/action query parameters.
// It performs single HTTP exchanges only; session caching and retries
// live in the session package.
package portal

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lucasduport/stalker-share/pkg/config"
	"github.com/lucasduport/stalker-share/pkg/metrics"
	"github.com/lucasduport/stalker-share/pkg/utils"
)

// Portal action names used by the server.
const (
	ActionHandshake         = "handshake"
	ActionGetProfile        = "get_profile"
	ActionGetGenres         = "get_genres"
	ActionGetCategories     = "get_categories"
	ActionGetOrderedList    = "get_ordered_list"
	ActionGetAllChannels    = "get_all_channels"
	ActionGetAllFavChannels = "get_all_fav_channels"
	ActionGetFavIDs         = "get_fav_ids"
	ActionSetFav            = "set_fav"
	ActionGetEPGInfo        = "get_epg_info"
	ActionGetShortEPG       = "get_short_epg"
)

// Content domains accepted in the type parameter.
const (
	TypeSTB    = "stb"
	TypeITV    = "itv"
	TypeVOD    = "vod"
	TypeSeries = "series"
	TypeRadio  = "radio"
)

const (
	jsHTTPRequest  = "1-xml"
	acceptHeader   = "application/json,application/javascript,text/javascript,text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	advertisingID  = "8d247d49cbb1f5b9ae320403322f9c9a"
	maxBodyBytes   = 16 << 20
	bodyLogPreview = 300
)

// Action is one portal request: a named operation in a content domain
// plus its extra parameters. An empty Type means itv.
type Action struct {
	Name   string
	Type   string
	Params url.Values
}

// NewAction builds an Action from alternating key/value pairs.
func NewAction(name, contentType string, kv ...string) Action {
	params := url.Values{}
	for i := 0; i+1 < len(kv); i += 2 {
		params.Set(kv[i], kv[i+1])
	}
	return Action{Name: name, Type: contentType, Params: params}
}

// With returns a copy of a with key set to value.
func (a Action) With(key, value string) Action {
	params := url.Values{}
	for k, vs := range a.Params {
		params[k] = append([]string(nil), vs...)
	}
	params.Set(key, value)
	a.Params = params
	return a
}

// Client represents a Stalker portal client
type Client struct {
	cfg      *config.PortalConfig
	endpoint *url.URL
	HTTP     *http.Client
}

// New creates a portal client for cfg.URL. Every request is bounded by timeout.
func New(cfg *config.PortalConfig, timeout time.Duration) (*Client, error) {
	if cfg == nil || strings.TrimSpace(cfg.URL) == "" {
		return nil, ErrNotConfigured
	}
	endpoint, err := url.Parse(cfg.URL)
	if err != nil || endpoint.Host == "" {
		return nil, utils.PrintErrorAndReturn(fmt.Errorf("invalid portal url %q: %v", cfg.URL, err))
	}

	return &Client{
		cfg:      cfg,
		endpoint: endpoint,
		HTTP: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
	}, nil
}

// URL returns the configured portal endpoint.
func (c *Client) URL() string {
	return c.endpoint.String()
}

// Handshake asks the portal for a fresh bearer token.
func (c *Client) Handshake(ctx context.Context) (string, error) {
	q := url.Values{}
	q.Set("deviceSn", "")
	q.Set("deviceMac", "")
	q.Set("deviceType", "")
	q.Set("deviceVersion", "")
	q.Set("type", TypeSTB)
	q.Set("action", ActionHandshake)
	q.Set("token", c.cfg.Token.String())
	q.Set("prehash", c.cfg.Prehash.String())
	q.Set("JsHttpRequest", jsHTTPRequest)

	req, err := c.newRequest(ctx, q)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Accept-Language", utils.GetLanguageHeader())
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("Referer", c.endpoint.String())
	req.Header.Set("User-Agent", utils.GetBrowserUserAgent())

	status, body, err := c.exchange(req, ActionHandshake)
	if err != nil {
		return "", err
	}
	if status < 200 || status > 299 {
		utils.DebugLog("Handshake rejected (%d): %s", status, utils.Snippet(body, bodyLogPreview))
		return "", observe(ActionHandshake, &StatusError{Action: ActionHandshake, Status: status})
	}

	token, ok := ExtractToken(body)
	if !ok {
		utils.DebugLog("Handshake body without token: %s", utils.Snippet(body, bodyLogPreview))
		return "", observe(ActionHandshake, fmt.Errorf("handshake: %w: no token in response", ErrMalformed))
	}
	return token, observe(ActionHandshake, nil)
}

// Profile fetches the account profile with token. The whole JSON body is
// returned; a non-JSON body is ErrMalformed.
func (c *Client) Profile(ctx context.Context, token string) (*Response, error) {
	q := url.Values{}
	q.Set("type", TypeSTB)
	q.Set("action", ActionGetProfile)
	// Portals that enforce device binding check these; others ignore them.
	for key, value := range map[string]string{
		"sn":        c.cfg.Serial.String(),
		"device_id": c.cfg.DeviceID.String(),
		"signature": c.cfg.Signature.String(),
	} {
		if value != "" {
			q.Set(key, value)
		}
	}

	req, err := c.newRequest(ctx, q)
	if err != nil {
		return nil, err
	}
	c.setAuthHeaders(req, token)

	status, body, err := c.exchange(req, ActionGetProfile)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, observe(ActionGetProfile, &StatusError{Action: ActionGetProfile, Status: status})
	}

	resp := NewResponse(status, body)
	if !resp.JSON {
		utils.DebugLog("Profile body is not JSON: %s", utils.Snippet(body, bodyLogPreview))
		return nil, observe(ActionGetProfile, fmt.Errorf("get_profile: %w: body is not JSON", ErrMalformed))
	}
	return resp, observe(ActionGetProfile, nil)
}

// Do runs a with token. A 2xx non-JSON body that reads like an error page
// is returned together with ErrAuthFailed so the caller can decide whether
// to log in again.
func (c *Client) Do(ctx context.Context, token string, a Action) (*Response, error) {
	contentType := a.Type
	if contentType == "" {
		contentType = TypeITV
	}
	q := url.Values{}
	q.Set("type", contentType)
	q.Set("action", a.Name)
	q.Set("JsHttpRequest", jsHTTPRequest)
	for k, vs := range a.Params {
		q[k] = append([]string(nil), vs...)
	}

	req, err := c.newRequest(ctx, q)
	if err != nil {
		return nil, err
	}
	c.setAuthHeaders(req, token)

	status, body, err := c.exchange(req, a.Name)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, observe(a.Name, &StatusError{Action: a.Name, Status: status})
	}

	resp := NewResponse(status, body)
	if !resp.JSON && LooksLikeAuthFailure(body) {
		utils.DebugLog("Action %s returned an auth-shaped body: %s", a.Name, utils.Snippet(body, bodyLogPreview))
		return resp, observe(a.Name, fmt.Errorf("%s: %w: error page in response", a.Name, ErrAuthFailed))
	}
	return resp, observe(a.Name, nil)
}

func (c *Client) newRequest(ctx context.Context, q url.Values) (*http.Request, error) {
	u := *c.endpoint
	merged := u.Query()
	for k, vs := range q {
		merged[k] = vs
	}
	u.RawQuery = merged.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, utils.PrintErrorAndReturn(err)
	}
	return req, nil
}

// setAuthHeaders sets the set-top-box identity expected after a handshake.
// Accept-Encoding is left to the transport so gzip bodies are decoded.
func (c *Client) setAuthHeaders(req *http.Request, token string) {
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-User-Agent", utils.STBModelHeader)
	req.Header.Set("User-Agent", utils.GetSTBUserAgent())
	req.Header.Set("Referer", c.endpoint.String())
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Cookie", fmt.Sprintf("mac=%s; stb_lang=en; timezone=Europe%%2FParis; adid=%s",
		url.QueryEscape(c.cfg.MAC), advertisingID))
}

// exchange performs req and reads a bounded body. Transport and read
// failures are reported as ErrUnavailable.
func (c *Client) exchange(req *http.Request, action string) (int, []byte, error) {
	start := time.Now()
	defer func() {
		metrics.PortalLatency.WithLabelValues(action).Observe(time.Since(start).Seconds())
	}()

	utils.DebugLog("Portal request action=%s url=%s", action, utils.MaskURL(req.URL.String()))
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, nil, observe(action, fmt.Errorf("%s: %w: %w", action, ErrUnavailable, err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, nil, observe(action, fmt.Errorf("%s: %w: reading body: %w", action, ErrUnavailable, err))
	}
	utils.DebugLog("Portal response action=%s status=%d bytes=%d", action, resp.StatusCode, len(body))
	return resp.StatusCode, body, nil
}

func observe(action string, err error) error {
	metrics.PortalRequests.WithLabelValues(action, Outcome(err)).Inc()
	return err
}
