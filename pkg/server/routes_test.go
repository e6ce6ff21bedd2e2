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

package server

import (
	"compress/gzip"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lucasduport/stalker-share/pkg/catalog"
	"github.com/lucasduport/stalker-share/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePortal answers load.php requests from a table keyed by "type/action".
// Unknown actions get an empty list.
type fakePortal struct {
	mu      sync.Mutex
	down    bool
	answers map[string]string
	calls   []url.Values
}

func (f *fakePortal) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	f.mu.Lock()
	f.calls = append(f.calls, q)
	down := f.down
	body, ok := f.answers[q.Get("type")+"/"+q.Get("action")]
	f.mu.Unlock()

	if down {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	switch {
	case q.Get("action") == "handshake":
		io.WriteString(w, `{"js":{"token":"tok-1"}}`) // nolint: errcheck
	case q.Get("action") == "get_profile" && !ok:
		io.WriteString(w, `{"js":{"id":"42","name":"living room"}}`) // nolint: errcheck
	case ok:
		io.WriteString(w, body) // nolint: errcheck
	default:
		io.WriteString(w, `{"js":{"data":[]}}`) // nolint: errcheck
	}
}

// lastCall returns the query of the most recent request for action.
func (f *fakePortal) lastCall(action string) url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.calls) - 1; i >= 0; i-- {
		if f.calls[i].Get("action") == action {
			return f.calls[i]
		}
	}
	return nil
}

func newTestServer(t *testing.T, portal *fakePortal) (*Config, *gin.Engine) {
	t.Helper()
	if portal.answers == nil {
		portal.answers = map[string]string{}
	}
	upstream := httptest.NewServer(portal)
	t.Cleanup(upstream.Close)

	c, err := NewServer(&config.ProxyConfig{
		HostConfig: &config.HostConfiguration{Port: 5000},
		Portal: &config.PortalConfig{
			URL:            upstream.URL + "/stalker_portal/server/load.php",
			MAC:            "00:1A:79:00:00:01",
			Token:          "secret-token",
			MaxConnections: 2,
			ExpireDate:     "2026-12-31",
			CreatedDate:    "2025-01-01",
		},
		APITimeout: 2 * time.Second,
	})
	require.NoError(t, err)
	return c, c.router()
}

func do(t *testing.T, router http.Handler, method, target string, body io.Reader) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var out map[string]interface{}
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec, out
}

func TestCatalogRoutesDegradeWhenPortalDown(t *testing.T) {
	_, router := newTestServer(t, &fakePortal{down: true})

	fallbackCount := len(catalog.FallbackVODCategories())
	tests := []struct {
		path   string
		key    string
		source string
		count  int
	}{
		{"/api/genres", "channels", "fallback", 0},
		{"/channels", "channels", "portal", 0},
		{"/channels/7", "channels", "portal", 0},
		{"/vod", "vod", "fallback", fallbackCount},
		{"/movies", "movies", "fallback", fallbackCount},
		{"/vod/12", "items", "portal", 0},
		{"/series", "series", "fallback", 0},
		{"/series/12", "items", "portal", 0},
		{"/series/5/seasons", "seasons", "portal", 0},
		{"/series/5/seasons/2/episodes", "episodes", "portal", 0},
		{"/radio", "channels", "portal", 0},
		{"/radio/3", "channels", "portal", 0},
		{"/favorites/channels", "favorites", "portal", 0},
		{"/favorites/channels/ids", "ids", "portal", 0},
		{"/favorites/vod", "favorites", "portal", 0},
		{"/epg/9", "programs", "portal", 0},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec, body := do(t, router, http.MethodGet, tt.path, nil)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "ok", body["status"])
			assert.Equal(t, tt.source, body["source"])

			list, ok := body[tt.key].([]interface{})
			require.True(t, ok, "%s should be a JSON array, got %v", tt.key, body[tt.key])
			assert.Len(t, list, tt.count)
		})
	}

	t.Run("/series/5/seasons/2/episodes/1", func(t *testing.T) {
		rec, body := do(t, router, http.MethodGet, "/series/5/seasons/2/episodes/1", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, body, "episode")
		assert.Nil(t, body["episode"])
	})

	t.Run("/epg", func(t *testing.T) {
		rec, body := do(t, router, http.MethodGet, "/epg", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, map[string]interface{}{}, body["epg"])
	})

	t.Run("/channels/7/playlist.m3u", func(t *testing.T) {
		rec, _ := do(t, router, http.MethodGet, "/channels/7/playlist.m3u", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "#EXTM3U\n", rec.Body.String())
	})
}

func TestProfileUnauthorized(t *testing.T) {
	_, router := newTestServer(t, &fakePortal{down: true})

	for _, path := range []string{"/profile", "/api/profile"} {
		rec, body := do(t, router, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		assert.Equal(t, "error", body["status"])
		assert.Equal(t, "Authentication failed", body["message"])
		assert.Equal(t, "portal", body["source"])
	}
}

func TestProfile(t *testing.T) {
	_, router := newTestServer(t, &fakePortal{})

	rec, body := do(t, router, http.MethodGet, "/profile", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	profile := body["profile"].(map[string]interface{})
	assert.Equal(t, "living room", profile["js"].(map[string]interface{})["name"])
}

func TestAPIConfigHidesCredentials(t *testing.T) {
	c, router := newTestServer(t, &fakePortal{})

	rec, body := do(t, router, http.MethodGet, "/api/config", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cfg := body["config"].(map[string]interface{})
	assert.Equal(t, float64(2), cfg["maxConnections"])
	assert.Equal(t, "2026-12-31", cfg["expireDate"])
	assert.Equal(t, c.Portal.MAC, cfg["portal"].(map[string]interface{})["mac"])
	assert.NotContains(t, rec.Body.String(), "secret-token")
}

func TestChannelsByCategory(t *testing.T) {
	portal := &fakePortal{answers: map[string]string{
		"itv/get_ordered_list": `{"js":{"total_items":"2","max_page_items":14,"data":[
			{"id":"1","name":"One","logo":"http://img/1.png","cmd":"auto http://s/1.m3u8"},
			{"id":"2","name":"Two","cmd":"ffmpeg http://s/2.ts"}]}}`,
	}}
	_, router := newTestServer(t, portal)

	rec, body := do(t, router, http.MethodGet, "/channels/7", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "7", body["categoryId"])
	assert.Equal(t, float64(2), body["total_items"])
	assert.Equal(t, float64(1), body["total_pages"])

	channels := body["channels"].([]interface{})
	require.Len(t, channels, 2)
	first := channels[0].(map[string]interface{})
	assert.Equal(t, "http://img/1.png", first["icon"])
	assert.Equal(t, "http://img/1.png", first["poster"])
	assert.Equal(t, "auto http://s/1.m3u8", first["cmd"])

	q := portal.lastCall("get_ordered_list")
	require.NotNil(t, q)
	assert.Equal(t, "7", q.Get("genre"))
	assert.Equal(t, "1", q.Get("p"))
	assert.Equal(t, "number", q.Get("sortby"))
}

func TestChannelCategoriesSkipAll(t *testing.T) {
	_, router := newTestServer(t, &fakePortal{answers: map[string]string{
		"itv/get_genres": `{"js":[{"id":"*","title":"All"},{"id":"4","title":"News Channels"}]}`,
	}})

	_, body := do(t, router, http.MethodGet, "/channels", nil)
	channels := body["channels"].([]interface{})
	require.Len(t, channels, 1)
	news := channels[0].(map[string]interface{})
	assert.Equal(t, "4", news["id"])
	assert.Equal(t, catalog.PlaceholderPoster("News Channels"), news["poster"])
}

func TestVODCategories(t *testing.T) {
	_, router := newTestServer(t, &fakePortal{answers: map[string]string{
		"vod/get_categories": `{"js":[{"id":"*","title":"All"},{"id":"3","title":"Drama","censored":"1","screenshot_uri":"http://img/3.jpg"}]}`,
	}})

	_, body := do(t, router, http.MethodGet, "/vod", nil)
	assert.Equal(t, "portal", body["source"])
	vod := body["vod"].([]interface{})
	require.Len(t, vod, 1)
	drama := vod[0].(map[string]interface{})
	assert.Equal(t, "http://img/3.jpg", drama["poster"])
	assert.Equal(t, float64(1), drama["censored"])

	_, body = do(t, router, http.MethodGet, "/movies", nil)
	assert.Equal(t, "vod_redirect", body["source"])
	assert.Len(t, body["movies"], 1)
}

func TestVODCategoriesFallbackOnEmptyAnswer(t *testing.T) {
	_, router := newTestServer(t, &fakePortal{})

	rec, body := do(t, router, http.MethodGet, "/vod", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "fallback", body["source"])
	assert.Len(t, body["vod"], len(catalog.FallbackVODCategories()))
}

func TestSeriesEpisodeLookup(t *testing.T) {
	portal := &fakePortal{answers: map[string]string{
		"series/get_ordered_list": `{"js":{"data":[{"id":"e1","name":"Pilot"},{"id":"e2"}]}}`,
	}}
	_, router := newTestServer(t, portal)

	_, body := do(t, router, http.MethodGet, "/series/55/seasons/2/episodes/1?category=9", nil)
	episode := body["episode"].(map[string]interface{})
	assert.Equal(t, "Pilot", episode["name"])

	q := portal.lastCall("get_ordered_list")
	assert.Equal(t, "55:55", q.Get("movie_id"))
	assert.Equal(t, "9", q.Get("category"))
	assert.Equal(t, "2", q.Get("season_id"))
	assert.Equal(t, "1", q.Get("episode_id"))

	do(t, router, http.MethodGet, "/series/55/seasons", nil)
	assert.Equal(t, "*", portal.lastCall("get_ordered_list").Get("category"))
}

func TestChannelEPG(t *testing.T) {
	c, router := newTestServer(t, &fakePortal{answers: map[string]string{
		"itv/get_short_epg": `{"js":[
			{"name":"Early","start_timestamp":100,"stop_timestamp":200},
			{"name":"Now","start_timestamp":"200","stop_timestamp":"300"},
			{"name":"Later","start_timestamp":300,"stop_timestamp":400}]}`,
	}})
	c.now = func() time.Time { return time.Unix(250, 0) }

	_, body := do(t, router, http.MethodGet, "/epg/9", nil)
	assert.Len(t, body["programs"], 3)
	assert.Equal(t, "Now", body["current"].(map[string]interface{})["name"])
	assert.Equal(t, "Later", body["next"].(map[string]interface{})["name"])
}

func TestStreamLink(t *testing.T) {
	_, router := newTestServer(t, &fakePortal{})

	rec, body := do(t, router, http.MethodGet, "/stream-link", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "error", body["status"])
	assert.NotEmpty(t, body["message"])

	cmd := "auto http://x/y.m3u8"
	rec, body = do(t, router, http.MethodGet, "/stream-link?cmd="+url.QueryEscape(cmd), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "/proxy-stream?url=http%3A%2F%2Fx%2Fy.m3u8", body["url"])
	assert.Equal(t, cmd, body["cmd"])
}

func TestProxyStreamRejectsBadTargets(t *testing.T) {
	_, router := newTestServer(t, &fakePortal{})

	for _, target := range []string{"/proxy-stream", "/proxy-stream?url=" + url.QueryEscape("ftp://h/f.ts")} {
		rec, body := do(t, router, http.MethodGet, target, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.Equal(t, "error", body["status"])
	}
}

func TestSearch(t *testing.T) {
	portal := &fakePortal{answers: map[string]string{
		"itv/get_all_channels":    `{"js":{"data":[{"id":"1"}]}}`,
		"vod/get_ordered_list":    `{"js":{"data":[{"id":"2"},{"id":"3"}]}}`,
		"series/get_ordered_list": `{"data":[{"id":"4"}]}`,
	}}
	_, router := newTestServer(t, portal)

	rec, body := do(t, router, http.MethodGet, "/search?q=a", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, []interface{}{}, body["results"])

	rec, body = do(t, router, http.MethodGet, "/search?q=news", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(4), body["totalResults"])
	results := body["results"].(map[string]interface{})
	assert.Len(t, results["channels"], 1)
	assert.Len(t, results["vod"], 2)
	assert.Len(t, results["series"], 1)
	assert.Equal(t, "news", portal.lastCall("get_all_channels").Get("search"))

	_, body = do(t, router, http.MethodGet, "/search?q=news&type=vod", nil)
	assert.Equal(t, float64(2), body["totalResults"])
	results = body["results"].(map[string]interface{})
	assert.Empty(t, results["channels"])
}

func TestSearchDegradesPerKind(t *testing.T) {
	_, router := newTestServer(t, &fakePortal{down: true})

	rec, body := do(t, router, http.MethodGet, "/search?q=news", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(0), body["totalResults"])
}

func TestFavoriteWrites(t *testing.T) {
	portal := &fakePortal{answers: map[string]string{
		"itv/set_fav": `{"js":true}`,
		"vod/set_fav": `{"js":true}`,
	}}
	_, router := newTestServer(t, portal)

	rec, body := do(t, router, http.MethodPost, "/favorites/channels/9", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "9", body["channelId"])
	assert.Equal(t, true, body["favorite"])
	assert.Equal(t, "1", portal.lastCall("set_fav").Get("fav"))
	assert.Equal(t, "9", portal.lastCall("set_fav").Get("ch_id"))

	rec, body = do(t, router, http.MethodDelete, "/favorites/channels/9", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, body["favorite"])
	assert.Equal(t, "0", portal.lastCall("set_fav").Get("fav"))

	rec, body = do(t, router, http.MethodPost, "/favorites/vod/4", strings.NewReader(`{"favorite":true}`))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "4", body["videoId"])
	q := portal.lastCall("set_fav")
	assert.Equal(t, "vod", q.Get("type"))
	assert.Equal(t, "4", q.Get("video_id"))
}

func TestFavoriteWritesFailLoudly(t *testing.T) {
	_, router := newTestServer(t, &fakePortal{down: true})

	rec, body := do(t, router, http.MethodPost, "/favorites/channels/9", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "error", body["status"])

	rec, _ = do(t, router, http.MethodPost, "/favorites/vod/4", strings.NewReader(`{"favorite":false}`))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestChannelPlaylistExport(t *testing.T) {
	_, router := newTestServer(t, &fakePortal{answers: map[string]string{
		"itv/get_ordered_list": `{"js":{"total_items":3,"data":[
			{"name":"One","number":"1","xmltv_id":"one.fr","logo":"http://img/1.png","cmd":"auto http://s/1.m3u8"},
			{"name":"Broken","cmd":""},
			{"name":"Two","cmd":"http://s/2.ts"}]}}`,
	}})

	rec, _ := do(t, router, http.MethodGet, "/channels/7/playlist.m3u", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, m3uContentType, rec.Header().Get("Content-Type"))

	lines := strings.Split(strings.TrimSuffix(rec.Body.String(), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "#EXTM3U", lines[0])
	assert.Equal(t, `#EXTINF:-1 tvg-id="one.fr" tvg-name="One" tvg-chno="1" tvg-logo="http://img/1.png" group-title="7",One`, lines[1])
	assert.Equal(t, "http://example.com/proxy-stream?url="+url.QueryEscape("http://s/1.m3u8"), lines[2])
	assert.Equal(t, "http://example.com/proxy-stream?url="+url.QueryEscape("http://s/2.ts"), lines[4])
}

func TestHealthz(t *testing.T) {
	_, router := newTestServer(t, &fakePortal{})

	_, body := do(t, router, http.MethodGet, "/healthz", nil)
	session := body["session"].(map[string]interface{})
	assert.Equal(t, false, session["authenticated"])

	do(t, router, http.MethodGet, "/profile", nil)

	_, body = do(t, router, http.MethodGet, "/healthz", nil)
	session = body["session"].(map[string]interface{})
	assert.Equal(t, true, session["authenticated"])
	assert.Equal(t, true, session["hasProfile"])
	assert.Equal(t, "30m0s", session["ttl"])
}

func TestUnknownAPIPathsAnswerJSON(t *testing.T) {
	_, router := newTestServer(t, &fakePortal{})

	for _, path := range []string{"/api/nope", "/proxy-nothing"} {
		rec, body := do(t, router, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Equal(t, "error", body["status"])
	}
}

func TestJSONRoutesAreCompressed(t *testing.T) {
	_, router := newTestServer(t, &fakePortal{})

	req := httptest.NewRequest(http.MethodGet, "/api/config", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))

	zr, err := gzip.NewReader(rec.Body)
	require.NoError(t, err)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(zr).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}
