package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeebo/bencode"

	"github.com/dbytex91/piratebay"
)

const upstreamSearchBody = `[{"id":"42","name":"ubuntu-22.04-desktop-amd64.iso","info_hash":"3b245504cf5f11bbdbe1201cea6a6bf45aee1bc0","leechers":"4","seeders":"128","num_files":"1","size":"4071903232","username":"ubuntu","added":"1650412800","status":"vip","category":"303","imdb":""}]`

func newTestApp(t *testing.T, upstream http.Handler) (*fiber.App, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		upstream.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	client := piratebay.New(piratebay.WithBaseURL(srv.URL))
	t.Cleanup(client.Close)

	app := fiber.New()
	New(client).Register(app)
	return app, &hits
}

func decodeJSON(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, v))
}

func TestHandleSearch(t *testing.T) {
	app, _ := newTestApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, upstreamSearchBody)
	}))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/search?q=ubuntu", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var got listResponse
	decodeJSON(t, resp, &got)
	require.Len(t, got.Results, 1)
	item := got.Results[0]
	assert.Equal(t, 42, item.ID)
	assert.Equal(t, "3.79 GiB", item.SizeLabel)
	assert.Contains(t, item.Magnet, "urn:btih:3b245504cf5f11bbdbe1201cea6a6bf45aee1bc0")
	assert.Contains(t, item.Magnet, "&dn=ubuntu-22.04-desktop-amd64.iso")
}

func TestHandleSearchMissingQuery(t *testing.T) {
	app, hits := newTestApp(t, http.NotFoundHandler())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/search", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Zero(t, hits.Load())
}

func TestHandleSearchCachesResponses(t *testing.T) {
	app, hits := newTestApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, upstreamSearchBody)
	}))

	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/search?q=ubuntu", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
	assert.Equal(t, int32(1), hits.Load())
}

func TestHandleSearchUpstreamFailure(t *testing.T) {
	app, _ := newTestApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/search?q=ubuntu", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestHandleDetailsNotFound(t *testing.T) {
	app, _ := newTestApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"name":"Torrent does not exsist."}`)
	}))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/torrent/999", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandleDetailsBadID(t *testing.T) {
	app, hits := newTestApp(t, http.NotFoundHandler())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/torrent/notanumber", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Zero(t, hits.Load())
}

func TestHandleTop100BadCategory(t *testing.T) {
	app, hits := newTestApp(t, http.NotFoundHandler())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/top100/everything", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Zero(t, hits.Load())
}

func TestHandleByUserInvalidPeriod(t *testing.T) {
	app, hits := newTestApp(t, http.NotFoundHandler())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/user/YTSAGx?period=nextweek", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Zero(t, hits.Load())
}

func TestHandleUserPages(t *testing.T) {
	app, _ := newTestApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "pcnt:YTSAGx", r.URL.Query().Get("q"))
		fmt.Fprint(w, `["15"]`)
	}))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/user/YTSAGx/pages", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var got struct {
		Username string `json:"username"`
		Pages    int    `json:"pages"`
	}
	decodeJSON(t, resp, &got)
	assert.Equal(t, "YTSAGx", got.Username)
	assert.Equal(t, 15, got.Pages)
}

func TestHandleMagnetIngest(t *testing.T) {
	app, _ := newTestApp(t, http.NotFoundHandler())

	raw, err := bencode.EncodeBytes(map[string]interface{}{
		"announce": "udp://tracker.example.org:1337/announce",
		"info": map[string]interface{}{
			"name":         "debian-12.0.0-amd64-netinst.iso",
			"piece length": 262144,
			"pieces":       "01234567890123456789",
			"length":       658505728,
		},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/magnet", bytes.NewReader(raw))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var got struct {
		InfoHash string   `json:"infoHash"`
		Name     string   `json:"name"`
		Magnet   string   `json:"magnet"`
		Trackers []string `json:"trackers"`
	}
	decodeJSON(t, resp, &got)
	assert.Len(t, got.InfoHash, 40)
	assert.Equal(t, "debian-12.0.0-amd64-netinst.iso", got.Name)
	assert.Contains(t, got.Magnet, "urn:btih:"+got.InfoHash)
	assert.Equal(t, []string{"udp://tracker.example.org:1337/announce"}, got.Trackers)
}

func TestHandleMagnetIngestRejectsGarbage(t *testing.T) {
	app, _ := newTestApp(t, http.NotFoundHandler())

	req := httptest.NewRequest(http.MethodPost, "/magnet", bytes.NewReader([]byte("not a torrent")))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRankByRelevance(t *testing.T) {
	torrents := []piratebay.Torrent{
		{Name: "totally unrelated remux pack"},
		{Name: "Ubuntu 22.04 LTS"},
		{Name: "ubuntu-22.04-desktop"},
	}

	rankByRelevance("ubuntu 22.04", torrents)

	assert.Equal(t, "Ubuntu 22.04 LTS", torrents[0].Name)
	assert.Equal(t, "totally unrelated remux pack", torrents[2].Name)
}
