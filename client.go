package piratebay

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/gofiber/fiber/v2/log"
)

// DefaultBaseURL is the canonical API host. Mirrors can be swapped in per
// client with WithBaseURL or SetBaseURL.
const DefaultBaseURL = "https://apibay.org"

// The API blocks default library user agents.
const userAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:124.0) Gecko/20100101 Firefox/124.0"

const (
	searchEndpoint   = "/q.php"
	detailsEndpoint  = "/t.php"
	fileListEndpoint = "/f.php"
)

// Period narrows a user listing to a recent upload window.
type Period string

const (
	PeriodToday     Period = "today"
	PeriodTwoDays   Period = "twodays"
	PeriodThreeDays Period = "threedays"
)

// Valid reports whether p is one of the periods the API understands. The
// empty period means no filter and is valid.
func (p Period) Valid() bool {
	switch p {
	case "", PeriodToday, PeriodTwoDays, PeriodThreeDays:
		return true
	}
	return false
}

// Top100Category selects a precompiled top-100 list: a concrete category id,
// every category combined, or the most recently added torrents. Only the
// recent list is paginated.
type Top100Category string

const (
	Top100All    Top100Category = "all"
	Top100Recent Top100Category = "recent"
)

// Top100Of returns the top-100 selector for a concrete category.
func Top100Of(cat CategoryID) Top100Category {
	return Top100Category(strconv.Itoa(int(cat)))
}

// Client talks to the index API. It is safe for concurrent use; the base URL
// is the only mutable state and each request snapshots it at dispatch time.
type Client struct {
	mu      sync.RWMutex
	baseURL string

	http  *resty.Client
	owned bool

	timeout time.Duration
}

type Option func(*Client)

// WithBaseURL points the client at a mirror instead of DefaultBaseURL.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithTransport supplies a caller-owned resty client. The caller keeps
// responsibility for its lifecycle; Close will not touch it.
func WithTransport(rc *resty.Client) Option {
	return func(c *Client) {
		c.http = rc
		c.owned = false
	}
}

// WithTimeout caps each request on an owned transport. Ignored when the
// transport is supplied by the caller.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

func New(opts ...Option) *Client {
	c := &Client{baseURL: DefaultBaseURL}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = resty.New().
			SetHeader("Accept", "application/json").
			SetHeader("User-Agent", userAgent)
		if c.timeout > 0 {
			c.http.SetTimeout(c.timeout)
		}
		c.owned = true
	}
	return c
}

// BaseURL returns the base URL new requests will use.
func (c *Client) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL
}

// SetBaseURL swaps the API host for subsequent requests. Requests already in
// flight keep the URL they were dispatched with.
func (c *Client) SetBaseURL(u string) {
	c.mu.Lock()
	c.baseURL = strings.TrimRight(u, "/")
	c.mu.Unlock()
}

// Close releases the transport when the client owns it. Caller-supplied
// transports are left alone.
func (c *Client) Close() {
	if c.owned {
		c.http.GetClient().CloseIdleConnections()
	}
}

func (c *Client) get(ctx context.Context, endpoint string, params map[string]string) ([]byte, error) {
	base := c.BaseURL()

	req := c.http.R().SetContext(ctx)
	if len(params) > 0 {
		req.SetQueryParams(params)
	}
	resp, err := req.Get(base + endpoint)
	if err != nil {
		log.Debugf("piratebay: GET %s%s failed: %v", base, endpoint, err)
		return nil, &RequestError{Endpoint: endpoint, Err: err}
	}
	if resp.IsError() {
		log.Debugf("piratebay: GET %s%s returned status %d", base, endpoint, resp.StatusCode())
		return nil, &RequestError{Endpoint: endpoint, StatusCode: resp.StatusCode()}
	}
	return resp.Body(), nil
}

// Search queries the index, optionally narrowed to one category. Pass
// CategoryAll to search everything. A no-results answer is an empty slice,
// not an error.
func (c *Client) Search(ctx context.Context, query string, category CategoryID) ([]Torrent, error) {
	if strings.TrimSpace(query) == "" {
		return nil, &ContentError{Endpoint: searchEndpoint, Field: "q", Err: errEmptyQuery}
	}

	params := map[string]string{"q": query}
	if category != CategoryAll {
		params["cat"] = strconv.Itoa(int(category))
	}

	body, err := c.get(ctx, searchEndpoint, params)
	if err != nil {
		return nil, err
	}
	return decodeTorrentList(searchEndpoint, body)
}

// Details fetches one torrent by id. A nil record with a nil error means the
// torrent does not exist; errors are reserved for transport and payload
// failures.
func (c *Client) Details(ctx context.Context, torrentID int) (*TorrentDetails, error) {
	body, err := c.get(ctx, detailsEndpoint, map[string]string{"id": strconv.Itoa(torrentID)})
	if err != nil {
		return nil, err
	}
	return decodeTorrentDetails(detailsEndpoint, body)
}

// FileList fetches the files inside a torrent. The API answers an unknown id
// and an empty file list identically, so both are an empty slice.
func (c *Client) FileList(ctx context.Context, torrentID int) ([]FileEntry, error) {
	body, err := c.get(ctx, fileListEndpoint, map[string]string{"id": strconv.Itoa(torrentID)})
	if err != nil {
		return nil, err
	}
	return decodeFileList(fileListEndpoint, body)
}

// Top100 fetches a precompiled top-100 list. Pages beyond the first exist
// only for Top100Recent; other selectors ignore page.
func (c *Client) Top100(ctx context.Context, category Top100Category, page int) ([]Torrent, error) {
	endpoint := fmt.Sprintf("/precompiled/data_top100_%s.json", category)
	if category == Top100Recent && page > 0 {
		endpoint = fmt.Sprintf("/precompiled/data_top100_recent_%d.json", page)
	}

	body, err := c.get(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}
	return decodeTorrentList(endpoint, body)
}

// Recent fetches the most recently added torrents, a shortcut for
// Top100(Top100Recent, page).
func (c *Client) Recent(ctx context.Context, page int) ([]Torrent, error) {
	return c.Top100(ctx, Top100Recent, page)
}

// ByUser lists torrents uploaded by username, page-by-page (0-indexed),
// optionally narrowed to a recent period. An unsupported period fails before
// any request is dispatched.
func (c *Client) ByUser(ctx context.Context, username string, page int, period Period) ([]Torrent, error) {
	if !period.Valid() {
		return nil, &ContentError{Endpoint: searchEndpoint, Field: "period", Err: errInvalidPeriod}
	}
	if page < 0 {
		page = 0
	}

	query := fmt.Sprintf("user:%s:%d", username, page)
	if period != "" {
		query += ":" + string(period)
	}

	body, err := c.get(ctx, searchEndpoint, map[string]string{"q": query})
	if err != nil {
		return nil, err
	}
	return decodeTorrentList(searchEndpoint, body)
}

// UserPageCount returns how many listing pages a user has, 0 when the user
// has no torrents.
func (c *Client) UserPageCount(ctx context.Context, username string) (int, error) {
	body, err := c.get(ctx, searchEndpoint, map[string]string{"q": "pcnt:" + username})
	if err != nil {
		return 0, err
	}
	return decodePageCount(searchEndpoint, body)
}
