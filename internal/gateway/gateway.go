// Package gateway exposes the API client over a small REST surface, with a
// short-lived response cache in front of the upstream index.
package gateway

import (
	"bytes"
	"encoding/json"
	"errors"
	"regexp"
	"sort"
	"time"

	"github.com/adrg/strutil/metrics"
	"github.com/coocood/freecache"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/dbytex91/piratebay"
	"github.com/dbytex91/piratebay/magnet"
)

const (
	defaultCacheSize = 16 * 1024 * 1024
	defaultCacheTTL  = 5 * time.Minute
)

var (
	nonWordCharacter = regexp.MustCompile(`[^a-zA-Z0-9]+`)

	errTorrentNotFound = errors.New("torrent not found")
)

type Gateway struct {
	client    *piratebay.Client
	cache     *freecache.Cache
	cacheTTL  int
	cacheSize int
}

func New(client *piratebay.Client, opts ...Option) *Gateway {
	g := &Gateway{
		client:    client,
		cacheSize: defaultCacheSize,
		cacheTTL:  int(defaultCacheTTL.Seconds()),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.cache = freecache.NewCache(g.cacheSize)
	return g
}

func (g *Gateway) Register(app *fiber.App) {
	app.Get("/search", g.HandleSearch)
	app.Get("/torrent/:id", g.HandleDetails)
	app.Get("/torrent/:id/files", g.HandleFileList)
	app.Get("/top100/:category", g.HandleTop100)
	app.Get("/user/:username", g.HandleByUser)
	app.Get("/user/:username/pages", g.HandleUserPages)
	app.Post("/magnet", g.HandleMagnetIngest)
}

// torrentItem is the gateway's view of a result row: the decoded record plus
// the derived magnet link and human-readable labels.
type torrentItem struct {
	ID         int       `json:"id"`
	Name       string    `json:"name"`
	InfoHash   string    `json:"infoHash"`
	Seeders    int       `json:"seeders"`
	Leechers   int       `json:"leechers"`
	NumFiles   int       `json:"numFiles"`
	Size       int64     `json:"size"`
	SizeLabel  string    `json:"sizeLabel"`
	Username   string    `json:"username"`
	Added      time.Time `json:"added"`
	AddedLabel string    `json:"addedLabel"`
	Status     string    `json:"status,omitempty"`
	Category   int       `json:"category"`
	IMDB       string    `json:"imdb,omitempty"`
	Magnet     string    `json:"magnet,omitempty"`
}

type detailsItem struct {
	torrentItem
	Description  string `json:"description"`
	Language     string `json:"language,omitempty"`
	TextLanguage string `json:"textLanguage,omitempty"`
}

type fileItem struct {
	Name      string `json:"name"`
	Size      int64  `json:"size"`
	SizeLabel string `json:"sizeLabel"`
}

type listResponse struct {
	Results []torrentItem `json:"results"`
}

func newTorrentItem(t piratebay.Torrent) torrentItem {
	item := torrentItem{
		ID:         t.ID,
		Name:       t.Name,
		InfoHash:   t.InfoHash,
		Seeders:    t.Seeders,
		Leechers:   t.Leechers,
		NumFiles:   t.NumFiles,
		Size:       t.Size,
		SizeLabel:  piratebay.FormatSize(t.Size),
		Username:   t.Username,
		Added:      t.Added,
		AddedLabel: piratebay.FormatTime(t.Added, ""),
		Status:     t.Status,
		Category:   int(t.Category),
		IMDB:       t.IMDB,
	}
	if link, err := magnet.Link(t.InfoHash, t.Name); err == nil {
		item.Magnet = link
	}
	return item
}

func newListResponse(torrents []piratebay.Torrent) listResponse {
	items := make([]torrentItem, 0, len(torrents))
	for _, t := range torrents {
		items = append(items, newTorrentItem(t))
	}
	return listResponse{Results: items}
}

func (g *Gateway) HandleSearch(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "query parameter q is required"})
	}
	category := piratebay.CategoryID(c.QueryInt("cat", 0))
	byRelevance := c.Query("sort") == "relevance"

	return g.cached(c, func() (any, error) {
		torrents, err := g.client.Search(c.UserContext(), query, category)
		if err != nil {
			return nil, err
		}
		if byRelevance {
			rankByRelevance(query, torrents)
		}
		return newListResponse(torrents), nil
	})
}

func (g *Gateway) HandleDetails(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "torrent id must be numeric"})
	}

	return g.cached(c, func() (any, error) {
		details, err := g.client.Details(c.UserContext(), id)
		if err != nil {
			return nil, err
		}
		if details == nil {
			return nil, errTorrentNotFound
		}
		return detailsItem{
			torrentItem:  newTorrentItem(details.Torrent),
			Description:  details.Description,
			Language:     details.Language,
			TextLanguage: details.TextLanguage,
		}, nil
	})
}

func (g *Gateway) HandleFileList(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "torrent id must be numeric"})
	}

	return g.cached(c, func() (any, error) {
		files, err := g.client.FileList(c.UserContext(), id)
		if err != nil {
			return nil, err
		}
		items := make([]fileItem, 0, len(files))
		for _, f := range files {
			items = append(items, fileItem{Name: f.Name, Size: f.Size, SizeLabel: piratebay.FormatSize(f.Size)})
		}
		return fiber.Map{"files": items}, nil
	})
}

func (g *Gateway) HandleTop100(c *fiber.Ctx) error {
	raw := c.Params("category")
	var category piratebay.Top100Category
	switch raw {
	case string(piratebay.Top100All):
		category = piratebay.Top100All
	case string(piratebay.Top100Recent):
		category = piratebay.Top100Recent
	default:
		id, err := c.ParamsInt("category")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "category must be all, recent, or a numeric id"})
		}
		category = piratebay.Top100Of(piratebay.CategoryID(id))
	}
	page := c.QueryInt("page", 0)

	return g.cached(c, func() (any, error) {
		torrents, err := g.client.Top100(c.UserContext(), category, page)
		if err != nil {
			return nil, err
		}
		return newListResponse(torrents), nil
	})
}

func (g *Gateway) HandleByUser(c *fiber.Ctx) error {
	username := c.Params("username")
	page := c.QueryInt("page", 0)
	period := piratebay.Period(c.Query("period"))
	if !period.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "period must be today, twodays, or threedays"})
	}

	return g.cached(c, func() (any, error) {
		torrents, err := g.client.ByUser(c.UserContext(), username, page, period)
		if err != nil {
			return nil, err
		}
		return newListResponse(torrents), nil
	})
}

func (g *Gateway) HandleUserPages(c *fiber.Ctx) error {
	username := c.Params("username")

	return g.cached(c, func() (any, error) {
		pages, err := g.client.UserPageCount(c.UserContext(), username)
		if err != nil {
			return nil, err
		}
		return fiber.Map{"username": username, "pages": pages}, nil
	})
}

// HandleMagnetIngest turns an uploaded .torrent file into a magnet link.
func (g *Gateway) HandleMagnetIngest(c *fiber.Ctx) error {
	m, err := magnet.FromMetaInfo(bytes.NewReader(c.Body()))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "body is not a valid torrent file"})
	}
	link, err := m.Link()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "torrent file carries an invalid info hash"})
	}
	return c.JSON(fiber.Map{
		"infoHash": m.InfoHash,
		"name":     m.Name,
		"trackers": m.Trackers,
		"magnet":   link,
	})
}

// cached serves the marshalled response for this request URI from the cache,
// falling back to fn and storing its result.
func (g *Gateway) cached(c *fiber.Ctx, fn func() (any, error)) error {
	key := c.Request().URI().RequestURI()
	if body, err := g.cache.Get(key); err == nil {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(body)
	}

	v, err := fn()
	if err != nil {
		return g.fail(c, err)
	}
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := g.cache.Set(key, body, g.cacheTTL); err != nil {
		log.Warnf("gateway: failed to cache %s: %v", key, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}

// fail maps client errors onto HTTP statuses: parameters are validated before
// the client is called, so any content error surfacing here means the
// upstream payload was broken.
func (g *Gateway) fail(c *fiber.Ctx, err error) error {
	if errors.Is(err, errTorrentNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "torrent not found"})
	}

	var reqErr *piratebay.RequestError
	if errors.As(err, &reqErr) {
		log.Errorf("gateway: upstream request failed: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "upstream request failed"})
	}
	var contentErr *piratebay.ContentError
	if errors.As(err, &contentErr) {
		log.Errorf("gateway: upstream payload rejected: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "upstream returned an unexpected payload"})
	}

	log.Errorf("gateway: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
}

// rankByRelevance orders results by edit distance between the query and the
// torrent name, cheapest first. Ties keep the API's order.
func rankByRelevance(query string, torrents []piratebay.Torrent) {
	lev := &metrics.Levenshtein{
		CaseSensitive: false,
		InsertCost:    1,
		ReplaceCost:   2,
		DeleteCost:    1,
	}
	normalizedQuery := normalize(query)

	type scored struct {
		torrent  piratebay.Torrent
		distance int
	}
	ranked := make([]scored, len(torrents))
	for i, t := range torrents {
		ranked[i] = scored{torrent: t, distance: lev.Distance(normalizedQuery, normalize(t.Name))}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].distance < ranked[j].distance
	})
	for i, r := range ranked {
		torrents[i] = r.torrent
	}
}

func normalize(s string) string {
	return nonWordCharacter.ReplaceAllString(s, " ")
}
