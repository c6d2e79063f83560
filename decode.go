package piratebay

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Sentinel rows the API returns instead of an empty result set.
const (
	noResultsName = "No results returned"
	notFoundName  = "Torrent does not exsist." // sic, as the API spells it
)

// apiValue absorbs the API's habit of sending the same field as a string,
// a bare number, or a single-element array depending on the endpoint.
type apiValue string

func (v *apiValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*v = ""
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = apiValue(s)
	case '[':
		var parts []apiValue
		if err := json.Unmarshal(b, &parts); err != nil {
			return err
		}
		if len(parts) == 0 {
			*v = ""
		} else {
			*v = parts[0]
		}
	default:
		*v = apiValue(b)
	}
	return nil
}

type apiTorrent struct {
	ID       apiValue `json:"id"`
	Name     apiValue `json:"name"`
	InfoHash apiValue `json:"info_hash"`
	Leechers apiValue `json:"leechers"`
	Seeders  apiValue `json:"seeders"`
	NumFiles apiValue `json:"num_files"`
	Size     apiValue `json:"size"`
	Username apiValue `json:"username"`
	Added    apiValue `json:"added"`
	Status   apiValue `json:"status"`
	Category apiValue `json:"category"`
	IMDB     apiValue `json:"imdb"`

	Descr        apiValue `json:"descr"`
	Language     apiValue `json:"language"`
	TextLanguage apiValue `json:"textLanguage"`
}

type apiFile struct {
	Name apiValue `json:"name"`
	Size apiValue `json:"size"`
}

func intField(endpoint, name string, v apiValue) (int64, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(string(v), 10, 64)
	if err != nil {
		return 0, &ContentError{Endpoint: endpoint, Field: name, Err: errNotInteger}
	}
	return n, nil
}

func decodeTorrent(endpoint string, raw apiTorrent) (Torrent, error) {
	if raw.ID == "" {
		return Torrent{}, &ContentError{Endpoint: endpoint, Field: "id", Err: errMissingField}
	}
	if raw.Name == "" {
		return Torrent{}, &ContentError{Endpoint: endpoint, Field: "name", Err: errMissingField}
	}
	if raw.InfoHash == "" {
		return Torrent{}, &ContentError{Endpoint: endpoint, Field: "info_hash", Err: errMissingField}
	}

	id, err := intField(endpoint, "id", raw.ID)
	if err != nil {
		return Torrent{}, err
	}
	seeders, err := intField(endpoint, "seeders", raw.Seeders)
	if err != nil {
		return Torrent{}, err
	}
	leechers, err := intField(endpoint, "leechers", raw.Leechers)
	if err != nil {
		return Torrent{}, err
	}
	numFiles, err := intField(endpoint, "num_files", raw.NumFiles)
	if err != nil {
		return Torrent{}, err
	}
	size, err := intField(endpoint, "size", raw.Size)
	if err != nil {
		return Torrent{}, err
	}
	added, err := intField(endpoint, "added", raw.Added)
	if err != nil {
		return Torrent{}, err
	}
	category, err := intField(endpoint, "category", raw.Category)
	if err != nil {
		return Torrent{}, err
	}

	username := string(raw.Username)
	if username == "" {
		// The site hides some uploader names entirely.
		username = "Anonymous"
	}

	return Torrent{
		ID:       int(id),
		Name:     string(raw.Name),
		InfoHash: string(raw.InfoHash),
		Seeders:  int(seeders),
		Leechers: int(leechers),
		NumFiles: int(numFiles),
		Size:     size,
		Username: username,
		Added:    time.Unix(added, 0).UTC(),
		Status:   string(raw.Status),
		Category: CategoryID(category),
		IMDB:     string(raw.IMDB),
	}, nil
}

// decodeTorrentList maps a list endpoint body to torrents. The API's
// no-results sentinel row collapses to an empty slice, never a one-element
// one.
func decodeTorrentList(endpoint string, body []byte) ([]Torrent, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("false")) {
		return []Torrent{}, nil
	}
	if body[0] == '{' {
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &e) == nil && e.Error != "" {
			return nil, &ContentError{Endpoint: endpoint, Err: fmt.Errorf("api error: %s", e.Error)}
		}
		return nil, &ContentError{Endpoint: endpoint, Err: errUnexpectedBody}
	}

	var rows []apiTorrent
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, &ContentError{Endpoint: endpoint, Err: fmt.Errorf("decoding response: %w", err)}
	}
	if len(rows) == 1 && (rows[0].Name == noResultsName || rows[0].ID == "0") {
		return []Torrent{}, nil
	}

	out := make([]Torrent, 0, len(rows))
	for _, row := range rows {
		t, err := decodeTorrent(endpoint, row)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// decodeTorrentDetails maps the detail endpoint body to a record, or to nil
// when the API signals not-found through its sentinel row. Malformed bodies
// are content errors, never a silent nil.
func decodeTorrentDetails(endpoint string, body []byte) (*TorrentDetails, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("false")) {
		return nil, nil
	}
	if body[0] != '{' {
		return nil, &ContentError{Endpoint: endpoint, Err: errUnexpectedBody}
	}

	var raw apiTorrent
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &ContentError{Endpoint: endpoint, Err: fmt.Errorf("decoding response: %w", err)}
	}
	if raw.Name == notFoundName || raw.ID == "0" || raw.Name == "" {
		return nil, nil
	}

	t, err := decodeTorrent(endpoint, raw)
	if err != nil {
		return nil, err
	}
	return &TorrentDetails{
		Torrent:      t,
		Description:  string(raw.Descr),
		Language:     string(raw.Language),
		TextLanguage: string(raw.TextLanguage),
	}, nil
}

// decodeFileList maps the file endpoint body to entries. The API answers a
// missing torrent and an empty file list with the same non-JSON body, so both
// come back as an empty slice.
func decodeFileList(endpoint string, body []byte) ([]FileEntry, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("false")) || body[0] != '[' {
		if len(body) > 0 && body[0] == '{' {
			return nil, &ContentError{Endpoint: endpoint, Err: errUnexpectedBody}
		}
		return []FileEntry{}, nil
	}

	var rows []apiFile
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, &ContentError{Endpoint: endpoint, Err: fmt.Errorf("decoding response: %w", err)}
	}

	out := make([]FileEntry, 0, len(rows))
	for _, row := range rows {
		if row.Name == "" {
			return nil, &ContentError{Endpoint: endpoint, Field: "name", Err: errMissingField}
		}
		size, err := intField(endpoint, "size", row.Size)
		if err != nil {
			return nil, err
		}
		out = append(out, FileEntry{Name: string(row.Name), Size: size})
	}
	return out, nil
}

// decodePageCount reads the single-element count list the pcnt query returns.
func decodePageCount(endpoint string, body []byte) (int, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("false")) || body[0] != '[' {
		return 0, nil
	}

	var vals []apiValue
	if err := json.Unmarshal(body, &vals); err != nil {
		return 0, &ContentError{Endpoint: endpoint, Err: fmt.Errorf("decoding response: %w", err)}
	}
	if len(vals) == 0 || vals[0] == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(string(vals[0]))
	if err != nil {
		return 0, &ContentError{Endpoint: endpoint, Field: "page_count", Err: errNotInteger}
	}
	if n < 0 {
		return 0, nil
	}
	return n, nil
}
