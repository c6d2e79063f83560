// Package magnet builds and parses magnet URIs for torrents indexed by the
// API, and can derive one from a .torrent file.
package magnet

import (
	"encoding/hex"
	"errors"
	"net/url"
	"strings"

	"github.com/multiformats/go-multihash"
)

var (
	ErrInvalidInfoHash = errors.New("magnet: invalid info hash")
	ErrNotMagnet       = errors.New("magnet: not a magnet uri")
)

// Magnet holds the pieces of a magnet URI. Trackers keep the order they were
// given in; the order is reproduced in the generated link.
type Magnet struct {
	InfoHash string
	Name     string
	Trackers []string
}

// Link validates the info hash and renders the URI. A 40-character hex hash
// becomes a btih urn; anything else must decode as a multihash and becomes a
// btmh urn.
func (m Magnet) Link() (string, error) {
	urn, hash, err := normalizeInfoHash(m.InfoHash)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("magnet:?xt=urn:")
	b.WriteString(urn)
	b.WriteString(":")
	b.WriteString(hash)
	if m.Name != "" {
		b.WriteString("&dn=")
		b.WriteString(escape(m.Name))
	}
	for _, tr := range m.Trackers {
		b.WriteString("&tr=")
		b.WriteString(escape(tr))
	}
	return b.String(), nil
}

// Link is shorthand for building a URI without constructing a Magnet.
func Link(infoHash, name string, trackers ...string) (string, error) {
	return Magnet{InfoHash: infoHash, Name: name, Trackers: trackers}.Link()
}

// Parse splits a magnet URI back into its parts. The info hash is validated
// the same way Link validates it.
func Parse(uri string) (*Magnet, error) {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "magnet" {
		return nil, ErrNotMagnet
	}
	q, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		return nil, ErrNotMagnet
	}

	var hash string
	for _, xt := range q["xt"] {
		if h, ok := strings.CutPrefix(xt, "urn:btih:"); ok {
			hash = h
			break
		}
		if h, ok := strings.CutPrefix(xt, "urn:btmh:"); ok {
			hash = h
			break
		}
	}
	if hash == "" {
		return nil, ErrInvalidInfoHash
	}
	if _, hash, err = normalizeInfoHash(hash); err != nil {
		return nil, err
	}

	return &Magnet{
		InfoHash: hash,
		Name:     q.Get("dn"),
		Trackers: q["tr"],
	}, nil
}

func normalizeInfoHash(h string) (urn, hash string, err error) {
	h = strings.ToLower(strings.TrimSpace(h))
	if h == "" {
		return "", "", ErrInvalidInfoHash
	}
	raw, decErr := hex.DecodeString(h)
	if decErr != nil {
		return "", "", ErrInvalidInfoHash
	}
	if len(h) == 40 {
		return "btih", h, nil
	}
	if _, decErr := multihash.Decode(raw); decErr != nil {
		return "", "", ErrInvalidInfoHash
	}
	return "btmh", h, nil
}

// escape percent-encodes for a magnet query component, with %20 for spaces
// rather than +.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
