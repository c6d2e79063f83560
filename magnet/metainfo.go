package magnet

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"io"
	"strings"

	"github.com/zeebo/bencode"
)

// FromMetaInfo derives a Magnet from a .torrent file: the v1 info hash is the
// SHA-1 of the raw info dict, the name comes from the info dict (UTF-8 key
// preferred), and trackers are collected from announce-list tiers in order.
func FromMetaInfo(r io.Reader) (*Magnet, error) {
	var t struct {
		Info         bencode.RawMessage `bencode:"info"`
		Announce     bencode.RawMessage `bencode:"announce"`
		AnnounceList bencode.RawMessage `bencode:"announce-list"`
	}
	if err := bencode.NewDecoder(r).Decode(&t); err != nil {
		return nil, err
	}
	if len(t.Info) == 0 {
		return nil, errors.New("magnet: no info dict in torrent file")
	}

	var info struct {
		Name     string `bencode:"name"`
		NameUTF8 string `bencode:"name.utf-8,omitempty"`
	}
	if err := bencode.DecodeBytes(t.Info, &info); err != nil {
		return nil, err
	}
	name := info.Name
	if info.NameUTF8 != "" {
		name = info.NameUTF8
	}

	hash := sha1.Sum(t.Info)
	hashStr := hex.EncodeToString(hash[:])
	if name == "" {
		name = hashStr
	}

	var trackers []string
	if len(t.AnnounceList) > 0 {
		var tiers [][]string
		if err := bencode.DecodeBytes(t.AnnounceList, &tiers); err == nil {
			for _, tier := range tiers {
				for _, tr := range tier {
					if isTrackerSupported(tr) {
						trackers = append(trackers, tr)
					}
				}
			}
		}
	}
	if len(trackers) == 0 && len(t.Announce) > 0 {
		var s string
		if err := bencode.DecodeBytes(t.Announce, &s); err == nil && isTrackerSupported(s) {
			trackers = append(trackers, s)
		}
	}

	return &Magnet{InfoHash: hashStr, Name: name, Trackers: trackers}, nil
}

func isTrackerSupported(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "udp://")
}
