package piratebay

import "time"

// Torrent is a single result row from the index. Values are immutable once
// decoded; Added is always UTC.
type Torrent struct {
	ID       int
	Name     string
	InfoHash string
	Seeders  int
	Leechers int
	NumFiles int
	Size     int64
	Username string
	Added    time.Time
	Status   string
	Category CategoryID
	IMDB     string
}

// TorrentDetails is a Torrent plus the description text the detail endpoint
// returns. Language fields are empty when the API omits them.
type TorrentDetails struct {
	Torrent
	Description  string
	Language     string
	TextLanguage string
}

// FileEntry is one file inside a torrent's file list.
type FileEntry struct {
	Name string
	Size int64
}
