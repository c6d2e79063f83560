package piratebay

// CategoryID is the numeric identifier the API uses to classify torrents.
// The client passes these through as-is and does not validate them; the
// mapping below mirrors the site's category table and can be regenerated
// independently.
type CategoryID int

// CategoryAll leaves the category filter off entirely.
const CategoryAll CategoryID = 0

const (
	AudioMusic      CategoryID = 101
	AudioBooks      CategoryID = 102
	AudioSoundClips CategoryID = 103
	AudioFLAC       CategoryID = 104
	AudioOther      CategoryID = 199

	VideoMovies      CategoryID = 201
	VideoMoviesDVDR  CategoryID = 202
	VideoMusicVideos CategoryID = 203
	VideoMovieClips  CategoryID = 204
	VideoTVShows     CategoryID = 205
	VideoHandheld    CategoryID = 206
	VideoHDMovies    CategoryID = 207
	VideoHDTVShows   CategoryID = 208
	Video3D          CategoryID = 209
	VideoOther       CategoryID = 299

	ApplicationWindows  CategoryID = 301
	ApplicationMac      CategoryID = 302
	ApplicationUnix     CategoryID = 303
	ApplicationHandheld CategoryID = 304
	ApplicationIOS      CategoryID = 305
	ApplicationAndroid  CategoryID = 306
	ApplicationOther    CategoryID = 399

	GamesPC       CategoryID = 401
	GamesMac      CategoryID = 402
	GamesPSX      CategoryID = 403
	GamesXbox360  CategoryID = 404
	GamesWii      CategoryID = 405
	GamesHandheld CategoryID = 406
	GamesIOS      CategoryID = 407
	GamesAndroid  CategoryID = 408
	GamesOther    CategoryID = 499

	OtherEbooks    CategoryID = 601
	OtherComics    CategoryID = 602
	OtherPictures  CategoryID = 603
	OtherCovers    CategoryID = 604
	OtherPhysibles CategoryID = 605
	OtherOther     CategoryID = 699
)

// Categories groups the numeric ids by the site's section and label names.
var Categories = map[string]map[string]CategoryID{
	"audio": {
		"music":       AudioMusic,
		"audio_books": AudioBooks,
		"sound_clips": AudioSoundClips,
		"flac":        AudioFLAC,
		"other":       AudioOther,
	},
	"video": {
		"movies":       VideoMovies,
		"movies_dvdr":  VideoMoviesDVDR,
		"music_videos": VideoMusicVideos,
		"movie_clips":  VideoMovieClips,
		"tv_shows":     VideoTVShows,
		"handheld":     VideoHandheld,
		"hd_movies":    VideoHDMovies,
		"hd_tv_shows":  VideoHDTVShows,
		"3d":           Video3D,
		"other":        VideoOther,
	},
	"application": {
		"windows":  ApplicationWindows,
		"mac":      ApplicationMac,
		"unix":     ApplicationUnix,
		"handheld": ApplicationHandheld,
		"ios":      ApplicationIOS,
		"android":  ApplicationAndroid,
		"other":    ApplicationOther,
	},
	"games": {
		"pc":       GamesPC,
		"mac":      GamesMac,
		"psx":      GamesPSX,
		"xbox360":  GamesXbox360,
		"wii":      GamesWii,
		"handheld": GamesHandheld,
		"ios":      GamesIOS,
		"android":  GamesAndroid,
		"other":    GamesOther,
	},
	"other": {
		"ebooks":    OtherEbooks,
		"comics":    OtherComics,
		"pictures":  OtherPictures,
		"covers":    OtherCovers,
		"physibles": OtherPhysibles,
		"other":     OtherOther,
	},
}
