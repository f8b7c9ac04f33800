package netease

// Playlist is a summary entry from the user playlist listing.
type Playlist struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	TrackCount      int    `json:"trackCount"`
	UpdateTime      string `json:"update_time"`
	TrackUpdateTime string `json:"track_update_time"`
}

// SongURL is a resolved streaming URL for one track at one quality tier.
type SongURL struct {
	ID    int64  `json:"id"`
	URL   string `json:"url"`
	Size  int64  `json:"size"`
	Type  string `json:"type"`
	Level string `json:"level"`
	MD5   string `json:"md5"`
}

type songURLResponse struct {
	Code int        `json:"code"`
	Data []*SongURL `json:"data"`
}

type artistJSON struct {
	Name string `json:"name"`
}

type albumJSON struct {
	Name        string `json:"name"`
	Pic         int64  `json:"pic"`
	PicURL      string `json:"picUrl"`
	PublishTime int64  `json:"publishTime"`
}

type songJSON struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Artists     []artistJSON `json:"ar"`
	Album       albumJSON    `json:"al"`
	Duration    int64        `json:"dt"` // milliseconds
	TrackNumber int          `json:"no"`
	PublishTime int64        `json:"publishTime"`
}

type songDetailResponse struct {
	Code  int        `json:"code"`
	Songs []songJSON `json:"songs"`
}

type lyricResponse struct {
	Code int `json:"code"`
	Lrc  struct {
		Lyric string `json:"lyric"`
	} `json:"lrc"`
	TLyric struct {
		Lyric string `json:"lyric"`
	} `json:"tlyric"`
}

type playlistJSON struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	TrackCount      int    `json:"trackCount"`
	UpdateTime      int64  `json:"updateTime"`
	TrackUpdateTime int64  `json:"trackUpdateTime"`
}

type userPlaylistResponse struct {
	Code     int            `json:"code"`
	Message  string         `json:"message"`
	Playlist []playlistJSON `json:"playlist"`
}

type trackIDJSON struct {
	ID int64 `json:"id"`
}

type playlistDetailResponse struct {
	Code     int    `json:"code"`
	Message  string `json:"message"`
	Playlist struct {
		ID       int64         `json:"id"`
		Name     string        `json:"name"`
		TrackIDs []trackIDJSON `json:"trackIds"`
	} `json:"playlist"`
}
