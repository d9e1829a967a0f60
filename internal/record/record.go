// Package record defines the typed structured records produced by the
// extraction pipeline, one variant per screenshot type.
package record

import "github.com/tundeoj/snapsort/constants"

// Record is the tagged union over all extracted record variants. The tag
// returned by Type always agrees with the concrete variant; the pipeline
// never pairs a tag with a foreign body.
type Record interface {
	Type() constants.ScreenshotType
}

// EventData holds fields extracted from an event screenshot (flyer, invite,
// calendar entry). Date is YYYY-MM-DD and Time/EndTime are HH:MM 24-hour
// once the record has passed through date normalization.
type EventData struct {
	Title       string `json:"title"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Host        string `json:"host,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
	EndTime     string `json:"endTime,omitempty"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
}

func (EventData) Type() constants.ScreenshotType { return constants.TypeEvent }

// SongData holds fields extracted from a music screenshot.
type SongData struct {
	Title        string `json:"title"`
	Artist       string `json:"artist"`
	Album        string `json:"album,omitempty"`
	Duration     string `json:"duration,omitempty"`
	SpotifyID    string `json:"spotifyId,omitempty"`
	YouTubeID    string `json:"youtubeId,omitempty"`
	AppleMusicID string `json:"appleMusicId,omitempty"`
}

func (SongData) Type() constants.ScreenshotType { return constants.TypeSong }

// VideoData holds fields extracted from a video screenshot.
type VideoData struct {
	Title       string `json:"title"`
	Channel     string `json:"channel"`
	URL         string `json:"url,omitempty"`
	Description string `json:"description,omitempty"`
	Thumbnail   string `json:"thumbnail,omitempty"`
	VideoID     string `json:"videoId,omitempty"`
}

func (VideoData) Type() constants.ScreenshotType { return constants.TypeVideo }

// Coordinates is a latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// RestaurantData holds fields extracted from a restaurant screenshot.
type RestaurantData struct {
	Name        string       `json:"name"`
	Address     string       `json:"address"`
	Cuisine     string       `json:"cuisine,omitempty"`
	Rating      float64      `json:"rating,omitempty"` // 0..5
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	Phone       string       `json:"phone,omitempty"`
	Website     string       `json:"website,omitempty"`
}

func (RestaurantData) Type() constants.ScreenshotType { return constants.TypeRestaurant }

// LinkData holds fields extracted from a link/article screenshot. It is also
// the fallback variant when classification yields an unknown tag.
type LinkData struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
	Favicon     string `json:"favicon,omitempty"`
}

func (LinkData) Type() constants.ScreenshotType { return constants.TypeLink }

// SocialPostData holds fields extracted from a social media post screenshot.
type SocialPostData struct {
	Author    string `json:"author"`
	Content   string `json:"content"`
	Platform  string `json:"platform,omitempty"`
	URL       string `json:"url,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	ImageURL  string `json:"imageUrl,omitempty"`
}

func (SocialPostData) Type() constants.ScreenshotType { return constants.TypeSocialPost }

// NoteData holds fields extracted from a text-heavy screenshot that fits no
// other category.
type NoteData struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags,omitempty"`
	Source  string   `json:"source,omitempty"`
}

func (NoteData) Type() constants.ScreenshotType { return constants.TypeNote }
