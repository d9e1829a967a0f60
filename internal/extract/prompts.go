package extract

// fieldSpec describes one extractable field for prompt composition. desc is
// the one-line instruction telling the model what counts as valid content.
type fieldSpec struct {
	name     string
	desc     string
	required bool
}

var eventFields = []fieldSpec{
	{"title", "the event's name exactly as shown", true},
	{"date", "the start date; prefer YYYY-MM-DD, otherwise copy what is visible", true},
	{"time", "the start time in 24-hour HH:MM", true},
	{"host", "the person, group, or organization running the event", false},
	{"endDate", "the end date if the event spans multiple days", false},
	{"endTime", "the end time in 24-hour HH:MM", false},
	{"location", "the venue name and/or address", false},
	{"description", "a short summary of what the event is about", false},
}

// hostBias is the aggressive host-discovery instruction for event
// extraction. Host is the field general-purpose vision models most often
// drop silently, so the prompt leans hard on every visible signal.
const hostBias = "Hunt aggressively for the host/organizer: treat social media handles " +
	"(@name), labels like 'Hosted by', 'Organized by', 'Presented by', 'By', or 'From', " +
	"and any visible organization name as host evidence. Never return an empty host " +
	"if any such signal is visible anywhere in the image."

var songFields = []fieldSpec{
	{"title", "the song title", true},
	{"artist", "the performing artist or band", true},
	{"album", "the album name if shown", false},
	{"duration", "the track length, e.g. 3:45", false},
	{"spotifyId", "the Spotify track ID if a Spotify URL or URI is visible", false},
	{"youtubeId", "the YouTube video ID if a YouTube URL is visible", false},
	{"appleMusicId", "the Apple Music ID if an Apple Music URL is visible", false},
}

var videoFields = []fieldSpec{
	{"title", "the video title", true},
	{"channel", "the channel or uploader name", true},
	{"url", "the full video URL if visible", false},
	{"description", "the video description or caption", false},
	{"thumbnail", "the thumbnail image URL if visible", false},
	{"videoId", "the platform video ID if it can be read from a URL", false},
}

var restaurantFields = []fieldSpec{
	{"name", "the restaurant's name", true},
	{"address", "the street address or neighborhood as shown", true},
	{"cuisine", "the cuisine type, e.g. Italian, ramen", false},
	{"rating", "the numeric rating between 0 and 5, as a number not a string", false},
	{"coordinates", "an object {\"lat\": number, \"lng\": number} if map coordinates are visible", false},
	{"phone", "the phone number", false},
	{"website", "the website URL", false},
}

var linkFields = []fieldSpec{
	{"title", "the page or article title", true},
	{"url", "the full URL as visible; reconstruct from the address bar if needed", true},
	{"description", "the page summary or preview snippet", false},
	{"favicon", "the favicon URL if identifiable", false},
}

var socialPostFields = []fieldSpec{
	{"author", "the posting account's display name or handle", true},
	{"content", "the full text of the post", true},
	{"platform", "the platform name, e.g. twitter, instagram, linkedin", false},
	{"url", "the post URL if visible", false},
	{"timestamp", "the post's visible timestamp or relative age", false},
	{"imageUrl", "the URL of an embedded image if visible", false},
}

var noteFields = []fieldSpec{
	{"title", "a short title capturing what the text is about", true},
	{"content", "the full visible text content", true},
	{"tags", "a JSON array of short topical tags", false},
	{"source", "the app or document the text appears in, if identifiable", false},
}

const (
	eventExample = `{"title": "Tech Talk Night", "date": "2025-03-05", "time": "18:30", ` +
		`"host": "Acme Robotics Club", "location": "Engineering Hall 201", ` +
		`"description": "Monthly robotics talk"}`
	songExample = `{"title": "Midnight City", "artist": "M83", "album": "Hurry Up, We're Dreaming", ` +
		`"duration": "4:03", "spotifyId": "1eyzqe2QqGZUmfcPZtrIyt"}`
	videoExample = `{"title": "How CRDTs Work", "channel": "Systems Weekly", ` +
		`"url": "https://youtube.com/watch?v=dQw4w9WgXcQ", "videoId": "dQw4w9WgXcQ"}`
	restaurantExample = `{"name": "Nonna's Kitchen", "address": "12 Mulberry St, New York", ` +
		`"cuisine": "Italian", "rating": 4.5, "phone": "+1 212 555 0148"}`
	linkExample = `{"title": "The Case for Local-First Software", ` +
		`"url": "https://example.com/local-first", "description": "Essay on data ownership"}`
	socialPostExample = `{"author": "@janedoe", "content": "Shipped our v2 today!", ` +
		`"platform": "twitter", "timestamp": "2h"}`
	noteExample = `{"title": "Grocery list", "content": "eggs, flour, basil", ` +
		`"tags": ["shopping"], "source": "Notes app"}`
)
