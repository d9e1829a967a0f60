package constants

import "strings"

// ScreenshotType is the canonical category tag assigned to a screenshot
// before detailed extraction. The set is closed; unknown model output is
// coerced to TypeLink by the classifier.
type ScreenshotType string

const (
	TypeEvent      ScreenshotType = "event"
	TypeSong       ScreenshotType = "song"
	TypeVideo      ScreenshotType = "video"
	TypeRestaurant ScreenshotType = "restaurant"
	TypeLink       ScreenshotType = "link"
	TypeSocialPost ScreenshotType = "social_post"
	TypeNote       ScreenshotType = "note"
)

var allTypes = []ScreenshotType{
	TypeEvent,
	TypeSong,
	TypeVideo,
	TypeRestaurant,
	TypeLink,
	TypeSocialPost,
	TypeNote,
}

// AllTypes returns the closed set of screenshot types as strings.
func AllTypes() []string {
	result := make([]string, len(allTypes))
	for i, t := range allTypes {
		result[i] = string(t)
	}
	return result
}

// ParseScreenshotType maps a raw tag to a known type. The bool reports
// whether the tag was recognized.
func ParseScreenshotType(input string) (ScreenshotType, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	for _, t := range allTypes {
		if normalized == string(t) {
			return t, true
		}
	}
	return TypeLink, false
}
