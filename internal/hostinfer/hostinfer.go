// Package hostinfer derives a best-guess event organizer from raw OCR text.
// It is the deterministic fallback layered under the vision model: invoked
// only when extraction returned an empty host, and allowed to be wrong
// occasionally. Rules run in a fixed priority order, first match wins.
package hostinfer

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const maxHostLen = 120

// labelPatterns are tried against every line in order; the first line/pattern
// pair producing a usable capture wins. Order is part of the contract:
// explicit labels beat handles, handles beat prose attributions, prose beats
// the top-of-text organization heuristic.
var labelPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)hosted\s+by[:\s]+(.+)`),
	regexp.MustCompile(`(?i)organi[sz]ed\s+by[:\s]+(.+)`),
	regexp.MustCompile(`(?i)presented\s+by[:\s]+(.+)`),
	regexp.MustCompile(`(?i)^host[:\s]+(.+)`),
	regexp.MustCompile(`(?i)^organi[sz]er[:\s]+(.+)`),
	regexp.MustCompile(`(?i)\bby:\s*(.+)`),
	regexp.MustCompile(`(?i)\bfrom:\s*(.+)`),
}

var (
	reHandle     = regexp.MustCompile(`@([A-Za-z0-9_.-]+)`)
	rePostedBy   = regexp.MustCompile(`(?i)(?:posted|created|event)\s+(?:by|from)[:\s]+([^\n]+)`)
	reShortName  = regexp.MustCompile(`^[A-Z][A-Za-z\s&]+$`)
	reSpaceRun   = regexp.MustCompile(`\s{2,}`)
	reLeadingSep = regexp.MustCompile(`^[-:\s]+`)
)

// orgKeywords mark lines that read like an organization name.
var orgKeywords = []string{
	"club", "society", "association", "department", "lab", "center", "centre",
	"team", "group", "chapter", "union", "university", "college", "school",
}

// topLineScanLimit bounds the organization-name heuristic to the flyer
// header region, where the organizer usually appears.
const topLineScanLimit = 15

// Infer returns the best-guess host for the given OCR text, or "" when no
// heuristic matches. Empty is a designed "no opinion" outcome, not an error.
func Infer(text string) string {
	lines := nonEmptyLines(text)

	// 1) Labeled lines ("Hosted by ...", "Organizer: ...").
	for _, line := range lines {
		for _, pat := range labelPatterns {
			if m := pat.FindStringSubmatch(line); m != nil {
				if host := sanitize(m[1]); len(host) > 1 {
					return host
				}
			}
		}
	}

	// 2) Social handles anywhere in the text, skipping anything that is part
	// of a URL.
	for _, m := range reHandle.FindAllStringSubmatch(text, -1) {
		if strings.Contains(m[1], "http") {
			continue
		}
		if host := sanitize(m[1]); len(host) > 1 {
			return host
		}
	}

	// 3) Prose attribution ("posted by ...", "event from ...").
	if m := rePostedBy.FindStringSubmatch(text); m != nil {
		if host := sanitize(m[1]); len(host) > 1 {
			return host
		}
	}

	// 4) A line near the top that reads like an organization name.
	limit := len(lines)
	if limit > topLineScanLimit {
		limit = topLineScanLimit
	}
	for _, line := range lines[:limit] {
		if looksLikeOrganization(line) {
			return sanitize(line)
		}
	}

	return ""
}

func nonEmptyLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

func looksLikeOrganization(line string) bool {
	lower := strings.ToLower(line)
	for _, kw := range orgKeywords {
		if strings.Contains(lower, kw) && len(line) > 2 && len(line) < 80 {
			return true
		}
	}
	// Capitalized short name, e.g. "Acme Robotics" or "Design & Arts".
	if reShortName.MatchString(line) && len(line) > 2 && len(line) < 60 &&
		len(strings.Fields(line)) <= 5 {
		return true
	}
	return false
}

// sanitize cleans a raw candidate: leading separators stripped, space runs
// collapsed, trimmed, capped at maxHostLen bytes on a rune boundary.
func sanitize(s string) string {
	s = reLeadingSep.ReplaceAllString(s, "")
	s = reSpaceRun.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	if len(s) > maxHostLen {
		cut := maxHostLen
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = strings.TrimSpace(s[:cut])
	}
	return s
}
