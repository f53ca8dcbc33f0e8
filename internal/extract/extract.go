// Package extract normalizes raw feed-item snapshots into records.
// Extraction is pure and never fails: anything unparseable yields empty
// fields, and the engine treats an empty record as "insufficient signal".
package extract

import (
	"regexp"
	"strings"

	"github.com/eliteGoblin/edutubed/internal/domain"
)

// Item id extraction attempts, in priority order: canonical watch-link query
// parameter, short-form path segment, shortened-domain path segment, embed
// path segment. First match wins.
var itemIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`[?&]v=([^&]+)`),
	regexp.MustCompile(`/shorts/([^/?#]+)`),
	regexp.MustCompile(`youtu\.be/([^/?#]+)`),
	regexp.MustCompile(`/embed/([^/?#]+)`),
}

// Channel id extraction attempts: canonical channel path, at-handle, short
// channel path, legacy user path. Handles keep a prefix so the id kind stays
// distinguishable in the list store.
var channelIDPatterns = []struct {
	re     *regexp.Regexp
	prefix string
}{
	{regexp.MustCompile(`/channel/([^/?#]+)`), ""},
	{regexp.MustCompile(`/@([^/?#]+)`), "@"},
	{regexp.MustCompile(`/c/([^/?#]+)`), "c/"},
	{regexp.MustCompile(`/user/([^/?#]+)`), "user/"},
}

// ItemID returns the item id found in any of the links, or "".
func ItemID(links []string) string {
	for _, href := range links {
		if href == "" {
			continue
		}
		for _, re := range itemIDPatterns {
			if m := re.FindStringSubmatch(href); m != nil {
				return m[1]
			}
		}
	}
	return ""
}

// ChannelID returns the channel id found in any of the links, or "".
func ChannelID(links []string) string {
	for _, href := range links {
		if href == "" {
			continue
		}
		for _, p := range channelIDPatterns {
			if m := p.re.FindStringSubmatch(href); m != nil {
				return p.prefix + m[1]
			}
		}
	}
	return ""
}

func firstNonEmpty(candidates ...[]string) string {
	for _, list := range candidates {
		for _, s := range list {
			if t := strings.TrimSpace(s); t != "" {
				return t
			}
		}
	}
	return ""
}

// Record normalizes a raw snapshot. Explicit label attributes are preferred
// over visible title text.
func Record(raw domain.RawItem) domain.Record {
	return domain.Record{
		ItemID:      ItemID(raw.Links),
		ChannelID:   ChannelID(raw.Links),
		Title:       firstNonEmpty(raw.TitleLabels, raw.TitleTexts),
		Description: firstNonEmpty(raw.DescTexts),
		ChannelName: firstNonEmpty(raw.ChannelTexts),
	}
}
