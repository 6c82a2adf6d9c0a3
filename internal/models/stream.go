package models

import "sort"

// Stream is a live broadcast of the game
type Stream struct {
	Channel      string `json:"channel"`
	Title        string `json:"title"`
	Viewers      int    `json:"viewers"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
}

// ParseStreams reads the "data" list of a Twitch Helix streams response.
// A document without that list is absent. Entries that are not live, have
// no channel or a bad viewer count are skipped. Streams are ordered by
// viewers, most first, then by channel.
func ParseStreams(doc Document) ([]Stream, bool) {
	data, ok := doc["data"].([]interface{})
	if !ok {
		return nil, false
	}

	streams := []Stream{}
	for _, raw := range data {
		entry, ok := asObject(raw)
		if !ok {
			continue
		}
		if kind, _ := entry["type"].(string); kind != "live" {
			continue
		}
		channel, _ := entry["user_name"].(string)
		if channel == "" {
			channel, _ = entry["user_login"].(string)
		}
		if channel == "" {
			continue
		}
		viewers, ok := asCount(entry["viewer_count"])
		if !ok {
			continue
		}
		title, _ := entry["title"].(string)
		thumbnail, _ := entry["thumbnail_url"].(string)

		streams = append(streams, Stream{
			Channel:      channel,
			Title:        title,
			Viewers:      viewers,
			ThumbnailURL: thumbnail,
		})
	}

	sort.Slice(streams, func(i, j int) bool {
		if streams[i].Viewers != streams[j].Viewers {
			return streams[i].Viewers > streams[j].Viewers
		}
		return streams[i].Channel < streams[j].Channel
	})
	return streams, true
}
