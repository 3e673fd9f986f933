package models

import (
	"encoding/json"
	"strings"
)

// PlayGroupSeparator separates playback URL groups (and their flags) in the
// maccms wire convention, e.g. "m3u8$$$mp4".
const PlayGroupSeparator = "$$$"

// DefaultPlayFlag labels a playback group whose upstream flag is absent.
const DefaultPlayFlag = "default"

// Video is the canonical record produced for every upstream listing entry,
// regardless of the source's wire format.
//
// SourceID, SourceName and SourceURL are never taken from the upstream
// payload: they are stamped by the normalizer from the request's source
// descriptor, overwriting anything the payload carried under those names.
type Video struct {
	VodID string `json:"vod_id"`

	SourceID   string `json:"source_id"`
	SourceName string `json:"source_name"`
	SourceURL  string `json:"source_url"`

	Name     string `json:"vod_name"`
	Pic      string `json:"vod_pic,omitempty"`
	Year     string `json:"vod_year,omitempty"`
	Area     string `json:"vod_area,omitempty"`
	TypeName string `json:"type_name,omitempty"`
	Director string `json:"vod_director,omitempty"`
	Actor    string `json:"vod_actor,omitempty"`
	Remarks  string `json:"vod_remarks,omitempty"`
	// Content may contain markup; use parser.StripMarkup for plain-text display.
	Content string `json:"vod_content,omitempty"`

	// PlayFrom and PlayURL hold the raw "$$$"-joined wire values.
	PlayFrom string `json:"vod_play_from,omitempty"`
	PlayURL  string `json:"vod_play_url,omitempty"`

	// PlayURLs holds one raw playback URL group per entry; PlaySources holds
	// the flag label of the group at the same index. The two slices always
	// have equal length.
	PlayURLs    []string `json:"play_urls"`
	PlaySources []string `json:"play_sources"`
}

// UnmarshalJSON decodes a JSON-format record. Upstream JSON sources are
// inconsistent about numeric versus string values for the id and year fields,
// so both are accepted.
func (v *Video) UnmarshalJSON(data []byte) error {
	type alias Video
	aux := struct {
		VodID json.RawMessage `json:"vod_id"`
		Year  json.RawMessage `json:"vod_year"`
		*alias
	}{alias: (*alias)(v)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	v.VodID = flexString(aux.VodID)
	v.Year = flexString(aux.Year)
	return nil
}

// flexString renders a raw JSON scalar as a string, accepting both quoted
// strings and bare numbers. Anything else yields an empty string.
func flexString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

// ExpandPlayGroups fills PlayURLs/PlaySources from the raw PlayURL/PlayFrom
// wire fields when the slices are still empty. Groups with blank URL content
// are dropped together with their flag so the two slices stay index-aligned;
// a missing flag falls back to DefaultPlayFlag.
func (v *Video) ExpandPlayGroups() {
	if len(v.PlayURLs) > 0 || strings.TrimSpace(v.PlayURL) == "" {
		return
	}

	urls := strings.Split(v.PlayURL, PlayGroupSeparator)
	flags := strings.Split(v.PlayFrom, PlayGroupSeparator)

	for i, group := range urls {
		if strings.TrimSpace(group) == "" {
			continue
		}
		flag := DefaultPlayFlag
		if i < len(flags) && strings.TrimSpace(flags[i]) != "" {
			flag = strings.TrimSpace(flags[i])
		}
		v.PlayURLs = append(v.PlayURLs, group)
		v.PlaySources = append(v.PlaySources, flag)
	}
}

// Episode is one playable entry inside a playback URL group.
type Episode struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ParseEpisodes splits one playback URL group into its episodes. Entries are
// separated by '#'; each entry is either "name$url" or a bare URL, in which
// case the name is left empty. Blank entries are dropped.
func ParseEpisodes(group string) []Episode {
	var episodes []Episode
	for _, entry := range strings.Split(group, "#") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if name, url, ok := strings.Cut(entry, "$"); ok {
			episodes = append(episodes, Episode{Name: strings.TrimSpace(name), URL: strings.TrimSpace(url)})
		} else {
			episodes = append(episodes, Episode{URL: entry})
		}
	}
	return episodes
}
