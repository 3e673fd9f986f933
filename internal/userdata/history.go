package userdata

import (
	"sort"
	"time"

	"github.com/metafates/gache"
	"github.com/samber/lo"

	"github.com/chenxi-v/otva/internal/models"
)

// WatchedVideo is one watch-history record.
type WatchedVideo struct {
	VodID      string    `json:"vod_id"`
	SourceID   string    `json:"source_id"`
	SourceName string    `json:"source_name"`
	Name       string    `json:"name"`
	Pic        string    `json:"pic,omitempty"`
	Remarks    string    `json:"remarks,omitempty"`
	WatchedAt  time.Time `json:"watched_at"`
}

func (w *WatchedVideo) encode() string {
	return w.SourceID + "|" + w.VodID
}

// historyStore is the disk-backed registry of watch-history records.
var historyStore = gache.New[map[string]*WatchedVideo](
	&gache.Options{
		Path:       HistoryPath(),
		FileSystem: &gacheFs{},
	},
)

// History returns the complete collection of watch records.
func History() (map[string]*WatchedVideo, error) {
	cached, expired, err := historyStore.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*WatchedVideo), nil
	}
	return cached, nil
}

// RecentHistory returns watch records newest-first.
func RecentHistory() ([]*WatchedVideo, error) {
	records, err := History()
	if err != nil {
		return nil, err
	}
	list := lo.Values(records)
	sort.Slice(list, func(i, j int) bool { return list[i].WatchedAt.After(list[j].WatchedAt) })
	return list, nil
}

// SaveWatched records that a canonical video was watched. Re-watching an
// already recorded video just refreshes its timestamp.
func SaveWatched(v models.Video) error {
	records, err := History()
	if err != nil {
		return err
	}

	record := &WatchedVideo{
		VodID:      v.VodID,
		SourceID:   v.SourceID,
		SourceName: v.SourceName,
		Name:       v.Name,
		Pic:        v.Pic,
		Remarks:    v.Remarks,
		WatchedAt:  time.Now(),
	}
	records[record.encode()] = record

	return historyStore.Set(records)
}

// RemoveWatched permanently deletes one watch record.
func RemoveWatched(record *WatchedVideo) error {
	records, err := History()
	if err != nil {
		return err
	}

	delete(records, record.encode())
	return historyStore.Set(records)
}
