package userdata

import (
	"fmt"
	"sort"

	"github.com/metafates/gache"
	"github.com/samber/lo"

	"github.com/chenxi-v/otva/internal/models"
)

// sourceStore is the disk-backed registry of configured upstream sources.
var sourceStore = gache.New[map[string]*models.Source](
	&gache.Options{
		Path:       SourcesPath(),
		FileSystem: &gacheFs{},
	},
)

// Sources returns all configured sources keyed by id.
func Sources() (map[string]*models.Source, error) {
	cached, expired, err := sourceStore.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*models.Source), nil
	}
	return cached, nil
}

// SourceList returns all configured sources sorted by id for stable display.
func SourceList() ([]*models.Source, error) {
	sources, err := Sources()
	if err != nil {
		return nil, err
	}
	list := lo.Values(sources)
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

// ResolveSource looks one source up by id.
func ResolveSource(id string) (models.Source, bool) {
	sources, err := Sources()
	if err != nil {
		return models.Source{}, false
	}
	src, ok := sources[id]
	if !ok {
		return models.Source{}, false
	}
	return *src, true
}

// AddSource registers or replaces one source in the registry.
func AddSource(src models.Source) error {
	if src.ID == "" || src.URL == "" {
		return fmt.Errorf("source requires both an id and a url")
	}

	sources, err := Sources()
	if err != nil {
		return err
	}
	sources[src.ID] = &src
	return sourceStore.Set(sources)
}

// RemoveSource deletes one source from the registry.
func RemoveSource(id string) error {
	sources, err := Sources()
	if err != nil {
		return err
	}
	delete(sources, id)
	return sourceStore.Set(sources)
}
