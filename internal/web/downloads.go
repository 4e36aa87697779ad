package web

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// downloads holds rendered documents between the generate response and the
// browser following the download link. Entries expire after ttl.
type downloads struct {
	cache *cache.Cache
}

func newDownloads(ttl time.Duration) *downloads {
	return &downloads{cache: cache.New(ttl, 2*ttl)}
}

// put stores data and returns the id it can be fetched with.
func (d *downloads) put(data []byte) string {
	id := uuid.New().String()
	d.cache.Set(id, data, cache.DefaultExpiration)
	return id
}

func (d *downloads) get(id string) ([]byte, bool) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, false
	}
	v, ok := d.cache.Get(id)
	if !ok {
		return nil, false
	}
	data, ok := v.([]byte)
	return data, ok
}

func (d *downloads) len() int {
	return d.cache.ItemCount()
}
