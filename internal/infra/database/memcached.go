package database

import (
	"github.com/bradfitz/gomemcache/memcache"
)

// NewMemcached returns nil when no server is configured.
func NewMemcached(server string) *memcache.Client {
	if server == "" {
		return nil
	}
	client := memcache.New(server)
	client.Timeout = memcache.DefaultTimeout * 2
	return client
}
