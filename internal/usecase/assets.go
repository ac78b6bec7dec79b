package usecase

import (
	"sort"

	"github.com/totegamma/familyone"
	"github.com/totegamma/familyone/internal/domain"
	"github.com/totegamma/familyone/internal/imaging"
)

// assetStore holds the normalized images of one archive keyed by content address.
type assetStore struct {
	maxEdge int
	quality float64
	assets  map[string][]byte
	seen    map[string]string // raw payload digest -> content address
}

func newAssetStore(cfg domain.BackupConfig) *assetStore {
	return &assetStore{
		maxEdge: cfg.MaxEdge,
		quality: cfg.Quality,
		assets:  make(map[string][]byte),
		seen:    make(map[string]string),
	}
}

// addDataURI normalizes the image behind a data URI and stores it once.
func (s *assetStore) addDataURI(uri string) (string, error) {
	raw, _, err := familyone.ParseDataURI(uri)
	if err != nil {
		return "", domain.ImageDecodeError{Err: err}
	}
	return s.add(raw)
}

func (s *assetStore) add(raw []byte) (string, error) {
	rawDigest := familyone.Digest(raw)
	if address, ok := s.seen[rawDigest]; ok {
		return address, nil
	}

	normalized, err := imaging.Normalize(raw, s.maxEdge, s.quality)
	if err != nil {
		return "", err
	}
	address := familyone.Digest(normalized)
	if _, ok := s.assets[address]; !ok {
		s.assets[address] = normalized
	}
	s.seen[rawDigest] = address
	return address, nil
}

func (s *assetStore) len() int {
	return len(s.assets)
}

// addresses returns the content addresses in byte order.
func (s *assetStore) addresses() []string {
	keys := make([]string, 0, len(s.assets))
	for k := range s.assets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s *assetStore) get(address string) []byte {
	return s.assets[address]
}
