package domain

import "fmt"

// BackupConfig controls archive building and reading.
type BackupConfig struct {
	AppVersion    string  `yaml:"appVersion"`
	MaxEdge       int     `yaml:"maxEdge"`
	Quality       float64 `yaml:"quality"`
	MaxEntryBytes int64   `yaml:"maxEntryBytes"`
}

const (
	DefaultAppVersion    = "1.0.0"
	DefaultMaxEdge       = 1280
	DefaultQuality       = 0.8
	DefaultMaxEntryBytes = 64 << 20
)

// WithDefaults fills zero values.
func (c BackupConfig) WithDefaults() BackupConfig {
	if c.AppVersion == "" {
		c.AppVersion = DefaultAppVersion
	}
	if c.MaxEdge <= 0 {
		c.MaxEdge = DefaultMaxEdge
	}
	if c.Quality <= 0 || c.Quality > 1 {
		c.Quality = DefaultQuality
	}
	if c.MaxEntryBytes <= 0 {
		c.MaxEntryBytes = DefaultMaxEntryBytes
	}
	return c
}

// Compression is the manifest descriptor, e.g. jpeg_1280_q80.
func (c BackupConfig) Compression() string {
	return fmt.Sprintf("jpeg_%d_q%d", c.MaxEdge, int(c.Quality*100+0.5))
}
