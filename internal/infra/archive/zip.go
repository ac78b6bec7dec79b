package archive

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/pkg/errors"

	"github.com/totegamma/familyone/internal/domain"
	"github.com/totegamma/familyone/internal/usecase"
)

var _ usecase.ArchiveCodec = (*ZipCodec)(nil)

// ZipCodec reads and writes backup archives as zip files.
type ZipCodec struct {
	maxEntryBytes int64
	// modified is stamped on every entry so equal inputs give equal files
	modified time.Time
}

// NewZipCodec bounds every uncompressed entry by maxEntryBytes.
func NewZipCodec(maxEntryBytes int64) *ZipCodec {
	if maxEntryBytes <= 0 {
		maxEntryBytes = domain.DefaultMaxEntryBytes
	}
	return &ZipCodec{
		maxEntryBytes: maxEntryBytes,
		modified:      time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (c *ZipCodec) Create(entries []usecase.ArchiveEntry) ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	seen := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		if _, dup := seen[entry.Name]; dup {
			return nil, fmt.Errorf("duplicate archive entry %s", entry.Name)
		}
		seen[entry.Name] = struct{}{}

		header := &zip.FileHeader{
			Name:     entry.Name,
			Method:   zip.Deflate,
			Modified: c.modified,
		}
		fw, err := w.CreateHeader(header)
		if err != nil {
			return nil, errors.Wrapf(err, "create entry %s", entry.Name)
		}
		if _, err := fw.Write(entry.Data); err != nil {
			return nil, errors.Wrapf(err, "write entry %s", entry.Name)
		}
	}

	if err := w.Close(); err != nil {
		return nil, errors.Wrap(err, "finish archive")
	}
	return buf.Bytes(), nil
}

func (c *ZipCodec) Open(data []byte) (usecase.ArchiveReader, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	files := make(map[string]*zip.File, len(r.File))
	for _, f := range r.File {
		files[path.Clean(f.Name)] = f
	}
	return &zipReader{files: files, maxEntryBytes: c.maxEntryBytes}, nil
}

type zipReader struct {
	files         map[string]*zip.File
	maxEntryBytes int64
}

// Read decompresses one entry on demand.
func (r *zipReader) Read(name string) ([]byte, bool, error) {
	f, ok := r.files[path.Clean(name)]
	if !ok {
		return nil, false, nil
	}
	if f.UncompressedSize64 > uint64(r.maxEntryBytes) {
		return nil, true, fmt.Errorf("entry %s is %d bytes, limit is %d", name, f.UncompressedSize64, r.maxEntryBytes)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, true, errors.Wrapf(err, "open entry %s", name)
	}
	defer rc.Close()

	// the header size is not trusted
	data, err := io.ReadAll(io.LimitReader(rc, r.maxEntryBytes+1))
	if err != nil {
		return nil, true, errors.Wrapf(err, "read entry %s", name)
	}
	if int64(len(data)) > r.maxEntryBytes {
		return nil, true, fmt.Errorf("entry %s exceeds %d bytes", name, r.maxEntryBytes)
	}
	return data, true, nil
}
