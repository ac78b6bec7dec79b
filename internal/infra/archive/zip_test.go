package archive

import (
	"bytes"
	"testing"

	"github.com/klauspost/compress/zip"

	"github.com/totegamma/familyone/internal/domain"
	"github.com/totegamma/familyone/internal/usecase"
)

func TestZipCodecRoundTrip(t *testing.T) {
	codec := NewZipCodec(0)
	asset := bytes.Repeat([]byte{0xff, 0xd8}, 100)
	entries := []usecase.ArchiveEntry{
		{Name: domain.ManifestEntry, Data: []byte(`{"schemaVersion":1}`)},
		{Name: domain.MembersEntry, Data: []byte(`[]`)},
		{Name: domain.AssetEntryName("abc"), Data: asset},
	}

	file, err := codec.Create(entries)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	reader, err := codec.Open(file)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}

	for _, e := range entries {
		data, found, err := reader.Read(e.Name)
		if err != nil || !found {
			t.Fatalf("expected %s, found=%v err=%v", e.Name, found, err)
		}
		if !bytes.Equal(data, e.Data) {
			t.Fatalf("content mismatch for %s", e.Name)
		}
	}

	if _, found, err := reader.Read(domain.MemberPhotosEntry); found || err != nil {
		t.Fatalf("expected missing entry got found=%v err=%v", found, err)
	}
}

func TestZipCodecDeflatesEveryEntry(t *testing.T) {
	file, err := NewZipCodec(0).Create([]usecase.ArchiveEntry{
		{Name: domain.MembersEntry, Data: []byte(`[]`)},
		{Name: domain.AssetEntryName("abc"), Data: bytes.Repeat([]byte{0xff}, 512)},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	r, err := zip.NewReader(bytes.NewReader(file), int64(len(file)))
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	for _, f := range r.File {
		if f.Method != zip.Deflate {
			t.Fatalf("expected %s to be deflated got method %d", f.Name, f.Method)
		}
	}
}

func TestZipCodecIsDeterministic(t *testing.T) {
	codec := NewZipCodec(0)
	entries := []usecase.ArchiveEntry{{Name: domain.MembersEntry, Data: []byte(`[{"a":1}]`)}}

	first, _ := codec.Create(entries)
	second, _ := codec.Create(entries)
	if !bytes.Equal(first, second) {
		t.Fatalf("expected identical archives")
	}
}

func TestZipCodecRejects(t *testing.T) {
	codec := NewZipCodec(8)

	if _, err := codec.Open([]byte("definitely not a zip")); err == nil {
		t.Fatalf("expected error for garbage")
	}

	dup := []usecase.ArchiveEntry{{Name: "a"}, {Name: "a"}}
	if _, err := codec.Create(dup); err == nil {
		t.Fatalf("expected error for duplicate names")
	}

	file, err := codec.Create([]usecase.ArchiveEntry{{Name: domain.MembersEntry, Data: []byte("0123456789")}})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	reader, err := codec.Open(file)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if _, _, err := reader.Read(domain.MembersEntry); err == nil {
		t.Fatalf("expected oversized entry to be rejected")
	}
}
