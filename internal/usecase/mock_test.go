package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"sort"
	"testing"

	"github.com/totegamma/familyone"
	"github.com/totegamma/familyone/internal/domain"
)

// --- in-memory store ---

type memStore struct {
	nextID  int64
	members map[int64]domain.FamilyMember
	photos  map[int64]domain.MemberPhoto
	writes  int
	failAdd bool
}

func newMemStore() *memStore {
	return &memStore{
		members: make(map[int64]domain.FamilyMember),
		photos:  make(map[int64]domain.MemberPhoto),
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

type memMembers struct{ s *memStore }

func (m memMembers) List(ctx context.Context) ([]domain.FamilyMember, error) {
	out := make([]domain.FamilyMember, 0, len(m.s.members))
	for _, member := range m.s.members {
		out = append(out, member)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m memMembers) Get(ctx context.Context, id int64) (domain.FamilyMember, error) {
	member, ok := m.s.members[id]
	if !ok {
		return domain.FamilyMember{}, domain.NotFoundError{Resource: "member"}
	}
	return member, nil
}

func (m memMembers) Upsert(ctx context.Context, member domain.FamilyMember) (int64, error) {
	m.s.writes++
	if member.ID == 0 {
		member.ID = m.s.id()
	}
	m.s.members[member.ID] = member
	return member.ID, nil
}

func (m memMembers) Delete(ctx context.Context, id int64) error {
	m.s.writes++
	delete(m.s.members, id)
	for pid, p := range m.s.photos {
		if p.MemberID == id {
			delete(m.s.photos, pid)
		}
	}
	return nil
}

func (m memMembers) DeleteAll(ctx context.Context) error {
	m.s.writes++
	m.s.members = make(map[int64]domain.FamilyMember)
	m.s.photos = make(map[int64]domain.MemberPhoto)
	return nil
}

type memPhotos struct{ s *memStore }

func (m memPhotos) List(ctx context.Context) ([]domain.MemberPhoto, error) {
	out := make([]domain.MemberPhoto, 0, len(m.s.photos))
	for _, p := range m.s.photos {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m memPhotos) ListForMember(ctx context.Context, memberID int64) ([]domain.MemberPhoto, error) {
	all, _ := m.List(ctx)
	out := make([]domain.MemberPhoto, 0)
	for _, p := range all {
		if p.MemberID == memberID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m memPhotos) Add(ctx context.Context, photo domain.MemberPhoto) (int64, error) {
	if m.s.failAdd {
		return 0, errors.New("disk full")
	}
	m.s.writes++
	photo.ID = m.s.id()
	m.s.photos[photo.ID] = photo
	return photo.ID, nil
}

func (m memPhotos) Delete(ctx context.Context, id int64) error {
	m.s.writes++
	delete(m.s.photos, id)
	return nil
}

// --- archive codec ---

// mapCodec stores entries as a JSON object of name to payload.
type mapCodec struct{}

type mapReader map[string][]byte

func (r mapReader) Read(name string) ([]byte, bool, error) {
	data, ok := r[name]
	return data, ok, nil
}

func (mapCodec) Create(entries []ArchiveEntry) ([]byte, error) {
	m := make(map[string][]byte, len(entries))
	for _, e := range entries {
		m[e.Name] = e.Data
	}
	return json.Marshal(m)
}

func (mapCodec) Open(data []byte) (ArchiveReader, error) {
	var m map[string][]byte
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return mapReader(m), nil
}

// --- audit ---

type memAudit struct {
	records []domain.BackupAuditRecord
}

func (m *memAudit) Append(ctx context.Context, record domain.BackupAuditRecord) (int64, error) {
	record.ID = int64(len(m.records) + 1)
	m.records = append(m.records, record)
	return record.ID, nil
}

func (m *memAudit) List(ctx context.Context) ([]domain.BackupAuditRecord, error) {
	out := make([]domain.BackupAuditRecord, len(m.records))
	for i, r := range m.records {
		out[len(m.records)-1-i] = r
	}
	return out, nil
}

type mockPublisher struct {
	channel string
	got     []domain.BackupAuditRecord
	err     error
}

func (m *mockPublisher) Publish(ctx context.Context, channel string, record domain.BackupAuditRecord) error {
	m.channel = channel
	m.got = append(m.got, record)
	return m.err
}

type mapHashCache struct {
	hits   int
	hashes map[string]string
}

func newMapHashCache() *mapHashCache {
	return &mapHashCache{hashes: make(map[string]string)}
}

func (c *mapHashCache) Get(ctx context.Context, payload []byte) (string, bool) {
	h, ok := c.hashes[string(payload)]
	if ok {
		c.hits++
	}
	return h, ok
}

func (c *mapHashCache) Set(ctx context.Context, payload []byte, hash string) {
	c.hashes[string(payload)] = hash
}

// --- fixtures ---

// checkerboard is 64x64 with 8px squares; inverted swaps black and white.
func checkerboard(t *testing.T, inverted bool) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			cx, cy := x/8, y/8
			white := (cx+cy)%2 == 0
			if inverted {
				white = !white
			}
			c := color.RGBA{A: 255}
			if white {
				c = color.RGBA{R: 255, G: 255, B: 255, A: 255}
			}
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

func solid(t *testing.T, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

func dataURI(raw []byte) string {
	return familyone.ComposeDataURI(raw, "image/png")
}

func ptr[T any](v T) *T { return &v }
