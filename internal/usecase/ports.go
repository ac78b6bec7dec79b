package usecase

import (
	"context"

	"github.com/totegamma/familyone/internal/domain"
)

// MemberRepository defines storage operations for family members.
type MemberRepository interface {
	List(ctx context.Context) ([]domain.FamilyMember, error)
	Get(ctx context.Context, id int64) (domain.FamilyMember, error)
	// Upsert inserts when member.ID is zero and updates otherwise. It returns the member id.
	Upsert(ctx context.Context, member domain.FamilyMember) (int64, error)
	// Delete removes the member and its photos atomically.
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) error
}

// PhotoRepository defines storage operations for member photos.
type PhotoRepository interface {
	List(ctx context.Context) ([]domain.MemberPhoto, error)
	ListForMember(ctx context.Context, memberID int64) ([]domain.MemberPhoto, error)
	Add(ctx context.Context, photo domain.MemberPhoto) (int64, error)
	Delete(ctx context.Context, id int64) error
}

// AuditRepository persists the backup audit log.
type AuditRepository interface {
	Append(ctx context.Context, record domain.BackupAuditRecord) (int64, error)
	List(ctx context.Context) ([]domain.BackupAuditRecord, error)
}

// ArchiveEntry is one named payload of an archive container.
type ArchiveEntry struct {
	Name string
	Data []byte
}

// ArchiveReader gives entry-by-name access to an opened archive.
type ArchiveReader interface {
	// Read returns the payload of the named entry; found is false when it does not exist.
	Read(name string) (data []byte, found bool, err error)
}

// ArchiveCodec encodes and decodes the archive container.
type ArchiveCodec interface {
	Create(entries []ArchiveEntry) ([]byte, error)
	Open(data []byte) (ArchiveReader, error)
}

// EventPublisher fans audit records out to other processes.
type EventPublisher interface {
	Publish(ctx context.Context, channel string, record domain.BackupAuditRecord) error
}

// HashCache memoizes perceptual hashes by raw image payload.
type HashCache interface {
	Get(ctx context.Context, payload []byte) (string, bool)
	Set(ctx context.Context, payload []byte, hash string)
}
