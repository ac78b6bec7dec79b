package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/juju/loggo/v2"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/totegamma/familyone"
	"github.com/totegamma/familyone/internal/domain"
)

var (
	tracer = otel.Tracer("backup")
	logger = loggo.GetLogger("familyone.usecase")
)

const createdAtLayout = "2006-01-02T15:04:05.000Z"

type BackupUsecase struct {
	members MemberRepository
	photos  PhotoRepository
	codec   ArchiveCodec
	config  domain.BackupConfig
	now     func() time.Time
}

func NewBackupUsecase(
	members MemberRepository,
	photos PhotoRepository,
	codec ArchiveCodec,
	config domain.BackupConfig,
) *BackupUsecase {
	return &BackupUsecase{
		members: members,
		photos:  photos,
		codec:   codec,
		config:  config.WithDefaults(),
		now:     time.Now,
	}
}

// Build snapshots every member and photo into an archive.
// Images that cannot be normalized are left out; store failures abort the build.
func (uc *BackupUsecase) Build(ctx context.Context, appVersion string) (domain.ArchiveBuildResult, error) {
	if appVersion == "" {
		appVersion = uc.config.AppVersion
	}

	ctx, span := tracer.Start(ctx, "Backup.Usecase.Build", trace.WithAttributes(attribute.String("appVersion", appVersion)))
	defer span.End()

	members, err := uc.members.List(ctx)
	if err != nil {
		span.RecordError(err)
		return domain.ArchiveBuildResult{}, errors.Wrap(err, "list members")
	}
	photos, err := uc.photos.List(ctx)
	if err != nil {
		span.RecordError(err)
		return domain.ArchiveBuildResult{}, errors.Wrap(err, "list photos")
	}

	keyByID := make(map[int64]string, len(members))
	for _, m := range members {
		if m.ID != 0 {
			keyByID[m.ID] = domain.MemberKey(m.ID)
		}
	}

	assets := newAssetStore(uc.config)

	profileAssets := make(map[string]string)
	for _, m := range members {
		if err := ctx.Err(); err != nil {
			return domain.ArchiveBuildResult{}, err
		}
		key, ok := keyByID[m.ID]
		if !ok || m.PhotoURI == "" {
			continue
		}
		address, err := assets.addDataURI(m.PhotoURI)
		if err != nil {
			logger.Warningf("skipping profile photo of %s: %v", key, err)
			continue
		}
		profileAssets[key] = address
	}

	photoRecords := make([]domain.BackupPhotoRecord, 0, len(photos))
	for _, p := range photos {
		if err := ctx.Err(); err != nil {
			return domain.ArchiveBuildResult{}, err
		}
		key, ok := keyByID[p.MemberID]
		if !ok {
			continue
		}
		address, err := assets.addDataURI(p.PhotoURI)
		if err != nil {
			logger.Warningf("skipping photo %d of %s: %v", p.ID, key, err)
			continue
		}
		photoRecords = append(photoRecords, domain.BackupPhotoRecord{
			BackupMemberKey: key,
			PhotoAssetID:    address,
			DateAdded:       p.DateAdded,
			Description:     p.Description,
			IsProfilePhoto:  p.IsProfilePhoto,
		})
	}

	memberRecords := make([]domain.BackupMemberRecord, 0, len(members))
	for _, m := range members {
		key, ok := keyByID[m.ID]
		if !ok {
			continue
		}
		record := domain.BackupMemberRecord{
			BackupMemberKey: key,
			FirstName:       m.FirstName,
			LastName:        m.LastName,
			Patronymic:      m.Patronymic,
			Gender:          m.Gender,
			BirthDate:       familyone.NormalizeDate(m.BirthDate),
			Role:            m.Role,
			PhoneNumber:     m.PhoneNumber,
			MaidenName:      m.MaidenName,
			WeddingDate:     m.WeddingDate,
			FatherBackupKey: parentKey(m.FatherID, keyByID),
			MotherBackupKey: parentKey(m.MotherID, keyByID),
		}
		if address, ok := profileAssets[key]; ok {
			record.ProfilePhotoAssetID = &address
		}
		memberRecords = append(memberRecords, record)
	}

	membersJSON, err := marshalCanonical(memberRecords)
	if err != nil {
		return domain.ArchiveBuildResult{}, errors.Wrap(err, "encode members")
	}
	photosJSON, err := marshalCanonical(photoRecords)
	if err != nil {
		return domain.ArchiveBuildResult{}, errors.Wrap(err, "encode member photos")
	}

	addresses := assets.addresses()
	checksum := familyone.DigestString(string(membersJSON) + string(photosJSON) + strings.Join(addresses, ""))

	createdAt := uc.now().UTC()
	schemaVersion := domain.CurrentSchemaVersion
	manifest := domain.Manifest{
		SchemaVersion: &schemaVersion,
		CreatedAtUTC:  createdAt.Format(createdAtLayout),
		AppVersion:    appVersion,
		Compression:   uc.config.Compression(),
		Counts: domain.ManifestCounts{
			Members:      len(memberRecords),
			MemberPhotos: len(photoRecords),
			Assets:       assets.len(),
		},
		ChecksumSHA256: checksum,
	}
	manifestJSON, err := marshalCanonical(manifest)
	if err != nil {
		return domain.ArchiveBuildResult{}, errors.Wrap(err, "encode manifest")
	}

	entries := make([]ArchiveEntry, 0, 3+len(addresses))
	entries = append(entries,
		ArchiveEntry{Name: domain.ManifestEntry, Data: indent(manifestJSON)},
		ArchiveEntry{Name: domain.MembersEntry, Data: indent(membersJSON)},
		ArchiveEntry{Name: domain.MemberPhotosEntry, Data: indent(photosJSON)},
	)
	for _, address := range addresses {
		entries = append(entries, ArchiveEntry{Name: domain.AssetEntryName(address), Data: assets.get(address)})
	}

	file, err := uc.codec.Create(entries)
	if err != nil {
		span.RecordError(err)
		return domain.ArchiveBuildResult{}, errors.Wrap(err, "create archive")
	}

	span.SetAttributes(
		attribute.Int("members", len(memberRecords)),
		attribute.Int("photos", len(photoRecords)),
		attribute.Int("assets", assets.len()),
	)
	logger.Infof("built backup archive: %d members, %d photos, %d assets, %d bytes",
		len(memberRecords), len(photoRecords), assets.len(), len(file))

	return domain.ArchiveBuildResult{
		File:              file,
		SchemaVersion:     schemaVersion,
		CreatedAt:         createdAt,
		MembersCount:      len(memberRecords),
		MemberPhotosCount: len(photoRecords),
		AssetsCount:       assets.len(),
		SizeBytes:         int64(len(file)),
		ChecksumSHA256:    checksum,
	}, nil
}

func parentKey(id *int64, keyByID map[int64]string) *string {
	if id == nil {
		return nil
	}
	key, ok := keyByID[*id]
	if !ok {
		return nil
	}
	return &key
}

// marshalCanonical is compact JSON without HTML escaping, the form the checksum is computed over.
func marshalCanonical(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func indent(compact []byte) []byte {
	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", "  "); err != nil {
		return compact
	}
	return buf.Bytes()
}
