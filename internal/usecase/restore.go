package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"

	"github.com/totegamma/familyone"
	"github.com/totegamma/familyone/internal/domain"
	"github.com/totegamma/familyone/internal/imaging"
)

type parsedArchive struct {
	reader   ArchiveReader
	manifest domain.Manifest
	members  []domain.BackupMemberRecord
	photos   []domain.BackupPhotoRecord
}

// Restore merges an archive into the store. Structural problems fail before any write;
// per-record problems are counted in the report and skipped.
func (uc *BackupUsecase) Restore(ctx context.Context, data []byte) (domain.RestoreReport, error) {
	ctx, span := tracer.Start(ctx, "Backup.Usecase.Restore")
	defer span.End()

	var report domain.RestoreReport

	archive, err := uc.parseArchive(data)
	if err != nil {
		span.RecordError(err)
		return report, err
	}

	existing, err := uc.members.List(ctx)
	if err != nil {
		span.RecordError(err)
		return report, errors.Wrap(err, "list members")
	}
	index := make(map[string]domain.FamilyMember, len(existing))
	for _, m := range existing {
		if m.ID != 0 {
			index[domain.Fingerprint(m.Identity())] = m
		}
	}

	keyToID := make(map[string]int64, len(archive.members))
	pending := make([]pendingRelation, 0, len(archive.members))
	for _, record := range archive.members {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		// fingerprint what will be stored, not the raw record
		member := memberFromRecord(record)
		fp := domain.Fingerprint(member.Identity())
		if match, ok := index[fp]; ok {
			keyToID[record.BackupMemberKey] = match.ID
			report.MembersMatched++
		} else {
			id, err := uc.members.Upsert(ctx, member)
			if err != nil {
				span.RecordError(err)
				return report, domain.StoreWriteError{Op: "insert member", Err: err}
			}
			member.ID = id
			// later rows with the same identity resolve to this one
			index[fp] = member
			keyToID[record.BackupMemberKey] = id
			report.MembersInserted++
		}

		pending = append(pending, pendingRelation{
			localID:   keyToID[record.BackupMemberKey],
			fatherKey: record.FatherBackupKey,
			motherKey: record.MotherBackupKey,
		})
	}

	report.RelationsUpdated, err = relinkParents(ctx, uc.members, pending, keyToID)
	if err != nil {
		span.RecordError(err)
		return report, err
	}

	hashes := newMemberHashes(uc.photos)
	for _, record := range archive.photos {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		localID, ok := keyToID[record.BackupMemberKey]
		if !ok {
			logger.Warningf("skipping photo %s: %v", record.PhotoAssetID, domain.UnresolvedReferenceError{Key: record.BackupMemberKey})
			report.Errors++
			continue
		}

		asset, found, err := lookupAsset(archive.reader, record.PhotoAssetID)
		if err != nil || !found {
			logger.Warningf("skipping photo %s of %s: asset unavailable (%v)", record.PhotoAssetID, record.BackupMemberKey, err)
			report.Errors++
			continue
		}

		img, err := imaging.Validate(asset)
		if err != nil {
			logger.Warningf("skipping photo %s of %s: %v", record.PhotoAssetID, record.BackupMemberKey, err)
			report.Errors++
			continue
		}

		hash := familyone.Digest(asset)
		known, err := hashes.forMember(ctx, localID)
		if err != nil {
			span.RecordError(err)
			return report, err
		}
		if _, dup := known[hash]; dup {
			report.PhotosSkippedDuplicates++
			continue
		}

		dateAdded := record.DateAdded
		if dateAdded == 0 {
			dateAdded = uc.now().UnixMilli()
		}
		_, err = uc.photos.Add(ctx, domain.MemberPhoto{
			MemberID:       localID,
			PhotoURI:       familyone.ComposeDataURI(asset, ""),
			DateAdded:      dateAdded,
			Description:    record.Description,
			IsProfilePhoto: record.IsProfilePhoto,
			PerceptualHash: imaging.PerceptualHashImage(img),
			ContentHash:    hash,
		})
		if err != nil {
			span.RecordError(err)
			return report, domain.StoreWriteError{Op: "add photo", Err: err}
		}
		known[hash] = struct{}{}
		report.PhotosAdded++
	}

	report.ProfilePhotosSet, err = uc.restoreProfilePhotos(ctx, archive, keyToID)
	if err != nil {
		span.RecordError(err)
		return report, err
	}

	span.SetAttributes(
		attribute.Int("membersInserted", report.MembersInserted),
		attribute.Int("membersMatched", report.MembersMatched),
		attribute.Int("photosAdded", report.PhotosAdded),
		attribute.Int("errors", report.Errors),
	)
	logger.Infof("restored backup archive: %+v", report)

	return report, nil
}

// restoreProfilePhotos runs after ordinary photos and only fills members without a profile image.
func (uc *BackupUsecase) restoreProfilePhotos(ctx context.Context, archive *parsedArchive, keyToID map[string]int64) (int, error) {
	latest, err := uc.members.List(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "list members")
	}
	byID := make(map[int64]domain.FamilyMember, len(latest))
	for _, m := range latest {
		byID[m.ID] = m
	}

	set := 0
	for _, record := range archive.members {
		if err := ctx.Err(); err != nil {
			return set, err
		}
		if record.ProfilePhotoAssetID == nil || *record.ProfilePhotoAssetID == "" {
			continue
		}
		localID, ok := keyToID[record.BackupMemberKey]
		if !ok {
			continue
		}
		member, ok := byID[localID]
		if !ok || member.PhotoURI != "" {
			continue
		}

		asset, found, err := lookupAsset(archive.reader, *record.ProfilePhotoAssetID)
		if err != nil || !found {
			logger.Warningf("profile photo %s of %s unavailable (%v)", *record.ProfilePhotoAssetID, record.BackupMemberKey, err)
			continue
		}
		if _, err := imaging.Validate(asset); err != nil {
			logger.Warningf("profile photo %s of %s: %v", *record.ProfilePhotoAssetID, record.BackupMemberKey, err)
			continue
		}

		member.PhotoURI = familyone.ComposeDataURI(asset, "")
		if _, err := uc.members.Upsert(ctx, member); err != nil {
			return set, domain.StoreWriteError{Op: "set profile photo", Err: err}
		}
		byID[localID] = member
		set++
	}
	return set, nil
}

func (uc *BackupUsecase) parseArchive(data []byte) (*parsedArchive, error) {
	reader, err := uc.codec.Open(data)
	if err != nil {
		return nil, domain.StructuralArchiveError{Reason: fmt.Sprintf("cannot open container: %v", err)}
	}

	archive := &parsedArchive{reader: reader}
	if err := readJSONEntry(reader, domain.ManifestEntry, &archive.manifest); err != nil {
		return nil, err
	}

	var members *[]domain.BackupMemberRecord
	if err := readJSONEntry(reader, domain.MembersEntry, &members); err != nil {
		return nil, err
	}
	var photos *[]domain.BackupPhotoRecord
	if err := readJSONEntry(reader, domain.MemberPhotosEntry, &photos); err != nil {
		return nil, err
	}
	if members == nil || photos == nil {
		return nil, domain.StructuralArchiveError{Reason: "members and photos must be arrays"}
	}
	archive.members = *members
	archive.photos = *photos

	version := archive.manifest.SchemaVersion
	if version == nil {
		return nil, domain.StructuralArchiveError{Reason: "manifest has no schema version"}
	}
	if *version < domain.MinSupportedSchemaVersion {
		return nil, domain.StructuralArchiveError{Reason: fmt.Sprintf("unsupported schema version %d", *version)}
	}

	return archive, nil
}

func readJSONEntry(reader ArchiveReader, name string, v any) error {
	data, found, err := reader.Read(name)
	if err != nil {
		return domain.StructuralArchiveError{Reason: fmt.Sprintf("cannot read %s: %v", name, err)}
	}
	if !found {
		return domain.StructuralArchiveError{Reason: "missing " + name}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return domain.StructuralArchiveError{Reason: fmt.Sprintf("cannot parse %s: %v", name, err)}
	}
	return nil
}

// lookupAsset tries every known asset extension.
func lookupAsset(reader ArchiveReader, address string) ([]byte, bool, error) {
	if address == "" {
		return nil, false, nil
	}
	for _, ext := range domain.AssetExtensions {
		data, found, err := reader.Read(domain.AssetsDir + address + ext)
		if err != nil {
			return nil, false, err
		}
		if found {
			return data, true, nil
		}
	}
	return nil, false, nil
}

func memberFromRecord(record domain.BackupMemberRecord) domain.FamilyMember {
	return domain.FamilyMember{
		FirstName:   record.FirstName,
		LastName:    record.LastName,
		Patronymic:  record.Patronymic,
		Gender:      familyone.ParseGender(string(record.Gender)),
		BirthDate:   familyone.NormalizeDate(record.BirthDate),
		Role:        familyone.RoleOrOther(string(record.Role)),
		PhoneNumber: record.PhoneNumber,
		MaidenName:  record.MaidenName,
		WeddingDate: familyone.NormalizeDate(record.WeddingDate),
	}
}

// memberHashes lazily collects the content hashes of each member's stored photos.
// It lives for a single restore.
type memberHashes struct {
	photos PhotoRepository
	sets   map[int64]map[string]struct{}
}

func newMemberHashes(photos PhotoRepository) *memberHashes {
	return &memberHashes{photos: photos, sets: make(map[int64]map[string]struct{})}
}

func (h *memberHashes) forMember(ctx context.Context, memberID int64) (map[string]struct{}, error) {
	if set, ok := h.sets[memberID]; ok {
		return set, nil
	}

	stored, err := h.photos.ListForMember(ctx, memberID)
	if err != nil {
		return nil, errors.Wrapf(err, "list photos of member %d", memberID)
	}

	set := make(map[string]struct{}, len(stored))
	for _, p := range stored {
		if p.ContentHash != "" {
			set[p.ContentHash] = struct{}{}
			continue
		}
		raw, _, err := familyone.ParseDataURI(p.PhotoURI)
		if err != nil {
			continue
		}
		set[familyone.Digest(raw)] = struct{}{}
	}
	h.sets[memberID] = set
	return set, nil
}
