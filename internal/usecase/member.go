package usecase

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/totegamma/familyone"
	"github.com/totegamma/familyone/internal/domain"
	"github.com/totegamma/familyone/internal/imaging"
)

// AddPhotoInput is a new photo for an existing member.
type AddPhotoInput struct {
	MemberID       int64
	PhotoURI       string
	Description    string
	IsProfilePhoto bool
}

type MemberUsecase struct {
	members MemberRepository
	photos  PhotoRepository
	cache   HashCache
	now     func() time.Time
}

// NewMemberUsecase creates the usecase. cache may be nil.
func NewMemberUsecase(members MemberRepository, photos PhotoRepository, cache HashCache) *MemberUsecase {
	return &MemberUsecase{
		members: members,
		photos:  photos,
		cache:   cache,
		now:     time.Now,
	}
}

func (uc *MemberUsecase) List(ctx context.Context) ([]domain.FamilyMember, error) {
	return uc.members.List(ctx)
}

func (uc *MemberUsecase) Get(ctx context.Context, id int64) (domain.FamilyMember, error) {
	return uc.members.Get(ctx, id)
}

func (uc *MemberUsecase) Save(ctx context.Context, member domain.FamilyMember) (int64, error) {
	member = domain.NormalizeMemberDates(member)
	member.Gender = familyone.ParseGender(string(member.Gender))
	member.Role = familyone.RoleOrOther(string(member.Role))
	if member.FatherID != nil && *member.FatherID == member.ID && member.ID != 0 {
		return 0, domain.InvalidInputError{Reason: "member cannot be its own father"}
	}
	if member.MotherID != nil && *member.MotherID == member.ID && member.ID != 0 {
		return 0, domain.InvalidInputError{Reason: "member cannot be its own mother"}
	}

	id, err := uc.members.Upsert(ctx, member)
	if err != nil {
		return 0, domain.StoreWriteError{Op: "save member", Err: err}
	}
	return id, nil
}

// Delete removes the member together with its photos.
func (uc *MemberUsecase) Delete(ctx context.Context, id int64) error {
	if err := uc.members.Delete(ctx, id); err != nil {
		return domain.StoreWriteError{Op: "delete member", Err: err}
	}
	return nil
}

func (uc *MemberUsecase) Photos(ctx context.Context, memberID int64) ([]domain.MemberPhoto, error) {
	return uc.photos.ListForMember(ctx, memberID)
}

// AddPhoto stores a photo unless the member already has the same picture, either
// perceptually or byte for byte.
func (uc *MemberUsecase) AddPhoto(ctx context.Context, input AddPhotoInput) (domain.PhotoAddResult, error) {
	ctx, span := tracer.Start(ctx, "Member.Usecase.AddPhoto")
	defer span.End()

	member, err := uc.members.Get(ctx, input.MemberID)
	if err != nil {
		span.RecordError(err)
		return "", err
	}

	raw, _, err := familyone.ParseDataURI(input.PhotoURI)
	if err != nil {
		return "", domain.ImageDecodeError{Err: err}
	}
	img, err := imaging.Validate(raw)
	if err != nil {
		span.RecordError(err)
		return "", err
	}

	perceptual, ok := uc.cachedHash(ctx, raw)
	if !ok {
		perceptual = imaging.PerceptualHashImage(img)
		uc.storeHash(ctx, raw, perceptual)
	}
	exact := familyone.Digest(raw)

	current, err := uc.photos.ListForMember(ctx, input.MemberID)
	if err != nil {
		return "", errors.Wrap(err, "list member photos")
	}
	for _, existing := range current {
		existingPerceptual, existingExact, err := uc.photoHashes(ctx, existing)
		if err != nil {
			// unreadable stored photos never block new ones
			continue
		}
		if existingPerceptual == perceptual || existingExact == exact {
			return domain.PhotoDuplicate, nil
		}
	}

	_, err = uc.photos.Add(ctx, domain.MemberPhoto{
		MemberID:       input.MemberID,
		PhotoURI:       input.PhotoURI,
		DateAdded:      uc.now().UnixMilli(),
		Description:    input.Description,
		IsProfilePhoto: input.IsProfilePhoto,
		PerceptualHash: perceptual,
		ContentHash:    exact,
	})
	if err != nil {
		span.RecordError(err)
		return "", domain.StoreWriteError{Op: "add photo", Err: err}
	}

	if input.IsProfilePhoto {
		member.PhotoURI = input.PhotoURI
		if _, err := uc.members.Upsert(ctx, member); err != nil {
			return "", domain.StoreWriteError{Op: "set profile photo", Err: err}
		}
	}

	return domain.PhotoSaved, nil
}

func (uc *MemberUsecase) photoHashes(ctx context.Context, photo domain.MemberPhoto) (string, string, error) {
	perceptual := photo.PerceptualHash
	exact := photo.ContentHash
	if imaging.IsPerceptualHash(perceptual) && exact != "" {
		return perceptual, exact, nil
	}

	raw, _, err := familyone.ParseDataURI(photo.PhotoURI)
	if err != nil {
		return "", "", err
	}
	if exact == "" {
		exact = familyone.Digest(raw)
	}
	if !imaging.IsPerceptualHash(perceptual) {
		var ok bool
		perceptual, ok = uc.cachedHash(ctx, raw)
		if !ok {
			perceptual, err = imaging.PerceptualHash(raw)
			if err != nil {
				return "", "", err
			}
			uc.storeHash(ctx, raw, perceptual)
		}
	}
	return perceptual, exact, nil
}

func (uc *MemberUsecase) cachedHash(ctx context.Context, raw []byte) (string, bool) {
	if uc.cache == nil {
		return "", false
	}
	return uc.cache.Get(ctx, raw)
}

func (uc *MemberUsecase) storeHash(ctx context.Context, raw []byte, hash string) {
	if uc.cache != nil {
		uc.cache.Set(ctx, raw, hash)
	}
}
