package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/totegamma/familyone/internal/domain"
	"github.com/totegamma/familyone/internal/infra/database/models"
	"github.com/totegamma/familyone/internal/usecase"
)

var _ usecase.PhotoRepository = (*PhotoRepository)(nil)

type PhotoRepository struct {
	db *gorm.DB
}

func NewPhotoRepository(db *gorm.DB) *PhotoRepository {
	return &PhotoRepository{db: db}
}

func (r *PhotoRepository) List(ctx context.Context) ([]domain.MemberPhoto, error) {
	var rows []models.MemberPhoto
	err := r.db.WithContext(ctx).
		Order("date_added DESC").
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return photosToDomain(rows), nil
}

func (r *PhotoRepository) ListForMember(ctx context.Context, memberID int64) ([]domain.MemberPhoto, error) {
	var rows []models.MemberPhoto
	err := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("date_added DESC").
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return photosToDomain(rows), nil
}

func (r *PhotoRepository) Add(ctx context.Context, photo domain.MemberPhoto) (int64, error) {
	row := models.MemberPhoto{
		MemberID:       photo.MemberID,
		PhotoURI:       photo.PhotoURI,
		DateAdded:      photo.DateAdded,
		Description:    photo.Description,
		IsProfilePhoto: photo.IsProfilePhoto,
		PerceptualHash: photo.PerceptualHash,
		ContentHash:    photo.ContentHash,
	}
	if err := r.db.WithContext(ctx).Omit("Member").Create(&row).Error; err != nil {
		return 0, err
	}
	return row.ID, nil
}

func (r *PhotoRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.MemberPhoto{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NotFoundError{Resource: "photo"}
	}
	return nil
}

func photosToDomain(rows []models.MemberPhoto) []domain.MemberPhoto {
	photos := make([]domain.MemberPhoto, 0, len(rows))
	for _, row := range rows {
		photos = append(photos, domain.MemberPhoto{
			ID:             row.ID,
			MemberID:       row.MemberID,
			PhotoURI:       row.PhotoURI,
			DateAdded:      row.DateAdded,
			Description:    row.Description,
			IsProfilePhoto: row.IsProfilePhoto,
			PerceptualHash: row.PerceptualHash,
			ContentHash:    row.ContentHash,
		})
	}
	return photos
}
