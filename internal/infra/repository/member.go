package repository

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/totegamma/familyone"
	"github.com/totegamma/familyone/internal/domain"
	"github.com/totegamma/familyone/internal/infra/database/models"
	"github.com/totegamma/familyone/internal/usecase"
)

var _ usecase.MemberRepository = (*MemberRepository)(nil)

type MemberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

func (r *MemberRepository) List(ctx context.Context) ([]domain.FamilyMember, error) {
	var rows []models.Member
	err := r.db.WithContext(ctx).
		Order("last_name ASC").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	members := make([]domain.FamilyMember, 0, len(rows))
	for _, row := range rows {
		members = append(members, memberToDomain(row))
	}
	return members, nil
}

func (r *MemberRepository) Get(ctx context.Context, id int64) (domain.FamilyMember, error) {
	var row models.Member
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.FamilyMember{}, domain.NotFoundError{Resource: "member"}
		}
		return domain.FamilyMember{}, err
	}
	return memberToDomain(row), nil
}

func (r *MemberRepository) Upsert(ctx context.Context, member domain.FamilyMember) (int64, error) {
	row := memberFromDomain(member)

	if row.ID == 0 {
		if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
			return 0, err
		}
		return row.ID, nil
	}

	result := r.db.WithContext(ctx).
		Model(&row).
		Select("*").
		Omit("id", "c_date").
		Updates(row)
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, domain.NotFoundError{Resource: "member"}
	}
	return row.ID, nil
}

func (r *MemberRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("member_id = ?", id).Delete(&models.MemberPhoto{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Member{}).Where("father_id = ?", id).Update("father_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Member{}).Where("mother_id = ?", id).Update("mother_id", nil).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&models.Member{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.NotFoundError{Resource: "member"}
		}
		return nil
	})
}

func (r *MemberRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.MemberPhoto{}).Error; err != nil {
			return err
		}
		return tx.Where("1 = 1").Delete(&models.Member{}).Error
	})
}

func memberToDomain(row models.Member) domain.FamilyMember {
	return domain.FamilyMember{
		ID:          row.ID,
		FirstName:   row.FirstName,
		LastName:    row.LastName,
		Patronymic:  row.Patronymic,
		Gender:      familyone.ParseGender(row.Gender),
		BirthDate:   row.BirthDate,
		PhoneNumber: row.PhoneNumber,
		Role:        familyone.RoleOrOther(row.Role),
		PhotoURI:    row.PhotoURI,
		MaidenName:  row.MaidenName,
		FatherID:    row.FatherID,
		MotherID:    row.MotherID,
		WeddingDate: row.WeddingDate,
		CreatedAt:   row.CDate,
		UpdatedAt:   row.MDate,
	}
}

func memberFromDomain(m domain.FamilyMember) models.Member {
	return models.Member{
		ID:          m.ID,
		FirstName:   m.FirstName,
		LastName:    m.LastName,
		Patronymic:  m.Patronymic,
		Gender:      string(familyone.ParseGender(string(m.Gender))),
		BirthDate:   m.BirthDate,
		PhoneNumber: m.PhoneNumber,
		Role:        string(familyone.RoleOrOther(string(m.Role))),
		PhotoURI:    m.PhotoURI,
		MaidenName:  m.MaidenName,
		FatherID:    m.FatherID,
		MotherID:    m.MotherID,
		WeddingDate: m.WeddingDate,
	}
}
