package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/totegamma/familyone/internal/domain"
	"github.com/totegamma/familyone/internal/infra/database/models"
	"github.com/totegamma/familyone/internal/usecase"
)

var _ usecase.AuditRepository = (*AuditRepository)(nil)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Append(ctx context.Context, record domain.BackupAuditRecord) (int64, error) {
	row := models.BackupAudit{
		Action:  string(record.Action),
		Details: record.Details,
		CDate:   record.Timestamp,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return 0, err
	}
	return row.ID, nil
}

// List returns the log newest first.
func (r *AuditRepository) List(ctx context.Context) ([]domain.BackupAuditRecord, error) {
	var rows []models.BackupAudit
	err := r.db.WithContext(ctx).
		Order("c_date DESC").
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	records := make([]domain.BackupAuditRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, domain.BackupAuditRecord{
			ID:        row.ID,
			Action:    domain.AuditAction(row.Action),
			Details:   row.Details,
			Timestamp: row.CDate,
		})
	}
	return records, nil
}
