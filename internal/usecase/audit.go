package usecase

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/totegamma/familyone/internal/domain"
)

type AuditUsecase struct {
	repo      AuditRepository
	publisher EventPublisher
	now       func() time.Time
}

// NewAuditUsecase creates the usecase. publisher may be nil.
func NewAuditUsecase(repo AuditRepository, publisher EventPublisher) *AuditUsecase {
	return &AuditUsecase{
		repo:      repo,
		publisher: publisher,
		now:       time.Now,
	}
}

// Record appends an entry and announces it. A failed announcement is logged, not returned.
func (uc *AuditUsecase) Record(ctx context.Context, action domain.AuditAction, details string) (domain.BackupAuditRecord, error) {
	ctx, span := tracer.Start(ctx, "Audit.Usecase.Record")
	defer span.End()

	record := domain.BackupAuditRecord{
		Action:    action,
		Details:   details,
		Timestamp: uc.now().UTC(),
	}
	id, err := uc.repo.Append(ctx, record)
	if err != nil {
		span.RecordError(err)
		return record, errors.Wrap(err, "append audit record")
	}
	record.ID = id

	if uc.publisher != nil {
		if err := uc.publisher.Publish(ctx, domain.AuditChannel, record); err != nil {
			span.RecordError(err)
			logger.Warningf("cannot publish audit record %d: %v", id, err)
		}
	}
	return record, nil
}

// List returns the log, newest first.
func (uc *AuditUsecase) List(ctx context.Context) ([]domain.BackupAuditRecord, error) {
	ctx, span := tracer.Start(ctx, "Audit.Usecase.List")
	defer span.End()

	records, err := uc.repo.List(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return records, nil
}
