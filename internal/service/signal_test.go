package service

import (
	"context"
	"testing"

	"github.com/totegamma/familyone/internal/domain"
)

func TestSignalServiceWithoutRedis(t *testing.T) {
	s := NewSignalService(nil)
	if err := s.Publish(context.Background(), domain.AuditChannel, domain.BackupAuditRecord{Action: domain.AuditLocalExport}); err != nil {
		t.Fatalf("expected publish to be a no-op got %v", err)
	}
	ch, err := s.Subscribe(context.Background(), domain.AuditChannel)
	if err != nil || ch != nil {
		t.Fatalf("expected no subscription got %v %v", ch, err)
	}
}
