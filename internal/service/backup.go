package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/grupoevolution/tiktokconteudos/internal/apperr"
	"github.com/grupoevolution/tiktokconteudos/internal/model"
	"github.com/grupoevolution/tiktokconteudos/internal/store"
)

type BackupService struct {
	store  store.Store
	logger *slog.Logger
	now    func() time.Time
}

func NewBackupService(s store.Store, logger *slog.Logger) *BackupService {
	if logger == nil {
		logger = slog.Default()
	}
	return &BackupService{store: s, logger: logger, now: time.Now}
}

func (s *BackupService) Export(ctx context.Context) (*model.Backup, error) {
	data, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return &model.Backup{Version: model.BackupVersion, ExportedAt: s.now().UTC(), Data: data}, nil
}

// Import replaces members, items, plans and assignments with the backup's
// content. Users are kept.
func (s *BackupService) Import(ctx context.Context, b model.Backup) error {
	if len(b.Data.Items) == 0 {
		return apperr.Validation("invalid backup file: no products")
	}
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		return tx.Restore(ctx, b.Data)
	})
	if err != nil {
		s.logger.Error("backup.import.failed", "err", err)
		return err
	}
	s.logger.Info("backup.import.ok", "version", b.Version, "members", len(b.Data.Members),
		"products", len(b.Data.Items), "distributions", len(b.Data.Plans), "assignments", len(b.Data.Assignments))
	return nil
}
