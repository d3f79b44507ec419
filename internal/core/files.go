package core

import (
	"context"
	"fmt"
	"time"
)

// SweepOrphanFiles removes stored files that no detail references and that
// are older than minAge. Such files are left behind when the process stops
// between storing an upload and inserting its detail. Younger files are kept
// since their detail may still be committing. It returns the number of files
// removed.
func (s *Service) SweepOrphanFiles(ctx context.Context, minAge time.Duration) (int, error) {
	if s.files == nil {
		return 0, nil
	}
	var removed int
	err := s.observe(ctx, OpSweepFiles, func(ctx context.Context) error {
		// Listing before reading the details keeps a file stored and
		// committed in between from looking unreferenced.
		stored, err := s.files.List(ctx)
		if err != nil {
			return fmt.Errorf("list stored files: %w", err)
		}
		referenced := make(map[string]struct{})
		err = s.store.View(ctx, func(v TransactionView) error {
			details, err := v.ListDetails()
			if err != nil {
				return err
			}
			for _, d := range details {
				if d.FilePath != nil {
					referenced[*d.FilePath] = struct{}{}
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
		cutoff := s.now().Add(-minAge)
		for _, f := range stored {
			if _, ok := referenced[f.Path]; ok || f.ModTime.After(cutoff) {
				continue
			}
			if err := s.files.Remove(ctx, f.Path); err != nil {
				s.logger.Warn("orphan file removal failed", "path", f.Path, "error", err)
				continue
			}
			removed++
		}
		if removed > 0 {
			s.logger.Info("removed orphan files", "files", removed, "stored", len(stored))
		}
		return nil
	})
	return removed, err
}
