package core

import (
	"context"
	"fmt"

	"pipelinetracker/pkg/domain"
)

// CreateDetail persists a detail under an existing method. The detail and
// its method are checked first, an attached file is then stored outside any
// transaction, and the row is inserted last. The file is removed again when
// the insert fails.
func (s *Service) CreateDetail(ctx context.Context, in DetailInput) (Detail, error) {
	detail := Detail{
		ID:          s.newID(),
		MethodID:    in.MethodID,
		Name:        in.Name,
		Value:       in.Value,
		Description: in.Description,
		Timestamp:   s.now(),
	}
	var created Detail
	err := s.observe(ctx, OpCreateDetail, func(ctx context.Context) error {
		if err := detail.Validate(); err != nil {
			return err
		}
		err := s.store.View(ctx, func(v TransactionView) error {
			_, err := v.GetMethod(in.MethodID)
			return referenceCheck(err, domain.EntityMethod, "method_id", in.MethodID)
		})
		if err != nil {
			return err
		}
		if in.File != nil {
			if s.files == nil {
				return fmt.Errorf("store file %q: no file store configured", in.File.Filename)
			}
			path, err := s.files.Save(ctx, in.File.Filename, in.File.Body)
			if err != nil {
				return err
			}
			detail.FilePath = &path
		}
		err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			var err error
			created, err = tx.CreateDetail(detail)
			return err
		})
		if err != nil && detail.FilePath != nil {
			s.removeFiles(ctx, OpCreateDetail, []string{*detail.FilePath})
		}
		return err
	})
	if err != nil {
		return Detail{}, err
	}
	return created, nil
}

// ListDetails returns every detail.
func (s *Service) ListDetails(ctx context.Context) ([]Detail, error) {
	var details []Detail
	err := s.view(ctx, OpListDetails, func(v TransactionView) error {
		var err error
		details, err = v.ListDetails()
		return err
	})
	return details, err
}

// GetDetail returns a single detail.
func (s *Service) GetDetail(ctx context.Context, id string) (Detail, error) {
	var detail Detail
	err := s.view(ctx, OpGetDetail, func(v TransactionView) error {
		var err error
		detail, err = v.GetDetail(id)
		return err
	})
	return detail, err
}

// UpdateDetail applies the present patch fields. The stored file is kept.
func (s *Service) UpdateDetail(ctx context.Context, id string, patch domain.DetailPatch) (Detail, error) {
	var updated Detail
	err := s.run(ctx, OpUpdateDetail, func(tx Transaction) error {
		var err error
		updated, err = tx.UpdateDetail(id, func(d *Detail) error {
			patch.Apply(d)
			return d.Validate()
		})
		return err
	})
	return updated, err
}

// DeleteDetail removes a detail and then its stored file.
func (s *Service) DeleteDetail(ctx context.Context, id string) (Removal, error) {
	var removal Removal
	err := s.run(ctx, OpDeleteDetail, func(tx Transaction) error {
		var err error
		removal, err = tx.DeleteDetail(id)
		return err
	})
	if err != nil {
		return Removal{}, err
	}
	s.removeFiles(ctx, OpDeleteDetail, removal.FilePaths)
	return removal, nil
}
