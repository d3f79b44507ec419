package core

import (
	"context"

	"pipelinetracker/pkg/domain"
)

// CreateStage validates and persists a new stage under a generated id.
func (s *Service) CreateStage(ctx context.Context, stage Stage) (Stage, error) {
	stage.ID = s.newID()
	var created Stage
	err := s.run(ctx, OpCreateStage, func(tx Transaction) error {
		if err := stage.Validate(); err != nil {
			return err
		}
		var err error
		created, err = tx.CreateStage(stage)
		return err
	})
	return created, err
}

// ListStages returns every stage ordered by name.
func (s *Service) ListStages(ctx context.Context) ([]Stage, error) {
	var stages []Stage
	err := s.view(ctx, OpListStages, func(v TransactionView) error {
		var err error
		stages, err = v.ListStages()
		return err
	})
	return stages, err
}

// GetStage returns a single stage.
func (s *Service) GetStage(ctx context.Context, id string) (Stage, error) {
	var stage Stage
	err := s.view(ctx, OpGetStage, func(v TransactionView) error {
		var err error
		stage, err = v.GetStage(id)
		return err
	})
	return stage, err
}

// UpdateStage applies the present patch fields.
func (s *Service) UpdateStage(ctx context.Context, id string, patch domain.StagePatch) (Stage, error) {
	var updated Stage
	err := s.run(ctx, OpUpdateStage, func(tx Transaction) error {
		var err error
		updated, err = tx.UpdateStage(id, func(stage *Stage) error {
			patch.Apply(stage)
			return stage.Validate()
		})
		return err
	})
	return updated, err
}

// DeleteStage removes a stage together with its methods, their details and
// actor links, then deletes the files those details referenced.
func (s *Service) DeleteStage(ctx context.Context, id string) (Removal, error) {
	var removal Removal
	err := s.run(ctx, OpDeleteStage, func(tx Transaction) error {
		var err error
		removal, err = tx.DeleteStage(id)
		return err
	})
	if err != nil {
		return Removal{}, err
	}
	s.logger.Info("stage deleted", "stage_id", id, "methods", removal.Methods,
		"details", removal.Details, "actor_links", removal.ActorLinks, "files", len(removal.FilePaths))
	s.removeFiles(ctx, OpDeleteStage, removal.FilePaths)
	return removal, nil
}
