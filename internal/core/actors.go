package core

import (
	"context"

	"pipelinetracker/pkg/domain"
)

// CreateActor persists an actor. The id and timestamp default to a generated
// id and the current time when absent.
func (s *Service) CreateActor(ctx context.Context, actor Actor) (Actor, error) {
	if actor.ID == "" {
		actor.ID = s.newID()
	}
	if actor.Timestamp.IsZero() {
		actor.Timestamp = s.now()
	}
	var created Actor
	err := s.run(ctx, OpCreateActor, func(tx Transaction) error {
		if err := actor.Validate(); err != nil {
			return err
		}
		var err error
		created, err = tx.CreateActor(actor)
		return err
	})
	return created, err
}

// ListActors returns every actor ordered by name.
func (s *Service) ListActors(ctx context.Context) ([]Actor, error) {
	var actors []Actor
	err := s.view(ctx, OpListActors, func(v TransactionView) error {
		var err error
		actors, err = v.ListActors()
		return err
	})
	return actors, err
}

// GetActor returns a single actor.
func (s *Service) GetActor(ctx context.Context, id string) (Actor, error) {
	var actor Actor
	err := s.view(ctx, OpGetActor, func(v TransactionView) error {
		var err error
		actor, err = v.GetActor(id)
		return err
	})
	return actor, err
}

// UpdateActor applies the present patch fields. The id cannot change.
func (s *Service) UpdateActor(ctx context.Context, id string, patch domain.ActorPatch) (Actor, error) {
	var updated Actor
	err := s.run(ctx, OpUpdateActor, func(tx Transaction) error {
		var err error
		updated, err = tx.UpdateActor(id, func(a *Actor) error {
			patch.Apply(a)
			return a.Validate()
		})
		return err
	})
	return updated, err
}

// DeleteActor removes an actor and its method links.
func (s *Service) DeleteActor(ctx context.Context, id string) (Removal, error) {
	var removal Removal
	err := s.run(ctx, OpDeleteActor, func(tx Transaction) error {
		var err error
		removal, err = tx.DeleteActor(id)
		return err
	})
	if err != nil {
		return Removal{}, err
	}
	s.logger.Info("actor deleted", "actor_id", id, "actor_links", removal.ActorLinks)
	return removal, nil
}
