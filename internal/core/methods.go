package core

import (
	"context"

	"pipelinetracker/pkg/domain"
)

// CreateMethod persists a method under an existing stage and links the
// resolvable actors.
func (s *Service) CreateMethod(ctx context.Context, in MethodInput) (Method, error) {
	method := Method{
		ID:          s.newID(),
		StageID:     in.StageID,
		Name:        in.Name,
		Description: in.Description,
		Timestamp:   s.now(),
	}
	var created Method
	err := s.run(ctx, OpCreateMethod, func(tx Transaction) error {
		if err := method.Validate(); err != nil {
			return err
		}
		if _, err := tx.GetStage(in.StageID); err != nil {
			return referenceCheck(err, domain.EntityStage, "stage_id", in.StageID)
		}
		actors, err := s.resolveActors(tx, in.ActorIDs)
		if err != nil {
			return err
		}
		method.Actors = actors
		created, err = tx.CreateMethod(method)
		return err
	})
	return created, err
}

// ListMethods returns every method with its actors.
func (s *Service) ListMethods(ctx context.Context) ([]Method, error) {
	var methods []Method
	err := s.view(ctx, OpListMethods, func(v TransactionView) error {
		var err error
		methods, err = v.ListMethods()
		return err
	})
	return methods, err
}

// GetMethod returns a single method with its actors.
func (s *Service) GetMethod(ctx context.Context, id string) (Method, error) {
	var method Method
	err := s.view(ctx, OpGetMethod, func(v TransactionView) error {
		var err error
		method, err = v.GetMethod(id)
		return err
	})
	return method, err
}

// UpdateMethod applies the present patch fields. A present actor id list
// replaces the whole association set.
func (s *Service) UpdateMethod(ctx context.Context, id string, patch domain.MethodPatch) (Method, error) {
	var updated Method
	err := s.run(ctx, OpUpdateMethod, func(tx Transaction) error {
		if _, err := tx.UpdateMethod(id, func(m *Method) error {
			patch.Apply(m)
			return m.Validate()
		}); err != nil {
			return err
		}
		if patch.ActorIDs != nil {
			actors, err := s.resolveActors(tx, *patch.ActorIDs)
			if err != nil {
				return err
			}
			if err := tx.SetMethodActors(id, domain.Method{Actors: actors}.ActorIDs()); err != nil {
				return err
			}
		}
		var err error
		updated, err = tx.GetMethod(id)
		return err
	})
	return updated, err
}

// DeleteMethod removes a method with its details and actor links, then
// deletes the files those details referenced.
func (s *Service) DeleteMethod(ctx context.Context, id string) (Removal, error) {
	var removal Removal
	err := s.run(ctx, OpDeleteMethod, func(tx Transaction) error {
		var err error
		removal, err = tx.DeleteMethod(id)
		return err
	})
	if err != nil {
		return Removal{}, err
	}
	s.logger.Info("method deleted", "method_id", id, "details", removal.Details,
		"actor_links", removal.ActorLinks, "files", len(removal.FilePaths))
	s.removeFiles(ctx, OpDeleteMethod, removal.FilePaths)
	return removal, nil
}

// resolveActors looks up the requested actors, collapsing repeats. Unknown
// ids are dropped unless strict mode is on.
func (s *Service) resolveActors(v TransactionView, ids []string) ([]Actor, error) {
	unique := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	actors, err := v.FindActors(unique)
	if err != nil {
		return nil, err
	}
	if len(actors) == len(unique) {
		return actors, nil
	}
	found := make(map[string]struct{}, len(actors))
	for _, a := range actors {
		found[a.ID] = struct{}{}
	}
	var missing []string
	for _, id := range unique {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	if s.strictActorIDs {
		return nil, domain.ReferenceError{Entity: domain.EntityActor, Field: "actor_ids", IDs: missing}
	}
	s.logger.Debug("dropping unknown actor ids", "actor_ids", missing)
	return actors, nil
}
