package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"

	"pipelinetracker/pkg/domain"
)

const (
	actorColumns          = `id, name, role, contributions, decisions, reasons, created_at`
	qualifiedActorColumns = `a.id, a.name, a.role, a.contributions, a.decisions, a.reasons, a.created_at`
)

// scanActor reads the actor columns, preceded by any extra destinations.
func scanActor(row interface{ Scan(...any) error }, lead ...any) (domain.Actor, error) {
	var (
		a                                 domain.Actor
		contributions, decisions, reasons sql.NullString
		ts                                timestamp
	)
	dest := append(lead, &a.ID, &a.Name, &a.Role, &contributions, &decisions, &reasons, &ts)
	if err := row.Scan(dest...); err != nil {
		return domain.Actor{}, err
	}
	a.Contributions = stringPtr(contributions)
	a.Decisions = stringPtr(decisions)
	a.Reasons = stringPtr(reasons)
	a.Timestamp = ts.Time
	return a, nil
}

func (t *transaction) listActors(query string, args ...any) ([]domain.Actor, error) {
	rows, err := t.query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("select actors: %w", err)
	}
	defer func() { _ = rows.Close() }()
	out := make([]domain.Actor, 0)
	for rows.Next() {
		a, err := scanActor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan actor: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate actors: %w", err)
	}
	return out, nil
}

func (t *transaction) ListActors() ([]domain.Actor, error) {
	return t.listActors(`SELECT ` + actorColumns + ` FROM responsible_actors ORDER BY name, id`)
}

func (t *transaction) GetActor(id string) (domain.Actor, error) {
	a, err := scanActor(t.queryRow(`SELECT `+actorColumns+` FROM responsible_actors WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Actor{}, domain.NotFoundError{Entity: domain.EntityActor, ID: id}
	}
	if err != nil {
		return domain.Actor{}, fmt.Errorf("select actor: %w", err)
	}
	return a, nil
}

// FindActors returns the existing actors among ids in the order first
// requested. Repeated and unknown ids are skipped.
func (t *transaction) FindActors(ids []string) ([]domain.Actor, error) {
	if len(ids) == 0 {
		return []domain.Actor{}, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	found, err := t.listActors(`SELECT `+actorColumns+` FROM responsible_actors WHERE id IN (`+placeholders(len(ids))+`)`, args...)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]domain.Actor, len(found))
	for _, a := range found {
		byID[a.ID] = a
	}
	out := make([]domain.Actor, 0, len(found))
	for _, id := range ids {
		if a, ok := byID[id]; ok {
			out = append(out, a)
			delete(byID, id)
		}
	}
	return out, nil
}

func (t *transaction) CreateActor(a domain.Actor) (domain.Actor, error) {
	if _, err := t.exec(`INSERT INTO responsible_actors (id, name, role, contributions, decisions, reasons, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Name, a.Role, nullString(a.Contributions), nullString(a.Decisions), nullString(a.Reasons), a.Timestamp.UTC()); err != nil {
		return domain.Actor{}, fmt.Errorf("insert actor: %w", err)
	}
	a.Timestamp = a.Timestamp.UTC()
	return a, nil
}

func (t *transaction) UpdateActor(id string, mutator func(*domain.Actor) error) (domain.Actor, error) {
	current, err := t.GetActor(id)
	if err != nil {
		return domain.Actor{}, err
	}
	if err := mutator(&current); err != nil {
		return domain.Actor{}, err
	}
	current.ID = id
	if _, err := t.exec(`UPDATE responsible_actors SET name = ?, role = ?, contributions = ?, decisions = ?, reasons = ?, created_at = ? WHERE id = ?`,
		current.Name, current.Role, nullString(current.Contributions), nullString(current.Decisions), nullString(current.Reasons),
		current.Timestamp.UTC(), id); err != nil {
		return domain.Actor{}, fmt.Errorf("update actor: %w", err)
	}
	current.Timestamp = current.Timestamp.UTC()
	return current, nil
}

// DeleteActor removes the actor and unlinks it from every method.
func (t *transaction) DeleteActor(id string) (domain.Removal, error) {
	found, err := t.exists("responsible_actors", id)
	if err != nil {
		return domain.Removal{}, err
	}
	if !found {
		return domain.Removal{}, domain.NotFoundError{Entity: domain.EntityActor, ID: id}
	}
	var removal domain.Removal
	if removal.ActorLinks, err = t.exec(`DELETE FROM method_actor_association WHERE actor_id = ?`, id); err != nil {
		return domain.Removal{}, fmt.Errorf("delete actor links: %w", err)
	}
	if removal.Actors, err = t.exec(`DELETE FROM responsible_actors WHERE id = ?`, id); err != nil {
		return domain.Removal{}, fmt.Errorf("delete actor: %w", err)
	}
	return removal, nil
}
