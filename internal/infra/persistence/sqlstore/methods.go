package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"

	"pipelinetracker/pkg/domain"
)

const methodColumns = `id, stage_id, name, description, created_at`

func scanMethod(row interface{ Scan(...any) error }) (domain.Method, error) {
	var (
		m    domain.Method
		desc sql.NullString
		ts   timestamp
	)
	if err := row.Scan(&m.ID, &m.StageID, &m.Name, &desc, &ts); err != nil {
		return domain.Method{}, err
	}
	m.Description = stringPtr(desc)
	m.Timestamp = ts.Time
	m.Actors = []domain.Actor{}
	return m, nil
}

func (t *transaction) ListMethods() ([]domain.Method, error) {
	rows, err := t.query(`SELECT ` + methodColumns + ` FROM pipeline_methods ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("select methods: %w", err)
	}
	out := make([]domain.Method, 0)
	index := make(map[string]int)
	for rows.Next() {
		m, err := scanMethod(rows)
		if err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan method: %w", err)
		}
		index[m.ID] = len(out)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("iterate methods: %w", err)
	}
	_ = rows.Close()
	if len(out) == 0 {
		return out, nil
	}
	links, err := t.methodActors(`SELECT maa.method_id, ` + qualifiedActorColumns + `
		FROM method_actor_association maa
		JOIN responsible_actors a ON a.id = maa.actor_id
		ORDER BY a.name, a.id`)
	if err != nil {
		return nil, err
	}
	for _, link := range links {
		if i, ok := index[link.methodID]; ok {
			out[i].Actors = append(out[i].Actors, link.actor)
		}
	}
	return out, nil
}

func (t *transaction) GetMethod(id string) (domain.Method, error) {
	m, err := scanMethod(t.queryRow(`SELECT `+methodColumns+` FROM pipeline_methods WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Method{}, domain.NotFoundError{Entity: domain.EntityMethod, ID: id}
	}
	if err != nil {
		return domain.Method{}, fmt.Errorf("select method: %w", err)
	}
	links, err := t.methodActors(`SELECT maa.method_id, `+qualifiedActorColumns+`
		FROM method_actor_association maa
		JOIN responsible_actors a ON a.id = maa.actor_id
		WHERE maa.method_id = ?
		ORDER BY a.name, a.id`, id)
	if err != nil {
		return domain.Method{}, err
	}
	for _, link := range links {
		m.Actors = append(m.Actors, link.actor)
	}
	return m, nil
}

type actorLink struct {
	methodID string
	actor    domain.Actor
}

func (t *transaction) methodActors(query string, args ...any) ([]actorLink, error) {
	rows, err := t.query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("select method actors: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var links []actorLink
	for rows.Next() {
		var link actorLink
		a, err := scanActor(rows, &link.methodID)
		if err != nil {
			return nil, fmt.Errorf("scan method actor: %w", err)
		}
		link.actor = a
		links = append(links, link)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate method actors: %w", err)
	}
	return links, nil
}

// CreateMethod inserts the method and links it to m.Actors.
func (t *transaction) CreateMethod(m domain.Method) (domain.Method, error) {
	if _, err := t.exec(`INSERT INTO pipeline_methods (id, stage_id, name, description, created_at) VALUES (?, ?, ?, ?, ?)`,
		m.ID, m.StageID, m.Name, nullString(m.Description), m.Timestamp.UTC()); err != nil {
		return domain.Method{}, fmt.Errorf("insert method: %w", err)
	}
	if err := t.SetMethodActors(m.ID, m.ActorIDs()); err != nil {
		return domain.Method{}, err
	}
	return t.GetMethod(m.ID)
}

// UpdateMethod rewrites the method columns. Actor links are managed through
// SetMethodActors.
func (t *transaction) UpdateMethod(id string, mutator func(*domain.Method) error) (domain.Method, error) {
	current, err := t.GetMethod(id)
	if err != nil {
		return domain.Method{}, err
	}
	if err := mutator(&current); err != nil {
		return domain.Method{}, err
	}
	if _, err := t.exec(`UPDATE pipeline_methods SET stage_id = ?, name = ?, description = ? WHERE id = ?`,
		current.StageID, current.Name, nullString(current.Description), id); err != nil {
		return domain.Method{}, fmt.Errorf("update method: %w", err)
	}
	return t.GetMethod(id)
}

// SetMethodActors replaces the method's actor links. Repeated ids are linked once.
func (t *transaction) SetMethodActors(methodID string, actorIDs []string) error {
	if _, err := t.exec(`DELETE FROM method_actor_association WHERE method_id = ?`, methodID); err != nil {
		return fmt.Errorf("clear method actors: %w", err)
	}
	seen := make(map[string]struct{}, len(actorIDs))
	for _, actorID := range actorIDs {
		if _, dup := seen[actorID]; dup {
			continue
		}
		seen[actorID] = struct{}{}
		if _, err := t.exec(`INSERT INTO method_actor_association (method_id, actor_id) VALUES (?, ?)`, methodID, actorID); err != nil {
			return fmt.Errorf("link actor %s: %w", actorID, err)
		}
	}
	return nil
}

// DeleteMethod removes the method with its details and actor links.
func (t *transaction) DeleteMethod(id string) (domain.Removal, error) {
	found, err := t.exists("pipeline_methods", id)
	if err != nil {
		return domain.Removal{}, err
	}
	if !found {
		return domain.Removal{}, domain.NotFoundError{Entity: domain.EntityMethod, ID: id}
	}
	var removal domain.Removal
	if removal.FilePaths, err = t.filePaths(`SELECT file_path FROM pipeline_details
		WHERE file_path IS NOT NULL AND method_id = ? ORDER BY id`, id); err != nil {
		return domain.Removal{}, err
	}
	if removal.Details, err = t.exec(`DELETE FROM pipeline_details WHERE method_id = ?`, id); err != nil {
		return domain.Removal{}, fmt.Errorf("delete method details: %w", err)
	}
	if removal.ActorLinks, err = t.exec(`DELETE FROM method_actor_association WHERE method_id = ?`, id); err != nil {
		return domain.Removal{}, fmt.Errorf("delete method actor links: %w", err)
	}
	if removal.Methods, err = t.exec(`DELETE FROM pipeline_methods WHERE id = ?`, id); err != nil {
		return domain.Removal{}, fmt.Errorf("delete method: %w", err)
	}
	return removal, nil
}
