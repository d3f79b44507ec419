package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"

	"pipelinetracker/pkg/domain"
)

const stageColumns = `id, name, description`

func scanStage(row interface{ Scan(...any) error }) (domain.Stage, error) {
	var (
		s    domain.Stage
		desc sql.NullString
	)
	if err := row.Scan(&s.ID, &s.Name, &desc); err != nil {
		return domain.Stage{}, err
	}
	s.Description = stringPtr(desc)
	return s, nil
}

func (t *transaction) ListStages() ([]domain.Stage, error) {
	rows, err := t.query(`SELECT ` + stageColumns + ` FROM pipeline_stages ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("select stages: %w", err)
	}
	defer func() { _ = rows.Close() }()
	out := make([]domain.Stage, 0)
	for rows.Next() {
		s, err := scanStage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stage: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stages: %w", err)
	}
	return out, nil
}

func (t *transaction) GetStage(id string) (domain.Stage, error) {
	s, err := scanStage(t.queryRow(`SELECT `+stageColumns+` FROM pipeline_stages WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Stage{}, domain.NotFoundError{Entity: domain.EntityStage, ID: id}
	}
	if err != nil {
		return domain.Stage{}, fmt.Errorf("select stage: %w", err)
	}
	return s, nil
}

func (t *transaction) CreateStage(s domain.Stage) (domain.Stage, error) {
	if _, err := t.exec(`INSERT INTO pipeline_stages (id, name, description) VALUES (?, ?, ?)`,
		s.ID, s.Name, nullString(s.Description)); err != nil {
		return domain.Stage{}, fmt.Errorf("insert stage: %w", err)
	}
	return s, nil
}

func (t *transaction) UpdateStage(id string, mutator func(*domain.Stage) error) (domain.Stage, error) {
	current, err := t.GetStage(id)
	if err != nil {
		return domain.Stage{}, err
	}
	if err := mutator(&current); err != nil {
		return domain.Stage{}, err
	}
	current.ID = id
	if _, err := t.exec(`UPDATE pipeline_stages SET name = ?, description = ? WHERE id = ?`,
		current.Name, nullString(current.Description), id); err != nil {
		return domain.Stage{}, fmt.Errorf("update stage: %w", err)
	}
	return current, nil
}

// DeleteStage removes the stage with its methods, their details and their
// actor links, children first.
func (t *transaction) DeleteStage(id string) (domain.Removal, error) {
	found, err := t.exists("pipeline_stages", id)
	if err != nil {
		return domain.Removal{}, err
	}
	if !found {
		return domain.Removal{}, domain.NotFoundError{Entity: domain.EntityStage, ID: id}
	}
	const ownedMethods = `SELECT id FROM pipeline_methods WHERE stage_id = ?`
	var removal domain.Removal
	if removal.FilePaths, err = t.filePaths(`SELECT file_path FROM pipeline_details
		WHERE file_path IS NOT NULL AND method_id IN (`+ownedMethods+`) ORDER BY id`, id); err != nil {
		return domain.Removal{}, err
	}
	if removal.Details, err = t.exec(`DELETE FROM pipeline_details WHERE method_id IN (`+ownedMethods+`)`, id); err != nil {
		return domain.Removal{}, fmt.Errorf("delete stage details: %w", err)
	}
	if removal.ActorLinks, err = t.exec(`DELETE FROM method_actor_association WHERE method_id IN (`+ownedMethods+`)`, id); err != nil {
		return domain.Removal{}, fmt.Errorf("delete stage actor links: %w", err)
	}
	if removal.Methods, err = t.exec(`DELETE FROM pipeline_methods WHERE stage_id = ?`, id); err != nil {
		return domain.Removal{}, fmt.Errorf("delete stage methods: %w", err)
	}
	if removal.Stages, err = t.exec(`DELETE FROM pipeline_stages WHERE id = ?`, id); err != nil {
		return domain.Removal{}, fmt.Errorf("delete stage: %w", err)
	}
	return removal, nil
}
