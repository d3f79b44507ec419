package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"

	"pipelinetracker/pkg/domain"
)

const detailColumns = `id, method_id, name, value, description, file_path, created_at`

func scanDetail(row interface{ Scan(...any) error }) (domain.Detail, error) {
	var (
		d        domain.Detail
		desc     sql.NullString
		filePath sql.NullString
		ts       timestamp
	)
	if err := row.Scan(&d.ID, &d.MethodID, &d.Name, &d.Value, &desc, &filePath, &ts); err != nil {
		return domain.Detail{}, err
	}
	d.Description = stringPtr(desc)
	d.FilePath = stringPtr(filePath)
	d.Timestamp = ts.Time
	return d, nil
}

func (t *transaction) ListDetails() ([]domain.Detail, error) {
	rows, err := t.query(`SELECT ` + detailColumns + ` FROM pipeline_details ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("select details: %w", err)
	}
	defer func() { _ = rows.Close() }()
	out := make([]domain.Detail, 0)
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("scan detail: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate details: %w", err)
	}
	return out, nil
}

func (t *transaction) GetDetail(id string) (domain.Detail, error) {
	d, err := scanDetail(t.queryRow(`SELECT `+detailColumns+` FROM pipeline_details WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Detail{}, domain.NotFoundError{Entity: domain.EntityDetail, ID: id}
	}
	if err != nil {
		return domain.Detail{}, fmt.Errorf("select detail: %w", err)
	}
	return d, nil
}

func (t *transaction) CreateDetail(d domain.Detail) (domain.Detail, error) {
	if _, err := t.exec(`INSERT INTO pipeline_details (id, method_id, name, value, description, file_path, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.MethodID, d.Name, d.Value, nullString(d.Description), nullString(d.FilePath), d.Timestamp.UTC()); err != nil {
		return domain.Detail{}, fmt.Errorf("insert detail: %w", err)
	}
	d.Timestamp = d.Timestamp.UTC()
	return d, nil
}

func (t *transaction) UpdateDetail(id string, mutator func(*domain.Detail) error) (domain.Detail, error) {
	current, err := t.GetDetail(id)
	if err != nil {
		return domain.Detail{}, err
	}
	if err := mutator(&current); err != nil {
		return domain.Detail{}, err
	}
	current.ID = id
	if _, err := t.exec(`UPDATE pipeline_details SET name = ?, value = ?, description = ?, file_path = ? WHERE id = ?`,
		current.Name, current.Value, nullString(current.Description), nullString(current.FilePath), id); err != nil {
		return domain.Detail{}, fmt.Errorf("update detail: %w", err)
	}
	return current, nil
}

// DeleteDetail removes a single detail and reports its stored file, if any.
func (t *transaction) DeleteDetail(id string) (domain.Removal, error) {
	d, err := t.GetDetail(id)
	if err != nil {
		return domain.Removal{}, err
	}
	removal := domain.Removal{}
	if removal.Details, err = t.exec(`DELETE FROM pipeline_details WHERE id = ?`, id); err != nil {
		return domain.Removal{}, fmt.Errorf("delete detail: %w", err)
	}
	if d.FilePath != nil {
		removal.FilePaths = []string{*d.FilePath}
	}
	return removal, nil
}
