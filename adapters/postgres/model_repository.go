package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"goutlier/domain/core"
	"goutlier/domain/detection"
	"goutlier/ports"
)

// modelRepository implements the ModelRepository interface
type modelRepository struct {
	db *sqlx.DB
}

// NewModelRepository creates a new fitted-model repository
func NewModelRepository(db *sqlx.DB) ports.ModelRepository {
	return &modelRepository{db: db}
}

// Create inserts a fitted model, histograms serialized as JSONB
func (r *modelRepository) Create(ctx context.Context, model *detection.Model) error {
	histogramsJSON, err := json.Marshal(model.Histograms)
	if err != nil {
		return fmt.Errorf("failed to marshal histograms: %w", err)
	}

	query := `INSERT INTO outlier_models (
		id, detector, n_features, n_bins, alpha, tol, contamination,
		histograms, threshold, fingerprint, created_at
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
	)`

	_, err = r.db.ExecContext(ctx, query,
		model.ID, model.Detector, model.NFeatures, model.NBins, model.Alpha,
		model.Tol, model.Contamination, histogramsJSON, model.Threshold,
		model.Fingerprint, model.CreatedAt.Time(),
	)
	if err != nil {
		return fmt.Errorf("failed to create model: %w", err)
	}
	return nil
}

// GetByID retrieves a fitted model by its ID
func (r *modelRepository) GetByID(ctx context.Context, id core.ModelID) (*detection.Model, error) {
	query := `SELECT
		id, detector, n_features, n_bins, alpha, tol, contamination,
		histograms, threshold, fingerprint, created_at
	FROM outlier_models WHERE id = $1`

	model, err := scanModel(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, core.NewNotFoundError("model", id.String())
		}
		return nil, fmt.Errorf("failed to get model: %w", err)
	}
	return model, nil
}

// List retrieves models ordered by creation time, newest first
func (r *modelRepository) List(ctx context.Context, limit, offset int) ([]*detection.Model, error) {
	query := `SELECT
		id, detector, n_features, n_bins, alpha, tol, contamination,
		histograms, threshold, fingerprint, created_at
	FROM outlier_models
	ORDER BY created_at DESC
	LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query models: %w", err)
	}
	defer rows.Close()

	var models []*detection.Model
	for rows.Next() {
		model, err := scanModel(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan model: %w", err)
		}
		models = append(models, model)
	}
	return models, rows.Err()
}

// Delete removes a fitted model
func (r *modelRepository) Delete(ctx context.Context, id core.ModelID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM outlier_models WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete model: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return core.NewNotFoundError("model", id.String())
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanModel(row rowScanner) (*detection.Model, error) {
	var model detection.Model
	var histogramsJSON []byte
	var createdAt sql.NullTime

	err := row.Scan(
		&model.ID, &model.Detector, &model.NFeatures, &model.NBins, &model.Alpha,
		&model.Tol, &model.Contamination, &histogramsJSON, &model.Threshold,
		&model.Fingerprint, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	if len(histogramsJSON) > 0 {
		if err := json.Unmarshal(histogramsJSON, &model.Histograms); err != nil {
			return nil, fmt.Errorf("failed to unmarshal histograms: %w", err)
		}
	}
	if createdAt.Valid {
		model.CreatedAt = core.NewTimestamp(createdAt.Time)
	}
	return &model, nil
}
