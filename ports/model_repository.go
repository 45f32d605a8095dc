package ports

import (
	"context"

	"goutlier/domain/core"
	"goutlier/domain/detection"
)

// ModelRepository persists fitted detector models
type ModelRepository interface {
	Create(ctx context.Context, model *detection.Model) error
	GetByID(ctx context.Context, id core.ModelID) (*detection.Model, error)
	List(ctx context.Context, limit, offset int) ([]*detection.Model, error)
	Delete(ctx context.Context, id core.ModelID) error
}
