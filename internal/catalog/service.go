package catalog

import (
	"context"
	"errors"

	"wefarm/internal/apperr"

	"gorm.io/gorm"
)

// Lookup is the read-only catalog interface the tracking core depends on.
type Lookup struct {
	DB *gorm.DB
}

func (l *Lookup) Get(ctx context.Context, id uint64) (*Plant, error) {
	var p Plant
	if err := l.DB.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "plant not found")
		}
		return nil, apperr.ClassifyStorage("failed to load plant", err)
	}
	return &p, nil
}

func (l *Lookup) List(ctx context.Context) ([]Plant, error) {
	plants := make([]Plant, 0)
	if err := l.DB.WithContext(ctx).Order("id asc").Find(&plants).Error; err != nil {
		return nil, apperr.ClassifyStorage("failed to list plants", err)
	}
	return plants, nil
}
