package tracking

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"wefarm/internal/apperr"
	"wefarm/internal/catalog"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Registry owns the set of tracking instances and their lifecycle.
type Registry struct {
	DB *gorm.DB
}

// Create starts a new attempt. The at-most-one-active-instance-per
// (user, plant) invariant is enforced by the partial unique index on
// tracking_instances, so two concurrent calls cannot both succeed.
func (r *Registry) Create(ctx context.Context, userID, plantID uint64, name string) (*Detail, error) {
	var out Detail

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p catalog.Plant
		if err := tx.First(&p, plantID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.New(apperr.NotFound, "plant not found")
			}
			return apperr.ClassifyStorage("failed to load plant", err)
		}

		inst := Instance{
			UserID:    userID,
			PlantID:   plantID,
			Name:      name,
			StartDate: time.Now(),
			Status:    StatusTracking,
			Progress:  0,
		}
		if err := tx.Create(&inst).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.New(apperr.Conflict, "plant already being tracked")
			}
			return apperr.ClassifyStorage("failed to create tracking instance", err)
		}

		out = Detail{
			ID:               inst.ID,
			UserID:           inst.UserID,
			PlantID:          inst.PlantID,
			Name:             inst.Name,
			StartDate:        inst.StartDate,
			EndDate:          inst.EndDate,
			Status:           inst.Status,
			Progress:         inst.Progress,
			Notes:            inst.Notes,
			CompletedTargets: inst.CompletedTargets,
			TargetProblems:   inst.TargetProblems,
			PlantName:        p.Name,
			Duration:         p.Duration,
			ImagePath:        p.ImagePath,
			Guide:            p.Guide,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns the user's instances joined with catalog metadata. Without a
// status filter, active instances come first, the remainder by start date
// descending. With a filter, ordering is start date descending.
func (r *Registry) List(ctx context.Context, userID uint64, statuses []Status) ([]Detail, error) {
	q := r.DB.WithContext(ctx).
		Table("tracking_instances ti").
		Select("ti.*, p.name as plant_name, p.duration, p.image_path, p.guide").
		Joins("join plants p on p.id = ti.plant_id").
		Where("ti.user_id = ?", userID)

	if len(statuses) > 0 {
		q = q.Where("ti.status in ?", statuses).
			Order("ti.start_date desc, ti.id desc")
	} else {
		q = q.Order("case when ti.status = 'tracking' then 0 else 1 end").
			Order("ti.start_date desc, ti.id desc")
	}

	rows := make([]Detail, 0)
	if err := q.Scan(&rows).Error; err != nil {
		return nil, apperr.ClassifyStorage("failed to list tracking instances", err)
	}
	return rows, nil
}

// Patch carries a partial update; nil fields are left untouched.
type Patch struct {
	Progress         *float64
	Status           *Status
	EndDate          *time.Time
	Notes            *string
	CompletedTargets *[]string
	TargetProblems   *[]string
}

func (p Patch) Empty() bool {
	return p.Progress == nil && p.Status == nil && p.EndDate == nil &&
		p.Notes == nil && p.CompletedTargets == nil && p.TargetProblems == nil
}

// Update applies a partial update to one instance. Setting a terminal status
// without an explicit end date derives end_date from the clock. Terminal
// states are absorbing: a status change away from one fails with Conflict.
func (r *Registry) Update(ctx context.Context, trackerID uint64, p Patch) error {
	if p.Empty() {
		return apperr.New(apperr.Validation, "no fields to update")
	}
	if p.Status != nil && !p.Status.Valid() {
		return apperr.New(apperr.Validation, "invalid status")
	}

	updates := map[string]any{}
	if p.Progress != nil {
		updates["progress"] = *p.Progress
	}
	if p.Status != nil {
		updates["status"] = *p.Status
		if p.Status.Terminal() && p.EndDate == nil {
			updates["end_date"] = time.Now()
		}
	}
	if p.EndDate != nil {
		updates["end_date"] = *p.EndDate
	}
	if p.Notes != nil {
		updates["notes"] = *p.Notes
	}
	if p.CompletedTargets != nil {
		updates["completed_targets"] = toJSON(*p.CompletedTargets)
	}
	if p.TargetProblems != nil {
		updates["target_problems"] = toJSON(*p.TargetProblems)
	}

	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cur Instance
		if err := tx.First(&cur, trackerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.New(apperr.NotFound, "tracking instance not found")
			}
			return apperr.ClassifyStorage("failed to load tracking instance", err)
		}

		if p.Status != nil && cur.Status.Terminal() && *p.Status != cur.Status {
			return apperr.New(apperr.Conflict, "attempt already concluded")
		}

		res := tx.Model(&Instance{}).Where("id = ?", trackerID).Updates(updates)
		if res.Error != nil {
			return apperr.ClassifyStorage("failed to update tracking instance", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.New(apperr.NotFound, "tracking instance not found")
		}
		return nil
	})
}

// Get returns one instance by id.
func (r *Registry) Get(ctx context.Context, trackerID uint64) (*Instance, error) {
	var inst Instance
	if err := r.DB.WithContext(ctx).First(&inst, trackerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "tracking instance not found")
		}
		return nil, apperr.ClassifyStorage("failed to load tracking instance", err)
	}
	return &inst, nil
}

func toJSON(v []string) datatypes.JSON {
	if v == nil {
		v = []string{}
	}
	b, _ := json.Marshal(v)
	return datatypes.JSON(b)
}
