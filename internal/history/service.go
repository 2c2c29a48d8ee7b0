package history

import (
	"context"
	"time"

	"wefarm/internal/apperr"
	"wefarm/internal/tracking"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Reconciler keeps one history record per tracking instance in sync.
type Reconciler struct {
	DB *gorm.DB
}

type SyncInput struct {
	UserPlantID uint64
	UserID      uint64
	PlantName   string
	StartDate   time.Time
	EndDate     *time.Time
	Status      tracking.Status
	Notes       string
}

// Sync upserts the record keyed by user_plant_id. It is safe to call
// redundantly: repeated calls update the single existing row. The returned
// bool reports whether a new row was created.
func (r *Reconciler) Sync(ctx context.Context, in SyncInput) (bool, error) {
	created := false

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Record{}).
			Where("user_plant_id = ?", in.UserPlantID).
			Updates(map[string]any{
				"plant_name": in.PlantName,
				"start_date": in.StartDate,
				"end_date":   in.EndDate,
				"status":     in.Status,
				"notes":      in.Notes,
			})
		if res.Error != nil {
			return apperr.ClassifyStorage("failed to update history record", res.Error)
		}
		if res.RowsAffected > 0 {
			return nil
		}

		// No row yet. ON CONFLICT DO UPDATE guards the insert against a
		// concurrent sync for the same instance.
		rec := Record{
			UserPlantID: in.UserPlantID,
			UserID:      in.UserID,
			PlantName:   in.PlantName,
			StartDate:   in.StartDate,
			EndDate:     in.EndDate,
			Status:      in.Status,
			Notes:       in.Notes,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_plant_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"plant_name", "start_date", "end_date", "status", "notes",
			}),
		}).Create(&rec).Error; err != nil {
			return apperr.ClassifyStorage("failed to create history record", err)
		}
		created = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

// Query returns the joined read model, optionally filtered by user.
// Unresolved records (end_date null) sort first, the rest by end_date then
// created_at descending; the null placement is explicit so every dialect
// orders the same way.
func (r *Reconciler) Query(ctx context.Context, userID *uint64) ([]Entry, error) {
	sql := `
select ph.id, ph.user_plant_id, ph.user_id, ph.plant_name, ph.start_date,
       ph.end_date, ph.status, ph.notes, ph.created_at,
       ti.progress, p.duration, p.image_path, u.username as author
from history_records ph
left join tracking_instances ti on ti.id = ph.user_plant_id
left join plants p on p.id = ti.plant_id
left join users u on u.id = ph.user_id`

	args := []any{}
	if userID != nil {
		sql += `
where ph.user_id = ?`
		args = append(args, *userID)
	}
	sql += `
order by (ph.end_date is null) desc, ph.end_date desc, ph.created_at desc, ph.id desc`

	entries := make([]Entry, 0)
	if err := r.DB.WithContext(ctx).Raw(sql, args...).Scan(&entries).Error; err != nil {
		return nil, apperr.ClassifyStorage("failed to query history", err)
	}
	return entries, nil
}
