package experience

import (
	"context"
	"time"

	"wefarm/internal/apperr"

	"gorm.io/gorm"
)

// Service is the experience collaborator: a write-after-completion sink with
// its own read surface. It is not part of the tracking lifecycle invariants.
type Service struct {
	DB *gorm.DB
}

type PublishInput struct {
	UserID     uint64
	PlantName  string
	StartDate  time.Time
	EndDate    time.Time
	Status     Outcome
	Experience string
}

func (s *Service) Publish(ctx context.Context, in PublishInput) (uint64, error) {
	exp := Experience{
		UserID:     in.UserID,
		PlantName:  in.PlantName,
		StartDate:  in.StartDate,
		EndDate:    in.EndDate,
		Status:     in.Status,
		Experience: in.Experience,
	}
	if err := s.DB.WithContext(ctx).Create(&exp).Error; err != nil {
		return 0, apperr.ClassifyStorage("failed to create experience", err)
	}
	return exp.ID, nil
}

type Filter struct {
	UserID    *uint64
	PlantName string
	Outcomes  []Outcome
}

func (s *Service) List(ctx context.Context, f Filter) ([]Entry, error) {
	q := s.DB.WithContext(ctx).
		Table("experiences pe").
		Select("pe.*, u.username as author").
		Joins("left join users u on u.id = pe.user_id")

	if f.UserID != nil {
		q = q.Where("pe.user_id = ?", *f.UserID)
	}
	if f.PlantName != "" {
		q = q.Where("pe.plant_name = ?", f.PlantName)
	}
	if len(f.Outcomes) > 0 {
		q = q.Where("pe.status in ?", f.Outcomes)
	}

	entries := make([]Entry, 0)
	if err := q.Order("pe.created_at desc, pe.id desc").Scan(&entries).Error; err != nil {
		return nil, apperr.ClassifyStorage("failed to list experiences", err)
	}
	return entries, nil
}

type Patch struct {
	PlantName  *string
	StartDate  *time.Time
	EndDate    *time.Time
	Status     *Outcome
	Experience *string
}

func (p Patch) Empty() bool {
	return p.PlantName == nil && p.StartDate == nil && p.EndDate == nil &&
		p.Status == nil && p.Experience == nil
}

func (s *Service) Update(ctx context.Context, id uint64, p Patch) error {
	if p.Empty() {
		return apperr.New(apperr.Validation, "no fields to update")
	}

	updates := map[string]any{}
	if p.PlantName != nil {
		updates["plant_name"] = *p.PlantName
	}
	if p.StartDate != nil {
		updates["start_date"] = *p.StartDate
	}
	if p.EndDate != nil {
		updates["end_date"] = *p.EndDate
	}
	if p.Status != nil {
		updates["status"] = *p.Status
	}
	if p.Experience != nil {
		updates["experience"] = *p.Experience
	}

	res := s.DB.WithContext(ctx).Model(&Experience{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return apperr.ClassifyStorage("failed to update experience", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.NotFound, "experience not found")
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, id uint64) error {
	res := s.DB.WithContext(ctx).Delete(&Experience{}, id)
	if res.Error != nil {
		return apperr.ClassifyStorage("failed to delete experience", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.NotFound, "experience not found")
	}
	return nil
}
