package tracking_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"wefarm/internal/apperr"
	"wefarm/internal/catalog"
	"wefarm/internal/db"
	"wefarm/internal/tracking"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// Single connection keeps the in-memory database alive and serializes
	// concurrent transactions.
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrateAndIndexes(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

func seedPlant(t *testing.T, gdb *gorm.DB, name string) uint64 {
	t.Helper()
	p := catalog.Plant{
		Name:      name,
		Duration:  "30 days",
		ImagePath: "/img/" + name + ".png",
		Guide:     "water daily",
	}
	if err := gdb.Create(&p).Error; err != nil {
		t.Fatalf("seed plant: %v", err)
	}
	return p.ID
}

func TestCreateStartsTracking(t *testing.T) {
	gdb := testDB(t)
	plantID := seedPlant(t, gdb, "tomato")
	reg := &tracking.Registry{DB: gdb}

	before := time.Now()
	d, err := reg.Create(context.Background(), 1, plantID, "balcony tomatoes")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if d.Status != tracking.StatusTracking {
		t.Fatalf("expected status tracking, got %q", d.Status)
	}
	if d.Progress != 0 {
		t.Fatalf("expected progress 0, got %v", d.Progress)
	}
	if d.StartDate.Before(before.Add(-time.Second)) {
		t.Fatalf("start_date not set: %v", d.StartDate)
	}
	if d.EndDate != nil {
		t.Fatalf("expected no end_date on creation")
	}
	if d.PlantName != "tomato" || d.Duration != "30 days" || d.Guide != "water daily" {
		t.Fatalf("catalog join missing: %+v", d)
	}
}

func TestCreateUnknownPlant(t *testing.T) {
	gdb := testDB(t)
	reg := &tracking.Registry{DB: gdb}

	_, err := reg.Create(context.Background(), 1, 999, "ghost plant")
	if apperr.KindOf(err) != apperr.NotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestCreateDuplicateActiveConflicts(t *testing.T) {
	gdb := testDB(t)
	plantID := seedPlant(t, gdb, "basil")
	reg := &tracking.Registry{DB: gdb}

	if _, err := reg.Create(context.Background(), 7, plantID, "first"); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := reg.Create(context.Background(), 7, plantID, "second")
	if apperr.KindOf(err) != apperr.Conflict {
		t.Fatalf("expected Conflict, got %v", err)
	}

	// Other users and other plants are unaffected.
	if _, err := reg.Create(context.Background(), 8, plantID, "other user"); err != nil {
		t.Fatalf("other user create: %v", err)
	}
}

func TestCreateConcurrentDuplicate(t *testing.T) {
	gdb := testDB(t)
	plantID := seedPlant(t, gdb, "chili")
	reg := &tracking.Registry{DB: gdb}

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = reg.Create(context.Background(), 3, plantID, "race")
		}(i)
	}
	wg.Wait()

	ok, conflicts := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case apperr.KindOf(err) == apperr.Conflict:
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || conflicts != n-1 {
		t.Fatalf("expected 1 success / %d conflicts, got %d / %d", n-1, ok, conflicts)
	}

	var count int64
	gdb.Model(&tracking.Instance{}).
		Where("user_id = ? and plant_id = ? and status = ?", 3, plantID, tracking.StatusTracking).
		Count(&count)
	if count != 1 {
		t.Fatalf("expected exactly 1 active row, got %d", count)
	}
}

func TestCreateAllowedAfterTerminal(t *testing.T) {
	gdb := testDB(t)
	plantID := seedPlant(t, gdb, "mint")
	reg := &tracking.Registry{DB: gdb}

	d, err := reg.Create(context.Background(), 5, plantID, "round one")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	st := tracking.StatusCompleted
	if err := reg.Update(context.Background(), d.ID, tracking.Patch{Status: &st}); err != nil {
		t.Fatalf("complete: %v", err)
	}

	if _, err := reg.Create(context.Background(), 5, plantID, "round two"); err != nil {
		t.Fatalf("expected re-create after completion to succeed, got %v", err)
	}
}

func TestUpdateTerminalDerivesEndDate(t *testing.T) {
	gdb := testDB(t)
	plantID := seedPlant(t, gdb, "sage")
	reg := &tracking.Registry{DB: gdb}

	d, err := reg.Create(context.Background(), 1, plantID, "x")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	before := time.Now()
	st := tracking.StatusCompleted
	if err := reg.Update(context.Background(), d.ID, tracking.Patch{Status: &st}); err != nil {
		t.Fatalf("update: %v", err)
	}

	inst, err := reg.Get(context.Background(), d.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if inst.EndDate == nil {
		t.Fatalf("expected derived end_date")
	}
	if inst.EndDate.Before(before.Add(-time.Second)) {
		t.Fatalf("derived end_date %v earlier than call time %v", inst.EndDate, before)
	}
}

func TestUpdateExplicitEndDatePreserved(t *testing.T) {
	gdb := testDB(t)
	plantID := seedPlant(t, gdb, "rosemary")
	reg := &tracking.Registry{DB: gdb}

	d, err := reg.Create(context.Background(), 1, plantID, "x")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	explicit := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	st := tracking.StatusFailed
	err = reg.Update(context.Background(), d.ID, tracking.Patch{Status: &st, EndDate: &explicit})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	inst, err := reg.Get(context.Background(), d.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if inst.EndDate == nil || !inst.EndDate.Equal(explicit) {
		t.Fatalf("expected explicit end_date %v, got %v", explicit, inst.EndDate)
	}
}

func TestUpdatePartialIsolation(t *testing.T) {
	gdb := testDB(t)
	plantID := seedPlant(t, gdb, "thyme")
	reg := &tracking.Registry{DB: gdb}

	d, err := reg.Create(context.Background(), 1, plantID, "x")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	notes := "looking healthy"
	targets := []string{"t1", "t2"}
	err = reg.Update(context.Background(), d.ID, tracking.Patch{Notes: &notes, CompletedTargets: &targets})
	if err != nil {
		t.Fatalf("seed update: %v", err)
	}

	progress := 0.5
	if err := reg.Update(context.Background(), d.ID, tracking.Patch{Progress: &progress}); err != nil {
		t.Fatalf("progress update: %v", err)
	}

	inst, err := reg.Get(context.Background(), d.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if inst.Progress != 0.5 {
		t.Fatalf("expected progress 0.5, got %v", inst.Progress)
	}
	if inst.Notes != "looking healthy" {
		t.Fatalf("notes clobbered: %q", inst.Notes)
	}
	if inst.Status != tracking.StatusTracking {
		t.Fatalf("status clobbered: %q", inst.Status)
	}
	var got []string
	if err := json.Unmarshal(inst.CompletedTargets, &got); err != nil || len(got) != 2 {
		t.Fatalf("completed_targets clobbered: %s (%v)", inst.CompletedTargets, err)
	}
}

func TestUpdateNoFields(t *testing.T) {
	gdb := testDB(t)
	reg := &tracking.Registry{DB: gdb}

	err := reg.Update(context.Background(), 1, tracking.Patch{})
	if apperr.KindOf(err) != apperr.Validation {
		t.Fatalf("expected Validation, got %v", err)
	}
}

func TestUpdateUnknownTracker(t *testing.T) {
	gdb := testDB(t)
	reg := &tracking.Registry{DB: gdb}

	progress := 0.3
	err := reg.Update(context.Background(), 12345, tracking.Patch{Progress: &progress})
	if apperr.KindOf(err) != apperr.NotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestUpdateTerminalIsAbsorbing(t *testing.T) {
	gdb := testDB(t)
	plantID := seedPlant(t, gdb, "oregano")
	reg := &tracking.Registry{DB: gdb}

	d, err := reg.Create(context.Background(), 1, plantID, "x")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	st := tracking.StatusCanceled
	if err := reg.Update(context.Background(), d.ID, tracking.Patch{Status: &st}); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	back := tracking.StatusTracking
	err = reg.Update(context.Background(), d.ID, tracking.Patch{Status: &back})
	if apperr.KindOf(err) != apperr.Conflict {
		t.Fatalf("expected Conflict on reopen, got %v", err)
	}

	other := tracking.StatusCompleted
	err = reg.Update(context.Background(), d.ID, tracking.Patch{Status: &other})
	if apperr.KindOf(err) != apperr.Conflict {
		t.Fatalf("expected Conflict between terminal states, got %v", err)
	}

	// Non-status fields stay editable after closure.
	notes := "post-mortem"
	if err := reg.Update(context.Background(), d.ID, tracking.Patch{Notes: &notes}); err != nil {
		t.Fatalf("notes after closure: %v", err)
	}
}

func TestListDefaultOrdering(t *testing.T) {
	gdb := testDB(t)
	reg := &tracking.Registry{DB: gdb}
	pa := seedPlant(t, gdb, "a")
	pb := seedPlant(t, gdb, "b")
	pc := seedPlant(t, gdb, "c")

	mk := func(plantID uint64, start time.Time, status tracking.Status) uint64 {
		d, err := reg.Create(context.Background(), 1, plantID, "x")
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if err := gdb.Model(&tracking.Instance{}).Where("id = ?", d.ID).
			Update("start_date", start).Error; err != nil {
			t.Fatalf("backdate: %v", err)
		}
		if status != tracking.StatusTracking {
			if err := reg.Update(context.Background(), d.ID, tracking.Patch{Status: &status}); err != nil {
				t.Fatalf("status: %v", err)
			}
		}
		return d.ID
	}

	base := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	oldTracking := mk(pa, base, tracking.StatusTracking)
	newCompleted := mk(pb, base.AddDate(0, 0, 10), tracking.StatusCompleted)
	oldFailed := mk(pc, base.AddDate(0, 0, 5), tracking.StatusFailed)

	rows, err := reg.List(context.Background(), 1, nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	wantOrder := []uint64{oldTracking, newCompleted, oldFailed}
	for i, want := range wantOrder {
		if rows[i].ID != want {
			t.Fatalf("row %d: expected id %d, got %d", i, want, rows[i].ID)
		}
	}
	if rows[0].PlantName != "a" {
		t.Fatalf("catalog join missing in list: %+v", rows[0])
	}
}

func TestListStatusFilter(t *testing.T) {
	gdb := testDB(t)
	reg := &tracking.Registry{DB: gdb}
	pa := seedPlant(t, gdb, "a")
	pb := seedPlant(t, gdb, "b")
	pc := seedPlant(t, gdb, "c")

	mk := func(plantID uint64, status tracking.Status) {
		d, err := reg.Create(context.Background(), 2, plantID, "x")
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if status != tracking.StatusTracking {
			if err := reg.Update(context.Background(), d.ID, tracking.Patch{Status: &status}); err != nil {
				t.Fatalf("status: %v", err)
			}
		}
	}
	mk(pa, tracking.StatusTracking)
	mk(pb, tracking.StatusCompleted)
	mk(pc, tracking.StatusFailed)

	statuses, err := tracking.ParseStatusSet("completed,failed")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	rows, err := reg.List(context.Background(), 2, statuses)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	for _, row := range rows {
		if row.Status == tracking.StatusTracking {
			t.Fatalf("tracking row leaked through filter: %+v", row)
		}
	}
}

func TestParseStatusSetRejectsUnknown(t *testing.T) {
	if _, err := tracking.ParseStatusSet("completed,bogus"); apperr.KindOf(err) != apperr.Validation {
		t.Fatalf("expected Validation, got %v", err)
	}
}
