package db

import (
	"fmt"

	"wefarm/internal/catalog"
	"wefarm/internal/experience"
	"wefarm/internal/history"
	"wefarm/internal/tracking"
	"wefarm/internal/users"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect opens a Postgres connection. TranslateError is on so unique
// violations surface as gorm.ErrDuplicatedKey instead of driver errors.
func Connect(dsn string) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}
	return gdb, nil
}

func AutoMigrateAndIndexes(gdb *gorm.DB) error {
	// Tables
	if err := gdb.AutoMigrate(
		&users.User{},
		&catalog.Plant{},
		&tracking.Instance{},
		&history.Record{},
		&experience.Experience{},
	); err != nil {
		return err
	}

	// The at-most-one-active-instance invariant lives here: a partial unique
	// index makes concurrent creates for the same (user, plant) pair an
	// insert-if-absent, not a check-then-insert.
	if err := gdb.Exec(`
create unique index if not exists uq_tracking_active
on tracking_instances(user_id, plant_id)
where status = 'tracking';
`).Error; err != nil {
		return err
	}

	// Helpful indexes
	stmts := []string{
		`create index if not exists idx_tracking_user_status on tracking_instances(user_id, status);`,
		`create index if not exists idx_tracking_user_start on tracking_instances(user_id, start_date desc);`,
		`create index if not exists idx_history_user on history_records(user_id);`,
		`create index if not exists idx_history_end on history_records(end_date desc);`,
		`create index if not exists idx_experiences_user_created on experiences(user_id, created_at desc);`,
	}
	for _, s := range stmts {
		if err := gdb.Exec(s).Error; err != nil {
			return fmt.Errorf("index exec failed: %w (sql=%s)", err, s)
		}
	}

	return nil
}
