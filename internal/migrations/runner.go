package migrations

import (
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"
)

// Migration is one forward step in the revision chain. A nil Rollback marks
// the step irreversible: `down` logs a skip diagnostic but still unmarks the
// revision. Catalog-sync steps are irreversible on purpose — removed rows'
// identifiers cannot be re-derived and reinserting would resurrect stale state.
type Migration struct {
	ID       string
	Label    string
	Migrate  func(tx *gorm.DB) error
	Rollback func(tx *gorm.DB) error
}

// SchemaMigration is the bookkeeping row for an applied revision.
type SchemaMigration struct {
	ID        string `gorm:"primaryKey;size:32"`
	AppliedAt time.Time
}

func (SchemaMigration) TableName() string { return "schema_migrations" }

// Up applies every pending migration in chain order, each inside its own
// transaction. Returns the number applied. A failing step aborts the run with
// nothing committed for that step.
func Up(db *gorm.DB) (int, error) {
	if err := db.AutoMigrate(&SchemaMigration{}); err != nil {
		return 0, err
	}

	applied, err := appliedIDs(db)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, m := range All {
		if _, ok := applied[m.ID]; ok {
			continue
		}
		m := m
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := m.Migrate(tx); err != nil {
				return err
			}
			return tx.Create(&SchemaMigration{ID: m.ID, AppliedAt: time.Now()}).Error
		})
		if err != nil {
			return count, fmt.Errorf("migration %s (%s): %w", m.ID, m.Label, err)
		}
		log.Printf("✅ applied migration %s (%s)", m.ID, m.Label)
		count++
	}
	return count, nil
}

// Down reverts the newest n applied migrations. Irreversible steps are
// skipped with a diagnostic but still unmarked so the chain stays consistent.
func Down(db *gorm.DB, n int) (int, error) {
	if !db.Migrator().HasTable("schema_migrations") {
		return 0, nil
	}
	applied, err := appliedIDs(db)
	if err != nil {
		return 0, err
	}

	count := 0
	for i := len(All) - 1; i >= 0 && count < n; i-- {
		m := All[i]
		if _, ok := applied[m.ID]; !ok {
			continue
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			if m.Rollback == nil {
				log.Printf("⚠️ migration %s (%s) is irreversible, skipping rollback", m.ID, m.Label)
			} else if err := m.Rollback(tx); err != nil {
				return err
			}
			return tx.Delete(&SchemaMigration{ID: m.ID}).Error
		})
		if err != nil {
			return count, fmt.Errorf("rollback %s (%s): %w", m.ID, m.Label, err)
		}
		log.Printf("↩️ reverted migration %s (%s)", m.ID, m.Label)
		count++
	}
	return count, nil
}

// StatusEntry pairs one chain step with whether it has been applied.
type StatusEntry struct {
	ID      string
	Label   string
	Applied bool
}

// Status lists the chain in order with applied flags.
func Status(db *gorm.DB) ([]StatusEntry, error) {
	applied := map[string]struct{}{}
	if db.Migrator().HasTable("schema_migrations") {
		var err error
		applied, err = appliedIDs(db)
		if err != nil {
			return nil, err
		}
	}
	entries := make([]StatusEntry, 0, len(All))
	for _, m := range All {
		_, ok := applied[m.ID]
		entries = append(entries, StatusEntry{ID: m.ID, Label: m.Label, Applied: ok})
	}
	return entries, nil
}

func appliedIDs(db *gorm.DB) (map[string]struct{}, error) {
	var rows []SchemaMigration
	if err := db.Find(&rows).Error; err != nil {
		return nil, err
	}
	ids := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		ids[r.ID] = struct{}{}
	}
	return ids, nil
}
