package authz

import (
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"expense_tracker/internal/models"
)

// catalogKind describes one reconciler-managed catalog table.
type catalogKind struct {
	table  string // catalog table name
	column string // FK column on permissions
}

var (
	featureKind = catalogKind{table: "features", column: "feature_id"}
	actionKind  = catalogKind{table: "actions", column: "action_id"}
)

// CatalogDiff reports the names a sync inserted and removed.
type CatalogDiff struct {
	Added   []string
	Removed []string
}

func (d CatalogDiff) Empty() bool { return len(d.Added) == 0 && len(d.Removed) == 0 }

// Result is the outcome of a full Reconcile run.
type Result struct {
	Features         CatalogDiff
	Actions          CatalogDiff
	PermissionsAdded int
}

// Reconciler converges the features/actions/permissions tables to the
// code-defined catalogs. A missing dependent table is an expected condition
// (some environments have not created every table yet) and skips that step
// with a diagnostic; any other database error propagates so the enclosing
// transaction rolls back without committing partial convergence.
type Reconciler struct {
	DB *gorm.DB
}

// Reconcile syncs both catalogs and then rebuilds the permission
// cross-product. Safe to re-run: with no catalog changes it is a no-op.
func (r Reconciler) Reconcile(features, actions []string) (Result, error) {
	var res Result
	var err error
	if res.Features, err = r.SyncFeatures(features); err != nil {
		return res, err
	}
	if res.Actions, err = r.SyncActions(actions); err != nil {
		return res, err
	}
	if res.PermissionsAdded, err = r.RebuildPermissions(); err != nil {
		return res, err
	}
	return res, nil
}

// SyncFeatures converges the features table to the given catalog names.
func (r Reconciler) SyncFeatures(names []string) (CatalogDiff, error) {
	return r.syncCatalog(featureKind, names)
}

// SyncActions converges the actions table to the given catalog names.
func (r Reconciler) SyncActions(names []string) (CatalogDiff, error) {
	return r.syncCatalog(actionKind, names)
}

func (r Reconciler) syncCatalog(kind catalogKind, names []string) (CatalogDiff, error) {
	var diff CatalogDiff
	if !r.DB.Migrator().HasTable(kind.table) {
		log.Printf("⚠️ %s table not present, skipping %s sync", kind.table, kind.table)
		return diff, nil
	}

	type row struct {
		ID   string
		Name string
	}
	var rows []row
	if err := r.DB.Table(kind.table).Select("id", "name").Order("name").Find(&rows).Error; err != nil {
		return diff, err
	}

	current := make(map[string]struct{}, len(rows))
	for _, rw := range rows {
		current[rw.Name] = struct{}{}
	}
	wanted := make(map[string]struct{}, len(names))
	for _, n := range names {
		wanted[n] = struct{}{}
	}

	// Remove rows no longer in the catalog, cascading through dependents first.
	for _, rw := range rows {
		if _, ok := wanted[rw.Name]; ok {
			continue
		}
		if err := r.removeCatalogRow(kind, rw.ID); err != nil {
			return diff, err
		}
		diff.Removed = append(diff.Removed, rw.Name)
		log.Printf("🗑️ removed from %s: %q (with related permissions)", kind.table, rw.Name)
	}

	// Insert missing rows, in catalog order, with fresh identifiers.
	now := time.Now()
	for _, name := range names {
		if _, ok := current[name]; ok {
			continue
		}
		rec := map[string]interface{}{
			"id":         uuid.NewString(),
			"name":       name,
			"created_at": now,
			"updated_at": now,
		}
		if err := r.DB.Table(kind.table).Create(rec).Error; err != nil {
			return diff, err
		}
		diff.Added = append(diff.Added, name)
	}
	if len(diff.Added) > 0 {
		log.Printf("➕ inserted into %s: %v", kind.table, diff.Added)
	}
	return diff, nil
}

// removeCatalogRow deletes one feature/action row and everything hanging off
// it, in dependency order: API-key grants, user grants, permissions, then the
// catalog row itself. Each dependent step is skipped when its table is absent.
func (r Reconciler) removeCatalogRow(kind catalogKind, id string) error {
	mig := r.DB.Migrator()
	havePerms := mig.HasTable("permissions")

	if havePerms && mig.HasTable("api_key_permissions") {
		if err := r.DB.Exec(
			"DELETE FROM api_key_permissions WHERE permission_id IN (SELECT id FROM permissions WHERE "+kind.column+" = ?)",
			id).Error; err != nil {
			return err
		}
	} else {
		log.Printf("⚠️ api_key_permissions or permissions table not present, skipping api_key_permissions cleanup")
	}

	if havePerms && mig.HasTable("user_permissions") {
		if err := r.DB.Exec(
			"DELETE FROM user_permissions WHERE permission_id IN (SELECT id FROM permissions WHERE "+kind.column+" = ?)",
			id).Error; err != nil {
			return err
		}
	} else {
		log.Printf("⚠️ user_permissions or permissions table not present, skipping user_permissions cleanup")
	}

	if havePerms {
		if err := r.DB.Exec("DELETE FROM permissions WHERE "+kind.column+" = ?", id).Error; err != nil {
			return err
		}
	} else {
		log.Printf("⚠️ permissions table not present, skipping permissions deletion")
	}

	return r.DB.Exec("DELETE FROM "+kind.table+" WHERE id = ?", id).Error
}

// RebuildPermissions inserts the missing pairs of the live feature × action
// cross-product. Pairs already present are left untouched; stale pairs were
// already removed by the catalog cascades.
func (r Reconciler) RebuildPermissions() (int, error) {
	mig := r.DB.Migrator()
	if !mig.HasTable("permissions") || !mig.HasTable("features") || !mig.HasTable("actions") {
		log.Printf("⚠️ permission tables not present, skipping permission rebuild")
		return 0, nil
	}

	var features []models.Feature
	if err := r.DB.Order("name").Find(&features).Error; err != nil {
		return 0, err
	}
	var actions []models.Action
	if err := r.DB.Order("name").Find(&actions).Error; err != nil {
		return 0, err
	}
	var existing []models.Permission
	if err := r.DB.Find(&existing).Error; err != nil {
		return 0, err
	}
	have := make(map[string]struct{}, len(existing))
	for _, p := range existing {
		have[p.FeatureID+"|"+p.ActionID] = struct{}{}
	}

	inserted := 0
	for _, f := range features {
		for _, a := range actions {
			if _, ok := have[f.ID+"|"+a.ID]; ok {
				continue
			}
			p := models.Permission{ID: uuid.NewString(), FeatureID: f.ID, ActionID: a.ID}
			if err := r.DB.Create(&p).Error; err != nil {
				return inserted, err
			}
			inserted++
		}
	}
	if inserted > 0 {
		log.Printf("➕ inserted %d permissions", inserted)
	}
	return inserted, nil
}
