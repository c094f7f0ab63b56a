package migrations

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"expense_tracker/internal/authz"
	"expense_tracker/internal/models"
	"expense_tracker/internal/seed"
)

func openBareDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	return gdb
}

func count(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestUpAppliesFullChain(t *testing.T) {
	db := openBareDB(t)

	applied, err := Up(db)
	require.NoError(t, err)
	assert.Equal(t, len(All), applied)

	wantPerms := int64(len(authz.Features) * len(authz.Actions))
	assert.Equal(t, int64(len(authz.Features)), count(t, db, &models.Feature{}))
	assert.Equal(t, int64(len(authz.Actions)), count(t, db, &models.Action{}))
	assert.Equal(t, wantPerms, count(t, db, &models.Permission{}))

	assert.EqualValues(t, 3, count(t, db, &models.Role{}))
	assert.EqualValues(t, 4, count(t, db, &models.PaymentMethod{}))

	var admin models.User
	require.NoError(t, db.Where("email = ?", seed.DefaultAdminEmail).First(&admin).Error)
	var adminGrants int64
	require.NoError(t, db.Model(&models.UserPermission{}).
		Where("user_id = ?", admin.ID).Count(&adminGrants).Error)
	assert.Equal(t, wantPerms, adminGrants)

	var key models.APIKey
	require.NoError(t, db.First(&key).Error)
	assert.True(t, key.IsActive)
	var keyGrants int64
	require.NoError(t, db.Model(&models.APIKeyPermission{}).
		Where("api_key_id = ?", key.ID).Count(&keyGrants).Error)
	assert.Equal(t, wantPerms, keyGrants)

	entries, err := Status(db)
	require.NoError(t, err)
	require.Len(t, entries, len(All))
	for _, e := range entries {
		assert.True(t, e.Applied, "migration %s should be applied", e.ID)
	}
}

func TestUpIsIdempotent(t *testing.T) {
	db := openBareDB(t)

	_, err := Up(db)
	require.NoError(t, err)
	perms := count(t, db, &models.Permission{})
	keys := count(t, db, &models.APIKey{})

	applied, err := Up(db)
	require.NoError(t, err)
	assert.Zero(t, applied)

	// Nothing reseeded on the second pass.
	assert.Equal(t, perms, count(t, db, &models.Permission{}))
	assert.Equal(t, keys, count(t, db, &models.APIKey{}))
}

func TestDownUnmarksIrreversibleSteps(t *testing.T) {
	db := openBareDB(t)

	_, err := Up(db)
	require.NoError(t, err)
	perms := count(t, db, &models.Permission{})

	// The two newest steps are the enum syncs: both irreversible. Down must
	// unmark them without touching the catalog.
	reverted, err := Down(db, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, reverted)
	assert.Equal(t, perms, count(t, db, &models.Permission{}))

	entries, err := Status(db)
	require.NoError(t, err)
	for _, e := range entries[:len(entries)-2] {
		assert.True(t, e.Applied, "migration %s should still be applied", e.ID)
	}
	for _, e := range entries[len(entries)-2:] {
		assert.False(t, e.Applied, "migration %s should be pending", e.ID)
	}

	// A subsequent up re-applies only the unmarked steps.
	applied, err := Up(db)
	require.NoError(t, err)
	assert.Equal(t, 2, applied)
	assert.Equal(t, perms, count(t, db, &models.Permission{}))
}

func TestDownRevertsSeedSteps(t *testing.T) {
	db := openBareDB(t)

	_, err := Up(db)
	require.NoError(t, err)

	// Walk back past the API key seed (irreversible, key row survives), the
	// admin grants, and the payment method seed.
	reverted, err := Down(db, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, reverted)

	assert.EqualValues(t, 1, count(t, db, &models.APIKey{}))
	assert.EqualValues(t, 0, count(t, db, &models.PaymentMethod{}))

	var admin models.User
	require.NoError(t, db.Where("email = ?", seed.DefaultAdminEmail).First(&admin).Error)
	var adminGrants int64
	require.NoError(t, db.Model(&models.UserPermission{}).
		Where("user_id = ?", admin.ID).Count(&adminGrants).Error)
	assert.Zero(t, adminGrants)
}

func TestDownUpRoundTrip(t *testing.T) {
	db := openBareDB(t)

	_, err := Up(db)
	require.NoError(t, err)

	// Walking back past the role/admin seed keeps the roles (step rollback
	// leaves them for later users); re-applying must find them, not reinsert.
	reverted, err := Down(db, 6)
	require.NoError(t, err)
	require.Equal(t, 6, reverted)

	applied, err := Up(db)
	require.NoError(t, err)
	assert.Equal(t, 6, applied)

	assert.EqualValues(t, 3, count(t, db, &models.Role{}))
	assert.EqualValues(t, 4, count(t, db, &models.PaymentMethod{}))

	var admins int64
	require.NoError(t, db.Model(&models.User{}).
		Where("email = ?", seed.DefaultAdminEmail).Count(&admins).Error)
	assert.EqualValues(t, 1, admins)
}

func TestDownOnEmptyDatabase(t *testing.T) {
	db := openBareDB(t)

	reverted, err := Down(db, 3)
	require.NoError(t, err)
	assert.Zero(t, reverted)
}

func TestStatusBeforeFirstRun(t *testing.T) {
	db := openBareDB(t)

	entries, err := Status(db)
	require.NoError(t, err)
	require.Len(t, entries, len(All))
	for _, e := range entries {
		assert.False(t, e.Applied)
	}
}
