package category

import (
	"testing"

	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/apperr"
	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/models"
	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateWithParent(t *testing.T) {
	db := testutil.OpenDB(t)
	s := NewService(db)
	user := testutil.SeedUser(t, db, "a@example.com")

	parent, err := s.Create(user.ID, Input{Name: "Food", Type: models.TypeExpense})
	require.NoError(t, err)
	assert.Equal(t, "📁", parent.Icon)
	assert.Equal(t, "#808080", parent.Color)

	child, err := s.Create(user.ID, Input{
		Name: "Restaurants", Type: models.TypeExpense, ParentID: &parent.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, child.ParentID)
	assert.Equal(t, parent.ID, *child.ParentID)

	// another user's category cannot be a parent
	other := testutil.SeedUser(t, db, "b@example.com")
	_, err = s.Create(other.ID, Input{
		Name: "Dining", Type: models.TypeExpense, ParentID: &parent.ID,
	})
	assert.True(t, apperr.IsNotFound(err))
}

func TestReparentCycleRejected(t *testing.T) {
	db := testutil.OpenDB(t)
	s := NewService(db)
	user := testutil.SeedUser(t, db, "a@example.com")

	a, err := s.Create(user.ID, Input{Name: "A", Type: models.TypeExpense})
	require.NoError(t, err)
	b, err := s.Create(user.ID, Input{Name: "B", Type: models.TypeExpense, ParentID: &a.ID})
	require.NoError(t, err)
	c, err := s.Create(user.ID, Input{Name: "C", Type: models.TypeExpense, ParentID: &b.ID})
	require.NoError(t, err)

	// a under its own grandchild closes the loop
	err = s.Reparent(user.ID, a.ID, &c.ID)
	assert.True(t, apperr.IsValidation(err))

	// a under itself
	err = s.Reparent(user.ID, a.ID, &a.ID)
	assert.True(t, apperr.IsValidation(err))

	// sideways move is fine
	require.NoError(t, s.Reparent(user.ID, c.ID, &a.ID))

	// back to the top level
	require.NoError(t, s.Reparent(user.ID, c.ID, nil))
	got, err := s.Get(user.ID, c.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ParentID)
}

func TestSoftDeleteFlattensChildren(t *testing.T) {
	db := testutil.OpenDB(t)
	s := NewService(db)
	user := testutil.SeedUser(t, db, "a@example.com")

	top, err := s.Create(user.ID, Input{Name: "Top", Type: models.TypeExpense})
	require.NoError(t, err)
	mid, err := s.Create(user.ID, Input{Name: "Mid", Type: models.TypeExpense, ParentID: &top.ID})
	require.NoError(t, err)
	leaf, err := s.Create(user.ID, Input{Name: "Leaf", Type: models.TypeExpense, ParentID: &mid.ID})
	require.NoError(t, err)

	require.NoError(t, s.SoftDelete(user.ID, mid.ID))

	// the leaf hops one level up, onto the deleted node's parent
	got, err := s.Get(user.ID, leaf.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ParentID)
	assert.Equal(t, top.ID, *got.ParentID)

	// the deleted node survives as an inactive row
	deleted, err := s.Get(user.ID, mid.ID)
	require.NoError(t, err)
	assert.False(t, deleted.IsActive)

	require.NoError(t, s.Restore(user.ID, mid.ID))
	restored, err := s.Get(user.ID, mid.ID)
	require.NoError(t, err)
	assert.True(t, restored.IsActive)
}

func TestSoftDeleteGuards(t *testing.T) {
	db := testutil.OpenDB(t)
	s := NewService(db)
	user := testutil.SeedUser(t, db, "a@example.com")

	require.NoError(t, SeedDefaults(db, user.ID))
	var system models.Category
	require.NoError(t, db.Where("user_id = ? AND is_system = ?", user.ID, true).First(&system).Error)
	assert.True(t, apperr.IsConflict(s.SoftDelete(user.ID, system.ID)))

	// a category with transactions cannot be deleted
	cat, err := s.Create(user.ID, Input{Name: "Food", Type: models.TypeExpense})
	require.NoError(t, err)
	acc := testutil.SeedAccount(t, db, user.ID, "Checking", decimal.NewFromInt(100))
	txn := models.Transaction{
		UserID:     user.ID,
		AccountID:  acc.ID,
		CategoryID: cat.ID,
		Amount:     decimal.NewFromInt(10),
		Type:       models.TypeExpense,
	}
	require.NoError(t, db.Create(&txn).Error)
	assert.True(t, apperr.IsConflict(s.SoftDelete(user.ID, cat.ID)))
}

func TestSystemCategoriesImmutable(t *testing.T) {
	db := testutil.OpenDB(t)
	s := NewService(db)
	user := testutil.SeedUser(t, db, "a@example.com")

	require.NoError(t, SeedDefaults(db, user.ID))

	var cats []models.Category
	require.NoError(t, db.Where("user_id = ?", user.ID).Find(&cats).Error)
	assert.Len(t, cats, 14)

	var system models.Category
	require.NoError(t, db.Where("user_id = ? AND is_system = ?", user.ID, true).First(&system).Error)

	_, err := s.Update(user.ID, system.ID, Input{Name: "Renamed", Type: system.Type})
	assert.True(t, apperr.IsConflict(err))

	err = s.Reparent(user.ID, system.ID, nil)
	assert.True(t, apperr.IsConflict(err))
}

func TestListByType(t *testing.T) {
	db := testutil.OpenDB(t)
	s := NewService(db)
	user := testutil.SeedUser(t, db, "a@example.com")

	require.NoError(t, SeedDefaults(db, user.ID))

	income, err := s.ListByType(user.ID, models.TypeIncome, true)
	require.NoError(t, err)
	assert.Len(t, income, 5)

	expense, err := s.ListByType(user.ID, models.TypeExpense, true)
	require.NoError(t, err)
	assert.Len(t, expense, 9)
}
