package repository_test

import (
	"context"
	"testing"

	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/model"
	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/repository"
	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestSubalmacen_SinglePrincipal(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.Subalmacen(t, db, "Principal", true)

	err := db.Create(&model.Subalmacen{Nombre: "Otro", EsPrincipal: true}).Error
	assert.Error(t, err, "partial unique index allows one main warehouse")
}

func TestSubalmacen_MarcarPrincipalTx(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewSubalmacenRepository(db)
	a := testutil.Subalmacen(t, db, "A", true)
	b := testutil.Subalmacen(t, db, "B", false)

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return repo.MarcarPrincipalTx(tx, b.ID)
	}))

	p, err := repo.FindPrincipal(context.Background())
	require.NoError(t, err)
	assert.Equal(t, b.ID, p.ID)

	old, err := repo.FindByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.False(t, old.EsPrincipal)
}

func TestSubalmacen_UpdateKeepsFlag(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewSubalmacenRepository(db)
	a := testutil.Subalmacen(t, db, "A", true)

	a.Nombre = "Depósito central"
	a.EsPrincipal = false
	require.NoError(t, repo.Update(context.Background(), a))

	got, err := repo.FindByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Depósito central", got.Nombre)
	assert.True(t, got.EsPrincipal)
}
