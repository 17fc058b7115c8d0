package repository_test

import (
	"context"
	"testing"

	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/repository"
	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestDecrementarTx_OnlyWhenEnoughStock(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewInventarioRepository(db)
	main := testutil.Subalmacen(t, db, "Principal", true)
	p := testutil.Producto(t, db, "A1", "10.00", 0)
	testutil.Stock(t, db, p.ID, main.ID, 5)

	ok, err := repo.DecrementarTx(db, p.ID, main.ID, 6)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 5, testutil.StockDe(t, db, p.ID, main.ID))

	ok, err = repo.DecrementarTx(db, p.ID, main.ID, 5)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0, testutil.StockDe(t, db, p.ID, main.ID))
}

func TestDecrementarTx_MissingRowIsZero(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewInventarioRepository(db)
	main := testutil.Subalmacen(t, db, "Principal", true)
	p := testutil.Producto(t, db, "A1", "10.00", 0)

	ok, err := repo.DecrementarTx(db, p.ID, main.ID, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = repo.FindRow(context.Background(), p.ID, main.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestIncrementarTx_CreatesThenAccumulates(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewInventarioRepository(db)
	sub := testutil.Subalmacen(t, db, "Punto", false)
	p := testutil.Producto(t, db, "A1", "10.00", 0)

	require.NoError(t, repo.IncrementarTx(db, p.ID, sub.ID, 3))
	require.NoError(t, repo.IncrementarTx(db, p.ID, sub.ID, 4))

	assert.Equal(t, 7, testutil.StockDe(t, db, p.ID, sub.ID))
	var count int64
	require.NoError(t, db.Table("inventario_subalmacen").Where("producto_id = ?", p.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count, "upsert must not duplicate the row")
}

func TestSetRowTx_OverwritesQuantity(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewInventarioRepository(db)
	sub := testutil.Subalmacen(t, db, "Punto", false)
	p := testutil.Producto(t, db, "A1", "10.00", 0)
	testutil.Stock(t, db, p.ID, sub.ID, 9)

	require.NoError(t, repo.SetRowTx(db, p.ID, sub.ID, 2))
	assert.Equal(t, 2, testutil.StockDe(t, db, p.ID, sub.ID))
}

func TestTotales(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewInventarioRepository(db)
	ctx := context.Background()
	a := testutil.Subalmacen(t, db, "Principal", true)
	b := testutil.Subalmacen(t, db, "Punto", false)
	p1 := testutil.Producto(t, db, "A1", "10.00", 0)
	p2 := testutil.Producto(t, db, "A2", "10.00", 0)
	p3 := testutil.Producto(t, db, "A3", "10.00", 0)
	testutil.Stock(t, db, p1.ID, a.ID, 30)
	testutil.Stock(t, db, p1.ID, b.ID, 20)
	testutil.Stock(t, db, p2.ID, b.ID, 4)

	total, err := repo.TotalStock(ctx, p1.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, total)

	total, err = repo.TotalStock(ctx, p3.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, total)

	totales, err := repo.TotalesStock(ctx, []uint{p1.ID, p2.ID, p3.ID})
	require.NoError(t, err)
	assert.Equal(t, map[uint]int{p1.ID: 50, p2.ID: 4}, totales)
}

func TestListBajoMinimo(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewInventarioRepository(db)
	a := testutil.Subalmacen(t, db, "Principal", true)
	bajo := testutil.Producto(t, db, "B1", "10.00", 5)
	justo := testutil.Producto(t, db, "B2", "10.00", 5)
	ok := testutil.Producto(t, db, "B3", "10.00", 5)
	sinFilas := testutil.Producto(t, db, "B4", "10.00", 1)
	testutil.Stock(t, db, bajo.ID, a.ID, 2)
	testutil.Stock(t, db, justo.ID, a.ID, 5)
	testutil.Stock(t, db, ok.ID, a.ID, 6)

	rows, err := repo.ListBajoMinimo(context.Background())
	require.NoError(t, err)

	ids := make([]uint, len(rows))
	for i, r := range rows {
		ids[i] = r.ProductoID
	}
	assert.ElementsMatch(t, []uint{bajo.ID, justo.ID, sinFilas.ID}, ids)
}

func TestListBySubalmacen_SoloConStock(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewInventarioRepository(db)
	sub := testutil.Subalmacen(t, db, "Punto", false)
	p1 := testutil.Producto(t, db, "A1", "10.00", 0)
	p2 := testutil.Producto(t, db, "A2", "10.00", 0)
	testutil.Stock(t, db, p1.ID, sub.ID, 3)
	testutil.Stock(t, db, p2.ID, sub.ID, 0)

	all, err := repo.ListBySubalmacen(context.Background(), sub.ID, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	require.NotNil(t, all[0].Producto)

	conStock, err := repo.ListBySubalmacen(context.Background(), sub.ID, true)
	require.NoError(t, err)
	require.Len(t, conStock, 1)
	assert.Equal(t, p1.ID, conStock[0].ProductoID)
}

func TestStockNoNegativo_CheckConstraint(t *testing.T) {
	db := testutil.NewDB(t)
	sub := testutil.Subalmacen(t, db, "Punto", false)
	p := testutil.Producto(t, db, "A1", "10.00", 0)
	testutil.Stock(t, db, p.ID, sub.ID, 1)

	err := db.Exec("UPDATE inventario_subalmacen SET stock = -1 WHERE producto_id = ?", p.ID).Error
	assert.Error(t, err)
	assert.Equal(t, 1, testutil.StockDe(t, db, p.ID, sub.ID))
}
