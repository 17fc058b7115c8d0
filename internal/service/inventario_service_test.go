package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/config"
	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/dto"
	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/service"
	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransferir_MovesAndCreatesDestinationRow(t *testing.T) {
	env := newEnv(t, config.PoliticaAtomica)
	p := testutil.Producto(t, env.db, "P1", "10.00", 0)
	testutil.Stock(t, env.db, p.ID, env.principal.ID, 50)

	err := env.inventario.Transferir(context.Background(), dto.TransferenciaRequest{
		ProductoID: p.ID, Cantidad: 20, OrigenID: env.principal.ID, DestinoID: env.punto.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, 30, env.stock(t, p.ID, env.principal.ID))
	assert.Equal(t, 20, env.stock(t, p.ID, env.punto.ID))
	assert.Equal(t, 50, env.total(t, p.ID), "a transfer between warehouses conserves the total")
}

func TestTransferir_InsufficientStockChangesNothing(t *testing.T) {
	env := newEnv(t, config.PoliticaAtomica)
	p := testutil.Producto(t, env.db, "P1", "10.00", 0)
	testutil.Stock(t, env.db, p.ID, env.principal.ID, 30)

	err := env.inventario.Transferir(context.Background(), dto.TransferenciaRequest{
		ProductoID: p.ID, Cantidad: 40, OrigenID: env.principal.ID, DestinoID: env.punto.ID,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrStockInsuficiente)

	var insuf *service.StockInsuficienteError
	require.True(t, errors.As(err, &insuf))
	assert.Equal(t, 30, insuf.Disponible)
	assert.Equal(t, 40, insuf.Solicitado)

	assert.Equal(t, 30, env.stock(t, p.ID, env.principal.ID))
	var rows int64
	require.NoError(t, env.db.Table("inventario_subalmacen").
		Where("producto_id = ? AND subalmacen_id = ?", p.ID, env.punto.ID).Count(&rows).Error)
	assert.Zero(t, rows, "no destination row is created on failure")
}

func TestTransferir_AccumulatesIntoExistingRow(t *testing.T) {
	env := newEnv(t, config.PoliticaAtomica)
	p := testutil.Producto(t, env.db, "P1", "10.00", 0)
	testutil.Stock(t, env.db, p.ID, env.principal.ID, 10)
	testutil.Stock(t, env.db, p.ID, env.punto.ID, 5)

	require.NoError(t, env.inventario.Transferir(context.Background(), dto.TransferenciaRequest{
		ProductoID: p.ID, Cantidad: 10, OrigenID: env.principal.ID, DestinoID: env.punto.ID,
	}))
	assert.Equal(t, 0, env.stock(t, p.ID, env.principal.ID))
	assert.Equal(t, 15, env.stock(t, p.ID, env.punto.ID))
}

func TestTransferir_SinkConsumesUnits(t *testing.T) {
	env := newEnv(t, config.PoliticaAtomica)
	p := testutil.Producto(t, env.db, "P1", "10.00", 0)
	testutil.Stock(t, env.db, p.ID, env.punto.ID, 8)

	require.NoError(t, env.inventario.Transferir(context.Background(), dto.TransferenciaRequest{
		ProductoID: p.ID, Cantidad: 3, OrigenID: env.punto.ID, DestinoID: 0,
	}))
	assert.Equal(t, 5, env.stock(t, p.ID, env.punto.ID))
	assert.Equal(t, 5, env.total(t, p.ID))
}

func TestTransferir_Validation(t *testing.T) {
	env := newEnv(t, config.PoliticaAtomica)
	ctx := context.Background()
	p := testutil.Producto(t, env.db, "P1", "10.00", 0)
	testutil.Stock(t, env.db, p.ID, env.principal.ID, 10)

	tests := []struct {
		name string
		req  dto.TransferenciaRequest
		want error
	}{
		{"misma bodega", dto.TransferenciaRequest{ProductoID: p.ID, Cantidad: 1, OrigenID: env.principal.ID, DestinoID: env.principal.ID}, service.ErrMismoSubalmacen},
		{"cantidad cero", dto.TransferenciaRequest{ProductoID: p.ID, Cantidad: 0, OrigenID: env.principal.ID, DestinoID: env.punto.ID}, service.ErrValidacion},
		{"sin origen", dto.TransferenciaRequest{ProductoID: p.ID, Cantidad: 1, OrigenID: 0, DestinoID: env.punto.ID}, service.ErrValidacion},
		{"producto inexistente", dto.TransferenciaRequest{ProductoID: 999, Cantidad: 1, OrigenID: env.principal.ID, DestinoID: env.punto.ID}, service.ErrNoEncontrado},
		{"destino inexistente", dto.TransferenciaRequest{ProductoID: p.ID, Cantidad: 1, OrigenID: env.principal.ID, DestinoID: 999}, service.ErrNoEncontrado},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := env.inventario.Transferir(ctx, tc.req)
			assert.ErrorIs(t, err, tc.want)
			assert.Equal(t, 10, env.stock(t, p.ID, env.principal.ID))
		})
	}
}

func TestTransferirLote_AllOrNothing(t *testing.T) {
	env := newEnv(t, config.PoliticaAtomica)
	p1 := testutil.Producto(t, env.db, "P1", "10.00", 0)
	p2 := testutil.Producto(t, env.db, "P2", "10.00", 0)
	testutil.Stock(t, env.db, p1.ID, env.principal.ID, 10)
	testutil.Stock(t, env.db, p2.ID, env.principal.ID, 1)

	err := env.inventario.TransferirLote(context.Background(), dto.TransferenciaLoteRequest{
		OrigenID:  env.principal.ID,
		DestinoID: env.punto.ID,
		Items: []dto.ItemTransferencia{
			{ProductoID: p1.ID, Cantidad: 5},
			{ProductoID: p2.ID, Cantidad: 2},
		},
	})
	assert.ErrorIs(t, err, service.ErrStockInsuficiente)
	assert.Equal(t, 10, env.stock(t, p1.ID, env.principal.ID), "first line rolled back")
	assert.Equal(t, 0, env.stock(t, p1.ID, env.punto.ID))
	assert.Equal(t, 1, env.stock(t, p2.ID, env.principal.ID))
}

func TestTransferir_ConcurrentNeverOversells(t *testing.T) {
	env := newEnv(t, config.PoliticaAtomica)
	p := testutil.Producto(t, env.db, "P1", "10.00", 0)
	testutil.Stock(t, env.db, p.ID, env.principal.ID, 5)

	const workers = 12
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		okCount int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := env.inventario.Transferir(context.Background(), dto.TransferenciaRequest{
				ProductoID: p.ID, Cantidad: 1, OrigenID: env.principal.ID, DestinoID: env.punto.ID,
			})
			if err == nil {
				mu.Lock()
				okCount++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, service.ErrStockInsuficiente)
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, okCount)
	assert.Equal(t, 0, env.stock(t, p.ID, env.principal.ID))
	assert.Equal(t, 5, env.stock(t, p.ID, env.punto.ID))
}

func TestObtenerFila_ImplicitZero(t *testing.T) {
	env := newEnv(t, config.PoliticaAtomica)
	ctx := context.Background()
	p := testutil.Producto(t, env.db, "P1", "10.00", 0)

	row, err := env.inventario.ObtenerFila(ctx, p.ID, env.punto.ID)
	require.NoError(t, err)
	assert.False(t, row.Existe)
	assert.Zero(t, row.Stock)

	// reading twice changes nothing
	row2, err := env.inventario.ObtenerFila(ctx, p.ID, env.punto.ID)
	require.NoError(t, err)
	assert.Equal(t, row, row2)

	_, err = env.inventario.ObtenerFila(ctx, 999, env.punto.ID)
	assert.ErrorIs(t, err, service.ErrNoEncontrado)
}

func TestFijarStock(t *testing.T) {
	env := newEnv(t, config.PoliticaAtomica)
	ctx := context.Background()
	p := testutil.Producto(t, env.db, "P1", "10.00", 0)

	row, err := env.inventario.FijarStock(ctx, p.ID, env.punto.ID, 12)
	require.NoError(t, err)
	assert.True(t, row.Existe)
	assert.Equal(t, 12, env.stock(t, p.ID, env.punto.ID))

	_, err = env.inventario.FijarStock(ctx, p.ID, env.punto.ID, -1)
	assert.ErrorIs(t, err, service.ErrValidacion)
	assert.Equal(t, 12, env.stock(t, p.ID, env.punto.ID))
}

func TestStockTotal_And_InventarioSubalmacen(t *testing.T) {
	env := newEnv(t, config.PoliticaAtomica)
	ctx := context.Background()
	p1 := testutil.Producto(t, env.db, "P1", "10.00", 0)
	p2 := testutil.Producto(t, env.db, "P2", "2.50", 0)
	testutil.Stock(t, env.db, p1.ID, env.principal.ID, 30)
	testutil.Stock(t, env.db, p1.ID, env.punto.ID, 20)
	testutil.Stock(t, env.db, p2.ID, env.punto.ID, 0)

	total, err := env.inventario.StockTotal(ctx, p1.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, total)

	items, err := env.inventario.InventarioSubalmacen(ctx, env.punto.ID, false)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	items, err = env.inventario.InventarioSubalmacen(ctx, env.punto.ID, true)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "P1", items[0].Codigo)
	assert.Equal(t, "10.00", items[0].Precio)

	_, err = env.inventario.InventarioSubalmacen(ctx, 999, false)
	assert.ErrorIs(t, err, service.ErrNoEncontrado)
}

func TestObtenerAlertas_AtOrBelowMinimum(t *testing.T) {
	env := newEnv(t, config.PoliticaAtomica)
	bajo := testutil.Producto(t, env.db, "P1", "10.00", 10)
	alto := testutil.Producto(t, env.db, "P2", "10.00", 10)
	testutil.Stock(t, env.db, bajo.ID, env.principal.ID, 4)
	testutil.Stock(t, env.db, bajo.ID, env.punto.ID, 6)
	testutil.Stock(t, env.db, alto.ID, env.principal.ID, 11)

	alertas, err := env.inventario.ObtenerAlertas(context.Background())
	require.NoError(t, err)
	require.Len(t, alertas, 1)
	assert.Equal(t, bajo.ID, alertas[0].ProductoID)
	assert.Equal(t, 10, alertas[0].StockTotal)
}
