//go:build integration

package router_test

// Runs the API against real Postgres and Redis containers.
// go test -tags integration ./internal/router/...

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/config"
	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/infra"
	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/model"
	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/router"
	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func newContainerAPI(t *testing.T, policy string) *apiEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	pgC, err := tcPostgres.Run(ctx, "postgres:16-alpine",
		tcPostgres.WithDatabase("inventario_test"),
		tcPostgres.WithUsername("inventario"),
		tcPostgres.WithPassword("inventario"),
		testcontainers.WithWaitStrategy(tcPostgres.BasicWaitStrategies()...),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })
	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })
	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := testutil.Config(policy)
	cfg.DBDriver = "postgres"
	cfg.DatabaseURL = pgURL
	cfg.RedisURL = rdURL

	db, err := infra.NewDatabase(cfg.DBDriver, cfg.DatabaseURL)
	require.NoError(t, err)
	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	svcs := router.NewServices(cfg, db, rdb)
	principal, err := svcs.Subalmacen.AsegurarPrincipal(ctx, cfg.MainWarehouseID)
	require.NoError(t, err)
	punto := testutil.Subalmacen(t, db, "Mostrador", false)
	testutil.Usuario(t, db, "admin", "admin123", model.RolAdmin, nil)
	testutil.Usuario(t, db, "vendedor", "vendedor123", model.RolTrabajador, &punto.ID)

	env := &apiEnv{engine: router.New(cfg, db, rdb, svcs), principal: principal, punto: punto}
	env.admin = env.login(t, "admin", "admin123")
	env.vendedor = env.login(t, "vendedor", "vendedor123")
	return env
}

func TestIntegration_HealthReportsRedis(t *testing.T) {
	env := newContainerAPI(t, config.PoliticaAtomica)
	w := env.do(t, http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"db":"connected","redis":"connected","dlq":0,"ok":true}`, w.Body.String())
}

// Concurrent transfers out of one row never overdraw it.
func TestIntegration_ConcurrentTransfers(t *testing.T) {
	env := newContainerAPI(t, config.PoliticaAtomica)
	pid := env.crearProducto(t, "7790010", 10)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		okCount int
	)
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := env.do(t, http.MethodPost, "/v1/inventario/transferencias", map[string]any{
				"producto_id": pid, "cantidad": 1, "origen_id": env.principal.ID, "destino_id": env.punto.ID,
			}, env.admin)
			if w.Code == http.StatusOK {
				mu.Lock()
				okCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 10, okCount)

	w := env.do(t, http.MethodGet, fmt.Sprintf("/v1/inventario/stock/%d/%d", pid, env.punto.ID), nil, env.admin)
	require.Equal(t, http.StatusOK, w.Code)
	var fila struct {
		Stock int `json:"stock"`
	}
	decode(t, w, &fila)
	assert.Equal(t, 10, fila.Stock)
}

// The cached total follows the ledger after a sale.
func TestIntegration_StockTotalCacheInvalidation(t *testing.T) {
	env := newContainerAPI(t, config.PoliticaAtomica)
	pid := env.crearProducto(t, "7790011", 6)

	stockTotal := func() int {
		w := env.do(t, http.MethodGet, fmt.Sprintf("/v1/productos/%d/stock", pid), nil, env.admin)
		require.Equal(t, http.StatusOK, w.Code)
		var body struct {
			StockTotal int `json:"stock_total"`
		}
		decode(t, w, &body)
		return body.StockTotal
	}
	require.Equal(t, 6, stockTotal())

	w := env.do(t, http.MethodPost, "/v1/ventas", map[string]any{
		"items":    []map[string]any{{"producto_id": pid, "cantidad": 2}},
		"pago_con": "1000",
	}, env.admin)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	assert.Equal(t, 4, stockTotal())
}

func TestIntegration_OfflineSyncIsIdempotent(t *testing.T) {
	env := newContainerAPI(t, config.PoliticaAtomica)
	pid := env.crearProducto(t, "7790012", 5)
	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, "/v1/inventario/transferencias", map[string]any{
		"producto_id": pid, "cantidad": 5, "origen_id": env.principal.ID, "destino_id": env.punto.ID,
	}, env.admin).Code)

	offlineID := uuid.NewString()
	batch := map[string]any{"ventas": []map[string]any{{
		"items":      []map[string]any{{"producto_id": pid, "cantidad": 2}},
		"pago_con":   "600",
		"offline_id": offlineID,
	}}}
	for i := 0; i < 2; i++ {
		w := env.do(t, http.MethodPost, "/v1/ventas/sync", batch, env.vendedor)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var results []struct {
			OfflineID string `json:"offline_id"`
			Error     string `json:"error"`
		}
		decode(t, w, &results)
		require.Len(t, results, 1)
		assert.Equal(t, offlineID, results[0].OfflineID)
		assert.Empty(t, results[0].Error)
	}

	w := env.do(t, http.MethodGet, fmt.Sprintf("/v1/inventario/stock/%d/%d", pid, env.punto.ID), nil, env.admin)
	var fila struct {
		Stock int `json:"stock"`
	}
	decode(t, w, &fila)
	assert.Equal(t, 3, fila.Stock, "replayed sale is not discounted twice")
}

// A short line under the partial policy rolls back to its savepoint and the
// rest of the sale commits.
func TestIntegration_ParcialPolicy(t *testing.T) {
	env := newContainerAPI(t, config.PoliticaParcial)
	hay := env.crearProducto(t, "7790013", 5)
	falta := env.crearProducto(t, "7790014", 1)

	w := env.do(t, http.MethodPost, "/v1/ventas", map[string]any{
		"items": []map[string]any{
			{"producto_id": hay, "cantidad": 2},
			{"producto_id": falta, "cantidad": 3},
		},
		"pago_con": "2000",
	}, env.admin)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp struct {
		Success bool `json:"success"`
		Venta   struct {
			Estado string `json:"estado"`
		} `json:"venta"`
		Fallas []struct {
			ProductoID uint `json:"producto_id"`
			Disponible int  `json:"disponible"`
		} `json:"fallas"`
	}
	decode(t, w, &resp)
	assert.False(t, resp.Success)
	assert.Equal(t, model.VentaParcial, resp.Venta.Estado)
	require.Len(t, resp.Fallas, 1)
	assert.Equal(t, falta, resp.Fallas[0].ProductoID)
	assert.Equal(t, 1, resp.Fallas[0].Disponible)

	for pid, want := range map[uint]int{hay: 3, falta: 1} {
		w := env.do(t, http.MethodGet, fmt.Sprintf("/v1/inventario/stock/%d/%d", pid, env.principal.ID), nil, env.admin)
		var fila struct {
			Stock int `json:"stock"`
		}
		decode(t, w, &fila)
		assert.Equal(t, want, fila.Stock, "producto %d", pid)
	}
}
