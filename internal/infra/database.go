package infra

import (
	"fmt"
	"strings"

	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/model"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens the GORM connection selected by driver ("sqlite" or
// "postgres"), then runs AutoMigrate and the idempotent patches GORM cannot
// express.
//
// SQLite is the default local store. It runs with a single open connection so
// writers are serialised by database/sql, and with foreign keys enabled.
func NewDatabase(driver, dsn string) (*gorm.DB, error) {
	gcfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	}

	var (
		db  *gorm.DB
		err error
	)
	switch driver {
	case "postgres":
		db, err = gorm.Open(postgres.Open(dsn), gcfg)
	case "sqlite", "":
		db, err = gorm.Open(sqlite.Open(sqliteDSN(dsn)), gcfg)
	default:
		return nil, fmt.Errorf("database: driver %q no soportado", driver)
	}
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if driver == "postgres" {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
	} else {
		sqlDB.SetMaxOpenConns(1)
	}

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates / updates every table and applies schema patches.
// Also used by tests against throwaway databases.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches runs idempotent DDL statements that AutoMigrate does not
// emit. Both SQLite and PostgreSQL accept the IF NOT EXISTS forms used here.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// at most one main warehouse
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_subalmacenes_unico_principal
		    ON subalmacenes (es_principal) WHERE es_principal = true`,
		// movement listing filters by warehouse then date
		`CREATE INDEX IF NOT EXISTS idx_movimientos_subalmacen_fecha
		    ON movimientos_inventario (subalmacen_id, fecha)`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}

// sqliteDSN appends the pragmas the store relies on unless the caller already
// set them.
func sqliteDSN(dsn string) string {
	if dsn == "" {
		dsn = "inventario.db"
	}
	if strings.Contains(dsn, "_pragma=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}
