package repository

import (
	"context"

	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StockBajo is a product whose total stock is at or below its minimum.
type StockBajo struct {
	ProductoID  uint
	Codigo      string
	Nombre      string
	StockMinimo int
	StockTotal  int
}

// InventarioRepository is the ledger of per-(producto, subalmacen) quantities.
// A missing row is an implicit zero. Every *Tx method must run inside the
// caller's transaction; none of them open their own.
type InventarioRepository interface {
	// FindRow returns gorm.ErrRecordNotFound when no row exists.
	FindRow(ctx context.Context, productoID, subalmacenID uint) (*model.InventarioSubalmacen, error)
	FindRowTx(tx *gorm.DB, productoID, subalmacenID uint) (*model.InventarioSubalmacen, error)
	// SetRowTx upserts the row to an absolute quantity.
	SetRowTx(tx *gorm.DB, productoID, subalmacenID uint, stock int) error
	// ListBySubalmacen joins each row with its product, ordered by product name.
	ListBySubalmacen(ctx context.Context, subalmacenID uint, soloConStock bool) ([]model.InventarioSubalmacen, error)
	TotalStock(ctx context.Context, productoID uint) (int, error)
	TotalesStock(ctx context.Context, productoIDs []uint) (map[uint]int, error)
	ListBajoMinimo(ctx context.Context) ([]StockBajo, error)

	// DecrementarTx subtracts cantidad only if the row holds at least that
	// much. Reports false (and changes nothing) otherwise.
	DecrementarTx(tx *gorm.DB, productoID, subalmacenID uint, cantidad int) (bool, error)
	// IncrementarTx adds cantidad, creating the row when absent.
	IncrementarTx(tx *gorm.DB, productoID, subalmacenID uint, cantidad int) error

	ProductoIDsBySubalmacenTx(tx *gorm.DB, subalmacenID uint) ([]uint, error)
	DeleteByProductoTx(tx *gorm.DB, productoID uint) error
	DeleteBySubalmacenTx(tx *gorm.DB, subalmacenID uint) error

	DB() *gorm.DB
}

type inventarioRepo struct{ db *gorm.DB }

func NewInventarioRepository(db *gorm.DB) InventarioRepository { return &inventarioRepo{db: db} }

func (r *inventarioRepo) DB() *gorm.DB { return r.db }

var inventarioKey = []clause.Column{{Name: "producto_id"}, {Name: "subalmacen_id"}}

func (r *inventarioRepo) FindRow(ctx context.Context, productoID, subalmacenID uint) (*model.InventarioSubalmacen, error) {
	return r.FindRowTx(r.db.WithContext(ctx), productoID, subalmacenID)
}

func (r *inventarioRepo) FindRowTx(tx *gorm.DB, productoID, subalmacenID uint) (*model.InventarioSubalmacen, error) {
	var row model.InventarioSubalmacen
	err := tx.Where("producto_id = ? AND subalmacen_id = ?", productoID, subalmacenID).First(&row).Error
	return &row, err
}

func (r *inventarioRepo) SetRowTx(tx *gorm.DB, productoID, subalmacenID uint, stock int) error {
	row := model.InventarioSubalmacen{ProductoID: productoID, SubalmacenID: subalmacenID, Stock: stock}
	return tx.Clauses(clause.OnConflict{
		Columns:   inventarioKey,
		DoUpdates: clause.AssignmentColumns([]string{"stock", "updated_at"}),
	}).Create(&row).Error
}

func (r *inventarioRepo) ListBySubalmacen(ctx context.Context, subalmacenID uint, soloConStock bool) ([]model.InventarioSubalmacen, error) {
	q := r.db.WithContext(ctx).
		InnerJoins("Producto").
		Where("inventario_subalmacen.subalmacen_id = ?", subalmacenID)
	if soloConStock {
		q = q.Where("inventario_subalmacen.stock > 0")
	}
	var rows []model.InventarioSubalmacen
	err := q.Order(clause.OrderByColumn{Column: clause.Column{Table: "Producto", Name: "nombre"}}).
		Find(&rows).Error
	return rows, err
}

func (r *inventarioRepo) TotalStock(ctx context.Context, productoID uint) (int, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.InventarioSubalmacen{}).
		Select("COALESCE(SUM(stock), 0)").
		Where("producto_id = ?", productoID).
		Scan(&total).Error
	return int(total), err
}

func (r *inventarioRepo) TotalesStock(ctx context.Context, productoIDs []uint) (map[uint]int, error) {
	totales := make(map[uint]int, len(productoIDs))
	if len(productoIDs) == 0 {
		return totales, nil
	}
	var rows []struct {
		ProductoID uint
		Total      int64
	}
	err := r.db.WithContext(ctx).Model(&model.InventarioSubalmacen{}).
		Select("producto_id, SUM(stock) AS total").
		Where("producto_id IN ?", productoIDs).
		Group("producto_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		totales[row.ProductoID] = int(row.Total)
	}
	return totales, nil
}

func (r *inventarioRepo) ListBajoMinimo(ctx context.Context) ([]StockBajo, error) {
	var out []StockBajo
	err := r.db.WithContext(ctx).Raw(`
SELECT p.id AS producto_id, p.codigo, p.nombre, p.stock_minimo,
       COALESCE(SUM(i.stock), 0) AS stock_total
FROM productos p
LEFT JOIN inventario_subalmacen i ON i.producto_id = p.id
GROUP BY p.id, p.codigo, p.nombre, p.stock_minimo
HAVING COALESCE(SUM(i.stock), 0) <= p.stock_minimo
ORDER BY p.nombre`).Scan(&out).Error
	return out, err
}

func (r *inventarioRepo) DecrementarTx(tx *gorm.DB, productoID, subalmacenID uint, cantidad int) (bool, error) {
	res := tx.Model(&model.InventarioSubalmacen{}).
		Where("producto_id = ? AND subalmacen_id = ? AND stock >= ?", productoID, subalmacenID, cantidad).
		Update("stock", gorm.Expr("stock - ?", cantidad))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *inventarioRepo) IncrementarTx(tx *gorm.DB, productoID, subalmacenID uint, cantidad int) error {
	row := model.InventarioSubalmacen{ProductoID: productoID, SubalmacenID: subalmacenID, Stock: cantidad}
	return tx.Clauses(clause.OnConflict{
		Columns: inventarioKey,
		DoUpdates: clause.Assignments(map[string]interface{}{
			"stock":      gorm.Expr("inventario_subalmacen.stock + excluded.stock"),
			"updated_at": gorm.Expr("excluded.updated_at"),
		}),
	}).Create(&row).Error
}

func (r *inventarioRepo) ProductoIDsBySubalmacenTx(tx *gorm.DB, subalmacenID uint) ([]uint, error) {
	var ids []uint
	err := tx.Model(&model.InventarioSubalmacen{}).
		Where("subalmacen_id = ?", subalmacenID).
		Pluck("producto_id", &ids).Error
	return ids, err
}

func (r *inventarioRepo) DeleteByProductoTx(tx *gorm.DB, productoID uint) error {
	return tx.Where("producto_id = ?", productoID).Delete(&model.InventarioSubalmacen{}).Error
}

func (r *inventarioRepo) DeleteBySubalmacenTx(tx *gorm.DB, subalmacenID uint) error {
	return tx.Where("subalmacen_id = ?", subalmacenID).Delete(&model.InventarioSubalmacen{}).Error
}
