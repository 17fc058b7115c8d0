package repository

import (
	"context"

	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/model"

	"gorm.io/gorm"
)

type SubalmacenRepository interface {
	Create(ctx context.Context, s *model.Subalmacen) error
	FindByID(ctx context.Context, id uint) (*model.Subalmacen, error)
	FindByIDTx(tx *gorm.DB, id uint) (*model.Subalmacen, error)
	// FindPrincipal returns gorm.ErrRecordNotFound when no warehouse is flagged.
	FindPrincipal(ctx context.Context) (*model.Subalmacen, error)
	List(ctx context.Context) ([]model.Subalmacen, error)
	Update(ctx context.Context, s *model.Subalmacen) error
	// MarcarPrincipalTx flags id as the main warehouse and clears the flag
	// everywhere else.
	MarcarPrincipalTx(tx *gorm.DB, id uint) error
	DeleteTx(tx *gorm.DB, id uint) error
	DB() *gorm.DB
}

type subalmacenRepo struct{ db *gorm.DB }

func NewSubalmacenRepository(db *gorm.DB) SubalmacenRepository { return &subalmacenRepo{db: db} }

func (r *subalmacenRepo) DB() *gorm.DB { return r.db }

func (r *subalmacenRepo) Create(ctx context.Context, s *model.Subalmacen) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *subalmacenRepo) FindByID(ctx context.Context, id uint) (*model.Subalmacen, error) {
	return r.FindByIDTx(r.db.WithContext(ctx), id)
}

func (r *subalmacenRepo) FindByIDTx(tx *gorm.DB, id uint) (*model.Subalmacen, error) {
	var s model.Subalmacen
	err := tx.First(&s, id).Error
	return &s, err
}

func (r *subalmacenRepo) FindPrincipal(ctx context.Context) (*model.Subalmacen, error) {
	var s model.Subalmacen
	err := r.db.WithContext(ctx).Where("es_principal = ?", true).First(&s).Error
	return &s, err
}

func (r *subalmacenRepo) List(ctx context.Context) ([]model.Subalmacen, error) {
	var subs []model.Subalmacen
	err := r.db.WithContext(ctx).Order("id ASC").Find(&subs).Error
	return subs, err
}

// Update never touches es_principal; use MarcarPrincipalTx for that.
func (r *subalmacenRepo) Update(ctx context.Context, s *model.Subalmacen) error {
	return r.db.WithContext(ctx).Model(s).Select("nombre", "direccion", "descripcion").Updates(s).Error
}

func (r *subalmacenRepo) MarcarPrincipalTx(tx *gorm.DB, id uint) error {
	if err := tx.Model(&model.Subalmacen{}).
		Where("es_principal = ? AND id <> ?", true, id).
		Update("es_principal", false).Error; err != nil {
		return err
	}
	return tx.Model(&model.Subalmacen{}).Where("id = ?", id).Update("es_principal", true).Error
}

func (r *subalmacenRepo) DeleteTx(tx *gorm.DB, id uint) error {
	return tx.Delete(&model.Subalmacen{}, id).Error
}
