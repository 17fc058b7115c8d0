package model

// All returns every persisted model in migration order.
func All() []any {
	return []any{
		&Producto{},
		&Subalmacen{},
		&InventarioSubalmacen{},
		&Usuario{},
		&Venta{},
		&MovimientoInventario{},
	}
}
