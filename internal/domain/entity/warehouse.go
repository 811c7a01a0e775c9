package entity

// Warehouse representa una bodega donde se recibe el stock. Solo se verifica su existencia.
type Warehouse struct {
	ID      int64
	Name    string
	Address string
}
