package entity

import "time"

// Supplier representa un proveedor de medicamentos.
// Name es único: el cargue masivo por CSV resuelve proveedores por nombre exacto.
type Supplier struct {
	ID        string
	Name      string
	Contact   string // email o teléfono, texto libre
	CreatedAt time.Time
}
