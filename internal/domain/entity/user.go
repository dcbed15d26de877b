package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin        = "admin"
	RoleFarmaceutico = "farmaceutico"
	RoleAuxiliar     = "auxiliar"
)

// User representa un operador de la farmacia.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, farmaceutico, auxiliar
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
