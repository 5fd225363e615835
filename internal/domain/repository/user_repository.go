package repository

import "github.com/webgradu/stock-api/internal/domain/entity"

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	// UpdatePassword reemplaza el hash de contraseña y actualiza updated_at.
	UpdatePassword(id, passwordHash string) error
}
