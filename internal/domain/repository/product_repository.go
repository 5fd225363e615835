package repository

import "github.com/webgradu/stock-api/internal/domain/entity"

// ProductRepository define el puerto de lectura del catálogo (DIP).
// El catálogo se administra fuera de este servicio; el módulo de stock solo
// necesita listar, buscar y resolver productos puntuales.
type ProductRepository interface {
	GetByID(id int64) (*entity.Product, error)
	List() ([]*entity.Product, error)
	// Search filtra por nombre o código (substring, case-insensitive).
	Search(query string) ([]*entity.Product, error)
}
