package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo. El catálogo lo administra otro
// módulo; aquí se consume solo lectura para la gestión de stock.
// PhotoRef puede estar vacío, ser una URL absoluta o un public_id del host de
// imágenes; la resolución a URL visible se hace en media.Resolver.
type Product struct {
	ID        int64
	Name      string
	Code      string          // código único de producto
	Price     decimal.Decimal // precio de venta
	PhotoRef  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
