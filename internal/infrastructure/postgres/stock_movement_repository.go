package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/webgradu/stock-api/internal/domain/entity"
	"github.com/webgradu/stock-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación del puerto StockMovementRepository sobre
// PostgreSQL (usable con pool o tx).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

const movementColumns = `id, product_id, initial_qty, current_qty, min_qty, max_qty, type, moved_at, created_by`

// Create persiste un movimiento y completa el ID serial generado.
func (r *StockMovementRepo) Create(movement *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (product_id, initial_qty, current_qty, min_qty, max_qty, type, moved_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	createdBy := (*string)(nil)
	if movement.CreatedBy != "" {
		createdBy = &movement.CreatedBy
	}
	err := r.q.QueryRow(context.Background(), query,
		movement.ProductID, movement.InitialQty, movement.CurrentQty,
		movement.MinQty, movement.MaxQty, movement.Type, movement.MovedAt, createdBy,
	).Scan(&movement.ID)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// Latest devuelve el movimiento más reciente del producto, o nil si no hay.
// A igualdad de moved_at gana el id mayor.
func (r *StockMovementRepo) Latest(productID int64) (*entity.StockMovement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM stock_movements WHERE product_id = $1
		ORDER BY moved_at DESC, id DESC LIMIT 1`
	return r.queryOne(query, productID)
}

// LatestForUpdate es Latest con bloqueo de fila; usar dentro de una tx.
func (r *StockMovementRepo) LatestForUpdate(productID int64) (*entity.StockMovement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM stock_movements WHERE product_id = $1
		ORDER BY moved_at DESC, id DESC LIMIT 1
		FOR UPDATE`
	return r.queryOne(query, productID)
}

// FirstForUpdate devuelve el asiento más antiguo del producto con bloqueo de
// fila, o nil si no hay.
func (r *StockMovementRepo) FirstForUpdate(productID int64) (*entity.StockMovement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM stock_movements WHERE product_id = $1
		ORDER BY id ASC LIMIT 1
		FOR UPDATE`
	return r.queryOne(query, productID)
}

// LatestByProducts devuelve el movimiento más reciente por producto en una
// sola consulta (DISTINCT ON). Productos sin movimientos no aparecen en el mapa.
func (r *StockMovementRepo) LatestByProducts(productIDs []int64) (map[int64]*entity.StockMovement, error) {
	result := make(map[int64]*entity.StockMovement, len(productIDs))
	if len(productIDs) == 0 {
		return result, nil
	}
	query := `
		SELECT DISTINCT ON (product_id) ` + movementColumns + `
		FROM stock_movements WHERE product_id = ANY($1)
		ORDER BY product_id, moved_at DESC, id DESC`
	rows, err := r.q.Query(context.Background(), query, productIDs)
	if err != nil {
		return nil, fmt.Errorf("latest movements by products: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, err
		}
		result[m.ProductID] = m
	}
	return result, rows.Err()
}

// UpdateQuantities sobreescribe initial_qty y current_qty de un asiento sin
// tocar fecha ni tipo.
func (r *StockMovementRepo) UpdateQuantities(id int64, initialQty, currentQty int) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE stock_movements SET initial_qty = $2, current_qty = $3 WHERE id = $1`,
		id, initialQty, currentQty,
	)
	if err != nil {
		return fmt.Errorf("update movement quantities: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("update movement quantities: asiento %d no existe", id)
	}
	return nil
}

// ListByProduct devuelve el historial de movimientos, más reciente primero.
func (r *StockMovementRepo) ListByProduct(productID int64, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM stock_movements WHERE product_id = $1
		ORDER BY moved_at DESC, id DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, productID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// CountByProduct cuenta los asientos de un producto.
func (r *StockMovementRepo) CountByProduct(productID int64) (int, error) {
	var n int
	err := r.q.QueryRow(context.Background(),
		`SELECT count(*) FROM stock_movements WHERE product_id = $1`, productID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count movements: %w", err)
	}
	return n, nil
}

func (r *StockMovementRepo) queryOne(query string, productID int64) (*entity.StockMovement, error) {
	row := r.q.QueryRow(context.Background(), query, productID)
	m, err := scanMovement(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock movement: %w", err)
	}
	return m, nil
}

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	var createdBy *string
	err := row.Scan(
		&m.ID, &m.ProductID, &m.InitialQty, &m.CurrentQty,
		&m.MinQty, &m.MaxQty, &m.Type, &m.MovedAt, &createdBy,
	)
	if err != nil {
		return nil, err
	}
	if createdBy != nil {
		m.CreatedBy = *createdBy
	}
	return &m, nil
}
