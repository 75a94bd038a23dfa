package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tu-usuario/facturador-pe/internal/application/billing"
	"github.com/tu-usuario/facturador-pe/internal/domain/repository"
)

var _ billing.FacturaTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunFactura inicia una transacción, ejecuta fn con un repo atado a la tx y
// hace Commit o Rollback. Cabecera y detalles de la factura se insertan aquí:
// o todas las filas o ninguna.
func (r *TxRunner) RunFactura(ctx context.Context, fn func(facturaRepo repository.FacturaRepository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewFacturaRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
