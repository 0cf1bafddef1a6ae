package repository

import (
	"context"
	"time"

	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
)

// ClosingRepository persistencia de cierres Z.
// LockForSale y LockForClose ordenan las ventas frente al cierre Z: varias ventas
// comparten el candado, un cierre lo toma en exclusiva y espera a las ventas en curso.
type ClosingRepository interface {
	LockForSale(ctx context.Context) error
	LockForClose(ctx context.Context) error
	Create(ctx context.Context, closing *entity.Closing) error
	ExistsForDate(ctx context.Context, businessDate time.Time) (bool, error)
	List(ctx context.Context, limit, offset int) ([]entity.Closing, error)
}
