package inventory

import (
	"context"

	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback y el error se propaga; si no, Commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.Repositories) error) error
}

// KardexCache cache de lectura del kardex por producto. Los fallos del cache nunca
// hacen fallar una operación de inventario.
//
// Cada producto lleva una generación que Invalidate incrementa. El lector toma la
// generación antes de leer la base de datos y Set solo guarda si sigue siendo la misma,
// así un reporte armado antes de un commit no pisa la invalidación de ese commit.
type KardexCache interface {
	Get(ctx context.Context, productID int64) (*KardexReport, bool, error)
	Generation(ctx context.Context, productID int64) (int64, error)
	Set(ctx context.Context, productID, generation int64, report *KardexReport) error
	Invalidate(ctx context.Context, productIDs ...int64) error
}
