package closing

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/ferreteria-api/internal/domain"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con repositorios atados a ella.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.Repositories) error) error
}

// UseCase cierre de caja: cierre Z (irreversible), reporte X (solo lectura) e historial.
type UseCase struct {
	tx  TxRunner
	log zerolog.Logger
	loc *time.Location
	now func() time.Time
}

// NewUseCase construye el caso de uso. loc es la zona horaria del negocio; clock puede ser nil.
func NewUseCase(tx TxRunner, loc *time.Location, clock func() time.Time, log zerolog.Logger) *UseCase {
	if loc == nil {
		loc = time.UTC
	}
	if clock == nil {
		clock = time.Now
	}
	return &UseCase{tx: tx, loc: loc, now: clock, log: log.With().Str("component", "closing").Logger()}
}

// GenerateZClose espera a las ventas en curso, bloquea las ventas PENDIENTE, las totaliza,
// crea el cierre del día y las pasa a CERRADO. Las ventas que llegan durante el cierre
// esperan y luego encuentran el día cerrado.
func (uc *UseCase) GenerateZClose(ctx context.Context, userID *int64) (*entity.Closing, error) {
	now := uc.now()
	var closing *entity.Closing
	err := uc.tx.Run(ctx, func(repos repository.Repositories) error {
		if err := repos.Closings.LockForClose(ctx); err != nil {
			return err
		}
		ids, err := repos.Sales.LockPending(ctx)
		if err != nil {
			return err
		}
		totals, err := repos.Sales.Totals(ctx, ids)
		if err != nil {
			return err
		}
		if len(ids) == 0 || totals.Revenue.IsZero() {
			return domain.NewError(domain.KindNoPendingSales, "No hay ventas pendientes para cerrar")
		}
		totals.Cost = totals.Cost.Round(4) // NUMERIC(18,4)
		closing = &entity.Closing{
			BusinessDate: entity.BusinessDate(now, uc.loc),
			Revenue:      totals.Revenue,
			Cost:         totals.Cost,
			Profit:       totals.Profit(),
			SalesCount:   len(ids),
			UserID:       userID,
			ClosedAt:     now,
		}
		if err := repos.Closings.Create(ctx, closing); err != nil {
			return err
		}
		return repos.Sales.MarkClosed(ctx, ids, closing.ID)
	})
	if err != nil {
		if domain.KindOf(err).Class() == domain.ClassInfrastructure {
			uc.log.Error().Err(err).Msg("cierre Z revertido")
		} else {
			uc.log.Warn().Err(err).Msg("cierre Z rechazado")
		}
		return nil, err
	}
	uc.log.Info().
		Int64("closing_id", closing.ID).
		Int("sales", closing.SalesCount).
		Str("revenue", closing.Revenue.String()).
		Msg("cierre Z generado")
	return closing, nil
}

// XReport totaliza las ventas PENDIENTE sin bloquear ni modificar nada.
func (uc *UseCase) XReport(ctx context.Context) (entity.SalesTotals, error) {
	var totals entity.SalesTotals
	err := uc.tx.Run(ctx, func(repos repository.Repositories) error {
		var err error
		totals, err = repos.Sales.PendingTotals(ctx)
		return err
	})
	return totals, err
}

// History lista los cierres, el más reciente primero.
func (uc *UseCase) History(ctx context.Context, limit, offset int) ([]entity.Closing, error) {
	var out []entity.Closing
	err := uc.tx.Run(ctx, func(repos repository.Repositories) error {
		var err error
		out, err = repos.Closings.List(ctx, limit, offset)
		return err
	})
	return out, err
}
