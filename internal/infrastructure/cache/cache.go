package cache

import (
	"context"

	"github.com/jhoicas/ferreteria-api/internal/application/inventory"
)

var _ inventory.KardexCache = NoopKardexCache{}

// NoopKardexCache se usa cuando no hay Redis configurado: nunca encuentra nada.
type NoopKardexCache struct{}

func (NoopKardexCache) Get(context.Context, int64) (*inventory.KardexReport, bool, error) {
	return nil, false, nil
}

func (NoopKardexCache) Generation(context.Context, int64) (int64, error) { return 0, nil }

func (NoopKardexCache) Set(context.Context, int64, int64, *inventory.KardexReport) error { return nil }

func (NoopKardexCache) Invalidate(context.Context, ...int64) error { return nil }
