package repository

import (
	"context"

	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
)

// CustomerRepository define el puerto de lectura de clientes.
// GetByID devuelve (nil, nil) si el cliente no existe.
type CustomerRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Customer, error)
}
