package repository

import "context"

// CategoryRepository define el puerto de lectura de categorías.
type CategoryRepository interface {
	Exists(ctx context.Context, id int64) (bool, error)
}
