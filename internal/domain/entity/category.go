package entity

// Category agrupa productos del catálogo (tornillería, pinturas, etc.).
type Category struct {
	ID   int64
	Name string
}
