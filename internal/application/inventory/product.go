package inventory

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ferreteria-api/internal/domain"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
)

// ProductInput datos de alta o edición de producto. InitialStock solo aplica al alta.
type ProductInput struct {
	Code         string
	Name         string
	Description  string
	CostPrice    decimal.Decimal
	SalePrice    decimal.Decimal
	CategoryID   *int64
	MinStock     decimal.Decimal
	InitialStock decimal.Decimal
}

func (in *ProductInput) normalize() error {
	in.Code = strings.TrimSpace(in.Code)
	in.Name = strings.TrimSpace(in.Name)
	if in.Code == "" || in.Name == "" {
		return domain.Validation("código y nombre son requeridos")
	}
	if in.CostPrice.IsNegative() || in.SalePrice.IsNegative() {
		return domain.Validation("los precios no pueden ser negativos")
	}
	if in.MinStock.IsNegative() || in.InitialStock.IsNegative() {
		return domain.Validation("stock mínimo e inicial no pueden ser negativos")
	}
	if err := checkScale("precios y stock", in.CostPrice, in.SalePrice, in.MinStock, in.InitialStock); err != nil {
		return err
	}
	return nil
}

// Resultado de DeleteProduct.
const (
	ProductDeleted     = "deleted"
	ProductDeactivated = "deactivated"
)

func duplicateCode(code string) error {
	return domain.Errorf(domain.KindDuplicateCode, "el código %q ya está registrado", code).WithDetail("code", code)
}

// asDuplicate traduce la violación de unicidad del almacén al error de código duplicado.
func asDuplicate(err error, code string) error {
	if errors.Is(err, domain.ErrDuplicate) && domain.KindOf(err) != domain.KindDuplicateCode {
		return duplicateCode(code)
	}
	return err
}

func checkCategory(ctx context.Context, repos repository.Repositories, id *int64) error {
	if id == nil {
		return nil
	}
	ok, err := repos.Categories.Exists(ctx, *id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.Validation("la categoría %d no existe", *id)
	}
	return nil
}

// CreateProduct da de alta un producto junto con sus filas de stock en todos los
// depósitos (el principal con el stock inicial), en una sola transacción.
func (e *Engine) CreateProduct(ctx context.Context, in ProductInput) (int64, error) {
	o := e.begin("create_product")
	if err := in.normalize(); err != nil {
		return 0, e.finish(ctx, o, err)
	}

	var productID int64
	err := e.tx.Run(ctx, func(repos repository.Repositories) error {
		taken, err := repos.Products.CodeTaken(ctx, in.Code, 0)
		if err != nil {
			return err
		}
		if taken {
			return duplicateCode(in.Code)
		}
		if err := checkCategory(ctx, repos, in.CategoryID); err != nil {
			return err
		}
		p := &entity.Product{
			Code:        in.Code,
			Name:        in.Name,
			Description: in.Description,
			CostPrice:   in.CostPrice,
			SalePrice:   in.SalePrice,
			CategoryID:  in.CategoryID,
			MinStock:    in.MinStock,
			Status:      entity.ProductStatusActive,
			CreatedAt:   o.at,
			UpdatedAt:   o.at,
		}
		if err := repos.Products.Create(ctx, p); err != nil {
			return asDuplicate(err, in.Code)
		}
		productID = p.ID
		return repos.Stock.CreateForProduct(ctx, p.ID, in.InitialStock)
	})
	if err != nil {
		return 0, e.finish(ctx, o, err)
	}
	o.log.Info().Int64("product_id", productID).Str("code", in.Code).Msg("producto creado")
	return productID, e.finish(ctx, o, nil)
}

// UpdateProduct edita los datos de catálogo. El stock no se toca.
func (e *Engine) UpdateProduct(ctx context.Context, id int64, in ProductInput) error {
	o := e.begin("update_product")
	if err := in.normalize(); err != nil {
		return e.finish(ctx, o, err)
	}
	err := e.tx.Run(ctx, func(repos repository.Repositories) error {
		p, err := repos.Products.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.Errorf(domain.KindNotFound, "producto %d no existe", id)
		}
		taken, err := repos.Products.CodeTaken(ctx, in.Code, id)
		if err != nil {
			return err
		}
		if taken {
			return duplicateCode(in.Code)
		}
		if err := checkCategory(ctx, repos, in.CategoryID); err != nil {
			return err
		}
		p.Code = in.Code
		p.Name = in.Name
		p.Description = in.Description
		p.CostPrice = in.CostPrice
		p.SalePrice = in.SalePrice
		p.CategoryID = in.CategoryID
		p.MinStock = in.MinStock
		p.UpdatedAt = o.at
		return asDuplicate(repos.Products.Update(ctx, p), in.Code)
	})
	return e.finish(ctx, o, err, id)
}

// DeleteProduct borra el producto si nunca tuvo movimientos; si los tuvo, lo inactiva
// para conservar el kardex. Devuelve ProductDeleted o ProductDeactivated.
func (e *Engine) DeleteProduct(ctx context.Context, id int64) (string, error) {
	o := e.begin("delete_product")
	var result string
	err := e.tx.Run(ctx, func(repos repository.Repositories) error {
		p, err := repos.Products.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.Errorf(domain.KindNotFound, "producto %d no existe", id)
		}
		used, err := repos.Movements.ExistsForProduct(ctx, id)
		if err != nil {
			return err
		}
		if used {
			result = ProductDeactivated
			return repos.Products.SetStatus(ctx, id, entity.ProductStatusInactive)
		}
		if err := repos.Stock.DeleteByProduct(ctx, id); err != nil {
			return err
		}
		result = ProductDeleted
		return repos.Products.Delete(ctx, id)
	})
	if err != nil {
		return "", e.finish(ctx, o, err)
	}
	o.log.Info().Int64("product_id", id).Str("result", result).Msg("producto eliminado")
	return result, e.finish(ctx, o, nil, id)
}
