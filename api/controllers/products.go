package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storelinehq/storeline-backend/api/responses"
	"github.com/storelinehq/storeline-backend/api/validators"
	"github.com/storelinehq/storeline-backend/internal/catalog"
	pkgerrors "github.com/storelinehq/storeline-backend/pkg/errors"
	"github.com/storelinehq/storeline-backend/pkg/logger"
)

type createProductRequest struct {
	Name        string  `json:"name" validate:"required,min=6"`
	Description *string `json:"description,omitempty"`
	UnitPrice   string  `json:"unit_price" validate:"required"`
	Inventory   int     `json:"inventory" validate:"min=0"`
	CategoryID  string  `json:"category_id" validate:"required,uuid"`
}

type updateProductRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=6"`
	Description *string `json:"description,omitempty"`
	UnitPrice   *string `json:"unit_price,omitempty"`
	Inventory   *int    `json:"inventory,omitempty" validate:"omitempty,min=0"`
	CategoryID  *string `json:"category_id,omitempty" validate:"omitempty,uuid"`
}

func CreateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toCreateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

func GetProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Products resolve by UUID or by slug from the same path segment.
		raw := strings.TrimSpace(chi.URLParam(r, "productId"))
		if id, err := uuid.Parse(raw); err == nil {
			product, err := svc.GetProduct(r.Context(), id)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, product)
			return
		}

		product, err := svc.GetProductBySlug(r.Context(), raw)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func ListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters, err := productFiltersFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := paginationParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListProducts(r.Context(), catalog.ListProductsInput{
			Filters:    filters,
			Pagination: params,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func UpdateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toUpdateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func DeleteProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

func (p createProductRequest) toCreateInput() (catalog.CreateProductInput, error) {
	price, err := parsePrice(p.UnitPrice)
	if err != nil {
		return catalog.CreateProductInput{}, err
	}
	categoryID, err := uuid.Parse(p.CategoryID)
	if err != nil {
		return catalog.CreateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category id")
	}
	return catalog.CreateProductInput{
		Name:        p.Name,
		Description: p.Description,
		UnitPrice:   price,
		Inventory:   p.Inventory,
		CategoryID:  categoryID,
	}, nil
}

func (p updateProductRequest) toUpdateInput() (catalog.UpdateProductInput, error) {
	input := catalog.UpdateProductInput{
		Name:        p.Name,
		Description: p.Description,
		Inventory:   p.Inventory,
	}
	if p.UnitPrice != nil {
		price, err := parsePrice(*p.UnitPrice)
		if err != nil {
			return catalog.UpdateProductInput{}, err
		}
		input.UnitPrice = &price
	}
	if p.CategoryID != nil {
		categoryID, err := uuid.Parse(*p.CategoryID)
		if err != nil {
			return catalog.UpdateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category id")
		}
		input.CategoryID = &categoryID
	}
	return input, nil
}

func parsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Decimal{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price")
	}
	return price, nil
}

func productFiltersFromQuery(r *http.Request) (catalog.ProductFilters, error) {
	q := r.URL.Query()
	filters := catalog.ProductFilters{
		Name:    strings.TrimSpace(q.Get("name")),
		OrderBy: strings.TrimSpace(q.Get("order_by")),
	}

	if raw := strings.TrimSpace(q.Get("price_min")); raw != "" {
		price, err := parsePrice(raw)
		if err != nil {
			return catalog.ProductFilters{}, err
		}
		filters.PriceMin = &price
	}
	if raw := strings.TrimSpace(q.Get("price_max")); raw != "" {
		price, err := parsePrice(raw)
		if err != nil {
			return catalog.ProductFilters{}, err
		}
		filters.PriceMax = &price
	}
	if raw := strings.TrimSpace(q.Get("category_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return catalog.ProductFilters{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category id")
		}
		filters.CategoryID = &id
	}

	if value, err := validators.ParseQueryInt(r, "inventory_gt", -1, -1, 1<<30); err != nil {
		return catalog.ProductFilters{}, err
	} else if value >= 0 {
		filters.InventoryGT = &value
	}
	if value, err := validators.ParseQueryInt(r, "inventory_lt", -1, -1, 1<<30); err != nil {
		return catalog.ProductFilters{}, err
	} else if value >= 0 {
		filters.InventoryLT = &value
	}
	return filters, nil
}
