package main

import (
	"errors"
	"net/http"
	"strconv"

	"storefront/internal/acl"
	"storefront/internal/domain/products"

	"github.com/go-chi/chi/v5"
)

type CreateProductPayload struct {
	Name          string  `json:"name" validate:"required,max=200"`
	Description   *string `json:"description" validate:"omitempty,max=5000"`
	Price         int64   `json:"price" validate:"required,gt=0"`
	StockQuantity int     `json:"stock_quantity" validate:"gte=0"`
	CategoryID    *int64  `json:"category_id" validate:"omitempty,gt=0"`
}

type UpdateProductPayload struct {
	Name          string  `json:"name" validate:"omitempty,max=200"`
	Description   *string `json:"description" validate:"omitempty,max=5000"`
	Price         int64   `json:"price" validate:"omitempty,gt=0"`
	StockQuantity *int    `json:"stock_quantity" validate:"omitempty,gte=0"`
	CategoryID    *int64  `json:"category_id" validate:"omitempty,gt=0"`
}

func (app *application) createProductHandler(w http.ResponseWriter, r *http.Request) {
	actor := getActorFromContext(r)
	if !app.guard.CanDo(actor, acl.ActionCreate, acl.ResourceProduct) {
		app.forbiddenResponse(w, r)
		return
	}

	var payload CreateProductPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	// The slug is always derived from the name, never taken from the client.
	product := &products.Product{
		Name:          payload.Name,
		Slug:          products.Slugify(payload.Name),
		Description:   payload.Description,
		Price:         payload.Price,
		StockQuantity: payload.StockQuantity,
		CategoryID:    payload.CategoryID,
	}

	created, err := app.store.Products.Create(r.Context(), product)
	if err != nil {
		switch {
		case errors.Is(err, products.ErrDuplicateSlug):
			app.conflictResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, created); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) getProductHandler(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	product, err := app.store.Products.GetByID(r.Context(), productID)
	if err != nil {
		switch {
		case errors.Is(err, products.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, product); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) getProductBySlugHandler(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	product, err := app.store.Products.GetBySlug(r.Context(), slug)
	if err != nil {
		switch {
		case errors.Is(err, products.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, product); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) listProductsHandler(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	list, total, err := app.store.Products.List(r.Context(), limit, offset)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	resp := map[string]any{
		"products": list,
		"total":    total,
	}
	if err := app.jsonResponse(w, http.StatusOK, resp); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) updateProductHandler(w http.ResponseWriter, r *http.Request) {
	actor := getActorFromContext(r)
	if !app.guard.CanDo(actor, acl.ActionUpdate, acl.ResourceProduct) {
		app.forbiddenResponse(w, r)
		return
	}

	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload UpdateProductPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	product := &products.Product{
		ID:          productID,
		Name:        payload.Name,
		Description: payload.Description,
		Price:       payload.Price,
		CategoryID:  payload.CategoryID,
	}
	if payload.Name != "" {
		product.Slug = products.Slugify(payload.Name)
	}
	if payload.StockQuantity != nil {
		product.StockQuantity = *payload.StockQuantity
	}

	updated, err := app.store.Products.Update(r.Context(), product)
	if err != nil {
		switch {
		case errors.Is(err, products.ErrNotFound):
			app.notFoundResponse(w, r, err)
		case errors.Is(err, products.ErrDuplicateSlug):
			app.conflictResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, updated); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) deleteProductHandler(w http.ResponseWriter, r *http.Request) {
	actor := getActorFromContext(r)
	if !app.guard.CanDo(actor, acl.ActionDelete, acl.ResourceProduct) {
		app.forbiddenResponse(w, r)
		return
	}

	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.Products.Delete(r.Context(), productID); err != nil {
		switch {
		case errors.Is(err, products.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
