package main

import (
	"errors"
	"net/http"
	"strconv"

	"storefront/internal/acl"
	"storefront/internal/domain/orders"
	"storefront/internal/domain/products"

	"github.com/go-chi/chi/v5"
)

func (app *application) createOrderHandler(w http.ResponseWriter, r *http.Request) {
	var payload orders.CreateInput
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	actor := getActorFromContext(r)

	order, err := app.orders.Create(r.Context(), actor, payload)
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrUnauthorized):
			app.forbiddenResponse(w, r)
		case errors.Is(err, orders.ErrEmptyOrder):
			app.badRequestResponse(w, r, err)
		case errors.Is(err, products.ErrNotFound):
			app.notFoundResponse(w, r, err)
		case errors.Is(err, products.ErrInsufficientStock):
			app.conflictResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, order); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) getOrderHandler(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	order, err := app.orders.Get(r.Context(), orderID)
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, order); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) listOrdersHandler(w http.ResponseWriter, r *http.Request) {
	actor := getActorFromContext(r)
	if !app.guard.CanDo(actor, acl.ActionList, acl.ResourceOrder) {
		app.forbiddenResponse(w, r)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	list, total, err := app.orders.List(r.Context(), limit, offset)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	resp := map[string]any{
		"orders": list,
		"total":  total,
	}
	if err := app.jsonResponse(w, http.StatusOK, resp); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) listMyOrdersHandler(w http.ResponseWriter, r *http.Request) {
	actor := getActorFromContext(r)

	list, err := app.orders.ListMine(r.Context(), actor)
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrUnauthorized):
			app.forbiddenResponse(w, r)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) updateOrderHandler(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload orders.UpdateInput
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	actor := getActorFromContext(r)

	order, err := app.orders.Update(r.Context(), actor, orderID, payload)
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrUnauthorized):
			app.forbiddenResponse(w, r)
		case errors.Is(err, orders.ErrNotFound), errors.Is(err, orders.ErrUserNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, order); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) deleteOrderHandler(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	actor := getActorFromContext(r)

	if err := app.orders.Delete(r.Context(), actor, orderID); err != nil {
		switch {
		case errors.Is(err, orders.ErrUnauthorized):
			app.forbiddenResponse(w, r)
		case errors.Is(err, orders.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
