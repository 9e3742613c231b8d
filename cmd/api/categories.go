package main

import (
	"errors"
	"net/http"
	"strconv"

	"storefront/internal/acl"
	"storefront/internal/domain/categories"

	"github.com/go-chi/chi/v5"
)

type CreateCategoryPayload struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Slug        string  `json:"slug" validate:"required,slug,max=100"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

type UpdateCategoryPayload struct {
	Name        string  `json:"name" validate:"omitempty,max=100"`
	Slug        string  `json:"slug" validate:"omitempty,slug,max=100"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

func (app *application) createCategoryHandler(w http.ResponseWriter, r *http.Request) {
	actor := getActorFromContext(r)
	if !app.guard.CanDo(actor, acl.ActionCreate, acl.ResourceCategory) {
		app.forbiddenResponse(w, r)
		return
	}

	var payload CreateCategoryPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	category := &categories.Category{
		Name:        payload.Name,
		Slug:        payload.Slug,
		Description: payload.Description,
	}

	created, err := app.store.Categories.Create(r.Context(), category)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, created); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) getCategoryHandler(w http.ResponseWriter, r *http.Request) {
	categoryID, err := strconv.ParseInt(chi.URLParam(r, "categoryID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	category, err := app.store.Categories.GetByID(r.Context(), categoryID)
	if err != nil {
		switch {
		case errors.Is(err, categories.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, category); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) listCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	list, total, err := app.store.Categories.List(r.Context(), limit, offset)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	resp := map[string]any{
		"categories": list,
		"total":      total,
	}
	if err := app.jsonResponse(w, http.StatusOK, resp); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) updateCategoryHandler(w http.ResponseWriter, r *http.Request) {
	actor := getActorFromContext(r)
	if !app.guard.CanDo(actor, acl.ActionUpdate, acl.ResourceCategory) {
		app.forbiddenResponse(w, r)
		return
	}

	categoryID, err := strconv.ParseInt(chi.URLParam(r, "categoryID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload UpdateCategoryPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	category := &categories.Category{
		ID:          categoryID,
		Name:        payload.Name,
		Slug:        payload.Slug,
		Description: payload.Description,
	}

	updated, err := app.store.Categories.Update(r.Context(), category)
	if err != nil {
		switch {
		case errors.Is(err, categories.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, updated); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) deleteCategoryHandler(w http.ResponseWriter, r *http.Request) {
	actor := getActorFromContext(r)
	if !app.guard.CanDo(actor, acl.ActionDelete, acl.ResourceCategory) {
		app.forbiddenResponse(w, r)
		return
	}

	categoryID, err := strconv.ParseInt(chi.URLParam(r, "categoryID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.Categories.Delete(r.Context(), categoryID); err != nil {
		switch {
		case errors.Is(err, categories.ErrNotFound):
			app.notFoundResponse(w, r, err)
		case errors.Is(err, categories.ErrHasProducts):
			app.conflictResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
