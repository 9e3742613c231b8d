package main

import (
	"errors"
	"net/http"
	"strconv"

	"storefront/internal/acl"
	"storefront/internal/domain/blogs"

	"github.com/go-chi/chi/v5"
)

type CreateBlogPayload struct {
	Title   string `json:"title" validate:"required,max=200"`
	Slug    string `json:"slug" validate:"required,slug,max=200"`
	Content string `json:"content" validate:"required"`
}

type UpdateBlogPayload struct {
	Title   string `json:"title" validate:"omitempty,max=200"`
	Slug    string `json:"slug" validate:"omitempty,slug,max=200"`
	Content string `json:"content" validate:"omitempty"`
}

func (app *application) createBlogHandler(w http.ResponseWriter, r *http.Request) {
	actor := getActorFromContext(r)
	if !app.guard.CanDo(actor, acl.ActionCreate, acl.ResourceBlog) {
		app.forbiddenResponse(w, r)
		return
	}

	var payload CreateBlogPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	blog := &blogs.Blog{
		Title:    payload.Title,
		Slug:     payload.Slug,
		Content:  payload.Content,
		AuthorID: actor.ID,
	}

	created, err := app.store.Blogs.Create(r.Context(), blog)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, created); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) getBlogHandler(w http.ResponseWriter, r *http.Request) {
	blogID, err := strconv.ParseInt(chi.URLParam(r, "blogID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	blog, err := app.store.Blogs.GetByID(r.Context(), blogID)
	if err != nil {
		switch {
		case errors.Is(err, blogs.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, blog); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) listBlogsHandler(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	list, total, err := app.store.Blogs.List(r.Context(), limit, offset)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	resp := map[string]any{
		"blogs": list,
		"total": total,
	}
	if err := app.jsonResponse(w, http.StatusOK, resp); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) updateBlogHandler(w http.ResponseWriter, r *http.Request) {
	actor := getActorFromContext(r)
	if !app.guard.CanDo(actor, acl.ActionUpdate, acl.ResourceBlog) {
		app.forbiddenResponse(w, r)
		return
	}

	blogID, err := strconv.ParseInt(chi.URLParam(r, "blogID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload UpdateBlogPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	blog := &blogs.Blog{
		ID:      blogID,
		Title:   payload.Title,
		Slug:    payload.Slug,
		Content: payload.Content,
	}

	updated, err := app.store.Blogs.Update(r.Context(), blog)
	if err != nil {
		switch {
		case errors.Is(err, blogs.ErrNotFound):
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

func (app *application) deleteBlogHandler(w http.ResponseWriter, r *http.Request) {
	actor := getActorFromContext(r)
	if !app.guard.CanDo(actor, acl.ActionDelete, acl.ResourceBlog) {
		app.forbiddenResponse(w, r)
		return
	}

	blogID, err := strconv.ParseInt(chi.URLParam(r, "blogID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.Blogs.Delete(r.Context(), blogID); err != nil {
		switch {
		case errors.Is(err, blogs.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
