package post

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/inkwell/core"
	"github.com/dmitrymomot/inkwell/modules/auth"
)

// maxUploadBytes caps cover image uploads.
const maxUploadBytes = 10 << 20 // 10 MiB

// Handler exposes the post HTTP surface.
type Handler struct {
	svc      *Service
	uploader *Uploader
	mw       *auth.Middleware
	render   *core.ErrorRenderer
}

// NewHandler builds the handler.
func NewHandler(svc *Service, uploader *Uploader, mw *auth.Middleware, render *core.ErrorRenderer) *Handler {
	return &Handler{svc: svc, uploader: uploader, mw: mw, render: render}
}

// Router returns the routes mounted under /posts.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	// Public, approved posts only.
	r.Get("/simple", h.listPublic)
	r.Get("/simple/{slug}", h.getPublic)

	// Author-scoped CRUD.
	r.Route("/my-posts", func(r chi.Router) {
		r.Use(h.mw.Authenticate)
		r.Use(h.mw.RequireRole(auth.RoleAuthor, auth.RoleAdmin))

		r.Get("/", h.listMine)
		r.Post("/", h.create)
		r.Get("/{postID}", h.getMine)
		r.Patch("/{postID}", h.updateMine)
		r.Delete("/{postID}", h.deleteMine)
		r.Post("/{postID}/cover", h.uploadCover)
	})

	// Moderation.
	r.Route("/all-posts", func(r chi.Router) {
		r.Use(h.mw.Authenticate)
		r.Use(h.mw.RequireRole(auth.RoleAdmin))

		r.Get("/", h.listAll)
		r.Get("/{postID}", h.getAny)
		r.Post("/{postID}/approve", h.approve)
		r.Post("/{postID}/reject", h.reject)
	})

	return r
}

// parseListQuery reads filter, sort, field limiting, and pagination from the
// URL query.
func parseListQuery(r *http.Request, allowStatus bool) ListQuery {
	q := ListQuery{
		Category: r.URL.Query().Get("category"),
		Sort:     r.URL.Query().Get("sort"),
		Fields:   r.URL.Query().Get("fields"),
	}

	if page, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && page > 0 {
		q.Page = page
	}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && limit > 0 {
		q.Limit = limit
	}

	if allowStatus {
		if raw, err := strconv.Atoi(r.URL.Query().Get("status")); err == nil {
			if status := Status(raw); status.Valid() {
				q.Status = &status
			}
		}
	}

	return q
}

func (h *Handler) listPublic(w http.ResponseWriter, r *http.Request) {
	posts, err := h.svc.ListPublic(r.Context(), parseListQuery(r, false))
	if err != nil {
		h.render.Render(r.Context(), w, mapPostError(err))
		return
	}
	core.Success(w, http.StatusOK, map[string]any{
		"results": len(posts),
		"posts":   posts,
	})
}

func (h *Handler) getPublic(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetPublic(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.render.Render(r.Context(), w, mapPostError(err))
		return
	}
	core.Success(w, http.StatusOK, map[string]any{"post": p})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.GetUserFromContext(r.Context())

	var params PostParams
	if err := core.DecodeJSON(r, &params); err != nil {
		h.render.Render(r.Context(), w, err)
		return
	}

	p, err := h.svc.Create(r.Context(), user.ID, params)
	if err != nil {
		h.render.Render(r.Context(), w, mapPostError(err))
		return
	}
	core.Success(w, http.StatusCreated, map[string]any{"post": p})
}

func (h *Handler) listMine(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.GetUserFromContext(r.Context())

	posts, err := h.svc.ListMine(r.Context(), user.ID, parseListQuery(r, true))
	if err != nil {
		h.render.Render(r.Context(), w, mapPostError(err))
		return
	}
	core.Success(w, http.StatusOK, map[string]any{
		"results": len(posts),
		"posts":   posts,
	})
}

func (h *Handler) getMine(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.GetUserFromContext(r.Context())

	p, err := h.svc.GetMine(r.Context(), user.ID, chi.URLParam(r, "postID"))
	if err != nil {
		h.render.Render(r.Context(), w, mapPostError(err))
		return
	}
	core.Success(w, http.StatusOK, map[string]any{"post": p})
}

func (h *Handler) updateMine(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.GetUserFromContext(r.Context())

	var params PostParams
	if err := core.DecodeJSON(r, &params); err != nil {
		h.render.Render(r.Context(), w, err)
		return
	}

	p, err := h.svc.UpdateMine(r.Context(), user.ID, chi.URLParam(r, "postID"), params)
	if err != nil {
		h.render.Render(r.Context(), w, mapPostError(err))
		return
	}
	core.Success(w, http.StatusOK, map[string]any{"post": p})
}

func (h *Handler) deleteMine(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.GetUserFromContext(r.Context())

	if err := h.svc.DeleteMine(r.Context(), user.ID, chi.URLParam(r, "postID")); err != nil {
		h.render.Render(r.Context(), w, mapPostError(err))
		return
	}
	core.NoContent(w)
}

func (h *Handler) uploadCover(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.GetUserFromContext(r.Context())

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.render.Render(r.Context(), w, core.NewHTTPError(http.StatusBadRequest, "invalid multipart form"))
		return
	}

	f, fh, err := r.FormFile("cover")
	if err != nil {
		h.render.Render(r.Context(), w, core.NewHTTPError(http.StatusBadRequest, "cover file is required"))
		return
	}
	f.Close() // the uploader re-opens the header itself

	url, err := h.uploader.UploadCover(r.Context(), user.ID, chi.URLParam(r, "postID"), fh)
	if err != nil {
		h.render.Render(r.Context(), w, mapPostError(err))
		return
	}
	core.Success(w, http.StatusOK, map[string]any{"coverImage": url})
}

func (h *Handler) listAll(w http.ResponseWriter, r *http.Request) {
	posts, err := h.svc.List(r.Context(), parseListQuery(r, true))
	if err != nil {
		h.render.Render(r.Context(), w, mapPostError(err))
		return
	}
	core.Success(w, http.StatusOK, map[string]any{
		"results": len(posts),
		"posts":   posts,
	})
}

func (h *Handler) getAny(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Get(r.Context(), chi.URLParam(r, "postID"))
	if err != nil {
		h.render.Render(r.Context(), w, mapPostError(err))
		return
	}
	core.Success(w, http.StatusOK, map[string]any{"post": p})
}

func (h *Handler) approve(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Approve(r.Context(), chi.URLParam(r, "postID")); err != nil {
		h.render.Render(r.Context(), w, mapPostError(err))
		return
	}
	core.SuccessMessage(w, http.StatusOK, "post approved")
}

func (h *Handler) reject(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Reject(r.Context(), chi.URLParam(r, "postID")); err != nil {
		h.render.Render(r.Context(), w, mapPostError(err))
		return
	}
	core.SuccessMessage(w, http.StatusOK, "post rejected")
}

// mapPostError translates service sentinels into HTTP errors.
func mapPostError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrPostNotFound):
		return core.NewHTTPError(http.StatusNotFound, "post not found")
	case errors.Is(err, ErrDuplicateTitle):
		return core.NewHTTPError(http.StatusConflict, "a post with that title already exists")
	case errors.Is(err, ErrNotPostOwner):
		return core.NewHTTPError(http.StatusForbidden, "you can only manage your own posts")
	case errors.Is(err, ErrNotAnImage):
		return core.NewHTTPError(http.StatusBadRequest, "uploaded file must be an image")
	default:
		return err
	}
}
