// AngelaMos | 2026
// handler.go

package review

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/carterperez-dev/cinecatalog/internal/core"
	"github.com/carterperez-dev/cinecatalog/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
	}
}

// RegisterRoutes mounts the review endpoints. writeLimiter, when set, wraps
// only the mutating routes; it runs after the gate so it can key by caller.
func (h *Handler) RegisterRoutes(r chi.Router, writeLimiter func(http.Handler) http.Handler) {
	r.Route("/reviews", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if writeLimiter != nil {
				r.Use(writeLimiter)
			}
			r.Post("/", h.Create)
			r.Put("/{reviewID}", h.Update)
			r.Delete("/{reviewID}", h.Delete)
		})

		r.Get("/{reviewID}", h.Get)

		r.Get("/movie/{movieID}", h.ListByMovie)
		r.Get("/movie/{movieID}/average", h.AverageByMovie)
		r.Get("/movie/{movieID}/count", h.CountByMovie)

		r.Get("/user/{userID}", h.ListByUser)
		r.Get("/user/{userID}/movie/{movieID}", h.GetByUserAndMovie)
	})
}

// RegisterUserRoutes mounts the caller's own reviews on a router already
// scoped to /users.
func (h *Handler) RegisterUserRoutes(r chi.Router) {
	r.Get("/me/reviews", h.ListMine)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	review, err := h.service.Create(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		writeError(w, err)
		return
	}

	core.Created(w, ToReviewResponse(review))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(w, r, "reviewID")
	if !ok {
		return
	}

	review, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToReviewResponse(review))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(w, r, "reviewID")
	if !ok {
		return
	}

	var req UpdateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	review, err := h.service.Update(r.Context(), middleware.GetUserID(r.Context()), id, req)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToReviewResponse(review))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(w, r, "reviewID")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), middleware.GetUserID(r.Context()), id); err != nil {
		writeError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) ListByMovie(w http.ResponseWriter, r *http.Request) {
	movieID, ok := int64Param(w, r, "movieID")
	if !ok {
		return
	}

	params := listParams(r)
	reviews, total, err := h.service.ListByMovie(r.Context(), movieID, params)
	if err != nil {
		writeError(w, err)
		return
	}

	core.Paginated(w, ToReviewResponseList(reviews), params.Page, params.PageSize, total)
}

func (h *Handler) AverageByMovie(w http.ResponseWriter, r *http.Request) {
	movieID, ok := int64Param(w, r, "movieID")
	if !ok {
		return
	}

	avg, err := h.service.AverageByMovie(r.Context(), movieID)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, AverageResponse{MovieID: movieID, Average: avg})
}

func (h *Handler) CountByMovie(w http.ResponseWriter, r *http.Request) {
	movieID, ok := int64Param(w, r, "movieID")
	if !ok {
		return
	}

	n, err := h.service.CountByMovie(r.Context(), movieID)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, CountResponse{MovieID: movieID, Count: n})
}

func (h *Handler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := uuidParam(w, r)
	if !ok {
		return
	}

	h.listUser(w, r, userID)
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	h.listUser(w, r, middleware.GetUserID(r.Context()))
}

func (h *Handler) listUser(w http.ResponseWriter, r *http.Request, userID string) {
	params := listParams(r)
	reviews, total, err := h.service.ListByUser(r.Context(), userID, params)
	if err != nil {
		writeError(w, err)
		return
	}

	core.Paginated(w, ToReviewResponseList(reviews), params.Page, params.PageSize, total)
}

func (h *Handler) GetByUserAndMovie(w http.ResponseWriter, r *http.Request) {
	userID, ok := uuidParam(w, r)
	if !ok {
		return
	}

	movieID, ok := int64Param(w, r, "movieID")
	if !ok {
		return
	}

	review, err := h.service.GetByUserAndMovie(r.Context(), userID, movieID)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToReviewResponse(review))
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrReviewAlreadyExists):
		core.JSONError(w, core.NewAppError(
			err,
			"you have already reviewed this movie",
			http.StatusConflict,
			"REVIEW_ALREADY_EXISTS",
		))
	case errors.Is(err, ErrReviewNotFound):
		core.JSONError(w, core.NewAppError(
			err,
			"review not found",
			http.StatusNotFound,
			"REVIEW_NOT_FOUND",
		))
	case errors.Is(err, ErrMovieNotFound):
		core.JSONError(w, core.NewAppError(
			err,
			"movie not found",
			http.StatusNotFound,
			"MOVIE_NOT_FOUND",
		))
	case errors.Is(err, core.ErrForbidden):
		core.Forbidden(w, "only the author can modify this review")
	case errors.Is(err, core.ErrUnauthorized):
		core.Unauthorized(w, "")
	case errors.Is(err, core.ErrInvalidInput):
		core.BadRequest(w, "rating must be between 1 and 5 and comment at most 1000 characters")
	default:
		core.InternalServerError(w, err)
	}
}

func int64Param(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id < 1 {
		core.BadRequest(w, "invalid "+name)
		return 0, false
	}
	return id, true
}

func uuidParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		core.BadRequest(w, "invalid userID")
		return "", false
	}
	return id.String(), true
}

func listParams(r *http.Request) ListParams {
	params := ListParams{
		Page:     parseIntQuery(r, "page", 1),
		PageSize: parseIntQuery(r, "pageSize", 20),
	}
	params.Normalize()
	return params
}

func parseIntQuery(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return parsed
}
