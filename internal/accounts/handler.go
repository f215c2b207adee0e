package accounts

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/parleyhq/parley/internal/platform/httpx"
	"github.com/parleyhq/parley/internal/shared"
)

// Handler wires the profile endpoints. Every route here sits behind the
// authentication gate, so an identity is always present in the context.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers profile routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Put("/update/{id}", h.update)
	r.Delete("/delete/{id}", h.delete)
}

type listResponse struct {
	Message string `json:"message"`
	Data    []User `json:"data"`
}

type userResponse struct {
	Message string `json:"message"`
	User    *User  `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	identity, _ := shared.IdentityFromContext(r.Context())
	users, err := h.service.ListOthers(r.Context(), identity.ID)
	if err != nil {
		h.logger.Error("list users", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, listResponse{Message: "All users fetched successfully", Data: users})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if !errors.Is(err, shared.ErrUserNotFound) {
			h.logger.Error("get user", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, userResponse{Message: "User found successfully", User: user})
}

type updateRequest struct {
	FullName  *string `json:"fullname"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	AvatarURL *string `json:"thumb"`
	// Password is decoded only to reject it. The stored hash can never be
	// replaced through this endpoint; a fresh registration or a dedicated
	// credential flow are the only writers.
	Password *string `json:"password"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if req.Password != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "password update not allowed here")
		return
	}
	if req.Email != nil {
		if err := h.validator.Var(*req.Email, "required,email"); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid email address")
			return
		}
	}

	user, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), UpdateInput{
		FullName:  req.FullName,
		Email:     req.Email,
		Phone:     req.Phone,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		if !errors.Is(err, shared.ErrUserNotFound) && !errors.Is(err, shared.ErrConflict) {
			h.logger.Error("update user", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, userResponse{Message: "User updated successfully", User: user})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		if !errors.Is(err, shared.ErrUserNotFound) {
			h.logger.Error("delete user", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, messageResponse{Message: "User deleted successfully"})
}
