package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/parleyhq/parley/internal/accounts"
	"github.com/parleyhq/parley/internal/platform/httpx"
	"github.com/parleyhq/parley/internal/session"
	"github.com/parleyhq/parley/internal/shared"
	"github.com/parleyhq/parley/internal/token"
)

// Handler wires HTTP endpoints for registration, login and logout.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	accounts  *accounts.Service
	tokens    *token.Manager
	cookies   *session.Transport
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, accountSvc *accounts.Service, tokens *token.Manager, cookies *session.Transport) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		accounts:  accountSvc,
		tokens:    tokens,
		cookies:   cookies,
		validator: validator.New(),
	}
}

// MountPublic registers the routes that do not require a session.
func (h *Handler) MountPublic(r chi.Router) {
	r.Post("/register", h.handleRegister)
	r.Post("/login", h.handleLogin)
}

// MountProtected registers the routes that sit behind the gate.
func (h *Handler) MountProtected(r chi.Router) {
	r.Post("/logout", h.handleLogout)
}

type registerRequest struct {
	FullName string `json:"fullname" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
	Thumb    string `json:"thumb"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	Message string         `json:"message"`
	User    *accounts.User `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", validationDetail(err))
		return
	}

	user, err := h.accounts.Register(r.Context(), accounts.RegisterInput{
		FullName:  req.FullName,
		Email:     req.Email,
		Phone:     req.Phone,
		Password:  req.Password,
		AvatarURL: req.Thumb,
	})
	if err != nil {
		if !errors.Is(err, shared.ErrConflict) {
			h.logger.Error("register user", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}

	if err := h.startSession(w, user.ID); err != nil {
		h.logger.Error("issue token after register", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, sessionResponse{Message: "User registered successfully", User: user})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", validationDetail(err))
		return
	}

	user, err := h.service.VerifyCredentials(r.Context(), req.Email, req.Password)
	if err != nil {
		if !errors.Is(err, shared.ErrInvalidCredentials) {
			h.logger.Error("verify credentials", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}

	if err := h.startSession(w, user.ID); err != nil {
		h.logger.Error("issue token after login", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, sessionResponse{Message: "Logged in successfully", User: user})
}

// handleLogout clears the cookie. The token itself stays valid until expiry;
// only the client-held copy goes away.
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	h.cookies.Clear(w)
	httpx.JSON(w, http.StatusOK, messageResponse{Message: "Logged out successfully"})
}

func (h *Handler) startSession(w http.ResponseWriter, userID string) error {
	tok, err := h.tokens.Issue(userID)
	if err != nil {
		return err
	}
	h.cookies.Attach(w, tok)
	return nil
}

func validationDetail(err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return "invalid field: " + fieldErrs[0].Field()
	}
	return "validation failed"
}
