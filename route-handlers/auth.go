package routehandlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/insighthub/insighthub/datastore"
	"github.com/insighthub/insighthub/webutil"
)

type AuthHandler struct {
	Users  *datastore.UserRepository
	Logger *zap.Logger
}

func NewAuthHandler(users *datastore.UserRepository, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{Users: users, Logger: logger}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) error {
	var req credentials
	if err := webutil.DecodeJSON(r, &req); err != nil {
		return err
	}

	user, err := h.Users.Register(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, datastore.ErrInvalidInput):
		return webutil.ErrBadRequest("Email and password required")
	case errors.Is(err, datastore.ErrAlreadyExists):
		return webutil.ErrBadRequestWrap("User already exists", err)
	case err != nil:
		return err
	}

	h.Logger.Info("User registered", zap.Int64("user_id", user.ID))
	webutil.RespondSuccess(w, http.StatusOK, webutil.Envelope{"user": user.Public()})
	return nil
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) error {
	var req credentials
	if err := webutil.DecodeJSON(r, &req); err != nil {
		return err
	}

	user, err := h.Users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, datastore.ErrInvalidCredentials) {
			return webutil.ErrUnauthorized("Invalid credentials")
		}
		return err
	}

	webutil.RespondSuccess(w, http.StatusOK, webutil.Envelope{"user": user.Public()})
	return nil
}
