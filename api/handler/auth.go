package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/fastygo/sessionauth/api/transport"
	"github.com/fastygo/sessionauth/pkg/httpcontext"
	authUC "github.com/fastygo/sessionauth/usecase/auth"
)

type AuthHandler struct {
	baseHandler
	uc *authUC.UseCase
}

func NewAuthHandler(uc *authUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// Register wires the login, logout and validate actions into d.
func (h *AuthHandler) Register(d *Dispatcher) {
	d.Register(http.MethodPost, "/login", h.Login)
	d.Register(http.MethodPost, "/logout", h.Logout)
	d.Register(http.MethodGet, "/validate", h.Validate)
}

// @Summary Issue a new session
// @Tags auth
// @Router /auth/login [post]
func (h *AuthHandler) Login(ctx context.Context, req transport.Request) (transport.Response, error) {
	var body transport.LoginRequest
	if len(bytes.TrimSpace(req.Body)) > 0 {
		if err := json.Unmarshal(req.Body, &body); err != nil {
			// undecodable input carries no usable credentials
			body = transport.LoginRequest{}
		}
	}

	session, err := h.uc.Login(ctx, body.Username, body.Password)
	if err != nil {
		return transport.Response{}, err
	}

	return transport.NewResponse(http.StatusOK, transport.LoginResponse{
		Success:      true,
		SessionToken: session.Token,
		ExpiresAt:    session.ExpiresAt.Unix(),
		User:         transport.UserPayload{Username: session.UserID},
	}), nil
}

// @Summary Revoke a session
// @Tags auth
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(ctx context.Context, req transport.Request) (transport.Response, error) {
	if err := h.uc.Logout(ctx, transport.ExtractToken(req)); err != nil {
		return transport.Response{}, err
	}
	return transport.NewResponse(http.StatusOK, transport.LogoutResponse{
		Success: true,
		Message: "Logged out successfully",
	}), nil
}

// @Summary Validate a session token
// @Tags auth
// @Router /auth/validate [get]
func (h *AuthHandler) Validate(ctx context.Context, req transport.Request) (transport.Response, error) {
	session, err := h.uc.Validate(ctx, transport.ExtractToken(req))
	if err != nil {
		return transport.Response{}, err
	}
	return transport.NewResponse(http.StatusOK, transport.ValidateResponse{
		Valid:     true,
		User:      transport.UserPayload{Username: session.UserID},
		ExpiresAt: session.ExpiresAt.Unix(),
	}), nil
}
