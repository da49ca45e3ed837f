package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/sessionauth/api/transport"
	"github.com/fastygo/sessionauth/domain"
	"github.com/fastygo/sessionauth/pkg/httpcontext"
)

// SessionHandler serves routes that sit behind middleware.RequireSession.
type SessionHandler struct {
	baseHandler
}

func NewSessionHandler(adapter *httpcontext.Adapter, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{baseHandler: newBaseHandler(adapter, logger)}
}

// @Summary Current principal
// @Tags session
// @Router /api/v1/session [get]
func (h *SessionHandler) Current(ctx *fasthttp.RequestCtx) {
	userID := string(ctx.Request.Header.Peek("X-User-ID"))
	if userID == "" {
		transport.FromError(domain.ErrMissingToken).Apply(ctx)
		return
	}
	transport.NewResponse(http.StatusOK, map[string]interface{}{
		"user": transport.UserPayload{Username: userID},
	}).Apply(ctx)
}
