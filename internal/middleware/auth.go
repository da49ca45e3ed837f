package middleware

import (
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/sessionauth/api/transport"
	"github.com/fastygo/sessionauth/pkg/httpcontext"
	appLogger "github.com/fastygo/sessionauth/pkg/logger"
	authUC "github.com/fastygo/sessionauth/usecase/auth"
)

// UserIDHeader carries the authenticated principal to downstream handlers.
const UserIDHeader = "X-User-ID"

// RequireSession rejects requests without a valid session token and forwards
// the rest with UserIDHeader set.
func RequireSession(uc *authUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if adapter == nil {
		adapter = httpcontext.NewAdapter(0)
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			stdCtx, cancel := adapter.Attach(ctx)
			defer cancel()

			// never trust a client-supplied principal
			ctx.Request.Header.Del(UserIDHeader)

			session, err := uc.Validate(stdCtx, transport.ExtractToken(transport.FromRequestCtx(ctx)))
			if err != nil {
				resp := transport.FromError(err)
				if resp.StatusCode >= fasthttp.StatusInternalServerError {
					appLogger.WithRequestID(stdCtx, logger).Error("session check failed", zap.Error(err))
				}
				resp.Apply(ctx)
				return
			}

			ctx.Request.Header.Set(UserIDHeader, session.UserID)
			next(ctx)
		}
	}
}
