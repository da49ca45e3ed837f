package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/fastygo/sessionauth/api/handler"
	"github.com/fastygo/sessionauth/api/transport"
	"github.com/fastygo/sessionauth/domain"
)

type Handlers struct {
	Auth    *apiHandler.Dispatcher
	Session *apiHandler.SessionHandler
	Health  *apiHandler.HealthHandler
}

// New builds the route table. Everything without an explicit route, OPTIONS
// included, falls through to the auth dispatcher, which matches on path suffix.
func New(handlers Handlers, requireSession func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.HandleMethodNotAllowed = false
	r.HandleOPTIONS = false

	r.GET("/health", handlers.Health.Check)

	// Protected routes
	r.GET("/api/v1/session", requireSession(handlers.Session.Current))

	r.NotFound = handlers.Auth.Handle
	r.PanicHandler = func(ctx *fasthttp.RequestCtx, _ interface{}) {
		transport.FromError(domain.ErrInternal).Apply(ctx)
	}

	return r
}
