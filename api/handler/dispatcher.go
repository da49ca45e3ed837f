package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/sessionauth/api/transport"
	"github.com/fastygo/sessionauth/domain"
	"github.com/fastygo/sessionauth/pkg/httpcontext"
	appLogger "github.com/fastygo/sessionauth/pkg/logger"
)

// Action handles one routed request. Returned errors are mapped through
// transport.StatusFor; only the dispatcher turns them into responses.
type Action func(ctx context.Context, req transport.Request) (transport.Response, error)

type route struct {
	method string
	suffix string
	action Action
}

// Dispatcher routes requests by method and path suffix. It always returns a
// structured response: unmatched requests get 404, failures and panics get 500.
type Dispatcher struct {
	baseHandler
	mu     sync.RWMutex
	routes []route
}

func NewDispatcher(adapter *httpcontext.Adapter, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{baseHandler: newBaseHandler(adapter, logger)}
}

// Register adds a route. Routes are matched in registration order.
func (d *Dispatcher) Register(method, suffix string, action Action) {
	if action == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.routes = append(d.routes, route{method: method, suffix: suffix, action: action})
}

// Dispatch runs the action matching req.
func (d *Dispatcher) Dispatch(ctx context.Context, req transport.Request) (resp transport.Response) {
	defer func() {
		if r := recover(); r != nil {
			resp = d.respondError(ctx, domain.WrapError(domain.ErrCodeInternal, "action panicked", fmt.Errorf("%v", r)))
		}
	}()

	action := d.match(req.Method, req.Path)
	if action == nil {
		return transport.FromError(domain.ErrRouteNotFound)
	}

	resp, err := action(ctx, req)
	if err != nil {
		return d.respondError(ctx, err)
	}
	return resp
}

// Handle serves a fasthttp request through the dispatcher under the
// per-request deadline. Preflight OPTIONS requests are answered here with the
// CORS headers and never reach the route table.
func (d *Dispatcher) Handle(ctx *fasthttp.RequestCtx) {
	if ctx.IsOptions() {
		resp := transport.NewResponse(http.StatusNoContent, nil)
		resp.Body = nil
		resp.Apply(ctx)
		return
	}

	stdCtx, cancel := d.requestContext(ctx)
	defer cancel()

	req := transport.FromRequestCtx(ctx)
	resp := d.Dispatch(stdCtx, req)
	resp.Apply(ctx)

	appLogger.WithRequestID(stdCtx, d.logger).Debug("request served",
		zap.String("method", req.Method),
		zap.String("path", req.Path),
		zap.Int("status", resp.StatusCode),
	)
}

func (d *Dispatcher) match(method, path string) Action {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, r := range d.routes {
		if r.method == method && strings.HasSuffix(path, r.suffix) {
			return r.action
		}
	}
	return nil
}
