package transport

import (
	"github.com/valyala/fasthttp"
)

// FromRequestCtx copies the parts of a fasthttp request the actions need.
func FromRequestCtx(ctx *fasthttp.RequestCtx) Request {
	req := Request{
		Method:  string(ctx.Method()),
		Path:    string(ctx.Path()),
		Headers: make(map[string]string),
		Query:   make(map[string]string),
		Body:    append([]byte(nil), ctx.PostBody()...),
	}
	ctx.Request.Header.VisitAll(func(key, value []byte) {
		req.Headers[string(key)] = string(value)
	})
	ctx.QueryArgs().VisitAll(func(key, value []byte) {
		k := string(key)
		if _, seen := req.Query[k]; !seen {
			req.Query[k] = string(value)
		}
	})
	return req
}

// Apply writes the response onto a fasthttp context.
func (r Response) Apply(ctx *fasthttp.RequestCtx) {
	for k, v := range r.Headers {
		ctx.Response.Header.Set(k, v)
	}
	ctx.SetStatusCode(r.StatusCode)
	ctx.SetBody(r.Body)
}
