package httpcontext

import (
	"context"
	"testing"
	"time"

	"github.com/valyala/fasthttp"

	appLogger "github.com/fastygo/sessionauth/pkg/logger"
)

func TestAttachRecordsRequestMetadata(t *testing.T) {
	reqCtx := &fasthttp.RequestCtx{}
	reqCtx.Request.Header.Set("X-Request-ID", "req-42")
	reqCtx.Request.Header.SetUserAgent("curl/8.5.0")

	ctx, cancel := NewAdapter(time.Second).Attach(reqCtx)
	defer cancel()

	if got := appLogger.RequestID(ctx); got != "req-42" {
		t.Errorf("request id = %q, want req-42", got)
	}
	if got := string(reqCtx.Response.Header.Peek("X-Request-ID")); got != "req-42" {
		t.Errorf("X-Request-ID response header = %q", got)
	}
	if _, ok := ctx.Deadline(); !ok {
		t.Error("attached context has no deadline")
	}

	fields := map[string]string{}
	for _, f := range ClientFields(ctx) {
		fields[f.Key] = f.String
	}
	if fields["user_agent"] != "curl/8.5.0" {
		t.Errorf("user_agent = %q", fields["user_agent"])
	}
	if _, ok := fields["remote_addr"]; !ok {
		t.Error("remote_addr field missing")
	}
}

func TestClientFieldsSkipsMissingValues(t *testing.T) {
	if fields := ClientFields(context.Background()); len(fields) != 0 {
		t.Errorf("got %d fields from a bare context, want 0", len(fields))
	}

	ctx := context.WithValue(context.Background(), KeyUserAgent, "")
	if fields := ClientFields(ctx); len(fields) != 0 {
		t.Errorf("empty user agent produced %d fields", len(fields))
	}
}
