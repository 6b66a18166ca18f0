package router

import (
	"context"
	"net/http"

	"github.com/rocketman2178/healthrocket-backend/pkg/xcontext"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before or after a handler. It can derive a new context
// (e.g. attaching the authenticated user id); returning an error stops the
// chain and becomes the response.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// CloserFunc always runs at the very end of a request, after the response has
// been decided.
type CloserFunc func(ctx context.Context)

type Router struct {
	mux     *http.ServeMux
	baseCtx context.Context

	befores []MiddlewareFunc
	afters  []MiddlewareFunc
	closers []CloserFunc
}

// New creates a root router. The given context carries the ambient values
// (database, configs, logger, clock) every request context derives from.
func New(ctx context.Context) *Router {
	return &Router{mux: http.NewServeMux(), baseCtx: ctx}
}

// Branch returns a child router sharing the same mux but with an independent
// middleware chain copied from the current one.
func (r *Router) Branch() *Router {
	return &Router{
		mux:     r.mux,
		baseCtx: r.baseCtx,
		befores: append([]MiddlewareFunc{}, r.befores...),
		afters:  append([]MiddlewareFunc{}, r.afters...),
		closers: append([]CloserFunc{}, r.closers...),
	}
}

func (r *Router) Before(middleware MiddlewareFunc) {
	r.befores = append(r.befores, middleware)
}

func (r *Router) After(middleware MiddlewareFunc) {
	r.afters = append(r.afters, middleware)
}

func (r *Router) AddCloser(closer CloserFunc) {
	r.closers = append(r.closers, closer)
}

func (r *Router) Handler() http.Handler {
	return r.mux
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	register(r, http.MethodGet, pattern, handler)
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	register(r, http.MethodPost, pattern, handler)
}

func register[Request, Response any](
	r *Router, method, pattern string, handler HandlerFunc[Request, Response],
) {
	befores := append([]MiddlewareFunc{}, r.befores...)
	afters := append([]MiddlewareFunc{}, r.afters...)
	closers := append([]CloserFunc{}, r.closers...)
	baseCtx := r.baseCtx

	r.mux.HandleFunc(pattern, func(w http.ResponseWriter, req *http.Request) {
		if req.Method != method {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		ctx := xcontext.WithHTTPRequest(baseCtx, req)
		ctx = xcontext.WithHTTPWriter(ctx, w)
		ctx = xcontext.WithErrorHolder(ctx)
		ctx = xcontext.WithResponseHolder(ctx)

		func() {
			for _, m := range befores {
				newCtx, err := m(ctx)
				if err != nil {
					xcontext.SetError(ctx, err)
					return
				}
				ctx = newCtx
			}

			request, err := parseRequest[Request](req)
			if err != nil {
				xcontext.SetError(ctx, err)
				return
			}

			resp, err := handler(ctx, request)
			if err != nil {
				xcontext.SetError(ctx, err)
				return
			}

			xcontext.SetResponse(ctx, resp)

			for _, m := range afters {
				newCtx, err := m(ctx)
				if err != nil {
					xcontext.SetError(ctx, err)
					return
				}
				ctx = newCtx
			}
		}()

		writeResponse(ctx, w)

		for _, c := range closers {
			c(ctx)
		}
	})
}
