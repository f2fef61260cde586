package httpapi

import (
	"net/http"
	"runtime/debug"

	"github.com/riskibarqy/pelada-balancer/internal/platform/id"
	"github.com/riskibarqy/pelada-balancer/internal/platform/logging"
)

type RouterOptions struct {
	CORSAllowedOrigins []string
	// StaticDir holds the browser UI; empty disables the UI routes.
	StaticDir   string
	IDGenerator id.Generator
}

func NewRouter(handler *Handler, logger *logging.Logger, opts RouterOptions) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if opts.IDGenerator == nil {
		opts.IDGenerator = id.NewRandomGenerator(8)
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler)
	registerRosterRoutes(mux, handler)
	registerTeamRoutes(mux, handler)
	registerStaticRoutes(mux, opts.StaticDir)

	return RequestTracing(
		RequestID(opts.IDGenerator,
			RequestLogging(logger,
				CORS(opts.CORSAllowedOrigins,
					recoverPanic(logger, mux)))))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.ErrorContext(ctx, "panic recovered",
					"panic", rec,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
