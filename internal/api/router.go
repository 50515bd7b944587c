package api

import (
	"net/http"
	"time"

	"github.com/Vivek290100/CodeMaster/internal/api/handler"
	"github.com/Vivek290100/CodeMaster/internal/api/middleware"
	"github.com/Vivek290100/CodeMaster/internal/app/service"
	"github.com/Vivek290100/CodeMaster/internal/common/security"
	"github.com/Vivek290100/CodeMaster/internal/platform/executor"
	"github.com/Vivek290100/CodeMaster/internal/platform/metrics"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/jwtauth/v5"
	"go.uber.org/zap"
)

type Services struct {
	Auth      *service.AuthService
	Problem   *service.ProblemService
	Execution *service.ExecutionService
	// Jobs is nil when the server runs without Redis.
	Jobs     *service.ExecutionJobService
	Runtimes handler.RuntimeCatalog
	Executor executor.Executor
}

type Options struct {
	CORSOrigins []string
	// RequestTimeout must cover a full synchronous execution.
	RequestTimeout time.Duration
}

func NewRouter(svc Services, m *metrics.Metrics, log *zap.Logger, opts Options) http.Handler {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 2 * time.Minute
	}

	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(opts.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Location"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Puts the bearer token, if any, in the context. Authenticator enforces it.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.Route("/api/v1", func(v1 chi.Router) {
		authHandler := handler.NewAuthHandler(svc.Auth)
		v1.Route("/auth", authHandler.RegisterRoutes)

		problemHandler := handler.NewProblemHandler(svc.Problem, svc.Execution)
		v1.Route("/problems", problemHandler.RegisterRoutes)

		executionHandler := handler.NewExecutionHandler(svc.Jobs)
		v1.Route("/executions", executionHandler.RegisterRoutes)

		runtimeHandler := handler.NewRuntimeHandler(svc.Runtimes, svc.Executor)
		v1.Route("/runtimes", runtimeHandler.RegisterRoutes)
	})

	return r
}
