package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/insighthub/insighthub/metrics"
	rh "github.com/insighthub/insighthub/route-handlers"
	"github.com/insighthub/insighthub/webhooks"
	"github.com/insighthub/insighthub/webutil"
)

const (
	apiBasePath   = "/api"
	tasksBasePath = "/tasks"
	statsBasePath = "/stats"
	aiBasePath    = "/ai"
	authBasePath  = "/auth"

	inboundEmailPath = "/webhooks/inbound-email"
)

const (
	paramID = "id"
)

// Handlers groups everything the router dispatches to.
type Handlers struct {
	Tasks        *rh.TaskHandler
	Stats        *rh.StatsHandler
	Insight      *rh.InsightHandler
	Auth         *rh.AuthHandler
	Health       *rh.HealthHandler
	InboundEmail *webhooks.InboundEmailHandler
}

type Options struct {
	RequestTimeout time.Duration
	CORSOrigins    []string
	StaticDir      string
	MetricsEnabled bool
	MetricsPath    string
}

func SetupRoutes(h Handlers, opts Options, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 60 * time.Second
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(opts.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", webutil.HeaderContentType, webutil.HeaderRequestID},
		ExposedHeaders: []string{webutil.HeaderRequestID},
		MaxAge:         300,
	}))

	r.Route(apiBasePath, func(r chi.Router) {
		r.Use(SetHeader(webutil.HeaderContentType, webutil.ContentTypeJSONUTF8))

		r.Get("/health", h.Health.HandleAPIHealth)
		configureTaskRoutes(r, h.Tasks)
		configureStatsRoutes(r, h.Stats)
		configureInsightRoutes(r, h.Insight)
		configureAuthRoutes(r, h.Auth)
	})

	if h.InboundEmail != nil {
		r.Post(inboundEmailPath, h.InboundEmail.HandleInbound)
	}

	r.Get("/healthz", h.Health.HandleHealthz)
	r.Get("/readyz", h.Health.HandleReadyz)

	if opts.MetricsEnabled {
		r.Handle(opts.MetricsPath, metrics.Handler())
	}

	if opts.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(opts.StaticDir)))
	}

	return r
}

// Helper for constructing paths with a parameter
func pathWithParam(basePath string, paramName string) string {
	if basePath == "" {
		return "/{" + paramName + "}"
	}
	return basePath + "/{" + paramName + "}"
}

// --- Task Routes ---
func configureTaskRoutes(r chi.Router, handler *rh.TaskHandler) {
	specificTaskPath := pathWithParam("", paramID)

	r.Route(tasksBasePath, func(r chi.Router) {
		r.Get("/", webutil.MakeHandler(handler.HandleGetTasks))
		r.Post("/", webutil.MakeHandler(handler.HandleCreateTask))
		r.Post("/extract", webutil.MakeHandler(handler.HandleExtractTasks))
		r.Put(specificTaskPath, webutil.MakeHandler(handler.HandleUpdateTask))
		r.Delete(specificTaskPath, webutil.MakeHandler(handler.HandleDeleteTask))
	})
}

// --- Stats Routes ---
func configureStatsRoutes(r chi.Router, handler *rh.StatsHandler) {
	r.Get(statsBasePath, webutil.MakeHandler(handler.HandleGetStats))
	r.Post(statsBasePath, webutil.MakeHandler(handler.HandleRecordStat))
	r.Post("/reset", webutil.MakeHandler(handler.HandleReset))
}

// --- Heuristic text routes ---
func configureInsightRoutes(r chi.Router, handler *rh.InsightHandler) {
	r.Route(aiBasePath, func(r chi.Router) {
		r.Post("/summarize", webutil.MakeHandler(handler.HandleSummarize))
		r.Post("/sentiment", webutil.MakeHandler(handler.HandleSentiment))
		r.Post("/tasks", webutil.MakeHandler(handler.HandleExtractTasks))
		r.Post("/ideas", webutil.MakeHandler(handler.HandleIdeas))
		r.Post("/chat", webutil.MakeHandler(handler.HandleChat))
	})
}

// --- Auth Routes ---
func configureAuthRoutes(r chi.Router, handler *rh.AuthHandler) {
	r.Route(authBasePath, func(r chi.Router) {
		r.Post("/register", webutil.MakeHandler(handler.HandleRegister))
		r.Post("/login", webutil.MakeHandler(handler.HandleLogin))
	})
}
