package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/reqline/reqline/internal/api/handlers"
	"github.com/reqline/reqline/internal/api/middleware"
	"github.com/reqline/reqline/internal/audit"
	"github.com/reqline/reqline/internal/auth"
	"github.com/reqline/reqline/internal/cache"
	"github.com/reqline/reqline/internal/company"
	"github.com/reqline/reqline/internal/config"
	"github.com/reqline/reqline/internal/jobdesc"
	"github.com/reqline/reqline/internal/llm"
	"github.com/reqline/reqline/internal/models"
	"github.com/reqline/reqline/internal/queue"
	"github.com/reqline/reqline/internal/requisition"
	"github.com/reqline/reqline/internal/tenant"
	"github.com/reqline/reqline/internal/vectorstore"
)

type Router struct {
	mux   *chi.Mux
	db    *pgxpool.Pool
	redis *redis.Client
	cfg   *config.Config
	ts    *tenant.Service
	jwt   *auth.Middleware
	rbac  *auth.RBAC
	llmGW llm.Gateway
	jobs  *queue.Client
}

func NewRouter(db *pgxpool.Pool, rdb *redis.Client, cfg *config.Config, jobs *queue.Client) *Router {
	ts := tenant.NewService(db)
	return &Router{
		mux:   chi.NewRouter(),
		db:    db,
		redis: rdb,
		cfg:   cfg,
		ts:    ts,
		jwt:   auth.NewMiddleware(cfg.Auth.JWTSecret, cfg.Auth.Issuer, ts),
		rbac:  auth.NewRBAC(db),
		llmGW: llm.NewGateway(cfg.LLM),
		jobs:  jobs,
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))

	rl := middleware.NewRateLimiter(100, 200)
	r.Use(rl.Limit)

	// Health endpoints (no auth)
	health := handlers.NewHealthHandler(rt.db, rt.redis)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	// Initialize services
	auditSvc := audit.NewService(rt.db)
	companySvc := company.NewService(rt.db, cache.NewCache(rt.redis), auditSvc)
	vs := vectorstore.NewPgVectorStore(rt.db)
	reqSvc := requisition.NewService(rt.db, vs, rt.jobs, auditSvc)
	generator := jobdesc.NewGenerator(rt.llmGW, rt.cfg.LLM.DefaultModel)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rt.jwt.Authenticate)

		userH := handlers.NewUserHandler(rt.ts)
		r.Route("/users", func(r chi.Router) {
			r.Get("/me", userH.Me)
			r.Post("/me", userH.Register)
		})

		companyH := handlers.NewCompanyHandler(companySvc)
		r.Route("/company", func(r chi.Router) {
			r.Get("/", companyH.Get)
			r.Post("/", companyH.Create)
			r.Put("/", companyH.Update)
			r.Get("/configurations", companyH.GetConfigurations)

			r.Group(func(r chi.Router) {
				r.Use(rt.rbac.RequireRole(models.RoleOwner, models.RoleAdmin))
				r.Put("/configurations", companyH.UpdateConfigurations)
				r.Post("/invitations", companyH.CreateInvitation)
				r.Get("/invitations", companyH.ListInvitations)
				r.Delete("/invitations/{id}", companyH.RevokeInvitation)

				auditH := handlers.NewAuditHandler(auditSvc)
				r.Get("/audit-logs", auditH.List)
			})
		})

		reqH := handlers.NewRequisitionHandler(reqSvc, generator, rt.jobs)
		r.Route("/requisitions", func(r chi.Router) {
			r.Post("/", reqH.Create)
			r.Get("/", reqH.List)
			r.Get("/{id}", reqH.Get)
			r.Patch("/{id}/description", reqH.UpdateDescription)
			r.Post("/{id}/description/generate", reqH.GenerateDescription)
			r.Post("/{id}/description/import", reqH.ImportDescription)
			r.Get("/{id}/similar", reqH.Similar)
			r.Delete("/{id}", reqH.Delete)
		})
	})

	return r
}
