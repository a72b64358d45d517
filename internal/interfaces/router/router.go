package router

import (
	"context"
	"fmt"
	"strings"

	accountsvc "asset-register/internal/application/accounts"
	assetsvc "asset-register/internal/application/assets"
	assignmentsvc "asset-register/internal/application/assignments"
	authsvc "asset-register/internal/application/auth"
	batchsvc "asset-register/internal/application/batches"
	employeesvc "asset-register/internal/application/employees"
	healthsvc "asset-register/internal/application/health"
	reportsvc "asset-register/internal/application/reports"
	stationsvc "asset-register/internal/application/stations"
	"asset-register/internal/config"
	"asset-register/internal/infrastructure/database"
	accounthandler "asset-register/internal/interfaces/handlers/accounts"
	assethandler "asset-register/internal/interfaces/handlers/assets"
	assignmenthandler "asset-register/internal/interfaces/handlers/assignments"
	authhandler "asset-register/internal/interfaces/handlers/auth"
	batchhandler "asset-register/internal/interfaces/handlers/batches"
	employeehandler "asset-register/internal/interfaces/handlers/employees"
	healthhandler "asset-register/internal/interfaces/handlers/health"
	reporthandler "asset-register/internal/interfaces/handlers/reports"
	stationhandler "asset-register/internal/interfaces/handlers/stations"
	"asset-register/internal/middleware"
	"asset-register/internal/observability/metrics"
	"asset-register/internal/pkg/constants"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type gormDBPinger struct {
	db *gorm.DB
}

func (g *gormDBPinger) Ping() error {
	if g == nil || g.db == nil {
		return nil
	}
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Deps are the shared clients the app is built on. DB and Rdb may be nil, in which case the
// routes that need them are not mounted (health still is).
type Deps struct {
	Config *config.Config
	DB     *gorm.DB
	Rdb    *redis.Client
}

// CreateApp opens the database and Redis from cfg, migrates the schema, seeds the first
// superadmin and builds the app.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("redis url: %w", err)
		}
		rdb = redis.NewClient(opts)
	}

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		var err error
		db, err = database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := database.AutoMigrate(db); err != nil {
			return nil, nil, nil, fmt.Errorf("migrate: %w", err)
		}
		accounts := &accountsvc.Service{DB: db, Rdb: rdb}
		created, err := accounts.EnsureSuperadmin(context.Background(), cfg.BootstrapAdminEmail, cfg.BootstrapAdminPassword)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("bootstrap superadmin: %w", err)
		}
		if created {
			log.Info().Str("email", cfg.BootstrapAdminEmail).Msg("bootstrap superadmin created")
		}
	}

	return New(Deps{Config: cfg, DB: db, Rdb: rdb}), db, rdb, nil
}

// New builds the Fiber app with global middleware and all routes.
func New(deps Deps) *fiber.App {
	cfg, db, rdb := deps.Config, deps.DB, deps.Rdb

	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler(rdb),
		EnableTrustedProxyCheck: true,
	})

	app.Use(middleware.Tracing())
	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))
	app.Use(middleware.Session(rdb))
	app.Use(middleware.HealthMarker(rdb))
	app.Use(middleware.RouteLogger())

	hh := &healthhandler.Handlers{
		Rdb:            rdb,
		Upstreams:         parseUpstreams(cfg.HealthUpstreams),
		HealthAdminKey: cfg.HealthAdminKey,
	}
	if db != nil {
		hh.DB = &gormDBPinger{db: db}
	}
	app.Get("/", hh.Dashboard)
	app.Get("/reset", hh.Reset)
	app.Get("/health/json", hh.JSON)
	app.Get("/health/errors", hh.Errors)

	metrics.Init(nil)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	if db == nil {
		log.Warn().Msg("DATABASE_URL not set: API routes are not mounted")
		return app
	}

	sessionCfg := middleware.SessionConfig{
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.IsProduction(),
	}
	tokens := &authsvc.Tokens{Secret: []byte(cfg.JWTSecret), TTL: cfg.JWTTTL}
	users := &authsvc.GormUserFinder{DB: db}
	requireAuth := middleware.RequireAuth(tokens, users)
	can := middleware.AuthorizePermission

	// Auth
	ah := &authhandler.Handlers{
		UserFinder: users,
		Tokens:     tokens,
		Rdb:        rdb,
		Config:     sessionCfg,
	}
	authGroup := app.Group("/api/v1/auth")
	authGroup.Post("/login", ah.Login)
	authGroup.Get("/me", requireAuth, ah.Me)
	authGroup.Delete("/logout", ah.Logout)

	// Accounts
	uh := &accounthandler.Handlers{Service: &accountsvc.Service{DB: db, Rdb: rdb}}
	ug := app.Group("/api/v1/users", requireAuth)
	ug.Get("/me", uh.ViewMe)
	ug.Put("/me", uh.UpdateMe)
	ug.Get("/", can(constants.ManageAccounts), uh.List)
	ug.Post("/", can(constants.ManageAccounts), uh.Create)
	ug.Get("/:userId", can(constants.ManageAccounts), uh.Get)
	ug.Patch("/:userId/role", can(constants.AssignRole), uh.UpdateRole)
	ug.Delete("/:userId", can(constants.ManageAccounts), uh.Delete)

	// Stations
	sh := &stationhandler.Handlers{Service: &stationsvc.Service{DB: db}}
	sg := app.Group("/api/v1/stations", requireAuth)
	sg.Get("/", can(constants.ViewData), sh.List)
	sg.Get("/:id", can(constants.ViewData), sh.Get)
	sg.Post("/", can(constants.ManageStations), sh.Create)
	sg.Put("/:id", can(constants.ManageStations), sh.Update)
	sg.Delete("/:id", can(constants.ManageStations), sh.Delete)

	// Employees
	eh := &employeehandler.Handlers{Service: &employeesvc.Service{DB: db}}
	eg := app.Group("/api/v1/employees", requireAuth)
	eg.Get("/", can(constants.ViewData), eh.List)
	eg.Get("/:id", can(constants.ViewData), eh.Get)
	eg.Post("/", can(constants.ManageEmployees), eh.Create)
	eg.Put("/:id", can(constants.ManageEmployees), eh.Update)
	eg.Delete("/:id", can(constants.ManageEmployees), eh.Delete)

	// Assets and their batches
	asth := &assethandler.Handlers{Service: &assetsvc.Service{DB: db}}
	bh := &batchhandler.Handlers{Service: &batchsvc.Service{DB: db}}
	ag := app.Group("/api/v1/assets", requireAuth)
	ag.Get("/", can(constants.ViewData), asth.List)
	ag.Get("/:id", can(constants.ViewData), asth.Get)
	ag.Post("/", can(constants.ManageAssets), asth.Create)
	ag.Put("/:id", can(constants.ManageAssets), asth.Update)
	ag.Delete("/:id", can(constants.ManageAssets), asth.Delete)
	ag.Get("/:id/batches", can(constants.ViewData), bh.ListByAsset)
	ag.Post("/:id/batches", can(constants.ManageBatches), bh.Create)

	bg := app.Group("/api/v1/batches", requireAuth)
	bg.Get("/:id", can(constants.ViewData), bh.Get)
	bg.Put("/:id", can(constants.ManageBatches), bh.Update)
	bg.Delete("/:id", can(constants.ManageBatches), bh.Delete)

	// Assignments
	ash := &assignmenthandler.Handlers{Service: &assignmentsvc.Service{DB: db}}
	asg := app.Group("/api/v1/assignments", requireAuth)
	asg.Get("/", can(constants.ViewData), ash.List)
	asg.Get("/:id", can(constants.ViewData), ash.Get)
	asg.Get("/:id/events", can(constants.ViewData), ash.Events)
	asg.Post("/", can(constants.AssignAssets), ash.Create)
	asg.Delete("/:id", can(constants.AssignAssets), ash.Delete)
	asg.Post("/:id/allocations", can(constants.AssignAssets), ash.AddAllocation)
	asg.Delete("/:id/allocations/:allocationId", can(constants.AssignAssets), ash.RemoveAllocation)

	// Reports
	rh := &reporthandler.Handlers{Service: &reportsvc.Service{DB: db, Currency: cfg.ReportCurrency, Title: cfg.ReportTitle}}
	rg := app.Group("/api/v1/reports", requireAuth)
	rg.Get("/stations/:id", can(constants.ViewData), rh.Station)
	rg.Get("/stations/:id/print", can(constants.PrintReports), rh.Print)
	rg.Get("/stations/:id/xlsx", can(constants.PrintReports), rh.ExportXLSX)
	rg.Get("/stations/:id/pdf", can(constants.PrintReports), rh.ExportPDF)
	rg.Post("/aggregate", can(constants.ViewData), rh.Aggregate)
	rg.Post("/aggregate/json", can(constants.ViewData), rh.Aggregate)
	rg.Post("/aggregate/:format", can(constants.PrintReports), rh.Aggregate)

	return app
}

// parseUpstreams turns "name=url" entries into health upstreams. Entries without a name use the URL.
func parseUpstreams(entries []string) []healthsvc.Upstream {
	upstreams := make([]healthsvc.Upstream, 0, len(entries))
	for _, e := range entries {
		name, url, found := strings.Cut(e, "=")
		if !found {
			name, url = e, e
		}
		upstreams = append(upstreams, healthsvc.Upstream{Name: strings.TrimSpace(name), URL: strings.TrimSpace(url)})
	}
	return upstreams
}
