package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/coursehub/internal/app/controllers"
	appMetrics "github.com/yigit/coursehub/internal/app/metrics"
	"github.com/yigit/coursehub/internal/app/models/dto"
	appRepos "github.com/yigit/coursehub/internal/app/repositories"
	appRoutes "github.com/yigit/coursehub/internal/app/routes"
	appServices "github.com/yigit/coursehub/internal/app/services"
	"github.com/yigit/coursehub/internal/config"
	"github.com/yigit/coursehub/internal/middleware"
	"github.com/yigit/coursehub/internal/pkg/httpclient"
	"github.com/yigit/coursehub/internal/pkg/logger"
	"github.com/yigit/coursehub/internal/pkg/request"
	"github.com/yigit/coursehub/internal/seed"
)

// DefaultConfigPath is read when no --config flag is given
const DefaultConfigPath = "configs/config.yaml"

// Dependencies holds the components of the development course API
type Dependencies struct {
	Repos            *appRepos.Repositories
	CatalogService   appServices.CatalogService
	CourseController *appControllers.CourseController
	Metrics          *appMetrics.Metrics
	Logger           zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	lgr := logger.Configure(logger.ConfigFrom(cfg.Logging.Level, cfg.Logging.Format))
	lgr.Debug().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// BuildDependencies initializes the catalogue and seeds it.
func BuildDependencies(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(cfg.Cache.CourseCacheSize)
	deps.CatalogService = appServices.NewCatalogService(deps.Repos.CourseRepository, lgr)

	if err := seed.CreateDefaultData(ctx, deps.CatalogService, cfg.Server.SeedFile, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to seed course catalog")
		return nil, fmt.Errorf("failed to seed course catalog: %w", err)
	}

	deps.CourseController = appControllers.NewCourseController(deps.CatalogService)

	if cfg.Metrics.Enabled {
		deps.Metrics = appMetrics.New()
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(lgr))

	if deps.Metrics != nil {
		router.Use(deps.Metrics.GinMiddleware(cfg.Metrics.Path))
		router.GET(cfg.Metrics.Path, gin.WrapH(deps.Metrics.Handler()))
	}

	appRoutes.SetupRouter(router, deps.CourseController, appRoutes.Options{
		IdentityHeader: cfg.API.AuthHeader,
		Delay:          cfg.Server.Delay,
	})

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.PingResponse{
			Message: "pong",
			Status:  "success",
			Courses: deps.CatalogService.Count(),
		})
	})

	return router
}

// WithCORS lets browser front-ends on the configured origins call the API
func WithCORS(cfg *config.Config, h http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", cfg.API.AuthHeader, middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
	}).Handler(h)
}

// NewCourseService builds the client side data service from configuration.
// m may be nil.
func NewCourseService(cfg *config.Config, lgr zerolog.Logger, m *appMetrics.Metrics) (appServices.CourseService, error) {
	var transport http.RoundTripper = http.DefaultTransport
	if m != nil {
		transport = m.InstrumentRoundTripper(transport)
	}

	client := httpclient.NewHTTPClient(httpclient.Options{
		Timeout:   cfg.API.Timeout,
		Transport: transport,
	})

	return appServices.NewCourseService(client, appServices.CourseServiceOptions{
		BaseURL: strings.TrimSpace(cfg.API.BaseURL),
		Paging: request.Paging{
			Page:     cfg.API.Page,
			PageSize: cfg.API.PageSize,
		},
		Identity: request.Identity{
			Header: cfg.API.AuthHeader,
			Value:  cfg.API.AuthValue,
		},
		Logger: lgr,
	})
}
