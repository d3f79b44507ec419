// Package api exposes the record services over HTTP.
//
//	@title			Pipeline Tracker API
//	@version		1.0
//	@description	Tracks the stages, methods, details and responsible actors of a data pipeline.
//	@BasePath		/
package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "pipelinetracker/internal/api/docs"
	"pipelinetracker/internal/blob"
	"pipelinetracker/internal/core"
	"pipelinetracker/pkg/domain"
)

// StageService is the stage subset of the record services.
type StageService interface {
	CreateStage(ctx context.Context, stage core.Stage) (core.Stage, error)
	ListStages(ctx context.Context) ([]core.Stage, error)
	GetStage(ctx context.Context, id string) (core.Stage, error)
	UpdateStage(ctx context.Context, id string, patch domain.StagePatch) (core.Stage, error)
	DeleteStage(ctx context.Context, id string) (core.Removal, error)
}

// MethodService is the method subset of the record services.
type MethodService interface {
	CreateMethod(ctx context.Context, in core.MethodInput) (core.Method, error)
	ListMethods(ctx context.Context) ([]core.Method, error)
	GetMethod(ctx context.Context, id string) (core.Method, error)
	UpdateMethod(ctx context.Context, id string, patch domain.MethodPatch) (core.Method, error)
	DeleteMethod(ctx context.Context, id string) (core.Removal, error)
}

// DetailService is the detail subset of the record services.
type DetailService interface {
	CreateDetail(ctx context.Context, in core.DetailInput) (core.Detail, error)
	ListDetails(ctx context.Context) ([]core.Detail, error)
	GetDetail(ctx context.Context, id string) (core.Detail, error)
	UpdateDetail(ctx context.Context, id string, patch domain.DetailPatch) (core.Detail, error)
	DeleteDetail(ctx context.Context, id string) (core.Removal, error)
}

// ActorService is the actor subset of the record services.
type ActorService interface {
	CreateActor(ctx context.Context, actor core.Actor) (core.Actor, error)
	ListActors(ctx context.Context) ([]core.Actor, error)
	GetActor(ctx context.Context, id string) (core.Actor, error)
	UpdateActor(ctx context.Context, id string, patch domain.ActorPatch) (core.Actor, error)
	DeleteActor(ctx context.Context, id string) (core.Removal, error)
}

// Records is the full set of record services; *core.Service implements it.
type Records interface {
	StageService
	MethodService
	DetailService
	ActorService
}

// Files serves stored detail files; *intake.Intake implements it.
type Files interface {
	Open(ctx context.Context, name string) (blob.Info, io.ReadCloser, error)
	SignedURL(ctx context.Context, name string, expiry time.Duration) (string, error)
}

// Config tunes the HTTP layer.
type Config struct {
	// PublicBaseURL prefixes file_url values. When empty the base is taken
	// from the request scheme and Host header.
	PublicBaseURL string
	CORSOrigins   []string
	LogLevel      string
	PresignExpiry time.Duration
	// Registerer receives the HTTP collectors; Gatherer backs /metrics. Both
	// default to the prometheus default registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
	// Logger replaces the echo logger so the services can share it.
	Logger echo.Logger
}

// New builds the echo server with every route registered.
func New(records Records, files Files, cfg Config) (*echo.Echo, error) {
	if cfg.Registerer == nil {
		cfg.Registerer = prometheus.DefaultRegisterer
	}
	if cfg.Gatherer == nil {
		cfg.Gatherer = prometheus.DefaultGatherer
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}
	metrics, err := newHTTPMetrics(cfg.Registerer)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	if cfg.Logger != nil {
		e.Logger = cfg.Logger
	}
	e.Pre(middleware.RemoveTrailingSlash())
	SetLevel(e, cfg.LogLevel)
	e.HTTPErrorHandler = errorHandler
	e.Use(middleware.Recover())
	e.Use(LogRequests)
	e.Use(metrics.middleware)
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{AllowOrigins: cfg.CORSOrigins}))

	base := baseURL(cfg.PublicBaseURL)
	{
		g := e.Group("/pipeline_stages")
		g.POST("", CreateStageHandler(records))
		g.GET("", ListStagesHandler(records))
		g.GET("/:id", GetStageHandler(records))
		g.PUT("/:id", UpdateStageHandler(records))
		g.DELETE("/:id", DeleteStageHandler(records))
	}
	{
		g := e.Group("/pipeline_methods")
		g.POST("", CreateMethodHandler(records))
		g.GET("", ListMethodsHandler(records))
		g.GET("/:id", GetMethodHandler(records))
		g.PUT("/:id", UpdateMethodHandler(records))
		g.DELETE("/:id", DeleteMethodHandler(records))
	}
	{
		g := e.Group("/pipeline_details")
		g.POST("", CreateDetailHandler(records, base))
		g.GET("", ListDetailsHandler(records, base))
		g.GET("/:id", GetDetailHandler(records, base))
		g.PUT("/:id", UpdateDetailHandler(records, base))
		g.DELETE("/:id", DeleteDetailHandler(records))
	}
	{
		g := e.Group("/responsible_actors")
		g.POST("", CreateActorHandler(records))
		g.GET("", ListActorsHandler(records))
		g.GET("/:id", GetActorHandler(records))
		g.PUT("/:id", UpdateActorHandler(records))
		g.DELETE("/:id", DeleteActorHandler(records))
	}
	e.GET("/uploads/:name", ServeUploadHandler(files, cfg.PresignExpiry))
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	e.GET("/docs", func(c echo.Context) error {
		return c.Redirect(http.StatusMovedPermanently, "/docs/index.html")
	})
	e.GET("/docs/*", echo.WrapHandler(httpSwagger.WrapHandler))
	return e, nil
}

// Shutdown stops e, waiting up to grace for in-flight requests.
func Shutdown(e *echo.Echo, grace time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
