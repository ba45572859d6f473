package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/canton09/aisales/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg                *config.Config
	proxyHandler       *Proxy
	analysisController *AnalysisController
	preferenceHandler  *Preference
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, proxyHandler *Proxy, analysisController *AnalysisController, preferenceHandler *Preference) *Router {
	return &Router{
		cfg:                cfg,
		proxyHandler:       proxyHandler,
		analysisController: analysisController,
		preferenceHandler:  preferenceHandler,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	e.GET("/health", rt.healthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	rt.setupProxyRoutes(e)

	// API v1 group
	v1 := e.Group("/v1")

	rt.setupAnalysisRoutes(v1)
	rt.setupPreferenceRoutes(v1)
}

// setupProxyRoutes mounts the DeepSeek pass-through.
// Every method is routed so the handler can answer 405 itself.
func (rt *Router) setupProxyRoutes(e *echo.Echo) {
	if rt.proxyHandler == nil {
		e.Any("/api/deepseek-proxy", rt.notImplemented)
		e.Any("/api/deepseek-proxy/*", rt.notImplemented)
		return
	}
	e.Any("/api/deepseek-proxy", rt.proxyHandler.Forward)
	// the OpenAI SDK appends /chat/completions to its base URL
	e.Any("/api/deepseek-proxy/chat/completions", rt.proxyHandler.Forward)
}

func (rt *Router) setupAnalysisRoutes(g *echo.Group) {
	if rt.analysisController == nil {
		g.POST("/analyses", rt.notImplemented)
		g.GET("/scenarios", rt.notImplemented)
		return
	}
	g.POST("/analyses", rt.analysisController.Analyze)
	g.GET("/scenarios", rt.analysisController.ListScenarios)
}

func (rt *Router) setupPreferenceRoutes(g *echo.Group) {
	prefGroup := g.Group("/preferences")

	if rt.preferenceHandler != nil {
		prefGroup.GET("", rt.preferenceHandler.Get)
		prefGroup.PUT("", rt.preferenceHandler.Update)
	} else {
		prefGroup.GET("", rt.notImplemented)
		prefGroup.PUT("", rt.notImplemented)
	}
}

// notImplemented returns 501 Not Implemented response
func (rt *Router) notImplemented(c echo.Context) error {
	return c.JSON(http.StatusNotImplemented, map[string]interface{}{
		"error":   "This endpoint is not yet implemented",
		"path":    c.Request().URL.Path,
		"method":  c.Request().Method,
		"message": "Please initialize the required handler in main.go",
	})
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": rt.cfg.Server.Environment,
		"version":     rt.cfg.Server.Version,
	})
}
