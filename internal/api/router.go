package api

import (
	"errors"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/wjy1814-droid/memos/internal/app"
	"github.com/wjy1814-droid/memos/internal/auth"
	"github.com/wjy1814-droid/memos/internal/handlers"
	"github.com/wjy1814-droid/memos/internal/middleware"
	"github.com/wjy1814-droid/memos/internal/services"
)

// Router wires middleware, handlers and routes into a gin engine.
type Router struct {
	engine *gin.Engine
}

// NewRouter assembles the full HTTP surface on top of the given database
// connection and configuration.
func NewRouter(cfg *app.Config, db *gorm.DB) (*Router, error) {
	if cfg == nil {
		return nil, errors.New("api: config is required")
	}
	if db == nil {
		return nil, errors.New("api: db is required")
	}

	jwtService, err := auth.NewJWTService(auth.JWTConfig{
		Secret:         cfg.Auth.JWT.Secret,
		Issuer:         cfg.Auth.JWT.Issuer,
		AccessTokenTTL: cfg.Auth.JWT.TTL,
	})
	if err != nil {
		return nil, err
	}

	userService, err := services.NewUserService(db)
	if err != nil {
		return nil, err
	}
	membershipService, err := services.NewMembershipService(db)
	if err != nil {
		return nil, err
	}
	groupService, err := services.NewGroupService(db, membershipService)
	if err != nil {
		return nil, err
	}
	memoService, err := services.NewMemoService(db, membershipService)
	if err != nil {
		return nil, err
	}
	inviteService, err := services.NewInviteService(db, membershipService,
		services.WithInviteBaseURL(cfg.Server.BaseURL),
		services.WithInviteTTL(cfg.Invites.DefaultTTL),
	)
	if err != nil {
		return nil, err
	}

	engine := gin.New()
	engine.Use(middleware.Recovery())
	engine.Use(middleware.Logger())
	engine.Use(middleware.Metrics())
	engine.Use(middleware.SecurityHeaders())
	engine.Use(corsMiddleware(cfg.Server.CORS))
	if cfg.Server.RateLimit.Requests > 0 {
		engine.Use(middleware.RateLimit(cfg.Server.RateLimit.Requests, cfg.Server.RateLimit.Window))
	}
	engine.NoRoute(middleware.NotFoundHandler)

	deps := routeDeps{
		auth:    handlers.NewAuthHandler(userService, jwtService),
		groups:  handlers.NewGroupHandler(groupService),
		memos:   handlers.NewMemoHandler(memoService),
		invites: handlers.NewInviteHandler(inviteService),
		health:  handlers.NewHealthHandler(db),
		guard:   middleware.Auth(jwtService),
	}
	registerRoutes(engine, deps)

	if cfg.Monitoring.Prometheus.Enabled {
		endpoint := cfg.Monitoring.Prometheus.Endpoint
		if endpoint == "" {
			endpoint = "/metrics"
		}
		engine.GET(endpoint, gin.WrapH(promhttp.Handler()))
	}

	return &Router{engine: engine}, nil
}

// Engine exposes the underlying gin engine, mainly for http.Server and
// tests.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func corsMiddleware(cfg app.CORSConfig) gin.HandlerFunc {
	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	return cors.New(corsCfg)
}
