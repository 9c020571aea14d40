package http

import (
	"context"
	nethttp "net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/dkeye/CodeRoom/internal/adapters/signal"
	"github.com/dkeye/CodeRoom/internal/app/orch"
	"github.com/dkeye/CodeRoom/internal/config"
	"github.com/dkeye/CodeRoom/internal/domain"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
)

const sessionUserName = "userName"

func genClientToken() string {
	idStr := uuid.NewString()
	return idStr
}

func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("ct")
		if token == "" {
			token = genClientToken()
			c.SetCookie("ct", token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, o *orch.Orchestrator) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("CodeRoomSessions", store))
	r.Use(ClientTokenMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.String(nethttp.StatusOK, "API is working!")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	ctl := signal.NewSignalWSController(o, cfg)
	ws := func(c *gin.Context) {
		log.Info().Str("module", "adapters.http").Str("client", c.GetString("client_token")).Msg("ws signal endpoint hit")
		ctl.HandleSignal(ctx, c)
	}
	r.GET("/ws", ws)

	api := r.Group("/api")
	api.GET("/ws", ws)

	api.GET("/rooms", func(c *gin.Context) {
		c.JSON(nethttp.StatusOK, gin.H{"rooms": o.ListRooms()})
	})

	api.GET("/rooms/:id", func(c *gin.Context) {
		id := domain.RoomID(c.Param("id"))
		c.JSON(nethttp.StatusOK, gin.H{
			"id":           id,
			"state":        o.RoomState(id).String(),
			"participants": o.Snapshot(id),
		})
	})

	// The profile only remembers a display name for the join form.
	api.GET("/profile", func(c *gin.Context) {
		s := sessions.Default(c)
		name, _ := s.Get(sessionUserName).(string)
		c.JSON(nethttp.StatusOK, gin.H{"userName": name, "client": c.GetString("client_token")})
	})

	api.PUT("/profile", func(c *gin.Context) {
		var req struct {
			UserName string `json:"userName"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(nethttp.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		if err := domain.ValidateIdentity(req.UserName); err != nil {
			c.JSON(nethttp.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		s := sessions.Default(c)
		s.Set(sessionUserName, req.UserName)
		if err := s.Save(); err != nil {
			log.Error().Err(err).Str("module", "adapters.http").Msg("save session")
			c.JSON(nethttp.StatusInternalServerError, gin.H{"error": "session"})
			return
		}
		c.JSON(nethttp.StatusOK, gin.H{"userName": req.UserName})
	})

	r.NoRoute(staticFallback(cfg.StaticPath))

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")
	return r
}

// staticFallback serves the client bundle. Unknown API routes and missing
// assets get a JSON 404; any other GET falls back to index.html.
func staticFallback(root string) gin.HandlerFunc {
	notFound := func(c *gin.Context) {
		c.JSON(nethttp.StatusNotFound, gin.H{"error": "not found"})
	}
	return func(c *gin.Context) {
		p := c.Request.URL.Path
		if strings.HasPrefix(p, "/api/") || c.Request.Method != nethttp.MethodGet {
			notFound(c)
			return
		}
		file := filepath.Join(root, filepath.FromSlash(path.Clean("/"+p)))
		if st, err := os.Stat(file); err == nil && !st.IsDir() {
			c.File(file)
			return
		}
		if path.Ext(p) != "" {
			notFound(c)
			return
		}
		index := filepath.Join(root, "index.html")
		if _, err := os.Stat(index); err != nil {
			notFound(c)
			return
		}
		c.File(index)
	}
}

// WithCORS applies the configured origin policy to plain HTTP requests.
func WithCORS(cfg *config.Config, h nethttp.Handler) nethttp.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins(),
		AllowedMethods:   []string{nethttp.MethodGet, nethttp.MethodPost, nethttp.MethodPut, nethttp.MethodOptions},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	}).Handler(h)
}
