package server

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) setupRouter() *gin.Engine {
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "test" {
		r := gin.New()
		s.defineRoutes(r)
		return r
	}

	r := gin.New()

	// LoggerWithFormatter middleware will write the logs to gin.DefaultWriter
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
			param.ClientIP,
			param.TimeStamp.Format(time.RFC1123),
			param.Method,
			param.Path,
			param.Request.Proto,
			param.StatusCode,
			param.Latency,
			param.Request.UserAgent(),
			param.ErrorMessage,
		)
	}))
	r.Use(gin.Recovery())
	r.Use(cors.New(s.corsConfig()))
	s.defineRoutes(r)

	return r
}

func (s *Server) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	origin := s.Config.AccessControlAllowOrigin
	if origin == "" || origin == "*" {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
		return cfg
	}
	cfg.AllowOrigins = splitOrigins(origin)
	return cfg
}

func (s *Server) defineRoutes(router *gin.Engine) {
	store := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Minute,
		Limit: s.rateLimit(),
	})
	limitRate := limitRateForSubmission(store)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apirouter := router.Group("/api/v1")
	apirouter.POST("/auth/session", s.handleLogin())
	apirouter.DELETE("/auth/session", s.handleLogout())
	apirouter.GET("/reports", s.handleFilterReports())
	apirouter.GET("/reports/:id", s.handleGetReport())
	apirouter.GET("/analytics", s.handleGetAnalytics())
	apirouter.GET("/ws/analytics", s.handleAnalyticsStream())

	authorized := apirouter.Group("/")
	authorized.Use(s.Authorize())
	authorized.POST("/reports", limitRate, s.handleAddReport())
	authorized.PUT("/reports/:id/status", s.handleUpdateStatus())
	authorized.POST("/reports/:id/comments", s.handleAddComment())
	authorized.PATCH("/reports/:id", s.handleUpdateReport())
}

func (s *Server) rateLimit() uint {
	if s.Config.RateLimitPerMinute == 0 {
		return 60
	}
	return s.Config.RateLimitPerMinute
}

func splitOrigins(v string) []string {
	var out []string
	for _, o := range strings.Split(v, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
