package api

import (
	"NewsDesk/internal/api/config"
	"NewsDesk/internal/api/middleware"
	"NewsDesk/internal/pkg/consts"
	"NewsDesk/internal/pkg/logger"
	log "log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupRouter authMiddleware 用于后台接口
func SetupRouter(group *HandlersGroup, cfg *config.Config, authMiddleware gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	// 客户端地址取决于可信代理，未配置时只信任直连地址
	if err := r.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		log.Error("invalid trusted proxies, fallback to none", "err", err)
		_ = r.SetTrustedProxies(nil)
	}

	// Logger & Recovery 必须在最外层
	logger.SetupGin(r, cfg.Logstash)
	// TraceId & Audit & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware())

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"success": true,
				"data":    "pong",
			})
		})

		analyticsGroup := apiGroup.Group("/analytics")
		{
			analyticsGroup.POST("/view", group.AnalyticsHandler.TrackView)
			analyticsGroup.POST("/engagement", group.AnalyticsHandler.TrackEngagement)
		}

		// 需要登录 & 拥有 admin 或 editor 角色
		adminGroup := apiGroup.Group("/admin/analytics")
		adminGroup.Use(authMiddleware, middleware.CheckRoles(consts.RoleAdmin, consts.RoleEditor))
		{
			adminGroup.GET("/overview", group.ReaderAnalyticsHandler.Overview)
			adminGroup.GET("/articles/:slug/trend", group.ReaderAnalyticsHandler.GetTrend)
			adminGroup.GET("/articles/:slug/events", group.ReaderAnalyticsHandler.GetRecentEvents)
		}
	}

	return r
}
