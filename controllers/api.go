package controllers

import (
	"net/http"

	"server-launcher/internal/models"
	"server-launcher/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type APIController struct {
	server *services.Server
}

/**
 * Create new API controller instance
 * @param {*services.Server} server - Status source backed by the launcher
 * @returns {*APIController} New API controller instance
 * @example
 * controller := controllers.NewAPIController(services.NewServer(launcher))
 */
func NewAPIController(server *services.Server) *APIController {
	return &APIController{
		server: server,
	}
}

/**
 * Register all API routes to Gin engine
 * @param {*gin.Engine} r - Gin router instance
 * @description
 * - Registers routes for:
 *   - Health probe
 *   - Launcher pipeline status
 *   - Prometheus metrics
 * - Unknown paths answer with models.ErrorResponse
 * @example
 * router := gin.New()
 * controller := NewAPIController(server)
 * controller.RegisterRoutes(router)
 */
func (a *APIController) RegisterRoutes(r *gin.Engine) {
	r.GET("/healthz", a.Healthz)
	r.GET("/launcher/api/v1/status", a.Status)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Code:  "route.not_found",
			Error: "No route for " + c.Request.URL.Path,
		})
	})
}

// @Summary 启动器就绪探针
// @Description 返回启动器版本、启动时间、流程状态和关键指标统计结果
// @Tags System
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Router /healthz [get]
func (a *APIController) Healthz(c *gin.Context) {
	response := a.server.GetHealthz()
	c.JSON(http.StatusOK, response)
}

// @Summary 启动流程状态
// @Description 返回当前流程状态、失败原因、命令向量、子进程信息和组件安装状态
// @Tags System
// @Produce json
// @Success 200 {object} models.LauncherStatus
// @Router /launcher/api/v1/status [get]
func (a *APIController) Status(c *gin.Context) {
	c.JSON(http.StatusOK, a.server.GetStatus())
}
