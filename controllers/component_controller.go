package controllers

import (
	"errors"
	"net/http"

	"server-launcher/internal/models"
	"server-launcher/services"

	"github.com/gin-gonic/gin"
)

type ComponentController struct {
	launcher *services.Launcher
}

/**
 * Create new Component controller instance
 * @param {*services.Launcher} launcher - Launcher that owns the component manager
 * @returns {*ComponentController} New Component controller instance
 */
func NewComponentController(launcher *services.Launcher) *ComponentController {
	return &ComponentController{
		launcher: launcher,
	}
}

// RegisterRoutes registers the read-only component routes.
func (c *ComponentController) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/launcher/api/v1")
	api.GET("/components", c.ListComponents)
	api.GET("/components/:name", c.GetComponent)
}

// @Summary 获取组件列表
// @Description 获取运行时和应用的安装状态，配置加载前返回503
// @Tags Components
// @Produce json
// @Success 200 {array} models.ComponentInfo
// @Failure 503 {object} models.ErrorResponse
// @Router /launcher/api/v1/components [get]
func (c *ComponentController) ListComponents(g *gin.Context) {
	cm := c.launcher.Components()
	if cm == nil {
		notLoaded(g)
		return
	}
	g.JSON(http.StatusOK, cm.GetComponents())
}

// @Summary 获取组件详情
// @Tags Components
// @Param name path string true "组件名称: runtime/application"
// @Success 200 {object} models.ComponentInfo
// @Failure 404 {object} models.ErrorResponse
// @Router /launcher/api/v1/components/{name} [get]
func (c *ComponentController) GetComponent(g *gin.Context) {
	cm := c.launcher.Components()
	if cm == nil {
		notLoaded(g)
		return
	}
	info, err := cm.GetComponent(g.Param("name"))
	if errors.Is(err, services.ErrComponentNotFound) {
		g.JSON(http.StatusNotFound, models.ErrorResponse{
			Code:  "component.not_found",
			Error: err.Error(),
		})
		return
	}
	g.JSON(http.StatusOK, info)
}

func notLoaded(g *gin.Context) {
	g.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
		Code:  "config.not_loaded",
		Error: "configuration has not been loaded yet",
	})
}
