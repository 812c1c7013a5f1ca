package middleware

import (
	"time"

	"server-launcher/services"

	"github.com/gin-gonic/gin"
)

/**
 * HTTP请求统计中间件
 * @description
 * - 统计状态服务收到的请求数量
 * - 记录请求处理时间
 * - 状态码 >= 400 的请求计入错误数
 * - 为健康检查接口提供请求数据
 */
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		statusCode := c.Writer.Status()

		// 未匹配路由时FullPath为空，避免把任意路径作为标签
		path := c.FullPath()
		if path == "" {
			path = "unknown"
		}

		services.IncrementRequestCount(path)
		services.RecordRequestDuration(path, duration)
		if statusCode >= 400 {
			services.IncrementErrorCount(path)
		}
	}
}
