package launch

import (
	"context"
	"errors"
	"net/http"
	"time"

	"server-launcher/controllers"
	"server-launcher/internal/logger"
	"server-launcher/internal/middleware"
	"server-launcher/services"

	"github.com/gin-gonic/gin"
)

/**
 * Build the gin engine serving launcher status
 * @param {*services.Launcher} launcher - Launcher whose state is exposed
 * @returns {*gin.Engine} Engine with health, status, component and metrics routes
 */
func NewRouter(launcher *services.Launcher) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.MetricsMiddleware())

	controllers.NewAPIController(services.NewServer(launcher)).RegisterRoutes(router)
	controllers.NewComponentController(launcher).RegisterRoutes(router)
	return router
}

/**
 * Start the status server in the background
 * @param {context.Context} ctx - The server shuts down when ctx is done
 * @param {string} address - Listen address, "host:port" or "unix:/path"
 * @param {*services.Launcher} launcher - Launcher whose state is exposed
 * @returns {func()} Stops the server and waits at most 5 seconds
 * @description
 * - 状态服务的故障只记录日志，不影响启动流程
 */
func StartStatusServer(ctx context.Context, address string, launcher *services.Launcher) (func(), error) {
	listener, err := CreateListener(ParseListenAddr(address))
	if err != nil {
		return nil, err
	}
	srv := &http.Server{
		Handler:           NewRouter(launcher),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Infof("Status server listening on %s", address)
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("Status server error: %v", err)
		}
	}()

	stop := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warnf("Status server shutdown: %v", err)
		}
	}
	go func() {
		<-ctx.Done()
		stop()
	}()
	return stop, nil
}
