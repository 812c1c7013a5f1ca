package services

import (
	"time"

	"server-launcher/internal/env"
	"server-launcher/internal/models"
)

/**
 *	状态服务的数据来源，只读取启动器的状态，不改变启动流程
 */
type Server struct {
	launcher  *Launcher
	startTime time.Time
}

/**
 * Create status server facade for a launcher
 * @param {*Launcher} launcher - Launcher whose state is exposed
 * @returns {*Server} Returns new server instance
 */
func NewServer(launcher *Launcher) *Server {
	return &Server{
		launcher:  launcher,
		startTime: time.Now(),
	}
}

func (s *Server) Launcher() *Launcher {
	return s.launcher
}

func (s *Server) GetStatus() models.LauncherStatus {
	return s.launcher.Status()
}

/**
* Get health check response for the launcher
* @returns {models.HealthResponse} Returns health check response with launcher state and metrics
* @description
* - Calculates uptime from start time
* - Status is DOWN once the pipeline has failed, UP otherwise
* - Counts components whose install is confirmed by marker and record
* @example
* server := NewServer(launcher)
* health := server.GetHealthz()
* fmt.Printf("Launcher status: %s, Uptime: %s\n", health.Status, health.Uptime)
 */
func (s *Server) GetHealthz() models.HealthResponse {
	uptime := time.Since(s.startTime)
	state := s.launcher.State()

	totalComponents := 0
	installedComponents := 0
	if cm := s.launcher.Components(); cm != nil {
		for _, cpn := range cm.GetComponents() {
			totalComponents++
			if cpn.Installed {
				installedComponents++
			}
		}
	}

	status := "UP"
	if state == models.StateFailed {
		status = "DOWN"
	}
	return models.HealthResponse{
		Version:   env.Version,
		StartTime: s.startTime.Format(time.RFC3339),
		Status:    status,
		Uptime:    uptime.String(),
		State:     state,
		Metrics: models.Metrics{
			TotalRequests:       GetTotalRequestCount(),
			ErrorRequests:       GetTotalErrorCount(),
			TotalComponents:     totalComponents,
			InstalledComponents: installedComponents,
		},
	}
}
