package models

// HealthResponse 健康检查响应结构
// @Description 启动器自身的健康检查响应，不反映游戏服务器的健康状况
type HealthResponse struct {
	Version   string        `json:"version" example:"1.0.0" description:"启动器版本"`
	StartTime string        `json:"startTime" example:"2024-01-01T10:00:00Z" description:"启动时间"`
	Status    string        `json:"status" example:"UP" description:"健康状态"`
	Uptime    string        `json:"uptime" example:"1h30m45s" description:"运行时长"`
	State     PipelineState `json:"state" example:"Running" description:"启动流程状态"`
	Metrics   Metrics       `json:"metrics" description:"关键指标"`
}

// Metrics 关键指标结构
type Metrics struct {
	TotalRequests       int64 `json:"totalRequests" example:"1000" description:"状态接口总请求数"`
	ErrorRequests       int64 `json:"errorRequests" example:"5" description:"状态接口出错请求数"`
	TotalComponents     int   `json:"totalComponents" example:"2" description:"组件总数"`
	InstalledComponents int   `json:"installedComponents" example:"2" description:"已安装组件数"`
}
