package api

import (
	"matrix/communication"
	"matrix/device"
	"time"

	"github.com/gin-gonic/gin"
)

// 全局变量
var (
	ServerStartTime time.Time
)

// Server API 服务，持有播放引擎与 bridge 客户端
type Server struct {
	engine *device.Engine
	sink   communication.Communicator
	hub    *DiagnosticsHub
}

func NewServer(engine *device.Engine, sink communication.Communicator, hub *DiagnosticsHub) *Server {
	return &Server{engine: engine, sink: sink, hub: hub}
}

func (s *Server) SetupRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		// 动画帧加载 API
		api.POST("/frame", s.handleLoadFrame)
		api.POST("/frames", s.handleLoadFramesBulk)

		// 动画播放控制 API
		api.POST("/animation/play", s.handlePlayAnimation)
		api.POST("/animation/stop", s.handleStopAnimation)

		// 即时绘制 API（绕过调度器）
		api.POST("/draw", s.handleDraw)

		// 运行状态与配置 API
		api.GET("/status", s.handleStatus)
		api.GET("/config", s.handleConfig)

		// 健康检查端点
		api.GET("/health", s.handleHealth)

		// 诊断侧信道（WebSocket）
		api.GET("/diagnostics", s.handleDiagnostics)
	}
}
