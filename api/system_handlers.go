package api

import (
	"matrix/config"
	"matrix/define"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// handleStatus 系统状态：播放状态、缓冲区占用与 bridge 连接情况
func (s *Server) handleStatus(c *gin.Context) {
	playback := s.engine.Status()

	// 检查 matrix-bridge 服务状态
	bridgeActive, err := s.sink.GetBridgeStatus()
	bridgeError := ""
	if err != nil {
		bridgeError = err.Error()
	}

	c.JSON(http.StatusOK, define.ApiResponse{
		Status: "success",
		Data: map[string]any{
			"playback":         playback,
			"bridgeActive":     bridgeActive,
			"bridgeError":      bridgeError,
			"bridgeServiceURL": config.Config.BridgeServiceURL,
			"uptime":           time.Since(ServerStartTime).String(),
		},
	})
}

// handleConfig 暴露面板与缓冲区配置，供前端初始化使用
func (s *Server) handleConfig(c *gin.Context) {
	c.JSON(http.StatusOK, define.ApiResponse{
		Status: "success",
		Data: PanelConfigResponse{
			Rows:            define.PanelRows,
			Cols:            define.PanelCols,
			Cells:           define.PanelCells,
			FrameCapacity:   config.Config.Capacity,
			MaxBulkRecords:  define.MaxBulkRecords,
			TickIntervalMs:  config.Config.TickIntervalMs,
			FrameRecordSize: define.FrameRecordSize,
		},
	})
}

// 健康检查处理函数
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, define.ApiResponse{
		Status:  "success",
		Message: "LED Matrix Control Service is running",
		Data: map[string]any{
			"timestamp":      time.Now(),
			"serviceVersion": "1.0.0",
		},
	})
}
