package api

import (
	"fmt"
	"matrix/define"
	"net/http"

	"github.com/gin-gonic/gin"
)

// handlePlayAnimation 进入播放状态。
// 缓冲区为空时同样允许进入，调度器会把空缓冲当作无事可做。
func (s *Server) handlePlayAnimation(c *gin.Context) {
	if err := s.engine.Play(); err != nil {
		c.JSON(http.StatusInternalServerError, define.ApiResponse{
			Status: "error",
			Error:  "启动播放失败：" + err.Error(),
		})
		return
	}

	status := s.engine.Status()
	c.JSON(http.StatusOK, define.ApiResponse{
		Status:  "success",
		Message: fmt.Sprintf("动画播放已启动，共 %d 帧", status.FrameCount),
		Data:    status,
	})
}

// handleStopAnimation 停止播放并清空缓冲区；空闲时是无副作用调用
func (s *Server) handleStopAnimation(c *gin.Context) {
	if err := s.engine.Stop(); err != nil {
		c.JSON(http.StatusInternalServerError, define.ApiResponse{
			Status: "error",
			Error:  "停止播放失败：" + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, define.ApiResponse{
		Status:  "success",
		Message: "动画已停止",
		Data:    s.engine.Status(),
	})
}
