package api

import (
	"fmt"
	"matrix/define"
	"net/http"

	"github.com/gin-gonic/gin"
)

// handleLoadFrame 加载单帧。
// 加载类操作在协议上是 fire-and-forget：缓冲区满导致的丢帧只作为
// 提示信息返回，不算请求失败，调用方需要自行观察面板确认效果。
func (s *Server) handleLoadFrame(c *gin.Context) {
	var req LoadFrameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, define.ApiResponse{
			Status: "error",
			Error:  "无效的帧数据：" + err.Error(),
		})
		return
	}

	var words [define.FrameWords]uint32
	copy(words[:], req.Words)

	if err := s.engine.LoadFrame(words, req.DurationMs); err != nil {
		c.JSON(http.StatusOK, define.ApiResponse{
			Status:  "success",
			Message: "帧已被丢弃：" + err.Error(),
			Data:    s.engine.Status(),
		})
		return
	}

	c.JSON(http.StatusOK, define.ApiResponse{
		Status:  "success",
		Message: "帧已加载",
		Data:    s.engine.Status(),
	})
}

// handleLoadFramesBulk 批量加载帧，请求体为原始二进制负载：
// 每帧 20 字节（4 个小端序 uint32 位图字 + 1 个小端序 uint32 时长）。
func (s *Server) handleLoadFramesBulk(c *gin.Context) {
	data, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, define.ApiResponse{
			Status: "error",
			Error:  "读取批量帧数据失败：" + err.Error(),
		})
		return
	}

	stored, err := s.engine.LoadFramesBulk(data)
	if err != nil {
		c.JSON(http.StatusOK, define.ApiResponse{
			Status:  "success",
			Message: "批量帧数据被拒绝：" + err.Error(),
			Data:    s.engine.Status(),
		})
		return
	}

	c.JSON(http.StatusOK, define.ApiResponse{
		Status:  "success",
		Message: fmt.Sprintf("批量加载完成，入库 %d 帧", stored),
		Data: map[string]any{
			"stored":   stored,
			"playback": s.engine.Status(),
		},
	})
}

// handleDraw 即时绘制一帧原始画面，不经过调度器也不占用帧缓冲区
func (s *Server) handleDraw(c *gin.Context) {
	var req DrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, define.ApiResponse{
			Status: "error",
			Error:  "无效的绘制数据：" + err.Error(),
		})
		return
	}

	if err := s.engine.Draw(req.Cells); err != nil {
		c.JSON(http.StatusOK, define.ApiResponse{
			Status:  "success",
			Message: "绘制请求未生效：" + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, define.ApiResponse{
		Status:  "success",
		Message: "绘制指令发送成功",
		Data:    map[string]any{"cells": len(req.Cells)},
	})
}
