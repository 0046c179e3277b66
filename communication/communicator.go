package communication

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"matrix/define"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// RenderMessage 代表发送给 matrix-bridge 服务的渲染消息结构
type RenderMessage struct {
	ID    string   `json:"id"`              // 消息 ID，便于 bridge 侧日志对账
	Words []uint32 `json:"words,omitempty"` // 4 个已按物理扫描顺序整理的位图字
	Cells []byte   `json:"cells,omitempty"` // 即时绘制数据，每个像素一个字节
}

// Communicator 定义了与 matrix-bridge Web 服务进行通信的接口
type Communicator interface {
	// RenderWords 将一帧整理后的位图字发送到 matrix-bridge 服务
	RenderWords(ctx context.Context, words [define.FrameWords]uint32) error

	// RenderCells 将一帧原始像素数据发送到 matrix-bridge 服务
	RenderCells(ctx context.Context, cells []byte) error

	// GetBridgeStatus 获取 matrix-bridge 服务报告的面板状态
	GetBridgeStatus() (active bool, err error)

	// SetServiceURL 设置 matrix-bridge 服务的 URL
	SetServiceURL(url string)

	// IsConnected 检查与 matrix-bridge 服务的连接状态
	IsConnected() bool
}

// MatrixBridgeClient 实现与 matrix-bridge 服务的 HTTP 通信
type MatrixBridgeClient struct {
	serviceURL string
	client     *http.Client
}

func NewMatrixBridgeClient(serviceURL string) Communicator {
	return &MatrixBridgeClient{
		serviceURL: serviceURL,
		client:     &http.Client{Timeout: 5 * time.Second},
	}
}

func (c *MatrixBridgeClient) send(ctx context.Context, path string, msg RenderMessage) error {
	jsonData, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("序列化消息失败：%w", err)
	}

	url := fmt.Sprintf("%s%s", c.serviceURL, path)

	// 创建带有 context 的请求
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("创建 HTTP 请求失败：%w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("发送 HTTP 请求失败：%w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("matrix-bridge 服务返回错误: %d, %s", resp.StatusCode, string(body))
	}

	return nil
}

func (c *MatrixBridgeClient) RenderWords(ctx context.Context, words [define.FrameWords]uint32) error {
	msg := RenderMessage{
		ID:    uuid.NewString(),
		Words: words[:],
	}
	return c.send(ctx, "/api/frame", msg)
}

func (c *MatrixBridgeClient) RenderCells(ctx context.Context, cells []byte) error {
	msg := RenderMessage{
		ID:    uuid.NewString(),
		Cells: cells,
	}
	return c.send(ctx, "/api/draw", msg)
}

func (c *MatrixBridgeClient) GetBridgeStatus() (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	url := fmt.Sprintf("%s/api/status", c.serviceURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("获取面板状态失败：%w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("发送 HTTP 请求失败：%w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("matrix-bridge 服务返回错误：%d", resp.StatusCode)
	}

	var statusResp define.ApiResponse
	if err := json.NewDecoder(resp.Body).Decode(&statusResp); err != nil {
		return false, fmt.Errorf("解析状态响应失败：%w", err)
	}

	if statusData, ok := statusResp.Data.(map[string]interface{}); ok {
		if active, ok := statusData["active"].(bool); ok {
			return active, nil
		}
	}

	return false, nil
}

func (c *MatrixBridgeClient) SetServiceURL(url string) { c.serviceURL = url }

func (c *MatrixBridgeClient) IsConnected() bool {
	_, err := c.GetBridgeStatus()
	return err == nil
}
