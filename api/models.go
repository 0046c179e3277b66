package api

// ===== 帧加载相关模型 =====

// LoadFrameRequest 单帧加载请求
type LoadFrameRequest struct {
	Words      []uint32 `json:"words" binding:"required,len=4"`
	DurationMs uint32   `json:"durationMs"`
}

// ===== 即时绘制相关模型 =====

// DrawRequest 即时绘制请求，每个像素一个字节
type DrawRequest struct {
	Cells []byte `json:"cells" binding:"required"`
}

// ===== 配置相关模型 =====

// PanelConfigResponse 面板配置响应
type PanelConfigResponse struct {
	Rows            int `json:"rows"`
	Cols            int `json:"cols"`
	Cells           int `json:"cells"`
	FrameCapacity   int `json:"frameCapacity"`
	MaxBulkRecords  int `json:"maxBulkRecords"`
	TickIntervalMs  int `json:"tickIntervalMs"`
	FrameRecordSize int `json:"frameRecordSize"`
}
