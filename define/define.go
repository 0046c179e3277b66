package define

// 面板与帧格式常量（需要与板端固件、上位机保持一致）
const (
	PanelRows  = 8
	PanelCols  = 13
	PanelCells = PanelRows * PanelCols

	// 动画帧编码：4 个 32 位位图字 + 1 个 32 位显示时长（毫秒）
	FrameWords = 4
	// 批量加载时每帧记录的字节数：4*4 字节位图 + 4 字节时长，小端序
	FrameRecordSize = 20

	// 单次批量加载最多接受的帧数，超出部分截断丢弃
	MaxBulkRecords = 50

	// 动画缓冲区默认容量（与上位机 MAX_FRAMES 保持一致）
	DefaultCapacity = 300

	// 调度器默认轮询间隔（毫秒），帧切换误差不超过这个值
	DefaultTickIntervalMs = 5
)

// 配置结构体
type Config struct {
	BridgeServiceURL string
	WebPort          string
	Capacity         int
	TickIntervalMs   int
}

// API 响应结构体
type ApiResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}
