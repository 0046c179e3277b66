package api

import (
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// DiagnosticsHub 诊断侧信道：把引擎的自由文本诊断行广播给所有
// WebSocket 观察端。纯咨询性质，广播永不阻塞引擎，
// 消费不及时的连接直接丢行。
type DiagnosticsHub struct {
	mutex   sync.Mutex
	clients map[*websocket.Conn]chan string
}

func NewDiagnosticsHub() *DiagnosticsHub {
	return &DiagnosticsHub{clients: make(map[*websocket.Conn]chan string)}
}

// Broadcast 广播一行诊断信息
func (h *DiagnosticsHub) Broadcast(line string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for _, ch := range h.clients {
		select {
		case ch <- line:
		default:
			// 观察端太慢，丢弃本行
		}
	}
}

// ClientCount 返回当前连接的观察端数量
func (h *DiagnosticsHub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

func (h *DiagnosticsHub) add(conn *websocket.Conn) chan string {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	ch := make(chan string, 64)
	h.clients[conn] = ch
	return ch
}

func (h *DiagnosticsHub) remove(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	delete(h.clients, conn)
}

var upgrader = websocket.Upgrader{
	// 与 CORS 策略保持一致，放开来源限制
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleDiagnostics 把诊断行以文本消息的形式推送给观察端
func (s *Server) handleDiagnostics(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("⚠️ 诊断通道升级失败: %v", err)
		return
	}
	defer conn.Close()

	ch := s.hub.add(conn)
	defer s.hub.remove(conn)

	log.Printf("🔌 诊断观察端已连接: %s", conn.RemoteAddr())

	// 读协程只负责感知连接关闭
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case line := <-ch:
			if err := conn.WriteMessage(websocket.TextMessage, []byte(line)); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
