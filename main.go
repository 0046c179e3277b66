package main

import (
	"fmt"
	"log"
	"matrix/api"
	"matrix/cli"
	"matrix/communication"
	"matrix/config"
	"matrix/device"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// 初始化服务
func initService() {
	log.Printf("🔧 服务配置：")
	log.Printf("   - matrix-bridge 服务 URL: %s", config.Config.BridgeServiceURL)
	log.Printf("   - Web 端口: %s", config.Config.WebPort)
	log.Printf("   - 动画缓冲区容量: %d 帧", config.Config.Capacity)
	log.Printf("   - 调度器轮询间隔: %dms", config.Config.TickIntervalMs)

	log.Println("✅ 控制服务初始化完成")
}

func printUsage() {
	fmt.Println("LED Matrix Animation Control Service")
	fmt.Println("Usage:")
	fmt.Println("  -bridge-url string   matrix-bridge 服务的 URL (default: http://127.0.0.1:5260)")
	fmt.Println("  -port string         Web 服务的端口 (default: 9099)")
	fmt.Println("  -capacity int        动画缓冲区容量（帧数，default: 300）")
	fmt.Println("  -tick-ms int         调度器轮询间隔（毫秒，default: 5）")
	fmt.Println("")
	fmt.Println("Environment Variables:")
	fmt.Println("  BRIDGE_SERVICE_URL   matrix-bridge 服务的 URL")
	fmt.Println("  WEB_PORT             Web 服务的端口")
	fmt.Println("  FRAME_CAPACITY       动画缓冲区容量（帧数）")
	fmt.Println("  TICK_INTERVAL_MS     调度器轮询间隔（毫秒）")
	fmt.Println("")
	fmt.Println("Examples:")
	fmt.Println("  ./matrix-service -capacity 50")
	fmt.Println("  ./matrix-service -bridge-url http://localhost:5260 -tick-ms 2")
	fmt.Println("  FRAME_CAPACITY=300 ./matrix-service")
}

func main() {
	// 检查是否请求帮助
	if len(os.Args) > 1 && (os.Args[1] == "-h" || os.Args[1] == "--help") {
		printUsage()
		return
	}

	// 解析配置
	config.Config = cli.ParseConfig()

	// 验证配置
	if !config.IsValidCapacity(config.Config.Capacity) {
		log.Fatal("❌ 动画缓冲区容量配置非法")
	}

	// 记录启动时间
	api.ServerStartTime = time.Now()

	log.Printf("🚀 启动 LED 点阵动画控制服务")

	// 初始化服务
	initService()

	// 创建 bridge 客户端、诊断侧信道与播放引擎
	sink := communication.NewMatrixBridgeClient(config.Config.BridgeServiceURL)
	hub := api.NewDiagnosticsHub()

	engine := device.NewEngine(sink, config.Config.Capacity,
		time.Duration(config.Config.TickIntervalMs)*time.Millisecond)
	engine.SetNotifier(hub.Broadcast)
	engine.Start()
	defer engine.Close()

	// 设置 Gin 模式
	gin.SetMode(gin.ReleaseMode)

	// 创建 Gin 引擎
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"}, // 允许的域，*表示允许所有
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 设置 API 路由
	api.NewServer(engine, sink, hub).SetupRoutes(r)

	// 启动服务器
	log.Printf("🌐 动画控制服务运行在 http://localhost:%s", config.Config.WebPort)
	log.Printf("📡 连接到 matrix-bridge 服务: %s", config.Config.BridgeServiceURL)
	if sink.IsConnected() {
		log.Printf("🟢 matrix-bridge 服务在线")
	} else {
		log.Printf("🟡 matrix-bridge 服务暂不可达，渲染失败将只记录诊断")
	}

	if err := r.Run(":" + config.Config.WebPort); err != nil {
		log.Fatalf("❌ 服务启动失败: %v", err)
	}
}
