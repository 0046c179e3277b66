package cli

import (
	"flag"
	"log"
	"matrix/define"
	"os"
	"strconv"
)

// 解析配置
func ParseConfig() *define.Config {
	cfg := &define.Config{}

	// 命令行参数
	flag.StringVar(&cfg.BridgeServiceURL, "bridge-url", "http://127.0.0.1:5260", "matrix-bridge 服务的 URL")
	flag.StringVar(&cfg.WebPort, "port", "9099", "Web 服务的端口")
	flag.IntVar(&cfg.Capacity, "capacity", define.DefaultCapacity, "动画缓冲区容量（帧数）")
	flag.IntVar(&cfg.TickIntervalMs, "tick-ms", define.DefaultTickIntervalMs, "调度器轮询间隔（毫秒）")
	flag.Parse()

	// 环境变量覆盖命令行参数
	if envURL := os.Getenv("BRIDGE_SERVICE_URL"); envURL != "" {
		cfg.BridgeServiceURL = envURL
	}
	if envPort := os.Getenv("WEB_PORT"); envPort != "" {
		cfg.WebPort = envPort
	}
	if envCapacity := os.Getenv("FRAME_CAPACITY"); envCapacity != "" {
		if capacity, err := strconv.Atoi(envCapacity); err == nil {
			cfg.Capacity = capacity
		} else {
			log.Printf("⚠️ 无法解析 FRAME_CAPACITY=%s: %v，使用默认配置", envCapacity, err)
		}
	}
	if envTick := os.Getenv("TICK_INTERVAL_MS"); envTick != "" {
		if tickMs, err := strconv.Atoi(envTick); err == nil {
			cfg.TickIntervalMs = tickMs
		} else {
			log.Printf("⚠️ 无法解析 TICK_INTERVAL_MS=%s: %v，使用默认配置", envTick, err)
		}
	}

	// 兜底非法取值
	if cfg.Capacity <= 0 {
		log.Printf("⚠️ 容量 %d 非法，回退到默认值 %d", cfg.Capacity, define.DefaultCapacity)
		cfg.Capacity = define.DefaultCapacity
	}
	if cfg.TickIntervalMs <= 0 {
		log.Printf("⚠️ 轮询间隔 %dms 非法，回退到默认值 %dms", cfg.TickIntervalMs, define.DefaultTickIntervalMs)
		cfg.TickIntervalMs = define.DefaultTickIntervalMs
	}

	return cfg
}
