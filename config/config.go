package config

import (
	"matrix/define"
)

var Config *define.Config

// IsValidCapacity 检查容量配置是否可用
func IsValidCapacity(capacity int) bool {
	return capacity > 0
}
