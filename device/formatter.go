package device

import (
	"math/bits"
	"matrix/define"
)

// FormatWords 将存储顺序的位图字逐位翻转（bit 0 ↔ bit 31，bit 1 ↔ bit 30，…），
// 匹配面板的物理扫描顺序。纯函数，连续应用两次还原原值。
func FormatWords(words [define.FrameWords]uint32) [define.FrameWords]uint32 {
	var out [define.FrameWords]uint32
	for i, w := range words {
		out[i] = bits.Reverse32(w)
	}
	return out
}
