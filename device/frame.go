package device

import (
	"encoding/binary"
	"fmt"
	"matrix/define"
)

// Frame 代表一帧静态画面：4 个 32 位位图字加显示时长（毫秒）
type Frame struct {
	Words      [define.FrameWords]uint32
	DurationMs uint32
}

// DecodeFrames 从批量负载中按 20 字节记录顺序解析帧。
// 负载不足一条完整记录时拒绝整个调用；记录数超过 max 时截断，
// 返回被截断丢弃的记录数。末尾不足一条记录的零散字节直接忽略。
func DecodeFrames(data []byte, max int) (frames []Frame, dropped int, err error) {
	if len(data) < define.FrameRecordSize {
		return nil, 0, fmt.Errorf("批量帧数据不足一条完整记录：%d 字节 < %d 字节", len(data), define.FrameRecordSize)
	}

	total := len(data) / define.FrameRecordSize
	count := total
	if count > max {
		count = max
	}

	frames = make([]Frame, count)
	for i := range frames {
		offset := i * define.FrameRecordSize
		for w := 0; w < define.FrameWords; w++ {
			frames[i].Words[w] = binary.LittleEndian.Uint32(data[offset+4*w:])
		}
		frames[i].DurationMs = binary.LittleEndian.Uint32(data[offset+4*define.FrameWords:])
	}

	return frames, total - count, nil
}
