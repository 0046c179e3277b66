package device

import (
	"matrix/define"
)

// FrameStore 固定容量的动画帧缓冲区。
// 只允许在末尾追加，播放完成或显式停止时整体清空；
// 底层数组构造时一次分配到位，运行期不再扩容。
type FrameStore struct {
	frames []Frame
	count  int
}

func NewFrameStore(capacity int) *FrameStore {
	if capacity <= 0 {
		capacity = define.DefaultCapacity
	}
	return &FrameStore{frames: make([]Frame, capacity)}
}

// Capacity 返回缓冲区容量
func (s *FrameStore) Capacity() int { return len(s.frames) }

// Count 返回当前已加载的帧数
func (s *FrameStore) Count() int { return s.count }

// IsFull 检查缓冲区是否已满
func (s *FrameStore) IsFull() bool { return s.count >= len(s.frames) }

// Append 在 count 位置写入一帧并推进计数。
// 缓冲区已满时只拒绝本帧，不影响已有内容，返回 false。
func (s *FrameStore) Append(f Frame) bool {
	if s.count >= len(s.frames) {
		return false
	}
	s.frames[s.count] = f
	s.count++
	return true
}

// At 返回第 i 帧，调用方保证 0 <= i < Count()
func (s *FrameStore) At(i int) Frame { return s.frames[i] }

// Reset 清空缓冲区，已有数据留在底层数组里等待覆盖
func (s *FrameStore) Reset() { s.count = 0 }
