package device

import (
	"testing"
)

func TestFrameStoreAppendOrder(t *testing.T) {
	s := NewFrameStore(5)

	for i := uint32(0); i < 5; i++ {
		if !s.Append(frameWithMark(i, 10)) {
			t.Fatalf("Append %d rejected below capacity", i)
		}
	}
	if s.Count() != 5 || !s.IsFull() {
		t.Fatalf("Expected full store of 5, got count=%d", s.Count())
	}
	for i := 0; i < 5; i++ {
		if s.At(i).Words[0] != uint32(i) {
			t.Errorf("Frame %d out of order: got mark %d", i, s.At(i).Words[0])
		}
	}
}

func TestFrameStoreOverflow(t *testing.T) {
	s := NewFrameStore(2)
	s.Append(frameWithMark(1, 10))
	s.Append(frameWithMark(2, 10))

	if s.Append(frameWithMark(3, 10)) {
		t.Error("Append beyond capacity must be rejected")
	}
	// 拒绝只影响溢出帧，已有内容保持不变
	if s.Count() != 2 || s.At(0).Words[0] != 1 || s.At(1).Words[0] != 2 {
		t.Error("Overflow rejection corrupted stored frames")
	}
}

func TestFrameStoreReset(t *testing.T) {
	s := NewFrameStore(3)
	s.Append(frameWithMark(1, 10))
	s.Reset()

	if s.Count() != 0 {
		t.Errorf("Expected empty store after reset, got %d", s.Count())
	}
	// 清空后可以重新填满
	for i := uint32(0); i < 3; i++ {
		if !s.Append(frameWithMark(i, 10)) {
			t.Fatalf("Append %d rejected after reset", i)
		}
	}
}

func TestFrameStoreDefaultCapacity(t *testing.T) {
	s := NewFrameStore(0)
	if s.Capacity() <= 0 {
		t.Error("Non-positive capacity must fall back to the default")
	}
}
