package device

import (
	"context"
	"matrix/define"
	"sync"
	"testing"
	"time"
)

// mockSink 记录所有到达 Display Sink 的渲染调用
type mockSink struct {
	mutex sync.Mutex
	words [][define.FrameWords]uint32
	cells [][]byte
}

func (m *mockSink) RenderWords(ctx context.Context, words [define.FrameWords]uint32) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.words = append(m.words, words)
	return nil
}

func (m *mockSink) RenderCells(ctx context.Context, cells []byte) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	buf := make([]byte, len(cells))
	copy(buf, cells)
	m.cells = append(m.cells, buf)
	return nil
}

func (m *mockSink) GetBridgeStatus() (bool, error) { return true, nil }
func (m *mockSink) SetServiceURL(url string)       {}
func (m *mockSink) IsConnected() bool              { return true }

func (m *mockSink) wordRenders() [][define.FrameWords]uint32 {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	out := make([][define.FrameWords]uint32, len(m.words))
	copy(out, m.words)
	return out
}

func newTestEngine(capacity int) (*Engine, *mockSink) {
	sink := &mockSink{}
	return NewEngine(sink, capacity, time.Millisecond), sink
}

func frameWithMark(mark uint32, durationMs uint32) Frame {
	return Frame{Words: [define.FrameWords]uint32{mark, 0, 0, 0}, DurationMs: durationMs}
}

// 按时间推进逐帧渲染，验证播放顺序与一次性消费语义
func TestPlaybackOrderAndConsumption(t *testing.T) {
	e, sink := newTestEngine(10)
	t0 := time.Unix(0, 0)

	for i := uint32(0); i < 3; i++ {
		if err := e.loadFrame(frameWithMark(i+1, 10)); err != nil {
			t.Fatalf("loadFrame failed: %v", err)
		}
	}

	e.play(t0)
	for i := 0; i < 3; i++ {
		e.tick(t0.Add(time.Duration(i*10) * time.Millisecond))
	}

	renders := sink.wordRenders()
	if len(renders) != 3 {
		t.Fatalf("Expected 3 renders, got %d", len(renders))
	}
	for i, words := range renders {
		// 渲染前经过位序整理，翻转一次即可还原标记值
		restored := FormatWords(words)
		if restored[0] != uint32(i+1) {
			t.Errorf("Render %d: expected mark %d, got %d", i, i+1, restored[0])
		}
	}

	status := e.status()
	if status.Running {
		t.Error("Expected engine idle after playback completed")
	}
	if status.FrameCount != 0 {
		t.Errorf("Expected empty store after playback, got %d frames", status.FrameCount)
	}

	// 缓冲区已消费，后续滴答永远不再渲染
	e.tick(t0.Add(time.Hour))
	if len(sink.wordRenders()) != 3 {
		t.Error("Tick after completion must not render")
	}
}

// 加载 3 帧，时长 [100, 200, 300]ms：帧 0 在 t=0 渲染，
// 帧 1 在 t=100，帧 2 在 t=300，t=600 时回到空闲且缓冲区清空
func TestScenarioTiming(t *testing.T) {
	e, sink := newTestEngine(10)
	t0 := time.Unix(0, 0)

	durations := []uint32{100, 200, 300}
	for i, d := range durations {
		if err := e.loadFrame(frameWithMark(uint32(i+1), d)); err != nil {
			t.Fatalf("loadFrame %d failed: %v", i, err)
		}
	}

	e.play(t0)

	steps := []struct {
		atMs        int
		wantRenders int
	}{
		{0, 1},     // 帧 0
		{50, 1},    // 截止时刻未到
		{100, 2},   // 帧 1
		{250, 2},   // 截止时刻未到
		{300, 3},   // 帧 2
		{600, 3},   // 已经播放完毕
		{10000, 3}, // 永久空闲
	}
	for _, step := range steps {
		e.tick(t0.Add(time.Duration(step.atMs) * time.Millisecond))
		if got := len(sink.wordRenders()); got != step.wantRenders {
			t.Errorf("t=%dms: expected %d renders, got %d", step.atMs, step.wantRenders, got)
		}
	}

	status := e.status()
	if status.Running || status.FrameCount != 0 || status.CurrentIndex != 0 {
		t.Errorf("Expected idle empty state at t=600, got %+v", status)
	}
}

// 空闲时停止是无副作用调用
func TestStopWhileIdle(t *testing.T) {
	e, _ := newTestEngine(10)

	if err := e.loadFrame(frameWithMark(1, 100)); err != nil {
		t.Fatalf("loadFrame failed: %v", err)
	}

	before := e.status()
	e.stop()
	after := e.status()

	if before != after {
		t.Errorf("Stop while idle changed state: before=%+v after=%+v", before, after)
	}
}

// 播放中停止立即清空缓冲区
func TestStopWhilePlaying(t *testing.T) {
	e, sink := newTestEngine(10)
	t0 := time.Unix(0, 0)

	e.loadFrame(frameWithMark(1, 100))
	e.loadFrame(frameWithMark(2, 100))
	e.play(t0)
	e.tick(t0)

	e.stop()

	status := e.status()
	if status.Running || status.FrameCount != 0 {
		t.Errorf("Expected idle empty state after stop, got %+v", status)
	}

	e.tick(t0.Add(time.Second))
	if len(sink.wordRenders()) != 1 {
		t.Errorf("Expected no renders after stop, got %d", len(sink.wordRenders()))
	}
}

// 空缓冲区进入播放态后，滴答永远是空操作，绝不越界读取
func TestPlayWithEmptyStore(t *testing.T) {
	e, sink := newTestEngine(10)
	t0 := time.Unix(0, 0)

	e.play(t0)
	for i := 0; i < 100; i++ {
		e.tick(t0.Add(time.Duration(i) * time.Millisecond))
	}

	if len(sink.wordRenders()) != 0 {
		t.Errorf("Expected no renders with empty store, got %d", len(sink.wordRenders()))
	}
}

// 零时长帧必须被显示，且调度器以 1ms 垫底继续推进
func TestZeroDurationFloor(t *testing.T) {
	e, sink := newTestEngine(10)
	t0 := time.Unix(0, 0)

	e.loadFrame(frameWithMark(1, 0))
	e.loadFrame(frameWithMark(2, 10))
	e.play(t0)

	e.tick(t0)
	if len(sink.wordRenders()) != 1 {
		t.Fatalf("Expected zero-duration frame to render, got %d renders", len(sink.wordRenders()))
	}

	// 同一时刻不会重复渲染
	e.tick(t0)
	if len(sink.wordRenders()) != 1 {
		t.Error("Frame advanced before the 1ms floor elapsed")
	}

	// 1ms 之后推进到下一帧
	e.tick(t0.Add(time.Millisecond))
	if len(sink.wordRenders()) != 2 {
		t.Errorf("Expected second frame after 1ms floor, got %d renders", len(sink.wordRenders()))
	}
}

// 超出容量的帧不会写入缓冲区，也不会出现在播放里
func TestCapacityOverflow(t *testing.T) {
	e, sink := newTestEngine(3)
	t0 := time.Unix(0, 0)

	for i := uint32(1); i <= 3; i++ {
		if err := e.loadFrame(frameWithMark(i, 1)); err != nil {
			t.Fatalf("loadFrame %d failed: %v", i, err)
		}
	}
	if err := e.loadFrame(frameWithMark(4, 1)); err == nil {
		t.Error("Expected rejection for frame beyond capacity")
	}
	if got := e.status().FrameCount; got != 3 {
		t.Fatalf("Expected 3 frames stored, got %d", got)
	}

	e.play(t0)
	for i := 0; i < 10; i++ {
		e.tick(t0.Add(time.Duration(i) * time.Millisecond))
	}

	renders := sink.wordRenders()
	if len(renders) != 3 {
		t.Fatalf("Expected 3 renders, got %d", len(renders))
	}
	for _, words := range renders {
		if FormatWords(words)[0] == 4 {
			t.Error("Rejected frame must not be rendered")
		}
	}
}

// 即时绘制：空数据被拒绝，正常数据原样直达 Display Sink
func TestDraw(t *testing.T) {
	e, sink := newTestEngine(10)

	if err := e.draw(nil); err == nil {
		t.Error("Expected rejection for empty draw buffer")
	}

	cells := make([]byte, define.PanelCells)
	cells[0] = 7
	if err := e.draw(cells); err != nil {
		t.Fatalf("draw failed: %v", err)
	}

	sink.mutex.Lock()
	defer sink.mutex.Unlock()
	if len(sink.cells) != 1 {
		t.Fatalf("Expected 1 cell render, got %d", len(sink.cells))
	}
	if sink.cells[0][0] != 7 {
		t.Error("Draw payload must reach the sink unmodified")
	}
}

// 黑盒路径：通过指令通道与真实滴答完成一次完整播放
func TestEngineActorLoop(t *testing.T) {
	sink := &mockSink{}
	e := NewEngine(sink, 10, time.Millisecond)
	e.Start()
	defer e.Close()

	var words [define.FrameWords]uint32
	words[0] = 0xA5A5A5A5
	if err := e.LoadFrame(words, 1); err != nil {
		t.Fatalf("LoadFrame failed: %v", err)
	}
	if err := e.LoadFrame(words, 1); err != nil {
		t.Fatalf("LoadFrame failed: %v", err)
	}
	if err := e.Play(); err != nil {
		t.Fatalf("Play failed: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		status := e.Status()
		if !status.Running && len(sink.wordRenders()) == 2 {
			if status.FrameCount != 0 {
				t.Errorf("Expected empty store after playback, got %d", status.FrameCount)
			}
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("Timeout: playback did not complete, renders=%d", len(sink.wordRenders()))
}
