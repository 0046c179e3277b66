package device

import (
	"context"
	"fmt"
	"log"
	"matrix/communication"
	"matrix/define"
	"time"
)

// 单次渲染调用允许的最长耗时，避免 bridge 迟滞拖垮调度循环
const renderTimeout = 1 * time.Second

// PlaybackStatus 对外暴露的播放状态快照
type PlaybackStatus struct {
	Running      bool `json:"running"`
	CurrentIndex int  `json:"currentIndex"`
	FrameCount   int  `json:"frameCount"`
	Capacity     int  `json:"capacity"`
}

type commandKind int

const (
	cmdLoadFrame commandKind = iota
	cmdLoadBulk
	cmdPlay
	cmdStop
	cmdDraw
	cmdStatus
)

type command struct {
	kind  commandKind
	frame Frame
	data  []byte
	reply chan result
}

type result struct {
	stored int
	status PlaybackStatus
	err    error
}

// Engine 动画播放引擎。
// 帧缓冲区和播放状态全部由 run 循环这一个 goroutine 独占：
// 外部指令和时钟滴答在同一个循环里逐条跑完再处理下一条，
// 不存在并发访问，因此这些状态不需要任何锁。
type Engine struct {
	sink  communication.Communicator
	store *FrameStore

	// 播放状态，仅 run 循环读写
	running      bool
	currentIndex int
	nextDeadline time.Time

	tickInterval time.Duration
	now          func() time.Time
	notify       func(line string) // 诊断侧信道，可为 nil

	cmds chan command
	done chan struct{}
}

// NewEngine 创建一个新的播放引擎
func NewEngine(sink communication.Communicator, capacity int, tickInterval time.Duration) *Engine {
	if tickInterval <= 0 {
		tickInterval = define.DefaultTickIntervalMs * time.Millisecond
	}
	return &Engine{
		sink:         sink,
		store:        NewFrameStore(capacity),
		tickInterval: tickInterval,
		now:          time.Now,
		cmds:         make(chan command),
		done:         make(chan struct{}),
	}
}

// SetNotifier 挂接诊断侧信道，必须在 Start 之前调用
func (e *Engine) SetNotifier(fn func(line string)) { e.notify = fn }

// Start 启动调度循环
func (e *Engine) Start() { go e.run() }

// Close 关闭调度循环
func (e *Engine) Close() { close(e.done) }

func (e *Engine) run() {
	ticker := time.NewTicker(e.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-e.done:
			return
		case cmd := <-e.cmds:
			cmd.reply <- e.apply(cmd)
		case <-ticker.C:
			e.tick(e.now())
		}
	}
}

// do 把指令投递给 run 循环并等待结果
func (e *Engine) do(cmd command) result {
	cmd.reply = make(chan result, 1)
	select {
	case e.cmds <- cmd:
		return <-cmd.reply
	case <-e.done:
		return result{err: fmt.Errorf("播放引擎已关闭")}
	}
}

// LoadFrame 追加一帧到动画缓冲区，缓冲区已满时拒绝本帧
func (e *Engine) LoadFrame(words [define.FrameWords]uint32, durationMs uint32) error {
	return e.do(command{kind: cmdLoadFrame, frame: Frame{Words: words, DurationMs: durationMs}}).err
}

// LoadFramesBulk 解析批量负载并逐帧追加，返回实际入库的帧数
func (e *Engine) LoadFramesBulk(data []byte) (int, error) {
	r := e.do(command{kind: cmdLoadBulk, data: data})
	return r.stored, r.err
}

// Play 进入播放状态，从第 0 帧开始
func (e *Engine) Play() error { return e.do(command{kind: cmdPlay}).err }

// Stop 停止播放并清空缓冲区；空闲时为无副作用调用
func (e *Engine) Stop() error { return e.do(command{kind: cmdStop}).err }

// Draw 绕过调度器，立即渲染一帧原始像素数据
func (e *Engine) Draw(cells []byte) error {
	return e.do(command{kind: cmdDraw, data: cells}).err
}

// Status 返回播放状态快照
func (e *Engine) Status() PlaybackStatus {
	return e.do(command{kind: cmdStatus}).status
}

func (e *Engine) apply(cmd command) result {
	switch cmd.kind {
	case cmdLoadFrame:
		if err := e.loadFrame(cmd.frame); err != nil {
			return result{err: err}
		}
		return result{stored: 1}
	case cmdLoadBulk:
		stored, err := e.loadBulk(cmd.data)
		return result{stored: stored, err: err}
	case cmdPlay:
		e.play(e.now())
		return result{}
	case cmdStop:
		e.stop()
		return result{}
	case cmdDraw:
		return result{err: e.draw(cmd.data)}
	case cmdStatus:
		return result{status: e.status()}
	}
	return result{err: fmt.Errorf("未知指令类型：%d", cmd.kind)}
}

func (e *Engine) loadFrame(f Frame) error {
	if !e.store.Append(f) {
		e.diag(fmt.Sprintf("⚠️ 动画缓冲区已满（%d 帧），本帧被丢弃", e.store.Capacity()))
		return fmt.Errorf("动画缓冲区已满：%d/%d", e.store.Count(), e.store.Capacity())
	}
	e.diag(fmt.Sprintf("📥 已加载第 %d 帧，时长 %dms", e.store.Count()-1, f.DurationMs))
	return nil
}

func (e *Engine) loadBulk(data []byte) (int, error) {
	frames, droppedByCap, err := DecodeFrames(data, define.MaxBulkRecords)
	if err != nil {
		e.diag("⚠️ 批量帧数据无效：" + err.Error())
		return 0, err
	}
	if droppedByCap > 0 {
		e.diag(fmt.Sprintf("⚠️ 批量帧超出单次上限 %d，截断丢弃 %d 帧", define.MaxBulkRecords, droppedByCap))
	}

	stored := 0
	for _, f := range frames {
		if !e.store.Append(f) {
			// 缓冲区已到真实容量，后面的帧同样放不下
			e.diag(fmt.Sprintf("⚠️ 动画缓冲区已满（%d 帧），剩余 %d 帧被丢弃", e.store.Capacity(), len(frames)-stored))
			break
		}
		stored++
	}

	e.diag(fmt.Sprintf("📥 批量加载完成：入库 %d 帧，缓冲区 %d/%d", stored, e.store.Count(), e.store.Capacity()))
	return stored, nil
}

func (e *Engine) play(now time.Time) {
	e.running = true
	e.currentIndex = 0
	e.nextDeadline = now
	e.diag(fmt.Sprintf("▶️ 开始播放动画，共 %d 帧", e.store.Count()))
}

func (e *Engine) stop() {
	if !e.running {
		e.diag("ℹ️ 当前没有动画在播放，停止请求已忽略")
		return
	}
	e.running = false
	e.currentIndex = 0
	e.store.Reset()
	e.diag("🛑 动画已停止，缓冲区已清空")
}

// tick 每个调度周期执行一次，绝不阻塞等待：
// 未到帧切换时刻立即返回，到点则渲染当前帧并推进。
// 空闲或缓冲区为空时什么都不做，保证永远不会越界读取。
func (e *Engine) tick(now time.Time) {
	if !e.running || e.store.Count() == 0 {
		return
	}
	if now.Before(e.nextDeadline) {
		return
	}

	frame := e.store.At(e.currentIndex)
	e.render(e.currentIndex, frame)

	// 零时长帧垫底为 1ms，保证调度器始终向前推进
	interval := time.Duration(frame.DurationMs) * time.Millisecond
	if interval <= 0 {
		interval = time.Millisecond
	}
	e.nextDeadline = now.Add(interval)
	e.currentIndex++

	if e.currentIndex >= e.store.Count() {
		// 播放完毕：回到空闲态并清空缓冲区，重播前需要重新加载
		e.running = false
		e.currentIndex = 0
		e.store.Reset()
		e.diag("🏁 动画播放完毕，回到空闲状态")
	}
}

func (e *Engine) render(index int, f Frame) {
	ctx, cancel := context.WithTimeout(context.Background(), renderTimeout)
	defer cancel()

	words := FormatWords(f.Words)
	if err := e.sink.RenderWords(ctx, words); err != nil {
		// 渲染失败只记录诊断，调度照常推进
		e.diag(fmt.Sprintf("❌ 第 %d 帧渲染失败：%v", index, err))
	}
}

func (e *Engine) draw(cells []byte) error {
	if len(cells) == 0 {
		e.diag("⚠️ 即时绘制数据为空，已忽略")
		return fmt.Errorf("即时绘制数据为空")
	}
	if len(cells) != define.PanelCells {
		e.diag(fmt.Sprintf("ℹ️ 即时绘制数据长度 %d 与面板像素数 %d 不一致", len(cells), define.PanelCells))
	}

	ctx, cancel := context.WithTimeout(context.Background(), renderTimeout)
	defer cancel()

	if err := e.sink.RenderCells(ctx, cells); err != nil {
		e.diag("❌ 即时绘制发送失败：" + err.Error())
		return err
	}
	e.diag(fmt.Sprintf("🖼️ 即时绘制完成，%d 字节", len(cells)))
	return nil
}

func (e *Engine) status() PlaybackStatus {
	return PlaybackStatus{
		Running:      e.running,
		CurrentIndex: e.currentIndex,
		FrameCount:   e.store.Count(),
		Capacity:     e.store.Capacity(),
	}
}

// diag 输出一行诊断信息，同时抄送侧信道
func (e *Engine) diag(line string) {
	log.Print(line)
	if e.notify != nil {
		e.notify(line)
	}
}
