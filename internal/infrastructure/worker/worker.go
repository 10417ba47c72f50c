// Package worker は定期実行ジョブを管理します
package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Job は定期実行ジョブを定義します
type Job struct {
	Name     string
	Interval time.Duration
	Fn       func(ctx context.Context) error
	// SkipInitialRun が true の場合、初回実行を最初のティックまで遅らせます
	SkipInitialRun bool
}

// Manager はバックグラウンドワーカーを管理します
type Manager struct {
	jobs   []Job
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewManager は新しいWorker Managerを作成します
func NewManager() *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		ctx:    ctx,
		cancel: cancel,
	}
}

// Register は定期実行ジョブを登録します
// Interval が0以下のジョブは登録しません
func (m *Manager) Register(job Job) {
	if job.Interval <= 0 {
		slog.Warn("worker job has no interval, skipping", "job", job.Name)
		return
	}
	m.jobs = append(m.jobs, job)
}

// Jobs は登録済みのジョブ名を返します
func (m *Manager) Jobs() []string {
	names := make([]string, len(m.jobs))
	for i, j := range m.jobs {
		names[i] = j.Name
	}
	return names
}

// Start は全ジョブのワーカーを開始します
func (m *Manager) Start() {
	for _, job := range m.jobs {
		m.wg.Add(1)
		go m.runJob(job)
	}
	slog.Info("worker manager started", "jobs", len(m.jobs))
}

// runJob は単一ジョブのワーカーループを実行します
func (m *Manager) runJob(job Job) {
	defer m.wg.Done()

	slog.Info("worker started", "job", job.Name, "interval", job.Interval)

	if !job.SkipInitialRun {
		m.execute(job)
	}

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			slog.Info("worker stopping", "job", job.Name)
			return
		case <-ticker.C:
			m.execute(job)
		}
	}
}

func (m *Manager) execute(job Job) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("worker job panicked", "job", job.Name, "panic", r)
		}
	}()

	if err := job.Fn(m.ctx); err != nil && m.ctx.Err() == nil {
		slog.Error("worker job failed", "job", job.Name, "error", err)
	}
}

// Shutdown はすべてのワーカーを安全に停止します
// タイムアウト内に停止した場合は true を返します
func (m *Manager) Shutdown(timeout time.Duration) bool {
	slog.Info("shutting down worker manager...")
	m.cancel()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		slog.Info("worker manager stopped gracefully")
		return true
	case <-time.After(timeout):
		slog.Warn("worker manager shutdown timed out")
		return false
	}
}
