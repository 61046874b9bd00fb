package monitor

import (
	"sync"
	"time"
)

// TaskStatus 任务状态: Pending -> Running -> {Completed | TimedOut | Cancelled}
type TaskStatus string

const (
	StatusPending   TaskStatus = "pending"
	StatusRunning   TaskStatus = "running"
	StatusCompleted TaskStatus = "completed"
	StatusTimedOut  TaskStatus = "timed_out"
	StatusCancelled TaskStatus = "cancelled"
)

// TaskState 单个探测任务的运行时状态（仅存在于内存中）
type TaskState struct {
	Order      int
	Target     string
	Status     TaskStatus
	StartedAt  time.Time
	FinishedAt time.Time
}

// StateManager 任务状态管理器
type StateManager struct {
	states  map[int]*TaskState
	running int
	peak    int
	mu      sync.RWMutex
}

// NewStateManager 创建状态管理器
func NewStateManager() *StateManager {
	return &StateManager{
		states: make(map[int]*TaskState),
	}
}

// InitTask 登记任务，初始为 Pending
func (sm *StateManager) InitTask(order int, target string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.states[order] = &TaskState{
		Order:  order,
		Target: target,
		Status: StatusPending,
	}
}

// MarkRunning 任务开始执行
func (sm *StateManager) MarkRunning(order int) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	state, exists := sm.states[order]
	if !exists || state.Status != StatusPending {
		return
	}
	state.Status = StatusRunning
	state.StartedAt = time.Now()
	sm.running++
	if sm.running > sm.peak {
		sm.peak = sm.running
	}
}

// MarkDone 任务结束，status 只能是 Completed、TimedOut 或 Cancelled
func (sm *StateManager) MarkDone(order int, status TaskStatus) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	state, exists := sm.states[order]
	if !exists {
		return
	}
	if state.Status == StatusRunning {
		sm.running--
	}
	if state.Status != StatusPending && state.Status != StatusRunning {
		return
	}
	state.Status = status
	state.FinishedAt = time.Now()
}

// GetState 获取任务状态副本
func (sm *StateManager) GetState(order int) (TaskState, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if state, exists := sm.states[order]; exists {
		return *state, true
	}
	return TaskState{}, false
}

// Running 当前正在执行的任务数
func (sm *StateManager) Running() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.running
}

// Peak 运行期间同时执行的最大任务数
func (sm *StateManager) Peak() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.peak
}

// Count 统计各状态的任务数
func (sm *StateManager) Count() map[TaskStatus]int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	counts := make(map[TaskStatus]int)
	for _, state := range sm.states {
		counts[state.Status]++
	}
	return counts
}
