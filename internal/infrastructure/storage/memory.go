package storage

import (
	"context"
	"maps"
	"sync"
	"time"

	"EasyFinder/internal/domain"
	"EasyFinder/internal/ports"
)

// MemoryActivityLog keeps the newest events in process memory.
type MemoryActivityLog struct {
	mu       sync.RWMutex
	events   []domain.ActivityEvent
	capacity int
}

var _ ports.ActivityLog = (*MemoryActivityLog)(nil)

// NewMemoryActivityLog creates a log holding at most capacity events.
func NewMemoryActivityLog(capacity int) *MemoryActivityLog {
	if capacity <= 0 {
		capacity = DefaultRetention
	}
	return &MemoryActivityLog{capacity: capacity}
}

// Append stores a copy of the event, dropping the oldest beyond capacity.
func (m *MemoryActivityLog) Append(_ context.Context, event domain.ActivityEvent) error {
	event.Data = maps.Clone(event.Data)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.events = append(m.events, event)
	if overflow := len(m.events) - m.capacity; overflow > 0 {
		m.events = append(m.events[:0:0], m.events[overflow:]...)
	}
	return nil
}

// Recent returns up to limit newest events, oldest first.
func (m *MemoryActivityLog) Recent(_ context.Context, limit int) ([]domain.ActivityEvent, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	start := max(len(m.events)-limit, 0)
	out := make([]domain.ActivityEvent, len(m.events)-start)
	copy(out, m.events[start:])
	return out, nil
}

// Clear drops every event.
func (m *MemoryActivityLog) Clear(context.Context) error {
	m.mu.Lock()
	m.events = nil
	m.mu.Unlock()
	return nil
}

// MemoryStatusRepository is the in-process StatusRepository.
type MemoryStatusRepository struct {
	mu     sync.RWMutex
	checks []domain.StatusCheck
	now    func() time.Time
}

var _ ports.StatusRepository = (*MemoryStatusRepository)(nil)

// NewMemoryStatusRepository creates an empty repository.
func NewMemoryStatusRepository() *MemoryStatusRepository {
	return &MemoryStatusRepository{now: time.Now}
}

// Create stores a new check.
func (m *MemoryStatusRepository) Create(_ context.Context, clientName string) (domain.StatusCheck, error) {
	check, err := newStatusCheck(clientName, m.now())
	if err != nil {
		return domain.StatusCheck{}, err
	}

	m.mu.Lock()
	m.checks = append(m.checks, check)
	m.mu.Unlock()
	return check, nil
}

// List returns stored checks, oldest first.
func (m *MemoryStatusRepository) List(context.Context) ([]domain.StatusCheck, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.StatusCheck, len(m.checks))
	copy(out, m.checks)
	return out, nil
}
