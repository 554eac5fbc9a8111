package matrix

import "sync"

// Memory is a Panel that keeps the last flushed frame in memory. It backs
// tests and headless runs.
type Memory struct {
	mu       sync.Mutex
	grid     Grid
	lowLight bool
	flushes  int
}

// Flush stores the frame.
func (m *Memory) Flush(g Grid, lowLight bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.grid = g
	m.lowLight = lowLight
	m.flushes++
	return nil
}

// Grid returns the last flushed frame.
func (m *Memory) Grid() Grid {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.grid
}

// LowLight reports whether the last frame was flushed dimmed.
func (m *Memory) LowLight() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lowLight
}

// Flushes returns how many frames were flushed.
func (m *Memory) Flushes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.flushes
}
