package engine

import (
	"fmt"
	"sort"
	"sync"

	"github.com/tonhe/fireline/internal/probe"
)

// Manager coordinates multiple Pollers, one per controller.
type Manager struct {
	mu      sync.RWMutex
	engines map[string]*Poller
}

// NewManager creates an empty Manager.
func NewManager() *Manager {
	return &Manager{
		engines: make(map[string]*Poller),
	}
}

// Start creates and launches a Poller for the controller named in opts.
func (m *Manager) Start(collector probe.Collector, opts Options) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.engines[opts.Name]; exists {
		return fmt.Errorf("engine %q already running", opts.Name)
	}

	p, err := NewPoller(collector, opts)
	if err != nil {
		return err
	}

	m.engines[opts.Name] = p
	go p.Run()
	return nil
}

// Stop halts the Poller for the named controller and removes it.
func (m *Manager) Stop(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.engines[name]
	if !ok {
		return fmt.Errorf("engine %q not found", name)
	}

	p.Stop()
	delete(m.engines, name)
	return nil
}

// GetSnapshot returns a point-in-time snapshot for the named controller.
func (m *Manager) GetSnapshot(name string) (*ControllerSnapshot, error) {
	p, err := m.get(name)
	if err != nil {
		return nil, err
	}
	return p.Snapshot(), nil
}

// Refresh runs an immediate poll cycle for the named controller outside the
// regular schedule. It blocks until the cycle completes.
func (m *Manager) Refresh(name string) (Report, error) {
	p, err := m.get(name)
	if err != nil {
		return Report{}, err
	}
	return p.Poll(), nil
}

// Subscribe returns a channel that receives events for the named controller.
func (m *Manager) Subscribe(name string) (<-chan EngineEvent, error) {
	p, err := m.get(name)
	if err != nil {
		return nil, err
	}
	return p.Subscribe(), nil
}

// ListEngines returns summary info for all running engines, sorted by name.
func (m *Manager) ListEngines() []EngineInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	infos := make([]EngineInfo, 0, len(m.engines))
	for _, p := range m.engines {
		infos = append(infos, p.Info())
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// StopAll halts and removes all running engines.
func (m *Manager) StopAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for name, p := range m.engines {
		p.Stop()
		delete(m.engines, name)
	}
}

func (m *Manager) get(name string) (*Poller, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.engines[name]
	if !ok {
		return nil, fmt.Errorf("engine %q not found", name)
	}
	return p, nil
}
