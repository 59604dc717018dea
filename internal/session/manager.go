// Package session keeps the papercraft projects edited through the action
// server. Every project is guarded by its own lock so edits on one project
// are applied one at a time.
package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/philipparndt/gocraft/pkg/export"
	"github.com/philipparndt/gocraft/pkg/mesh"
	"github.com/philipparndt/gocraft/pkg/papercraft"
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrTooManyProjects = errors.New("too many open projects")
)

// Info describes an open project
type Info struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Faces        int       `json:"faces"`
	Islands      int       `json:"islands"`
	Created      time.Time `json:"created"`
	LastAccessed time.Time `json:"lastAccessed"`
}

type entry struct {
	mu           sync.Mutex
	id           string
	name         string
	project      *papercraft.Project
	created      time.Time
	lastAccessed time.Time
}

func (e *entry) info() Info {
	return Info{
		ID:           e.id,
		Name:         e.name,
		Faces:        e.project.Mesh().NumFaces(),
		Islands:      e.project.NumIslands(),
		Created:      e.created,
		LastAccessed: e.lastAccessed,
	}
}

// Manager holds all open projects
type Manager struct {
	projects    map[string]*entry
	mu          sync.RWMutex
	maxProjects int
	now         func() time.Time
}

// NewManager creates a manager that keeps at most maxProjects projects
func NewManager(maxProjects int) *Manager {
	return &Manager{
		projects:    make(map[string]*entry),
		maxProjects: maxProjects,
		now:         time.Now,
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Create unfolds m into a new project. When ctx is done before the unfold
// finishes the result is discarded.
func (m *Manager) Create(ctx context.Context, name string, model *mesh.Mesh, options papercraft.PaperOptions) (Info, *papercraft.Snapshot, error) {
	m.mu.RLock()
	full := len(m.projects) >= m.maxProjects
	m.mu.RUnlock()
	if full {
		return Info{}, nil, ErrTooManyProjects
	}

	type result struct {
		project *papercraft.Project
		err     error
	}
	done := make(chan result, 1)
	start := time.Now()
	go func() {
		p, err := papercraft.New(model, options)
		done <- result{p, err}
	}()

	var res result
	select {
	case <-ctx.Done():
		return Info{}, nil, ctx.Err()
	case res = <-done:
	}
	if res.err != nil {
		return Info{}, nil, res.err
	}

	now := m.now()
	e := &entry{
		id:           uuid.New().String(),
		name:         name,
		project:      res.project,
		created:      now,
		lastAccessed: now,
	}

	m.mu.Lock()
	if len(m.projects) >= m.maxProjects {
		m.mu.Unlock()
		return Info{}, nil, ErrTooManyProjects
	}
	m.projects[e.id] = e
	m.mu.Unlock()

	fmt.Printf("[Project %s] Unfolded %q: %d faces into %d islands in %v\n",
		shortID(e.id), name, model.NumFaces(), res.project.NumIslands(), time.Since(start))
	return e.info(), res.project.Snapshot(), nil
}

func (m *Manager) lookup(id string) (*entry, error) {
	m.mu.RLock()
	e, ok := m.projects[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, ErrProjectNotFound)
	}
	return e, nil
}

// Apply runs fn with exclusive access to the project
func (m *Manager) Apply(ctx context.Context, id string, fn func(*papercraft.Project) (*papercraft.Snapshot, error)) (*papercraft.Snapshot, error) {
	e, err := m.lookup(id)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e.lastAccessed = m.now()
	return fn(e.project)
}

// Snapshot returns the current state of a project
func (m *Manager) Snapshot(id string) (*papercraft.Snapshot, error) {
	return m.Apply(context.Background(), id, func(p *papercraft.Project) (*papercraft.Snapshot, error) {
		return p.Snapshot(), nil
	})
}

// View runs fn with exclusive access to the project for reading
func (m *Manager) View(id string, fn func(*papercraft.Project)) error {
	e, err := m.lookup(id)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastAccessed = m.now()
	fn(e.project)
	return nil
}

// Layout builds the printable layout of a project
func (m *Manager) Layout(id string) (*export.Layout, error) {
	var layout *export.Layout
	err := m.View(id, func(p *papercraft.Project) {
		layout = export.BuildLayout(p)
	})
	return layout, err
}

// Info returns the description of a project
func (m *Manager) Info(id string) (Info, error) {
	e, err := m.lookup(id)
	if err != nil {
		return Info{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.info(), nil
}

// List returns all open projects, oldest first
func (m *Manager) List() []Info {
	m.mu.RLock()
	entries := make([]*entry, 0, len(m.projects))
	for _, e := range m.projects {
		entries = append(entries, e)
	}
	m.mu.RUnlock()

	infos := make([]Info, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		infos = append(infos, e.info())
		e.mu.Unlock()
	}
	sort.Slice(infos, func(i, j int) bool {
		if !infos[i].Created.Equal(infos[j].Created) {
			return infos[i].Created.Before(infos[j].Created)
		}
		return infos[i].ID < infos[j].ID
	})
	return infos
}

// Delete closes a project
func (m *Manager) Delete(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.projects[id]; !ok {
		return false
	}
	delete(m.projects, id)
	fmt.Printf("[Project %s] Closed\n", shortID(id))
	return true
}

// CleanupIdle closes projects not accessed within maxIdle and returns how
// many were closed
func (m *Manager) CleanupIdle(maxIdle time.Duration) int {
	cutoff := m.now().Add(-maxIdle)

	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, e := range m.projects {
		e.mu.Lock()
		idle := e.lastAccessed.Before(cutoff)
		e.mu.Unlock()
		if idle {
			delete(m.projects, id)
			removed++
			fmt.Printf("[Project %s] Closed after %v idle\n", shortID(id), maxIdle)
		}
	}
	return removed
}

// RunCleanup calls CleanupIdle every interval until ctx is done
func (m *Manager) RunCleanup(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.CleanupIdle(maxIdle)
		}
	}
}
