package inventory

import (
	"sync"
	"time"
)

// Views registro de vistas por sesión. Una vista se cierra al terminar la sesión
// (Drop) o cuando queda inactiva más de idle.
type Views struct {
	mu    sync.Mutex
	views map[string]*viewEntry
	idle  time.Duration
	now   func() time.Time
}

type viewEntry struct {
	view    *View
	touched time.Time
}

// NewViews construye el registro. idle <= 0 desactiva la expiración por inactividad.
func NewViews(idle time.Duration) *Views {
	return &Views{views: make(map[string]*viewEntry), idle: idle, now: time.Now}
}

// Get devuelve la vista de la sesión, creándola si no existe.
func (r *Views) Get(sessionID string) *View {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	r.sweep(now)
	e, ok := r.views[sessionID]
	if !ok {
		e = &viewEntry{view: NewView()}
		r.views[sessionID] = e
	}
	e.touched = now
	return e.view
}

// Peek devuelve la vista si existe, sin crearla.
func (r *Views) Peek(sessionID string) (*View, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.views[sessionID]
	if !ok {
		return nil, false
	}
	return e.view, true
}

// Drop cierra y olvida la vista de la sesión.
func (r *Views) Drop(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.views[sessionID]; ok {
		e.view.Close()
		delete(r.views, sessionID)
	}
}

// Len número de vistas registradas.
func (r *Views) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

func (r *Views) sweep(now time.Time) {
	if r.idle <= 0 {
		return
	}
	for id, e := range r.views {
		if now.Sub(e.touched) > r.idle {
			e.view.Close()
			delete(r.views, id)
		}
	}
}
