package views

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"logiflow/internal/core/domain/model/session"
	"logiflow/internal/pkg/errs"
)

// Factory builds an unmounted view for a session.
type Factory func(s *session.Session) (View, error)

type key struct {
	device string
	path   string
}

type entry struct {
	view  View
	token string
	ready chan struct{}
	err   error
}

// Registry owns the mounted views, one per device and view path.
//
// Open mounts a view the first time a device asks for it and returns the same
// view afterwards. A new credential on the same device replaces the view. Views
// are unmounted on Close (logout), Sweep (idle) and Shutdown.
type Registry struct {
	factories map[string]Factory
	logger    *slog.Logger
	now       func() time.Time

	mu      sync.Mutex
	entries map[key]*entry
}

// NewRegistry creates a registry serving the view paths of factories.
func NewRegistry(factories map[string]Factory, logger *slog.Logger) (*Registry, error) {
	if len(factories) == 0 {
		return nil, errs.NewValueIsRequiredError("view factories")
	}
	if logger == nil {
		logger = slog.Default()
	}

	copied := make(map[string]Factory, len(factories))
	for path, f := range factories {
		copied[path] = f
	}

	return &Registry{
		factories: copied,
		logger:    logger.With("component", "view-registry"),
		now:       time.Now,
		entries:   make(map[key]*entry),
	}, nil
}

// Open returns the mounted view at path for device, mounting it if needed.
//
// A view whose initial fetch failed is still returned; its snapshot carries the
// error. An error is returned only when the view could not be mounted at all.
func (r *Registry) Open(ctx context.Context, device, path string, s *session.Session) (View, error) {
	if s == nil {
		return nil, session.ErrCredentialMissing
	}
	factory, ok := r.factories[path]
	if !ok {
		return nil, errs.NewObjectNotFoundError("view", path)
	}

	k := key{device: device, path: path}

	r.mu.Lock()
	e, ok := r.entries[k]
	if ok && e.token != s.Token() {
		delete(r.entries, k)
		go r.unmount(e)
		ok = false
	}
	if ok {
		r.mu.Unlock()
		return r.await(ctx, e)
	}

	e = &entry{token: s.Token(), ready: make(chan struct{})}
	r.entries[k] = e
	r.mu.Unlock()

	e.view, e.err = r.mount(ctx, factory, s)
	if e.err != nil {
		r.mu.Lock()
		if r.entries[k] == e {
			delete(r.entries, k)
		}
		r.mu.Unlock()
	}
	close(e.ready)

	if e.err != nil {
		return nil, e.err
	}
	r.logger.InfoContext(ctx, "view opened", "device", device, "path", path, "role", s.Role().String())
	return e.view, nil
}

func (r *Registry) mount(ctx context.Context, factory Factory, s *session.Session) (View, error) {
	v, err := factory(s)
	if err != nil {
		return nil, fmt.Errorf("build view: %w", err)
	}

	if err = v.Mount(ctx); err != nil {
		if !v.Mounted() {
			return nil, err
		}
		r.logger.WarnContext(ctx, "view mounted with a failed initial fetch", "error", err)
	}
	return v, nil
}

func (r *Registry) await(ctx context.Context, e *entry) (View, error) {
	select {
	case <-e.ready:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if e.err != nil {
		return nil, e.err
	}
	e.view.Touch()
	return e.view, nil
}

// Close unmounts every view of device and returns how many were closed.
func (r *Registry) Close(device string) int {
	closed := r.remove(func(k key, _ *entry) bool { return k.device == device })
	if closed > 0 {
		r.logger.Info("device views closed", "device", device, "count", closed)
	}
	return closed
}

// Sweep unmounts views without activity for longer than idle and returns how
// many were unmounted.
func (r *Registry) Sweep(idle time.Duration) int {
	now := r.now()
	swept := r.remove(func(_ key, e *entry) bool {
		return isReady(e) && e.view != nil && e.view.IdleFor(now) > idle
	})
	if swept > 0 {
		r.logger.Info("idle views unmounted", "count", swept)
	}
	return swept
}

// RefreshAll asks every mounted view for a full re-fetch.
func (r *Registry) RefreshAll() int {
	refreshed := 0
	for _, e := range r.ready() {
		if err := e.view.Refresh(); err != nil {
			r.logger.Warn("refresh failed", "error", err)
			continue
		}
		refreshed++
	}
	return refreshed
}

// Len returns the number of registered views.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.entries)
}

// Shutdown unmounts every view.
func (r *Registry) Shutdown() {
	r.remove(func(key, *entry) bool { return true })
}

func (r *Registry) ready() []*entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*entry, 0, len(r.entries))
	for _, e := range r.entries {
		if isReady(e) && e.view != nil {
			out = append(out, e)
		}
	}
	return out
}

func (r *Registry) remove(match func(key, *entry) bool) int {
	r.mu.Lock()
	var removed []*entry
	for k, e := range r.entries {
		if match(k, e) {
			delete(r.entries, k)
			removed = append(removed, e)
		}
	}
	r.mu.Unlock()

	for _, e := range removed {
		r.unmount(e)
	}
	return len(removed)
}

// unmount waits for a pending mount before tearing the view down.
func (r *Registry) unmount(e *entry) {
	<-e.ready
	if e.view != nil {
		e.view.Unmount()
	}
}

func isReady(e *entry) bool {
	select {
	case <-e.ready:
		return true
	default:
		return false
	}
}
