// Package registry manages module lifecycle: registration, dependency
// resolution, initialization, and shutdown of NetScout modules.
package registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/msptoolkit/netscout/pkg/plugin"
	"go.uber.org/zap"
)

// Registry manages the lifecycle of all registered modules.
type Registry struct {
	mu       sync.RWMutex
	modules  map[string]plugin.Plugin
	infos    map[string]plugin.PluginInfo
	order    []string // topological order after Validate
	disabled map[string]bool
	logger   *zap.Logger
}

// New creates a new module registry.
func New(logger *zap.Logger) *Registry {
	return &Registry{
		modules:  make(map[string]plugin.Plugin),
		infos:    make(map[string]plugin.PluginInfo),
		disabled: make(map[string]bool),
		logger:   logger,
	}
}

// Register adds a module to the registry. Must be called before Validate.
func (r *Registry) Register(p plugin.Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	info := p.Info()
	name := info.Name

	if name == "" {
		return fmt.Errorf("module has empty name")
	}
	if _, exists := r.modules[name]; exists {
		return fmt.Errorf("module %q already registered", name)
	}

	r.modules[name] = p
	r.infos[name] = info
	r.logger.Info("module registered",
		zap.String("name", name),
		zap.String("version", info.Version),
		zap.Int("api_version", info.APIVersion),
	)
	return nil
}

// Validate checks API version compatibility, verifies dependencies, and
// resolves the start order via topological sort. Optional modules with
// problems are disabled; required modules with problems fail validation.
func (r *Registry) Validate() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for name, info := range r.infos {
		if err := checkAPIVersion(name, info.APIVersion); err != nil {
			if info.Required {
				return err
			}
			r.logger.Warn("disabling module: incompatible API version",
				zap.String("name", name), zap.Error(err))
			r.disabled[name] = true
		}
	}

	// Disable modules whose dependencies are missing or disabled, cascading
	// until the set is stable.
	changed := true
	for changed {
		changed = false
		for name, info := range r.infos {
			if r.disabled[name] {
				continue
			}
			for _, dep := range info.Dependencies {
				_, exists := r.modules[dep]
				if exists && !r.disabled[dep] {
					continue
				}
				if info.Required {
					return fmt.Errorf("required module %q depends on %q which is missing or disabled", name, dep)
				}
				r.logger.Warn("disabling module: unavailable dependency",
					zap.String("name", name),
					zap.String("dependency", dep),
				)
				r.disabled[name] = true
				changed = true
				break
			}
		}
	}

	order, err := r.topologicalSort()
	if err != nil {
		return err
	}
	r.order = order

	r.logger.Info("module dependency resolution complete",
		zap.Strings("start_order", r.order),
		zap.Int("active", len(r.order)),
		zap.Int("disabled", len(r.disabled)),
	)
	return nil
}

// InitAll initializes all active modules in dependency order. The depsFn
// callback builds the scoped Dependencies for each module by name.
func (r *Registry) InitAll(ctx context.Context, depsFn func(name string) plugin.Dependencies) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, name := range r.order {
		if r.disabled[name] {
			continue
		}
		p := r.modules[name]

		r.logger.Info("initializing module", zap.String("name", name))
		if err := p.Init(ctx, depsFn(name)); err != nil {
			if r.infos[name].Required {
				return fmt.Errorf("required module %q failed to initialize: %w", name, err)
			}
			r.logger.Error("optional module failed to initialize, disabling",
				zap.String("name", name), zap.Error(err))
			r.disabled[name] = true
			continue
		}

		if v, ok := p.(plugin.Validator); ok {
			if err := v.ValidateConfig(); err != nil {
				if r.infos[name].Required {
					return fmt.Errorf("required module %q config validation failed: %w", name, err)
				}
				r.logger.Error("optional module config validation failed, disabling",
					zap.String("name", name), zap.Error(err))
				r.disabled[name] = true
			}
		}
	}
	return nil
}

// StartAll starts all initialized modules in dependency order.
func (r *Registry) StartAll(ctx context.Context) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, name := range r.order {
		if r.disabled[name] {
			continue
		}
		p := r.modules[name]
		r.logger.Info("starting module", zap.String("name", name))
		if err := p.Start(ctx); err != nil {
			if r.infos[name].Required {
				return fmt.Errorf("required module %q failed to start: %w", name, err)
			}
			r.logger.Error("optional module failed to start, disabling",
				zap.String("name", name), zap.Error(err))
			r.disabled[name] = true
		}
	}
	return nil
}

// StopAll stops all active modules in reverse dependency order.
func (r *Registry) StopAll(ctx context.Context) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := len(r.order) - 1; i >= 0; i-- {
		name := r.order[i]
		if r.disabled[name] {
			continue
		}
		r.logger.Info("stopping module", zap.String("name", name))
		if err := r.modules[name].Stop(ctx); err != nil {
			r.logger.Error("failed to stop module", zap.String("name", name), zap.Error(err))
		}
	}
}

// Get returns an active module by name.
func (r *Registry) Get(name string) (plugin.Plugin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.modules[name]
	if ok && r.disabled[name] {
		return nil, false
	}
	return p, ok
}

// All returns all active modules in dependency order.
func (r *Registry) All() []plugin.Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]plugin.Plugin, 0, len(r.order))
	for _, name := range r.order {
		if !r.disabled[name] {
			result = append(result, r.modules[name])
		}
	}
	return result
}

// AllRoutes returns HTTP routes from all active modules implementing HTTPProvider.
func (r *Registry) AllRoutes() map[string][]plugin.Route {
	r.mu.RLock()
	defer r.mu.RUnlock()

	routes := make(map[string][]plugin.Route)
	for _, name := range r.order {
		if r.disabled[name] {
			continue
		}
		if hp, ok := r.modules[name].(plugin.HTTPProvider); ok {
			if pr := hp.Routes(); len(pr) > 0 {
				routes[name] = pr
			}
		}
	}
	return routes
}

// Resolve returns a module by name (implements plugin.PluginResolver).
func (r *Registry) Resolve(name string) (plugin.Plugin, bool) {
	return r.Get(name)
}

// ResolveByRole returns all active modules that declare the given role.
func (r *Registry) ResolveByRole(role string) []plugin.Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []plugin.Plugin
	for _, name := range r.order {
		if r.disabled[name] {
			continue
		}
		for _, moduleRole := range r.infos[name].Roles {
			if moduleRole == role {
				result = append(result, r.modules[name])
				break
			}
		}
	}
	return result
}

// IsDisabled returns whether a module has been disabled.
func (r *Registry) IsDisabled(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.disabled[name]
}

// checkAPIVersion validates a module's API version against the server's range.
func checkAPIVersion(name string, apiVersion int) error {
	if apiVersion < plugin.APIVersionMin {
		return fmt.Errorf("module %q targets API v%d, server requires at least v%d",
			name, apiVersion, plugin.APIVersionMin)
	}
	if apiVersion > plugin.APIVersionCurrent {
		return fmt.Errorf("module %q targets API v%d, server supports up to v%d",
			name, apiVersion, plugin.APIVersionCurrent)
	}
	return nil
}

// topologicalSort returns module names in dependency order using Kahn's algorithm.
func (r *Registry) topologicalSort() ([]string, error) {
	active := make(map[string]bool)
	for name := range r.modules {
		if !r.disabled[name] {
			active[name] = true
		}
	}

	inDegree := make(map[string]int)
	dependents := make(map[string][]string) // dep -> modules that depend on it

	for name := range active {
		inDegree[name] = 0
	}
	for name := range active {
		for _, dep := range r.infos[name].Dependencies {
			if active[dep] {
				inDegree[name]++
				dependents[dep] = append(dependents[dep], name)
			}
		}
	}

	var queue []string
	for name, degree := range inDegree {
		if degree == 0 {
			queue = append(queue, name)
		}
	}

	var order []string
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		order = append(order, name)

		for _, dependent := range dependents[name] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	if len(order) != len(active) {
		var cycled []string
		for name := range active {
			if inDegree[name] > 0 {
				cycled = append(cycled, name)
			}
		}
		return nil, fmt.Errorf("dependency cycle detected among modules: %v", cycled)
	}

	return order, nil
}
