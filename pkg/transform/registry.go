package transform

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/tsweave/tsweave/pkg/errors"
	"github.com/tsweave/tsweave/pkg/logger"
)

// Registry manages transformer registration and instantiation by name,
// enabling config-driven pipeline construction.
type Registry struct {
	factories map[string]Factory
	mu        sync.RWMutex
}

// Factory is a function that creates transformer instances from a parameter
// map. Unknown parameters are an error; factories validate their own inputs.
type Factory func(params map[string]interface{}) (Transformer, error)

// Global registry instance
var globalRegistry = NewRegistry()

// NewRegistry creates a new transformer registry
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register registers a transformer factory under a name
func (r *Registry) Register(name string, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return errors.New(errors.ErrorTypeConfig, fmt.Sprintf("transformer %s already registered", name))
	}

	r.factories[name] = factory
	// Fetched at call time: registries are built during package init,
	// before the host has configured logging.
	logger.Get().Debug("transformer registered",
		zap.String("component", "transform_registry"),
		zap.String("name", name))
	return nil
}

// Create instantiates a registered transformer with the given parameters
func (r *Registry) Create(name string, params map[string]interface{}) (Transformer, error) {
	r.mu.RLock()
	factory, exists := r.factories[name]
	r.mu.RUnlock()

	if !exists {
		return nil, errors.New(errors.ErrorTypeConfig, fmt.Sprintf("unknown transformer type %s", name))
	}

	t, err := factory(params)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, fmt.Sprintf("failed to create transformer %s", name))
	}
	return t, nil
}

// Names returns the registered transformer names
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	return names
}

// Register registers a factory with the global registry
func Register(name string, factory Factory) error {
	return globalRegistry.Register(name, factory)
}

// MustRegister registers a factory with the global registry and panics on
// conflict. Intended for package init functions.
func MustRegister(name string, factory Factory) {
	if err := globalRegistry.Register(name, factory); err != nil {
		panic(err)
	}
}

// Create instantiates a transformer from the global registry
func Create(name string, params map[string]interface{}) (Transformer, error) {
	return globalRegistry.Create(name, params)
}
