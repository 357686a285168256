package models

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cloudwego/eino/components/model"

	"github.com/dohr-michael/taskchat/internal/config"
)

type entry struct {
	cfg   config.ProviderConfig
	once  sync.Once
	model model.ToolCallingChatModel
	err   error
}

// Registry builds configured providers on first use.
type Registry struct {
	providers   map[string]*entry
	defaultName string
}

// NewRegistry creates a registry over the configured providers.
func NewRegistry(cfg config.ModelsConfig) *Registry {
	r := &Registry{
		providers:   make(map[string]*entry, len(cfg.Providers)),
		defaultName: cfg.Default,
	}
	for name, p := range cfg.Providers {
		r.providers[name] = &entry{cfg: p}
	}
	return r
}

// Names lists the configured providers.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for n := range r.providers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Get returns the named model, building it once.
func (r *Registry) Get(ctx context.Context, name string) (model.ToolCallingChatModel, error) {
	e, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("model provider %q not found", name)
	}
	e.once.Do(func() {
		e.model, e.err = CreateModel(ctx, e.cfg)
	})
	return e.model, e.err
}

// Default returns the default model.
func (r *Registry) Default(ctx context.Context) (model.ToolCallingChatModel, error) {
	if r.defaultName == "" {
		return nil, fmt.Errorf("no default model configured")
	}
	return r.Get(ctx, r.defaultName)
}

// DefaultName returns the default provider name.
func (r *Registry) DefaultName() string { return r.defaultName }
