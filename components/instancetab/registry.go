package instancetab

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	ErrInvalidCode   = errors.New("instancetab: provider code is required")
	ErrNilProvider   = errors.New("instancetab: provider cannot be nil")
	ErrDuplicateCode = errors.New("instancetab: provider code already registered")
)

// Host is the registry contract a plugin registers its providers against.
type Host interface {
	RegisterProvider(provider TabProvider) error
	UnregisterProvider(code string) bool
}

// TabHook lets packages register providers during init().
type TabHook func(reg *Registry) error

var (
	globalHookMu sync.Mutex
	globalHooks  []TabHook
)

// RegisterTabHook registers a hook executed against new registries.
func RegisterTabHook(h TabHook) {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	globalHooks = append(globalHooks, h)
}

// Registry stores tab providers keyed by their code, plus optional manifest
// definitions that override provider metadata.
type Registry struct {
	mu          sync.RWMutex
	providers   map[string]TabProvider
	definitions map[string]TabDefinition
}

// NewRegistry builds an empty registry and applies global hooks.
func NewRegistry() *Registry {
	reg := &Registry{
		providers:   map[string]TabProvider{},
		definitions: map[string]TabDefinition{},
	}
	_ = reg.ApplyHooks()
	return reg
}

// ApplyHooks executes registered tab hooks.
func (r *Registry) ApplyHooks() error {
	globalHookMu.Lock()
	hooks := append([]TabHook(nil), globalHooks...)
	globalHookMu.Unlock()
	for _, hook := range hooks {
		if err := hook(r); err != nil {
			return err
		}
	}
	return nil
}

// RegisterProvider adds a provider under its code. Codes must be unique.
func (r *Registry) RegisterProvider(provider TabProvider) error {
	if provider == nil {
		return ErrNilProvider
	}
	code := provider.Code()
	if code == "" {
		return ErrInvalidCode
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.providers[code]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateCode, code)
	}
	r.providers[code] = provider
	return nil
}

// UnregisterProvider removes a provider and reports whether it was present.
func (r *Registry) UnregisterProvider(code string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.providers[code]; !ok {
		return false
	}
	delete(r.providers, code)
	return true
}

// Provider fetches a provider by code.
func (r *Registry) Provider(code string) (TabProvider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	provider, ok := r.providers[code]
	return provider, ok
}

// Providers returns all registered providers ordered by code.
func (r *Registry) Providers() []TabProvider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]TabProvider, 0, len(r.providers))
	for _, p := range r.providers {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Code() < list[j].Code() })
	return list
}

// RegisterDefinition stores manifest metadata for a tab code.
func (r *Registry) RegisterDefinition(def TabDefinition) error {
	if def.Code == "" {
		return ErrInvalidCode
	}
	def.normalizeLocalizedFields()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.definitions[def.Code] = def
	return nil
}

// Definition fetches manifest metadata by code.
func (r *Registry) Definition(code string) (TabDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.definitions[code]
	return def, ok
}

// Definitions returns every registered definition ordered by code.
func (r *Registry) Definitions() []TabDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]TabDefinition, 0, len(r.definitions))
	for _, def := range r.definitions {
		list = append(list, def)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Code < list[j].Code })
	return list
}

// Describe resolves the display metadata of a provider for a locale, applying
// any manifest overrides.
func (r *Registry) Describe(provider TabProvider, locale string) TabDescriptor {
	desc := TabDescriptor{
		Code:        provider.Code(),
		Name:        provider.Name(),
		Description: provider.Description(),
		Section:     provider.TabSection(),
	}
	def, ok := r.Definition(desc.Code)
	if !ok {
		return desc
	}
	desc.Name = ResolveLocalizedValue(def.NameLocalized, locale, orDefault(def.Name, desc.Name))
	desc.Description = ResolveLocalizedValue(def.DescriptionLocalized, locale, orDefault(def.Description, desc.Description))
	if def.Section != "" {
		desc.Section = def.Section
	}
	return desc
}
