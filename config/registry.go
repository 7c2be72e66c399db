// FILE: lixenwraith/stylecheck/config/registry.go
package config

import "sync"

// ServiceSink is what the loader needs from a registry
type ServiceSink interface {
	AddParameters(bag map[string]any)
	AddService(name string, def ServiceDefinition)
	Service(name string) (ServiceDefinition, bool)
	TrackResource(path string)
}

// TaggedCounter is what the run coordinator needs from a registry
type TaggedCounter interface {
	CountTagged(tag string) int
}

// Registry is a passive store of merged parameters and service definitions.
type Registry struct {
	params    map[string]any
	services  map[string]ServiceDefinition
	order     []string // service names in first-registration order
	resources []string
	tracked   map[string]bool
	mutex     sync.RWMutex
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		params:   make(map[string]any),
		services: make(map[string]ServiceDefinition),
		tracked:  make(map[string]bool),
	}
}

// AddParameters merges bag into the registry. Parameters already present are kept.
func (r *Registry) AddParameters(bag map[string]any) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.params = MergeKeepExisting(bag, r.params)
}

// AddService registers a definition, replacing any previous one with the same name.
func (r *Registry) AddService(name string, def ServiceDefinition) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.services[name]; !exists {
		r.order = append(r.order, name)
	}
	r.services[name] = def
}

// TrackResource records a file that contributed to the configuration
func (r *Registry) TrackResource(path string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.tracked[path] {
		return
	}
	r.tracked[path] = true
	r.resources = append(r.resources, path)
}

// OverrideParameter sets a parameter by dot-path regardless of what was loaded.
// Command-line overrides use it; file loading never does.
func (r *Registry) OverrideParameter(path string, value any) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	setNestedValue(r.params, path, value)
}

// CountTagged returns how many services carry the given tag
func (r *Registry) CountTagged(tag string) int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	count := 0
	for _, def := range r.services {
		if def.HasTag(tag) {
			count++
		}
	}
	return count
}

// Parameters returns a copy of the merged parameters
func (r *Registry) Parameters() ParameterBag {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return ParameterBag(deepCopy(r.params).(map[string]any))
}

// Service looks up a definition by name
func (r *Registry) Service(name string) (ServiceDefinition, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	def, ok := r.services[name]
	return def, ok
}

// Services returns all definitions in registration order
func (r *Registry) Services() []Service {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	services := make([]Service, 0, len(r.order))
	for _, name := range r.order {
		services = append(services, Service{Name: name, Definition: r.services[name]})
	}
	return services
}

// TaggedServices returns definitions carrying the tag, in registration order
func (r *Registry) TaggedServices(tag string) []Service {
	var tagged []Service
	for _, s := range r.Services() {
		if s.Definition.HasTag(tag) {
			tagged = append(tagged, s)
		}
	}
	return tagged
}

// Resources returns tracked configuration files in load order
func (r *Registry) Resources() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return append([]string(nil), r.resources...)
}
