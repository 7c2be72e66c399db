// FILE: lixenwraith/stylecheck/internal/checker/checker.go

// Package checker defines the contract between the run pipeline and the rule
// implementations, and the factory that builds rules from service definitions.
package checker

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/lixenwraith/stylecheck/config"
)

// Violation is a single finding reported by a Checker.
type Violation struct {
	File    string `json:"file"`
	Line    int    `json:"line"`
	Checker string `json:"checker"`
	Message string `json:"message"`
}

// Checker reports violations without changing content.
type Checker interface {
	Check(path string, content []byte) []Violation
}

// Fixer rewrites content. It returns the input unchanged when nothing applies.
type Fixer interface {
	Fix(path string, content []byte) []byte
}

// Configurable rules accept the "configuration" section of their service.
type Configurable interface {
	Configure(options map[string]any) error
}

// Constructor creates a fresh, unconfigured rule. The result must implement
// Checker, Fixer or both.
type Constructor func() any

// Instance is a built rule together with the service it came from.
type Instance struct {
	Service string
	Class   string
	Rule    any
}

// Checker returns the rule as a Checker, if it is one.
func (i Instance) Checker() (Checker, bool) {
	c, ok := i.Rule.(Checker)
	return c, ok
}

// Fixer returns the rule as a Fixer, if it is one.
func (i Instance) Fixer() (Fixer, bool) {
	f, ok := i.Rule.(Fixer)
	return f, ok
}

// Factory maps class names to constructors.
type Factory struct {
	constructors map[string]Constructor
	mutex        sync.RWMutex
}

// NewFactory creates an empty factory
func NewFactory() *Factory {
	return &Factory{constructors: make(map[string]Constructor)}
}

// Register adds a class. Registering the same class twice panics.
func (f *Factory) Register(class string, ctor Constructor) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if _, exists := f.constructors[class]; exists {
		panic(fmt.Sprintf("checker: class %q registered twice", class))
	}
	f.constructors[class] = ctor
}

// Known reports whether class has a constructor. It matches config.ClassPredicate.
func (f *Factory) Known(class string) bool {
	f.mutex.RLock()
	defer f.mutex.RUnlock()

	_, ok := f.constructors[class]
	return ok
}

// Classes returns the registered class names, sorted
func (f *Factory) Classes() []string {
	f.mutex.RLock()
	defer f.mutex.RUnlock()

	classes := make([]string, 0, len(f.constructors))
	for class := range f.constructors {
		classes = append(classes, class)
	}
	sort.Strings(classes)
	return classes
}

// Build instantiates every checker-tagged service in order and applies its
// configuration. Services without the tag are helpers and are skipped.
func (f *Factory) Build(services []config.Service) ([]Instance, error) {
	var instances []Instance
	for _, service := range services {
		def := service.Definition
		if !def.HasTag(config.CheckerTag) || def.Abstract {
			continue
		}

		instance, err := f.build(service.Name, def)
		if err != nil {
			return nil, err
		}
		instances = append(instances, instance)
	}
	return instances, nil
}

func (f *Factory) build(name string, def config.ServiceDefinition) (Instance, error) {
	f.mutex.RLock()
	ctor, ok := f.constructors[def.Class]
	f.mutex.RUnlock()
	if !ok {
		return Instance{}, config.NewConfigurationError(
			"Service %q uses unknown checker class %q (known classes: %s)",
			name, def.Class, strings.Join(f.Classes(), ", "))
	}

	rule := ctor()
	_, isChecker := rule.(Checker)
	_, isFixer := rule.(Fixer)
	if !isChecker && !isFixer {
		return Instance{}, fmt.Errorf("checker class %q implements neither Checker nor Fixer", def.Class)
	}

	if configurable, ok := rule.(Configurable); ok {
		if err := configurable.Configure(def.Configuration); err != nil {
			return Instance{}, config.NewConfigurationError("Invalid configuration for %q: %v", name, err)
		}
	} else if len(def.Configuration) > 0 {
		return Instance{}, config.NewConfigurationError("Checker %q does not accept configuration", name)
	}

	return Instance{Service: name, Class: def.Class, Rule: rule}, nil
}
