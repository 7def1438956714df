package di

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// RegistrationMode determines how a registration is resolved.
type RegistrationMode int

const (
	Lazy      RegistrationMode = iota // constructed on first Resolve
	Eager                             // constructed at registration
	Singleton                         // pre-built instance
)

func (m RegistrationMode) String() string {
	switch m {
	case Lazy:
		return "lazy"
	case Eager:
		return "eager"
	case Singleton:
		return "singleton"
	default:
		return "unknown"
	}
}

// ErrNotRegistered is returned by Resolve for unknown keys.
var ErrNotRegistered = errors.New("not registered")

// Container defines the service registry.
type Container interface {
	// Register adds a lazy constructor. Supported signatures are
	// func() T, func() (T, error), func(context.Context) (T, error) and
	// func(Container) (T, error).
	Register(key string, constructor interface{}) error
	RegisterEager(key string, constructor interface{}) error
	RegisterSingleton(key string, instance interface{}) error
	Resolve(key string) (interface{}, error)
	Registrations() []RegistrationInfo
	Close() error
}

// RegistrationInfo describes a registration for introspection.
type RegistrationInfo struct {
	Key         string
	Mode        RegistrationMode
	Initialized bool
}

type registration struct {
	key         string
	constructor interface{}
	mode        RegistrationMode
	instance    interface{}
	initialized bool
	mu          sync.Mutex
}

// UnifiedContainer is the default Container.
type UnifiedContainer struct {
	registrations map[string]*registration
	mu            sync.RWMutex
}

func NewContainer() *UnifiedContainer {
	return &UnifiedContainer{registrations: make(map[string]*registration)}
}

func (c *UnifiedContainer) Register(key string, constructor interface{}) error {
	if err := checkConstructor(constructor); err != nil {
		return fmt.Errorf("di: register %s: %w", key, err)
	}
	return c.add(&registration{key: key, constructor: constructor, mode: Lazy})
}

// RegisterEager constructs the instance immediately and fails if the
// constructor does.
func (c *UnifiedContainer) RegisterEager(key string, constructor interface{}) error {
	if err := checkConstructor(constructor); err != nil {
		return fmt.Errorf("di: register %s: %w", key, err)
	}
	instance, err := c.callConstructor(constructor)
	if err != nil {
		return fmt.Errorf("di: construct %s: %w", key, err)
	}
	return c.add(&registration{key: key, constructor: constructor, mode: Eager, instance: instance, initialized: true})
}

func (c *UnifiedContainer) RegisterSingleton(key string, instance interface{}) error {
	return c.add(&registration{key: key, mode: Singleton, instance: instance, initialized: true})
}

func (c *UnifiedContainer) add(reg *registration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.registrations[reg.key]; exists {
		return fmt.Errorf("di: %s already registered", reg.key)
	}
	c.registrations[reg.key] = reg
	return nil
}

// Resolve returns the instance for key, constructing it on the first call.
// A failed construction is not cached; the next Resolve runs the
// constructor again.
func (c *UnifiedContainer) Resolve(key string) (interface{}, error) {
	c.mu.RLock()
	reg, exists := c.registrations[key]
	c.mu.RUnlock()
	if !exists {
		return nil, fmt.Errorf("di: %s: %w", key, ErrNotRegistered)
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()

	if reg.initialized {
		return reg.instance, nil
	}

	instance, err := c.callConstructor(reg.constructor)
	if err != nil {
		return nil, fmt.Errorf("di: construct %s: %w", key, err)
	}
	reg.instance = instance
	reg.initialized = true
	return instance, nil
}

var (
	contextType   = reflect.TypeOf((*context.Context)(nil)).Elem()
	containerType = reflect.TypeOf((*Container)(nil)).Elem()
	errorType     = reflect.TypeOf((*error)(nil)).Elem()
)

func checkConstructor(constructor interface{}) error {
	fnType := reflect.TypeOf(constructor)
	if fnType == nil || fnType.Kind() != reflect.Func {
		return fmt.Errorf("constructor must be a function, got %T", constructor)
	}
	switch fnType.NumIn() {
	case 0:
	case 1:
		if in := fnType.In(0); in != contextType && in != containerType {
			return fmt.Errorf("unsupported constructor argument %s", in)
		}
	default:
		return fmt.Errorf("constructor takes at most one argument")
	}
	switch fnType.NumOut() {
	case 1:
	case 2:
		if !fnType.Out(1).Implements(errorType) {
			return fmt.Errorf("second constructor result must be an error")
		}
	default:
		return fmt.Errorf("constructor must return (instance) or (instance, error)")
	}
	return nil
}

func (c *UnifiedContainer) callConstructor(constructor interface{}) (interface{}, error) {
	fn := reflect.ValueOf(constructor)

	var args []reflect.Value
	if fn.Type().NumIn() == 1 {
		if fn.Type().In(0) == contextType {
			args = []reflect.Value{reflect.ValueOf(context.Background())}
		} else {
			args = []reflect.Value{reflect.ValueOf(Container(c))}
		}
	}

	results := fn.Call(args)
	if len(results) == 2 && !results[1].IsNil() {
		return nil, results[1].Interface().(error)
	}
	return results[0].Interface(), nil
}

// Registrations lists every registration sorted by key.
func (c *UnifiedContainer) Registrations() []RegistrationInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]RegistrationInfo, 0, len(c.registrations))
	for key, reg := range c.registrations {
		reg.mu.Lock()
		result = append(result, RegistrationInfo{Key: key, Mode: reg.mode, Initialized: reg.initialized})
		reg.mu.Unlock()
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Key < result[j].Key })
	return result
}

// Close calls Close on every constructed instance that has one and forgets
// all instances.
func (c *UnifiedContainer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	for key, reg := range c.registrations {
		reg.mu.Lock()
		if reg.initialized {
			if closer, ok := reg.instance.(interface{ Close() error }); ok {
				if err := closer.Close(); err != nil {
					errs = append(errs, fmt.Errorf("close %s: %w", key, err))
				}
			}
			if reg.mode == Lazy {
				reg.instance = nil
				reg.initialized = false
			}
		}
		reg.mu.Unlock()
	}
	return errors.Join(errs...)
}
