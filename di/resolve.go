package di

import "fmt"

// Resolve resolves key and asserts the instance to T.
//
//	svc, err := di.Resolve[component.Service](c, di.Services.Mongo)
func Resolve[T any](c Container, key string) (T, error) {
	var zero T
	instance, err := c.Resolve(key)
	if err != nil {
		return zero, err
	}
	result, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("di: %s is %T, expected %T", key, instance, zero)
	}
	return result, nil
}

// MustResolve is Resolve that panics on error. Use it only where a missing
// registration is a programming error.
func MustResolve[T any](c Container, key string) T {
	result, err := Resolve[T](c, key)
	if err != nil {
		panic(err)
	}
	return result
}

// TryResolve returns false instead of an error, for optional dependencies.
func TryResolve[T any](c Container, key string) (T, bool) {
	result, err := Resolve[T](c, key)
	return result, err == nil
}

// ResolveAll resolves keys in order and stops at the first failure.
func ResolveAll[T any](c Container, keys []string) ([]T, error) {
	result := make([]T, 0, len(keys))
	for _, key := range keys {
		instance, err := Resolve[T](c, key)
		if err != nil {
			return nil, err
		}
		result = append(result, instance)
	}
	return result, nil
}
