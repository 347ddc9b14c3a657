// Package cache holds objects that are expensive to build and never change
// once built, such as evaluator weight sets read from disk. Match runners
// make fresh agents for every game; this keeps them from reading the same
// files over and over.
package cache

import (
	"sync"

	"github.com/rs/zerolog/log"
)

type cache struct {
	sync.Mutex
	objects map[string]any
}

type loadFunc func(key string) (any, error)

// GlobalObjectCache is our global object cache, of course.
var GlobalObjectCache = &cache{objects: make(map[string]any)}

func (c *cache) get(key string, loadFunc loadFunc) (any, error) {
	c.Lock()
	defer c.Unlock()
	if obj, ok := c.objects[key]; ok {
		log.Debug().Str("key", key).Msg("getting obj from cache")
		return obj, nil
	}
	log.Debug().Str("key", key).Msg("loading into cache")
	obj, err := loadFunc(key)
	if err != nil {
		return nil, err
	}
	c.objects[key] = obj
	return obj, nil
}

func (c *cache) clear() {
	c.Lock()
	defer c.Unlock()
	clear(c.objects)
}

// Load returns the object cached under key, calling load to build it the
// first time. Failed loads are not cached.
func Load[T any](key string, load func(key string) (T, error)) (T, error) {
	obj, err := GlobalObjectCache.get(key, func(key string) (any, error) {
		return load(key)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return obj.(T), nil
}

// Clear empties the cache, e.g. after a file on disk changed.
func Clear() {
	GlobalObjectCache.clear()
}
