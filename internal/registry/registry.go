// Package registry provides a global registry for scene factories.
// Scenes register themselves in init() functions, allowing the platform
// to discover and instantiate scenes without hardcoded dependencies.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/tui-engine/internal/core"
	"github.com/vovakirdan/tui-engine/internal/scene"
)

// ErrUnknownScene is returned by Create for an unregistered ID.
var ErrUnknownScene = errors.New("registry: unknown scene")

// Env is what a factory receives to build its hooks.
type Env struct {
	Config core.GameConfig  // Resolved resolution and timing
	Input  core.InputSource // Held keys; never nil
	Sprite string           // Optional image path for scenes that draw a sprite
}

// SceneInfo contains metadata about a registered scene.
type SceneInfo struct {
	ID    string
	Title string
}

// Factory builds the hooks of a new scene instance.
type Factory func(env Env) (scene.Hooks, error)

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a scene factory to the registry.
// Typically called from a scene's init() function.
// Panics if a scene with the same ID is already registered.
func Register(id, title string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: scene %q already registered", id))
	}

	factories[id] = f
	titles[id] = title
}

// List returns information about all registered scenes, sorted by ID.
func List() []SceneInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]SceneInfo, 0, len(factories))
	for id := range factories {
		result = append(result, SceneInfo{
			ID:    id,
			Title: titles[id],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create builds new hooks for the scene with the given ID.
func Create(id string, env Env) (scene.Hooks, error) {
	mu.RLock()
	f, ok := factories[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownScene, id)
	}
	if env.Input == nil {
		env.Input = core.NewKeySet()
	}
	return f(env)
}

// Exists checks if a scene with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}

// Title returns the display title of a registered scene, or the ID itself.
func Title(id string) string {
	mu.RLock()
	defer mu.RUnlock()

	if t, ok := titles[id]; ok {
		return t
	}
	return id
}
