package config

import "sync"

// cache memoizes the Settings produced by Load so cmd/gateway only pays the
// parse-and-validate cost once. Every other component receives *Settings as
// an explicit constructor argument and never touches this file — the cache
// exists purely for process bootstrap, not as a service locator.
var (
	cacheMu  sync.Mutex
	cached   *Settings
	cacheErr error
	loaded   bool
)

// Cached lazily loads and memoizes Settings using dotenvPath on first call.
// Subsequent calls, regardless of dotenvPath, return the memoized value
// until Invalidate is called.
func Cached(dotenvPath string) (*Settings, error) {
	cacheMu.Lock()
	defer cacheMu.Unlock()

	if !loaded {
		cached, cacheErr = Load(dotenvPath)
		loaded = true
	}

	return cached, cacheErr
}

// Invalidate clears the memoized Settings so the next Cached call reloads
// from the environment. Used by tests and by the development-mode dotenv
// watcher (see watch.go).
func Invalidate() {
	cacheMu.Lock()
	defer cacheMu.Unlock()

	cached = nil
	cacheErr = nil
	loaded = false
}
