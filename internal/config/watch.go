package config

import (
	"github.com/fsnotify/fsnotify"
)

// WatchDotenv invalidates the cached Settings whenever dotenvPath changes on
// disk, so the next Cached call reloads from the environment, and then calls
// onChange. Components already built from the earlier Settings keep their
// values. It is strictly a development convenience: callers should only
// invoke it when Settings.DevelopmentMode is true, and a missing dotenv file
// is not an error — the watcher simply has nothing to report.
//
// The returned stop function closes the underlying watcher. Callers must
// call it on shutdown to release the inotify/kqueue handle.
func WatchDotenv(dotenvPath string, onChange func()) (stop func(), err error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := watcher.Add(dotenvPath); err != nil {
		// The file doesn't exist yet or can't be watched; this is not fatal,
		// dotenv loading itself already tolerates a missing file.
		watcher.Close()
		return func() {}, nil
	}

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
					Invalidate()
					if onChange != nil {
						onChange()
					}
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return func() { watcher.Close() }, nil
}
