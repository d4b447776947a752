package shader

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/phongview/internal/logger"
)

// Watcher reports shader programs whose sources changed on disk.
// The fsnotify goroutine only queues names; Drain is called from the
// render thread, which does the recompiling.
type Watcher struct {
	root string
	w    *fsnotify.Watcher
	done chan struct{}
	wg   sync.WaitGroup
	log  *zap.Logger

	mu      sync.Mutex
	pending map[string]struct{}
}

// Watch starts watching root and each program directory directly below it.
func Watch(root string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	sw := &Watcher{
		root:    filepath.Clean(root),
		w:       fw,
		done:    make(chan struct{}),
		log:     logger.Named("shader"),
		pending: make(map[string]struct{}),
	}
	if err := sw.addTree(); err != nil {
		fw.Close()
		return nil, err
	}
	sw.wg.Add(1)
	go sw.loop()
	return sw, nil
}

func (sw *Watcher) addTree() error {
	if err := sw.w.Add(sw.root); err != nil {
		return err
	}
	entries, err := os.ReadDir(sw.root)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if err := sw.w.Add(filepath.Join(sw.root, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

func (sw *Watcher) loop() {
	defer sw.wg.Done()
	for {
		select {
		case <-sw.done:
			return
		case ev, ok := <-sw.w.Events:
			if !ok {
				return
			}
			sw.handle(ev)
		case err, ok := <-sw.w.Errors:
			if !ok {
				return
			}
			sw.log.Warn("shader watcher error", zap.Error(err))
		}
	}
}

func (sw *Watcher) handle(ev fsnotify.Event) {
	// New program directory.
	if ev.Op&fsnotify.Create != 0 && filepath.Dir(ev.Name) == sw.root {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			if err := sw.w.Add(ev.Name); err != nil {
				sw.log.Warn("cannot watch shader directory", zap.String("path", ev.Name), zap.Error(err))
			}
			return
		}
	}
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return
	}
	name, ok := programName(sw.root, ev.Name)
	if !ok {
		return
	}
	sw.log.Debug("shader source changed", zap.String("program", name), zap.String("path", ev.Name))
	sw.queue(name)
}

func (sw *Watcher) queue(name string) {
	sw.mu.Lock()
	sw.pending[name] = struct{}{}
	sw.mu.Unlock()
}

// Drain returns the programs changed since the last call, sorted.
func (sw *Watcher) Drain() []string {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	if len(sw.pending) == 0 {
		return nil
	}
	names := make([]string, 0, len(sw.pending))
	for name := range sw.pending {
		names = append(names, name)
	}
	sw.pending = make(map[string]struct{})
	sort.Strings(names)
	return names
}

// Close stops the watcher.
func (sw *Watcher) Close() error {
	close(sw.done)
	err := sw.w.Close()
	sw.wg.Wait()
	return err
}

// programName maps <root>/<program>/<file>.glsl to <program>.
func programName(root, path string) (string, bool) {
	if filepath.Ext(path) != ".glsl" {
		return "", false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", false
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) != 2 || parts[0] == ".." {
		return "", false
	}
	return parts[0], true
}
