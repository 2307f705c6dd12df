// Package watcher monitors a content tree and refreshes the lastmod
// frontmatter field of markdown files as they change.
package watcher

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/fnurl/hugo-utils/internal/lastmod"
)

// Debounce: collect changed files over a window before rewriting, so editors
// that write in bursts trigger one rewrite per file.
const debounceDelay = 2 * time.Second

// selfWriteWindow is how long after our own rewrite of a file its events are
// ignored, so the rewrite does not retrigger the loop.
const selfWriteWindow = 3 * time.Second

// debouncer collects changed paths and rewrites them after a quiet window,
// remembering its own writes so they don't feed back into the event loop.
type debouncer struct {
	opts lastmod.Options
	now  func() time.Time

	mu         sync.Mutex
	pending    map[string]bool
	selfWrites map[string]time.Time
	timer      *time.Timer
}

func newDebouncer(opts lastmod.Options) *debouncer {
	return &debouncer{
		opts:       opts,
		now:        time.Now,
		pending:    make(map[string]bool),
		selfWrites: make(map[string]time.Time),
	}
}

// enqueue records a changed path and re-arms the flush timer. Events within
// selfWriteWindow of our own rewrite of the path are dropped. Reports
// whether the path was queued.
func (d *debouncer) enqueue(path string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if at, ok := d.selfWrites[path]; ok && d.now().Sub(at) < selfWriteWindow {
		return false
	}
	d.pending[path] = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(debounceDelay, d.flush)
	return true
}

// flush rewrites every pending path in place. Each path is marked as
// self-written before its rewrite, so the resulting filesystem event cannot
// be read off the watcher ahead of the marker.
func (d *debouncer) flush() {
	d.mu.Lock()
	paths := make([]string, 0, len(d.pending))
	for p := range d.pending {
		paths = append(paths, p)
		d.selfWrites[p] = d.now()
	}
	d.pending = make(map[string]bool)
	d.mu.Unlock()

	for _, p := range paths {
		if err := d.opts.RewriteFile(p, ""); err != nil {
			fmt.Fprintf(os.Stderr, "  [ERROR] %s: %v\n", p, err)
			continue
		}
		fmt.Fprintf(os.Stderr, "  Updated %s\n", p)
	}
}

// Watch watches dir recursively and rewrites the lastmod field of changed
// markdown files in place. It blocks until the watcher closes or an
// unrecoverable error occurs.
func Watch(dir string, opts lastmod.Options) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	dirs := walkDirs(dir)
	if len(dirs) == 0 {
		return fmt.Errorf("no watchable directories under %s", dir)
	}
	for _, d := range dirs {
		if err := w.Add(d); err != nil {
			fmt.Fprintf(os.Stderr, "  [WARN] Could not watch %s: %v\n", d, err)
		}
	}

	fmt.Fprintf(os.Stderr, "Watching %d directories in %s\n", len(dirs), dir)
	fmt.Fprintf(os.Stderr, "Press Ctrl+C to stop.\n\n")

	deb := newDebouncer(opts)

	for {
		select {
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}

			if !strings.HasSuffix(event.Name, ".md") {
				// Not a markdown file, but newly created directories need
				// watching too.
				if event.Has(fsnotify.Create) {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !hidden(event.Name) {
						if err := w.Add(event.Name); err != nil {
							fmt.Fprintf(os.Stderr, "  [WARN] Could not watch %s: %v\n", event.Name, err)
						}
					}
				}
				continue
			}

			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				deb.enqueue(event.Name)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "  [WARN] Watch error: %v\n", err)
		}
	}
}

// walkDirs collects dir and every non-hidden subdirectory under it.
func walkDirs(root string) []string {
	var dirs []string
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && hidden(path) {
			return filepath.SkipDir
		}
		dirs = append(dirs, path)
		return nil
	})
	return dirs
}

func hidden(path string) bool {
	name := filepath.Base(path)
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}
