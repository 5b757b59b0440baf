package webui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/mailposture/internal/logfields"
)

// Watch reloads the template set whenever a .tmpl file in the debug template
// directory changes. It blocks until ctx is canceled and is a no-op error
// when the Renderer uses embedded templates.
func (r *Renderer) Watch(ctx context.Context) error {
	if r.opts.Dir == "" {
		return fmt.Errorf("template watching requires a disk template directory")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(r.opts.Dir); err != nil {
		return fmt.Errorf("failed to watch template directory %s: %w", r.opts.Dir, err)
	}
	slog.Info("Watching templates for changes", slog.String("dir", r.opts.Dir))

	// Editors fire bursts of events per save; coalesce them.
	const debounce = 200 * time.Millisecond
	var timer *time.Timer
	reload := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(event.Name, ".tmpl") {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Template watcher error", logfields.Error(err))
		case <-reload:
			if err := r.Reload(); err != nil {
				slog.Error("Template reload failed", logfields.Error(err))
				continue
			}
			slog.Info("Templates reloaded")
		}
	}
}
