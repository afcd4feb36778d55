package binding

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"
	"github.com/npillmayer/nestlex/grammar"
)

// Watch invalidates languages in reg whenever their grammar file in dir
// changes. Grammar files are named as given by grammar.FileFor. Watch blocks
// until ctx is cancelled.
func Watch(ctx context.Context, reg *Registry, dir string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("cannot watch grammars: %w", err)
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("cannot watch grammars in %s: %w", dir, err)
	}
	tracer().Infof("watching grammars in %s", dir)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) &&
				!ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if mime, ok := grammar.MimeFor(ev.Name); ok {
				tracer().Debugf("grammar file event %s", ev)
				reg.Invalidate(mime)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			tracer().Errorf("grammar watcher: %v", err)
		}
	}
}
