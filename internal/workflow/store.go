package workflow

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// contentExtensions are tried in order when loading a variant's file.
var contentExtensions = []string{".md", ".txt"}

// Store holds the workflow reference content for each variant, loaded from
// plain text files named after the variant (vs2.md, vs4.txt, ...). Missing
// files leave the variant unavailable; they are never fatal.
type Store struct {
	dir    string
	logger *zap.Logger

	mu      sync.RWMutex
	content map[Variant]string
}

// NewStore loads the content directory. The directory itself may be
// missing; that just means no variant has content.
func NewStore(dir string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		dir:     dir,
		logger:  logger,
		content: make(map[Variant]string),
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload re-reads every variant's content file from disk.
func (s *Store) Reload() error {
	loaded := make(map[Variant]string)
	for _, vm := range variantMarkers {
		name := strings.ToLower(string(vm.variant))
		for _, ext := range contentExtensions {
			path := filepath.Join(s.dir, name+ext)
			data, err := os.ReadFile(path)
			if err != nil {
				if !os.IsNotExist(err) {
					return fmt.Errorf("reading workflow content %s: %w", path, err)
				}
				continue
			}
			if text := strings.TrimSpace(string(data)); text != "" {
				loaded[vm.variant] = text
			}
			break
		}
		if _, ok := loaded[vm.variant]; !ok {
			s.logger.Warn("workflow content unavailable",
				zap.String("variant", string(vm.variant)),
				zap.String("dir", s.dir))
		}
	}

	s.mu.Lock()
	s.content = loaded
	s.mu.Unlock()

	s.logger.Info("workflow content loaded",
		zap.Int("variants", len(loaded)),
		zap.String("dir", s.dir))
	return nil
}

// Available reports whether the variant has workflow content.
func (s *Store) Available(v Variant) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.content[v]
	return ok
}

// Content returns the variant's workflow text, or "" when unavailable.
func (s *Store) Content(v Variant) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.content[v]
}

// Watch reloads the store whenever a file in the content directory is
// written or created. It blocks until ctx is done.
func (s *Store) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(s.dir); err != nil {
		return fmt.Errorf("watching %s: %w", s.dir, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			s.logger.Debug("workflow content changed", zap.String("file", event.Name))
			if err := s.Reload(); err != nil {
				s.logger.Warn("workflow reload failed", zap.Error(err))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("workflow watcher error", zap.Error(err))
		}
	}
}
