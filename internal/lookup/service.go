package lookup

import (
	"sync"
	"time"

	"subseek/internal/index"
	"subseek/internal/source"
)

// Default window sizes, overridable through Options
const (
	DefaultContextWindow = 10
	DefaultInitWindow    = 20
)

// Options carries the two process-wide window tunables
type Options struct {
	ContextWindow int // lines returned by the before/after readers
	InitWindow    int // lines included around a resolved timing line
}

// normalize clamps both windows to >= 0
func (o Options) normalize() Options {
	if o.ContextWindow < 0 {
		o.ContextWindow = 0
	}
	if o.InitWindow < 0 {
		o.InitWindow = 0
	}
	return o
}

// fileIndex is the cached derivation of one file: the version token it was
// built from, its raw lines, and its ordered caption index. Immutable once
// stored; staleness replaces the whole entry.
type fileIndex struct {
	version  time.Time
	lines    []string
	captions []index.Caption
}

// Service answers timestamp and line-window queries against subtitle files.
// It caches one index per path and rebuilds lazily when the file's
// modification time changes. The mutex serializes cache access, so
// concurrent callers see at most one rebuild per staleness.
type Service struct {
	opts Options

	mu    sync.Mutex
	cache map[string]*fileIndex
}

// NewService creates a lookup service with normalized options
func NewService(opts Options) *Service {
	return &Service{
		opts:  opts.normalize(),
		cache: make(map[string]*fileIndex),
	}
}

// Options returns the normalized tunables the service runs with
func (s *Service) Options() Options {
	return s.opts
}

// getOrBuild returns the index for path, rebuilding when the on-disk
// modification time differs from the cached version. The staleness check
// costs one stat per call.
func (s *Service) getOrBuild(path string) (*fileIndex, error) {
	version, err := source.ModTime(path)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if cached, ok := s.cache[path]; ok && cached.version.Equal(version) {
		return cached, nil
	}

	lines, loadedVersion, err := source.Load(path)
	if err != nil {
		return nil, err
	}

	built := &fileIndex{
		version:  loadedVersion,
		lines:    lines,
		captions: index.BuildCaptionIndex(lines),
	}
	s.cache[path] = built
	return built, nil
}

// Lines returns the file's current raw lines. The slice is shared cache
// state; callers must not mutate it.
func (s *Service) Lines(path string) ([]string, error) {
	fi, err := s.getOrBuild(path)
	if err != nil {
		return nil, err
	}
	return fi.lines, nil
}

// Captions returns the file's current caption index. The slice is shared
// cache state; callers must not mutate it.
func (s *Service) Captions(path string) ([]index.Caption, error) {
	fi, err := s.getOrBuild(path)
	if err != nil {
		return nil, err
	}
	return fi.captions, nil
}
