package style

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/g6viz/pkg/errors"
)

// Format names a style file encoding.
type Format string

// Supported style file formats.
const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", errors.New(errors.ErrCodeInvalidStyle, "unsupported style file %q (use .toml, .yaml or .json)", path)
}

// Decode parses data on top of [Default], so omitted keys keep their
// defaults, then validates and normalizes the result.
func Decode(data []byte, format Format) (Config, error) {
	cfg := Default()
	var err error
	switch format {
	case FormatTOML:
		_, err = toml.Decode(string(data), &cfg)
	case FormatYAML:
		err = yaml.Unmarshal(data, &cfg)
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&cfg)
	default:
		return cfg, errors.New(errors.ErrCodeInvalidStyle, "unsupported style format %q", format)
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidStyle, err, "parse %s style", format)
	}
	return cfg.Normalize()
}

// Load reads and decodes the style file at path.
func Load(path string) (Config, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read style %s: %w", path, err)
	}
	cfg, err := Decode(data, format)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Loader holds the current style from a file and reloads it on change.
type Loader struct {
	path     string
	mu       sync.RWMutex
	current  Config
	onChange []func(Config)
	onError  []func(error)
}

// NewLoader creates a Loader and performs the initial load.
func NewLoader(path string) (*Loader, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	return &Loader{path: filepath.Clean(path), current: cfg}, nil
}

// Path returns the watched file.
func (l *Loader) Path() string { return l.path }

// Config returns the latest successfully loaded style.
func (l *Loader) Config() Config {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// OnChange registers a callback invoked after every successful reload.
func (l *Loader) OnChange(fn func(Config)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onChange = append(l.onChange, fn)
}

// OnError registers a callback invoked when a reload fails. The previous
// style stays in effect.
func (l *Loader) OnError(fn func(error)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onError = append(l.onError, fn)
}

// Watch starts a background goroutine that reloads the style whenever the
// file is written or replaced. It watches the parent directory so editors
// that save via rename are picked up. Call stop to clean up.
func (l *Loader) Watch() (stop func(), err error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("style watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(l.path)); err != nil {
		w.Close()
		return nil, fmt.Errorf("style watcher add %s: %w", l.path, err)
	}

	done := make(chan struct{})
	go func() {
		defer w.Close()
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != l.path {
					continue
				}
				if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
					_, _ = l.Reload()
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				l.fail(err)
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() { once.Do(func() { close(done) }) }, nil
}

// Reload forces an immediate re-read of the style file.
func (l *Loader) Reload() (Config, error) {
	cfg, err := Load(l.path)
	if err != nil {
		l.fail(err)
		return Config{}, err
	}
	l.mu.Lock()
	l.current = cfg
	callbacks := make([]func(Config), len(l.onChange))
	copy(callbacks, l.onChange)
	l.mu.Unlock()
	for _, fn := range callbacks {
		fn(cfg)
	}
	return cfg, nil
}

func (l *Loader) fail(err error) {
	l.mu.RLock()
	callbacks := make([]func(error), len(l.onError))
	copy(callbacks, l.onError)
	l.mu.RUnlock()
	for _, fn := range callbacks {
		fn(err)
	}
}
