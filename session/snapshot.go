package session

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/statebind/statebind/core"
	"github.com/statebind/statebind/logging"
)

// SnapshotOptions configures a SnapshotStore.
type SnapshotOptions struct {
	// Policies are applied by ValidateKey on top of the default rule.
	Policies []KeyPolicy

	// Logger receives warnings about entries skipped during Save.
	// Defaults to NoOpLogger.
	Logger logging.Logger
}

// SnapshotStore is an InMemoryStore that can load its entries from and
// save them to a YAML file, carrying field values across process restarts.
//
// Managed instances are never written to the file: they are derived views
// per the data model, and their fields rehydrate from the persisted field
// values on the next Obtain. Entries YAML cannot encode are skipped with a
// warning.
type SnapshotStore struct {
	*InMemoryStore

	path   string
	logger logging.Logger
}

// NewSnapshotStore builds a store backed by the YAML file at path, loading
// any existing snapshot. A missing file is not an error; a corrupt one is.
func NewSnapshotStore(path string, optFns ...func(*SnapshotOptions)) (*SnapshotStore, error) {
	opts := SnapshotOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	s := &SnapshotStore{
		InMemoryStore: NewInMemoryStore(opts.Policies...),
		path:          path,
		logger:        logging.WithScope(opts.Logger, "path", path),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the snapshot file location.
func (s *SnapshotStore) Path() string { return s.path }

func (s *SnapshotStore) load() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read snapshot %s: %w", s.path, err)
	}

	var entries map[string]any
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("decode snapshot %s: %w", s.path, err)
	}
	for key, value := range entries {
		s.InMemoryStore.Set(key, value)
	}
	s.logger.Debug("snapshot loaded", "entries", len(entries))
	return nil
}

// Save writes the serializable entries to the snapshot file.
func (s *SnapshotStore) Save() error {
	entries := s.snapshot()
	out := make(map[string]any, len(entries))
	for key, value := range entries {
		if _, ok := value.(core.Managed); ok {
			continue
		}
		if err := marshalable(value); err != nil {
			s.logger.Warn("skipping unserializable entry", "key", key, "error", err)
			continue
		}
		out[key] = value
	}

	data, err := yaml.Marshal(out)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot %s: %w", s.path, err)
	}
	s.logger.Debug("snapshot saved", "entries", len(out))
	return nil
}

// marshalable probes whether yaml can encode v. yaml.v3 panics on
// unsupported kinds (func, chan) instead of returning an error, so the
// probe has to recover to keep Save on its skip-with-warning path.
func marshalable(v any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	_, err = yaml.Marshal(v)
	return err
}
