package multistorage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
)

var (
	ErrNotFound           = errors.New("multistorage: not found")
	ErrBackendUnavailable = errors.New("multistorage: backend unavailable")
	ErrSerialization      = errors.New("multistorage: serialization failed")
	ErrUnknownDriver      = errors.New("multistorage: unknown driver")
	ErrUnknownFormat      = errors.New("multistorage: unknown format")
)

const (
	// DefaultMainKey is the namespace key used when Config.MainKey is empty.
	DefaultMainKey = "multistorage"

	StorageTypeSession = "sessionStorage"
	StorageTypeLocal   = "localStorage"

	probeKey = "__storage_test__"
)

// Backend describes the minimal key-value capability a host provides.
// GetItem reports ok=false for a missing key.
// Implementations must be safe for concurrent use.
type Backend interface {
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

// Option customizes Store behavior.
type Option func(*Store)

// WithBackend injects the backend instead of selecting one from the host
// environment. The store does not close an injected backend.
func WithBackend(b Backend) Option {
	return func(s *Store) {
		if b != nil {
			s.backend = b
		}
	}
}

// WithLogger specifies a logger for operation logging.
// If not provided, a no-op logger is used (no logging).
func WithLogger(logger Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithLogTag sets a tag prefix for all log messages.
func WithLogTag(tag string) Option {
	return func(s *Store) {
		s.logTag = tag
	}
}

// Store persists a mapping of string keys to serializable values as a single
// blob stored under MainKey in a Backend.
//
// Every operation reads the whole blob from the backend, decodes it, and for
// writes encodes and stores the whole mapping again. Nothing is cached.
type Store struct {
	mainKey     string
	storageType string
	filePath    string
	serializer  Serializer
	backend     Backend
	owned       io.Closer
	logger      Logger
	logTag      string
	metrics     *metrics

	// serializes read-modify-write sequences issued through this instance
	mu sync.Mutex
}

// New creates a Store from cfg. Unless a backend is injected with
// WithBackend, one is selected from the host environment: browser storage
// when running under js/wasm with a window, otherwise an in-memory map for
// session stores or the durable driver named by cfg.Driver.
//
// The backend is probed with a trial write and delete; a failure is reported
// as *BackendUnavailableError and no Store is returned.
func New(cfg Config, opts ...Option) (*Store, error) {
	cfg = cfg.withDefaults()

	serializer := cfg.Serializer
	if serializer == nil {
		var err error
		if serializer, err = SerializerFor(cfg.Format); err != nil {
			return nil, err
		}
	}

	s := &Store{
		mainKey:     cfg.MainKey,
		storageType: cfg.storageType(),
		filePath:    cfg.FilePath,
		serializer:  serializer,
		logger:      defaultLogger,
	}
	for _, opt := range opts {
		opt(s)
	}

	ctx := context.Background()

	if s.backend == nil {
		b, err := selectBackend(cfg)
		if err != nil {
			s.logf("error", ctx, "open %s backend failed: %v", s.storageType, err)
			return nil, &BackendUnavailableError{StorageType: s.storageType, Err: err}
		}
		s.backend = b
		if c, ok := b.(io.Closer); ok {
			s.owned = c
		}
	}

	if err := probe(ctx, s.backend); err != nil {
		s.logf("error", ctx, "storage type %s not available: %v", s.storageType, err)
		if s.owned != nil {
			_ = s.owned.Close()
		}
		return nil, &BackendUnavailableError{StorageType: s.storageType, Err: err}
	}

	s.logf("debug", ctx, "opened %s store %q", s.storageType, s.mainKey)
	return s, nil
}

func probe(ctx context.Context, b Backend) error {
	if err := b.SetItem(ctx, probeKey, probeKey); err != nil {
		return err
	}
	return b.RemoveItem(ctx, probeKey)
}

// MainKey returns the namespace key the blob is stored under.
func (s *Store) MainKey() string { return s.mainKey }

// StorageType returns "sessionStorage" or "localStorage".
func (s *Store) StorageType() string { return s.storageType }

// FilePath returns the location used by durable non-browser backends.
func (s *Store) FilePath() string { return s.filePath }

// Serializer returns the serializer used for the blob.
func (s *Store) Serializer() Serializer { return s.serializer }

// Backend returns the backend selected at construction.
func (s *Store) Backend() Backend { return s.backend }

// Close releases the backend if the store opened it.
func (s *Store) Close() error {
	if s.owned == nil {
		return nil
	}
	return s.owned.Close()
}

func (s *Store) logf(level string, ctx context.Context, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if s.logTag != "" {
		msg = s.logTag + " " + msg
	}
	switch level {
	case "info":
		s.logger.Info(ctx, msg)
	case "warn":
		s.logger.Warn(ctx, msg)
	case "error":
		s.logger.Error(ctx, msg)
	case "debug":
		s.logger.Debug(ctx, msg)
	}
}

type blobState int

const (
	blobAbsent blobState = iota
	blobUndecodable
	blobDecoded
)

// load reads and decodes the blob. Unless state is blobDecoded, m is an
// empty, non-nil map: reads treat a blob that fails to decode as absent.
func (s *Store) load(ctx context.Context) (m map[string]any, state blobState, err error) {
	blob, ok, err := s.backend.GetItem(ctx, s.mainKey)
	if err != nil {
		return nil, blobAbsent, err
	}
	m = make(map[string]any)
	if !ok {
		return m, blobAbsent, nil
	}
	var decoded map[string]any
	if err := decode(s.serializer, blob, &decoded); err != nil {
		s.logf("warn", ctx, "blob %q is not decodable, treating as empty: %v", s.mainKey, err)
		return m, blobUndecodable, nil
	}
	if decoded == nil {
		// "null" decodes to a nil map
		return m, blobUndecodable, nil
	}
	return decoded, blobDecoded, nil
}

// save encodes m and writes it under the main key. Encoding happens before
// the backend is touched, so a failed encode leaves the stored blob intact.
func (s *Store) save(ctx context.Context, op, key string, m map[string]any) error {
	blob, err := encode(s.serializer, m)
	if err != nil {
		return &SerializationError{Op: op, Key: key, Err: err}
	}
	if err := s.backend.SetItem(ctx, s.mainKey, blob); err != nil {
		return err
	}
	s.metrics.blobSize(s.mainKey, len(blob))
	return nil
}

func encode(ser Serializer, v any) (blob string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("serializer panic: %v", r)
		}
	}()
	return ser.Encode(v)
}

func decode(ser Serializer, data string, v any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("serializer panic: %v", r)
		}
	}()
	return ser.Decode(data, v)
}

func (s *Store) done(ctx context.Context, op, key string, err error) error {
	s.metrics.observe(op, err)
	if err != nil && !errors.Is(err, ErrNotFound) {
		if key != "" {
			s.logf("error", ctx, "%s %s failed: %v", op, key, err)
		} else {
			s.logf("error", ctx, "%s failed: %v", op, err)
		}
	}
	return err
}

// Clear removes the entire namespaced blob. Clearing an absent blob succeeds.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.backend.RemoveItem(ctx, s.mainKey)
	if err == nil {
		s.metrics.blobSize(s.mainKey, 0)
	}
	return s.done(ctx, "Clear", "", err)
}

// Delete removes key from the mapping. Deleting a missing key succeeds and
// leaves the rest of the mapping unchanged.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, state, err := s.load(ctx)
	if err != nil {
		return s.done(ctx, "Delete", key, err)
	}
	if state == blobAbsent {
		return s.done(ctx, "Delete", key, nil)
	}
	// an undecodable blob is rewritten as the empty mapping
	delete(m, key)

	return s.done(ctx, "Delete", key, s.save(ctx, "Delete", key, m))
}

// Get returns the value stored under key, or ErrNotFound when the blob or
// the key is missing.
func (s *Store) Get(ctx context.Context, key string) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, state, err := s.load(ctx)
	if err != nil {
		return nil, s.done(ctx, "Get", key, err)
	}
	if state != blobDecoded {
		return nil, s.done(ctx, "Get", key, ErrNotFound)
	}
	v, ok := m[key]
	if !ok {
		return nil, s.done(ctx, "Get", key, ErrNotFound)
	}
	return v, s.done(ctx, "Get", key, nil)
}

// GetInto decodes the value stored under key into out, which must be a
// pointer. The value passes through the serializer, so out sees exactly what
// a fresh decode of the stored text would produce.
func (s *Store) GetInto(ctx context.Context, key string, out any) error {
	v, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	text, err := encode(s.serializer, v)
	if err != nil {
		return &SerializationError{Op: "GetInto", Key: key, Err: err}
	}
	if err := decode(s.serializer, text, out); err != nil {
		return &SerializationError{Op: "GetInto", Key: key, Err: err}
	}
	return nil
}

// GetStore returns the full decoded mapping, or ErrNotFound when no blob
// exists yet.
func (s *Store) GetStore(ctx context.Context) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, state, err := s.load(ctx)
	if err != nil {
		return nil, s.done(ctx, "GetStore", "", err)
	}
	if state != blobDecoded {
		return nil, s.done(ctx, "GetStore", "", ErrNotFound)
	}
	return m, s.done(ctx, "GetStore", "", nil)
}

// Set stores value under key. If the mapping cannot be encoded a
// *SerializationError is returned and the stored blob is left unchanged.
func (s *Store) Set(ctx context.Context, key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, _, err := s.load(ctx)
	if err != nil {
		return s.done(ctx, "Set", key, err)
	}
	m[key] = value

	return s.done(ctx, "Set", key, s.save(ctx, "Set", key, m))
}

// SetStore replaces the whole mapping. A nil mapping is stored as an empty
// one.
func (s *Store) SetStore(ctx context.Context, mapping map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if mapping == nil {
		mapping = map[string]any{}
	}
	return s.done(ctx, "SetStore", "", s.save(ctx, "SetStore", "", mapping))
}
