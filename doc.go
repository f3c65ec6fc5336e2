// Package multistorage persists a namespaced mapping of string keys to
// serializable values as a single blob in a host-provided key-value backend.
//
// # Overview
//
// A Store is bound to one main key. Every operation reads the entire blob
// stored under that key, decodes it into a map[string]any, and writes the
// whole re-encoded map back when it changes. No state is cached between
// calls, so several processes may share a durable backend (last writer wins).
//
// # Backends
//
// The backend is chosen once, at construction:
//
//   - js/wasm in a browser: window.sessionStorage or window.localStorage
//   - elsewhere with Session set: a fresh in-memory map (Memory)
//   - elsewhere without Session: the durable driver from Config.Driver,
//     File (default), Bolt or SQLite, rooted at Config.FilePath
//
// Any Backend can be injected with WithBackend instead. New probes the backend
// with a trial write and delete and fails with ErrBackendUnavailable if the
// probe fails.
//
// # Quick Start
//
//	store, err := multistorage.New(multistorage.Config{MainKey: "settings"})
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	ctx := context.Background()
//	store.Set(ctx, "theme", "dark")
//	theme, _ := store.Get(ctx, "theme")
//
// # Serialization
//
// JSON is the default serializer; YAML is available through Config.Format or
// Config.Serializer. Values come back as the serializer decodes them: with
// JSON, numbers are float64 and a time.Time is an RFC 3339 string. Use GetInto
// to decode a value into a concrete type.
//
// # Error Handling
//
//	_, err := store.Get(ctx, "missing")
//	if errors.Is(err, multistorage.ErrNotFound) {
//	    // Handle missing key
//	}
//
// Reads are lenient: a blob that cannot be decoded reads as absent. Values
// that cannot be encoded fail with a *SerializationError (ErrSerialization)
// and leave the stored blob unchanged.
package multistorage
