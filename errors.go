package multistorage

import "fmt"

// BackendUnavailableError reports that the selected backend could not be
// opened or failed the construction-time probe.
type BackendUnavailableError struct {
	StorageType string
	Err         error
}

func (e *BackendUnavailableError) Error() string {
	return fmt.Sprintf("multistorage: storage type %q not available: %v", e.StorageType, e.Err)
}

func (e *BackendUnavailableError) Unwrap() error { return e.Err }

func (e *BackendUnavailableError) Is(target error) bool { return target == ErrBackendUnavailable }

// SerializationError reports a value that the configured serializer could not
// encode or decode. Op is the store operation, Key the affected key if any.
type SerializationError struct {
	Op  string
	Key string
	Err error
}

func (e *SerializationError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("multistorage: %s: serialization failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("multistorage: %s %q: serialization failed: %v", e.Op, e.Key, e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }

func (e *SerializationError) Is(target error) bool { return target == ErrSerialization }
