//go:build js && wasm

package multistorage

import (
	"fmt"
	"syscall/js"
)

// hostBackend returns window.sessionStorage or window.localStorage when the
// program runs in a browser. Under Node there is no window and the caller
// falls back to the memory and file backends.
func hostBackend(cfg Config) (Backend, bool, error) {
	window := js.Global().Get("window")
	if window.IsUndefined() || window.IsNull() {
		return nil, false, nil
	}
	b, err := NewBrowser(window, cfg.storageType())
	return b, true, err
}

func openDriver(cfg Config) (Backend, error) {
	return nil, fmt.Errorf("%w: %q is not supported on js/wasm", ErrUnknownDriver, cfg.Driver)
}
