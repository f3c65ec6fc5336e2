//go:build js && wasm

package multistorage

import (
	"context"
	"fmt"
	"syscall/js"
)

// Browser implements Backend on a Web Storage object, either
// window.localStorage or window.sessionStorage.
type Browser struct {
	storage js.Value
}

// NewBrowser looks up storageType ("localStorage" or "sessionStorage") on
// window. Reading the property throws when storage is disabled, which is
// reported as an error.
func NewBrowser(window js.Value, storageType string) (b *Browser, err error) {
	defer recoverJS(&err)
	storage := window.Get(storageType)
	if storage.IsUndefined() || storage.IsNull() {
		return nil, fmt.Errorf("window.%s is not defined", storageType)
	}
	return &Browser{storage: storage}, nil
}

func (b *Browser) GetItem(_ context.Context, key string) (value string, ok bool, err error) {
	defer recoverJS(&err)
	v := b.storage.Call("getItem", key)
	if v.IsNull() || v.IsUndefined() {
		return "", false, nil
	}
	return v.String(), true, nil
}

func (b *Browser) SetItem(_ context.Context, key, value string) (err error) {
	defer recoverJS(&err)
	b.storage.Call("setItem", key, value)
	return nil
}

func (b *Browser) RemoveItem(_ context.Context, key string) (err error) {
	defer recoverJS(&err)
	b.storage.Call("removeItem", key)
	return nil
}

// recoverJS turns a thrown JavaScript exception (QuotaExceededError,
// SecurityError) into an error.
func recoverJS(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if jsErr, ok := r.(js.Error); ok {
		*err = jsErr
		return
	}
	*err = fmt.Errorf("storage: %v", r)
}
