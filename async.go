package multistorage

import "context"

// Result carries the outcome of an asynchronous operation.
type Result[T any] struct {
	Value T
	Err   error
}

// AsyncStore exposes the Store operations in channel-returning form. Each
// call runs the synchronous operation and returns a buffered channel that
// already holds its result, so receiving never blocks.
type AsyncStore struct {
	s *Store
}

// Async returns the asynchronous form of s.
func (s *Store) Async() AsyncStore {
	return AsyncStore{s: s}
}

func resolved[T any](v T, err error) <-chan Result[T] {
	ch := make(chan Result[T], 1)
	ch <- Result[T]{Value: v, Err: err}
	close(ch)
	return ch
}

func (a AsyncStore) Clear(ctx context.Context) <-chan Result[struct{}] {
	return resolved(struct{}{}, a.s.Clear(ctx))
}

func (a AsyncStore) Delete(ctx context.Context, key string) <-chan Result[struct{}] {
	return resolved(struct{}{}, a.s.Delete(ctx, key))
}

func (a AsyncStore) Get(ctx context.Context, key string) <-chan Result[any] {
	v, err := a.s.Get(ctx, key)
	return resolved(v, err)
}

func (a AsyncStore) GetStore(ctx context.Context) <-chan Result[map[string]any] {
	m, err := a.s.GetStore(ctx)
	return resolved(m, err)
}

func (a AsyncStore) Set(ctx context.Context, key string, value any) <-chan Result[struct{}] {
	return resolved(struct{}{}, a.s.Set(ctx, key, value))
}

func (a AsyncStore) SetStore(ctx context.Context, mapping map[string]any) <-chan Result[struct{}] {
	return resolved(struct{}{}, a.s.SetStore(ctx, mapping))
}
