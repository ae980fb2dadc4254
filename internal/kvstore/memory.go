package kvstore

import (
	"context"

	"github.com/puzpuzpuz/xsync/v3"
)

// Memory keeps blobs in process memory. It survives Session reloads within
// one process, which is all tests and the demo need.
type Memory struct {
	values *xsync.MapOf[string, string]
}

// NewMemory creates an empty Memory medium.
func NewMemory() *Memory {
	return &Memory{values: xsync.NewMapOf[string, string]()}
}

func (m *Memory) Get(ctx context.Context, key string) (string, bool, error) {
	v, ok := m.values.Load(key)
	return v, ok, nil
}

func (m *Memory) Set(ctx context.Context, key, value string) error {
	m.values.Store(key, value)
	return nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	m.values.Delete(key)
	return nil
}

func (m *Memory) Close() error {
	return nil
}
