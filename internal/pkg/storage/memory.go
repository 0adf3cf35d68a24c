package storage

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"maps"
	"sync"
	"time"
)

type memObject struct {
	data []byte
	info Object
}

// Memory keeps objects in process. Contents are lost on restart.
type Memory struct {
	mu      sync.RWMutex
	objects map[string]memObject
}

func NewMemory() *Memory {
	return &Memory{objects: make(map[string]memObject)}
}

func (m *Memory) Put(ctx context.Context, key string, data []byte, opts PutOptions) (Object, error) {
	if err := ctx.Err(); err != nil {
		return Object{}, err
	}
	if key == "" {
		return Object{}, ErrKeyRequired
	}

	sum := md5.Sum(data)
	info := Object{
		Key:         key,
		Size:        int64(len(data)),
		ETag:        hex.EncodeToString(sum[:]),
		ContentType: opts.ContentType,
		Metadata:    maps.Clone(opts.Metadata),
		UpdatedAt:   time.Now(),
	}

	m.mu.Lock()
	m.objects[key] = memObject{data: append([]byte(nil), data...), info: info}
	m.mu.Unlock()

	return info, nil
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, Object{}, err
	}

	m.mu.RLock()
	obj, ok := m.objects[key]
	m.mu.RUnlock()
	if !ok {
		return nil, Object{}, ErrNotFound
	}

	return append([]byte(nil), obj.data...), obj.info, nil
}

func (m *Memory) Close() error {
	return nil
}
