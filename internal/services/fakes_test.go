package services

import (
	"bytes"
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/sleeplog/apiserver/internal/cache"
	"github.com/sleeplog/apiserver/internal/storage"
	"github.com/sleeplog/apiserver/internal/store"
	"github.com/sleeplog/apiserver/types"
)

type memUserRepo struct {
	mu     sync.Mutex
	nextID int
	users  map[int]types.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[int]types.User{}}
}

func (r *memUserRepo) GetByID(_ context.Context, id int) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (r *memUserRepo) Create(_ context.Context, user types.User) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return types.User{}, store.ErrDuplicate
		}
	}
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	r.users[user.ID] = user
	return user, nil
}

type memRecordRepo struct {
	mu      sync.Mutex
	nextID  int64
	records map[int64]types.SleepRecord
}

func newMemRecordRepo() *memRecordRepo {
	return &memRecordRepo{records: map[int64]types.SleepRecord{}}
}

func (r *memRecordRepo) ListByUser(_ context.Context, userID int) ([]types.SleepRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]types.SleepRecord, 0)
	for _, rec := range r.records {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *memRecordRepo) GetForUser(_ context.Context, userID int, id int64) (types.SleepRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok || rec.UserID != userID {
		return types.SleepRecord{}, store.ErrNotFound
	}
	return rec, nil
}

func (r *memRecordRepo) Create(_ context.Context, rec types.SleepRecord) (types.SleepRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	rec.ID = r.nextID
	rec.CreatedAt = time.Now()
	r.records[rec.ID] = rec
	return rec, nil
}

func (r *memRecordRepo) Update(_ context.Context, rec types.SleepRecord) (types.SleepRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.records[rec.ID]
	if !ok || existing.UserID != rec.UserID {
		return types.SleepRecord{}, store.ErrNotFound
	}
	rec.CreatedAt = existing.CreatedAt
	r.records[rec.ID] = rec
	return rec, nil
}

func (r *memRecordRepo) Delete(_ context.Context, userID int, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.records[id]
	if !ok || existing.UserID != userID {
		return store.ErrNotFound
	}
	delete(r.records, id)
	return nil
}

type memCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	getErr  error
	setKeys []string
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}}
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	v, ok := c.data[key]
	if !ok {
		return nil, cache.ErrMiss
	}
	return v, nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	c.setKeys = append(c.setKeys, key)
	return nil
}

type memObjectStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
}

func newMemObjectStore() *memObjectStore {
	return &memObjectStore{objects: map[string][]byte{}}
}

func (s *memObjectStore) PutBytes(_ context.Context, key string, data []byte, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.putErr != nil {
		return s.putErr
	}
	s.objects[key] = append([]byte(nil), data...)
	return nil
}

func (s *memObjectStore) Get(_ context.Context, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}
