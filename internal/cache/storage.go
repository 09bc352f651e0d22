package cache

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ErrNotFound is returned by Storage.Read when no data exists for a key.
var ErrNotFound = errors.New("cache: entry not found")

// Storage persists serialized cache entries. Implementations must be safe for
// concurrent use on different keys; same-key writes are last-writer-wins.
type Storage interface {
	Read(key string) ([]byte, error)
	Write(key string, data []byte) error
	Delete(key string) error
	Keys() ([]string, error)
}

// FileStorage keeps one JSON file per key under a root directory.
type FileStorage struct {
	rootDir string
}

func NewFileStorage(rootDir string) (*FileStorage, error) {
	if err := os.MkdirAll(rootDir, 0755); err != nil {
		return nil, fmt.Errorf("os.MkdirAll() > %w", err)
	}
	return &FileStorage{rootDir: rootDir}, nil
}

func (s *FileStorage) filePath(key string) string {
	return filepath.Join(s.rootDir, key+".json")
}

func (s *FileStorage) Read(key string) ([]byte, error) {
	file, err := os.Open(s.filePath(key))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("os.Open() > %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	contents, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("io.ReadAll() > %w", err)
	}
	return contents, nil
}

func (s *FileStorage) Write(key string, data []byte) error {
	if err := os.WriteFile(s.filePath(key), data, 0644); err != nil {
		return fmt.Errorf("os.WriteFile() > %w", err)
	}
	return nil
}

func (s *FileStorage) Delete(key string) error {
	err := os.Remove(s.filePath(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("os.Remove() > %w", err)
	}
	return nil
}

func (s *FileStorage) Keys() ([]string, error) {
	entries, err := os.ReadDir(s.rootDir)
	if err != nil {
		return nil, fmt.Errorf("os.ReadDir() > %w", err)
	}

	var keys []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		keys = append(keys, strings.TrimSuffix(entry.Name(), ".json"))
	}
	return keys, nil
}

// MemoryStorage is an in-memory Storage, used in tests and as a fallback when
// no cache directory is configured.
type MemoryStorage struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string][]byte)}
}

func (s *MemoryStorage) Read(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return data, nil
}

func (s *MemoryStorage) Write(key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = data
	return nil
}

func (s *MemoryStorage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *MemoryStorage) Keys() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.data))
	for key := range s.data {
		keys = append(keys, key)
	}
	return keys, nil
}
