package credential

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// MemoryCell keeps values for the life of the process.
type MemoryCell struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryCell() *MemoryCell {
	return &MemoryCell{values: make(map[string]string)}
}

func (c *MemoryCell) Get(name string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.values[name]
	return v, ok
}

func (c *MemoryCell) Set(name, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[name] = value
	return nil
}

func (c *MemoryCell) Remove(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, name)
	return nil
}

const cellFileName = "credentials.json"

// FileCell stores values as a JSON object in dir/credentials.json (0600).
// The PIN is kept in plain text, as the browser cookie is.
type FileCell struct {
	filePath string
	mu       sync.RWMutex
}

func NewFileCell(dir string) (*FileCell, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &FileCell{filePath: filepath.Join(dir, cellFileName)}, nil
}

func (c *FileCell) Get(name string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	values, err := c.load()
	if err != nil {
		return "", false
	}
	v, ok := values[name]
	return v, ok
}

func (c *FileCell) Set(name, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	values, err := c.load()
	if err != nil {
		return err
	}
	values[name] = value
	return c.save(values)
}

func (c *FileCell) Remove(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	values, err := c.load()
	if err != nil {
		return err
	}
	if _, ok := values[name]; !ok {
		return nil
	}
	delete(values, name)
	return c.save(values)
}

// load returns an empty map when the file does not exist yet.
func (c *FileCell) load() (map[string]string, error) {
	values := make(map[string]string)
	data, err := os.ReadFile(c.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return values, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.filePath, err)
	}
	return values, nil
}

func (c *FileCell) save(values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.filePath, data, 0600)
}
