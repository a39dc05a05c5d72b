package instancetab

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

// ErrInstanceNotFound is returned by an InstanceSource for unknown ids.
var ErrInstanceNotFound = errors.New("instancetab: instance not found")

// InstanceSource resolves instances by id. Hosts back it with their own inventory.
type InstanceSource interface {
	Instance(ctx context.Context, id string) (*Instance, error)
}

// MemoryInstanceSource serves instances from memory.
type MemoryInstanceSource struct {
	mu        sync.RWMutex
	instances map[string]*Instance
}

// NewMemoryInstanceSource builds a source seeded with the given instances.
func NewMemoryInstanceSource(instances ...*Instance) *MemoryInstanceSource {
	src := &MemoryInstanceSource{instances: make(map[string]*Instance, len(instances))}
	for _, inst := range instances {
		src.Put(inst)
	}
	return src
}

// Put stores or replaces an instance. Instances without an id are ignored.
func (s *MemoryInstanceSource) Put(instance *Instance) {
	if instance == nil || instance.ID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.instances[instance.ID] = instance
}

func (s *MemoryInstanceSource) Instance(_ context.Context, id string) (*Instance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inst, ok := s.instances[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInstanceNotFound, id)
	}
	return inst, nil
}

// DecodeInstances reads a JSON array of instances, or a single instance object.
func DecodeInstances(r io.Reader) ([]*Instance, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("instancetab: read instances: %w", err)
	}
	var list []*Instance
	if err := json.Unmarshal(data, &list); err == nil {
		return list, nil
	}
	var single Instance
	if err := json.Unmarshal(data, &single); err != nil {
		return nil, fmt.Errorf("instancetab: decode instances: %w", err)
	}
	return []*Instance{&single}, nil
}

// LoadInstancesFile decodes instances from a JSON file.
func LoadInstancesFile(path string) ([]*Instance, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("instancetab: open instances %s: %w", path, err)
	}
	defer f.Close()
	return DecodeInstances(f)
}
