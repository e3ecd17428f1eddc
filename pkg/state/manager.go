package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// Manager reads and writes the deployment-info file. Access is guarded with an advisory
// file lock so two concurrent invocations cannot interleave a read-modify-write.
type Manager struct {
	path string
	lock *flock.Flock
}

// NewManager creates a manager for the deployment-info file in the given directory.
func NewManager(dir string) *Manager {
	path := filepath.Join(dir, DeploymentInfoFileName)

	return &Manager{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

// Path returns the location of the deployment-info file.
func (m *Manager) Path() string {
	return m.path
}

// Load reads the persisted deployment info. A missing file is not an error: a zero-valued
// DeploymentInfo is returned so first runs prompt without defaults.
func (m *Manager) Load() (*DeploymentInfo, error) {
	if err := m.lock.Lock(); err != nil {
		return nil, fmt.Errorf("locking %s: %w", m.path, err)
	}
	defer func() { _ = m.lock.Unlock() }()

	data, err := os.ReadFile(m.path)
	if errors.Is(err, fs.ErrNotExist) {
		return &DeploymentInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", m.path, err)
	}

	var info DeploymentInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", m.path, err)
	}

	return &info, nil
}

// Save writes the deployment info, replacing the previous contents atomically.
func (m *Manager) Save(info *DeploymentInfo) error {
	if err := m.lock.Lock(); err != nil {
		return fmt.Errorf("locking %s: %w", m.path, err)
	}
	defer func() { _ = m.lock.Unlock() }()

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding deployment info: %w", err)
	}

	tmp := m.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}

	if err := os.Rename(tmp, m.path); err != nil {
		return fmt.Errorf("replacing %s: %w", m.path, err)
	}

	return nil
}
