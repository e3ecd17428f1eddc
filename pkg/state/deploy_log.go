package state

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/gofrs/flock"
)

// DeployLog appends timestamped progress lines to the deploy log file.
type DeployLog struct {
	path  string
	lock  *flock.Flock
	clock clock.Clock
}

func NewDeployLog(dir string, clock clock.Clock) *DeployLog {
	path := filepath.Join(dir, DeployLogFileName)

	return &DeployLog{
		path:  path,
		lock:  flock.New(path + ".lock"),
		clock: clock,
	}
}

// Append writes a single timestamped line to the log.
func (l *DeployLog) Append(message string) error {
	if err := l.lock.Lock(); err != nil {
		return fmt.Errorf("locking %s: %w", l.path, err)
	}
	defer func() { _ = l.lock.Unlock() }()

	file, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("opening %s: %w", l.path, err)
	}
	defer file.Close()

	line := fmt.Sprintf("%s %s\n", l.clock.Now().Format(time.RFC3339), message)
	if _, err := file.WriteString(line); err != nil {
		return fmt.Errorf("writing %s: %w", l.path, err)
	}

	return nil
}
