package src

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
)

type lockWaitHook func(wait time.Duration)

const (
	lockPollInterval = 120 * time.Millisecond
	lockStaleAfter   = 10 * time.Minute
	lockOwnerFile    = "owner"
)

// The holder touches the lock well inside lockStaleAfter.
var lockRefreshInterval = lockStaleAfter / 5

// ErrLockLost is returned by an unlock whose lock was removed or taken over.
var ErrLockLost = errors.New("workspace lock is no longer held")

// LockWorkspace takes an exclusive lock for ws, held as a sibling directory
// (<parent>/.<name>.lock) so it never shows up in the workspace file listing.
func LockWorkspace(ctx context.Context, ws *Workspace, hook lockWaitHook) (func() error, error) {
	path := filepath.Join(filepath.Dir(ws.Root), "."+ws.Name()+".lock")
	return acquireDirLock(ctx, path, hook)
}

func acquireDirLock(ctx context.Context, path string, hook lockWaitHook) (func() error, error) {
	token := uuid.NewString()
	waited := time.Duration(0)
	for {
		err := os.Mkdir(path, 0o755)
		if err == nil {
			meta := fmt.Sprintf("pid=%d\ntoken=%s\nacquired=%s\n", os.Getpid(), token, time.Now().Format(time.RFC3339Nano))
			if err := os.WriteFile(filepath.Join(path, lockOwnerFile), []byte(meta), 0o644); err != nil {
				_ = os.RemoveAll(path)
				return nil, fmt.Errorf("write lock owner: %w", err)
			}
			return holdDirLock(path, token), nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, err
		}

		if hook != nil {
			hook(waited)
		}

		// a lock left behind by a crashed run is reclaimed
		if lockIsStale(path) {
			_ = os.RemoveAll(path)
			continue
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockPollInterval):
			waited += lockPollInterval
		}
	}
}

// holdDirLock keeps the lock fresh until the returned unlock runs. Unlock
// removes the directory only while it still carries token.
func holdDirLock(path, token string) func() error {
	stop, done := make(chan struct{}), make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(lockRefreshInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case now := <-ticker.C:
				_ = os.Chtimes(path, now, now)
			}
		}
	}()

	var (
		once sync.Once
		err  error
	)
	return func() error {
		once.Do(func() {
			close(stop)
			<-done
			if _, owner, rerr := readLockOwner(path); rerr != nil || owner != token {
				err = ErrLockLost
				return
			}
			err = os.RemoveAll(path)
		})
		return err
	}
}

// lockIsStale reports whether the lock at path is old and its owner process
// is gone. An old lock with no readable owner is stale too.
func lockIsStale(path string) bool {
	info, err := os.Stat(path)
	if err != nil || time.Since(info.ModTime()) <= lockStaleAfter {
		return false
	}
	pid, _, err := readLockOwner(path)
	if err != nil || pid <= 0 {
		return true
	}
	return !processAlive(pid)
}

func readLockOwner(path string) (pid int, token string, err error) {
	data, err := os.ReadFile(filepath.Join(path, lockOwnerFile))
	if err != nil {
		return 0, "", err
	}
	for _, line := range strings.Split(string(data), "\n") {
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		switch k {
		case "pid":
			pid, _ = strconv.Atoi(v)
		case "token":
			token = v
		}
	}
	return pid, token, nil
}

func processAlive(pid int) bool {
	if pid == os.Getpid() {
		return true
	}
	p, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = p.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, os.ErrPermission)
}
