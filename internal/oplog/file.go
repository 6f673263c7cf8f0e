// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package oplog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sys/unix"
)

const (
	// DefaultDir is where the drivers of the test harness share their files
	DefaultDir = "/opt/antithesis/local-txt-files"

	// OperationsFile is the name of the operations log
	OperationsFile = "operations.txt"
	// ClientIDsFile is the name of the file holding the allocated client ids
	ClientIDsFile = "client-traffic-ids.txt"

	lockSuffix = ".lock"
)

// File is a Log shared by every process of the host. Writes are serialized
// with an exclusive flock on a lock file next to each file.
type File struct {
	mu  sync.Mutex
	dir string
}

var _ Log = (*File)(nil)

// NewFile creates a File in dir.
func NewFile(dir string) *File {
	return &File{dir: dir}
}

// Path returns the path of the operations log.
func (f *File) Path() string {
	return filepath.Join(f.dir, OperationsFile)
}

// NextClientID implements Log. Ids start at 1 and every allocated id is kept,
// comma separated, on the single line of the ids file.
func (f *File) NextClientID() (int, error) {
	path := filepath.Join(f.dir, ClientIDsFile)

	var id int
	err := f.locked(path, func() error {
		content, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}

		line := strings.TrimSpace(string(content))
		var ids []string
		if line != "" {
			ids = strings.Split(line, ",")
			last, err := strconv.Atoi(ids[len(ids)-1])
			if err != nil {
				return fmt.Errorf("invalid client id %q: %w", ids[len(ids)-1], err)
			}
			id = last
		}

		id++
		ids = append(ids, strconv.Itoa(id))
		return os.WriteFile(path, []byte(strings.Join(ids, ",")), 0o644)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to allocate a client id: %w", err)
	}
	return id, nil
}

// Append implements Log.
func (f *File) Append(operations ...Operation) error {
	if len(operations) == 0 {
		return nil
	}

	path := f.Path()
	err := f.locked(path, func() error {
		file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		return errors.Join(Write(file, operations...), file.Close())
	})
	if err != nil {
		return fmt.Errorf("failed to append %d operations to %s: %w", len(operations), path, err)
	}
	return nil
}

// ReadFile decodes the operations log at path.
func ReadFile(path string) ([]Operation, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Read(file)
}

// locked runs fn holding the lock of path, within the process and across processes.
func (f *File) locked(path string, fn func() error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	lock, err := os.OpenFile(path+lockSuffix, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return err
	}
	defer lock.Close()

	fd := int(lock.Fd())
	if err := unix.Flock(fd, unix.LOCK_EX); err != nil {
		return fmt.Errorf("failed to lock %s: %w", lock.Name(), err)
	}
	defer func() {
		_ = unix.Flock(fd, unix.LOCK_UN)
	}()

	return fn()
}
