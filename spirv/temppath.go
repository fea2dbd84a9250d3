package spirv

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"sync"
)

const (
	suffixLen      = 16
	suffixAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// TempPath owns a unique path for an intermediate build artifact. The file
// itself is created by whichever tool writes to the path. Release removes it.
type TempPath struct {
	path string
	once sync.Once
}

// NewTempPath returns a path in dir (os.TempDir() when dir is empty) named
// prefix + "." + a random 16 character alphanumeric suffix.
func NewTempPath(dir, prefix string) *TempPath {
	if dir == "" {
		dir = os.TempDir()
	}
	suffix := make([]byte, suffixLen)
	for i := range suffix {
		suffix[i] = suffixAlphabet[rand.IntN(len(suffixAlphabet))]
	}
	return &TempPath{path: filepath.Join(dir, prefix+"."+string(suffix))}
}

// Path returns the owned path.
func (t *TempPath) Path() string { return t.path }

func (t *TempPath) String() string { return t.path }

// Release deletes the file at the path. It is safe to call more than once.
// Removal errors are ignored: a leftover file in the temporary directory does
// not change the outcome of the build that owned it.
func (t *TempPath) Release() {
	t.once.Do(func() {
		_ = os.Remove(t.path)
	})
}
