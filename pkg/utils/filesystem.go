// Package utils provides the process execution and filesystem seams used by
// the provisioning code. The FileSystem interface abstracts file access so
// stages can run against an in-memory filesystem in tests.
package utils

import (
	"io"
	"os"

	"github.com/bitfield/script"
	"github.com/spf13/afero"
)

// FileSystem is the subset of filesystem operations the provisioner needs.
// The default implementation delegates to the host filesystem through afero;
// tests swap in a MemMapFs.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, perm os.FileMode) error
	Stat(path string) (os.FileInfo, error)
	Open(path string) (afero.File, error)
	OpenFile(path string, flag int, perm os.FileMode) (afero.File, error)
	Remove(path string) error
	MkdirAll(path string, perm os.FileMode) error
	ReadDir(dirname string) ([]os.FileInfo, error)
	Exists(path string) (bool, error)
	DirExists(path string) (bool, error)
	Rename(oldPath, newPath string) error

	// Chown changes the numeric uid and gid of the named file.
	Chown(path string, uid, gid int) error

	// Pipe opens the file at path as a script.Pipe for line-oriented edits.
	Pipe(path string) *script.Pipe

	// WritePipe drains pipe into the file at path.
	WritePipe(path string, pipe *script.Pipe, flag int, perm os.FileMode) (int64, error)
}

type aferoFS struct {
	fs afero.Fs
}

// FS is the global FileSystem instance. It defaults to the real filesystem
// and is swapped for a MemMapFs in tests.
var FS FileSystem = &aferoFS{fs: afero.NewOsFs()}

func (a *aferoFS) ReadFile(path string) ([]byte, error) {
	return afero.ReadFile(a.fs, path)
}

func (a *aferoFS) WriteFile(path string, data []byte, perm os.FileMode) error {
	return afero.WriteFile(a.fs, path, data, perm)
}

func (a *aferoFS) Stat(path string) (os.FileInfo, error) {
	return a.fs.Stat(path)
}

func (a *aferoFS) Open(path string) (afero.File, error) {
	return a.fs.Open(path)
}

func (a *aferoFS) OpenFile(path string, flag int, perm os.FileMode) (afero.File, error) {
	return a.fs.OpenFile(path, flag, perm)
}

func (a *aferoFS) Remove(path string) error {
	return a.fs.Remove(path)
}

func (a *aferoFS) MkdirAll(path string, perm os.FileMode) error {
	return a.fs.MkdirAll(path, perm)
}

func (a *aferoFS) ReadDir(dirname string) ([]os.FileInfo, error) {
	return afero.ReadDir(a.fs, dirname)
}

func (a *aferoFS) Exists(path string) (bool, error) {
	return afero.Exists(a.fs, path)
}

func (a *aferoFS) DirExists(path string) (bool, error) {
	return afero.DirExists(a.fs, path)
}

func (a *aferoFS) Rename(oldPath, newPath string) error {
	return a.fs.Rename(oldPath, newPath)
}

func (a *aferoFS) Chown(path string, uid, gid int) error {
	return a.fs.Chown(path, uid, gid)
}

func (a *aferoFS) Pipe(path string) *script.Pipe {
	result := script.NewPipe()
	file, err := a.Open(path)
	if err != nil {
		return result.WithError(err)
	}
	return result.WithReader(file)
}

func (a *aferoFS) WritePipe(path string, p *script.Pipe, flag int, perm os.FileMode) (int64, error) {
	if p.Error() != nil {
		return 0, p.Error()
	}
	out, err := a.OpenFile(path, flag, perm)
	if err != nil {
		p.SetError(err)
		return 0, err
	}
	defer func() {
		err = out.Close()
	}()

	wrote, err := io.Copy(out, p)
	if err != nil {
		p.SetError(err)
	}
	return wrote, p.Error()
}

// NewMemMapFS returns an in-memory FileSystem for tests.
func NewMemMapFS() FileSystem {
	return &aferoFS{fs: afero.NewMemMapFs()}
}
