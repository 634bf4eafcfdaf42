package export

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

// DirSaver writes downloads into a directory.
type DirSaver struct {
	fs  afero.Fs
	dir string
}

func NewDirSaver(fs afero.Fs, dir string) *DirSaver {
	if dir == "" {
		dir = "."
	}
	return &DirSaver{fs: fs, dir: dir}
}

func (s *DirSaver) Save(ctx context.Context, file File) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("%w: create %s: %v", ErrExportFailure, s.dir, err)
	}

	path := filepath.Join(s.dir, filepath.Base(file.Name))
	if err := afero.WriteFile(s.fs, path, file.Data, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrExportFailure, path, err)
	}
	return nil
}

// Path returns where a file with the given name ends up.
func (s *DirSaver) Path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}

// MemorySaver keeps the last saved file. The HTTP handlers use it to hold a
// download until the response is written.
type MemorySaver struct {
	File  *File
	Saves int
}

func (s *MemorySaver) Save(_ context.Context, file File) error {
	f := file
	s.File = &f
	s.Saves++
	return nil
}
