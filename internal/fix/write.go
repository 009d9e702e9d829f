package fix

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"valign/internal/source"
)

// Write persists every changed file of result. Each file is written to
// a temporary sibling and renamed over the original, keeping its mode.
// Virtual files (stdin, tests) cannot be written.
func Write(fs *source.FileSet, result *ApplyResult) error {
	if result == nil {
		return nil
	}
	for _, ch := range result.FileChanges {
		file := fs.Get(ch.File)
		if file == nil {
			return fmt.Errorf("write: unknown file %d", ch.File)
		}
		if file.Flags&source.FileVirtual != 0 {
			return fmt.Errorf("write %s: file is virtual", file.Path)
		}
		if err := writeAtomic(file.Path, RestoreEncoding(file.Flags, ch.After)); err != nil {
			return err
		}
	}
	return nil
}

// RestoreEncoding undoes the normalization done by FileSet.Load so that
// fixed files keep their BOM and CRLF line endings.
func RestoreEncoding(flags source.FileFlags, data []byte) []byte {
	if flags&source.FileNormalizedCRLF != 0 {
		data = bytes.ReplaceAll(data, []byte("\n"), []byte("\r\n"))
	}
	if flags&source.FileHadBOM != 0 {
		data = append([]byte{0xEF, 0xBB, 0xBF}, data...)
	}
	return data
}

func writeAtomic(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".valign-*")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
