package rawfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"pixbuf/bitmap"
)

// Load reads the bitmap stored at path.
func Load(path string) (*bitmap.Bitmap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open bitmap file %q: %w", path, err)
	}
	defer f.Close()

	bm, err := Read(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("could not read bitmap file %q: %w", path, err)
	}
	return bm, nil
}

// Save writes bm to path through a temporary file in the same directory, so
// readers never observe a partially written file.
func Save(path string, bm *bitmap.Bitmap, opts Options) error {
	return WriteFile(path, func(w io.Writer) error {
		_, err := Write(w, bm, opts)
		return err
	})
}

// WriteFile replaces path with whatever write produces, buffered and synced
// to a temporary sibling that is renamed into place only on success.
func WriteFile(path string, write func(io.Writer) error) (err error) {
	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	outFile, err := os.CreateTemp(dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("could not create temporary file for %q: %w", path, err)
	}
	canRename := false
	defer func() {
		if defErr := outFile.Close(); defErr != nil && err == nil {
			err = fmt.Errorf("could not close temporary file %q: %w", outFile.Name(), defErr)
			canRename = false
		}

		if !canRename {
			_ = os.Remove(outFile.Name())
			return
		}
		if defErr := os.Rename(outFile.Name(), path); defErr != nil {
			err = fmt.Errorf("could not move %q into place: %w", path, defErr)
			_ = os.Remove(outFile.Name())
		}
	}()

	w := bufio.NewWriter(outFile)
	if err = write(w); err != nil {
		return fmt.Errorf("could not write %q: %w", path, err)
	}
	if err = w.Flush(); err != nil {
		return fmt.Errorf("could not write %q: %w", path, err)
	}
	if err = outFile.Sync(); err != nil {
		return fmt.Errorf("could not sync temporary file %q: %w", outFile.Name(), err)
	}

	canRename = true
	return nil
}

// Dirs resolves scan to an absolute folder and dest relative to it.
func Dirs(scan, dest string) (string, string, error) {
	scanDir, err := filepath.Abs(scan)
	var info os.FileInfo
	if err == nil {
		if info, err = os.Stat(scanDir); err == nil && !info.IsDir() {
			err = fmt.Errorf("not a directory")
		}
	}
	if err != nil {
		return "", "", fmt.Errorf("invalid scan path %q: %w", scan, err)
	}

	if !filepath.IsAbs(dest) {
		dest = filepath.Join(scanDir, dest)
	}
	return scanDir, dest, nil
}

// List returns the names of the stored bitmaps found directly in dir.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("unable to read folder %q: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == Ext {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// Rename returns name with its extension replaced by Ext.
func Rename(name string) string {
	return name[:len(name)-len(filepath.Ext(name))] + Ext
}
