package render

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ZipFiles bundles files into a new zip archive at zipPath, storing each
// under its base name. When removeSource is true, the source files are
// deleted after a successful write, matching the "intermediate files are
// scratch once bundled" convention used for per-scene outputs.
func ZipFiles(files []string, zipPath string, removeSource bool) error {
	out, err := os.Create(zipPath)
	if err != nil {
		return fmt.Errorf("zip: create %s: %w", zipPath, err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	for _, path := range files {
		if err := addFileToZip(zw, path); err != nil {
			zw.Close()
			return fmt.Errorf("zip: add %s: %w", path, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("zip: finalize %s: %w", zipPath, err)
	}

	if removeSource {
		for _, path := range files {
			os.Remove(path)
		}
	}
	return nil
}

func addFileToZip(zw *zip.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w, err := zw.Create(filepath.Base(path))
	if err != nil {
		return err
	}
	_, err = io.Copy(w, f)
	return err
}
