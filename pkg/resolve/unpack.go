package resolve

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

func isArchive(name string) bool {
	switch {
	case strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"):
		return true
	case strings.HasSuffix(name, ".tar"):
		return true
	case strings.HasSuffix(name, ".zip"):
		return true
	case strings.HasSuffix(name, ".gz"):
		return true
	default:
		return false
	}
}

func (r *Resolver) unpack(name string, data []byte, dir string) error {
	switch {
	case strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"):
		gz, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("unpacking %s: %v", name, err)
		}
		defer gz.Close()
		return r.untar(name, gz, dir)
	case strings.HasSuffix(name, ".tar"):
		return r.untar(name, bytes.NewReader(data), dir)
	case strings.HasSuffix(name, ".zip"):
		return r.unzip(name, data, dir)
	case strings.HasSuffix(name, ".gz"):
		gz, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("unpacking %s: %v", name, err)
		}
		defer gz.Close()
		plain, err := io.ReadAll(gz)
		if err != nil {
			return fmt.Errorf("unpacking %s: %v", name, err)
		}
		return afero.WriteFile(r.fs, filepath.Join(dir, strings.TrimSuffix(name, ".gz")), plain, 0644)
	default:
		return fmt.Errorf("unsupported archive %s", name)
	}
}

func (r *Resolver) untar(name string, src io.Reader, dir string) error {
	tr := tar.NewReader(src)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("unpacking %s: %v", name, err)
		}
		dest, err := safeJoin(dir, hdr.Name)
		if err != nil {
			return fmt.Errorf("unpacking %s: %v", name, err)
		}
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := r.fs.MkdirAll(dest, 0755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := r.fs.MkdirAll(filepath.Dir(dest), 0755); err != nil {
				return err
			}
			data, err := io.ReadAll(tr)
			if err != nil {
				return fmt.Errorf("unpacking %s: %v", name, err)
			}
			if err := afero.WriteFile(r.fs, dest, data, 0644); err != nil {
				return err
			}
		}
	}
}

func (r *Resolver) unzip(name string, data []byte, dir string) error {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("unpacking %s: %v", name, err)
	}
	for _, f := range zr.File {
		dest, err := safeJoin(dir, f.Name)
		if err != nil {
			return fmt.Errorf("unpacking %s: %v", name, err)
		}
		if f.FileInfo().IsDir() {
			if err := r.fs.MkdirAll(dest, 0755); err != nil {
				return err
			}
			continue
		}
		if err := r.fs.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return err
		}
		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("unpacking %s: %v", name, err)
		}
		content, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return fmt.Errorf("unpacking %s: %v", name, err)
		}
		if err := afero.WriteFile(r.fs, dest, content, 0644); err != nil {
			return err
		}
	}
	return nil
}

// safeJoin rejects entries escaping the target directory
func safeJoin(dir, name string) (string, error) {
	dest := filepath.Join(dir, filepath.FromSlash(name))
	if dest != dir && !strings.HasPrefix(dest, dir+string(filepath.Separator)) {
		return "", fmt.Errorf("archive entry %q escapes target directory", name)
	}
	return dest, nil
}
