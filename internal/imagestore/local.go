// Package imagestore menyimpan gambar produk. Kontraknya sengaja kecil:
// upload bytes -> URL publik; implementasi lain (object storage) tinggal
// memenuhi interface yang sama.
package imagestore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

type Uploader interface {
	Upload(data []byte, ext string) (string, error)
}

// Local menulis gambar ke direktori lokal yang di-serve sebagai static files.
type Local struct {
	Dir     string
	BaseURL string
}

func (l *Local) Upload(data []byte, ext string) (string, error) {
	if err := os.MkdirAll(l.Dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir image dir: %w", err)
	}
	name := uuid.NewString()[:8] + ext
	if err := os.WriteFile(filepath.Join(l.Dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return l.BaseURL + "/" + name, nil
}
