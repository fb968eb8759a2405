// Package localfs enregistre les fichiers téléchargés dans un dossier local.
package localfs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var ErrInvalidFilename = errors.New("invalid filename")

type Saver struct {
	dir string
}

func NewSaver(dir string) *Saver {
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	return &Saver{dir: dir}
}

// Save écrit data sous dir/filename (écrase un fichier existant) et renvoie le chemin absolu.
// Le nom ne doit pas sortir du dossier cible.
func (s *Saver) Save(ctx context.Context, filename string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name := filepath.Base(filepath.Clean(filename))
	if name == "." || name == ".." || name == string(filepath.Separator) || name != filename {
		return "", fmt.Errorf("%w: %q", ErrInvalidFilename, filename)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", err
	}
	dest := filepath.Join(s.dir, name)

	// Écriture atomique: fichier temporaire puis renommage.
	tmp, err := os.CreateTemp(s.dir, "."+name+".*.part")
	if err != nil {
		return "", err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return "", err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return "", err
	}
	if err := os.Rename(tmpName, dest); err != nil {
		_ = os.Remove(tmpName)
		return "", err
	}
	if abs, err := filepath.Abs(dest); err == nil {
		return abs, nil
	}
	return dest, nil
}
