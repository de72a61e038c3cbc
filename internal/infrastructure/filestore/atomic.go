package filestore

import (
	"fmt"
	"os"
	"path/filepath"
)

// writeFileAtomic escribe en un temporal y lo renombra sobre el destino.
// Nunca deja visible un documento a medio escribir bajo el nombre canónico,
// aunque el proceso muera durante la escritura.
func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("crear directorio de datos: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("escribir temporal: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("renombrar snapshot: %w", err)
	}
	return nil
}
