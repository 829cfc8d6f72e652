package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/alejandrodnm/yieldsite/internal/domain"
)

// ErrNoData indica que el dataset todavía no existe: hay que correr el fetcher antes del build.
var ErrNoData = errors.New("data file not found")

// JSONFile implementa ports.PoolStore sobre un archivo JSON legible (array indentado).
type JSONFile struct {
	path string
}

// NewJSONFile crea un store sobre la ruta dada. No toca el disco hasta Save/Load.
func NewJSONFile(path string) *JSONFile {
	return &JSONFile{path: path}
}

// Path devuelve la ruta del dataset.
func (f *JSONFile) Path() string {
	return f.path
}

// SavePools sobreescribe el archivo con la lista dada, creando los directorios padre.
// No es atómico: un proceso matado a mitad de escritura puede dejar el archivo truncado.
func (f *JSONFile) SavePools(_ context.Context, pools []domain.Pool) error {
	if pools == nil {
		pools = []domain.Pool{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(pools); err != nil {
		return fmt.Errorf("storage.SavePools: encode: %w", err)
	}

	if err := ensureParentDir(f.path); err != nil {
		return fmt.Errorf("storage.SavePools: %w", err)
	}
	if err := os.WriteFile(f.path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("storage.SavePools: write %q: %w", f.path, err)
	}
	return nil
}

// LoadPools lee el dataset. Devuelve ErrNoData si el archivo no existe.
func (f *JSONFile) LoadPools(_ context.Context) ([]domain.Pool, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("storage.LoadPools: %q: %w", f.path, ErrNoData)
	}
	if err != nil {
		return nil, fmt.Errorf("storage.LoadPools: read %q: %w", f.path, err)
	}

	var pools []domain.Pool
	if err := json.Unmarshal(data, &pools); err != nil {
		return nil, fmt.Errorf("storage.LoadPools: parse %q: %w", f.path, err)
	}
	if pools == nil {
		pools = []domain.Pool{}
	}
	return pools, nil
}

// ReferralFile implementa ports.ReferralSource. El archivo es opcional.
type ReferralFile struct {
	path string
}

// NewReferralFile crea la fuente de referidos sobre la ruta dada.
func NewReferralFile(path string) *ReferralFile {
	return &ReferralFile{path: path}
}

// LoadReferrals lee el mapping. Si el archivo no existe devuelve un mapping vacío
// con "#" como default, sin error.
func (r *ReferralFile) LoadReferrals(_ context.Context) (domain.Referrals, error) {
	if r.path == "" {
		return domain.EmptyReferrals(), nil
	}

	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.EmptyReferrals(), nil
	}
	if err != nil {
		return domain.Referrals{}, fmt.Errorf("storage.LoadReferrals: read %q: %w", r.path, err)
	}

	var refs domain.Referrals
	if err := json.Unmarshal(data, &refs); err != nil {
		return domain.Referrals{}, fmt.Errorf("storage.LoadReferrals: parse %q: %w", r.path, err)
	}

	// Las claves se buscan en minúsculas; normalizamos por si el archivo viene mezclado.
	projects := make(map[string]string, len(refs.Projects))
	for k, v := range refs.Projects {
		projects[strings.ToLower(k)] = v
	}
	refs.Projects = projects
	return refs, nil
}

// ensureParentDir crea el directorio padre de path si hace falta.
func ensureParentDir(path string) error {
	if path == "" || path == ":memory:" || strings.HasPrefix(path, "file:") {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir %q: %w", dir, err)
	}
	return nil
}
