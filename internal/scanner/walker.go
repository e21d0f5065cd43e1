package scanner

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/amyadams89/dupemanager/internal/entities"
)

// Config define las reglas para el escaneo.
type Config struct {
	MinSize    int64    // Tamaño mínimo en bytes para considerar
	Excludes   []string // Lista de carpetas a ignorar (por nombre)
	Extensions []string // Extensiones a incluir; vacío = todas
	// OnFile se invoca por cada archivo aceptado (para barras de progreso).
	OnFile func(path string)
}

// FileScanner encapsula el recorrido del sistema de archivos. Trabaja sobre
// afero.Fs para poder testearlo en memoria sin tocar disco.
type FileScanner struct {
	fs         afero.Fs
	cfg        Config
	excludeMap map[string]struct{} // Optimización O(1)
	extMap     map[string]struct{}
}

// New crea una nueva instancia del escáner con configuración.
func New(fsys afero.Fs, cfg Config) *FileScanner {
	// Pre-procesamos excludes a un mapa para búsquedas instantáneas
	exMap := make(map[string]struct{}, len(cfg.Excludes))
	for _, e := range cfg.Excludes {
		exMap[e] = struct{}{}
	}
	extMap := make(map[string]struct{}, len(cfg.Extensions))
	for _, e := range cfg.Extensions {
		extMap[strings.ToLower(e)] = struct{}{}
	}

	return &FileScanner{
		fs:         fsys,
		cfg:        cfg,
		excludeMap: exMap,
		extMap:     extMap,
	}
}

// Scan recorre rootDir y devuelve los descriptores en orden de recorrido.
// Las entradas ilegibles se registran y se omiten: un error de permisos en
// un rincón del árbol no debe abortar el escaneo completo.
func (s *FileScanner) Scan(rootDir string) ([]*entities.FileDescriptor, error) {
	if _, err := s.fs.Stat(rootDir); err != nil {
		return nil, err
	}

	files := make([]*entities.FileDescriptor, 0, 128)
	err := afero.Walk(s.fs, rootDir, func(path string, info os.FileInfo, err error) error {
		// 1. Manejo de errores de acceso (permisos, etc): avisar y seguir.
		if err != nil {
			logrus.WithError(err).WithField("path", path).Warn("entrada omitida: no se pudo acceder")
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		// 2. Si es directorio, verificamos si debemos ignorarlo
		if info.IsDir() {
			if _, ok := s.excludeMap[info.Name()]; ok {
				return filepath.SkipDir
			}
			return nil
		}

		name := info.Name()
		ext := filepath.Ext(name)

		// 3. Filtros de extensión y tamaño
		if len(s.extMap) > 0 {
			if _, ok := s.extMap[strings.ToLower(ext)]; !ok {
				return nil
			}
		}
		size := info.Size()
		if size < s.cfg.MinSize {
			return nil
		}

		files = append(files, &entities.FileDescriptor{
			Path:    path,
			Name:    name,
			Ext:     ext,
			Size:    size,
			ModTime: info.ModTime(),
		})
		if s.cfg.OnFile != nil {
			s.cfg.OnFile(path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
