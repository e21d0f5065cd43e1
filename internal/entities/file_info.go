package entities

import (
	"time"
)

// FileDescriptor representa la instantánea de un archivo en el momento del escaneo.
// Es inmutable: si el archivo cambia después del escaneo, el descriptor queda
// obsoleto y es responsabilidad del llamador re-verificar antes de borrar.
// Añadimos tags `json` para serialización.
type FileDescriptor struct {
	Path    string    `json:"path"`
	Name    string    `json:"name"`
	Ext     string    `json:"ext"`
	Size    int64     `json:"size_bytes"`
	ModTime time.Time `json:"mod_time"`
}

// DuplicateGroup representa un conjunto de archivos (>= 2) considerados duplicados
// entre sí. Todos los miembros comparten tamaño y extensión.
type DuplicateGroup struct {
	Files []*FileDescriptor `json:"files"`
	// ExactNameMatch indica si el grupo se formó por nombre idéntico (true)
	// o por coincidencia difusa de sufijos de copia (false).
	ExactNameMatch bool `json:"exact_name_match"`
}

// Add agrega un archivo al grupo
func (g *DuplicateGroup) Add(f *FileDescriptor) {
	g.Files = append(g.Files, f)
}

// Count devuelve el número de miembros del grupo.
func (g *DuplicateGroup) Count() int {
	return len(g.Files)
}

// Resolution es la decisión keep/remove para un grupo, más el cálculo de espacio.
// Es un valor derivado: no se persiste, se recalcula en cada pasada.
type Resolution struct {
	Kept           *FileDescriptor   `json:"kept"`
	Removed        []*FileDescriptor `json:"removed"`
	BytesReclaimed int64             `json:"bytes_reclaimed"`
}
