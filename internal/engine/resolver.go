package engine

import (
	"github.com/amyadams89/dupemanager/internal/entities"
)

// Resolve decide qué archivo de un grupo sobrevive y calcula el espacio
// recuperable. La política es fija: gana la fecha de modificación más
// reciente; en empate exacto, el primero en el orden interno del grupo.
//
// Cálculo puro: aquí no se toca el sistema de archivos. Borrar lo que salga
// en Removed es decisión (y responsabilidad) del llamador.
func Resolve(group *entities.DuplicateGroup) (*entities.Resolution, error) {
	// GroupBuilder nunca construye grupos de menos de 2, pero validamos
	// igualmente: un grupo degenerado aquí significa un bug aguas arriba.
	if group == nil || len(group.Files) < 2 {
		n := 0
		if group != nil {
			n = len(group.Files)
		}
		return nil, &InvalidGroupError{Members: n}
	}

	kept := group.Files[0]
	for _, f := range group.Files[1:] {
		// Estrictamente posterior: los empates los gana el primero visto.
		if f.ModTime.After(kept.ModTime) {
			kept = f
		}
	}

	removed := make([]*entities.FileDescriptor, 0, len(group.Files)-1)
	for _, f := range group.Files {
		if f != kept {
			removed = append(removed, f)
		}
	}

	// Todos los miembros comparten tamaño por construcción, así que el
	// espacio recuperable es tamaño × número de víctimas.
	return &entities.Resolution{
		Kept:           kept,
		Removed:        removed,
		BytesReclaimed: kept.Size * int64(len(removed)),
	}, nil
}
