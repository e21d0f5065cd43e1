package engine

import (
	"fmt"
)

// InvalidGroupError indica que un grupo pasado a Resolve tiene menos de 2 miembros.
// El llamador no debe reintentar con la misma entrada: el bug está en la
// construcción del grupo, no aquí.
type InvalidGroupError struct {
	Members int
}

func (e *InvalidGroupError) Error() string {
	return fmt.Sprintf("grupo inválido: tiene %d miembros (mínimo 2)", e.Members)
}

// InvalidInputError indica un FileDescriptor malformado en la entrada de
// BuildGroups. Fallamos la llamada completa en vez de descartar el archivo:
// omitirlo en silencio podría ocultar un grupo relevante para borrado.
type InvalidInputError struct {
	Path   string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("descriptor inválido (%q): %s", e.Path, e.Reason)
}
