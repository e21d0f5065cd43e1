package engine

import (
	"strings"

	"github.com/amyadams89/dupemanager/internal/entities"
)

// Options configura el GroupBuilder.
type Options struct {
	// CaseInsensitiveExt compara extensiones sin distinguir mayúsculas
	// (".JPG" == ".jpg"). Por defecto la comparación es exacta.
	CaseInsensitiveExt bool
}

// GroupBuilder particiona una lista de descriptores en grupos de duplicados.
// Es un cálculo puro en memoria: todo el estado de trabajo (buckets, marcas de
// consumido) es local a cada llamada a BuildGroups, así que una misma instancia
// puede reutilizarse sin problema.
type GroupBuilder struct {
	opts Options
}

// NewBuilder crea un GroupBuilder con la configuración dada.
func NewBuilder(opts Options) *GroupBuilder {
	return &GroupBuilder{opts: opts}
}

// sizeBucket agrupa descriptores con el mismo tamaño exacto, en orden de
// aparición en la entrada.
type sizeBucket struct {
	size  int64
	files []*entities.FileDescriptor
}

// BuildGroups agrupa los archivos que probablemente son duplicados entre sí.
//
// Algoritmo:
//  1. Partición por tamaño exacto (igual tamaño es condición necesaria).
//     Los buckets de un solo miembro se descartan.
//  2. Dentro de cada bucket, subgrupos por nombre idéntico -> grupos con
//     ExactNameMatch=true.
//  3. Con lo que queda, pasada difusa: el primer descriptor no consumido
//     ancla un nombre base canónico y recluta al resto del bucket cuyo
//     nombre coincide por la tabla de sufijos de copia.
//
// El orden de salida es determinista: buckets en orden de descubrimiento,
// y dentro de cada bucket los grupos exactos antes que los difusos.
func (b *GroupBuilder) BuildGroups(files []*entities.FileDescriptor) ([]*entities.DuplicateGroup, error) {
	if err := validateInput(files); err != nil {
		return nil, err
	}

	// --- PASO 1: BUCKETS POR TAMAÑO ---
	// Mapa para búsqueda O(1) + slice para conservar el orden de descubrimiento.
	bucketIdx := make(map[int64]int)
	var buckets []*sizeBucket
	for _, f := range files {
		idx, ok := bucketIdx[f.Size]
		if !ok {
			idx = len(buckets)
			bucketIdx[f.Size] = idx
			buckets = append(buckets, &sizeBucket{size: f.Size})
		}
		buckets[idx].files = append(buckets[idx].files, f)
	}

	groups := make([]*entities.DuplicateGroup, 0)
	for _, bk := range buckets {
		if len(bk.files) < 2 {
			// Un archivo solo en su bucket no puede ser duplicado de nada.
			continue
		}
		groups = append(groups, b.groupBucket(bk)...)
	}
	return groups, nil
}

// groupBucket procesa un bucket: primero nombres exactos, después la pasada
// difusa sobre los no consumidos.
func (b *GroupBuilder) groupBucket(bk *sizeBucket) []*entities.DuplicateGroup {
	var groups []*entities.DuplicateGroup
	consumed := make([]bool, len(bk.files))

	// --- PASO 2: NOMBRES EXACTOS ---
	nameIdx := make(map[string]int)
	var nameOrder []string
	byName := make(map[string][]int)
	for i, f := range bk.files {
		if _, ok := nameIdx[f.Name]; !ok {
			nameIdx[f.Name] = len(nameOrder)
			nameOrder = append(nameOrder, f.Name)
		}
		byName[f.Name] = append(byName[f.Name], i)
	}
	for _, name := range nameOrder {
		members := byName[name]
		if len(members) < 2 {
			continue
		}
		g := &entities.DuplicateGroup{ExactNameMatch: true}
		for _, i := range members {
			g.Add(bk.files[i])
			consumed[i] = true
		}
		groups = append(groups, g)
	}

	// --- PASO 3: PASADA DIFUSA ---
	for i, anchor := range bk.files {
		if consumed[i] {
			continue
		}
		// El ancla queda fuera de juego aunque no encuentre pareja: un archivo
		// que no es duplicado de nadie no debe re-evaluarse después.
		consumed[i] = true

		canon := CanonicalBase(stem(anchor.Name, anchor.Ext))
		members := []*entities.FileDescriptor{anchor}
		var memberIdx []int
		for j := i + 1; j < len(bk.files); j++ {
			if consumed[j] {
				continue
			}
			cand := bk.files[j]
			// Extensiones distintas nunca se agrupan, ni con tamaño idéntico.
			if !b.sameExt(anchor.Ext, cand.Ext) {
				continue
			}
			raw := stem(cand.Name, cand.Ext)
			if CanonicalBase(raw) == canon || matchesAsSuffix(canon, raw) {
				members = append(members, cand)
				memberIdx = append(memberIdx, j)
			}
		}
		if len(members) < 2 {
			continue
		}
		for _, j := range memberIdx {
			consumed[j] = true
		}
		g := &entities.DuplicateGroup{Files: members, ExactNameMatch: false}
		groups = append(groups, g)
	}

	return groups
}

// sameExt compara extensiones según la configuración.
func (b *GroupBuilder) sameExt(a, c string) bool {
	if b.opts.CaseInsensitiveExt {
		return strings.EqualFold(a, c)
	}
	return a == c
}

// stem devuelve el nombre sin la extensión.
func stem(name, ext string) string {
	return strings.TrimSuffix(name, ext)
}

// validateInput falla rápido ante descriptores malformados. No intentamos
// recuperación parcial: descartar un archivo en silencio podría ocultar un
// grupo que el usuario necesita ver antes de borrar.
func validateInput(files []*entities.FileDescriptor) error {
	for _, f := range files {
		switch {
		case f == nil:
			return &InvalidInputError{Reason: "descriptor nulo"}
		case f.Path == "":
			return &InvalidInputError{Path: f.Path, Reason: "sin ruta"}
		case f.Name == "":
			return &InvalidInputError{Path: f.Path, Reason: "sin nombre"}
		case f.Size < 0:
			return &InvalidInputError{Path: f.Path, Reason: "tamaño negativo"}
		case f.ModTime.IsZero():
			return &InvalidInputError{Path: f.Path, Reason: "sin fecha de modificación"}
		}
	}
	return nil
}
