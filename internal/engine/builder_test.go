package engine

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/amyadams89/dupemanager/internal/entities"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func fd(name string, size int64, mod time.Time) *entities.FileDescriptor {
	return &entities.FileDescriptor{
		Path:    filepath.Join("/data", name),
		Name:    name,
		Ext:     filepath.Ext(name),
		Size:    size,
		ModTime: mod,
	}
}

func build(t *testing.T, opts Options, files ...*entities.FileDescriptor) []*entities.DuplicateGroup {
	t.Helper()
	groups, err := NewBuilder(opts).BuildGroups(files)
	if err != nil {
		t.Fatalf("no se esperaba error: %v", err)
	}
	return groups
}

func TestBuildGroups_NombreExacto(t *testing.T) {
	a := fd("Report.docx", 100, t0)
	b := fd("Report.docx", 100, t0.Add(time.Hour))
	b.Path = "/data/sub/Report.docx"

	groups := build(t, Options{}, a, b)
	if len(groups) != 1 {
		t.Fatalf("se esperaba 1 grupo, hay %d", len(groups))
	}
	g := groups[0]
	if !g.ExactNameMatch {
		t.Fatalf("se esperaba ExactNameMatch=true")
	}
	if g.Count() != 2 || g.Files[0] != a || g.Files[1] != b {
		t.Fatalf("miembros inesperados: %+v", g.Files)
	}
}

func TestBuildGroups_Difuso(t *testing.T) {
	a := fd("Photo.jpg", 50, t0)
	b := fd("Photo (1).jpg", 50, t0)
	c := fd("Photo(2).jpg", 50, t0)

	groups := build(t, Options{}, a, b, c)
	if len(groups) != 1 {
		t.Fatalf("se esperaba 1 grupo, hay %d", len(groups))
	}
	g := groups[0]
	if g.ExactNameMatch {
		t.Fatalf("se esperaba ExactNameMatch=false")
	}
	if g.Count() != 3 {
		t.Fatalf("se esperaban 3 miembros, hay %d", g.Count())
	}
}

func TestBuildGroups_TamanoDistintoNoAgrupa(t *testing.T) {
	groups := build(t, Options{},
		fd("Data.xlsx", 200, t0),
		fd("Data_1.xlsx", 199, t0),
	)
	if len(groups) != 0 {
		t.Fatalf("tamaños distintos no deben agrupar: %+v", groups)
	}
}

func TestBuildGroups_ExtensionDistintaNoAgrupa(t *testing.T) {
	groups := build(t, Options{},
		fd("a.txt", 10, t0),
		fd("a.pdf", 10, t0),
	)
	if len(groups) != 0 {
		t.Fatalf("extensiones distintas no deben agrupar: %+v", groups)
	}
}

func TestBuildGroups_ArchivoUnico(t *testing.T) {
	groups := build(t, Options{}, fd("solo.txt", 42, t0))
	if len(groups) != 0 {
		t.Fatalf("un archivo de tamaño único no produce grupos: %+v", groups)
	}
}

func TestBuildGroups_EntradaVacia(t *testing.T) {
	groups := build(t, Options{})
	if len(groups) != 0 {
		t.Fatalf("entrada vacía -> salida vacía, hay %d grupos", len(groups))
	}
}

func TestBuildGroups_NombresSinRelacionNoAgrupan(t *testing.T) {
	groups := build(t, Options{},
		fd("factura.pdf", 77, t0),
		fd("apuntes.pdf", 77, t0),
	)
	if len(groups) != 0 {
		t.Fatalf("mismo tamaño con nombres sin relación no agrupa: %+v", groups)
	}
}

func TestBuildGroups_SufijosVariados(t *testing.T) {
	cases := []struct {
		nombre string
		copia  string
	}{
		{"Informe.docx", "Informe - Copy.docx"},
		{"Informe.docx", "Informe - Copy(3).docx"},
		{"Informe.docx", "Informe_2.docx"},
		{"Informe.docx", "Informe_copy.docx"},
		{"Informe.docx", "Informe_copy7.docx"},
	}
	for _, tc := range cases {
		t.Run(tc.copia, func(t *testing.T) {
			groups := build(t, Options{}, fd(tc.nombre, 10, t0), fd(tc.copia, 10, t0))
			if len(groups) != 1 || groups[0].Count() != 2 || groups[0].ExactNameMatch {
				t.Fatalf("se esperaba un grupo difuso de 2: %+v", groups)
			}
		})
	}
}

// Los grupos por nombre exacto salen antes que los difusos dentro del mismo
// bucket, y un archivo consumido por la fase exacta no vuelve a evaluarse.
func TestBuildGroups_ExactoAntesQueDifusoSinDobleMembresia(t *testing.T) {
	a := fd("Foto.jpg", 30, t0)
	b := fd("Foto (1).jpg", 30, t0)
	c := fd("Foto.jpg", 30, t0.Add(time.Minute))
	c.Path = "/data/otro/Foto.jpg"

	groups := build(t, Options{}, a, b, c)
	if len(groups) != 1 {
		t.Fatalf("se esperaba 1 grupo, hay %d", len(groups))
	}
	if !groups[0].ExactNameMatch {
		t.Fatalf("el grupo exacto tiene prioridad")
	}
	// b queda sin pareja: su ancla potencial (a) ya fue consumida.
	if groups[0].Count() != 2 {
		t.Fatalf("b no debe colarse en el grupo exacto: %+v", groups[0].Files)
	}

	// Propiedad de partición: nadie aparece dos veces.
	seen := make(map[*entities.FileDescriptor]bool)
	for _, g := range groups {
		for _, f := range g.Files {
			if seen[f] {
				t.Fatalf("descriptor en más de un grupo: %s", f.Path)
			}
			seen[f] = true
		}
	}
}

func TestBuildGroups_OrdenDeBuckets(t *testing.T) {
	// Dos buckets: el tamaño 10 se descubre primero y debe salir primero.
	groups := build(t, Options{},
		fd("a.txt", 10, t0),
		fd("b.png", 20, t0),
		fd("a.txt", 10, t0),
		fd("b.png", 20, t0),
	)
	if len(groups) != 2 {
		t.Fatalf("se esperaban 2 grupos, hay %d", len(groups))
	}
	if groups[0].Files[0].Size != 10 || groups[1].Files[0].Size != 20 {
		t.Fatalf("orden de buckets incorrecto: %d, %d", groups[0].Files[0].Size, groups[1].Files[0].Size)
	}
}

func TestBuildGroups_Idempotente(t *testing.T) {
	files := []*entities.FileDescriptor{
		fd("x.txt", 5, t0),
		fd("x (1).txt", 5, t0),
		fd("y.txt", 5, t0),
		fd("y.txt", 5, t0.Add(time.Second)),
	}
	b := NewBuilder(Options{})
	g1, err := b.BuildGroups(files)
	if err != nil {
		t.Fatalf("no se esperaba error: %v", err)
	}
	g2, err := b.BuildGroups(files)
	if err != nil {
		t.Fatalf("no se esperaba error: %v", err)
	}
	if !reflect.DeepEqual(g1, g2) {
		t.Fatalf("dos pasadas sobre la misma entrada difieren")
	}
}

func TestBuildGroups_ExtensionMayusculas(t *testing.T) {
	a := fd("Scan.JPG", 15, t0)
	b := fd("Scan (1).jpg", 15, t0)

	if groups := build(t, Options{}, a, b); len(groups) != 0 {
		t.Fatalf("por defecto la extensión distingue mayúsculas: %+v", groups)
	}
	groups := build(t, Options{CaseInsensitiveExt: true}, a, b)
	if len(groups) != 1 || groups[0].Count() != 2 {
		t.Fatalf("con CaseInsensitiveExt debía agrupar: %+v", groups)
	}
}

func TestBuildGroups_EntradaInvalida(t *testing.T) {
	cases := []struct {
		nombre string
		file   *entities.FileDescriptor
	}{
		{"sin fecha", &entities.FileDescriptor{Path: "/x/a.txt", Name: "a.txt", Ext: ".txt", Size: 1}},
		{"tamaño negativo", &entities.FileDescriptor{Path: "/x/a.txt", Name: "a.txt", Ext: ".txt", Size: -1, ModTime: t0}},
		{"sin nombre", &entities.FileDescriptor{Path: "/x/a.txt", Size: 1, ModTime: t0}},
		{"sin ruta", &entities.FileDescriptor{Name: "a.txt", Size: 1, ModTime: t0}},
	}
	for _, tc := range cases {
		t.Run(tc.nombre, func(t *testing.T) {
			_, err := NewBuilder(Options{}).BuildGroups([]*entities.FileDescriptor{tc.file})
			var iie *InvalidInputError
			if !errors.As(err, &iie) {
				t.Fatalf("se esperaba InvalidInputError, llegó %v", err)
			}
		})
	}
}
