package remover

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/amyadams89/dupemanager/internal/entities"
)

// Outcome es el resultado por ruta de una acción destructiva. Err == nil
// significa éxito. Un fallo en una ruta no aborta el lote: el resumen final
// necesita el recuento completo.
type Outcome struct {
	Path string
	Err  error
}

// Remover ejecuta el borrado (o movimiento a papelera) de las víctimas de una
// Resolution. Trabaja sobre afero.Fs: los tests prueban delete/trash en
// memoria, y un dry-run jamás puede tocar disco por accidente.
type Remover struct {
	fs       afero.Fs
	trashDir string
	now      func() time.Time
}

// New crea un Remover. trashDir es la carpeta destino del modo papelera.
func New(fsys afero.Fs, trashDir string) *Remover {
	return &Remover{fs: fsys, trashDir: trashDir, now: time.Now}
}

// Delete elimina cada ruta de forma definitiva.
func (r *Remover) Delete(paths []string) []Outcome {
	outcomes := make([]Outcome, 0, len(paths))
	for _, p := range paths {
		err := r.fs.Remove(p)
		if err != nil {
			logrus.WithError(err).WithField("path", p).Warn("no se pudo borrar")
		}
		outcomes = append(outcomes, Outcome{Path: p, Err: err})
	}
	return outcomes
}

// Trash mueve cada ruta a la carpeta de papelera en vez de borrarla.
func (r *Remover) Trash(paths []string) []Outcome {
	outcomes := make([]Outcome, 0, len(paths))
	if err := r.fs.MkdirAll(r.trashDir, 0755); err != nil {
		for _, p := range paths {
			outcomes = append(outcomes, Outcome{Path: p, Err: err})
		}
		return outcomes
	}
	for _, p := range paths {
		err := r.moveToTrash(p)
		if err != nil {
			logrus.WithError(err).WithField("path", p).Warn("no se pudo mover a papelera")
		}
		outcomes = append(outcomes, Outcome{Path: p, Err: err})
	}
	return outcomes
}

// moveToTrash mueve el archivo a la papelera renombrándolo para evitar
// colisiones: nombre_TIMESTAMP.ext
func (r *Remover) moveToTrash(srcPath string) error {
	filename := filepath.Base(srcPath)
	ext := filepath.Ext(filename)
	nameWithoutExt := strings.TrimSuffix(filename, ext)

	uniqueName := fmt.Sprintf("%s_%d%s", nameWithoutExt, r.now().UnixNano(), ext)
	destPath := filepath.Join(r.trashDir, uniqueName)

	// Rename es atómico dentro del mismo FS; entre particiones falla con
	// EXDEV y caemos a copiar + borrar.
	err := r.fs.Rename(srcPath, destPath)
	if err != nil {
		if isCrossDeviceError(err) {
			return r.moveCrossDevice(srcPath, destPath)
		}
		return err
	}
	return nil
}

// isCrossDeviceError detecta si el error es "invalid cross-device link"
func isCrossDeviceError(err error) bool {
	return strings.Contains(err.Error(), "cross-device") || strings.Contains(err.Error(), "EXDEV")
}

// moveCrossDevice copia y borra (para mover entre particiones)
func (r *Remover) moveCrossDevice(src, dst string) error {
	input, err := r.fs.Open(src)
	if err != nil {
		return err
	}
	defer input.Close()

	output, err := r.fs.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(output, input); err != nil {
		output.Close()
		return err
	}

	// Cerrar explícitamente para asegurar flush antes de borrar el origen
	if err := output.Close(); err != nil {
		return err
	}

	return r.fs.Remove(src)
}

// WriteShellScript genera un script sh de revisión con un `rm -v` por víctima,
// para quien prefiere auditar antes de ejecutar.
func WriteShellScript(w io.Writer, resolutions []*entities.Resolution) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "#!/bin/sh\n")
	fmt.Fprintf(bw, "# Generado por dupemanager\n")
	fmt.Fprintf(bw, "echo 'Iniciando limpieza...'\n\n")

	for _, res := range resolutions {
		if len(res.Removed) == 0 {
			continue
		}
		fmt.Fprintf(bw, "# Keeper: %s\n", res.Kept.Path)
		for _, v := range res.Removed {
			fmt.Fprintf(bw, "rm -v %q\n", v.Path)
		}
		fmt.Fprintf(bw, "\n")
	}
	return bw.Flush()
}
