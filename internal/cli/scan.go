package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/amyadams89/dupemanager/internal/engine"
	"github.com/amyadams89/dupemanager/internal/entities"
	"github.com/amyadams89/dupemanager/internal/remover"
	"github.com/amyadams89/dupemanager/internal/report"
	"github.com/amyadams89/dupemanager/internal/scanner"
	"github.com/amyadams89/dupemanager/internal/utils"
)

var (
	scanDir       string
	useOneDrive   bool
	minSize       int64
	extensions    []string
	excludes      []string
	deleteDup     bool
	trashDup      bool
	outputScript  string
	jsonOut       bool
	reportPath    string
	interactive   bool
	logFile       string
	ignoreExtCase bool
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Escanea una carpeta en busca de duplicados",
	Long: `Recorre recursivamente una carpeta, agrupa los archivos probablemente
duplicados (tamaño + nombre + sufijos de copia) y muestra, borra o mueve a
papelera las copias sobrantes. Por defecto solo muestra (dry-run).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Validación de flags incompatibles
		actionCount := 0
		if deleteDup {
			actionCount++
		}
		if trashDup {
			actionCount++
		}
		if outputScript != "" {
			actionCount++
		}
		if actionCount > 1 {
			return fmt.Errorf("solo puedes elegir UNA acción: --delete, --trash o --output")
		}
		if jsonOut && interactive {
			return fmt.Errorf("--json y --interactive son incompatibles")
		}

		dir := scanDir
		if useOneDrive {
			od, ok := DetectOneDrive()
			if !ok {
				return fmt.Errorf("no se encontró ninguna carpeta de OneDrive")
			}
			dir = od
		}

		if err := setupLogging(logFile); err != nil {
			return err
		}

		return runScan(dir)
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVarP(&scanDir, "dir", "d", ".", "Carpeta a escanear")
	scanCmd.Flags().BoolVar(&useOneDrive, "onedrive", false, "Detectar y escanear la carpeta de OneDrive")
	scanCmd.Flags().Int64Var(&minSize, "min-size", 1, "Tamaño mínimo en bytes")
	scanCmd.Flags().StringSliceVarP(&extensions, "ext", "e", nil, "Extensiones a incluir (vacío = todas)")
	scanCmd.Flags().StringSliceVar(&excludes, "exclude", []string{".git", "node_modules", "TRASH_BIN"}, "Carpetas a ignorar")
	scanCmd.Flags().BoolVar(&deleteDup, "delete", false, "⚠️  Borra las copias sobrantes inmediatamente")
	scanCmd.Flags().BoolVar(&trashDup, "trash", false, "♻️  Mueve las copias sobrantes a ./TRASH_BIN")
	scanCmd.Flags().StringVarP(&outputScript, "output", "o", "", "Genera un script .sh de revisión")
	scanCmd.Flags().BoolVar(&jsonOut, "json", false, "Salida en formato JSON a stdout")
	scanCmd.Flags().StringVar(&reportPath, "report", "", "Guarda el reporte JSON en esta ruta")
	scanCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Pregunta grupo a grupo qué hacer")
	scanCmd.Flags().StringVar(&logFile, "log", "", "Escribe el log en este archivo")
	scanCmd.Flags().BoolVar(&ignoreExtCase, "ignore-ext-case", false, "Compara extensiones sin distinguir mayúsculas")
}

// setupLogging configura logrus: stderr por defecto, archivo si se pidió.
func setupLogging(path string) error {
	if path == "" {
		logrus.SetOutput(os.Stderr)
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("no se pudo abrir el log %q: %w", path, err)
	}
	logrus.SetOutput(f)
	logrus.SetFormatter(&logrus.JSONFormatter{})
	return nil
}

func runScan(dir string) error {
	start := time.Now()
	fsys := afero.NewOsFs()

	if !jsonOut {
		fmt.Printf("🚀 dupemanager - Escaneando: %s\n", dir)
		fmt.Printf("⚖️  Política: conservar la copia más reciente\n")
		fmt.Println("------------------------------------------------")
	}

	// --- PASO 1: SCANNER ---
	var bar *progressbar.ProgressBar
	cfg := scanner.Config{
		MinSize:    minSize,
		Excludes:   excludes,
		Extensions: extensions,
	}
	if !jsonOut {
		bar = progressbar.NewOptions(-1,
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(15),
			progressbar.OptionSetDescription("Escaneando..."),
			progressbar.OptionSpinnerType(14),
		)
		cfg.OnFile = func(string) { _ = bar.Add(1) }
	}

	sc := scanner.New(fsys, cfg)
	files, err := sc.Scan(dir)
	if err != nil {
		return fmt.Errorf("fallo en scanner: %w", err)
	}
	if bar != nil {
		_ = bar.Finish()
		fmt.Println()
	}

	// --- PASO 2: AGRUPAR ---
	builder := engine.NewBuilder(engine.Options{CaseInsensitiveExt: ignoreExtCase})
	groups, err := builder.BuildGroups(files)
	if err != nil {
		return fmt.Errorf("fallo agrupando: %w", err)
	}

	// --- PASO 3: RESOLVER ---
	resolutions := make([]*entities.Resolution, 0, len(groups))
	for _, g := range groups {
		res, err := engine.Resolve(g)
		if err != nil {
			return fmt.Errorf("fallo resolviendo grupo: %w", err)
		}
		resolutions = append(resolutions, res)
	}

	rep := report.Build(dir, int64(len(files)), groups, resolutions, time.Since(start))

	// --- PASO 4: SALIDA ---
	// El reporte a archivo se guarda antes del modo JSON: pedir ambos es
	// válido y el archivo no debe perderse por la salida temprana.
	if reportPath != "" {
		if err := report.Save(reportPath, rep); err != nil {
			logrus.WithError(err).Warn("no se pudo guardar el reporte")
			fmt.Fprintf(os.Stderr, "❌ Error guardando reporte: %v\n", err)
		} else if !jsonOut {
			fmt.Printf("📋 Reporte guardado: %s\n", reportPath)
		}
	}

	if jsonOut {
		return rep.WriteJSON(os.Stdout)
	}

	if outputScript != "" {
		if err := writeScript(outputScript, resolutions); err != nil {
			return fmt.Errorf("error generando script: %w", err)
		}
		fmt.Printf("\n📄 Script generado: %s\n", outputScript)
		return nil
	}

	processResults(fsys, rep, groups, resolutions)
	return nil
}

func writeScript(path string, resolutions []*entities.Resolution) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return remover.WriteShellScript(f, resolutions)
}

// processResults maneja la visualización y las acciones inmediatas (delete/trash)
func processResults(fsys afero.Fs, rep report.Report, groups []*entities.DuplicateGroup, resolutions []*entities.Resolution) {
	if len(groups) == 0 {
		fmt.Println("✅ ¡Limpio! No se encontraron duplicados.")
		return
	}

	rm := remover.New(fsys, "TRASH_BIN")
	if trashDup {
		fmt.Println("♻️  Modo Papelera: los archivos se moverán a ./TRASH_BIN/")
	} else if deleteDup {
		fmt.Println("🔥 MODO DESTRUCTIVO: los archivos se borrarán para siempre.")
	}

	fmt.Println("🔴 DUPLICADOS ENCONTRADOS:")
	reader := bufio.NewReader(os.Stdin)
	actionCount := 0
	var reclaimed int64

	for i, res := range resolutions {
		kind := "difuso"
		if groups[i].ExactNameMatch {
			kind = "nombre exacto"
		}
		fmt.Printf("   📦 Grupo %d (%s, %s) | 👑 KEEPER: %s\n",
			i+1, kind, utils.ByteCountDecimal(res.Kept.Size), res.Kept.Path)
		for j, v := range res.Removed {
			fmt.Printf("      🗑️  [Candidato %d]: %s\n", j+1, v.Path)
		}

		if interactive {
			if !promptGroup(reader, rm, res, &actionCount, &reclaimed) {
				break
			}
		} else if deleteDup || trashDup {
			applyAction(rm, victimPaths(res), res.Kept.Size, &actionCount, &reclaimed)
		}
		fmt.Println("")
	}

	fmt.Println("------------------------------------------------")
	if deleteDup || trashDup || interactive {
		fmt.Printf("🏁 Operación completada. Archivos procesados: %d\n", actionCount)
		fmt.Printf("💾 Espacio liberado: %s\n", utils.ByteCountDecimal(reclaimed))
	} else {
		fmt.Printf("🏁 Escaneo terminado. Candidatos a borrar: %d\n", rep.Summary.TotalDuplicates)
		fmt.Printf("💾 Espacio recuperable: %s\n", rep.Summary.BytesSavedHuman)
		fmt.Println("💡 Opciones disponibles:")
		fmt.Println("   --trash       -> Mover a carpeta segura")
		fmt.Println("   --output      -> Generar script de revisión")
		fmt.Println("   --delete      -> Borrar inmediatamente")
		fmt.Println("   --interactive -> Decidir grupo a grupo")
	}
}

// promptGroup pregunta qué hacer con un grupo. Devuelve false si el usuario
// quiere abortar.
func promptGroup(reader *bufio.Reader, rm *remover.Remover, res *entities.Resolution, actionCount *int, reclaimed *int64) bool {
	fmt.Println("      Opciones: [k] conservar todo  [a] borrar candidatos  [s] elegir  [q] salir")
	fmt.Print("      Acción (k/a/s/q): ")
	input, _ := reader.ReadString('\n')
	choice := strings.TrimSpace(strings.ToLower(input))

	switch choice {
	case "a":
		applyAction(rm, victimPaths(res), res.Kept.Size, actionCount, reclaimed)
	case "s":
		fmt.Print("      Números de candidato a borrar (separados por comas): ")
		line, _ := reader.ReadString('\n')
		for _, part := range strings.Split(line, ",") {
			num, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil || num < 1 || num > len(res.Removed) {
				fmt.Println("      Selección inválida:", strings.TrimSpace(part))
				continue
			}
			applyAction(rm, []string{res.Removed[num-1].Path}, res.Kept.Size, actionCount, reclaimed)
		}
	case "q":
		fmt.Println("      Abortado por el usuario.")
		return false
	default:
		fmt.Println("      Se conservan todos los archivos del grupo.")
	}
	return true
}

func victimPaths(res *entities.Resolution) []string {
	paths := make([]string, 0, len(res.Removed))
	for _, v := range res.Removed {
		paths = append(paths, v.Path)
	}
	return paths
}

// applyAction ejecuta delete o trash según el modo activo y acumula el tally.
func applyAction(rm *remover.Remover, paths []string, size int64, actionCount *int, reclaimed *int64) {
	var outcomes []remover.Outcome
	if trashDup {
		outcomes = rm.Trash(paths)
	} else {
		outcomes = rm.Delete(paths)
	}
	for _, out := range outcomes {
		if out.Err != nil {
			fmt.Printf("      ❌ Error procesando %s: %v\n", out.Path, out.Err)
			continue
		}
		if trashDup {
			fmt.Printf("      ♻️  Movido a papelera: %s\n", out.Path)
		} else {
			fmt.Printf("      🔥 Borrado: %s\n", out.Path)
		}
		*actionCount++
		*reclaimed += size
	}
}
