package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dupemanager",
	Short: "Detecta y gestiona archivos duplicados por tamaño y nombre",
	Long: `dupemanager agrupa archivos probablemente duplicados comparando tamaño
exacto, nombre idéntico y sufijos de copia ("foto (1).jpg", "doc - Copy.docx",
"datos_1.xlsx"...) sin leer el contenido de los archivos.`,
}

// Execute ejecuta el comando raíz (invocado desde main)
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
