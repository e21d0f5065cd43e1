package cli

import (
	"os"
	"path/filepath"
)

// oneDriveEnvVars en orden de preferencia. OneDrive apunta a la cuenta activa;
// las otras dos existen cuando hay cuenta personal y de empresa a la vez.
var oneDriveEnvVars = []string{"OneDrive", "OneDriveConsumer", "OneDriveCommercial"}

// DetectOneDrive localiza la carpeta raíz de OneDrive del usuario: primero
// variables de entorno, después ~/OneDrive si existe.
func DetectOneDrive() (string, bool) {
	for _, v := range oneDriveEnvVars {
		if dir := os.Getenv(v); dir != "" {
			if info, err := os.Stat(dir); err == nil && info.IsDir() {
				return dir, true
			}
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", false
	}
	dir := filepath.Join(home, "OneDrive")
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return dir, true
	}
	return "", false
}
