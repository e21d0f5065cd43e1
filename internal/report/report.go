package report

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/amyadams89/dupemanager/internal/entities"
	"github.com/amyadams89/dupemanager/internal/utils"
)

// Report es el resultado completo de un escaneo, listo para serializar.
type Report struct {
	Summary  Summary       `json:"summary"`
	Groups   []GroupResult `json:"groups"`
	Metadata Metadata      `json:"metadata"`
}

type Metadata struct {
	ScannedPath string    `json:"scanned_path"`
	Policy      string    `json:"keep_policy"`
	Timestamp   time.Time `json:"timestamp"`
	Duration    string    `json:"duration_human"`
}

type Summary struct {
	TotalFilesScanned int64  `json:"total_files_scanned"`
	TotalGroups       int64  `json:"total_groups"`
	ExactNameGroups   int64  `json:"exact_name_groups"`
	FuzzyGroups       int64  `json:"fuzzy_groups"`
	TotalDuplicates   int64  `json:"total_duplicates"`
	BytesSaved        int64  `json:"bytes_saved"`
	BytesSavedHuman   string `json:"bytes_saved_human"`
}

type GroupResult struct {
	Size           int64                    `json:"file_size"`
	ExactNameMatch bool                     `json:"exact_name_match"`
	Keeper         *entities.FileDescriptor `json:"keeper"`
	Victims        []Victim                 `json:"victims"`
}

type Victim struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// KeepPolicy identifica la política de conservación en los metadatos.
// Es fija: se conserva la copia con fecha de modificación más reciente.
const KeepPolicy = "newest-mtime"

// Build arma el reporte a partir de los grupos y sus resoluciones. groups y
// resolutions van en paralelo (misma longitud, mismo orden).
func Build(rootDir string, totalScanned int64, groups []*entities.DuplicateGroup, resolutions []*entities.Resolution, dur time.Duration) Report {
	rep := Report{
		Metadata: Metadata{
			ScannedPath: rootDir,
			Policy:      KeepPolicy,
			Timestamp:   time.Now(),
			Duration:    dur.String(),
		},
		Summary: Summary{
			TotalFilesScanned: totalScanned,
		},
		Groups: []GroupResult{},
	}

	for i, g := range groups {
		res := resolutions[i]

		gRes := GroupResult{
			Size:           res.Kept.Size,
			ExactNameMatch: g.ExactNameMatch,
			Keeper:         res.Kept,
		}
		for _, v := range res.Removed {
			gRes.Victims = append(gRes.Victims, Victim{Path: v.Path, Size: v.Size})
		}

		rep.Summary.TotalGroups++
		if g.ExactNameMatch {
			rep.Summary.ExactNameGroups++
		} else {
			rep.Summary.FuzzyGroups++
		}
		rep.Summary.TotalDuplicates += int64(len(res.Removed))
		rep.Summary.BytesSaved += res.BytesReclaimed

		rep.Groups = append(rep.Groups, gRes)
	}

	rep.Summary.BytesSavedHuman = utils.ByteCountDecimal(rep.Summary.BytesSaved)
	return rep
}

// WriteJSON escribe el reporte con indentación (salida -json).
func (r Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// Save guarda el reporte en disco.
func Save(filename string, r Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}
