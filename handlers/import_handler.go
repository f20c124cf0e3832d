package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/muster-archive/musterbackend/config"
	"github.com/muster-archive/musterbackend/importer"
)

type ImportHandler struct {
	Importer *importer.Importer
	Cfg      *config.Config
}

// ImportRequest selects what to import. An empty File means the whole
// answer-set directory.
type ImportRequest struct {
	File string `json:"file"`
}

// RunImport imports answer-set files from the configured directory. The batch
// runs synchronously; the archive's drops are a few hundred files, small
// enough that a blocking request is simpler than job tracking.
func (ih *ImportHandler) RunImport(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body: "+err.Error())
			return
		}
	}

	if req.File != "" {
		cleaned := filepath.Clean(req.File)
		if strings.Contains(cleaned, "..") || filepath.IsAbs(cleaned) {
			WriteAPIError(w, http.StatusBadRequest, "invalid_file", "File must be a name inside the answer-set directory")
			return
		}
		path := filepath.Join(ih.Cfg.AnswerSetsPath, cleaned)
		if err := ih.Importer.ImportFile(path); err != nil {
			log.Printf("Error importing %s: %v", path, err)
			WriteAPIError(w, http.StatusInternalServerError, "import_failed", "Failed to import answer set")
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"imported": 1})
		return
	}

	imported, err := ih.Importer.ImportDir(ih.Cfg.AnswerSetsPath)
	if err != nil {
		log.Printf("Import batch finished with errors: %v", err)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"imported": imported,
			"error":    err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"imported": imported})
}
