package xmlcodec

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/umlweb/pkg/domain"
)

// MIMEType is the content type of exported documents.
const MIMEType = "application/xml;charset=utf-8"

// FileName returns the download name for an export taken at t (UTC),
// e.g. "uml-project-2025-01-31T14:05:09.xml".
func FileName(t time.Time) string {
	return "uml-project-" + t.UTC().Format("2006-01-02T15:04:05") + ".xml"
}

// AcceptsFile reports whether an uploaded file looks like an XML document,
// by extension or by content type.
func AcceptsFile(name, contentType string) bool {
	if strings.EqualFold(filepath.Ext(name), ".xml") {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "text/xml" || mediaType == "application/xml"
}

// ExportFile writes the document for snapshot to path.
func ExportFile(path string, snapshot domain.Snapshot, opts Options) error {
	if err := os.WriteFile(path, []byte(Export(snapshot, opts)), 0644); err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	return nil
}

// ImportFile reads and parses the document at path.
func ImportFile(path string) (*domain.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", path, err)
	}
	snap, err := Import(string(data))
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", path, err)
	}
	return snap, nil
}
