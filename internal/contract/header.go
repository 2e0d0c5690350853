package contract

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/huangsam/scorecards/schema"
)

// headerWriter is where headers go. Tests swap it out.
var headerWriter io.Writer = os.Stdout

// LogCatalogHeader prints a concise, 2-line header before table output.
// Machine-readable formats get no header so stdout stays parseable.
func LogCatalogHeader(cfg *Config, catalog *schema.Catalog) {
	if cfg.Output != schema.TextOut && cfg.Output != "" {
		return
	}
	name := filepath.Base(cfg.CatalogPath)
	if name == "" || name == "." {
		name = "current"
	}
	hash := catalog.CurrentHash
	if hash == "" {
		hash = "unknown"
	}

	// Line 1: the catalog and its size
	// Line 2: the check set every scorecard is compared against
	if cfg.UseEmojis {
		_, _ = fmt.Fprintf(headerWriter, "🔎 Catalog: %s (%d services, %d checks)\n", name, len(catalog.Services), len(catalog.Checks.Checks))
		_, _ = fmt.Fprintf(headerWriter, "🧾 Checks hash: %s\n", hash)
		return
	}
	_, _ = fmt.Fprintf(headerWriter, "Catalog: %s (%d services, %d checks)\n", name, len(catalog.Services), len(catalog.Checks.Checks))
	_, _ = fmt.Fprintf(headerWriter, "Checks hash: %s\n", hash)
}
