package contract

import (
	"bytes"
	"testing"

	"github.com/huangsam/scorecards/schema"
	"github.com/stretchr/testify/assert"
)

func captureHeader(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := headerWriter
	headerWriter = &buf
	t.Cleanup(func() { headerWriter = prev })
	return &buf
}

func TestLogCatalogHeader(t *testing.T) {
	catalog := &schema.Catalog{
		Services:    make([]schema.Service, 3),
		Checks:      schema.CheckCatalog{Checks: make([]schema.CheckDefinition, 2)},
		CurrentHash: "abc",
	}

	t.Run("plain", func(t *testing.T) {
		buf := captureHeader(t)
		LogCatalogHeader(&Config{CatalogPath: "/srv/catalog", Output: schema.TextOut}, catalog)
		assert.Equal(t, "Catalog: catalog (3 services, 2 checks)\nChecks hash: abc\n", buf.String())
	})

	t.Run("emoji", func(t *testing.T) {
		buf := captureHeader(t)
		LogCatalogHeader(&Config{CatalogPath: "/srv/catalog", Output: schema.TextOut, UseEmojis: true}, catalog)
		assert.Contains(t, buf.String(), "🔎 Catalog: catalog")
	})

	t.Run("missing hash", func(t *testing.T) {
		buf := captureHeader(t)
		LogCatalogHeader(&Config{CatalogPath: "."}, &schema.Catalog{})
		assert.Equal(t, "Catalog: current (0 services, 0 checks)\nChecks hash: unknown\n", buf.String())
	})

	t.Run("json output is silent", func(t *testing.T) {
		buf := captureHeader(t)
		LogCatalogHeader(&Config{CatalogPath: "/srv/catalog", Output: schema.JSONOut}, catalog)
		assert.Empty(t, buf.String())
	})
}
