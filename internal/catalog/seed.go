package catalog

import (
	"bytes"
	_ "embed"
)

//go:embed seed/catalog.yaml
var seedCatalog []byte

// SeedBytes returns the embedded starter catalog, used by `init` to
// scaffold a home directory content authors can edit.
func SeedBytes() []byte {
	out := make([]byte, len(seedCatalog))
	copy(out, seedCatalog)
	return out
}

// Seed parses the embedded starter catalog. The seed ships inside the
// binary so the CLI composes working output before any content exists
// on disk.
func Seed() (*Store, error) {
	return Parse(bytes.NewReader(seedCatalog))
}
