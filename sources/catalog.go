package sources

import (
	"fmt"
	"os"

	"gmscraper/types"

	"gopkg.in/yaml.v3"
)

// ErrUnknownSource is returned when a caller asks for a source the catalog
// doesn't carry. Surfaced immediately instead of being retried.
type ErrUnknownSource struct {
	Name string
}

func (e *ErrUnknownSource) Error() string {
	return fmt.Sprintf("unknown source: %s", e.Name)
}

// Catalog is the immutable set of configured sources, indexed by name.
type Catalog struct {
	list   []types.NewsSource
	byName map[string]types.NewsSource
}

// NewCatalog builds a catalog from a source list, validating entries.
func NewCatalog(list []types.NewsSource) (*Catalog, error) {
	c := &Catalog{
		list:   make([]types.NewsSource, 0, len(list)),
		byName: make(map[string]types.NewsSource, len(list)),
	}

	for _, src := range list {
		if src.Name == "" || src.URL == "" {
			return nil, fmt.Errorf("source %q: name and url are required", src.Name)
		}
		if src.Mode == "" {
			src.Mode = types.ModeFeed
		}
		if src.Mode == types.ModeHTML && src.Selectors == nil {
			return nil, fmt.Errorf("source %q: html mode requires selectors", src.Name)
		}
		if _, dup := c.byName[src.Name]; dup {
			return nil, fmt.Errorf("source %q: duplicate name", src.Name)
		}
		c.list = append(c.list, src)
		c.byName[src.Name] = src
	}

	return c, nil
}

// All returns every configured source in catalog order.
func (c *Catalog) All() []types.NewsSource {
	out := make([]types.NewsSource, len(c.list))
	copy(out, c.list)
	return out
}

// Get looks up a single source by display name.
func (c *Catalog) Get(name string) (types.NewsSource, error) {
	src, ok := c.byName[name]
	if !ok {
		return types.NewsSource{}, &ErrUnknownSource{Name: name}
	}
	return src, nil
}

// Len reports the number of configured sources.
func (c *Catalog) Len() int {
	return len(c.list)
}

type catalogFile struct {
	Sources []types.NewsSource `yaml:"sources"`
}

// LoadFile reads a YAML catalog file. The file replaces the built-in
// defaults entirely; operators list every source they want watched.
func LoadFile(path string) ([]types.NewsSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sources file: %w", err)
	}

	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse sources file: %w", err)
	}
	if len(f.Sources) == 0 {
		return nil, fmt.Errorf("sources file %s declares no sources", path)
	}

	return f.Sources, nil
}
