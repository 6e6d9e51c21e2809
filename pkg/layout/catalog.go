package layout

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/spf13/viper"
)

var layoutExtensions = []string{".yaml", ".yml"}

// Catalog loads layouts from the files of a directory, one layout per file
// named after the layout, and keeps them cached for ttl. A ttl of -1 keeps
// them until the process exits.
type Catalog struct {
	dir   string
	cache *gocache.Cache
}

func NewCatalog(dir string, ttl time.Duration) *Catalog {
	return &Catalog{dir: dir, cache: gocache.New(ttl, time.Minute)}
}

// Get returns the named layout, loading it from disk on a cache miss.
func (c *Catalog) Get(name string) (*Layout, error) {
	if cached, ok := c.cache.Get(name); ok {
		return cached.(*Layout), nil
	}

	path, err := c.find(name)
	if err != nil {
		return nil, err
	}
	l, err := load(path)
	if err != nil {
		return nil, err
	}
	if l.Name != name {
		return nil, fmt.Errorf("layout file %s declares layout %q, expected %q", path, l.Name, name)
	}
	c.cache.SetDefault(name, l)
	return l, nil
}

// Put compiles l and makes it available under its name without a file.
func (c *Catalog) Put(l *Layout) error {
	if err := l.Compile(); err != nil {
		return err
	}
	c.cache.Set(l.Name, l, gocache.NoExpiration)
	return nil
}

// Names lists the layouts available on disk and in the cache.
func (c *Catalog) Names() ([]string, error) {
	names := make(map[string]bool)
	for name := range c.cache.Items() {
		names[name] = true
	}

	if c.dir != "" {
		entries, err := os.ReadDir(c.dir)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("listing layouts in %s: %w", c.dir, err)
		}
		for _, e := range entries {
			ext := filepath.Ext(e.Name())
			if e.IsDir() || !isLayoutExtension(ext) {
				continue
			}
			names[strings.TrimSuffix(e.Name(), ext)] = true
		}
	}

	sorted := make([]string, 0, len(names))
	for name := range names {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)
	return sorted, nil
}

func (c *Catalog) find(name string) (string, error) {
	if c.dir == "" || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("no layout named %q", name)
	}
	for _, ext := range layoutExtensions {
		path := filepath.Join(c.dir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no layout named %q in %s", name, c.dir)
}

func load(path string) (*Layout, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading layout file %s: %w", path, err)
	}
	l, err := fromViper(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}

func isLayoutExtension(ext string) bool {
	for _, e := range layoutExtensions {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}
