package dialog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// legacyExt is the extension of legacy single-definition snapshot blobs.
const legacyExt = ".fsd"

// Cache owns the loaded dialog definitions. It keeps two structurally
// independent maps: the localized cache keyed by (language, source id),
// and the legacy snapshot cache keyed by source id alone. The two are
// never reconciled or merged.
//
// Definitions are replaced wholesale on reload and evicted only by
// Clear; there is no automatic eviction.
type Cache struct {
	mu      sync.Mutex
	langs   map[string]map[int]*Definition
	current string
	legacy  map[int]*Definition

	legacyDir string
	log       zerolog.Logger

	ready     chan struct{}
	readyOnce sync.Once
}

// NewCache creates an empty cache service. legacyDir is where legacy
// snapshot blobs live; empty means the per-user cache directory.
func NewCache(legacyDir string, log zerolog.Logger) *Cache {
	if legacyDir == "" {
		if base, err := os.UserCacheDir(); err == nil {
			legacyDir = filepath.Join(base, "fireside")
		}
	}
	return &Cache{
		langs:     make(map[string]map[int]*Definition),
		legacy:    make(map[int]*Definition),
		legacyDir: legacyDir,
		log:       log,
		ready:     make(chan struct{}),
	}
}

func (c *Cache) markReady() {
	c.readyOnce.Do(func() { close(c.ready) })
}

// WaitReady blocks until the initial load finished or the timeout
// elapsed. Returns false on timeout; callers then proceed with
// non-localized fallback text instead of blocking further.
func (c *Cache) WaitReady(timeout time.Duration) bool {
	select {
	case <-c.ready:
		return true
	case <-time.After(timeout):
		return false
	}
}

// SetLanguage switches the current language. It succeeds only for a
// loaded bucket; otherwise the current language is left unchanged.
func (c *Cache) SetLanguage(code string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.langs[code]; !ok {
		c.log.Warn().Str("lang", code).Msg("set language refused, bucket not loaded")
		return false
	}
	c.current = code
	return true
}

// Language returns the current language code, empty if never set.
func (c *Cache) Language() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Languages lists the loaded language codes in sorted order.
func (c *Cache) Languages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.langs))
	for code := range c.langs {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// Definition returns the cached definition for (language, sourceID).
// The miss path exists only for the legacy, non-localized snapshot
// cache: the blob is loaded, parsed, and cached keyed solely by source
// id. Localized misses are never backfilled from disk here; reloads go
// through LoadAllLanguages.
func (c *Cache) Definition(language string, sourceID int) (*Definition, bool) {
	c.mu.Lock()
	if bucket, ok := c.langs[language]; ok {
		if def, ok := bucket[sourceID]; ok {
			c.mu.Unlock()
			return def, true
		}
	}
	if def, ok := c.legacy[sourceID]; ok {
		c.mu.Unlock()
		return def, true
	}
	c.mu.Unlock()

	def, err := c.loadLegacySnapshot(sourceID)
	if err != nil {
		c.log.Warn().Err(err).Int("source", sourceID).Str("lang", language).Msg("definition not cached and legacy snapshot unavailable")
		return nil, false
	}
	c.mu.Lock()
	c.legacy[sourceID] = def
	c.mu.Unlock()
	return def, true
}

// Clear drops both caches and the current language pointer.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.langs = make(map[string]map[int]*Definition)
	c.legacy = make(map[int]*Definition)
	c.current = ""
}

func (c *Cache) legacyPath(sourceID int) string {
	return filepath.Join(c.legacyDir, strconv.Itoa(sourceID)+legacyExt)
}

func (c *Cache) loadLegacySnapshot(sourceID int) (*Definition, error) {
	data, err := os.ReadFile(c.legacyPath(sourceID))
	if err != nil {
		return nil, err
	}
	def, err := ParseDefinition(data)
	if err != nil {
		return nil, fmt.Errorf("legacy snapshot %d: %w", sourceID, err)
	}
	def.SourceID = sourceID
	return def, nil
}

// StoreLegacySnapshot persists a definition as a legacy snapshot blob.
func (c *Cache) StoreLegacySnapshot(def *Definition) error {
	if def == nil {
		return fmt.Errorf("dialog: nil definition")
	}
	if err := os.MkdirAll(c.legacyDir, 0o755); err != nil {
		return err
	}
	data, err := marshalDefinition(def)
	if err != nil {
		return err
	}
	return os.WriteFile(c.legacyPath(def.SourceID), data, 0o644)
}
