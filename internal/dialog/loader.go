package dialog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// docExt is the dialog document extension inside language folders.
const docExt = ".json"

// marshalDefinition serializes a definition back to document form.
func marshalDefinition(def *Definition) ([]byte, error) {
	return json.MarshalIndent(def, "", "  ")
}

// ParseDefinition parses one dialog document and builds its node index.
func ParseDefinition(data []byte) (*Definition, error) {
	var def Definition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, err
	}
	if err := def.buildIndex(); err != nil {
		return nil, err
	}
	return &def, nil
}

// LoadAllLanguages enumerates per-language subfolders of basePath and
// parses every contained document into that language's bucket.
// Per-file failures are skipped; a language with zero successes is
// dropped entirely. Returns the count of non-empty buckets.
//
// Load failures are never fatal: an unreadable tree yields zero buckets
// and the failure is logged, matching the "empty graph + failure flag"
// error posture.
func (c *Cache) LoadAllLanguages(basePath string) int {
	defer c.markReady()

	entries, err := os.ReadDir(filepath.Clean(basePath))
	if err != nil {
		c.log.Error().Err(err).Str("path", basePath).Msg("dialog base path unreadable")
		return 0
	}

	loaded := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		lang := entry.Name()
		bucket := c.loadLanguageDir(filepath.Join(basePath, lang), lang)
		if len(bucket) == 0 {
			c.log.Warn().Str("lang", lang).Msg("language folder had no loadable documents, dropped")
			continue
		}
		c.mu.Lock()
		c.langs[lang] = bucket
		c.mu.Unlock()
		loaded++
		c.log.Info().Str("lang", lang).Int("definitions", len(bucket)).Msg("language loaded")
	}
	return loaded
}

func (c *Cache) loadLanguageDir(dir, lang string) map[int]*Definition {
	files, err := os.ReadDir(dir)
	if err != nil {
		c.log.Warn().Err(err).Str("dir", dir).Msg("language folder unreadable")
		return nil
	}

	bucket := make(map[int]*Definition)
	for _, f := range files {
		if f.IsDir() || !strings.EqualFold(filepath.Ext(f.Name()), docExt) {
			continue
		}
		stem := strings.TrimSuffix(f.Name(), filepath.Ext(f.Name()))
		sourceID, err := strconv.Atoi(stem)
		if err != nil {
			c.log.Warn().Str("file", f.Name()).Msg("document name is not a numeric dialog id, skipped")
			continue
		}
		path := filepath.Join(dir, f.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			c.log.Warn().Err(err).Str("file", path).Msg("document unreadable, skipped")
			continue
		}
		def, err := ParseDefinition(data)
		if err != nil {
			c.log.Warn().Err(err).Str("file", path).Msg("document malformed, skipped")
			continue
		}
		def.SourceID = sourceID
		def.Language = lang
		bucket[sourceID] = def
	}
	return bucket
}
