package dialog

import (
	"strings"

	"golang.org/x/text/language"
)

// localeAliases maps bare codes onto the canonical loaded form. Checked
// after exact and primary-subtag matching fail.
var localeAliases = map[string]string{
	"en": "en-US",
	"de": "de-DE",
	"fr": "fr-FR",
	"es": "es-ES",
	"ja": "ja-JP",
	"zh": "zh-CN",
	// Nynorsk readers get the Bokmål bucket.
	"nn": "nb-NO",
}

// ResolveLanguage maps a requested (possibly system-reported) language
// code onto a loaded bucket:
//
//  1. exact case-insensitive match
//  2. same primary subtag before the hyphen
//  3. static alias table
//  4. first loaded language as last resort
//
// Returns "" when nothing at all is loaded.
func (c *Cache) ResolveLanguage(requested string) string {
	loaded := c.Languages()
	if len(loaded) == 0 {
		return ""
	}

	requested = strings.TrimSpace(requested)
	for _, code := range loaded {
		if strings.EqualFold(code, requested) {
			return code
		}
	}

	if base := primarySubtag(requested); base != "" {
		for _, code := range loaded {
			if strings.EqualFold(primarySubtag(code), base) {
				return code
			}
		}
	}

	if alias, ok := localeAliases[strings.ToLower(requested)]; ok {
		for _, code := range loaded {
			if strings.EqualFold(code, alias) {
				return code
			}
		}
	}

	return loaded[0]
}

// primarySubtag extracts the base language of a BCP 47 code, e.g.
// "en-US" -> "en". Unparsable codes yield "".
func primarySubtag(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return ""
	}
	base, conf := tag.Base()
	if conf == language.No {
		return ""
	}
	return base.String()
}
