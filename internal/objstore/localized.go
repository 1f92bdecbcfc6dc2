package objstore

import (
	"encoding/json"
	"fmt"
	"sort"
)

// englishLanguage is the first fallback for localised names. The order
// requested language → English → configured fallback → raw identifier is
// user-visible and must not change.
const englishLanguage = "en"

// LocalizedText is a display name that is either a plain string or a mapping
// from language code to localised string. It unmarshals from both JSON
// shapes.
type LocalizedText struct {
	plain     string
	localized map[string]string
}

// NewText creates a plain (non-localised) LocalizedText.
func NewText(s string) LocalizedText {
	return LocalizedText{plain: s}
}

// NewLocalizedText creates a LocalizedText from a language map.
func NewLocalizedText(m map[string]string) LocalizedText {
	cpy := make(map[string]string, len(m))
	for k, v := range m {
		cpy[k] = v
	}
	return LocalizedText{localized: cpy}
}

// IsZero reports whether no name is set in any form.
func (t LocalizedText) IsZero() bool {
	return t.plain == "" && len(t.localized) == 0
}

// Resolve returns the display string for the requested language.
//
// Resolution order: requested language, then English, then the configured
// fallback language. Returns "" when none of the three is present; callers
// fall back to the raw identifier. No other variant is ever consulted, even
// when the map holds one.
func (t LocalizedText) Resolve(lang, fallback string) string {
	if t.plain != "" {
		return t.plain
	}
	if len(t.localized) == 0 {
		return ""
	}
	for _, l := range []string{lang, englishLanguage, fallback} {
		if l == "" {
			continue
		}
		if s, ok := t.localized[l]; ok && s != "" {
			return s
		}
	}
	return ""
}

// Variants returns every localised variant, including the plain form under
// the empty language code. Used for name matching that must consider all
// languages.
func (t LocalizedText) Variants() []string {
	if t.plain != "" {
		return []string{t.plain}
	}
	out := make([]string, 0, len(t.localized))
	langs := make([]string, 0, len(t.localized))
	for l := range t.localized {
		langs = append(langs, l)
	}
	sort.Strings(langs)
	for _, l := range langs {
		if t.localized[l] != "" {
			out = append(out, t.localized[l])
		}
	}
	return out
}

// UnmarshalJSON accepts either a JSON string or an object of language codes
// to strings.
func (t *LocalizedText) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = LocalizedText{plain: s}
		return nil
	}
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("localized text must be string or language map: %w", err)
	}
	*t = LocalizedText{localized: m}
	return nil
}

// MarshalJSON writes back the original shape: plain string or language map.
func (t LocalizedText) MarshalJSON() ([]byte, error) {
	if len(t.localized) > 0 {
		return json.Marshal(t.localized)
	}
	return json.Marshal(t.plain)
}
