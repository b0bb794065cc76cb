// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package i18n provides the Arabic and English message catalogs.
//
// Arabic is the primary locale; English is a full fallback. Catalog keys are
// stable identifiers so the presentation layers (TUI and plain REPL) never
// hardcode user-facing copy.
package i18n

import (
	"strings"
	"time"

	"golang.org/x/text/language"
)

// Locale identifies a message catalog.
type Locale string

const (
	Arabic  Locale = "ar"
	English Locale = "en"
)

var matcher = language.NewMatcher([]language.Tag{
	language.Arabic, // first entry is the default
	language.English,
})

// Match resolves a user-supplied locale string ("ar", "en-US", "ar-SA", ...)
// to a supported Locale. Unknown input falls back to Arabic.
func Match(s string) Locale {
	tag, err := language.Parse(strings.TrimSpace(s))
	if err != nil {
		return Arabic
	}
	_, idx, _ := matcher.Match(tag)
	if idx == 1 {
		return English
	}
	return Arabic
}

// T looks up key in the locale's catalog. Missing Arabic entries fall back
// to English; a key absent from both catalogs is returned verbatim so a
// typo surfaces in the UI instead of rendering blank.
func (l Locale) T(key string) string {
	if l == Arabic {
		if s, ok := arabic[key]; ok {
			return s
		}
	}
	if s, ok := english[key]; ok {
		return s
	}
	return key
}

// IsRTL reports whether the locale renders right to left.
func (l Locale) IsRTL() bool {
	return l == Arabic
}

// =============================================================================
// TIMESTAMPS
// =============================================================================

// arabicIndic maps ASCII digits to Arabic-Indic digits.
var arabicIndic = strings.NewReplacer(
	"0", "٠", "1", "١", "2", "٢", "3", "٣", "4", "٤",
	"5", "٥", "6", "٦", "7", "٧", "8", "٨", "9", "٩",
)

// FormatTime renders t as a 12-hour clock string. User messages carry
// hour and minute; assistant messages additionally carry seconds, which is
// what withSeconds selects. The Arabic form uses Arabic-Indic digits and
// the ص/م day-period markers.
func (l Locale) FormatTime(t time.Time, withSeconds bool) string {
	layout := "03:04 PM"
	if withSeconds {
		layout = "03:04:05 PM"
	}
	s := t.Format(layout)
	if l != Arabic {
		return s
	}
	s = arabicIndic.Replace(s)
	s = strings.ReplaceAll(s, "AM", "ص")
	s = strings.ReplaceAll(s, "PM", "م")
	return s
}
