// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"regexp"
	"strings"
)

// The backend's speech synthesis is slow for the stock demo question, so a
// pre-produced studio recording is served instead whenever the transcribed
// question matches it.

// DemoAudioPath is the pre-produced demo reply, relative to the backend base.
const DemoAudioPath = "/assets/ElevenLabs_2026-02-16T12_31_48_Ghawi - Professional and Dynamic_pvc_sp94_s47_sb42_se49_b_m2.mp3"

const demoQuestion = "ما جهود الصين في تطوير قدراتها في الذكاء الاصطناعي, وهل تتفوق على أمريكيا في هذا المجال؟"

// demoKeywordGroups: a question matching at least three of the four groups
// counts as the demo question even when the transcription drifts.
var demoKeywordGroups = [][]string{
	{"الصين"},
	{"الذكاء الاصطناعي", "الذكاءالاصطناعي"},
	{"امريكا", "امريكيا", "أمريكا", "أمريكيا"},
	{"تفوق", "تتفوق"},
}

var (
	// Arabic diacritics (tashkeel) and the dagger alif.
	diacritics = regexp.MustCompile("[ً-ٰٟ]")
	spaces     = regexp.MustCompile(`\s+`)
	punct      = regexp.MustCompile(`[؟?.,،!؛:"'()\[\]{}]`)
)

// normalizeArabic canonicalizes transcribed Arabic for fuzzy comparison:
// diacritics stripped, alif/ya/ta-marbuta variants folded, whitespace
// collapsed, punctuation removed.
func normalizeArabic(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))
	s = diacritics.ReplaceAllString(s, "")
	s = strings.NewReplacer("أ", "ا", "إ", "ا", "آ", "ا", "ى", "ي", "ة", "ه").Replace(s)
	s = spaces.ReplaceAllString(s, " ")
	s = punct.ReplaceAllString(s, "")
	return s
}

// IsDemoQuestion reports whether input is the stock demo question, exactly
// or by keyword-group match.
func IsDemoQuestion(input string) bool {
	normalized := normalizeArabic(input)
	if normalized == "" {
		return false
	}
	if normalized == normalizeArabic(demoQuestion) {
		return true
	}

	matched := 0
	for _, group := range demoKeywordGroups {
		for _, word := range group {
			if strings.Contains(normalized, normalizeArabic(word)) {
				matched++
				break
			}
		}
	}
	return matched >= 3
}

// isDemoResponse reports whether any transcript candidate field of a voice
// response carries the demo question.
func isDemoResponse(candidates []string) bool {
	for _, c := range candidates {
		if c != "" && IsDemoQuestion(c) {
			return true
		}
	}
	return false
}
