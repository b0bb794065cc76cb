// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package i18n

// english is the fallback catalog. Every key must exist here.
var english = map[string]string{
	"smartAssistant":       "Smart Assistant",
	"alwaysHereToHelp":     "Always here to help",
	"askAnything":          "Ask anything...",
	"guest":                "Guest",
	"sources":              "Sources",
	"thinking":             "Thinking...",
	"clear":                "Clear",
	"stopResponse":         "Stop",
	"sendMessage":          "Send",
	"failedToGetResponse":  "Failed to get response. Please try again.",
	"pleaseWaitForResponse": "Please wait for the current response to finish.",
	"viewOnTrendsResearch": "View on Trends Research",

	"voiceNote.record":    "Record a voice note",
	"voiceNote.recording": "Recording...",
	"voiceNote.send":      "Send voice note",
	"voiceNote.cancel":    "Cancel recording",
	"voiceNote.play":      "Play",
	"voiceNote.pause":     "Pause",
	"voiceNote.micError":  "Could not access the microphone.",
	"voiceNote.tooShort":  "Keep recording for at least a second.",
	"voiceNote.loadError": "Could not load audio.",

	"infograph.on":    "Infographic mode on",
	"infograph.off":   "Infographic mode off",
	"infograph.saved": "Infographic saved to %s",

	"export.saved": "Transcript saved to %s",
	"chat.cleared": "Conversation cleared.",
}

// arabic is the primary catalog.
var arabic = map[string]string{
	"smartAssistant":       "المساعد الذكي",
	"alwaysHereToHelp":     "دائماً هنا للمساعدة",
	"askAnything":          "اطرح أي سؤال...",
	"guest":                "زائر",
	"sources":              "المصادر",
	"thinking":             "جاري التحميل...",
	"clear":                "مسح",
	"stopResponse":         "إيقاف",
	"sendMessage":          "إرسال",
	"failedToGetResponse":  "فشل في الحصول على الرد. يرجى المحاولة مرة أخرى.",
	"pleaseWaitForResponse": "يرجى انتظار انتهاء الرد الحالي.",
	"viewOnTrendsResearch": "عرض على تريندز للبحوث",

	"voiceNote.record":    "تسجيل ملاحظة صوتية",
	"voiceNote.recording": "جارٍ التسجيل...",
	"voiceNote.send":      "إرسال الملاحظة الصوتية",
	"voiceNote.cancel":    "إلغاء التسجيل",
	"voiceNote.play":      "تشغيل",
	"voiceNote.pause":     "إيقاف مؤقت",
	"voiceNote.micError":  "تعذر الوصول إلى الميكروفون.",
	"voiceNote.tooShort":  "استمر في التسجيل لثانية على الأقل.",
	"voiceNote.loadError": "تعذر تحميل الصوت.",

	"infograph.on":    "وضع الإنفوجرافيك مفعّل",
	"infograph.off":   "وضع الإنفوجرافيك متوقف",
	"infograph.saved": "تم حفظ الإنفوجرافيك في %s",

	"export.saved": "تم حفظ المحادثة في %s",
	"chat.cleared": "تم مسح المحادثة.",
}
