package tui

import "github.com/sadopc/focusmine/internal/model"

// bengali translates UI labels. English labels are their own keys, so
// missing entries fall back to English.
var bengali = map[string]string{
	"Dashboard":   "ড্যাশবোর্ড",
	"Pomodoro":    "পোমোডোরো",
	"Projects":    "প্রকল্প",
	"Planner":     "পরিকল্পনা",
	"Learning":    "শেখা",
	"Notes":       "নোট",
	"Reports":     "রিপোর্ট",
	"Settings":    "সেটিংস",
	"Focus":       "ফোকাস",
	"Short Break": "ছোট বিরতি",
	"Long Break":  "দীর্ঘ বিরতি",
	"Running":     "চলছে",
	"Paused":      "বিরতিতে",
	"Today":       "আজ",
	"Tasks":       "কাজ",
	"Journal":     "জার্নাল",
	"Inbox":       "ইনবক্স",
	"Loading...":  "লোড হচ্ছে...",
}

func tr(lang model.Language, s string) string {
	if lang == model.Bengali {
		if t, ok := bengali[s]; ok {
			return t
		}
	}
	return s
}
