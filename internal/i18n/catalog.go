package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys are the English text; English needs no entries.
var german = map[string]string{
	// Validation
	"please enter a target date":                                  "Bitte ein Zieldatum eingeben",
	"target date is not a valid date (expected YYYY-MM-DDTHH:mm)": "Das Zieldatum ist ungültig (erwartet JJJJ-MM-TTTHH:mm)",
	"target date must be in the future":                           "Das Zieldatum muss in der Zukunft liegen",
	"target date must be within 50 years from now":                "Das Zieldatum darf höchstens 50 Jahre in der Zukunft liegen",
	"target date updated, but it could not be saved":              "Zieldatum geändert, konnte aber nicht gespeichert werden",

	// CLI and terminal view
	"Target":          "Ziel",
	"Remaining":       "Verbleibend",
	"Progress":        "Fortschritt",
	"Work days":       "Arbeitstage",
	"Weekends":        "Wochenenden",
	"Sleeps":          "Nächte",
	"Sunrises":        "Sonnenaufgänge",
	"Mondays":         "Montage",
	"Fridays":         "Freitage",
	"Weeks":           "Wochen",
	"Months":          "Monate",
	"Total hours":     "Stunden gesamt",
	"Milestones":      "Meilensteine",
	"Target updated":  "Ziel geändert",
	"Target cleared":  "Ziel zurückgesetzt",
	"Target reached!": "Ziel erreicht!",

	// Formats
	"%d days to go!": "Noch %d Tage!",
	"%d days, %d hours, %d minutes, %d seconds": "%d Tage, %d Stunden, %d Minuten, %d Sekunden",
}

func init() {
	for key, msg := range german {
		_ = message.SetString(language.German, key, msg)
	}
}
