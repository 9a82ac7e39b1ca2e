package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestMatchLanguage(t *testing.T) {
	tests := []struct {
		accept   string
		expected language.Tag
	}{
		{"en-US,en;q=0.9", language.English},
		{"de-DE,de;q=0.9", language.German},
		{"fr-FR", language.English}, // Fallback
		{"", language.English},      // Empty
	}

	for _, tt := range tests {
		got := MatchLanguage(tt.accept)
		assert.Equal(t, tt.expected, got, "Accept: %s", tt.accept)
	}
}

func TestCLILanguage(t *testing.T) {
	tests := []struct {
		lcAll, lang string
		expected    language.Tag
	}{
		{"", "de_DE.UTF-8", language.German},
		{"en_GB.UTF-8", "de_DE.UTF-8", language.English},
		{"", "C", language.English},
		{"", "", language.English},
		{"", "ja_JP.UTF-8", language.English},
		{"de_AT@euro", "", language.German},
	}

	for _, tt := range tests {
		t.Setenv("LC_ALL", tt.lcAll)
		t.Setenv("LANG", tt.lang)
		assert.Equal(t, tt.expected, CLILanguage(), "LC_ALL=%q LANG=%q", tt.lcAll, tt.lang)
	}
}

func TestCatalog(t *testing.T) {
	de := NewPrinter(language.German)
	en := NewPrinter(language.English)

	assert.Equal(t, "Ziel erreicht!", de.Sprintf("Target reached!"))
	assert.Equal(t, "Target reached!", en.Sprintf("Target reached!"))
	assert.Equal(t, "3 Tage, 4 Stunden, 5 Minuten, 6 Sekunden",
		de.Sprintf("%d days, %d hours, %d minutes, %d seconds", 3, 4, 5, 6))
	assert.Equal(t, "12,345", en.Sprintf("%d", 12345))
	assert.Equal(t, "12.345", de.Sprintf("%d", 12345))
}

func TestMiddleware(t *testing.T) {
	var got string
	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := GetPrinter(r.Context())
		got = p.Sprintf("Target reached!")
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Accept-Language", "de")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, "Ziel erreicht!", got)
	assert.Equal(t, "Accept-Language", rr.Header().Get("Vary"))
}
