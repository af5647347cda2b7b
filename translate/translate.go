// Package translate formats user visible text for the host locale.
package translate

import (
	"log"
	"sync/atomic"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/message"
)

// FALLBACK_LOCALE is used when the host reports no locale at all.
const FALLBACK_LOCALE = "en-US"

var printer atomic.Pointer[message.Printer]

func init() {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("duet: locale: %v", err)
	}

	SetLocale(locales...)
}

// SetLocale selects the message printer that best matches the locales,
// in order of preference.
func SetLocale(locales ...string) {
	if len(locales) == 0 {
		locales = []string{FALLBACK_LOCALE}
	}

	printer.Store(message.NewPrinter(message.MatchLanguage(locales...)))
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	return printer.Load().Sprintf(key, args...)
}
