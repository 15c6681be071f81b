// Package i18n localizes user-facing messages. English and Indonesian bundles are embedded.
package i18n

import (
	"embed"
	"encoding/json"
	"errors"
	"sync"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var locales embed.FS

var errNotInitialized = errors.New("i18n: Init must be called before Load")

var (
	mu     sync.RWMutex
	bundle *goi18n.Bundle
)

// Init resets the bundle to the embedded locales.
func Init() {
	b := goi18n.NewBundle(language.English)
	b.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, _ := locales.ReadDir("locales")
	for _, e := range entries {
		// embedded files are known-good; a broken one should fail tests, not startup
		_, _ = b.LoadMessageFileFS(locales, "locales/"+e.Name())
	}

	mu.Lock()
	bundle = b
	mu.Unlock()
}

// Load merges an extra message file (e.g. active.fr.json) into the bundle.
func Load(path string) error {
	mu.Lock()
	defer mu.Unlock()
	if bundle == nil {
		return errNotInitialized
	}
	_, err := bundle.LoadMessageFile(path)
	return err
}

// T localizes messageID for the Accept-Language style lang string.
// It returns the message id itself when nothing matches.
func T(lang, messageID string, data map[string]any) string {
	mu.RLock()
	b := bundle
	mu.RUnlock()
	if b == nil {
		return messageID
	}

	loc := goi18n.NewLocalizer(b, lang)
	msg, err := loc.Localize(&goi18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: data,
	})
	if err != nil || msg == "" {
		return messageID
	}
	return msg
}
