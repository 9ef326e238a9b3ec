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

var errNotInitialized = errors.New("i18n: bundle not initialized")

var (
	mu     sync.RWMutex
	bundle *goi18n.Bundle
)

// Init builds the bundle and loads the embedded en and id locales.
func Init() {
	mu.Lock()
	defer mu.Unlock()

	bundle = goi18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)
	for _, name := range []string{"locales/active.en.json", "locales/active.id.json"} {
		if _, err := bundle.LoadMessageFileFS(locales, name); err != nil {
			panic(err)
		}
	}
}

// Load adds an extra message file from disk, overriding embedded messages.
func Load(path string) error {
	mu.Lock()
	defer mu.Unlock()
	if bundle == nil {
		return errNotInitialized
	}
	_, err := bundle.LoadMessageFile(path)
	return err
}

// T localizes messageID for the given Accept-Language style preferences.
// Unknown ids fall back to the id itself.
func T(messageID string, data map[string]interface{}, langs ...string) string {
	mu.RLock()
	b := bundle
	mu.RUnlock()
	if b == nil {
		return messageID
	}

	localizer := goi18n.NewLocalizer(b, langs...)
	msg, err := localizer.Localize(&goi18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: data,
	})
	if err != nil {
		return messageID
	}
	return msg
}

