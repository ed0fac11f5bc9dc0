// Copyright (c) 2026 Keymaster Team
// Trustdesk - trust relationship client
// This source code is licensed under the MIT license found in the LICENSE file.

// package i18n provides internationalization and localization support for Trustdesk.
// It uses the go-i18n library to load and manage translation files, allowing the
// user interface to be displayed in multiple languages.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// localeFS embeds the YAML translation files from the 'locales' directory
// into the application binary.
//
//go:embed locales/*.yaml
var localeFS embed.FS

var (
	mu        sync.RWMutex
	bundle    *i18n.Bundle
	localizer *i18n.Localizer
	lang      string
	locales   []string
)

// Init initializes the i18n bundle and sets up the localizer for a specific language.
// It parses all embedded YAML files from the 'locales' directory.
func Init(l string) {
	b := i18n.NewBundle(language.English)
	b.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)

	var found []string
	files, _ := fs.ReadDir(localeFS, "locales")
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		data, err := localeFS.ReadFile("locales/" + f.Name())
		if err != nil {
			continue
		}
		if _, err := b.ParseMessageFileBytes(data, f.Name()); err != nil {
			continue
		}
		found = append(found, strings.TrimSuffix(f.Name(), ".yaml"))
	}

	mu.Lock()
	defer mu.Unlock()
	bundle = b
	localizer = i18n.NewLocalizer(b, l)
	lang = l
	locales = found
}

// T translates a message by its ID.
// If the i18n system has not been initialized, it will default to English.
// If a translation for the given ID is not found, it returns the ID itself.
// A single map argument is passed as template data; any other arguments are
// applied fmt-style to the translated string.
func T(messageID string, args ...any) string {
	mu.RLock()
	loc := localizer
	mu.RUnlock()
	if loc == nil {
		Init("en")
		mu.RLock()
		loc = localizer
		mu.RUnlock()
	}

	cfg := &i18n.LocalizeConfig{MessageID: messageID}
	if len(args) == 1 {
		if data, ok := args[0].(map[string]any); ok {
			cfg.TemplateData = data
			args = nil
		}
	}
	msg, err := loc.Localize(cfg)
	if err != nil {
		return messageID
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}

// SetLang changes the active language of the localizer.
func SetLang(l string) {
	Init(l)
}

// GetLang returns the language the localizer was last initialized with.
func GetLang() string {
	mu.RLock()
	defer mu.RUnlock()
	return lang
}

// GetAvailableLocales maps each embedded locale code to its own display name
// (the "language.name" message of that locale).
func GetAvailableLocales() map[string]string {
	mu.RLock()
	b, codes := bundle, locales
	mu.RUnlock()
	if b == nil {
		Init("en")
		mu.RLock()
		b, codes = bundle, locales
		mu.RUnlock()
	}

	out := make(map[string]string, len(codes))
	for _, code := range codes {
		name, err := i18n.NewLocalizer(b, code).Localize(&i18n.LocalizeConfig{MessageID: "language.name"})
		if err != nil {
			name = code
		}
		out[code] = name
	}
	return out
}
