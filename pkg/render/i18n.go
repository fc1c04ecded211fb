package render

import (
	"errors"
	"fmt"
	"strings"
)

// Translation keys looked up during rendering.
const (
	KeyAddSlot        = "pagebuilder.slot.add"
	keyErrorPrefix    = "pagebuilder.error."
	defaultAddSlotTxt = "+ Add Part"
)

// ErrMissingTranslator is passed to MissingTranslationHandler when no
// translator was configured.
var ErrMissingTranslator = errors.New("render: translator not configured")

// Translator resolves a message key for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// MissingTranslationHandler returns the text used when key cannot be
// translated. args carries the original arguments followed by a map holding
// the English fallback under "default".
type MissingTranslationHandler func(locale, key string, args []any, err error) string

func missingTranslationDefault(_ string, key string, args []any, _ error) string {
	for _, arg := range args {
		if m, ok := arg.(map[string]any); ok {
			if fallback, ok := m["default"].(string); ok && strings.TrimSpace(fallback) != "" {
				return fallback
			}
		}
	}
	return key
}

func (o RenderOptions) translate(key, fallback string, args ...any) string {
	onMissing := o.OnMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}
	params := append(append([]any(nil), args...), map[string]any{"default": fallback})

	if o.Translator == nil {
		return onMissing(o.Locale, key, params, ErrMissingTranslator)
	}
	msg, err := o.Translator.Translate(o.Locale, key, args...)
	if err != nil || strings.TrimSpace(msg) == "" {
		return onMissing(o.Locale, key, params, err)
	}
	return msg
}

// addSlotLabel resolves the empty-slot button label.
func (o RenderOptions) addSlotLabel() string {
	if label := strings.TrimSpace(o.AddSlotLabel); label != "" {
		return label
	}
	return o.translate(KeyAddSlot, defaultAddSlotTxt)
}

// errorMessage returns the localized marker text for code. subject is the part
// id or path the failure refers to.
func (o RenderOptions) errorMessage(code Code, subject string) string {
	var fallback string
	switch code {
	case CodePartNotFound:
		fallback = fmt.Sprintf("part not found: %s", subject)
	case CodeCircularReference:
		fallback = fmt.Sprintf("circular reference detected: %s", subject)
	default:
		fallback = fmt.Sprintf("template could not be processed: %s", subject)
	}
	return o.translate(keyErrorPrefix+strings.ToLower(string(code)), fallback, subject)
}
