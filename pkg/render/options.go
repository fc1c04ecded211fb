package render

import theme "github.com/goliatone/go-theme"

// RenderOptions describe per-request switches that renderers honour without
// mutating the page data.
type RenderOptions struct {
	// Editor stamps data-zcode-* attributes on every component root, renders
	// the add-part affordance in empty slots and skips rich-text sanitization
	// so authors can see and correct their raw input.
	Editor bool
	// Strict fails the whole render on the first component error. Otherwise a
	// failing component is replaced by an inline error marker and the rest of
	// the page renders normally.
	Strict bool
	// Minify compacts the produced markup.
	Minify bool
	// AddSlotLabel overrides the label of the empty-slot button. When empty the
	// translator is asked for KeyAddSlot before falling back to the default.
	AddSlotLabel string
	// Locale and Translator localize editor affordances and error markers.
	Locale     string
	Translator Translator
	// OnMissing decides the text used when a translation is missing.
	OnMissing MissingTranslationHandler
	// Theme carries resolved theme tokens and asset URLs for document
	// renderers. Fragment renderers ignore it.
	Theme *theme.RendererConfig
}
