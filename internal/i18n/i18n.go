// Package i18n localizes user-facing error messages. Locale files are
// embedded; the active locale travels on the request context.
package i18n

import (
	"context"
	"embed"
	"encoding/json"
	"log/slog"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"hr-leave-engine/internal/domain/errs"
)

//go:embed locales/*.json
var localeFS embed.FS

var (
	bundle        *i18n.Bundle
	matcher       language.Matcher
	defaultLocale = "en"
)

type ctxKey struct{}

// Init loads all locale files and sets the default locale.
func Init(defLocale string) {
	if defLocale != "" {
		defaultLocale = defLocale
	}

	bundle = i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		panic("i18n: read locales dir: " + err.Error())
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data, err := localeFS.ReadFile("locales/" + e.Name())
		if err != nil {
			panic("i18n: read " + e.Name() + ": " + err.Error())
		}
		bundle.MustParseMessageFileBytes(data, e.Name())
	}
	matcher = language.NewMatcher(bundle.LanguageTags())
	slog.Debug("i18n loaded", "files", len(entries), "default", defaultLocale)
}

// Match picks the best supported locale for an Accept-Language header value.
func Match(acceptLanguage string) string {
	if matcher == nil || acceptLanguage == "" {
		return defaultLocale
	}
	tag, _ := language.MatchStrings(matcher, acceptLanguage)
	base, _ := tag.Base()
	return base.String()
}

func WithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, ctxKey{}, locale)
}

// LocaleFromContext returns the configured default locale if none is set.
func LocaleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKey{}).(string); ok && v != "" {
		return v
	}
	return defaultLocale
}

// T translates a message ID using the locale from the context.
// Unknown IDs come back unchanged.
func T(ctx context.Context, messageID string, templateData ...map[string]any) string {
	return TOr(ctx, messageID, messageID, templateData...)
}

// TOr is T with an explicit fallback for missing translations.
func TOr(ctx context.Context, messageID, fallback string, templateData ...map[string]any) string {
	if bundle == nil {
		return fallback
	}
	l := i18n.NewLocalizer(bundle, LocaleFromContext(ctx), defaultLocale)

	cfg := &i18n.LocalizeConfig{MessageID: messageID}
	if len(templateData) > 0 && templateData[0] != nil {
		cfg.TemplateData = templateData[0]
	}

	msg, err := l.Localize(cfg)
	if err != nil {
		return fallback
	}
	return msg
}

// fixed kinds carry no parameters, so their catalogue text always applies.
var fixed = map[errs.Kind]bool{
	errs.MissingReasonKind: true,
	errs.UnauthorizedKind:  true,
	errs.ForbiddenKind:     true,
	errs.InternalKind:      true,
}

// Error renders e in the context's locale. Parameterised kinds are translated
// only when e carries parameters; otherwise e.Message is kept.
func Error(ctx context.Context, e *errs.Error) string {
	id := "error." + string(e.Kind)
	switch {
	case fixed[e.Kind]:
		return TOr(ctx, id, e.Message)
	case e.Params != nil:
		return TOr(ctx, id, e.Message, e.Params)
	default:
		return e.Message
	}
}
