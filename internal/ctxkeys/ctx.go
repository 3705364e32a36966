package ctxkeys

import (
	"context"

	"github.com/BenjaminKobjolke/beaverprime/internal/config"
	"github.com/BenjaminKobjolke/beaverprime/internal/model"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

const (
	UserKey    contextKey = "user"
	ConfigKey  contextKey = "config"
	LocaleKey  contextKey = "locale"
	URLPathKey contextKey = "url_path"
)

func User(ctx context.Context) *model.User {
	user, _ := ctx.Value(UserKey).(*model.User)
	return user
}

func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, UserKey, user)
}

func Config(ctx context.Context) *config.Config {
	cfg, _ := ctx.Value(ConfigKey).(*config.Config)
	return cfg
}

func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, ConfigKey, cfg)
}

// Locale is the negotiated language tag for the request, e.g. "en" or "de".
func Locale(ctx context.Context) string {
	locale, _ := ctx.Value(LocaleKey).(string)
	return locale
}

func WithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, LocaleKey, locale)
}

func URLPath(ctx context.Context) string {
	path, _ := ctx.Value(URLPathKey).(string)
	return path
}

func WithURLPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, URLPathKey, path)
}
