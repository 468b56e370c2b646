// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for the BRD assignment
// service. These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, mail_smtp_host, etc.
//   - Environment variables: BRDHUB_MONGO_URI, BRDHUB_MAIL_SMTP_HOST, etc.
//   - Command-line flags: --mongo_uri, --mail_smtp_host, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "brdhub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Email/SMTP configuration
	{Name: "mail_smtp_host", Default: "localhost", Desc: "SMTP server host"},
	{Name: "mail_smtp_port", Default: 1025, Desc: "SMTP server port"},
	{Name: "mail_smtp_user", Default: "", Desc: "SMTP username"},
	{Name: "mail_smtp_pass", Default: "", Desc: "SMTP password"},
	{Name: "mail_from", Default: "noreply@brdhub.io", Desc: "From email address"},
	{Name: "mail_from_name", Default: "BRD Hub", Desc: "From display name"},

	// Base URL for email links
	{Name: "base_url", Default: "http://localhost:3000", Desc: "Base URL for email links"},

	// Assignment engine policy
	{Name: "assign_timeout", Default: "10s", Desc: "End-to-end deadline for one assignment operation"},
	{Name: "assign_max_attempts", Default: 3, Desc: "Total attempts for transient assignment failures"},
	{Name: "assign_backoff_base", Default: "100ms", Desc: "Initial retry backoff for transient failures"},
	{Name: "assign_backoff_cap", Default: "1s", Desc: "Maximum retry backoff"},
	{Name: "assign_welcome_status", Default: "ASSIGNED", Desc: "Target status that triggers the welcome email variant"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "BRDHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		MailSMTPHost: appValues.String("mail_smtp_host"),
		MailSMTPPort: appValues.Int("mail_smtp_port"),
		MailSMTPUser: appValues.String("mail_smtp_user"),
		MailSMTPPass: appValues.String("mail_smtp_pass"),
		MailFrom:     appValues.String("mail_from"),
		MailFromName: appValues.String("mail_from_name"),

		BaseURL: appValues.String("base_url"),

		AssignTimeout:      appValues.Duration("assign_timeout", 10*time.Second),
		AssignMaxAttempts:  appValues.Int("assign_max_attempts"),
		AssignBackoffBase:  appValues.Duration("assign_backoff_base", 100*time.Millisecond),
		AssignBackoffCap:   appValues.Duration("assign_backoff_cap", time.Second),
		AssignWelcomeState: appValues.String("assign_welcome_status"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// The MongoDB URI is checked here so a bad connection string fails fast,
// before any connection attempt.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.AssignMaxAttempts < 1 {
		return fmt.Errorf("assign_max_attempts must be at least 1 (got %d)", appCfg.AssignMaxAttempts)
	}
	if appCfg.AssignBackoffBase > appCfg.AssignBackoffCap {
		return fmt.Errorf("assign_backoff_base (%s) must not exceed assign_backoff_cap (%s)",
			appCfg.AssignBackoffBase, appCfg.AssignBackoffCap)
	}

	return nil
}
