// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	assignmentsfeature "github.com/dalemusser/brdhub/internal/app/features/assignments"
	brdsfeature "github.com/dalemusser/brdhub/internal/app/features/brds"
	healthfeature "github.com/dalemusser/brdhub/internal/app/features/health"
	assignmentstore "github.com/dalemusser/brdhub/internal/app/store/assignments"
	brdstore "github.com/dalemusser/brdhub/internal/app/store/brds"
	userstore "github.com/dalemusser/brdhub/internal/app/store/users"
	"github.com/dalemusser/brdhub/internal/app/system/assignengine"
	"github.com/dalemusser/brdhub/internal/app/system/mailer"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// BRD Hub wires the stores, the mail gateway, and the assignment engine,
// then mounts the JSON feature routers: health, BRD intake, and the
// assignment surface.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.BrdHubMongoDatabase

	assignments := assignmentstore.New(db)
	brds := brdstore.New(db)
	users := userstore.New(db)

	mail := mailer.New(mailer.Config{
		Host:     appCfg.MailSMTPHost,
		Port:     appCfg.MailSMTPPort,
		User:     appCfg.MailSMTPUser,
		Pass:     appCfg.MailSMTPPass,
		From:     appCfg.MailFrom,
		FromName: appCfg.MailFromName,
	}, logger)

	engine := assignengine.New(assignments, brds, brds, mail, users, logger, assignengine.Config{
		Timeout:       appCfg.AssignTimeout,
		MaxAttempts:   appCfg.AssignMaxAttempts,
		BackoffBase:   appCfg.AssignBackoffBase,
		BackoffCap:    appCfg.AssignBackoffCap,
		WelcomeStatus: appCfg.AssignWelcomeState,
	})

	r := chi.NewRouter()

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.BrdHubMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// BRD intake and per-BRD assignment operations share the /brds subtree.
	brdsHandler := brdsfeature.NewHandler(brds, logger)
	assignHandler := assignmentsfeature.NewHandler(engine, logger)

	brdRouter := chi.NewRouter()
	brdsfeature.Register(brdRouter, brdsHandler)
	assignmentsfeature.RegisterBrdRoutes(brdRouter, assignHandler)
	r.Mount("/brds", brdRouter)

	// Cross-BRD assignment surface: batch reassignment and queries.
	r.Mount("/assignments", assignmentsfeature.Routes(assignHandler))

	return r, nil
}
