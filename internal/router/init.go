package router

import (
	"strings"

	"github.com/oksasatya/doki-web/internal/application"
	"github.com/oksasatya/doki-web/internal/container"
	"github.com/oksasatya/doki-web/internal/infrastructure/redisstore"
	handlers "github.com/oksasatya/doki-web/internal/interface/http"
	"github.com/oksasatya/doki-web/internal/router/modules"
	"github.com/oksasatya/doki-web/pkg/validation"
)

type AuthModuleDeps struct {
	Service *application.AuthService
	Handler *handlers.AuthHandler
}

func buildAuthDeps() AuthModuleDeps {
	cfg := container.GetConfig()
	service := application.NewAuthService(
		container.GetBackend(),
		container.GetSessions(),
		container.GetLogger(),
		cfg.LoginRedirectURL(),
	)
	handler := handlers.NewAuthHandler(service, container.GetLogger(), cfg.AppHomeURL, cfg.AppLoginURL)
	return AuthModuleDeps{Service: service, Handler: handler}
}

type SurveyModuleDeps struct {
	Repo    *redisstore.DraftRepository
	Service *application.WizardService
	Handler *handlers.SurveyHandler
}

func buildSurveyDeps() SurveyModuleDeps {
	repo := redisstore.NewDraftRepository(container.GetRedis(), container.GetConfig().DraftTTL)
	service := application.NewWizardService(repo, container.GetBackend(), container.GetLogger())
	return SurveyModuleDeps{Repo: repo, Service: service, Handler: handlers.NewSurveyHandler(service, container.GetLogger())}
}

func buildCatalogHandler() *handlers.CatalogHandler {
	cfg := container.GetConfig()
	service := application.NewCatalogService(container.GetBackend(), container.GetES(), cfg.ESPackagesIndex, container.GetLogger())
	return handlers.NewCatalogHandler(service, container.GetLogger())
}

func buildPublicConfig() handlers.PublicConfig {
	cfg := container.GetConfig()
	return handlers.PublicConfig{
		MapsAPIKey: cfg.MapsAPIKey,
		LoginURL:   cfg.LoginRedirectURL(),
		Languages:  strings.Fields(validation.Languages),
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	logger := container.GetLogger()

	r.Add(modules.NewAuthModule(buildAuthDeps().Handler))
	r.Add(modules.NewSurveyModule(buildSurveyDeps().Handler))
	r.Add(modules.NewCatalogModule(buildCatalogHandler()))
	r.Add(modules.NewBookingModule(handlers.NewBookingHandler(application.NewBookingService(container.GetBackend()), logger)))
	r.Add(modules.NewProfileModule(handlers.NewProfileHandler(
		application.NewProfileService(container.GetBackend(), container.GetUploader(), logger), logger)))
	r.Add(modules.NewPreferenceModule(handlers.NewPreferenceHandler(
		application.NewPreferenceService(redisstore.NewPreferenceRepository(container.GetRedis())), logger)))
	r.Add(modules.NewConfigModule(handlers.NewConfigHandler(buildPublicConfig())))
	if container.GetConfig().DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
