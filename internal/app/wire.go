package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/materialhub-backend/internal/data/aggregates"
	certrepo "github.com/yungbote/materialhub-backend/internal/data/repos/certs"
	"github.com/yungbote/materialhub-backend/internal/data/repos/entities"
	learningrepo "github.com/yungbote/materialhub-backend/internal/data/repos/learning"
	materialrepo "github.com/yungbote/materialhub-backend/internal/data/repos/materials"
	"github.com/yungbote/materialhub-backend/internal/data/repos/users"
	httpapi "github.com/yungbote/materialhub-backend/internal/http"
	httpH "github.com/yungbote/materialhub-backend/internal/http/handlers"
	httpMW "github.com/yungbote/materialhub-backend/internal/http/middleware"
	"github.com/yungbote/materialhub-backend/internal/observability"
	"github.com/yungbote/materialhub-backend/internal/platform/logger"
	"github.com/yungbote/materialhub-backend/internal/registry"
	"github.com/yungbote/materialhub-backend/internal/services"
)

type Repos struct {
	Entities     entities.EntityRepo
	Users        users.UserRepo
	Participants learningrepo.ParticipantRepo
	Storefronts  learningrepo.StorefrontRepo
	Materials    materialrepo.MaterialRowRepo
	QuizElements materialrepo.QuizElementRepo
	Submissions  materialrepo.SubmissionRepo
	Assets       materialrepo.AssetRepo
	Certs        certrepo.FinalCertRepo
	CertLog      certrepo.CertLogRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Entities:     entities.NewEntityRepo(db, log),
		Users:        users.NewUserRepo(db, log),
		Participants: learningrepo.NewParticipantRepo(db, log),
		Storefronts:  learningrepo.NewStorefrontRepo(db, log),
		Materials:    materialrepo.NewMaterialRowRepo(db, log),
		QuizElements: materialrepo.NewQuizElementRepo(db, log),
		Submissions:  materialrepo.NewSubmissionRepo(db, log),
		Assets:       materialrepo.NewAssetRepo(db, log),
		Certs:        certrepo.NewFinalCertRepo(db, log),
		CertLog:      certrepo.NewCertLogRepo(db, log),
	}
}

type Services struct {
	Tx        aggregates.TxRunner
	Registry  *registry.Registry
	Auth      services.AuthService
	Perms     services.PermissionGate
	Formatter services.ResponseFormatter
	Files     services.FileService
	Certs     services.CertService
	Materials services.MaterialService
	Factory   services.EntityFactory
	Entities  services.EntityService
}

// serviceDeps are the process-level collaborators the services need.
type serviceDeps struct {
	Storage   services.AssetStorage
	Publisher services.Publisher
	Hooks     aggregates.Hooks
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, deps serviceDeps) (Services, error) {
	log.Info("Wiring services...")
	hooks := deps.Hooks
	if hooks == nil {
		hooks = aggregates.NoopHooks()
	}
	tx := aggregates.NewGormTxRunner(db)
	reg := registry.Default(log)
	perms := services.NewPermissionGate(log, r.Participants)
	formatter := services.NewResponseFormatter(log, services.StorefrontCallbacks(r.Storefronts, cfg.Storefront.Domain))

	files, err := services.NewFileService(log, r.Assets, deps.Storage, cfg.Storage.URLCacheSize)
	if err != nil {
		return Services{}, err
	}
	certs := services.NewCertService(log, services.CertServiceDeps{
		Tx:          tx,
		Hooks:       hooks,
		Certs:       r.Certs,
		CertLog:     r.CertLog,
		Submissions: r.Submissions,
		Entities:    r.Entities,
		Users:       r.Users,
		Perms:       perms,
		Formatter:   formatter,
		Notifier:    services.NewCertNotifier(log, deps.Publisher),
	})
	materials := services.NewMaterialService(log, services.MaterialServiceDeps{
		Registry:   reg,
		Entities:   r.Entities,
		Users:      r.Users,
		Converters: services.NewConverters(r.Materials, r.QuizElements, r.Submissions),
		Perms:      perms,
		Files:      files,
		Certs:      certs,
		Hooks:      hooks,
	})
	factory := services.NewEntityFactory(log, reg, r.Entities)

	return Services{
		Tx:        tx,
		Registry:  reg,
		Auth:      services.NewAuthService(log, r.Users, cfg.JWT.Secret, cfg.JWT.AccessTTL),
		Perms:     perms,
		Formatter: formatter,
		Files:     files,
		Certs:     certs,
		Materials: materials,
		Factory:   factory,
		Entities:  services.NewEntityService(log, reg, r.Entities, factory, perms, formatter, hooks),
	}, nil
}

func wireRouter(log *logger.Logger, cfg Config, s Services, metrics *observability.Metrics, health httpH.Pinger) httpapi.RouterConfig {
	log.Info("Wiring handlers...")
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return httpapi.RouterConfig{
		Log:              log,
		ServiceName:      serviceName,
		CORSOrigins:      cfg.Server.CORSOrigins,
		Metrics:          metrics,
		AuthMiddleware:   httpMW.NewAuthMiddleware(log, s.Auth),
		MaterialSections: s.Registry.MaterialSections(),
		MaterialHandler:  httpH.NewMaterialHandler(log, s.Tx, s.Registry, s.Materials),
		EntityHandler:    httpH.NewEntityHandler(log, s.Tx, s.Registry, s.Entities),
		CertHandler:      httpH.NewCertHandler(log, s.Certs),
		FileHandler:      httpH.NewFileHandler(log, s.Tx, s.Files),
		HealthHandler:    httpH.NewHealthHandler(health),
	}
}
