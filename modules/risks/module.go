package risks

import (
	"embed"

	"github.com/riskdesk/riskdesk/modules/risks/infrastructure/persistence"
	"github.com/riskdesk/riskdesk/modules/risks/presentation/controllers"
	"github.com/riskdesk/riskdesk/modules/risks/services"
	"github.com/riskdesk/riskdesk/pkg/application"
	"github.com/riskdesk/riskdesk/pkg/configuration"
)

//go:embed infrastructure/persistence/schema/risks-schema.sql
var MigrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct {
}

func (m *Module) Register(app application.Application) error {
	conf := configuration.Use()
	riskRepo := persistence.NewRiskRepository()
	app.RegisterServices(
		services.NewDecodeService(conf),
		services.NewMappingService(conf),
		services.NewDuplicateService(riskRepo),
		services.NewImportService(riskRepo, app.EventPublisher(), conf),
		services.NewTemplateService(),
	)
	app.RegisterControllers(
		controllers.NewImportAPIController(app, conf),
	)
	app.Migrations().RegisterSchema(&MigrationFiles)
	return nil
}

func (m *Module) Name() string {
	return "risks"
}
