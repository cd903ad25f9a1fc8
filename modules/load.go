package modules

import (
	"github.com/riskdesk/riskdesk/modules/risks"
	"github.com/riskdesk/riskdesk/pkg/application"
)

var BuiltInModules = []application.Module{
	risks.NewModule(),
}

// Load registers the given modules with the application.
func Load(app application.Application, modules ...application.Module) error {
	for _, module := range modules {
		if err := module.Register(app); err != nil {
			return err
		}
	}
	return nil
}
