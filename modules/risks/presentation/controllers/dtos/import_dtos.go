package dtos

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/riskdesk/riskdesk/modules/risks/domain/entities/riskimport"
	"github.com/riskdesk/riskdesk/modules/risks/services"
	"github.com/riskdesk/riskdesk/pkg/constants"
)

// LinkTargetDTO optionally ties created records to a project, framework or
// vendor.
type LinkTargetDTO struct {
	Type string    `json:"type" validate:"required,oneof=project framework vendor"`
	ID   uuid.UUID `json:"id" validate:"required"`
}

func (d *LinkTargetDTO) ToDomain() *riskimport.LinkTarget {
	if d == nil {
		return nil
	}
	return &riskimport.LinkTarget{Type: riskimport.LinkType(d.Type), ID: d.ID}
}

type ValidateRequest struct {
	RiskType string                 `json:"riskType" validate:"omitempty,oneof=project vendor"`
	Mapping  map[string]string      `json:"mapping" validate:"required,min=1"`
	Rows     []riskimport.ParsedRow `json:"rows" validate:"required,min=1"`
}

func (d *ValidateRequest) Ok() (map[string]string, bool) {
	return validateStruct(d)
}

type DuplicatesRequest struct {
	RiskType string                 `json:"riskType" validate:"omitempty,oneof=project vendor"`
	Rows     []riskimport.MappedRow `json:"rows" validate:"required,min=1"`
	VendorID *uuid.UUID             `json:"vendorId,omitempty"`
}

func (d *DuplicatesRequest) Ok() (map[string]string, bool) {
	return validateStruct(d)
}

type RunRequest struct {
	RiskType string                 `json:"riskType" validate:"omitempty,oneof=project vendor"`
	Rows     []riskimport.MappedRow `json:"rows" validate:"required,min=1"`
	Actions  map[int]string         `json:"actions"`
	Link     *LinkTargetDTO         `json:"link,omitempty"`
}

func (d *RunRequest) Ok() (map[string]string, bool) {
	return validateStruct(d)
}

func (d *RunRequest) ToCommand() services.ImportCommand {
	actions := make(map[int]riskimport.Action, len(d.Actions))
	for rowIndex, action := range d.Actions {
		actions[rowIndex] = riskimport.ParseAction(action)
	}
	return services.ImportCommand{
		RiskType: riskimport.ParseRiskType(d.RiskType),
		Rows:     d.Rows,
		Actions:  actions,
		Link:     d.Link.ToDomain(),
	}
}

func validateStruct(v any) (map[string]string, bool) {
	errorMessages := map[string]string{}
	errs := constants.Validate.Struct(v)
	if errs == nil {
		return errorMessages, true
	}
	for _, err := range errs.(validator.ValidationErrors) {
		errorMessages[err.Field()] = fmt.Sprintf("%s failed on %s", err.Field(), err.Tag())
	}
	return errorMessages, len(errorMessages) == 0
}
