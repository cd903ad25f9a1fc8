package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/riskdesk/riskdesk/modules/risks/domain/entities/riskimport"
	"github.com/riskdesk/riskdesk/modules/risks/presentation/controllers/dtos"
	"github.com/riskdesk/riskdesk/modules/risks/services"
	"github.com/riskdesk/riskdesk/pkg/application"
	"github.com/riskdesk/riskdesk/pkg/composables"
	"github.com/riskdesk/riskdesk/pkg/configuration"
	"github.com/riskdesk/riskdesk/pkg/middleware"
	"github.com/riskdesk/riskdesk/pkg/serrors"
)

// ImportAPIController exposes the bulk risk import pipeline. Every step is
// stateless between requests: the client carries decoded rows, mapping
// results and duplicate findings from one call to the next and nothing is
// persisted until the run step.
type ImportAPIController struct {
	app         application.Application
	decoder     *services.DecodeService
	mapper      *services.MappingService
	duplicates  *services.DuplicateService
	importer    *services.ImportService
	templates   *services.TemplateService
	basePath    string
	maxFileSize int64
	defaultType riskimport.RiskType
}

func NewImportAPIController(app application.Application, conf *configuration.Configuration) application.Controller {
	return &ImportAPIController{
		app:         app,
		decoder:     app.Service(services.DecodeService{}).(*services.DecodeService),
		mapper:      app.Service(services.MappingService{}).(*services.MappingService),
		duplicates:  app.Service(services.DuplicateService{}).(*services.DuplicateService),
		importer:    app.Service(services.ImportService{}).(*services.ImportService),
		templates:   app.Service(services.TemplateService{}).(*services.TemplateService),
		basePath:    "/api/v1/risks/import",
		maxFileSize: conf.RiskImport.MaxFileSize,
		defaultType: riskimport.ParseRiskType(conf.RiskImport.DefaultRiskType),
	}
}

// riskType resolves the requested type, falling back to the configured
// default when the client sends none.
func (c *ImportAPIController) riskType(requested string) riskimport.RiskType {
	if requested == "" {
		return c.defaultType
	}
	return riskimport.ParseRiskType(requested)
}

func (c *ImportAPIController) Key() string {
	return c.basePath
}

func (c *ImportAPIController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.RequireTenant())
	router.HandleFunc("/schema", c.Schema).Methods(http.MethodGet)
	router.HandleFunc("/template", c.Template).Methods(http.MethodGet)
	router.HandleFunc("/decode", c.Decode).Methods(http.MethodPost)
	router.HandleFunc("/validate", c.Validate).Methods(http.MethodPost)

	// The duplicate check reads existing records inside a request-scoped
	// transaction. The run step is absent here on purpose: the import
	// service opens and commits its own tenant transaction.
	dbRouter := r.PathPrefix(c.basePath).Subrouter()
	dbRouter.Use(middleware.RequireTenant())
	dbRouter.Use(middleware.WithTransaction())
	dbRouter.HandleFunc("/duplicates", c.Duplicates).Methods(http.MethodPost)

	runRouter := r.PathPrefix(c.basePath).Subrouter()
	runRouter.Use(middleware.RequireTenant())
	runRouter.HandleFunc("/run", c.Run).Methods(http.MethodPost)
}

func (c *ImportAPIController) Schema(w http.ResponseWriter, r *http.Request) {
	riskType := c.riskType(r.URL.Query().Get("riskType"))
	writeJSON(w, http.StatusOK, map[string]any{
		"riskType": riskType,
		"fields":   c.templates.Fields(riskType),
	})
}

func (c *ImportAPIController) Template(w http.ResponseWriter, r *http.Request) {
	riskType := c.riskType(r.URL.Query().Get("riskType"))
	tmpl, err := c.templates.Render(riskType, r.URL.Query().Get("format"))
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", tmpl.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", tmpl.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(tmpl.Data)
}

func (c *ImportAPIController) Decode(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, c.maxFileSize+1)
	if err := r.ParseMultipartForm(c.maxFileSize); err != nil {
		writeAPIError(w, http.StatusRequestEntityTooLarge, "IMPORT_FILE_TOO_LARGE", "file exceeds the maximum allowed size")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, "IMPORT_FILE_MISSING", "multipart field 'file' is required")
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, "IMPORT_FILE_UNREADABLE", "failed to read uploaded file")
		return
	}

	result, err := c.decoder.Decode(header.Filename, data)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (c *ImportAPIController) Validate(w http.ResponseWriter, r *http.Request) {
	var dto dtos.ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeAPIError(w, http.StatusBadRequest, "IMPORT_INVALID_JSON", "invalid json")
		return
	}
	if errs, ok := dto.Ok(); !ok {
		writeAPIError(w, http.StatusUnprocessableEntity, "IMPORT_VALIDATION_FAILED", "validation failed", errs)
		return
	}

	result := c.mapper.Map(c.riskType(dto.RiskType), dto.Mapping, dto.Rows)
	writeJSON(w, http.StatusOK, result)
}

func (c *ImportAPIController) Duplicates(w http.ResponseWriter, r *http.Request) {
	var dto dtos.DuplicatesRequest
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeAPIError(w, http.StatusBadRequest, "IMPORT_INVALID_JSON", "invalid json")
		return
	}
	if errs, ok := dto.Ok(); !ok {
		writeAPIError(w, http.StatusUnprocessableEntity, "IMPORT_VALIDATION_FAILED", "validation failed", errs)
		return
	}

	result, err := c.duplicates.Check(r.Context(), c.riskType(dto.RiskType), dto.Rows, dto.VendorID)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (c *ImportAPIController) Run(w http.ResponseWriter, r *http.Request) {
	var dto dtos.RunRequest
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeAPIError(w, http.StatusBadRequest, "IMPORT_INVALID_JSON", "invalid json")
		return
	}
	if errs, ok := dto.Ok(); !ok {
		writeAPIError(w, http.StatusUnprocessableEntity, "IMPORT_VALIDATION_FAILED", "validation failed", errs)
		return
	}

	cmd := dto.ToCommand()
	cmd.RiskType = c.riskType(dto.RiskType)
	result, err := c.importer.Import(r.Context(), cmd)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}

	fields := logrus.Fields{
		"riskType": cmd.RiskType,
		"total":    result.Summary.Total,
		"success":  result.Summary.Success,
		"errors":   result.Summary.Errors,
	}
	if ip, ok := composables.UseIP(r.Context()); ok {
		fields["ip"] = ip
	}
	if ua, ok := composables.UseUserAgent(r.Context()); ok {
		fields["user-agent"] = ua
	}
	composables.UseLogger(r.Context()).WithFields(fields).Info("risk import completed")

	writeJSON(w, http.StatusOK, result)
}

func (c *ImportAPIController) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var coded *serrors.Error
	if errors.As(err, &coded) {
		status := http.StatusBadRequest
		if coded.Code == "IMPORT_FILE_TOO_LARGE" {
			status = http.StatusRequestEntityTooLarge
		}
		writeAPIError(w, status, coded.Code, coded.Message)
		return
	}
	if errors.Is(err, composables.ErrNoTenant) {
		writeAPIError(w, http.StatusUnauthorized, "TENANT_REQUIRED", "tenant context required")
		return
	}
	composables.UseLogger(r.Context()).WithError(err).Error("risk import request failed")
	writeAPIError(w, http.StatusInternalServerError, "IMPORT_INTERNAL", "internal error")
}
