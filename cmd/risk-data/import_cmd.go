package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/riskdesk/riskdesk/modules/risks/domain/entities/riskimport"
	"github.com/riskdesk/riskdesk/modules/risks/infrastructure/persistence"
	"github.com/riskdesk/riskdesk/modules/risks/services"
	"github.com/riskdesk/riskdesk/pkg/composables"
	"github.com/riskdesk/riskdesk/pkg/configuration"
	"github.com/riskdesk/riskdesk/pkg/eventbus"
	"github.com/riskdesk/riskdesk/pkg/logging"
)

type importOutput struct {
	Command    string `json:"command"`
	DryRun     bool   `json:"dry_run"`
	DurationMS int64  `json:"duration_ms"`
	Validation any    `json:"validation"`
	Duplicates any    `json:"duplicates,omitempty"`
	Result     any    `json:"result,omitempty"`
}

func newImportCmd() *cobra.Command {
	var (
		tenantID string
		file     string
		riskType string
		link     string
		action   string
		apply    bool
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Validate and import a risk spreadsheet for a tenant",
		RunE: func(cmd *cobra.Command, args []string) error {
			tid, err := uuid.Parse(tenantID)
			if err != nil {
				return fmt.Errorf("invalid --tenant: %w", err)
			}
			linkTarget, err := parseLink(link)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(file)
			if err != nil {
				return err
			}

			conf := configuration.Use()
			if riskType == "" {
				riskType = conf.RiskImport.DefaultRiskType
			}
			rt := riskimport.ParseRiskType(riskType)

			decoded, err := services.NewDecodeService(conf).Decode(file, data)
			if err != nil {
				return err
			}
			mapping := autoMapping(rt, decoded.Headers)
			if len(mapping) == 0 {
				return fmt.Errorf("no column matched a known field; expected labels like %q", firstLabel(rt))
			}
			validated := services.NewMappingService(conf).Map(rt, mapping, decoded.Rows)

			out := importOutput{
				Command:    "risk import",
				DryRun:     !apply,
				Validation: validated.Summary,
			}
			start := time.Now()

			pool, err := connectDB(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			ctx := composables.WithTenantID(composables.WithPool(cmd.Context(), pool), tid)
			repo := persistence.NewRiskRepository()

			duplicates, err := services.NewDuplicateService(repo).Check(ctx, rt, validated.Rows, vendorIDOf(linkTarget))
			if err != nil {
				return err
			}
			out.Duplicates = duplicates.Summary

			if apply {
				actions := make(map[int]riskimport.Action, len(duplicates.Rows))
				for _, d := range duplicates.Rows {
					if d.IsDuplicate {
						actions[d.RowIndex] = riskimport.ParseAction(action)
					}
				}
				importer := services.NewImportService(repo, eventbus.NewEventPublisher(logging.ConsoleLogger(conf.LogrusLogLevel())), conf)
				result, err := importer.Import(ctx, services.ImportCommand{
					RiskType: rt,
					Rows:     validated.Rows,
					Actions:  actions,
					Link:     linkTarget,
				})
				if err != nil {
					return err
				}
				out.Result = result
			}

			out.DurationMS = time.Since(start).Milliseconds()
			return writeJSON(out)
		},
	}

	cmd.Flags().StringVar(&tenantID, "tenant", "", "Tenant UUID (required)")
	cmd.Flags().StringVar(&file, "file", "", "Path to a .csv or .xlsx file (required)")
	cmd.Flags().StringVar(&riskType, "type", "", "Risk type (project|vendor, default RISK_IMPORT_DEFAULT_TYPE)")
	cmd.Flags().StringVar(&link, "link", "", "Link target as type:uuid (project|framework|vendor)")
	cmd.Flags().StringVar(&action, "action", "skip", "Action for duplicate rows (create|overwrite|skip)")
	cmd.Flags().BoolVar(&apply, "apply", false, "Apply changes (default dry-run)")
	_ = cmd.MarkFlagRequired("tenant")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// autoMapping matches spreadsheet headers to schema fields by label or field
// key, case-insensitively.
func autoMapping(rt riskimport.RiskType, headers []string) map[string]string {
	mapping := make(map[string]string, len(headers))
	for _, header := range headers {
		normalized := strings.ToLower(strings.TrimSpace(header))
		for _, def := range riskimport.Schema(rt) {
			if normalized == strings.ToLower(def.Label) || normalized == def.Field {
				mapping[header] = def.Field
				break
			}
		}
	}
	return mapping
}

func parseLink(link string) (*riskimport.LinkTarget, error) {
	if link == "" {
		return nil, nil
	}
	kind, id, ok := strings.Cut(link, ":")
	if !ok {
		return nil, fmt.Errorf("invalid --link %q (expected type:uuid)", link)
	}
	switch riskimport.LinkType(kind) {
	case riskimport.LinkProject, riskimport.LinkFramework, riskimport.LinkVendor:
	default:
		return nil, fmt.Errorf("invalid --link type %q (expected project|framework|vendor)", kind)
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid --link id: %w", err)
	}
	return &riskimport.LinkTarget{Type: riskimport.LinkType(kind), ID: parsed}, nil
}

func vendorIDOf(link *riskimport.LinkTarget) *uuid.UUID {
	if link == nil || link.Type != riskimport.LinkVendor {
		return nil
	}
	id := link.ID
	return &id
}

func firstLabel(rt riskimport.RiskType) string {
	schema := riskimport.Schema(rt)
	if len(schema) == 0 {
		return ""
	}
	return schema[0].Label
}
