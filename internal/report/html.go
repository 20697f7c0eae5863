package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"os"

	"finfeed/internal/aggregate"
	"finfeed/pkg/errors"
	"finfeed/pkg/logger"

	"github.com/shopspring/decimal"
)

//go:embed templates/dashboard.html.tmpl
var templateFS embed.FS

var dashboardTmpl = template.Must(template.ParseFS(templateFS, "templates/dashboard.html.tmpl"))

// overridesKeyPrefix namespaces the localStorage override maps. Card and
// checking overrides must never share a key: both are sparse maps over
// positional indices, and a collision would cross-contaminate the domains.
const overridesKeyPrefix = "finfeed_overrides"

// OverridesKey returns the localStorage key for one domain and year
func OverridesKey(domain string, year int) string {
	return fmt.Sprintf("%s_%s_%d", overridesKeyPrefix, domain, year)
}

// dashboardData is the template context for the dashboard page
type dashboardData struct {
	Title        string
	Year         int
	BudgetLabel  string
	OverridesKey string
	Payload      template.JS
}

// RenderDashboard writes the static dashboard page for a card payload.
// The payload is embedded verbatim as the page's dataset; the page script
// re-runs the aggregations client-side after each override edit.
func RenderDashboard(w io.Writer, payload *CardPayload, title string) error {
	payloadJSON, err := marshalPayload(payload)
	if err != nil {
		return err
	}

	data := dashboardData{
		Title:        title,
		Year:         payload.Year,
		BudgetLabel:  aggregate.FormatBRL(decimal.NewFromFloat(payload.BudgetMonthly)),
		OverridesKey: OverridesKey("card", payload.Year),
		Payload:      template.JS(payloadJSON),
	}

	if err := dashboardTmpl.Execute(w, data); err != nil {
		return errors.InternalError("render_dashboard", err)
	}
	return nil
}

// WriteDashboardFile renders the dashboard page to the given path
func WriteDashboardFile(path string, payload *CardPayload, title string) error {
	log := logger.GetGlobalLogger().WithComponent("report")

	var buf bytes.Buffer
	if err := RenderDashboard(&buf, payload, title); err != nil {
		return err
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errors.FileError(errors.CodeFileWrite, path, err)
	}

	log.WithFields(logger.Fields{
		"path":     path,
		"expenses": payload.Count,
		"bytes":    buf.Len(),
	}).Info("Dashboard written")

	return nil
}

func marshalPayload(payload *CardPayload) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, payload); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
