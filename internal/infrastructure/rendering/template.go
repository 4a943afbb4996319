package rendering

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	appsettlement "github.com/tenancy/backend/internal/application/settlement"
)

// reportTemplate lays out the settlement report document: header with the
// tenancy references, one row per comparison item with the side-by-side
// evidence, and the signature block.
const reportTemplate = `
<style>
  body { font-family: "Helvetica Neue", Arial, sans-serif; font-size: 11px; color: #1a1a1a; }
  h1 { font-size: 18px; margin-bottom: 2px; }
  .meta { color: #555; margin-bottom: 14px; }
  table { width: 100%; border-collapse: collapse; margin-bottom: 16px; }
  th, td { border: 1px solid #ccc; padding: 5px 7px; text-align: left; vertical-align: top; }
  th { background: #f2f2f2; }
  .num { text-align: right; white-space: nowrap; }
  .status { text-transform: uppercase; letter-spacing: 0.5px; }
  .total-row td { font-weight: bold; background: #fafafa; }
  .signatures { margin-top: 24px; width: 100%; }
  .signatures td { border: none; padding: 4px 0; }
  .sig-label { color: #555; width: 160px; }
</style>

<h1>End of Tenancy Settlement Report</h1>
<div class="meta">
  Report {{ .Report.ID }} &middot; status <span class="status">{{ .Report.Status }}</span><br>
  Property {{ .Report.PropertyID }} &middot; Tenant {{ .Report.TenantID }}<br>
  Check-in {{ .Report.CheckInID }} &middot; Check-out {{ .Report.CheckOutID }}<br>
  Generated {{ formatDateTime .GeneratedAt }}
</div>

<table>
  <tr>
    <th>Section</th>
    <th>Field</th>
    <th>Check-in note</th>
    <th>Check-out note</th>
    <th>Liability</th>
    <th>Status</th>
    <th class="num">Estimated</th>
    <th class="num">Depreciation</th>
    <th class="num">Final</th>
  </tr>
  {{ range .Report.Items }}
  <tr>
    <td>{{ .SectionRef }}{{ if .ItemRef }} / {{ .ItemRef }}{{ end }}</td>
    <td>{{ .FieldKey }}</td>
    <td>{{ .Comparison.CheckInNote }}</td>
    <td>{{ .Comparison.CheckOutNote }}{{ if .Comparison.DamageNote }}<br><em>{{ .Comparison.DamageNote }}</em>{{ end }}</td>
    <td>{{ .Liability }}</td>
    <td>{{ .Status }}</td>
    <td class="num">{{ .EstimatedCost }}</td>
    <td class="num">{{ .Depreciation }}</td>
    <td class="num">{{ .FinalCost }}{{ if .FinalCostOverridden }}*{{ end }}</td>
  </tr>
  {{ end }}
  <tr class="total-row">
    <td colspan="8">Total</td>
    <td class="num">{{ .Report.TotalEstimatedCost }}</td>
  </tr>
</table>

<table class="signatures">
  <tr>
    <td class="sig-label">Operator signature</td>
    <td>{{ if .Report.OperatorSignature }}{{ .Report.OperatorSignature }} ({{ formatDateTime .Report.OperatorSignedAt }}){{ else }}&mdash;{{ end }}</td>
  </tr>
  <tr>
    <td class="sig-label">Tenant signature</td>
    <td>{{ if .Report.TenantSignature }}{{ .Report.TenantSignature }} ({{ formatDateTime .Report.TenantSignedAt }}){{ else }}&mdash;{{ end }}</td>
  </tr>
</table>
`

var reportTmpl = template.Must(template.New("settlement_report").Funcs(template.FuncMap{
	"formatDateTime": formatDateTime,
}).Parse(reportTemplate))

// BuildReportHTML renders the snapshot into the report document body
func BuildReportHTML(snapshot *appsettlement.ReportSnapshot) (string, error) {
	if snapshot == nil {
		return "", NewRenderError(ErrCodeInvalidHTML, "snapshot is nil", nil)
	}

	var buf bytes.Buffer
	if err := reportTmpl.Execute(&buf, snapshot); err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, "template execution failed", err)
	}
	return buf.String(), nil
}

// formatDateTime renders a timestamp for the document; accepts both
// time.Time and *time.Time since signature timestamps are optional
func formatDateTime(v interface{}) string {
	switch t := v.(type) {
	case time.Time:
		return t.Format("2 Jan 2006 15:04")
	case *time.Time:
		if t == nil {
			return ""
		}
		return t.Format("2 Jan 2006 15:04")
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	}
}
