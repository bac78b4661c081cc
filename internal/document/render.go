// Package document formats a contract record into the downloadable
// agreement. Rendering is a pure function of the record and options.
package document

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"contractflow/internal/models/db_models"
	"contractflow/pkg/utils"
)

type Options struct {
	// BusinessName is the service provider named as the first party.
	BusinessName string
	Location     *time.Location
	GeneratedAt  time.Time
	// Status is the derived status at render time.
	Status string
}

type row struct {
	Label string
	Value string
}

type section struct {
	Title string
	Rows  []row
	Empty string
}

type page struct {
	Provider    string
	Token       string
	Status      string
	GeneratedAt string
	Package     string
	Terms       []string
	Sections    []section
	Signed      bool
	SignedAt    string
	SignedBy    string
}

var agreementTpl = template.Must(template.New("agreement").Parse(agreementHTML))

// Render returns a self-contained HTML agreement. Only fields present on c
// are printed; empty sections say so.
func Render(c *db_models.Contract, opts Options) ([]byte, error) {
	if c == nil {
		return nil, fmt.Errorf("nil contract")
	}
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	provider := opts.BusinessName
	if provider == "" {
		provider = "The Service Provider"
	}

	deposit := c.PackagePrice / 2
	money := func(v int64) string { return c.Currency + " " + utils.FormatAmount(v) }

	p := page{
		Provider:    provider,
		Token:       c.Token,
		Status:      opts.Status,
		GeneratedAt: utils.FormatDisplay(opts.GeneratedAt, loc),
		Package:     fmt.Sprintf("%s (%s)", c.PackageName, money(c.PackagePrice)),
		Terms: []string{
			fmt.Sprintf("%s will design and deliver the website described by the %s package.", provider, c.PackageName),
			fmt.Sprintf("A deposit of %s (50%% of the package price) is due before work begins.", money(deposit)),
			fmt.Sprintf("The balance of %s is due on delivery.", money(c.PackagePrice-deposit)),
			"The client supplies business content, logo and brand details, or agrees to provide them later.",
			fmt.Sprintf("This offer lapses on %s if not completed.", utils.FormatDisplay(c.ExpiresAt, loc)),
		},
		Signed:   c.AgreedToTerms,
		SignedBy: c.OwnerName,
	}
	if c.AgreedAt != nil {
		p.SignedAt = utils.FormatDisplay(*c.AgreedAt, loc)
	}

	p.Sections = append(p.Sections, section{
		Title: "Client",
		Rows: nonEmpty(
			row{"Business name", c.BusinessName},
			row{"Owner", c.OwnerName},
			row{"WhatsApp", c.WhatsappNumber},
			row{"Email", c.Email},
		),
		Empty: "Client details have not been submitted.",
	})

	setup := nonEmpty(
		row{"Brand color", c.BrandColor},
		row{"Description", c.Description},
	)
	if c.LogoURL != "" {
		setup = append(setup, row{"Logo", "Provided"})
	}
	if c.ProvideLater {
		setup = append(setup, row{"Assets", "To be provided later"})
	}
	p.Sections = append(p.Sections, section{Title: "Business setup", Rows: setup, Empty: "Business setup has not been submitted."})

	payment := nonEmpty(
		row{"Method", c.PaymentMethod},
		row{"Status", string(c.PaymentStatus)},
		row{"Transaction", c.TransactionID},
	)
	payment = append([]row{{"Deposit due", money(deposit)}}, payment...)
	if c.AmountPaid != nil {
		payment = append(payment, row{"Amount paid", money(*c.AmountPaid)})
	}
	if c.PaidAt != nil {
		payment = append(payment, row{"Paid at", utils.FormatDisplay(*c.PaidAt, loc)})
	}
	p.Sections = append(p.Sections, section{Title: "Payment", Rows: payment})

	var buf bytes.Buffer
	if err := agreementTpl.Execute(&buf, p); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func nonEmpty(rows ...row) []row {
	out := rows[:0]
	for _, r := range rows {
		if r.Value != "" {
			out = append(out, r)
		}
	}
	return out
}

const agreementHTML = `<!doctype html>
<html>
<head>
<meta charset="UTF-8">
<title>Service Agreement {{.Token}}</title>
<style>
  body { font-family: Georgia, "Times New Roman", serif; max-width: 760px; margin: 40px auto; color: #1f2937; line-height: 1.55; }
  h1 { font-size: 26px; margin-bottom: 4px; }
  h2 { font-size: 18px; border-bottom: 1px solid #d1d5db; padding-bottom: 4px; margin-top: 28px; }
  .meta { color: #6b7280; font-size: 13px; }
  table { width: 100%; border-collapse: collapse; }
  td { padding: 6px 0; vertical-align: top; }
  td.label { width: 35%; color: #4b5563; }
  .signature { margin-top: 32px; padding: 16px; border: 1px dashed #9ca3af; }
</style>
</head>
<body>
<h1>Website Service Agreement</h1>
<p class="meta">Reference {{.Token}}{{if .Status}} &middot; Status: {{.Status}}{{end}}{{if .GeneratedAt}} &middot; Generated {{.GeneratedAt}}{{end}}</p>
<p>Between <strong>{{.Provider}}</strong> and the client named below, for the <strong>{{.Package}}</strong> package.</p>

<h2>Terms</h2>
<ol>
{{range .Terms}}  <li>{{.}}</li>
{{end}}</ol>
{{range .Sections}}
<h2>{{.Title}}</h2>
{{if .Rows}}<table>
{{range .Rows}}  <tr><td class="label">{{.Label}}</td><td>{{.Value}}</td></tr>
{{end}}</table>{{else}}<p class="meta">{{.Empty}}</p>{{end}}
{{end}}
<div class="signature">
{{if .Signed}}Accepted electronically{{if .SignedBy}} by {{.SignedBy}}{{end}}{{if .SignedAt}} on {{.SignedAt}}{{end}}.{{else}}Not yet accepted by the client.{{end}}
</div>
</body>
</html>
`
