// internal/pkg/receipt/service.go
package receipt

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/grocery-storefront/internal/config"
	"github.com/your-org/grocery-storefront/internal/domain/order"
)

// Service renders order receipts
type Service struct {
	config *config.Config
	now    func() time.Time
	tmpl   *template.Template
}

// NewService creates a new receipt service
func NewService(cfg *config.Config) *Service {
	funcs := template.FuncMap{
		"money": func(v float64) string {
			return fmt.Sprintf("%s %.2f", cfg.Checkout.Currency, v)
		},
		"date": func(t time.Time) string {
			if t.IsZero() {
				return "-"
			}
			return t.Format("January 2, 2006 15:04")
		},
	}

	return &Service{
		config: cfg,
		now:    time.Now,
		tmpl:   template.Must(template.New("receipt").Funcs(funcs).Parse(receiptTemplate)),
	}
}

// Data represents the data passed to the receipt template
type Data struct {
	ReceiptNumber string
	IssuedAt      string
	Order         *order.Order
	Company       CompanyInfo
}

// CompanyInfo represents company information
type CompanyInfo struct {
	Name    string
	Address string
	Phone   string
	Email   string
}

// HTML renders the receipt as an HTML document
func (s *Service) HTML(o *order.Order) ([]byte, error) {
	data := Data{
		ReceiptNumber: "RCPT-" + o.DisplayNumber(),
		IssuedAt:      s.now().Format("January 2, 2006"),
		Order:         o,
		Company: CompanyInfo{
			Name:    s.config.Receipt.CompanyName,
			Address: s.config.Receipt.CompanyAddress,
			Phone:   s.config.Receipt.CompanyPhone,
			Email:   s.config.Receipt.CompanyEmail,
		},
	}

	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.Bytes(), nil
}

// PDF renders the receipt as a PDF. It needs the wkhtmltopdf binary on PATH.
func (s *Service) PDF(o *order.Order) (*bytes.Buffer, error) {
	htmlContent, err := s.HTML(o)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.PageSize.Set(wkhtmltopdf.PageSizeA4)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader(htmlContent))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

const receiptTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Receipt {{.ReceiptNumber}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 0; padding: 20px; color: #333; }
        .header { border-bottom: 2px solid #eee; padding-bottom: 12px; margin-bottom: 20px; }
        .title { font-size: 22px; font-weight: bold; color: #15803d; }
        .section-title { font-size: 14px; font-weight: bold; margin: 16px 0 6px; }
        table.items { width: 100%; border-collapse: collapse; }
        table.items th, table.items td { border: 1px solid #ddd; padding: 6px; text-align: left; }
        table.items .num { text-align: right; }
        .totals td { padding: 4px 8px; }
        .totals .grand { font-weight: bold; border-top: 2px solid #333; }
        .footer { margin-top: 30px; font-size: 11px; color: #666; text-align: center; }
    </style>
</head>
<body>
    <div class="header">
        <div class="title">{{.Company.Name}}</div>
        {{with .Company.Address}}<div>{{.}}</div>{{end}}
        {{with .Company.Phone}}<div>Phone: {{.}}</div>{{end}}
        {{with .Company.Email}}<div>Email: {{.}}</div>{{end}}
    </div>

    <div>Receipt: <strong>{{.ReceiptNumber}}</strong></div>
    <div>Order: {{.Order.DisplayNumber}}</div>
    <div>Placed: {{date .Order.CreatedAt}}</div>
    <div>Status: {{.Order.Status}}</div>
    <div>Payment: {{.Order.PaymentMethod}}{{with .Order.PaymentRef}} ({{.}}){{end}}</div>
    <div>Issued: {{.IssuedAt}}</div>

    <div class="section-title">Deliver to</div>
    <div>{{.Order.Address.String}}</div>
    <div>Phone: {{.Order.Address.Phone}}</div>

    <div class="section-title">Items</div>
    <table class="items">
        <tr><th>Item</th><th>Pack</th><th class="num">Qty</th><th class="num">Price</th><th class="num">Total</th></tr>
        {{range .Order.Items}}
        <tr><td>{{.Name}}</td><td>{{.VariantLabel}}</td><td class="num">{{.Quantity}}</td><td class="num">{{money .Price}}</td><td class="num">{{money .LineTotal}}</td></tr>
        {{end}}
    </table>

    <table class="totals">
        <tr><td>Subtotal</td><td class="num">{{money .Order.Subtotal}}</td></tr>
        <tr><td>Delivery</td><td class="num">{{if .Order.DeliveryFee}}{{money .Order.DeliveryFee}}{{else}}Free{{end}}</td></tr>
        <tr class="grand"><td>Total</td><td class="num">{{money .Order.Total}}</td></tr>
    </table>

    {{with .Order.Notes}}<div class="section-title">Notes</div><div>{{.}}</div>{{end}}

    <div class="footer">Thank you for shopping with {{.Company.Name}}.</div>
</body>
</html>
`
