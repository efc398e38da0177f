package email

import (
	"bytes"
	"fmt"
	"html/template"
)

// ReminderData feeds the payment reminder template.
type ReminderData struct {
	InvoiceNumber string
	ClientName    string
	Total         string
	DueDate       string
	BusinessName  string
	Overdue       bool
}

// InvoiceData feeds the new-invoice template.
type InvoiceData struct {
	InvoiceNumber string
	ClientName    string
	Total         string
	DueDate       string
	BusinessName  string
}

var reminderTmpl = template.Must(template.New("payment_reminder").Parse(`<!DOCTYPE html>
<html>
<body style="font-family:sans-serif;color:#333;">
  <div style="max-width:600px;margin:0 auto;">
    <h2>{{if .Overdue}}Invoice Overdue{{else}}Payment Reminder{{end}}</h2>
    <p>Hi {{.ClientName}},</p>
    {{if .Overdue}}
    <p>Invoice <strong>{{.InvoiceNumber}}</strong> was due on {{.DueDate}} and is now overdue.</p>
    {{else}}
    <p>This is a friendly reminder that invoice <strong>{{.InvoiceNumber}}</strong> is due on {{.DueDate}}.</p>
    {{end}}
    <table style="margin:20px 0;">
      <tr><td style="color:#666;padding-right:12px;">Invoice</td><td><strong>{{.InvoiceNumber}}</strong></td></tr>
      <tr><td style="color:#666;padding-right:12px;">Amount due</td><td><strong>{{.Total}}</strong></td></tr>
      <tr><td style="color:#666;padding-right:12px;">Due date</td><td>{{.DueDate}}</td></tr>
    </table>
    <p>Thank you,<br>{{.BusinessName}}</p>
  </div>
</body>
</html>`))

var invoiceTmpl = template.Must(template.New("invoice_new").Parse(`<!DOCTYPE html>
<html>
<body style="font-family:sans-serif;color:#333;">
  <div style="max-width:600px;margin:0 auto;">
    <h2>New Invoice {{.InvoiceNumber}}</h2>
    <p>Hi {{.ClientName}},</p>
    <p>You have a new invoice from {{.BusinessName}}.</p>
    <table style="margin:20px 0;">
      <tr><td style="color:#666;padding-right:12px;">Invoice</td><td><strong>{{.InvoiceNumber}}</strong></td></tr>
      <tr><td style="color:#666;padding-right:12px;">Total</td><td><strong>{{.Total}}</strong></td></tr>
      <tr><td style="color:#666;padding-right:12px;">Due date</td><td>{{.DueDate}}</td></tr>
    </table>
    <p>Thank you,<br>{{.BusinessName}}</p>
  </div>
</body>
</html>`))

// BuildPaymentReminder renders the reminder subject and body.
func BuildPaymentReminder(data ReminderData) (subject, body string, err error) {
	if data.Overdue {
		subject = fmt.Sprintf("Invoice %s is overdue", data.InvoiceNumber)
	} else {
		subject = fmt.Sprintf("Payment reminder: invoice %s", data.InvoiceNumber)
	}

	var buf bytes.Buffer
	if err := reminderTmpl.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("render reminder template: %w", err)
	}
	return subject, buf.String(), nil
}

// BuildInvoiceEmail renders the new-invoice subject and body.
func BuildInvoiceEmail(data InvoiceData) (subject, body string, err error) {
	subject = fmt.Sprintf("Invoice %s from %s", data.InvoiceNumber, data.BusinessName)

	var buf bytes.Buffer
	if err := invoiceTmpl.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("render invoice template: %w", err)
	}
	return subject, buf.String(), nil
}
