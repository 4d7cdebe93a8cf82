package invoice

import (
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/Domenick1991/slotbooking/internal/domain"
)

type Renderer interface {
	ContentType() string
	Filename(bookingID string) string
	Render(w io.Writer, booking *domain.Booking, issuedAt time.Time) error
}

type TextRenderer struct {
	currency string
	support  string
	tmpl     *template.Template
}

type invoiceView struct {
	Booking  *domain.Booking
	Status   string
	Amount   string
	IssuedAt string
	Support  string
}

const textInvoice = `SLOT BOOKING INVOICE
====================

Invoice ID:     {{.Booking.ID}}
Date:           {{.IssuedAt}}
Status:         {{.Status}}

Customer
  Name:         {{.Booking.CallerName}}
  Email:        {{.Booking.CallerEmail}}

Booking
  Specialist:   {{.Booking.SpecialistName}}
  Subject:      {{.Booking.Subject}}
  Date:         {{.Booking.Date}}
  Time:         {{.Booking.StartTime}} - {{.Booking.EndTime}}

Payment
  Amount paid:  {{.Amount}}
{{- if .Booking.PaymentID}}
  Transaction:  {{.Booking.PaymentID}}
{{- end}}

Thank you for your booking!
{{- if .Support}}
For any queries, contact {{.Support}}
{{- end}}
`

func NewTextRenderer(currency, support string) *TextRenderer {
	return &TextRenderer{
		currency: currency,
		support:  support,
		tmpl:     template.Must(template.New("invoice").Parse(textInvoice)),
	}
}

func (r *TextRenderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

func (r *TextRenderer) Filename(bookingID string) string {
	return "invoice-" + bookingID + ".txt"
}

func (r *TextRenderer) Render(w io.Writer, booking *domain.Booking, issuedAt time.Time) error {
	return r.tmpl.Execute(w, invoiceView{
		Booking:  booking,
		Status:   strings.ToUpper(string(booking.Status)),
		Amount:   FormatAmount(booking.AmountPaid, r.currency),
		IssuedAt: issuedAt.Format("2006-01-02"),
		Support:  r.support,
	})
}

// FormatAmount renders minor units as a decimal amount, e.g. 50000 INR as "500.00 INR".
func FormatAmount(minor int64, currency string) string {
	sign := ""
	if minor < 0 {
		sign, minor = "-", -minor
	}
	return fmt.Sprintf("%s%d.%02d %s", sign, minor/100, minor%100, currency)
}

var _ Renderer = (*TextRenderer)(nil)
