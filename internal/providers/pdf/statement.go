package pdf

import (
	"bytes"
	"context"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

type PDFProvider struct{}

func New() Provider {
	return &PDFProvider{}
}

func (p *PDFProvider) GenerateStatement(ctx context.Context, data StatementData) (io.Reader, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(12, data.OfficeName, props.Text{
			Size:  16,
			Style: fontstyle.Bold,
			Align: align.Center,
		}),
	)
	m.AddRow(8,
		text.NewCol(12, "Water Billing Statement", props.Text{
			Size:  11,
			Align: align.Center,
		}),
	)

	m.AddRow(24,
		col.New(6).Add(
			text.New("Account: "+data.ClientCode, props.Text{Top: 0, Size: 9}),
			text.New(data.ClientName, props.Text{Top: 5, Size: 9}),
			text.New(data.Barangay, props.Text{Top: 10, Size: 9}),
			text.New("Meter no: "+data.MeterNumber, props.Text{Top: 15, Size: 9}),
		),
		col.New(6).Add(
			text.New("Billing period: "+data.Period, props.Text{Top: 0, Size: 9}),
			text.New("Meter reader: "+data.MeterReader, props.Text{Top: 5, Size: 9}),
			text.New("Contact: "+data.OfficeContact, props.Text{Top: 10, Size: 9}),
		),
	)

	m.AddRow(8,
		text.NewCol(8, "Particulars", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(4, "Amount", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	rows := []struct {
		label string
		value string
	}{
		{"Previous reading", data.PreviousReading},
		{"Current reading", data.CurrentReading},
		{"Consumption (cu.m)", data.Consumption},
		{"Minimum charge", data.Minimum},
		{"Rate per cu.m", data.PerCubic},
		{"Discount", data.Discount},
		{"Less amount", data.LessAmount},
	}
	for _, row := range rows {
		m.AddRow(7,
			text.NewCol(8, row.label, props.Text{Size: 9}),
			text.NewCol(4, row.value, props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(9,
		text.NewCol(8, "Current billing", props.Text{Style: fontstyle.Bold, Size: 10}),
		text.NewCol(4, data.CurrentBilling, props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right}),
	)
	m.AddRow(7,
		text.NewCol(8, "Paid amount", props.Text{Size: 9}),
		text.NewCol(4, data.PaidAmount, props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(9,
		text.NewCol(8, "Remaining balance", props.Text{Style: fontstyle.Bold, Size: 10}),
		text.NewCol(4, data.RemainingBalance, props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right}),
	)

	m.AddRow(12,
		text.NewCol(12, "Please settle on or before the due date to avoid disconnection.", props.Text{
			Size: 8,
			Top:  4,
		}),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(doc.GetBytes()), nil
}
