package pdf

import (
	"context"
	"io"
)

// Provider renders printable billing statements for treasury counters.
type Provider interface {
	GenerateStatement(ctx context.Context, data StatementData) (io.Reader, error)
}

type StatementData struct {
	OfficeName    string
	OfficeContact string
	MeterReader   string

	ClientCode  string
	ClientName  string
	Barangay    string
	MeterNumber string

	Period          string
	PreviousReading string
	CurrentReading  string
	Consumption     string
	Minimum         string
	PerCubic        string
	Discount        string
	LessAmount      string

	CurrentBilling   string
	PaidAmount       string
	RemainingBalance string
}
