// Package domain contains the client account model and its enums.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Classification is the billing tier of a client account.
type Classification string

const (
	ClassificationResidential   Classification = "residential"
	ClassificationCommercial    Classification = "commercial"
	ClassificationInstitutional Classification = "institutional"
	ClassificationIndustrial    Classification = "industrial"
)

// Classifications lists every valid classification in rate-table order.
var Classifications = []Classification{
	ClassificationResidential,
	ClassificationCommercial,
	ClassificationInstitutional,
	ClassificationIndustrial,
}

// ClassificationFromLegacy maps the numeric codes used by older intake forms
// onto the canonical classification. The legacy data is inconsistent about
// whether residential is 0 or 1, so both map to residential, and anything
// unrecognized falls back to residential as well.
func ClassificationFromLegacy(code int) Classification {
	switch code {
	case 0, 1:
		return ClassificationResidential
	case 2:
		return ClassificationCommercial
	case 3:
		return ClassificationInstitutional
	case 4:
		return ClassificationIndustrial
	default:
		return ClassificationResidential
	}
}

// ParseClassification accepts a canonical classification name.
func ParseClassification(value string) (Classification, bool) {
	switch Classification(value) {
	case ClassificationResidential, ClassificationCommercial,
		ClassificationInstitutional, ClassificationIndustrial:
		return Classification(value), true
	default:
		return "", false
	}
}

// Status is the lifecycle state of a client account. Accounts are never hard
// deleted; disconnection is a status transition.
type Status string

const (
	StatusDisconnected     Status = "disconnected"
	StatusOnProcess        Status = "on_process"
	StatusForAssessment    Status = "for_assessment"
	StatusActive           Status = "active"
	StatusTempDisconnected Status = "temp_disconnected"
)

// ParseStatus accepts a canonical status name.
func ParseStatus(value string) (Status, bool) {
	switch Status(value) {
	case StatusDisconnected, StatusOnProcess, StatusForAssessment,
		StatusActive, StatusTempDisconnected:
		return Status(value), true
	default:
		return "", false
	}
}

// Client is a water service account.
type Client struct {
	ID             snowflake.ID   `json:"id" gorm:"primaryKey"`
	Code           string         `json:"code" gorm:"type:text;not null;uniqueIndex:ux_clients_code"`
	FirstName      string         `json:"first_name" gorm:"type:text;not null"`
	LastName       string         `json:"last_name" gorm:"type:text;not null"`
	Classification Classification `json:"classification" gorm:"type:text;not null"`
	Status         Status         `json:"status" gorm:"type:text;not null;index"`
	MeterNumber    string         `json:"meter_number" gorm:"type:text;not null"`
	Barangay       string         `json:"barangay" gorm:"type:text;not null"`
	Sitio          string         `json:"sitio" gorm:"type:text"`
	CreatedAt      time.Time      `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt      time.Time      `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Client) TableName() string { return "clients" }
