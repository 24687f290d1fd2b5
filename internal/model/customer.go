package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingFields is returned when the customer data lacks any of the required fields.
	ErrMissingFields = errors.New("missing required customer data fields")
	// ErrInvalidCustomer is returned for field values outside of their domain.
	ErrInvalidCustomer = errors.New("invalid customer data")
)

// Customer is the raw profile of a prospective policy holder.
type Customer struct {
	Age           int     `json:"age"`
	Gender        string  `json:"gender"`
	HealthStatus  string  `json:"health_status"`
	MaritalStatus string  `json:"marital_status"`
	AnnualIncome  float64 `json:"annual_income"`
	ClaimHistory  string  `json:"claim_history"`
}

// CustomerData is the loosely filled customer input as received by the callers.
// Nil or empty fields are considered missing.
type CustomerData struct {
	Age           *int     `json:"age"`
	Gender        *string  `json:"gender"`
	HealthStatus  *string  `json:"health_status"`
	MaritalStatus *string  `json:"marital_status"`
	AnnualIncome  *float64 `json:"annual_income"`
	ClaimHistory  *string  `json:"claim_history"`
}

// NewCustomerData wraps a complete customer into the input format.
func NewCustomerData(c Customer) CustomerData {
	return CustomerData{
		Age:           &c.Age,
		Gender:        &c.Gender,
		HealthStatus:  &c.HealthStatus,
		MaritalStatus: &c.MaritalStatus,
		AnnualIncome:  &c.AnnualIncome,
		ClaimHistory:  &c.ClaimHistory,
	}
}

// Missing returns the json names of the required fields that are not set.
func (d CustomerData) Missing() []string {
	missing := make([]string, 0)
	if d.Age == nil {
		missing = append(missing, "age")
	}
	if emptyString(d.Gender) {
		missing = append(missing, "gender")
	}
	if emptyString(d.HealthStatus) {
		missing = append(missing, "health_status")
	}
	if emptyString(d.MaritalStatus) {
		missing = append(missing, "marital_status")
	}
	if d.AnnualIncome == nil {
		missing = append(missing, "annual_income")
	}
	if emptyString(d.ClaimHistory) {
		missing = append(missing, "claim_history")
	}
	return missing
}

// Customer validates the data and returns the complete customer.
func (d CustomerData) Customer() (Customer, error) {
	if missing := d.Missing(); len(missing) > 0 {
		return Customer{}, fmt.Errorf("%s: %w", strings.Join(missing, ","), ErrMissingFields)
	}
	if *d.Age <= 0 {
		return Customer{}, fmt.Errorf("age must be positive but was %d: %w", *d.Age, ErrInvalidCustomer)
	}
	if *d.AnnualIncome < 0 {
		return Customer{}, fmt.Errorf("annual income cannot be negative but was %.2f: %w", *d.AnnualIncome, ErrInvalidCustomer)
	}
	return Customer{
		Age:           *d.Age,
		Gender:        *d.Gender,
		HealthStatus:  *d.HealthStatus,
		MaritalStatus: *d.MaritalStatus,
		AnnualIncome:  *d.AnnualIncome,
		ClaimHistory:  *d.ClaimHistory,
	}, nil
}

func emptyString(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

// Category returns the value of the given categorical column.
func (c Customer) Category(col Column) string {
	switch col {
	case Gender:
		return c.Gender
	case HealthStatus:
		return c.HealthStatus
	case MaritalStatus:
		return c.MaritalStatus
	case ClaimHistory:
		return c.ClaimHistory
	}
	return ""
}
