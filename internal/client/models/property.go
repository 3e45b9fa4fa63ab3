package models

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/depositkeeper/internal/common"
)

type Property struct {
	ID                ID      `json:"id,omitempty"`
	Address           string  `json:"address"`
	Description       string  `json:"description"`
	PropertyType      string  `json:"property_type"`
	UnitNumber        string  `json:"unit_number,omitempty"`
	DepositAmount     float64 `json:"deposit_amount,omitempty"`
	ContractStartDate string  `json:"contract_start_date,omitempty"`
	ContractEndDate   string  `json:"contract_end_date,omitempty"`
	LeaseDuration     int     `json:"lease_duration,omitempty"`
	LeaseDurationType string  `json:"lease_duration_type"`
	LandlordName      string  `json:"landlord_name,omitempty"`
	LandlordEmail     string  `json:"landlord_email,omitempty"`
	LandlordPhone     string  `json:"landlord_phone,omitempty"`
}

// Validate checks the fields the property form requires. The returned error
// wraps common.ErrValidation.
func (p *Property) Validate() error {
	if strings.TrimSpace(p.Address) == "" {
		return fmt.Errorf("%w: address is required", common.ErrValidation)
	}
	if strings.TrimSpace(p.PropertyType) == "" {
		return fmt.Errorf("%w: property type is required", common.ErrValidation)
	}
	if p.LandlordEmail != "" && !strings.Contains(p.LandlordEmail, "@") {
		return fmt.Errorf("%w: landlord email %q is invalid", common.ErrValidation, p.LandlordEmail)
	}
	if p.DepositAmount < 0 {
		return fmt.Errorf("%w: deposit amount must not be negative", common.ErrValidation)
	}
	if p.LeaseDurationType == "" {
		p.LeaseDurationType = "months"
	}
	return nil
}
