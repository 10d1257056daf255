// internal/domain/address/entity.go
package address

import (
	"errors"
	"regexp"
	"strings"
)

// Address represents a delivery address of a user
type Address struct {
	ID           string `json:"id"`
	UserID       string `json:"userId"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pincode      string `json:"pincode"`
	Landmark     string `json:"landmark,omitempty"`
	IsDefault    bool   `json:"isDefault"`
}

// Snapshot is the flattened copy of an address stored on an order
type Snapshot struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pincode      string `json:"pincode"`
	Landmark     string `json:"landmark,omitempty"`
}

// Snapshot returns the order copy of the address
func (a *Address) Snapshot() Snapshot {
	return Snapshot{
		Name:         a.Name,
		Phone:        a.Phone,
		AddressLine1: a.AddressLine1,
		AddressLine2: a.AddressLine2,
		City:         a.City,
		State:        a.State,
		Pincode:      a.Pincode,
		Landmark:     a.Landmark,
	}
}

// String formats the address on one line
func (s Snapshot) String() string {
	parts := []string{s.Name, s.AddressLine1}
	if s.AddressLine2 != "" {
		parts = append(parts, s.AddressLine2)
	}
	if s.Landmark != "" {
		parts = append(parts, "near "+s.Landmark)
	}
	parts = append(parts, s.City, s.State+" "+s.Pincode)
	return strings.Join(parts, ", ")
}

// CreateAddressRequest represents address creation data
type CreateAddressRequest struct {
	UserID       string `json:"userId"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pincode      string `json:"pincode"`
	Landmark     string `json:"landmark,omitempty"`
	IsDefault    bool   `json:"isDefault"`
}

// UpdateAddressRequest represents a partial address update
type UpdateAddressRequest struct {
	Name         *string `json:"name,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	AddressLine1 *string `json:"addressLine1,omitempty"`
	AddressLine2 *string `json:"addressLine2,omitempty"`
	City         *string `json:"city,omitempty"`
	State        *string `json:"state,omitempty"`
	Pincode      *string `json:"pincode,omitempty"`
	Landmark     *string `json:"landmark,omitempty"`
	IsDefault    *bool   `json:"isDefault,omitempty"`
}

var pincodePattern = regexp.MustCompile(`^[0-9]{6}$`)

// Validate checks the required fields
func (r *CreateAddressRequest) Validate() error {
	switch {
	case strings.TrimSpace(r.Name) == "":
		return errors.New("name is required")
	case strings.TrimSpace(r.Phone) == "":
		return errors.New("phone is required")
	case strings.TrimSpace(r.AddressLine1) == "":
		return errors.New("address line 1 is required")
	case strings.TrimSpace(r.City) == "":
		return errors.New("city is required")
	case strings.TrimSpace(r.State) == "":
		return errors.New("state is required")
	case !pincodePattern.MatchString(r.Pincode):
		return errors.New("pincode must be 6 digits")
	}
	return nil
}
