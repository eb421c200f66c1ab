package domain

import (
	"fmt"
	"strings"
	"time"
)

// Bundle groups product identifiers of a shop with a discount value
type Bundle struct {
	ID         string    `json:"id"`
	Shop       string    `json:"shop"`
	BundleName string    `json:"bundleName"`
	Products   []string  `json:"products"`
	Discount   float64   `json:"discount"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// BundleInput is the request body of create-bundle and update-bundle.
// Pointers distinguish an absent field from a zero value.
type BundleInput struct {
	Shop       *string   `json:"shop"`
	BundleName *string   `json:"bundleName"`
	Products   *[]string `json:"products"`
	Discount   *float64  `json:"discount"`
}

// ValidateCreate checks that every field required to create a bundle is present and non-empty
func (in BundleInput) ValidateCreate() error {
	if in.Shop == nil || strings.TrimSpace(*in.Shop) == "" {
		return fmt.Errorf("%w: shop is required", ErrValidation)
	}
	return in.ValidateUpdate()
}

// ValidateUpdate checks the fields replaced by an update. Shop is not part of the update contract.
func (in BundleInput) ValidateUpdate() error {
	if in.BundleName == nil || strings.TrimSpace(*in.BundleName) == "" {
		return fmt.Errorf("%w: bundleName is required", ErrValidation)
	}
	if in.Products == nil || len(*in.Products) == 0 {
		return fmt.Errorf("%w: products is required", ErrValidation)
	}
	for i, p := range *in.Products {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("%w: products[%d] is empty", ErrValidation, i)
		}
	}
	if in.Discount == nil || *in.Discount == 0 {
		return fmt.Errorf("%w: discount is required", ErrValidation)
	}
	return nil
}

// ToBundle builds a new Bundle from a validated input
func (in BundleInput) ToBundle() *Bundle {
	b := &Bundle{
		BundleName: *in.BundleName,
		Products:   append([]string(nil), *in.Products...),
		Discount:   *in.Discount,
	}
	if in.Shop != nil {
		b.Shop = *in.Shop
	}
	return b
}

// BundleChanges holds the fields an update replaces wholesale
type BundleChanges struct {
	BundleName string
	Products   []string
	Discount   float64
}

// ToChanges extracts the replaceable fields from a validated input
func (in BundleInput) ToChanges() BundleChanges {
	return BundleChanges{
		BundleName: *in.BundleName,
		Products:   append([]string(nil), *in.Products...),
		Discount:   *in.Discount,
	}
}
