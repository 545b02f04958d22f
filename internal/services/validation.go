package services

import (
	"fmt"
	"strings"

	"github.com/reliant-hq/quote-api/internal/models"
)

// ValidationError carries one or more field-level violations. Fields maps a
// field path (e.g. "items[2].material") to its messages.
type ValidationError struct {
	Fields map[string][]string `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msgs := range e.Fields {
		parts = append(parts, field+": "+strings.Join(msgs, "; "))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func (e *ValidationError) add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], message)
}

// Allowed enum values. Matching is case-insensitive; the stored value keeps
// the caller's casing.
var (
	validMaterials = map[string]bool{"upvc": true, "aluminium": true, "composite": true}
	validGlazings  = map[string]bool{"double": true, "triple": true}
	validInstalls  = map[string]bool{"standard": true, "complex": true}
)

const (
	minDimensionMm = 300
	maxDimensionMm = 4000
)

// ValidateCreateQuote checks the structural and business constraints of a
// quote-creation request. It performs no I/O; referenced customer/product
// existence is checked separately. Returns nil when the request is valid.
func ValidateCreateQuote(req *models.CreateQuoteRequest) *ValidationError {
	v := &ValidationError{}

	if req.CustomerID <= 0 {
		v.add("customer_id", "must be greater than 0")
	}
	if len(req.Items) == 0 {
		v.add("items", "must not be empty")
	}

	for i, item := range req.Items {
		prefix := fmt.Sprintf("items[%d].", i)

		if item.ProductID <= 0 {
			v.add(prefix+"product_id", "must be greater than 0")
		}
		if item.WidthMm < minDimensionMm || item.WidthMm > maxDimensionMm {
			v.add(prefix+"width_mm", fmt.Sprintf("must be between %d and %d", minDimensionMm, maxDimensionMm))
		}
		if item.HeightMm < minDimensionMm || item.HeightMm > maxDimensionMm {
			v.add(prefix+"height_mm", fmt.Sprintf("must be between %d and %d", minDimensionMm, maxDimensionMm))
		}
		if !validMaterials[strings.ToLower(strings.TrimSpace(item.Material))] {
			v.add(prefix+"material", "must be one of: uPVC, Aluminium, Composite")
		}
		if !validGlazings[strings.ToLower(strings.TrimSpace(item.Glazing))] {
			v.add(prefix+"glazing", "must be one of: double, triple")
		}
		if item.InstallComplexity != nil && strings.TrimSpace(*item.InstallComplexity) != "" {
			if !validInstalls[strings.ToLower(strings.TrimSpace(*item.InstallComplexity))] {
				v.add(prefix+"install_complexity", "must be Standard or Complex")
			}
		}
		if item.Qty <= 0 {
			v.add(prefix+"qty", "must be greater than 0")
		}
		if item.UnitPrice != nil && !item.UnitPrice.IsPositive() {
			v.add(prefix+"unit_price", "must be greater than 0")
		}
	}

	if len(v.Fields) == 0 {
		return nil
	}
	return v
}

// ValidateCreateCustomer checks a customer create/update payload
func ValidateCreateCustomer(name string) *ValidationError {
	if strings.TrimSpace(name) == "" {
		v := &ValidationError{}
		v.add("name", "must not be empty")
		return v
	}
	return nil
}
