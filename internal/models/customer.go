package models

// Customer is a sales prospect or account a quote is raised against
type Customer struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	Email        *string `json:"email,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	AddressLine1 *string `json:"address_line1,omitempty"`
	City         *string `json:"city,omitempty"`
	Postcode     *string `json:"postcode,omitempty"`
	Segment      *string `json:"segment,omitempty"` // e.g. Loyal, High-Potential, Dormant
}

// CreateCustomerRequest is the request body for creating a customer
type CreateCustomerRequest struct {
	Name         string  `json:"name"`
	Email        *string `json:"email,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	AddressLine1 *string `json:"address_line1,omitempty"`
	City         *string `json:"city,omitempty"`
	Postcode     *string `json:"postcode,omitempty"`
}

// UpdateCustomerRequest is the request body for updating a customer
type UpdateCustomerRequest struct {
	Name         string  `json:"name"`
	Email        *string `json:"email,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	AddressLine1 *string `json:"address_line1,omitempty"`
	City         *string `json:"city,omitempty"`
	Postcode     *string `json:"postcode,omitempty"`
}
