package db_models

import (
	"time"

	"gorm.io/datatypes"
)

// ContractPatch is a field subset merged into a contract in one atomic
// store call. Nil pointers are left untouched.
type ContractPatch struct {
	Status *ContractStatus

	AgreedToTerms *bool
	AgreedAt      *time.Time

	BusinessName   *string
	OwnerName      *string
	WhatsappNumber *string
	Email          *string

	LogoURL      *string
	BrandColor   *string
	Description  *string
	ProvideLater *bool

	PaymentMethod      *string
	PaymentStatus      *PaymentStatus
	ReceiptURL         *string
	SubmittedAt        *time.Time
	PaymentInitiatedAt *time.Time
	TransactionRef     *string

	AmountPaid     *int64
	PaidAt         *time.Time
	TransactionID  *string
	PaymentDetails datatypes.JSON
}

// Columns maps the patch to gorm column names.
func (p ContractPatch) Columns() map[string]interface{} {
	cols := map[string]interface{}{}
	if p.Status != nil {
		cols["status"] = *p.Status
	}
	if p.AgreedToTerms != nil {
		cols["agreed_to_terms"] = *p.AgreedToTerms
	}
	if p.AgreedAt != nil {
		cols["agreed_at"] = *p.AgreedAt
	}
	if p.BusinessName != nil {
		cols["business_name"] = *p.BusinessName
	}
	if p.OwnerName != nil {
		cols["owner_name"] = *p.OwnerName
	}
	if p.WhatsappNumber != nil {
		cols["whatsapp_number"] = *p.WhatsappNumber
	}
	if p.Email != nil {
		cols["email"] = *p.Email
	}
	if p.LogoURL != nil {
		cols["logo_url"] = *p.LogoURL
	}
	if p.BrandColor != nil {
		cols["brand_color"] = *p.BrandColor
	}
	if p.Description != nil {
		cols["description"] = *p.Description
	}
	if p.ProvideLater != nil {
		cols["provide_later"] = *p.ProvideLater
	}
	if p.PaymentMethod != nil {
		cols["payment_method"] = *p.PaymentMethod
	}
	if p.PaymentStatus != nil {
		cols["payment_status"] = *p.PaymentStatus
	}
	if p.ReceiptURL != nil {
		cols["receipt_url"] = *p.ReceiptURL
	}
	if p.SubmittedAt != nil {
		cols["submitted_at"] = *p.SubmittedAt
	}
	if p.PaymentInitiatedAt != nil {
		cols["payment_initiated_at"] = *p.PaymentInitiatedAt
	}
	if p.TransactionRef != nil {
		cols["transaction_ref"] = *p.TransactionRef
	}
	if p.AmountPaid != nil {
		cols["amount_paid"] = *p.AmountPaid
	}
	if p.PaidAt != nil {
		cols["paid_at"] = *p.PaidAt
	}
	if p.TransactionID != nil {
		cols["transaction_id"] = *p.TransactionID
	}
	if p.PaymentDetails != nil {
		cols["payment_details"] = p.PaymentDetails
	}

	return cols
}

// Apply merges the patch into c in place.
func (p ContractPatch) Apply(c *Contract) {
	if p.Status != nil {
		c.Status = *p.Status
	}
	if p.AgreedToTerms != nil {
		c.AgreedToTerms = *p.AgreedToTerms
	}
	if p.AgreedAt != nil {
		t := *p.AgreedAt
		c.AgreedAt = &t
	}
	if p.BusinessName != nil {
		c.BusinessName = *p.BusinessName
	}
	if p.OwnerName != nil {
		c.OwnerName = *p.OwnerName
	}
	if p.WhatsappNumber != nil {
		c.WhatsappNumber = *p.WhatsappNumber
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.LogoURL != nil {
		c.LogoURL = *p.LogoURL
	}
	if p.BrandColor != nil {
		c.BrandColor = *p.BrandColor
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.ProvideLater != nil {
		c.ProvideLater = *p.ProvideLater
	}
	if p.PaymentMethod != nil {
		c.PaymentMethod = *p.PaymentMethod
	}
	if p.PaymentStatus != nil {
		c.PaymentStatus = *p.PaymentStatus
	}
	if p.ReceiptURL != nil {
		c.ReceiptURL = *p.ReceiptURL
	}
	if p.SubmittedAt != nil {
		t := *p.SubmittedAt
		c.SubmittedAt = &t
	}
	if p.PaymentInitiatedAt != nil {
		t := *p.PaymentInitiatedAt
		c.PaymentInitiatedAt = &t
	}
	if p.TransactionRef != nil {
		c.TransactionRef = *p.TransactionRef
	}
	if p.AmountPaid != nil {
		v := *p.AmountPaid
		c.AmountPaid = &v
	}
	if p.PaidAt != nil {
		t := *p.PaidAt
		c.PaidAt = &t
	}
	if p.TransactionID != nil {
		c.TransactionID = *p.TransactionID
	}
	if p.PaymentDetails != nil {
		c.PaymentDetails = append(datatypes.JSON(nil), p.PaymentDetails...)
	}
}

func (p ContractPatch) IsEmpty() bool {
	return len(p.Columns()) == 0
}

// Clone returns a deep copy so callers never share pointers with a store.
func (c *Contract) Clone() *Contract {
	if c == nil {
		return nil
	}
	out := *c
	copyTime := func(t *time.Time) *time.Time {
		if t == nil {
			return nil
		}
		v := *t
		return &v
	}
	out.AgreedAt = copyTime(c.AgreedAt)
	out.SubmittedAt = copyTime(c.SubmittedAt)
	out.PaymentInitiatedAt = copyTime(c.PaymentInitiatedAt)
	out.PaidAt = copyTime(c.PaidAt)
	if c.AmountPaid != nil {
		v := *c.AmountPaid
		out.AmountPaid = &v
	}
	if c.PaymentDetails != nil {
		out.PaymentDetails = append(datatypes.JSON(nil), c.PaymentDetails...)
	}
	return &out
}

// Helpers for building patches inline.
func Ptr[T any](v T) *T { return &v }
