package models

import "strings"

// PurchaseView is the read-only projection used by profile, checkout
// and admin listings. The payment method and receipt URL are derived
// from ExternalRef; the persisted purchase is never mutated for
// display.
type PurchaseView struct {
	Purchase
	PaymentMethod string `json:"payment_method"` // "mp", "transfer" or ""
	ReceiptURL    string `json:"receipt_url"`
}

// NewPurchaseView derives display fields from a purchase. receiptURL
// maps a stored receipt path to a public URL.
func NewPurchaseView(p Purchase, receiptURL func(path string) string) PurchaseView {
	view := PurchaseView{Purchase: p}

	switch {
	case strings.HasPrefix(p.ExternalRef, "TRANSFER:"):
		view.PaymentMethod = "transfer"
		path := strings.TrimPrefix(p.ExternalRef, "TRANSFER:")
		if receiptURL != nil {
			view.ReceiptURL = receiptURL(path)
		}
	case strings.HasPrefix(p.ExternalRef, "MP:"):
		view.PaymentMethod = "mp"
	}

	return view
}
