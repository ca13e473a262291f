package models

import "testing"

func TestNewPurchaseView(t *testing.T) {
	toURL := func(path string) string { return "/uploads/" + path }

	transfer := NewPurchaseView(Purchase{ExternalRef: "TRANSFER:receipts/purchase_1/r.pdf"}, toURL)
	if transfer.PaymentMethod != "transfer" {
		t.Fatalf("method = %q, want transfer", transfer.PaymentMethod)
	}
	if transfer.ReceiptURL != "/uploads/receipts/purchase_1/r.pdf" {
		t.Fatalf("receipt url = %q", transfer.ReceiptURL)
	}

	mp := NewPurchaseView(Purchase{ExternalRef: "MP:12345"}, toURL)
	if mp.PaymentMethod != "mp" || mp.ReceiptURL != "" {
		t.Fatalf("mp view = %q/%q", mp.PaymentMethod, mp.ReceiptURL)
	}

	none := NewPurchaseView(Purchase{ExternalRef: "MANUAL"}, toURL)
	if none.PaymentMethod != "" {
		t.Fatalf("manual method = %q, want empty", none.PaymentMethod)
	}
}
