package extraction

// RawResult is the structured output of the vision model, before
// normalization. Monetary fields are deliberately untyped: the model
// sometimes returns numbers, sometimes strings carrying currency symbols
// or explicit "+ "/"- " sign tokens.
type RawResult struct {
	IsReceipt *bool        `json:"is_receipt,omitempty"`
	Reason    string       `json:"reason,omitempty"`
	FileName  string       `json:"file_name,omitempty"`
	Topics    []string     `json:"topics,omitempty"`
	Languages []string     `json:"languages,omitempty"`
	Contents  *RawContents `json:"ocr_contents,omitempty"`

	// Some model responses skip the ocr_contents wrapper and put the
	// extraction at the top level. The nested shape wins when both are set.
	Items       []RawItem       `json:"items,omitempty"`
	BillDetails *RawBillDetails `json:"total_order_bill_details,omitempty"`
}

// RawContents is the nested extraction payload.
type RawContents struct {
	Items       []RawItem       `json:"items"`
	BillDetails *RawBillDetails `json:"total_order_bill_details"`
}

// RawItem is one purchased product as the model reported it.
type RawItem struct {
	Name  *string `json:"name"`
	Price any     `json:"price"`
}

// RawFee is one tax/fee/discount entry as the model reported it.
type RawFee struct {
	Name   *string `json:"name"`
	Amount any     `json:"amount"`
}

// RawBillDetails carries the declared total and the fee list.
type RawBillDetails struct {
	TotalBill any      `json:"total_bill"`
	Taxes     []RawFee `json:"taxes"`
}

// Scanner defines the interface for receipt extraction backends.
type Scanner interface {
	// ScanReceipt analyzes a receipt image/PDF and extracts its contents
	ScanReceipt(imageData []byte, contentType string) (*RawResult, error)
	// Close closes the scanner and releases resources
	Close() error
}
