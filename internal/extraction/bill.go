package extraction

// LineItem is one purchased product at its final, post-discount price.
// Price is never negative in canonical form.
type LineItem struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Fee is a named bill-level adjustment charged on top of item prices: a tax,
// a service charge, or a discount (negative amount). Zero-value fees never
// appear here, they are dropped during normalization.
type Fee struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// BillDetails carries the receipt's authoritative total and its fees. The
// total is the actual amount paid; it need not equal the sum of item prices
// plus fees, extraction is lossy.
type BillDetails struct {
	TotalBill float64 `json:"total_bill"`
	Taxes     []Fee   `json:"taxes"`
}

// Bill is the canonical extraction of one receipt.
type Bill struct {
	Items       []LineItem  `json:"items"`
	BillDetails BillDetails `json:"total_order_bill_details"`
}

// Result is the full response for a processed receipt: the canonical bill
// plus display metadata.
type Result struct {
	FileName  string   `json:"file_name"`
	Topics    []string `json:"topics"`
	Languages []string `json:"languages"`
	Contents  Bill     `json:"ocr_contents"`
}
