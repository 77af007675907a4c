package extraction

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	"image/png"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/gen2brain/heic"
)

// receiptPrompt is the shared prompt used by all vision backends. It asks the
// model to first judge whether the image is a receipt at all, then extract
// items, the declared total and any non-zero fees, with explicit sign handling
// for discounts.
const receiptPrompt = `INITIAL DETECTION - Carefully analyze if this image is ACTUALLY a receipt/bill/invoice:
- A valid receipt MUST have ALL of these elements:
* A clear list of purchased items with corresponding prices
* A structured format with items aligned in rows/columns
* A clearly marked total amount
* Usually contains business name, date, and payment information

- This is NOT a receipt if ANY of these are true:
* Contains mathematical equations, formulas, or academic notation
* Primarily consists of paragraphs of text without itemized prices
* Is a menu, poster, advertisement, or academic paper
* Lacks a clear itemized structure and total amount

If it is NOT a receipt/bill, respond with: {"is_receipt": false, "reason": "explanation"}.

If it IS a receipt/bill, extract the data with EXACTLY these requirements:
1. Items section must contain product purchases only with their FINAL prices (not MRP)
2. The final total_bill should be the actual amount paid by the customer
3. RULES FOR TAXES AND DISCOUNTS:
   - EXCLUDE ALL line items marked as 'FREE', 'Zero', '0', or with zero value
   - EXCLUDE 'Product discount' / 'MRP discount' items - these are already factored into item prices
   - ONLY include fees, charges and taxes that have a non-zero monetary value AND are charged on top of item prices
4. The taxes array should ONLY include:
   - Service charges, handling fees, delivery fees (non-zero values only)
   - Tax items like GST, VAT, service tax (non-zero values only)
   - Final bill discounts as negative amounts (NOT product/MRP discounts)
5. ALWAYS EXCLUDE from taxes: item totals, subtotals, MRP information, and any line that summarizes the order
6. Format all monetary values as plain numbers without currency symbols
7. Handle + and - correctly (e.g., a discount of 45 should be -45.0)

Return ONLY valid JSON in this exact format:
{
  "is_receipt": true,
  "reason": "",
  "file_name": "string",
  "topics": ["string"],
  "languages": ["string"],
  "ocr_contents": {
    "items": [{"name": "string", "price": 0.00}],
    "total_order_bill_details": {
      "total_bill": 0.00,
      "taxes": [{"name": "string", "amount": 0.00}]
    }
  }
}

Do not include any text before or after the JSON and do not use markdown code blocks.`

// pdfToImage renders the first page of a PDF as PNG. Receipts are almost
// always single page.
func pdfToImage(pdfData []byte) ([]byte, error) {
	doc, err := fitz.NewFromMemory(pdfData)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	img, err := doc.Image(0)
	if err != nil {
		return nil, fmt.Errorf("rendering PDF page: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// imageToPNG re-encodes any supported image format as PNG. HEIC/HEIF (the
// iPhone default) needs its own decoder, the stdlib image package doesn't
// know the format.
func imageToPNG(imageData []byte, mimeType string) ([]byte, error) {
	var img image.Image
	var err error

	if isHEICFormat(imageData) || isHEICMimeType(mimeType) {
		img, err = heic.Decode(bytes.NewReader(imageData))
		if err != nil {
			return nil, fmt.Errorf("decoding HEIC/HEIF image: %w", err)
		}
	} else {
		img, _, err = image.Decode(bytes.NewReader(imageData))
		if err != nil {
			if strings.Contains(err.Error(), "unknown format") || strings.Contains(err.Error(), "unsupported") {
				return nil, fmt.Errorf("unsupported image format. Supported formats: JPEG, PNG, GIF, HEIC, HEIF, PDF. Error: %w", err)
			}
			return nil, fmt.Errorf("decoding image: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// isHEICFormat sniffs the ftyp box brands HEIC containers start with.
func isHEICFormat(data []byte) bool {
	if len(data) < 12 || string(data[4:8]) != "ftyp" {
		return false
	}
	switch string(data[8:12]) {
	case "heic", "heif", "mif1", "msf1":
		return true
	}
	return false
}

func isHEICMimeType(mimeType string) bool {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	return strings.Contains(mimeType, "heic") || strings.Contains(mimeType, "heif")
}

// prepareImageData normalizes the MIME type and converts the upload to PNG so
// every backend sees a single format. Returns the PNG bytes.
func prepareImageData(imageData []byte, contentType string) ([]byte, error) {
	mimeType := strings.ToLower(strings.TrimSpace(contentType))
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	if mimeType == "application/pdf" {
		pngData, err := pdfToImage(imageData)
		if err != nil {
			return nil, fmt.Errorf("converting PDF to image: %w", err)
		}
		return pngData, nil
	}
	if mimeType != "image/png" || isHEICFormat(imageData) {
		pngData, err := imageToPNG(imageData, mimeType)
		if err != nil {
			return nil, fmt.Errorf("converting image to PNG: %w", err)
		}
		return pngData, nil
	}
	return imageData, nil
}
