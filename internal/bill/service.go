package bill

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/zombor/receipt-splitter/internal/extraction"
	"github.com/zombor/receipt-splitter/internal/split"
)

// NotAReceiptError means the vision model judged the uploaded image not to be
// a receipt at all. It is user-visible and never retried here.
type NotAReceiptError struct {
	Reason string
}

func (e *NotAReceiptError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	return "The uploaded image doesn't appear to be a valid receipt. Please upload an image containing items, prices, and a total amount."
}

// IDGenerator generates unique IDs for spooled uploads
type IDGenerator interface {
	Generate() string
}

type uuidGenerator struct{}

func (uuidGenerator) Generate() string {
	return uuid.NewString()
}

// Service orchestrates receipt processing and split calculation
type Service struct {
	scanner     extraction.Scanner
	spool       Spool
	idGenerator IDGenerator
}

// NewService creates a new Service with UUID-based spool naming
func NewService(scanner extraction.Scanner, spool Spool) *Service {
	return &Service{
		scanner:     scanner,
		spool:       spool,
		idGenerator: uuidGenerator{},
	}
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(scanner extraction.Scanner, spool Spool, idGen IDGenerator) *Service {
	return &Service{
		scanner:     scanner,
		spool:       spool,
		idGenerator: idGen,
	}
}

// sanitizeFilename cleans up a filename by removing special characters and
// truncating length; phone cameras generate absurdly long names.
func sanitizeFilename(filename string) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filepath.Base(filename), ext)

	reg := regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`)
	base = reg.ReplaceAllString(base, "")

	reg = regexp.MustCompile(`\s+`)
	base = reg.ReplaceAllString(base, " ")
	base = strings.TrimSpace(base)

	maxLen := 50
	if len(base) > maxLen {
		base = base[:maxLen]
	}
	if base == "" {
		base = "receipt"
	}
	return base + ext
}

// ProcessReceipt spools an upload, scans it with the vision model, and
// returns the normalized extraction. The spooled file never survives the
// call. A NotAReceiptError is returned when the model flags the image.
func (s *Service) ProcessReceipt(filename string, data []byte, contentType string) (*extraction.Result, error) {
	cleanFilename := sanitizeFilename(filename)

	spooledPath, err := s.spool.Save(fmt.Sprintf("%s_%s", s.idGenerator.Generate(), cleanFilename), data)
	if err != nil {
		return nil, fmt.Errorf("spooling upload: %w", err)
	}
	defer func() {
		if err := s.spool.Delete(spooledPath); err != nil {
			slog.Warn("Failed to remove spooled upload", "path", spooledPath, "error", err)
		}
	}()

	raw, err := s.scanner.ScanReceipt(data, contentType)
	if err != nil {
		slog.Error("Failed to scan receipt",
			"filename", filename,
			"content_type", contentType,
			"file_size", len(data),
			"error", err,
		)
		return nil, fmt.Errorf("scanning receipt: %w", err)
	}

	if raw.IsReceipt != nil && !*raw.IsReceipt {
		slog.Info("Rejected non-receipt upload", "filename", filename, "reason", raw.Reason)
		return nil, &NotAReceiptError{Reason: raw.Reason}
	}

	return extraction.Normalize(raw, cleanFilename), nil
}

// CalculateSplit apportions the receipt total across persons based on their
// item contributions. Pure; any error is a client input problem.
func (s *Service) CalculateSplit(items []split.Item, persons []string, receiptTotal float64) (*split.Result, error) {
	return split.Calculate(items, persons, receiptTotal)
}
