package extraction

import (
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const maxScanAttempts = 3

// retryScanner retries transient backend failures with exponential backoff.
// Rate limits and dropped connections to hosted models are common enough
// that a single attempt wastes good uploads.
type retryScanner struct {
	inner Scanner
}

// WithRetry wraps a Scanner so each scan is attempted up to three times.
func WithRetry(inner Scanner) Scanner {
	return &retryScanner{inner: inner}
}

// ScanReceipt analyzes a receipt image and extracts its structured contents
func (r *retryScanner) ScanReceipt(imageData []byte, contentType string) (*RawResult, error) {
	var result *RawResult

	operation := func() error {
		scanned, err := r.inner.ScanReceipt(imageData, contentType)
		if err != nil {
			slog.Warn("Scan attempt failed, will retry", "error", err)
			return err
		}
		result = scanned
		return nil
	}

	policy := backoff.WithMaxRetries(newScanBackOff(), maxScanAttempts-1)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return result, nil
}

// Close closes the underlying scanner
func (r *retryScanner) Close() error {
	return r.inner.Close()
}

func newScanBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = time.Second
	b.MaxInterval = 10 * time.Second
	return b
}
