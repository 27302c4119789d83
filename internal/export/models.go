package export

import (
	"fmt"
	"time"

	"github.com/kaylahuffman7/Plated-v2/internal/week"
)

const (
	FormatCSV = "csv"
	FormatPDF = "pdf"

	StatusReady = "ready"
)

// ExportRequest is the request body for POST /v1/export/week. An empty
// week_key targets the current week; format defaults to csv.
type ExportRequest struct {
	WeekKey string `json:"week_key,omitempty"`
	Format  string `json:"format,omitempty"`
}

// Validate validates the export request and applies defaults.
func (r *ExportRequest) Validate() error {
	if r.WeekKey != "" {
		if _, err := week.ParseKey(r.WeekKey); err != nil {
			return fmt.Errorf("week_key must be a Monday date: %v", err)
		}
	}

	if r.Format == "" {
		r.Format = FormatCSV
	}
	if r.Format != FormatCSV && r.Format != FormatPDF {
		return fmt.Errorf("format must be csv or pdf")
	}

	return nil
}

// ExportDTO describes a stored export.
type ExportDTO struct {
	ID          string    `json:"id"`
	WeekKey     string    `json:"week_key"`
	Format      string    `json:"format"`
	SizeBytes   int64     `json:"size_bytes"`
	Status      string    `json:"status"`
	DownloadURL string    `json:"download_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func contentType(format string) string {
	if format == FormatPDF {
		return "application/pdf"
	}
	return "text/csv"
}

func fileName(weekKey, format string) string {
	return fmt.Sprintf("meal-plan-%s.%s", weekKey, format)
}
