package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"github.com/felixgeelhaar/paybook/pkg/domain/payroll"
	"github.com/felixgeelhaar/paybook/pkg/domain/report"
)

// Salary slip formats.
const (
	SlipText = "txt"
	SlipPDF  = "pdf"
)

// WriteSlip writes the salary slip for rec into dir and returns its path.
func (r *FilesystemRepository) WriteSlip(dir string, rec payroll.Record, format string) (string, error) {
	if format == "" {
		format = SlipText
	}
	if dir == "" {
		dir = "."
	}
	dir = r.DataPath(dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create slip dir: %w", payroll.ErrIOFailure, err)
	}
	path := filepath.Join(dir, report.SlipFileName(rec.Name, format))

	var err error
	switch format {
	case SlipText:
		err = os.WriteFile(path, []byte(report.RenderSlip(rec)), 0600)
	case SlipPDF:
		err = writeSlipPDF(path, rec)
	default:
		return "", fmt.Errorf("%w: unsupported slip format %q", payroll.ErrInvalidInput, format)
	}
	if err != nil {
		return "", fmt.Errorf("%w: write slip %s: %w", payroll.ErrIOFailure, path, err)
	}
	return path, nil
}

func writeSlipPDF(path string, rec payroll.Record) error {
	lines := report.SlipLines(rec)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, lines[0])
	pdf.Ln(12)
	pdf.SetFont("Courier", "", 12)
	for _, line := range lines[1:] {
		pdf.Cell(0, 8, line)
		pdf.Ln(7)
	}

	return pdf.OutputFileAndClose(path)
}
