package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"gamebus_backend/internal/database"
	"gamebus_backend/internal/repositories"
	"gamebus_backend/pkg/utils"
)

var (
	ErrSheetNotFound   = errors.New("sheet not found")
	ErrInvalidWorkbook = errors.New("uploaded file is not a readable xlsx workbook")
)

// WorkbookService moves the whole store in and out as xlsx files.
type WorkbookService interface {
	Download() ([]byte, error)
	DownloadSheet(name string) ([]byte, error)
	Upload(ctx context.Context, r io.Reader) error
}

type workbookService struct {
	store *repositories.Store
}

func NewWorkbookService(store *repositories.Store) WorkbookService {
	return &workbookService{store: store}
}

func (s *workbookService) encode(wb *database.Workbook) ([]byte, error) {
	var buf bytes.Buffer
	if err := database.WriteXLSX(&buf, wb); err != nil {
		return nil, fmt.Errorf("failed to encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *workbookService) Download() ([]byte, error) {
	wb, err := s.store.Workbook()
	if err != nil {
		return nil, err
	}
	return s.encode(wb)
}

func (s *workbookService) DownloadSheet(name string) ([]byte, error) {
	wb, err := s.store.Workbook()
	if err != nil {
		return nil, err
	}
	sheet := wb.Sheet(name)
	if sheet == nil {
		return nil, fmt.Errorf("%w: '%s'", ErrSheetNotFound, name)
	}
	return s.encode(&database.Workbook{Sheets: []*database.Sheet{sheet}})
}

// Upload replaces the store with the uploaded workbook.
func (s *workbookService) Upload(ctx context.Context, r io.Reader) error {
	wb, err := database.ReadXLSX(r)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidWorkbook, err)
	}
	if err := s.store.Replace(ctx, wb); err != nil {
		return fmt.Errorf("failed to replace store: %w", err)
	}
	utils.LogInfo("Workbook uploaded", map[string]interface{}{"sheets": len(wb.Sheets)})
	return nil
}
