package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/campus-suite/admissions-service/internal/repositories"
)

// exportBatchLimit caps a single workbook so an unbounded filter cannot
// pull the whole table into memory.
const exportBatchLimit = 10000

type exportService struct {
	repo   repositories.Repository
	db     *gorm.DB
	logger *slog.Logger
}

func NewExportService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger) ExportService {
	return &exportService{
		repo:   repo,
		db:     db,
		logger: logger,
	}
}

func (s *exportService) ExportApplications(ctx context.Context, filters repositories.ApplicationFilters, userID string) ([]byte, string, error) {
	if err := s.requireReporting(ctx, userID, "applications"); err != nil {
		return nil, "", err
	}

	filters.Limit = exportBatchLimit
	filters.Offset = 0
	applications, _, err := s.repo.Application().List(ctx, s.db, filters)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list applications for export: %w", err)
	}

	headers := []string{"Tracking ID", "Form No", "Student", "Email", "Program", "Session", "Status", "Applied At"}
	rows := make([][]interface{}, 0, len(applications))
	for _, app := range applications {
		rows = append(rows, []interface{}{
			app.TrackingID,
			app.FormNo,
			app.Student.User.FullName(),
			app.Student.User.Email,
			app.Program.Name,
			app.Session.Session,
			app.Status.Name,
			app.AppliedAt.Format("2006-01-02 15:04"),
		})
	}

	data, err := buildWorkbook("Applications", headers, rows)
	if err != nil {
		return nil, "", fmt.Errorf("failed to build applications workbook: %w", err)
	}

	filename := fmt.Sprintf("applications_%s.xlsx", time.Now().Format("20060102"))
	s.logger.Info("Applications exported", "rows", len(rows), "exported_by", userID)
	return data, filename, nil
}

func (s *exportService) ExportPayments(ctx context.Context, filters repositories.PaymentFilters, userID string) ([]byte, string, error) {
	if err := s.requireReporting(ctx, userID, "payments"); err != nil {
		return nil, "", err
	}

	filters.Limit = exportBatchLimit
	filters.Offset = 0
	payments, _, err := s.repo.Payment().List(ctx, s.db, filters)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list payments for export: %w", err)
	}

	headers := []string{"Transaction ID", "Application ID", "Type", "Amount", "Status", "Method", "Bank Reference", "Paid At", "Created At"}
	rows := make([][]interface{}, 0, len(payments))
	for _, p := range payments {
		method := ""
		if p.Method != nil {
			method = p.Method.Name
		}
		paidAt := ""
		if p.PaidAt != nil {
			paidAt = p.PaidAt.Format("2006-01-02 15:04")
		}
		rows = append(rows, []interface{}{
			p.TransactionID,
			p.ApplicationID,
			string(p.Type),
			p.Amount,
			string(p.Status),
			method,
			p.BankReference,
			paidAt,
			p.CreatedAt.Format("2006-01-02 15:04"),
		})
	}

	data, err := buildWorkbook("Payments", headers, rows)
	if err != nil {
		return nil, "", fmt.Errorf("failed to build payments workbook: %w", err)
	}

	filename := fmt.Sprintf("payments_%s.xlsx", time.Now().Format("20060102"))
	s.logger.Info("Payments exported", "rows", len(rows), "exported_by", userID)
	return data, filename, nil
}

// ===== HELPERS =====

func (s *exportService) requireReporting(ctx context.Context, userID, resource string) error {
	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to load user: %w", err)
	}
	if !CanViewReports(user.Role) {
		return NewPermissionError(userID, 0, resource, "export", "reporting role required")
	}
	return nil
}

func buildWorkbook(sheet string, headers []string, rows [][]interface{}) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return nil, err
	}

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return nil, err
		}
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
