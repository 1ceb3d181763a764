package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/22146025/lord-s-heart-educational-complex/internal/dto"
	"github.com/22146025/lord-s-heart-educational-complex/internal/model"
	"github.com/22146025/lord-s-heart-educational-complex/internal/repository"
)

// ── export errors ──

var ErrExportGenerateFail = errors.New("failed to generate the spreadsheet")

// Export formats
const (
	ExportJSON = "json"
	ExportXLSX = "xlsx"
)

// ExportService full unfiltered dumps of applications and messages.
// Spreadsheets are returned as a buffer plus a suggested filename; the
// handler sets the response headers.
type ExportService interface {
	Applications(ctx context.Context) ([]dto.ApplicationResponse, error)
	Messages(ctx context.Context) ([]dto.ContactMessageResponse, error)
	ApplicationsXLSX(ctx context.Context) (*bytes.Buffer, string, error)
	MessagesXLSX(ctx context.Context) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService creates an ExportService
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

func (s *exportService) Applications(ctx context.Context) ([]dto.ApplicationResponse, error) {
	apps, err := s.repo.Application.ListAll(ctx)
	if err != nil {
		s.logger.Error("export applications failed", zap.Error(err))
		return nil, err
	}
	result := make([]dto.ApplicationResponse, 0, len(apps))
	for i := range apps {
		result = append(result, *dto.NewApplicationResponse(&apps[i]))
	}
	return result, nil
}

func (s *exportService) Messages(ctx context.Context) ([]dto.ContactMessageResponse, error) {
	msgs, err := s.repo.Message.ListAll(ctx)
	if err != nil {
		s.logger.Error("export messages failed", zap.Error(err))
		return nil, err
	}
	result := make([]dto.ContactMessageResponse, 0, len(msgs))
	for i := range msgs {
		result = append(result, *dto.NewContactMessageResponse(&msgs[i]))
	}
	return result, nil
}

// ═══════════════════════════════════════════════════════════
// Spreadsheets
// ═══════════════════════════════════════════════════════════

var applicationColumns = []string{
	"ID", "Surname", "First Name", "Other Names", "Date of Birth", "Age", "Gender",
	"Place of Birth", "Region of Birth", "Home Town", "Region of Home Town",
	"Last School Attended", "Location of Last School", "Class Before Admission",
	"Religious Denomination", "Hobbies", "Disability / Allergy",
	"Father's Name", "Father's Occupation", "Father's Contact", "Father's Email",
	"Mother's Name", "Mother's Occupation", "Mother's Contact", "Mother's Email",
	"Postal Address", "Place of Residence", "House Number",
	"Status", "Application Date", "Reviewed Date", "Reviewed By", "Notes",
}

func applicationRow(a *model.Application) []interface{} {
	return []interface{}{
		a.ID, a.Surname, a.FirstName, deref(a.OtherNames), a.DateOfBirth.String(), a.Age, a.Gender,
		a.PlaceOfBirth, a.RegionOfBirth, a.HomeTown, a.RegionOfHomeTown,
		deref(a.LastSchoolAttended), deref(a.LocationOfLastSchool), a.ClassBeforeAdmission,
		deref(a.ReligiousDenomination), deref(a.Hobbies), deref(a.DisabilityOrAllergy),
		deref(a.FatherName), deref(a.FatherOccupation), deref(a.FatherContact), deref(a.FatherEmail),
		deref(a.MotherName), deref(a.MotherOccupation), deref(a.MotherContact), deref(a.MotherEmail),
		a.PostalAddress, a.PlaceOfResidence, deref(a.HouseNumber),
		a.Status, formatTime(&a.ApplicationDate), formatTime(a.ReviewedDate), derefID(a.ReviewedByID), deref(a.Notes),
	}
}

var messageColumns = []string{
	"ID", "Name", "Email", "Message", "Status", "IP Address", "User Agent",
	"Created At", "Read At", "Replied At",
}

func messageRow(m *model.Message) []interface{} {
	return []interface{}{
		m.ID, m.Name, m.Email, m.Message, m.Status, deref(m.IPAddress), deref(m.UserAgent),
		formatTime(&m.CreatedAt), formatTime(m.ReadAt), formatTime(m.RepliedAt),
	}
}

func (s *exportService) ApplicationsXLSX(ctx context.Context) (*bytes.Buffer, string, error) {
	apps, err := s.repo.Application.ListAll(ctx)
	if err != nil {
		s.logger.Error("export applications failed", zap.Error(err))
		return nil, "", err
	}
	rows := make([][]interface{}, 0, len(apps))
	for i := range apps {
		rows = append(rows, applicationRow(&apps[i]))
	}
	return s.workbook("Applications", applicationColumns, rows, "admission_applications")
}

func (s *exportService) MessagesXLSX(ctx context.Context) (*bytes.Buffer, string, error) {
	msgs, err := s.repo.Message.ListAll(ctx)
	if err != nil {
		s.logger.Error("export messages failed", zap.Error(err))
		return nil, "", err
	}
	rows := make([][]interface{}, 0, len(msgs))
	for i := range msgs {
		rows = append(rows, messageRow(&msgs[i]))
	}
	return s.workbook("Messages", messageColumns, rows, "contact_messages")
}

// workbook one sheet: bold header row, then one row per record
func (s *exportService) workbook(sheet string, header []string, rows [][]interface{}, prefix string) (*bytes.Buffer, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheet)
	if err != nil {
		s.logger.Error("create sheet failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	headerRow := make([]interface{}, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		s.logger.Error("write header failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	f.SetCellStyle(sheet, "A1", last, headerStyle)
	lastCol, _ := excelize.ColumnNumberToName(len(header))
	f.SetColWidth(sheet, "A", lastCol, 18)
	f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			s.logger.Error("write row failed", zap.Int("row", i+2), zap.Error(err))
			return nil, "", ErrExportGenerateFail
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("write workbook failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("%s_%s.xlsx", prefix, time.Now().UTC().Format("20060102"))
	return buf, filename, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefID(id *uint) interface{} {
	if id == nil {
		return ""
	}
	return *id
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
