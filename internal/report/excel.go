// Package report xuất báo cáo tháng ra file Excel, giữ nguyên tên cột
// tiếng Việt của hệ thống cũ để phòng y tế dùng tiếp các mẫu đã quen.
package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"pnt-health-station-api-server/internal/core"
)

const emptyNotice = "Không có dữ liệu cấp phát trong tháng này"

// cell đổi (col, row) 0-based sang tọa độ "A1".
func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col+1, row+1)
	return name
}

func newSheet(sheetName string, headers []string) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}
	for i, h := range headers {
		if err := f.SetCellValue(sheetName, cell(i, 0), h); err != nil {
			return nil, err
		}
	}
	last, _ := excelize.ColumnNumberToName(len(headers))
	_ = f.SetColWidth(sheetName, "A", last, 20)
	return f, nil
}

// MonthlyMedicationsWorkbook dựng file "thuốc đã cấp theo tháng".
func MonthlyMedicationsWorkbook(rows []core.MedicationTotal, month, year int) (*excelize.File, error) {
	sheetName := fmt.Sprintf("Thuoc_T%d_%d", month, year)
	f, err := newSheet(sheetName, []string{"Mã Thuốc", "Tên Thuốc", "Đơn vị", "Tổng Đã Cấp"})
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		_ = f.SetCellValue(sheetName, cell(0, 1), emptyNotice)
		return f, nil
	}
	for i, r := range rows {
		row := i + 1
		_ = f.SetCellValue(sheetName, cell(0, row), r.MedicationID)
		_ = f.SetCellValue(sheetName, cell(1, row), r.Name)
		_ = f.SetCellValue(sheetName, cell(2, row), r.Unit)
		_ = f.SetCellValue(sheetName, cell(3, row), r.Total)
	}
	return f, nil
}

// MonthlyRequestersWorkbook dựng file "người nhận thuốc theo tháng".
func MonthlyRequestersWorkbook(rows []core.RequesterRow, month, year int) (*excelize.File, error) {
	sheetName := fmt.Sprintf("NguoiNhan_T%d_%d", month, year)
	f, err := newSheet(sheetName, []string{
		"Thời gian cấp", "Người nhận (Email)", "Đối tượng", "Danh sách thuốc", "Ghi chú (Staff)", "Mã phiếu",
	})
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		_ = f.SetCellValue(sheetName, cell(0, 1), emptyNotice)
		return f, nil
	}
	for i, r := range rows {
		row := i + 1
		subject := "Nhân viên"
		if r.SubjectGroup == "STUDENT" {
			subject = "Sinh viên"
		}
		_ = f.SetCellValue(sheetName, cell(0, row), r.ProcessedAt.Format("02/01/2006 15:04"))
		_ = f.SetCellValue(sheetName, cell(1, row), r.RequesterEmail)
		_ = f.SetCellValue(sheetName, cell(2, row), subject)
		_ = f.SetCellValue(sheetName, cell(3, row), r.Medications)
		_ = f.SetCellValue(sheetName, cell(4, row), r.StaffNote)
		_ = f.SetCellValue(sheetName, cell(5, row), r.RequestID)
	}
	return f, nil
}
