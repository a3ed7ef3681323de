package fixtures

import (
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/employee"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/symbol"
	"github.com/shopspring/decimal"
)

// ==========================================
// HELPER FUNCTIONS
// ==========================================

func sym(code, label, val string, cat symbol.Category) symbol.Symbol {
	return symbol.Symbol{
		Code:  code,
		Label: label,
		Val:   decimal.RequireFromString(val),
		Type:  cat,
	}
}

// ==========================================
// SYMBOL CATALOG
// ==========================================

// DefaultSymbols returns the built-in attendance code catalog (20 entries), ordered.
func DefaultSymbols() symbol.Catalog {
	catalog := symbol.Catalog{
		// Counted toward paid days
		sym("X", "Đi làm", "1", symbol.CategorySalary),
		sym("X/2", "Đi làm nửa ngày", "0.5", symbol.CategorySalary),
		sym("P", "Nghỉ phép", "1", symbol.CategorySalary),
		sym("P/2", "Nghỉ phép nửa ngày", "0.5", symbol.CategorySalary),
		sym("L", "Nghỉ lễ, Tết", "1", symbol.CategorySalary),
		sym("NB", "Nghỉ bù", "1", symbol.CategorySalary),
		sym("CT", "Đi công tác", "1", symbol.CategorySalary),
		sym("H", "Học tập, hội nghị", "1", symbol.CategorySalary),
		sym("Tr", "Trực", "1", symbol.CategorySalary),
		sym("Bs", "Bổ sung công", "1", symbol.CategorySalary),
		sym("R", "Việc riêng có lương", "1", symbol.CategorySalary),

		// Unpaid
		sym("KP", "Nghỉ không phép", "1", symbol.CategoryUnpaid),
		sym("KL", "Nghỉ không lương", "1", symbol.CategoryUnpaid),
		sym("KL/2", "Nghỉ không lương nửa ngày", "0.5", symbol.CategoryUnpaid),
		sym("Ro", "Việc riêng không lương", "1", symbol.CategoryUnpaid),

		// Paid by social insurance
		sym("Ô", "Ốm", "1", symbol.CategoryInsurance),
		sym("Cô", "Con ốm", "1", symbol.CategoryInsurance),
		sym("TS", "Thai sản", "1", symbol.CategoryInsurance),
		sym("T", "Tai nạn lao động", "1", symbol.CategoryInsurance),
		sym("DS", "Dưỡng sức", "1", symbol.CategoryInsurance),
	}
	return catalog.Normalize()
}

const (
	// WorkCode is what the bulk action marks and what the absence report treats as present
	WorkCode = "X"
	// AbsentCode stands in for a day with no record in the absence report
	AbsentCode = "KP"
)

// ==========================================
// DEMO DATA
// ==========================================

// DemoEmployees seeds the in-memory store for local development.
func DemoEmployees() []employee.Employee {
	return []employee.Employee{
		{ID: "NV001", Name: "Nguyễn Văn An", Department: "Khoa Nội", Position: "Trưởng Khoa"},
		{ID: "NV002", Name: "Trần Thị Bình", Department: "Khoa Nội", Position: "Bác sĩ"},
		{ID: "NV003", Name: "Lê Thị Cúc", Department: "Khoa Nội", Position: "Điều dưỡng"},
		{ID: "NV004", Name: "Phạm Văn Dũng", Department: "Khoa Nội", Position: "Y tá"},
		{ID: "NV005", Name: "Hoàng Minh Đức", Department: "Khoa Ngoại", Position: "Phó Khoa"},
		{ID: "NV006", Name: "Vũ Thị Hoa", Department: "Khoa Ngoại", Position: "Điều dưỡng"},
		{ID: "NV007", Name: "Đặng Quốc Khánh", Department: "Khoa Ngoại", Position: "Bác sĩ"},
	}
}
