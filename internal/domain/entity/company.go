package entity

import "github.com/shopspring/decimal"

// Company agrupa los datos de la empresa que determinan el costo de mano de obra.
type Company struct {
	Info       CompanyInfo   `json:"info"`
	Employees  []Employee    `json:"employees"`
	Expenses   []Expense     `json:"expenses"`
	Production Production    `json:"production"`
	Totals     CompanyTotals `json:"totals"`
}

// CompanyInfo datos generales.
type CompanyInfo struct {
	Name    string `json:"name"`
	TaxID   string `json:"taxId"`
	Country string `json:"country"`
}

// Employee salario mensual de un empleado de producción.
type Employee struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Salary   decimal.Decimal `json:"salary"`
	Currency string          `json:"currency"`
}

// Expense gasto mensual recurrente (arriendo, energía...). Tax es porcentaje.
type Expense struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	Tax      decimal.Decimal `json:"tax"`
}

// Production volumen mensual producido, en unidad base (kg o L).
type Production struct {
	MonthlyVolume decimal.Decimal `json:"monthlyVolume"`
	Unit          string          `json:"unit"`
}

// CompanyTotals totales derivados (moneda por defecto).
type CompanyTotals struct {
	Salaries             decimal.Decimal `json:"salaries"`
	Expenses             decimal.Decimal `json:"expenses"`
	ExpensesTax          decimal.Decimal `json:"expensesTax"`
	LabourCostPerUnit    decimal.Decimal `json:"labourCostPerUnit"`
	LabourCostTaxPerUnit decimal.Decimal `json:"labourCostTaxPerUnit"`
}

// Equal compara los totales por valor.
func (t CompanyTotals) Equal(o CompanyTotals) bool {
	return t.Salaries.Equal(o.Salaries) &&
		t.Expenses.Equal(o.Expenses) &&
		t.ExpensesTax.Equal(o.ExpensesTax) &&
		t.LabourCostPerUnit.Equal(o.LabourCostPerUnit) &&
		t.LabourCostTaxPerUnit.Equal(o.LabourCostTaxPerUnit)
}

// CompanyEqual compara campo a campo.
func CompanyEqual(a, b Company) bool {
	if a.Info != b.Info || a.Production.Unit != b.Production.Unit ||
		!a.Production.MonthlyVolume.Equal(b.Production.MonthlyVolume) || !a.Totals.Equal(b.Totals) {
		return false
	}
	if len(a.Employees) != len(b.Employees) || len(a.Expenses) != len(b.Expenses) {
		return false
	}
	for i := range a.Employees {
		x, y := a.Employees[i], b.Employees[i]
		if x.ID != y.ID || x.Name != y.Name || x.Currency != y.Currency || !x.Salary.Equal(y.Salary) {
			return false
		}
	}
	for i := range a.Expenses {
		x, y := a.Expenses[i], b.Expenses[i]
		if x.ID != y.ID || x.Name != y.Name || x.Currency != y.Currency || !x.Amount.Equal(y.Amount) || !x.Tax.Equal(y.Tax) {
			return false
		}
	}
	return true
}
