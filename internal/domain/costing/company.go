package costing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/jhoicas/Costeo-api/internal/domain/exchange"
)

// CompanyTotals deriva el costo de mano de obra por unidad base:
// (salarios + gastos) / volumen mensual; el impuesto sale de los gastos.
func CompanyTotals(c entity.Company, conv *exchange.Converter) entity.CompanyTotals {
	toDefault := func(amount decimal.Decimal, cur string) decimal.Decimal {
		if conv == nil {
			return amount
		}
		return conv.ToDefault(amount, cur).Amount
	}

	var t entity.CompanyTotals
	for _, e := range c.Employees {
		t.Salaries = t.Salaries.Add(toDefault(e.Salary, e.Currency))
	}
	for _, e := range c.Expenses {
		amount := toDefault(e.Amount, e.Currency)
		t.Expenses = t.Expenses.Add(amount)
		if e.Tax.IsPositive() {
			t.ExpensesTax = t.ExpensesTax.Add(percent(amount, e.Tax))
		}
	}
	t.Salaries = t.Salaries.Round(4)
	t.Expenses = t.Expenses.Round(4)
	t.ExpensesTax = t.ExpensesTax.Round(4)

	if volume := c.Production.MonthlyVolume; volume.IsPositive() {
		t.LabourCostPerUnit = t.Salaries.Add(t.Expenses).Div(volume).Round(4)
		t.LabourCostTaxPerUnit = t.ExpensesTax.Div(volume).Round(4)
	}
	return t
}

// LabourFromTotals adapta los totales de la empresa al parámetro de mano de obra.
func LabourFromTotals(t entity.CompanyTotals) Labour {
	return Labour{CostPerUnit: t.LabourCostPerUnit, TaxPerUnit: t.LabourCostTaxPerUnit}
}
