package state

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Costeo-api/internal/domain"
	"github.com/jhoicas/Costeo-api/internal/domain/costing"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
)

// CompanyInfoInput entrada de UPDATE_COMPANY_INFO.
type CompanyInfoInput struct {
	Name    string `json:"name" validate:"required,max=200"`
	TaxID   string `json:"taxId" validate:"max=50"`
	Country string `json:"country" validate:"omitempty,len=2,uppercase"`
}

// EmployeeInput entrada de ADD_EMPLOYEE.
type EmployeeInput struct {
	Name     string          `json:"name" validate:"required,max=200"`
	Salary   decimal.Decimal `json:"salary"`
	Currency string          `json:"currency" validate:"required,currency_code"`
}

// ExpenseInput entrada de ADD_EXPENSE.
type ExpenseInput struct {
	Name     string          `json:"name" validate:"required,max=200"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency" validate:"required,currency_code"`
	Tax      decimal.Decimal `json:"tax"`
}

// ProductionInput entrada de UPDATE_PRODUCTION.
type ProductionInput struct {
	MonthlyVolume decimal.Decimal `json:"monthlyVolume"`
	Unit          string          `json:"unit" validate:"required,max=20"`
}

// ReduceCompany transición del dominio empresa. Cada cambio recalcula los totales.
func ReduceCompany(current entity.Company, a Action, d Deps) (entity.Company, error) {
	next := current
	switch a.Type {
	case UpdateCompanyInfo:
		in, ok := a.Payload.(CompanyInfoInput)
		if !ok {
			return current, invalidPayload(a)
		}
		if err := checkStruct(in); err != nil {
			return current, err
		}
		next.Info = entity.CompanyInfo{Name: in.Name, TaxID: in.TaxID, Country: in.Country}
	case AddEmployee:
		in, ok := a.Payload.(EmployeeInput)
		if !ok {
			return current, invalidPayload(a)
		}
		if err := checkStruct(in); err != nil {
			return current, err
		}
		if err := nonNegative(map[string]*decimal.Decimal{"salary": &in.Salary}); err != nil {
			return current, err
		}
		next.Employees = append(slices.Clone(current.Employees), entity.Employee{
			ID: d.newID(), Name: in.Name, Salary: in.Salary, Currency: in.Currency,
		})
	case RemoveEmployee:
		in, ok := a.Payload.(IDInput)
		if !ok {
			return current, invalidPayload(a)
		}
		idx := slices.IndexFunc(current.Employees, func(e entity.Employee) bool { return e.ID == in.ID })
		if idx < 0 {
			return current, notFound("empleado", in.ID)
		}
		next.Employees = slices.Delete(slices.Clone(current.Employees), idx, idx+1)
	case AddExpense:
		in, ok := a.Payload.(ExpenseInput)
		if !ok {
			return current, invalidPayload(a)
		}
		if err := checkStruct(in); err != nil {
			return current, err
		}
		if err := nonNegative(map[string]*decimal.Decimal{"amount": &in.Amount, "tax": &in.Tax}); err != nil {
			return current, err
		}
		next.Expenses = append(slices.Clone(current.Expenses), entity.Expense{
			ID: d.newID(), Name: in.Name, Amount: in.Amount, Currency: in.Currency, Tax: in.Tax,
		})
	case RemoveExpense:
		in, ok := a.Payload.(IDInput)
		if !ok {
			return current, invalidPayload(a)
		}
		idx := slices.IndexFunc(current.Expenses, func(e entity.Expense) bool { return e.ID == in.ID })
		if idx < 0 {
			return current, notFound("gasto", in.ID)
		}
		next.Expenses = slices.Delete(slices.Clone(current.Expenses), idx, idx+1)
	case UpdateProduction:
		in, ok := a.Payload.(ProductionInput)
		if !ok {
			return current, invalidPayload(a)
		}
		if err := checkStruct(in); err != nil {
			return current, err
		}
		if err := nonNegative(map[string]*decimal.Decimal{"monthlyVolume": &in.MonthlyVolume}); err != nil {
			return current, err
		}
		next.Production = entity.Production{MonthlyVolume: in.MonthlyVolume, Unit: in.Unit}
	case RecalculateCompanyTotals:
	default:
		unknownAction(entity.KeyCompany, a)
	}

	next.Totals = costing.CompanyTotals(next, d.Converter())
	if entity.CompanyEqual(next, current) {
		return current, domain.NoChange()
	}
	return next, nil
}
