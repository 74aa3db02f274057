package state

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Costeo-api/internal/domain"
	"github.com/jhoicas/Costeo-api/internal/domain/costing"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
)

// MaterialInput entrada de ADD_MATERIAL.
type MaterialInput struct {
	Name     string          `json:"name" validate:"required,max=200"`
	Provider string          `json:"provider" validate:"max=200"`
	Price    decimal.Decimal `json:"price"`
	Tax      decimal.Decimal `json:"tax"`
	Currency string          `json:"currency" validate:"required,currency_code"`
	Unit     string          `json:"unit" validate:"required,max=20"`
	Density  decimal.Decimal `json:"density"`
}

// MaterialPatch entrada de UPDATE_MATERIAL: solo los campos no nulos se aplican.
type MaterialPatch struct {
	ID       string           `json:"materialId" validate:"required"`
	Name     *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Provider *string          `json:"provider" validate:"omitempty,max=200"`
	Price    *decimal.Decimal `json:"price"`
	Tax      *decimal.Decimal `json:"tax"`
	Currency *string          `json:"currency" validate:"omitempty,currency_code"`
	Unit     *string          `json:"unit" validate:"omitempty,min=1,max=20"`
	Density  *decimal.Decimal `json:"density"`
}

// ReduceMaterials transición del dominio materiales.
func ReduceMaterials(current []entity.Material, a Action, d Deps) ([]entity.Material, error) {
	switch a.Type {
	case AddMaterial:
		in, ok := a.Payload.(MaterialInput)
		if !ok {
			return current, invalidPayload(a)
		}
		return addMaterial(current, in, d)
	case UpdateMaterial:
		in, ok := a.Payload.(MaterialPatch)
		if !ok {
			return current, invalidPayload(a)
		}
		return updateMaterial(current, in, d)
	case DeleteMaterial:
		in, ok := a.Payload.(IDInput)
		if !ok {
			return current, invalidPayload(a)
		}
		return deleteMaterial(current, in, d)
	case RecalculateLocalPrices:
		return recalculateLocalPrices(current, d)
	case SetMaterials:
		in, ok := a.Payload.([]entity.Material)
		if !ok {
			return current, invalidPayload(a)
		}
		if err := checkMaterials(in); err != nil {
			return current, err
		}
		if slices.EqualFunc(current, in, entity.MaterialEqual) {
			return current, domain.NoChange()
		}
		return slices.Clone(in), nil
	default:
		unknownAction(entity.KeyMaterials, a)
		return current, nil
	}
}

func addMaterial(current []entity.Material, in MaterialInput, d Deps) ([]entity.Material, error) {
	if err := checkStruct(in); err != nil {
		return current, err
	}
	if err := nonNegative(map[string]*decimal.Decimal{"price": &in.Price, "tax": &in.Tax, "density": &in.Density}); err != nil {
		return current, err
	}
	now := d.now()
	m := entity.Material{
		ID:        d.newID(),
		Name:      in.Name,
		Provider:  in.Provider,
		Price:     in.Price,
		Tax:       in.Tax,
		Currency:  in.Currency,
		Unit:      in.Unit,
		Density:   in.Density,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m = costing.TrackMaterialPrices(m, d.Env(), now)
	return append(slices.Clone(current), m), nil
}

func updateMaterial(current []entity.Material, in MaterialPatch, d Deps) ([]entity.Material, error) {
	if err := checkStruct(in); err != nil {
		return current, err
	}
	if err := nonNegative(map[string]*decimal.Decimal{"price": in.Price, "tax": in.Tax, "density": in.Density}); err != nil {
		return current, err
	}
	idx := slices.IndexFunc(current, func(m entity.Material) bool { return m.ID == in.ID })
	if idx < 0 {
		return current, notFound("material", in.ID)
	}

	existing := current[idx]
	merged := existing
	if in.Name != nil {
		merged.Name = *in.Name
	}
	if in.Provider != nil {
		merged.Provider = *in.Provider
	}
	if in.Price != nil {
		merged.Price = *in.Price
	}
	if in.Tax != nil {
		merged.Tax = *in.Tax
	}
	if in.Currency != nil {
		merged.Currency = *in.Currency
	}
	if in.Unit != nil {
		merged.Unit = *in.Unit
	}
	if in.Density != nil {
		merged.Density = *in.Density
	}
	if entity.MaterialEqual(merged, existing) {
		return current, domain.NoChange()
	}

	now := d.now()
	merged = costing.TrackMaterialPrices(merged, d.Env(), now)
	merged.UpdatedAt = now

	out := slices.Clone(current)
	out[idx] = merged
	return out, nil
}

func deleteMaterial(current []entity.Material, in IDInput, d Deps) ([]entity.Material, error) {
	if err := checkStruct(in); err != nil {
		return current, err
	}
	idx := slices.IndexFunc(current, func(m entity.Material) bool { return m.ID == in.ID })
	if idx < 0 {
		return current, notFound("material", in.ID)
	}
	used := 0
	for _, r := range d.Refs.Recipes {
		if r.UsesMaterial(in.ID) {
			used++
		}
	}
	if used > 0 {
		return current, domain.InUse(domain.CodeMaterialInUse, used)
	}
	return slices.Delete(slices.Clone(current), idx, idx+1), nil
}

// recalculateLocalPrices registra el precio local de cada material tras un cambio de tasas.
// Solo cambia el historial derivado; UpdatedAt se conserva.
func recalculateLocalPrices(current []entity.Material, d Deps) ([]entity.Material, error) {
	env := d.Env()
	now := d.now()
	var out []entity.Material
	for i, m := range current {
		tracked := costing.TrackMaterialPrices(m, env, now)
		if entity.MaterialEqual(tracked, m) {
			continue
		}
		if out == nil {
			out = slices.Clone(current)
		}
		out[i] = tracked
	}
	if out == nil {
		return current, domain.NoChange()
	}
	return out, nil
}
