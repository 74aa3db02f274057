package state

import (
	"slices"

	"github.com/jhoicas/Costeo-api/internal/domain"
	"github.com/jhoicas/Costeo-api/internal/domain/costing"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
)

// EndProductInput entrada de ADD_END_PRODUCT.
type EndProductInput struct {
	RecipeID       string `json:"recipeId" validate:"required"`
	PackageID      string `json:"packageId" validate:"required"`
	Name           string `json:"name" validate:"required,max=200"`
	CommercialName string `json:"commercialName" validate:"max=200"`
	Notes          string `json:"notes" validate:"max=2000"`
}

// EndProductPatch entrada de UPDATE_END_PRODUCT.
type EndProductPatch struct {
	ID             string  `json:"endId" validate:"required"`
	RecipeID       *string `json:"recipeId" validate:"omitempty,min=1"`
	PackageID      *string `json:"packageId" validate:"omitempty,min=1"`
	Name           *string `json:"name" validate:"omitempty,min=1,max=200"`
	CommercialName *string `json:"commercialName" validate:"omitempty,max=200"`
	Notes          *string `json:"notes" validate:"omitempty,max=2000"`
}

// ReduceEndProducts transición del dominio productos finales.
// Recetas y empaques se leen de d.Refs.
func ReduceEndProducts(current []entity.EndProduct, a Action, d Deps) ([]entity.EndProduct, error) {
	switch a.Type {
	case AddEndProduct:
		in, ok := a.Payload.(EndProductInput)
		if !ok {
			return current, invalidPayload(a)
		}
		return addEndProduct(current, in, d)
	case UpdateEndProduct:
		in, ok := a.Payload.(EndProductPatch)
		if !ok {
			return current, invalidPayload(a)
		}
		return updateEndProduct(current, in, d)
	case DeleteEndProduct:
		in, ok := a.Payload.(IDInput)
		if !ok {
			return current, invalidPayload(a)
		}
		if err := checkStruct(in); err != nil {
			return current, err
		}
		idx := slices.IndexFunc(current, func(ep entity.EndProduct) bool { return ep.ID == in.ID })
		if idx < 0 {
			return current, notFound("producto final", in.ID)
		}
		return slices.Delete(slices.Clone(current), idx, idx+1), nil
	case RecalculateEndProducts:
		out, changed := costing.RecomputeEndProducts(current, recipeIndex(d.Refs.Recipes), packageIndex(d.Refs.Packages), d.Labour(), d.now(), d.limit())
		if !changed {
			return current, domain.NoChange()
		}
		return out, nil
	case SetEndProducts:
		in, ok := a.Payload.([]entity.EndProduct)
		if !ok {
			return current, invalidPayload(a)
		}
		if err := checkEndProducts(in); err != nil {
			return current, err
		}
		if slices.EqualFunc(current, in, entity.EndProductEqual) {
			return current, domain.NoChange()
		}
		return slices.Clone(in), nil
	default:
		unknownAction(entity.KeyEndProducts, a)
		return current, nil
	}
}

func recipeIndex(recipes []entity.Recipe) map[string]entity.Recipe {
	idx := make(map[string]entity.Recipe, len(recipes))
	for _, r := range recipes {
		idx[r.ID] = r
	}
	return idx
}

func packageIndex(packages []entity.Package) map[string]entity.Package {
	idx := make(map[string]entity.Package, len(packages))
	for _, p := range packages {
		idx[p.ID] = p
	}
	return idx
}

func resolveLinks(recipeID, packageID string, d Deps) (entity.Recipe, entity.Package, error) {
	r, ok := recipeIndex(d.Refs.Recipes)[recipeID]
	if !ok {
		return entity.Recipe{}, entity.Package{}, notFound("receta", recipeID)
	}
	p, ok := packageIndex(d.Refs.Packages)[packageID]
	if !ok {
		return entity.Recipe{}, entity.Package{}, notFound("empaque", packageID)
	}
	return r, p, nil
}

func addEndProduct(current []entity.EndProduct, in EndProductInput, d Deps) ([]entity.EndProduct, error) {
	if err := checkStruct(in); err != nil {
		return current, err
	}
	r, p, err := resolveLinks(in.RecipeID, in.PackageID, d)
	if err != nil {
		return current, err
	}
	now := d.now()
	cost := costing.EndProductCost(r, p, d.Labour())
	ep := entity.EndProduct{
		ID:             d.newID(),
		RecipeID:       in.RecipeID,
		PackageID:      in.PackageID,
		Name:           in.Name,
		CommercialName: in.CommercialName,
		Notes:          in.Notes,
		Cost:           cost,
		CostHistory:    []entity.PricePoint{{Date: now, Amount: cost.TotalWithTax}},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	return append(slices.Clone(current), ep), nil
}

func updateEndProduct(current []entity.EndProduct, in EndProductPatch, d Deps) ([]entity.EndProduct, error) {
	if err := checkStruct(in); err != nil {
		return current, err
	}
	idx := slices.IndexFunc(current, func(ep entity.EndProduct) bool { return ep.ID == in.ID })
	if idx < 0 {
		return current, notFound("producto final", in.ID)
	}

	existing := current[idx]
	merged := existing
	if in.RecipeID != nil {
		merged.RecipeID = *in.RecipeID
	}
	if in.PackageID != nil {
		merged.PackageID = *in.PackageID
	}
	if in.Name != nil {
		merged.Name = *in.Name
	}
	if in.CommercialName != nil {
		merged.CommercialName = *in.CommercialName
	}
	if in.Notes != nil {
		merged.Notes = *in.Notes
	}
	if entity.EndProductEqual(merged, existing) {
		return current, domain.NoChange()
	}

	now := d.now()
	if merged.RecipeID != existing.RecipeID || merged.PackageID != existing.PackageID {
		r, p, err := resolveLinks(merged.RecipeID, merged.PackageID, d)
		if err != nil {
			return current, err
		}
		cost := costing.EndProductCost(r, p, d.Labour())
		if !cost.Equal(existing.Cost) {
			merged.Cost = cost
			merged.CostHistory = costing.PrependPricePoint(existing.CostHistory, cost.TotalWithTax, now, d.limit())
		}
	}
	merged.UpdatedAt = now

	out := slices.Clone(current)
	out[idx] = merged
	return out, nil
}
