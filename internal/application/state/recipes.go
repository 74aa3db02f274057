package state

import (
	"errors"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Costeo-api/internal/domain"
	"github.com/jhoicas/Costeo-api/internal/domain/costing"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
)

// RecipeLineInput línea de receta: el precio, la moneda y el impuesto se leen del material.
type RecipeLineInput struct {
	MaterialID string          `json:"materialId" validate:"required"`
	Amount     decimal.Decimal `json:"amount"`
	Unit       string          `json:"unit" validate:"max=20"`
}

// RecipeInput entrada de ADD_RECIPE.
type RecipeInput struct {
	ProductID string            `json:"productId"`
	Name      string            `json:"name" validate:"required,max=200"`
	Yield     decimal.Decimal   `json:"yield"`
	Unit      string            `json:"unit" validate:"max=20"`
	Density   decimal.Decimal   `json:"density"`
	Materials []RecipeLineInput `json:"materials" validate:"dive"`
}

// RecipePatch entrada de UPDATE_RECIPE.
type RecipePatch struct {
	ID        string             `json:"recipeId" validate:"required"`
	ProductID *string            `json:"productId"`
	Name      *string            `json:"name" validate:"omitempty,min=1,max=200"`
	Yield     *decimal.Decimal   `json:"yield"`
	Unit      *string            `json:"unit" validate:"omitempty,max=20"`
	Density   *decimal.Decimal   `json:"density"`
	Materials *[]RecipeLineInput `json:"materials" validate:"omitempty,dive"`
}

// ReduceRecipes transición del dominio recetas. Los materiales se leen de d.Refs.Materials.
func ReduceRecipes(current []entity.Recipe, a Action, d Deps) ([]entity.Recipe, error) {
	switch a.Type {
	case AddRecipe:
		in, ok := a.Payload.(RecipeInput)
		if !ok {
			return current, invalidPayload(a)
		}
		return addRecipe(current, in, d)
	case UpdateRecipe:
		in, ok := a.Payload.(RecipePatch)
		if !ok {
			return current, invalidPayload(a)
		}
		return updateRecipe(current, in, d)
	case DeleteRecipe:
		in, ok := a.Payload.(IDInput)
		if !ok {
			return current, invalidPayload(a)
		}
		return deleteRecipe(current, in, d)
	case UpdateRecipeCost:
		in, ok := a.Payload.(IDInput)
		if !ok {
			return current, invalidPayload(a)
		}
		return updateRecipeCost(current, in, d)
	case RecalculateRecipes:
		return recalculateRecipes(current, d)
	case SetRecipes:
		in, ok := a.Payload.([]entity.Recipe)
		if !ok {
			return current, invalidPayload(a)
		}
		if err := checkRecipes(in); err != nil {
			return current, err
		}
		if slices.EqualFunc(current, in, entity.RecipeEqual) {
			return current, domain.NoChange()
		}
		return slices.Clone(in), nil
	default:
		unknownAction(entity.KeyRecipes, a)
		return current, nil
	}
}

func materialIndex(materials []entity.Material) map[string]entity.Material {
	idx := make(map[string]entity.Material, len(materials))
	for _, m := range materials {
		idx[m.ID] = m
	}
	return idx
}

// buildLines valida las líneas contra los materiales conocidos.
func buildLines(in []RecipeLineInput, materials map[string]entity.Material) ([]entity.RecipeMaterial, error) {
	lines := make([]entity.RecipeMaterial, 0, len(in))
	for _, l := range in {
		if err := positive("amount", l.Amount); err != nil {
			return nil, err
		}
		m, ok := materials[l.MaterialID]
		if !ok {
			return nil, notFound("material", l.MaterialID)
		}
		unit := l.Unit
		if unit == "" {
			unit = m.Unit
		}
		lines = append(lines, entity.RecipeMaterial{MaterialID: l.MaterialID, Amount: l.Amount, Unit: unit})
	}
	return lines, nil
}

func addRecipe(current []entity.Recipe, in RecipeInput, d Deps) ([]entity.Recipe, error) {
	if err := checkStruct(in); err != nil {
		return current, err
	}
	if err := positive("yield", in.Yield); err != nil {
		return current, err
	}
	if err := nonNegative(map[string]*decimal.Decimal{"density": &in.Density}); err != nil {
		return current, err
	}
	materials := materialIndex(d.Refs.Materials)
	lines, err := buildLines(in.Materials, materials)
	if err != nil {
		return current, err
	}

	now := d.now()
	r := entity.Recipe{
		ID:        d.newID(),
		ProductID: in.ProductID,
		Name:      in.Name,
		Yield:     in.Yield,
		Unit:      in.Unit,
		Density:   in.Density,
		Materials: lines,
		CreatedAt: now,
		UpdatedAt: now,
	}
	env := d.Env()
	r = costing.RefreshRecipeLines(r, materials, env.Units)
	if costed, err := costing.UpdateRecipeCost(r, env, now); err == nil {
		r = costed
	}
	return append(slices.Clone(current), r), nil
}

func updateRecipe(current []entity.Recipe, in RecipePatch, d Deps) ([]entity.Recipe, error) {
	if err := checkStruct(in); err != nil {
		return current, err
	}
	if in.Yield != nil {
		if err := positive("yield", *in.Yield); err != nil {
			return current, err
		}
	}
	if err := nonNegative(map[string]*decimal.Decimal{"density": in.Density}); err != nil {
		return current, err
	}
	idx := slices.IndexFunc(current, func(r entity.Recipe) bool { return r.ID == in.ID })
	if idx < 0 {
		return current, notFound("receta", in.ID)
	}

	existing := current[idx]
	merged := existing
	if in.ProductID != nil {
		merged.ProductID = *in.ProductID
	}
	if in.Name != nil {
		merged.Name = *in.Name
	}
	if in.Yield != nil {
		merged.Yield = *in.Yield
	}
	if in.Unit != nil {
		merged.Unit = *in.Unit
	}
	if in.Density != nil {
		merged.Density = *in.Density
	}
	materials := materialIndex(d.Refs.Materials)
	env := d.Env()
	if in.Materials != nil {
		lines, err := buildLines(*in.Materials, materials)
		if err != nil {
			return current, err
		}
		merged.Materials = lines
		merged = costing.RefreshRecipeLines(merged, materials, env.Units)
	}
	if entity.RecipeEqual(merged, existing) {
		return current, domain.NoChange()
	}

	now := d.now()
	// Un costo igual o una marca de tiempo repetida solo omiten la entrada de historial.
	if costed, err := costing.UpdateRecipeCost(merged, env, now); err == nil {
		merged = costed
	}
	merged.UpdatedAt = now

	out := slices.Clone(current)
	out[idx] = merged
	return out, nil
}

func deleteRecipe(current []entity.Recipe, in IDInput, d Deps) ([]entity.Recipe, error) {
	if err := checkStruct(in); err != nil {
		return current, err
	}
	idx := slices.IndexFunc(current, func(r entity.Recipe) bool { return r.ID == in.ID })
	if idx < 0 {
		return current, notFound("receta", in.ID)
	}
	used := 0
	for _, ep := range d.Refs.EndProducts {
		if ep.RecipeID == in.ID {
			used++
		}
	}
	if used > 0 {
		return current, domain.InUse(domain.CodeRecipeInUse, used)
	}
	return slices.Delete(slices.Clone(current), idx, idx+1), nil
}

func updateRecipeCost(current []entity.Recipe, in IDInput, d Deps) ([]entity.Recipe, error) {
	if err := checkStruct(in); err != nil {
		return current, err
	}
	idx := slices.IndexFunc(current, func(r entity.Recipe) bool { return r.ID == in.ID })
	if idx < 0 {
		return current, notFound("receta", in.ID)
	}
	existing := current[idx]
	env := d.Env()
	refreshed := costing.RefreshRecipeLines(existing, materialIndex(d.Refs.Materials), env.Units)
	costed, err := costing.UpdateRecipeCost(refreshed, env, d.now())
	if err != nil {
		// Líneas con precios nuevos pero mismo costo: se guardan las líneas.
		if !domain.IsSoft(err) || entity.RecipeMaterialsEqual(refreshed.Materials, existing.Materials) {
			return current, err
		}
		costed = refreshed
	}
	out := slices.Clone(current)
	out[idx] = costed
	return out, nil
}

// recalculateRecipes refresca líneas y costo de todas las recetas tras cambios de materiales o tasas.
func recalculateRecipes(current []entity.Recipe, d Deps) ([]entity.Recipe, error) {
	env := d.Env()
	now := d.now()
	materials := materialIndex(d.Refs.Materials)
	var out []entity.Recipe
	for i, r := range current {
		next := costing.RefreshRecipeLines(r, materials, env.Units)
		costed, err := costing.UpdateRecipeCost(next, env, now)
		switch {
		case err == nil:
			next = costed
		case domain.IsSoft(err), errors.Is(err, domain.ErrTooManyRequests):
		default:
			return current, err
		}
		if entity.RecipeEqual(next, r) {
			continue
		}
		if out == nil {
			out = slices.Clone(current)
		}
		out[i] = next
	}
	if out == nil {
		return current, domain.NoChange()
	}
	return out, nil
}
