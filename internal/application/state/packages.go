package state

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Costeo-api/internal/domain"
	"github.com/jhoicas/Costeo-api/internal/domain/costing"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
)

// PackageItemInput ítem de empaque. BoxCapacity es obligatorio en cajas.
type PackageItemInput struct {
	Name         string          `json:"name" validate:"required,max=200"`
	PackageType  string          `json:"packageType" validate:"required,oneof=container box other"`
	ItemPrice    decimal.Decimal `json:"itemPrice"`
	ItemCurrency string          `json:"itemCurrency" validate:"required,currency_code"`
	ItemTax      decimal.Decimal `json:"itemTax"`
	BoxCapacity  decimal.Decimal `json:"boxCapacity"`
}

// PackageInput entrada de ADD_PACKAGE.
type PackageInput struct {
	Name            string             `json:"name" validate:"required,max=200"`
	ProductType     string             `json:"productType" validate:"required,oneof=liquid solid"`
	PackageCapacity decimal.Decimal    `json:"packageCapacity"`
	Items           []PackageItemInput `json:"items" validate:"dive"`
}

// PackagePatch entrada de UPDATE_PACKAGE.
type PackagePatch struct {
	ID              string              `json:"packageId" validate:"required"`
	Name            *string             `json:"name" validate:"omitempty,min=1,max=200"`
	ProductType     *string             `json:"productType" validate:"omitempty,oneof=liquid solid"`
	PackageCapacity *decimal.Decimal    `json:"packageCapacity"`
	Items           *[]PackageItemInput `json:"items" validate:"omitempty,dive"`
}

// ReducePackages transición del dominio empaques.
func ReducePackages(current []entity.Package, a Action, d Deps) ([]entity.Package, error) {
	switch a.Type {
	case AddPackage:
		in, ok := a.Payload.(PackageInput)
		if !ok {
			return current, invalidPayload(a)
		}
		return addPackage(current, in, d)
	case UpdatePackage:
		in, ok := a.Payload.(PackagePatch)
		if !ok {
			return current, invalidPayload(a)
		}
		return updatePackage(current, in, d)
	case DeletePackage:
		in, ok := a.Payload.(IDInput)
		if !ok {
			return current, invalidPayload(a)
		}
		return deletePackage(current, in, d)
	case RecalculatePackages:
		return recalculatePackages(current, d)
	case SetPackages:
		in, ok := a.Payload.([]entity.Package)
		if !ok {
			return current, invalidPayload(a)
		}
		if err := checkPackages(in); err != nil {
			return current, err
		}
		if slices.EqualFunc(current, in, entity.PackageEqual) {
			return current, domain.NoChange()
		}
		return slices.Clone(in), nil
	default:
		unknownAction(entity.KeyPackages, a)
		return current, nil
	}
}

func buildItems(in []PackageItemInput) ([]entity.PackageItem, error) {
	items := make([]entity.PackageItem, 0, len(in))
	for _, it := range in {
		if err := nonNegative(map[string]*decimal.Decimal{"itemPrice": &it.ItemPrice, "itemTax": &it.ItemTax, "boxCapacity": &it.BoxCapacity}); err != nil {
			return nil, err
		}
		if it.PackageType == entity.PackageTypeBox {
			if err := positive("boxCapacity", it.BoxCapacity); err != nil {
				return nil, err
			}
		}
		items = append(items, entity.PackageItem{
			Name:         it.Name,
			PackageType:  it.PackageType,
			ItemPrice:    it.ItemPrice,
			ItemCurrency: it.ItemCurrency,
			ItemTax:      it.ItemTax,
			BoxCapacity:  it.BoxCapacity,
		})
	}
	return items, nil
}

func addPackage(current []entity.Package, in PackageInput, d Deps) ([]entity.Package, error) {
	if err := checkStruct(in); err != nil {
		return current, err
	}
	if err := positive("packageCapacity", in.PackageCapacity); err != nil {
		return current, err
	}
	items, err := buildItems(in.Items)
	if err != nil {
		return current, err
	}
	now := d.now()
	p := entity.Package{
		ID:              d.newID(),
		Name:            in.Name,
		ProductType:     in.ProductType,
		PackageCapacity: in.PackageCapacity,
		Items:           items,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	p = costing.RecomputePackage(p, d.Env(), now)
	return append(slices.Clone(current), p), nil
}

func updatePackage(current []entity.Package, in PackagePatch, d Deps) ([]entity.Package, error) {
	if err := checkStruct(in); err != nil {
		return current, err
	}
	if in.PackageCapacity != nil {
		if err := positive("packageCapacity", *in.PackageCapacity); err != nil {
			return current, err
		}
	}
	idx := slices.IndexFunc(current, func(p entity.Package) bool { return p.ID == in.ID })
	if idx < 0 {
		return current, notFound("empaque", in.ID)
	}

	existing := current[idx]
	merged := existing
	if in.Name != nil {
		merged.Name = *in.Name
	}
	if in.ProductType != nil {
		merged.ProductType = *in.ProductType
	}
	if in.PackageCapacity != nil {
		merged.PackageCapacity = *in.PackageCapacity
	}
	if in.Items != nil {
		items, err := buildItems(*in.Items)
		if err != nil {
			return current, err
		}
		merged.Items = items
	}
	if entity.PackageEqual(merged, existing) {
		return current, domain.NoChange()
	}

	now := d.now()
	merged = costing.RecomputePackage(merged, d.Env(), now)
	merged.UpdatedAt = now

	out := slices.Clone(current)
	out[idx] = merged
	return out, nil
}

func deletePackage(current []entity.Package, in IDInput, d Deps) ([]entity.Package, error) {
	if err := checkStruct(in); err != nil {
		return current, err
	}
	idx := slices.IndexFunc(current, func(p entity.Package) bool { return p.ID == in.ID })
	if idx < 0 {
		return current, notFound("empaque", in.ID)
	}
	used := 0
	for _, ep := range d.Refs.EndProducts {
		if ep.PackageID == in.ID {
			used++
		}
	}
	if used > 0 {
		return current, domain.InUse(domain.CodePackageInUse, used)
	}
	return slices.Delete(slices.Clone(current), idx, idx+1), nil
}

// recalculatePackages recalcula los empaques tras un cambio de tasas.
func recalculatePackages(current []entity.Package, d Deps) ([]entity.Package, error) {
	env := d.Env()
	now := d.now()
	var out []entity.Package
	for i, p := range current {
		next := costing.RecomputePackage(p, env, now)
		if entity.PackageEqual(next, p) {
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
