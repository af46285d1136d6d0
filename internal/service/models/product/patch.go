package product

// Patch is a partial product update. Nil fields keep their stored value.
// A non-nil WeightVariants replaces the whole variant list.
type Patch struct {
	Name           *string
	Description    *string
	Category       *Category
	Image          *string
	WeightVariants []WeightVariant
	IsBestSeller   *bool
	IsAvailable    *bool
}

// Apply returns p with the provided fields overlaid.
func (pt Patch) Apply(p Product) Product {
	if pt.Name != nil {
		p.Name = *pt.Name
	}
	if pt.Description != nil {
		p.Description = *pt.Description
	}
	if pt.Category != nil {
		p.Category = *pt.Category
	}
	if pt.Image != nil {
		p.Image = *pt.Image
	}
	if pt.WeightVariants != nil {
		p.WeightVariants = pt.WeightVariants
	}
	if pt.IsBestSeller != nil {
		p.IsBestSeller = *pt.IsBestSeller
	}
	if pt.IsAvailable != nil {
		p.IsAvailable = *pt.IsAvailable
	}

	return p
}
