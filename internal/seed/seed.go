// Package seed loads the sample beef catalogue and the bootstrap administrator.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/corray333/backend-labs/meatshop/internal/service/errs"
	"github.com/corray333/backend-labs/meatshop/internal/service/models/product"
	"github.com/corray333/backend-labs/meatshop/internal/service/models/user"
	"github.com/corray333/backend-labs/meatshop/internal/service/services/identitysvc"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type catalogService interface {
	ListAll(ctx context.Context) ([]product.Product, error)
	Create(ctx context.Context, p product.Product) (product.Product, error)
}

type identityService interface {
	CreateAdmin(ctx context.Context, in user.Registration) (identitysvc.Session, error)
}

// Admin is the bootstrap administrator account.
var Admin = user.Registration{
	Name:     "Admin",
	Email:    "admin@meatshop.com",
	Password: "admin123",
	Phone:    "6383938001",
}

func variants(weights []string, prices []int64, stocks []int) []product.WeightVariant {
	result := make([]product.WeightVariant, len(weights))
	for i := range weights {
		result[i] = product.WeightVariant{
			Weight: weights[i],
			Price:  decimal.NewFromInt(prices[i]),
			Stock:  stocks[i],
		}
	}

	return result
}

var std = []string{"250g", "500g", "1kg"}

// Products is the sample catalogue.
var Products = []product.Product{
	{
		Name:           "Beef Curry Cut",
		Description:    "Premium bone-in beef cut into curry-sized pieces. Perfect for traditional beef curries, biryanis, and slow-cooked dishes.",
		Image:          "https://images.unsplash.com/photo-1603048297172-c92544798d5a?w=500",
		WeightVariants: variants(std, []int64{180, 350, 680}, []int{50, 40, 30}),
		IsBestSeller:   true,
	},
	{
		Name:           "Beef Steak Cuts",
		Description:    "Premium quality beef steak cuts, perfect for grilling, pan-searing, or BBQ. Tender and juicy with excellent marbling.",
		Image:          "https://images.unsplash.com/photo-1603360946369-dc9bb6258143?w=500",
		WeightVariants: variants(std, []int64{220, 420, 800}, []int{40, 35, 25}),
		IsBestSeller:   true,
	},
	{
		Name:           "Boneless Beef",
		Description:    "Prime boneless beef pieces, excellent for dry curries, stir-fries, and quick-cooking recipes. Lean and tender.",
		Image:          "https://images.unsplash.com/photo-1602473812169-8ac76fdce848?w=500",
		WeightVariants: variants(std, []int64{200, 380, 720}, []int{45, 35, 25}),
		IsBestSeller:   true,
	},
	{
		Name:           "Beef Keema (Mince)",
		Description:    "Freshly ground beef mince, ideal for kebabs, koftas, burgers, samosas, and authentic beef dishes.",
		Image:          "https://images.unsplash.com/photo-1607623814075-e51df1bdc82f?w=500",
		WeightVariants: variants(std, []int64{170, 320, 600}, []int{50, 40, 30}),
	},
	{
		Name:           "Beef Ribs",
		Description:    "Meaty beef ribs perfect for slow cooking, BBQ, or braising. Rich flavor with tender meat that falls off the bone.",
		Image:          "https://images.unsplash.com/photo-1544025162-d76694265947?w=500",
		WeightVariants: variants([]string{"500g", "1kg", "1.5kg"}, []int64{300, 580, 850}, []int{35, 25, 15}),
		IsBestSeller:   true,
	},
	{
		Name:           "Beef Liver",
		Description:    "Fresh beef liver, rich in iron and nutrients. Perfect for traditional liver fry and curries.",
		Image:          "https://images.unsplash.com/photo-1603048297172-c92544798d5a?w=500",
		WeightVariants: variants(std, []int64{80, 150, 280}, []int{40, 30, 20}),
	},
	{
		Name:           "Beef Shank",
		Description:    "Cross-cut beef shank with bone and marrow. Ideal for making rich beef soups, stews, and nihari.",
		Image:          "https://images.unsplash.com/photo-1558030006-450675393462?w=500",
		WeightVariants: variants([]string{"500g", "1kg", "2kg"}, []int64{200, 380, 720}, []int{30, 25, 15}),
	},
	{
		Name:           "Beef Brisket",
		Description:    "Premium beef brisket, perfect for slow smoking, braising, or making traditional dishes. Tender and flavorful.",
		Image:          "https://images.unsplash.com/photo-1529193591184-b1d58069ecdd?w=500",
		WeightVariants: variants([]string{"500g", "1kg", "2kg"}, []int64{280, 540, 1000}, []int{30, 20, 10}),
		IsBestSeller:   true,
	},
	{
		Name:           "Beef Tenderloin",
		Description:    "The most tender cut of beef, perfect for special occasions. Ideal for steaks, roasts, and fine dining recipes.",
		Image:          "https://images.unsplash.com/photo-1588168333986-5078d3ae3976?w=500",
		WeightVariants: variants(std, []int64{320, 620, 1200}, []int{25, 20, 10}),
		IsBestSeller:   true,
	},
	{
		Name:           "Beef Bone Marrow",
		Description:    "Premium beef bone marrow, perfect for making rich bone broth, soups, or roasting. Highly nutritious.",
		Image:          "https://images.unsplash.com/photo-1603048297172-c92544798d5a?w=500",
		WeightVariants: variants([]string{"500g", "1kg", "2kg"}, []int64{120, 220, 400}, []int{40, 30, 20}),
	},
	{
		Name:           "Beef Tongue",
		Description:    "Fresh beef tongue, a delicacy when slow-cooked. Perfect for tacos, sandwiches, or traditional preparations.",
		Image:          "https://images.unsplash.com/photo-1602473812169-8ac76fdce848?w=500",
		WeightVariants: variants([]string{"500g", "1kg"}, []int64{180, 340}, []int{25, 20}),
	},
	{
		Name:           "Beef Nihari Cut",
		Description:    "Special cut with bone and meat, perfect for making authentic nihari. Slow-cooked for hours to perfection.",
		Image:          "https://images.unsplash.com/photo-1603048297172-c92544798d5a?w=500",
		WeightVariants: variants([]string{"500g", "1kg", "2kg"}, []int64{250, 480, 920}, []int{30, 25, 15}),
		IsBestSeller:   true,
	},
}

// Result reports what Run inserted.
type Result struct {
	Products     int
	AdminCreated bool
}

// Run inserts every sample product whose name is not in the catalogue yet and
// creates the administrator unless one exists. Running it twice is harmless.
func Run(ctx context.Context, catalog catalogService, identity identityService) (Result, error) {
	existing, err := catalog.ListAll(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("catalog.ListAll: %w", err)
	}
	names := lo.SliceToMap(existing, func(p product.Product) (string, struct{}) {
		return p.Name, struct{}{}
	})

	var result Result
	for _, p := range Products {
		if _, ok := names[p.Name]; ok {
			continue
		}

		p.Category = product.CategoryBeef
		p.IsAvailable = true
		p.WeightVariants = append([]product.WeightVariant(nil), p.WeightVariants...)
		if _, err := catalog.Create(ctx, p); err != nil {
			return result, fmt.Errorf("catalog.Create %q: %w", p.Name, err)
		}
		result.Products++
	}
	slog.Info("Seeded products", "count", result.Products, "skipped", len(Products)-result.Products)

	_, err = identity.CreateAdmin(ctx, Admin)
	switch {
	case err == nil:
		result.AdminCreated = true
		slog.Info("Created admin user", "email", Admin.Email)
	case errs.CodeOf(err) == "ADMIN_EXISTS":
		slog.Info("Admin user already exists")
	case errors.Is(err, errs.ErrConflict):
		slog.Warn("Admin email is taken by a customer account", "email", Admin.Email)
	default:
		return result, fmt.Errorf("identity.CreateAdmin: %w", err)
	}

	return result, nil
}
