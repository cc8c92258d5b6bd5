package service

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/storefront/internal/stubapi/models"
)

const (
	DemoEmail    = "demo@storefront.local"
	DemoPassword = "demo-password"

	AdminEmail    = "admin@storefront.local"
	AdminPassword = "admin-password"
)

// Seed fills an empty database with a demo user, an admin, one address and
// a few variants. It does nothing when users already exist.
func Seed(ctx context.Context, auth *AuthService) error {
	n, err := auth.Repo.CountUsers(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	user, err := auth.Register(ctx, DemoEmail, DemoPassword, "user")
	if err != nil {
		return fmt.Errorf("seed user: %w", err)
	}
	if _, err := auth.Register(ctx, AdminEmail, AdminPassword, "admin"); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if err := auth.Repo.CreateAddress(ctx, &models.Address{
		UserID:     user.ID,
		Label:      "Home",
		Line1:      "1 Market Street",
		City:       "Springfield",
		PostalCode: "12345",
		Country:    "US",
		IsDefault:  true,
	}); err != nil {
		return fmt.Errorf("seed address: %w", err)
	}

	variants := []models.Variant{
		{ProductName: "Classic Tee", SKU: "TEE-BLK-M", Size: "M", Color: "black", Price: 1500, Stock: 25, Active: true},
		{ProductName: "Classic Tee", SKU: "TEE-WHT-L", Size: "L", Color: "white", Price: 1500, Stock: 10, Active: true},
		{ProductName: "Canvas Tote", SKU: "TOTE-NAT", Color: "natural", Price: 2200, Stock: 5, Active: true},
		{ProductName: "Wool Beanie", SKU: "BEANIE-GRY", Color: "grey", Price: 1800, Stock: 0, Active: false},
	}
	for i := range variants {
		if err := auth.Repo.CreateVariant(ctx, &variants[i]); err != nil {
			return fmt.Errorf("seed variant %s: %w", variants[i].SKU, err)
		}
	}
	return nil
}
