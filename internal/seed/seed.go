package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"shoppyglobe/internal/domain"
)

// Apply replaces the product catalog with the bundled sample set, mirroring
// the original data importer: existing products are cleared first.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items`); err != nil {
		return fmt.Errorf("clear cart items: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM products`); err != nil {
		return fmt.Errorf("clear products: %w", err)
	}

	for _, p := range topProducts {
		if _, err := tx.Exec(ctx, `
INSERT INTO products (name, description, price_cents, stock, images)
VALUES ($1, $2, $3, $4, $5)
`, p.Name, p.Description, p.PriceCents, p.Stock, p.Images); err != nil {
			return fmt.Errorf("insert product %q: %w", p.Name, err)
		}
	}

	return tx.Commit(ctx)
}

var topProducts = []domain.Product{
	{
		Name:        "Essence Mascara Lash Princess",
		PriceCents:  999,
		Description: "The Essence Mascara Lash Princess is a popular mascara known for its volumizing and lengthening effects. Achieve dramatic lashes with this long-lasting and cruelty-free formula.",
		Stock:       15,
		Images:      []string{"https://cdn.dummyjson.com/products/images/beauty/Essence%20Mascara%20Lash%20Princess/1.png"},
	},
	{
		Name:        "Eyeshadow Palette with Mirror",
		PriceCents:  1999,
		Description: "The Eyeshadow Palette with Mirror offers a versatile range of eyeshadow shades for creating stunning eye looks. With a built-in mirror, it's convenient for on-the-go makeup application.",
		Stock:       15,
		Images:      []string{"https://cdn.dummyjson.com/products/images/beauty/Eyeshadow%20Palette%20with%20Mirror/1.png"},
	},
	{
		Name:        "Powder Canister",
		PriceCents:  1499,
		Description: "The Powder Canister is a finely milled setting powder designed to set makeup and control shine. With a lightweight and translucent formula, it provides a smooth and matte finish.",
		Stock:       15,
		Images:      []string{"https://cdn.dummyjson.com/products/images/beauty/Powder%20Canister/1.png"},
	},
	{
		Name:        "Red Lipstick",
		PriceCents:  1299,
		Description: "The Red Lipstick is a classic and bold choice for adding a pop of color to your lips. With a creamy and pigmented formula, it provides a vibrant and long-lasting finish.",
		Stock:       15,
		Images:      []string{"https://cdn.dummyjson.com/products/images/beauty/Red%20Lipstick/1.png"},
	},
	{
		Name:        "Red Nail Polish",
		PriceCents:  899,
		Description: "The Red Nail Polish offers a rich and glossy red hue for vibrant and polished nails. With a quick-drying formula, it provides a salon-quality finish at home.",
		Stock:       15,
		Images:      []string{"https://cdn.dummyjson.com/products/images/beauty/Red%20Nail%20Polish/1.png"},
	},
	{
		Name:        "Calvin Klein CK One",
		PriceCents:  4999,
		Description: "CK One by Calvin Klein is a classic unisex fragrance, known for its fresh and clean scent. It's a versatile fragrance suitable for everyday wear.",
		Stock:       15,
		Images:      []string{"https://cdn.dummyjson.com/products/images/fragrances/Calvin%20Klein%20CK%20One/1.png"},
	},
}
