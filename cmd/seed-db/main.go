package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/storefront/internal/domain/auth"
	"github.com/xenking/storefront/internal/domain/catalog"
	"github.com/xenking/storefront/internal/repository"
)

type seedFile struct {
	Categories []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	} `json:"categories"`
	Products []struct {
		Name        string          `json:"name"`
		Description string          `json:"description"`
		UnitPrice   decimal.Decimal `json:"unit_price"`
		Inventory   int             `json:"inventory"`
		Category    string          `json:"category"`
	} `json:"products"`
	Customers []struct {
		Email     string `json:"email"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Phone     string `json:"phone"`
	} `json:"customers"`
}

func main() {
	var (
		databaseURL  string
		seedPath     string
		apiKey       string
		apiKeyPepper string
		adminKey     bool
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&seedPath, "seed-file", "db/seed/catalog.json", "path to catalog seed JSON file")
	flag.StringVar(&apiKey, "api-key", "", "API key to seed (or STORE_SEED_API_KEY env)")
	flag.StringVar(&apiKeyPepper, "api-key-pepper", "", "HMAC pepper for API key hashing (or STORE_API_KEY_PEPPER env)")
	flag.BoolVar(&adminKey, "admin", true, "grant the seeded API key the admin scope")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if apiKey == "" {
		apiKey = os.Getenv("STORE_SEED_API_KEY")
	}
	if apiKey == "" {
		slog.Error("API key is required: set --api-key or STORE_SEED_API_KEY")
		os.Exit(1)
	}
	if apiKeyPepper == "" {
		apiKeyPepper = os.Getenv("STORE_API_KEY_PEPPER")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, seedPath, apiKey, apiKeyPepper, adminKey); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, seedPath, apiKey, pepper string, adminKey bool) error {
	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "create pool")
	}
	defer pool.Close()

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	raw, err := os.ReadFile(seedPath)
	if err != nil {
		return errors.Wrap(err, "read seed file")
	}
	var seed seedFile
	if err := json.Unmarshal(raw, &seed); err != nil {
		return errors.Wrap(err, "parse seed file")
	}

	products := repository.NewProductRepository(pool)
	categories := repository.NewCategoryRepository(pool)

	// Seed the catalog only once; a second run against the same database
	// would otherwise duplicate every row.
	existing, err := products.List(ctx)
	if err != nil {
		return errors.Wrap(err, "list products")
	}
	if len(existing) > 0 {
		slog.Info("catalog already seeded", slog.Int("products", len(existing)))
	} else {
		categoryIDs := make(map[string]int64, len(seed.Categories))
		for _, c := range seed.Categories {
			cat := &catalog.Category{Title: c.Title, Description: c.Description}
			if err := categories.Create(ctx, cat); err != nil {
				return errors.Wrapf(err, "create category %q", c.Title)
			}
			categoryIDs[c.Title] = cat.ID
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(4)
		for _, p := range seed.Products {
			categoryID, ok := categoryIDs[p.Category]
			if !ok {
				return errors.Errorf("product %q references unknown category %q", p.Name, p.Category)
			}
			g.Go(func() error {
				prod := &catalog.Product{
					Name:        p.Name,
					Slug:        catalog.Slugify(p.Name),
					Description: p.Description,
					UnitPrice:   p.UnitPrice,
					Inventory:   p.Inventory,
					CategoryID:  categoryID,
				}
				if err := products.Create(gctx, prod); err != nil {
					return errors.Wrapf(err, "create product %q", p.Name)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		slog.Info("catalog seeded",
			slog.Int("categories", len(seed.Categories)),
			slog.Int("products", len(seed.Products)),
		)
	}

	var firstCustomerID int64
	for i, c := range seed.Customers {
		var id int64
		err := pool.QueryRow(ctx, `INSERT INTO customers (email, first_name, last_name, phone)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (email) DO UPDATE SET phone = EXCLUDED.phone
			RETURNING id`,
			c.Email, c.FirstName, c.LastName, c.Phone,
		).Scan(&id)
		if err != nil {
			return errors.Wrapf(err, "create customer %q", c.Email)
		}
		if i == 0 {
			firstCustomerID = id
		}
	}

	scopes := []string{}
	if adminKey {
		scopes = append(scopes, auth.ScopeAdmin)
	}
	var customerID *int64
	if firstCustomerID != 0 {
		customerID = &firstCustomerID
	}
	hash := auth.HashKey(apiKey, []byte(pepper))
	_, err = pool.Exec(ctx, `INSERT INTO api_keys (key_hash, name, customer_id, scopes)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (key_hash) DO UPDATE SET scopes = EXCLUDED.scopes, active = TRUE`,
		hash, "seed", customerID, scopes,
	)
	if err != nil {
		return errors.Wrap(err, "create api key")
	}
	slog.Info("api key seeded", slog.Bool("admin", adminKey))

	return nil
}
