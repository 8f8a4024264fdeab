package repos

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	applog "organicfoods/internal/log"
)

//go:embed migrations/*.sql
var migrations embed.FS

// OpenDB opens the catalog database, brings the schema up to date and seeds it.
func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dsn, err)
	}
	// one connection keeps ":memory:" databases alive and serialises writers
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", dsn, err)
	}
	if err := migrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := seedProducts(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateUp(db *sqlx.DB) error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	driver, err := sqlite.WithInstance(db.DB, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}
	// m.Close would close db as well, so only the source is released
	defer src.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}
	return nil
}

type seed struct {
	ID                                         int64
	Title, Price, Image, Description, Category string
}

var seedData = []seed{
	{1, "Organic Gala Apples", "4.99", "https://images.unsplash.com/photo-1560806887-1e4cd0b6cbd6?auto=format&fit=crop&w=500&q=60", "Crisp and sweet, picked this week. 1 kg bag.", "fruit"},
	{2, "Heirloom Tomatoes", "5.49", "https://images.unsplash.com/photo-1592924357228-91a4daadcfea?auto=format&fit=crop&w=500&q=60", "Mixed colours from a family farm. 500 g.", "vegetables"},
	{3, "Baby Spinach", "3.25", "https://images.unsplash.com/photo-1576045057995-568f588f82fb?auto=format&fit=crop&w=500&q=60", "Washed and ready to eat. 200 g.", "vegetables"},
	{4, "Raw Wildflower Honey", "11.90", "https://images.unsplash.com/photo-1587049352846-4a222e784d38?auto=format&fit=crop&w=500&q=60", "Unfiltered, from local hives. 350 g jar.", "pantry"},
	{5, "Rolled Oats", "6.10", "https://images.unsplash.com/photo-1614961233913-a5113a4a34ed?auto=format&fit=crop&w=500&q=60", "Stone-ground whole grain oats. 1 kg.", "pantry"},
	{6, "Free-Range Eggs", "7.20", "https://images.unsplash.com/photo-1582722872445-44dc5f7e3c8f?auto=format&fit=crop&w=500&q=60", "A dozen from pasture-raised hens.", "dairy"},
	{7, "Greek Yogurt", "4.75", "https://images.unsplash.com/photo-1488477181946-6428a0291777?auto=format&fit=crop&w=500&q=60", "Whole milk, strained. 500 g tub.", "dairy"},
	{8, "Rainbow Carrots", "2.99", "https://images.unsplash.com/photo-1598170845058-32b9d6a5da37?auto=format&fit=crop&w=500&q=60", "Purple, yellow and orange. 1 kg bunch.", "vegetables"},
	{9, "Hass Avocados", "5.80", "https://images.unsplash.com/photo-1523049673857-eb18f1d7b578?auto=format&fit=crop&w=500&q=60", "Four ripe avocados.", "fruit"},
	{10, "Cold-Pressed Olive Oil", "14.50", "https://images.unsplash.com/photo-1474979266404-7eaacbcd87c5?auto=format&fit=crop&w=500&q=60", "Extra virgin, single estate. 500 ml.", "pantry"},
}

// seedProducts inserts the demo products that are missing. Safe to run on every start.
func seedProducts(db *sqlx.DB) error {
	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	added := 0
	for _, s := range seedData {
		res, err := tx.Exec(`
			INSERT INTO products(id, title, price, image, description, category)
			VALUES(?,?,?,?,?,?)
			ON CONFLICT(id) DO NOTHING
		`, s.ID, s.Title, s.Price, s.Image, s.Description, s.Category)
		if err != nil {
			return fmt.Errorf("seed product %d: %w", s.ID, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			added++
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if added > 0 {
		applog.Info(nil, "seed.products", map[string]any{"added": added})
	}
	return nil
}
