package main

import (
	"context"
	"fmt"
	"log"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/stockroom/stockroom/internal/app"
	"github.com/stockroom/stockroom/internal/platform/db"
)

const (
	warehouseCount = 23
	productCount   = 40
)

func main() {
	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	ctx := context.Background()
	opts := cfg.DBOptions()
	opts.AutoMigrate = true
	database, err := db.Open(ctx, opts)
	if err != nil {
		log.Fatalf("open %s: %v", cfg.DBDriver, err)
	}
	defer database.Close()

	s := newSeeder(rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5eed)), time.Now().UTC())

	fmt.Println("→ Seeding inventory...")
	if err := db.WithTx(ctx, database.DB, s.inventory); err != nil {
		log.Fatalf("seed inventory: %v", err)
	}
	fmt.Println("→ Seeding users...")
	if err := db.WithTx(ctx, database.DB, s.users); err != nil {
		log.Fatalf("seed users: %v", err)
	}

	fmt.Println("✓ Seed complete at", time.Now().Format(time.RFC3339))
}

type seeder struct {
	rng *rand.Rand
	now time.Time
}

func newSeeder(rng *rand.Rand, now time.Time) *seeder {
	return &seeder{rng: rng, now: now}
}

func (s *seeder) between(lo, hi int) int {
	return lo + s.rng.IntN(hi-lo+1)
}

var (
	words  = []string{"steel", "compact", "heavy", "rustic", "ergonomic", "modular", "sealed", "folding", "industrial", "bolt", "crate", "shelf", "bracket", "panel", "drum", "valve", "hinge", "pallet"}
	colors = []string{"black", "maroon", "green", "navy", "olive", "purple", "teal", "lime", "blue", "silver", "gray", "yellow", "fuchsia", "aqua", "white"}
	cities = []string{"Jakarta", "Surabaya", "Bandung", "Medan", "Semarang", "Makassar", "Palembang", "Denpasar", "Batam", "Pontianak", "Balikpapan", "Manado"}
)

func (s *seeder) title() string {
	parts := make([]string, 3)
	for i := range parts {
		parts[i] = words[s.rng.IntN(len(words))]
	}
	return strings.Join(parts, " ")
}

func (s *seeder) inventory(tx *sqlx.Tx) error {
	warehouseIDs := make([]int64, 0, warehouseCount)
	insertWarehouse := tx.Rebind(`INSERT INTO warehouses (name, created_at, updated_at) VALUES (?, ?, ?) RETURNING id`)
	for i := 0; i < warehouseCount; i++ {
		name := fmt.Sprintf("%s Warehouse %02d", cities[s.rng.IntN(len(cities))], i+1)
		var id int64
		if err := tx.QueryRowx(insertWarehouse, name, s.now, s.now).Scan(&id); err != nil {
			return fmt.Errorf("warehouse %q: %w", name, err)
		}
		warehouseIDs = append(warehouseIDs, id)
	}

	productIDs := make([]int64, 0, productCount)
	insertProduct := tx.Rebind(`INSERT INTO products (title, min_stock, max_stock, weight, dimensions, color, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`)
	for i := 0; i < productCount; i++ {
		minStock := s.between(0, 50)
		weight := float64(s.between(10, 25000)) / 100
		dimensions := fmt.Sprintf("%dx%dx%d cm", s.between(5, 80), s.between(5, 80), s.between(5, 80))
		var id int64
		err := tx.QueryRowx(insertProduct, s.title(), minStock, s.between(minStock+1, minStock+200), weight,
			dimensions, colors[s.rng.IntN(len(colors))], s.now, s.now).Scan(&id)
		if err != nil {
			return fmt.Errorf("product %d: %w", i+1, err)
		}
		productIDs = append(productIDs, id)
	}

	link := tx.Rebind(`INSERT INTO product_warehouse (product_id, warehouse_id, quantity, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`)
	for _, warehouseID := range warehouseIDs {
		picks := s.between(5, 15)
		for _, i := range s.rng.Perm(len(productIDs))[:picks] {
			if _, err := tx.Exec(link, productIDs[i], warehouseID, s.between(1, 250), s.now, s.now); err != nil {
				return fmt.Errorf("allocate product %d to warehouse %d: %w", productIDs[i], warehouseID, err)
			}
		}
	}
	return nil
}

func (s *seeder) users(tx *sqlx.Tx) error {
	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	accounts := []struct {
		name     string
		email    string
		verified bool
	}{
		{"Admin Gudang", "admin@stockroom.local", true},
		{"Rina Kusuma", "rina@stockroom.local", true},
		{"Agus Pratama", "agus@stockroom.local", false},
		{"Sari Wulandari", "sari@stockroom.local", true},
		{"Dedi Hartono", "dedi@stockroom.local", false},
	}
	insertUser := tx.Rebind(`INSERT INTO users (name, email, email_verified_at, password, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?) RETURNING id`)
	insertPost := tx.Rebind(`INSERT INTO posts (user_id, title, body, created_at, updated_at) VALUES (?, ?, ?, ?, ?) RETURNING id`)
	insertComment := tx.Rebind(`INSERT INTO comments (user_id, post_id, body, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`)

	userIDs := make([]int64, 0, len(accounts))
	for _, a := range accounts {
		var verifiedAt *time.Time
		if a.verified {
			verifiedAt = &s.now
		}
		var id int64
		if err := tx.QueryRowx(insertUser, a.name, a.email, verifiedAt, string(hash), s.now, s.now).Scan(&id); err != nil {
			return fmt.Errorf("user %s: %w", a.email, err)
		}
		userIDs = append(userIDs, id)
	}

	var postIDs []int64
	for _, userID := range userIDs {
		for n := s.between(0, 4); n > 0; n-- {
			var id int64
			if err := tx.QueryRowx(insertPost, userID, s.title(), "", s.now, s.now).Scan(&id); err != nil {
				return fmt.Errorf("post for user %d: %w", userID, err)
			}
			postIDs = append(postIDs, id)
		}
	}
	if len(postIDs) == 0 {
		return nil
	}
	for _, userID := range userIDs {
		for n := s.between(0, 6); n > 0; n-- {
			postID := postIDs[s.rng.IntN(len(postIDs))]
			if _, err := tx.Exec(insertComment, userID, postID, s.title(), s.now, s.now); err != nil {
				return fmt.Errorf("comment for user %d: %w", userID, err)
			}
		}
	}
	return nil
}
