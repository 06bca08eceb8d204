package stubserver

import (
	"fmt"

	"github.com/glebarez/sqlite"
	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"restaurant-pos/internal/models"
	"restaurant-pos/internal/money"
)

// OpenStore opens the fixture's database: postgres when a DSN is given,
// otherwise an embedded sqlite file ( ":memory:" works for tests).
func OpenStore(postgresDSN, sqlitePath string) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)
	if postgresDSN != "" {
		db, err = gorm.Open(postgres.Open(postgresDSN), &gorm.Config{})
	} else {
		if sqlitePath == "" {
			sqlitePath = "posdev.db"
		}
		db, err = gorm.Open(sqlite.Open(sqlitePath), &gorm.Config{})
	}
	if err != nil {
		return nil, fmt.Errorf("stubserver: open store: %w", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.DiningTable{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
	); err != nil {
		return nil, fmt.Errorf("stubserver: migrate: %w", err)
	}
	return db, nil
}

// Seed fills an empty store with a small menu, a few tables and one user per
// role. Password for every seeded user is the username.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, u := range []struct {
		username, fullName, role string
	}{
		{"admin", "Admin", models.RoleAdmin},
		{"server", "Sam Server", models.RoleServer},
		{"counter", "Casey Counter", models.RoleCounter},
		{"kitchen", "Kim Kitchen", models.RoleKitchen},
	} {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.username), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		user := models.User{
			Username:     u.username,
			FullName:     u.fullName,
			Role:         u.role,
			IsActive:     true,
			PasswordHash: string(hash),
		}
		if err := db.Create(&user).Error; err != nil {
			return err
		}
	}

	mains := models.Category{Name: "Mains", IsActive: true}
	drinks := models.Category{Name: "Drinks", IsActive: true}
	for _, c := range []*models.Category{&mains, &drinks} {
		if err := db.Create(c).Error; err != nil {
			return err
		}
	}

	products := []models.Product{
		{Name: "Burger", Description: "House burger with fries", Price: money.FromParts(8, 50), IsAvailable: true, PreparationTime: 15, CategoryID: mains.ID},
		{Name: "Margherita", Description: "Tomato, mozzarella, basil", Price: money.FromParts(11, 0), IsAvailable: true, PreparationTime: 12, CategoryID: mains.ID},
		{Name: "Soda", Price: money.FromParts(2, 0), IsAvailable: true, PreparationTime: 1, CategoryID: drinks.ID},
		{Name: "Espresso", Price: money.FromParts(2, 50), IsAvailable: true, PreparationTime: 3, CategoryID: drinks.ID},
	}
	for i := range products {
		if err := db.Create(&products[i]).Error; err != nil {
			return err
		}
	}

	tables := []models.DiningTable{
		{TableNumber: "1", SeatingCapacity: 2, Location: "window"},
		{TableNumber: "2", SeatingCapacity: 4, Location: "window"},
		{TableNumber: "3", SeatingCapacity: 4, Location: "main"},
		{TableNumber: "4", SeatingCapacity: 6, Location: "main"},
		{TableNumber: "5", SeatingCapacity: 2, Location: "terrace"},
	}
	for i := range tables {
		if err := db.Create(&tables[i]).Error; err != nil {
			return err
		}
	}
	return nil
}
