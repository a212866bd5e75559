package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/dollers-electro/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// newServiceTestDB opens an isolated in-memory database migrated with every
// table the services touch.
func newServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Admin{},
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.PromoCode{},
		&models.PromoCodeUsage{},
		&models.Order{},
		&models.OrderItem{},
		&models.LowStockAlert{},
		&models.Quiz{},
		&models.QuizQuestion{},
		&models.QuizAttempt{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}
