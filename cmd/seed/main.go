package main

import (
	"time"

	"github.com/dollers-electro/internal/config"
	"github.com/dollers-electro/internal/constants"
	"github.com/dollers-electro/internal/logger"
	"github.com/dollers-electro/internal/models"

	"github.com/shopspring/decimal"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	categories := []models.Category{
		{Slug: "audio", Name: "Audio", Icon: "headphones", SortOrder: 1},
		{Slug: "computing", Name: "Computing", Icon: "laptop", SortOrder: 2},
		{Slug: "accessories", Name: "Accessories", Icon: "cable", SortOrder: 3},
	}
	for _, cat := range categories {
		var existing models.Category
		if err := models.DB.Where("slug = ?", cat.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&cat).Error; err != nil {
				stdLog.Printf("Failed to create category %s: %v", cat.Slug, err)
			} else {
				stdLog.Printf("Created category: %s", cat.Slug)
			}
		} else {
			stdLog.Printf("Category already exists: %s", cat.Slug)
		}
	}

	categoryIDs := map[string]uint{}
	var categoryList []models.Category
	if err := models.DB.Where("slug IN ?", []string{"audio", "computing", "accessories"}).Find(&categoryList).Error; err != nil {
		stdLog.Printf("Failed to load categories: %v", err)
	}
	for _, cat := range categoryList {
		categoryIDs[cat.Slug] = cat.ID
	}

	products := []models.Product{
		{
			SKU:               "AUD-BT-001",
			CategoryID:        categoryIDs["audio"],
			Name:              "Wireless Bluetooth Earphones",
			Description:       "Active noise cancellation with 24 hour battery life.",
			Price:             models.NewMoneyFromDecimal(decimal.NewFromFloat(99.99)),
			Stock:             40,
			LowStockThreshold: 5,
			Images:            models.StringArray{"https://images.example.com/earphones.jpg"},
			Tags:              models.StringArray{"audio", "wireless"},
			Variants:          models.StringArray{"black", "white"},
			IsActive:          true,
			SortOrder:         1,
		},
		{
			SKU:               "AUD-SPK-002",
			CategoryID:        categoryIDs["audio"],
			Name:              "Portable Speaker",
			Description:       "Water resistant speaker with deep bass.",
			Price:             models.NewMoneyFromDecimal(decimal.NewFromFloat(59.90)),
			Stock:             25,
			LowStockThreshold: 5,
			Tags:              models.StringArray{"audio", "portable"},
			IsActive:          true,
			SortOrder:         2,
		},
		{
			SKU:               "CMP-KB-001",
			CategoryID:        categoryIDs["computing"],
			Name:              "Mechanical Keyboard",
			Description:       "Hot swappable switches, RGB backlight.",
			Price:             models.NewMoneyFromDecimal(decimal.NewFromFloat(129.00)),
			Stock:             15,
			LowStockThreshold: 3,
			Variants:          models.StringArray{"red switches", "brown switches"},
			Tags:              models.StringArray{"computing", "keyboard"},
			IsActive:          true,
			SortOrder:         1,
		},
		{
			SKU:               "ACC-CBL-001",
			CategoryID:        categoryIDs["accessories"],
			Name:              "USB-C Charging Cable",
			Description:       "Braided 2m cable rated for 100W.",
			Price:             models.NewMoneyFromDecimal(decimal.NewFromFloat(12.50)),
			Stock:             200,
			LowStockThreshold: 20,
			Tags:              models.StringArray{"accessories", "cable"},
			IsActive:          true,
			SortOrder:         1,
		},
	}
	for _, product := range products {
		if product.CategoryID == 0 {
			stdLog.Printf("Skipping product %s: category missing", product.SKU)
			continue
		}
		var existing models.Product
		if err := models.DB.Where("sku = ?", product.SKU).First(&existing).Error; err != nil {
			if err := models.DB.Create(&product).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", product.SKU, err)
			} else {
				stdLog.Printf("Created product: %s", product.SKU)
			}
		} else {
			stdLog.Printf("Product already exists: %s", product.SKU)
		}
	}

	validUntil := time.Now().AddDate(0, 3, 0)
	promos := []models.PromoCode{
		{
			Code:           "WELCOME10",
			Description:    "10% off the first order for new customers",
			Type:           constants.PromoTypePercentage,
			Value:          models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
			MaxDiscount:    models.NewMoneyFromDecimal(decimal.NewFromInt(20)),
			MinOrderAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(30)),
			UsageLimit:     -1,
			PerUserLimit:   1,
			NewUsersOnly:   true,
			ValidUntil:     &validUntil,
			IsActive:       true,
		},
		{
			Code:         "FREESHIP",
			Description:  "Free standard shipping",
			Type:         constants.PromoTypeFreeShipping,
			UsageLimit:   500,
			PerUserLimit: 3,
			ValidUntil:   &validUntil,
			IsActive:     true,
		},
	}
	for _, promo := range promos {
		var existing models.PromoCode
		if err := models.DB.Where("code = ?", promo.Code).First(&existing).Error; err != nil {
			if err := models.DB.Create(&promo).Error; err != nil {
				stdLog.Printf("Failed to create promo code %s: %v", promo.Code, err)
			} else {
				stdLog.Printf("Created promo code: %s", promo.Code)
			}
		} else {
			stdLog.Printf("Promo code already exists: %s", promo.Code)
		}
	}

	var quizCount int64
	models.DB.Model(&models.Quiz{}).Count(&quizCount)
	if quizCount == 0 {
		quiz := models.Quiz{
			Title:       "Product Knowledge Basics",
			Description: "Weekly warm-up for the support and sales teams.",
			IsActive:    true,
			Questions: []models.QuizQuestion{
				{
					Prompt:        "A customer asks which earphones survive a rainy commute. What matters most?",
					Options:       models.StringArray{"Battery life", "Water resistance rating", "Cable length"},
					CorrectOption: 1,
					Points:        2,
					SortOrder:     1,
				},
				{
					Prompt:        "Which promo code type waives the delivery fee?",
					Options:       models.StringArray{"percentage", "fixed", "free_shipping"},
					CorrectOption: 2,
					Points:        1,
					SortOrder:     2,
				},
			},
		}
		if err := models.DB.Create(&quiz).Error; err != nil {
			stdLog.Printf("Failed to create quiz: %v", err)
		} else {
			stdLog.Printf("Created quiz: %s", quiz.Title)
		}
	} else {
		stdLog.Printf("Quizzes already seeded")
	}

	stdLog.Printf("Seed finished")
}
