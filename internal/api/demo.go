package api

import "github.com/example/ec-storefront/internal/domain/catalog"

// DemoProducts is the catalog the development server starts with.
func DemoProducts() []catalog.Product {
	return []catalog.Product{
		{
			ID:               1,
			Title:            "Premium Winter Jacket",
			Price:            45000,
			Discount:         55000,
			Description:      "Stay warm and stylish with our premium winter jacket. Features waterproof material and thermal insulation.",
			Image:            "https://images.unsplash.com/photo-1551028719-00167b16eac5?w=800",
			Category:         "CLOTHES",
			Likes:            1250,
			Rating:           5,
			Sizes:            "M, L, XL",
			Color:            "Black Blue Red",
			DescriptionTitle: "Premium Quality",
			DescriptionBox:   "Made with high-quality materials for maximum comfort and durability.",
		},
		{
			ID:          2,
			Title:       "Casual Sneakers",
			Price:       35000,
			Description: "Comfortable and trendy sneakers perfect for everyday wear.",
			Image:       "https://images.unsplash.com/photo-1542291026-7eec264c27ff?w=800",
			Category:    "SHOES",
			Likes:       890,
			Rating:      4,
			Sizes:       "40, 41, 42, 43",
			Color:       "White Black",
		},
		{
			ID:          3,
			Title:       "Designer Handbag",
			Price:       65000,
			Discount:    75000,
			Description: "Elegant designer handbag with premium leather finish.",
			Image:       "https://images.unsplash.com/photo-1584917865442-de89df76afd3?w=800",
			Category:    "ACCESSORIES",
			Likes:       2100,
			Rating:      5,
			Color:       "Brown Black Beige",
		},
		{
			ID:          4,
			Title:       "Smart Watch Pro",
			Price:       85000,
			Description: "Advanced smartwatch with fitness tracking and notifications.",
			Image:       "https://images.unsplash.com/photo-1523275335684-37898b6baf30?w=800",
			Category:    "ELECTRONICS",
			Likes:       3400,
			Rating:      5,
			Color:       "Black Silver",
		},
		{
			ID:          5,
			Title:       "Denim Jeans",
			Price:       28000,
			Description: "Classic denim jeans with a modern fit.",
			Image:       "https://images.unsplash.com/photo-1542272604-787c3835535d?w=800",
			Category:    "CLOTHES",
			Likes:       670,
			Rating:      4,
			Sizes:       "30, 32, 34, 36",
			Color:       "Blue Black",
		},
		{
			ID:          6,
			Title:       "Wireless Earbuds",
			Price:       42000,
			Discount:    50000,
			Description: "Premium wireless earbuds with noise cancellation.",
			Image:       "https://images.unsplash.com/photo-1590658268037-6bf12165a8df?w=800",
			Category:    "ELECTRONICS",
			Likes:       1890,
			Rating:      5,
			Color:       "White Black",
		},
		{
			ID:          7,
			Title:       "Leather Wallet",
			Price:       15000,
			Description: "Genuine leather wallet with multiple card slots.",
			Image:       "https://images.unsplash.com/photo-1627123424574-724758594e93?w=800",
			Category:    "ACCESSORIES",
			Likes:       450,
			Rating:      4,
			Color:       "Brown Black",
		},
		{
			ID:          8,
			Title:       "Running Shoes",
			Price:       48000,
			Description: "Professional running shoes with advanced cushioning.",
			Image:       "https://images.unsplash.com/photo-1606107557195-0e29a4b5b4aa?w=800",
			Category:    "SHOES",
			Likes:       1120,
			Rating:      5,
			Sizes:       "40, 41, 42, 43, 44",
			Color:       "Red Black White",
		},
	}
}

// DemoProductTypes lists the categories of DemoProducts.
func DemoProductTypes() []catalog.ProductType {
	return []catalog.ProductType{
		{ID: 1, Name: "CLOTHES"},
		{ID: 2, Name: "SHOES"},
		{ID: 3, Name: "ACCESSORIES"},
		{ID: 4, Name: "ELECTRONICS"},
	}
}
