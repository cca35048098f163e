package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProduct_DiscountPercent(t *testing.T) {
	tests := []struct {
		name     string
		price    int64
		discount int64
		want     int
		has      bool
	}{
		{"jacket", 45000, 55000, 18, true},
		{"handbag", 65000, 75000, 13, true},
		{"earbuds", 42000, 50000, 16, true},
		{"no discount", 35000, 0, 0, false},
		{"equal price", 1000, 1000, 0, true},
		{"discount below price", 1000, 900, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Product{Price: tt.price, Discount: tt.discount}
			assert.Equal(t, tt.has, p.HasDiscount())
			assert.Equal(t, tt.want, p.DiscountPercent())
		})
	}
}

func TestProduct_Normalize(t *testing.T) {
	p := Product{Price: 1000, Discount: 900}
	assert.True(t, p.Normalize())
	assert.Zero(t, p.Discount)

	ok := Product{Price: 1000, Discount: 1200}
	assert.False(t, ok.Normalize())
	assert.Equal(t, int64(1200), ok.Discount)
}

func TestProduct_Matches(t *testing.T) {
	p := Product{Title: "Running Shoes", Description: "Advanced cushioning", Category: "SHOES"}

	assert.True(t, p.Matches("running"))
	assert.True(t, p.Matches("CUSHION"))
	assert.True(t, p.Matches("shoes"))
	assert.True(t, p.Matches(""))
	assert.False(t, p.Matches("jacket"))
}

func TestProduct_ThumbnailsAndValidate(t *testing.T) {
	p := Product{Price: 10, Thumbnail1: "a.png", Thumbnail3: "c.png"}
	assert.Equal(t, []string{"a.png", "c.png"}, p.Thumbnails())
	assert.NoError(t, p.Validate())
	assert.ErrorIs(t, Product{}.Validate(), ErrInvalidPrice)
}
