package cart_test

import (
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"

	"fashionstore/internal/cart"
)

func line(productID uuid.UUID, price int64, quantity int, size string) cart.Line {
	return cart.Line{
		ProductID: productID,
		Name:      "Linen Shirt",
		Price:     price,
		Quantity:  quantity,
		ImageURL:  "https://cdn.example.com/shirt.jpg",
		Size:      size,
	}
}

func TestCart_AddItem_MergesSameProductAndSize(t *testing.T) {
	c := cart.New()
	productID := uuid.Must(uuid.NewV4())

	c.AddItem(line(productID, 249900, 2, "M"))
	c.AddItem(line(productID, 249900, 3, "M"))

	lines := c.Lines()
	assert.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
}

func TestCart_AddItem_DifferentSizeKeepsSeparateLines(t *testing.T) {
	c := cart.New()
	productID := uuid.Must(uuid.NewV4())

	c.AddItem(line(productID, 249900, 1, "M"))
	c.AddItem(line(productID, 249900, 1, "L"))

	assert.Len(t, c.Lines(), 2)
}

func TestCart_SubtotalTracksEveryMutation(t *testing.T) {
	c := cart.New()
	first := uuid.Must(uuid.NewV4())
	second := uuid.Must(uuid.NewV4())

	assert.Equal(t, int64(0), c.Subtotal())

	c.AddItem(line(first, 100000, 1, ""))
	assert.Equal(t, int64(100000), c.Subtotal())

	c.AddItem(line(second, 25000, 2, "S"))
	assert.Equal(t, int64(150000), c.Subtotal())

	c.UpdateQuantity(second, 1)
	assert.Equal(t, int64(125000), c.Subtotal())

	c.RemoveItem(first)
	assert.Equal(t, int64(25000), c.Subtotal())

	c.Clear()
	assert.Equal(t, int64(0), c.Subtotal())
	assert.Empty(t, c.Lines())
}

func TestCart_RemoveMissingProductIsNoop(t *testing.T) {
	c := cart.New()
	present := uuid.Must(uuid.NewV4())

	c.AddItem(line(present, 249900, 1, "M"))
	c.RemoveItem(uuid.Must(uuid.NewV4()))

	lines := c.Lines()
	assert.Len(t, lines, 1)
	assert.Equal(t, present, lines[0].ProductID)
	assert.Equal(t, 1, lines[0].Quantity)
}

func TestCart_LinesReturnsCopy(t *testing.T) {
	c := cart.New()
	c.AddItem(line(uuid.Must(uuid.NewV4()), 100, 1, ""))

	lines := c.Lines()
	lines[0].Quantity = 99

	assert.Equal(t, 1, c.Lines()[0].Quantity)
}
