package cart

import "github.com/Skotchmaster/storefront/pkg/apiclient"

// LineItem is one cart entry as priced by the server. TotalPrice is taken
// from the server and never recomputed here.
type LineItem struct {
	ID             int64
	VariantID      int64
	ProductName    string
	SKU            string
	Size           string
	Color          string
	ImageURL       string
	UnitPrice      int64
	Quantity       int
	TotalPrice     int64
	AvailableStock int
}

// Snapshot is the client-side view of the server cart. Amounts are minor
// currency units. CartID is empty when no server cart exists.
type Snapshot struct {
	CartID     string
	Items      []LineItem
	TotalItems int
	Subtotal   int64
	Discount   int64
	Total      int64
}

func (s Snapshot) Empty() bool {
	return s.CartID == "" && len(s.Items) == 0 && s.TotalItems == 0 && s.Subtotal == 0 && s.Total == 0
}

// Item returns the line with the given id.
func (s Snapshot) Item(id int64) (LineItem, bool) {
	for _, it := range s.Items {
		if it.ID == id {
			return it, true
		}
	}
	return LineItem{}, false
}

func (s Snapshot) clone() Snapshot {
	out := s
	if s.Items != nil {
		out.Items = make([]LineItem, len(s.Items))
		copy(out.Items, s.Items)
	}
	return out
}

// fromRemote converts a server cart wholesale. Coupons are not supported, so
// Total mirrors Subtotal.
func fromRemote(c *apiclient.Cart) Snapshot {
	if c == nil {
		return Snapshot{}
	}
	items := make([]LineItem, 0, len(c.Items))
	for _, it := range c.Items {
		items = append(items, LineItem{
			ID:             it.ID,
			VariantID:      it.VariantID,
			ProductName:    it.ProductName,
			SKU:            it.SKU,
			Size:           it.Size,
			Color:          it.Color,
			ImageURL:       it.ImageURL,
			UnitPrice:      it.UnitPrice,
			Quantity:       it.Quantity,
			TotalPrice:     it.TotalPrice,
			AvailableStock: it.AvailableStock,
		})
	}
	return Snapshot{
		CartID:     c.ID,
		Items:      items,
		TotalItems: c.TotalItems,
		Subtotal:   c.Subtotal,
		Discount:   0,
		Total:      c.Subtotal,
	}
}
