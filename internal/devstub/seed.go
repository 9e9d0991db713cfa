package devstub

import (
	"github.com/shopspring/decimal"

	"github.com/Thamsanqa-bit/penden-storefront/internal/domain"
)

// seedProducts is the demo catalog, one entry per storefront department.
func seedProducts() []domain.Product {
	price := func(s string) decimal.Decimal { return decimal.RequireFromString(s) }

	return []domain.Product{
		{ID: 1, Name: "A4 Oak Picture Frame", Price: price("249.99"), Image: "/media/frames/oak-a4.jpg", Category: "Frames"},
		{ID: 2, Name: "Walnut Photo Frame 6x4", Price: price("179.50"), Image: "/media/frames/walnut-6x4.jpg", Category: "Frames"},
		{ID: 3, Name: "Ballpoint Pen Set (10)", Price: price("89.99"), Image: "/media/stationery/pens-10.jpg", Category: "Stationaries"},
		{ID: 4, Name: "Hardcover Notebook A5", Price: price("120.00"), Image: "/media/stationery/notebook-a5.jpg", Category: "Stationaries"},
		{ID: 5, Name: "Highlighter Pack (6)", Price: price("64.50"), Image: "/media/stationery/highlighters.jpg", Category: "Stationaries"},
		{ID: 6, Name: "Business Card Printing (100)", Price: price("350.00"), Image: "/media/printing/cards-100.jpg", Category: "Printing"},
		{ID: 7, Name: "Poster Print A2", Price: price("199.00"), Image: "/media/printing/poster-a2.jpg", Category: "Printing"},
		{ID: 8, Name: "Pine Shelf Board 1.2m", Price: price("289.00"), Image: "/media/woods/pine-shelf.jpg", Category: "Woods"},
		{ID: 9, Name: "Birch Plywood Sheet", Price: price("540.00"), Image: "/media/woods/birch-ply.jpg", Category: "Woods"},
		{ID: 10, Name: "Paperback Journal", Price: price("95.00"), Image: "/media/books/journal.jpg", Category: "Books"},
		{ID: 11, Name: "Recipe Book Stand", Price: price("210.00"), Image: "/media/books/stand.jpg", Category: "Books"},
		{ID: 12, Name: "Round Wall Mirror 40cm", Price: price("499.99"), Image: "/media/mirrors/round-40.jpg", Category: "Mirrors"},
		{ID: 13, Name: "Vanity Mirror LED", Price: price("749.00"), Image: "/media/mirrors/vanity-led.jpg", Category: "Mirrors"},
		{ID: 14, Name: "USB-C Desk Hub", Price: price("399.00"), Image: "/media/electronics/usbc-hub.jpg", Category: "Electronics"},
		{ID: 15, Name: "Wireless Mouse", Price: price("259.00"), Image: "/media/electronics/mouse.jpg", Category: "Electronics"},
		{ID: 16, Name: "Desk Lamp LED", Price: price("329.00"), Image: "/media/electronics/lamp.jpg", Category: "Electronics"},
	}
}
