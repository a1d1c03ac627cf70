package domain

// orderDateLayout matches the format downstream queue consumers expect.
const orderDateLayout = "2006-01-02 15:04:05"

type OrderPlacedAddress struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
}

type OrderPlacedItem struct {
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
}

// OrderPlacedEvent is the normalized order summary handed to the notification
// queue after checkout.
type OrderPlacedEvent struct {
	OrderID       string             `json:"order_id"`
	CustomerName  string             `json:"customer_name"`
	CustomerEmail string             `json:"customer_email"`
	OrderDate     string             `json:"order_date"`
	Address       OrderPlacedAddress `json:"address"`
	OrderItems    []OrderPlacedItem  `json:"order_items"`
}

// NewOrderPlacedEvent snapshots the order, its owner and the shipping address
// into the wire payload. Items reflect whatever is attached to the order at
// the moment of the call.
func NewOrderPlacedEvent(order Order, customer Customer, address Address) OrderPlacedEvent {
	items := make([]OrderPlacedItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderPlacedItem{
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
		})
	}

	return OrderPlacedEvent{
		OrderID:       order.ID,
		CustomerName:  customer.Name,
		CustomerEmail: customer.Email,
		OrderDate:     order.CreatedAt.UTC().Format(orderDateLayout),
		Address: OrderPlacedAddress{
			Street:     address.Street,
			City:       address.City,
			PostalCode: address.PostalCode,
		},
		OrderItems: items,
	}
}
