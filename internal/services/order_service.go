package services

import (
	"zanovi/internal/domain"
	"zanovi/internal/repos"
)

// OrderStatuses is the fixed pipeline an order moves through; the admin
// client renders exactly these options.
var OrderStatuses = []string{
	"Order Placed",
	"Packing",
	"Shipped",
	"Out for delivery",
	"Delivered",
}

func validOrderStatus(s string) bool {
	for _, v := range OrderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// OrderService covers the admin side of orders: listing, moving them
// through the status pipeline and deleting them. Placing orders is the
// shop client's job, not this service's.
type OrderService struct {
	Orders *repos.OrderRepo
}

func NewOrderService(orders *repos.OrderRepo) *OrderService {
	return &OrderService{Orders: orders}
}

// List returns orders newest-first with their items grouped in.
func (s *OrderService) List() ([]domain.OrderView, error) {
	orders, items, err := s.Orders.List()
	if err != nil {
		return nil, err
	}

	byOrder := make(map[string][]domain.OrderItem, len(orders))
	for _, it := range items {
		byOrder[it.OrderID] = append(byOrder[it.OrderID], it)
	}

	views := make([]domain.OrderView, 0, len(orders))
	for _, o := range orders {
		lines := byOrder[o.ID]
		if lines == nil {
			lines = []domain.OrderItem{}
		}
		views = append(views, domain.OrderView{
			ID:    o.ID,
			Items: lines,
			Address: domain.OrderAddress{
				FirstName: o.FirstName,
				LastName:  o.LastName,
				Street:    o.Street,
				City:      o.City,
				State:     o.State,
				Country:   o.Country,
				Zipcode:   o.Zipcode,
				Phone:     o.Phone,
			},
			PaymentMethod: o.PaymentMethod,
			Payment:       o.Payment,
			Date:          o.CreatedAt,
			Amount:        o.Amount,
			Status:        o.Status,
		})
	}
	return views, nil
}

func (s *OrderService) UpdateStatus(id, status string) error {
	if !validOrderStatus(status) {
		return ErrInvalidStatus
	}
	return s.Orders.UpdateStatus(id, status)
}

func (s *OrderService) Delete(id string) error {
	return s.Orders.Delete(id)
}
