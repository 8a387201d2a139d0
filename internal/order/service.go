package order

import (
	"context"
	"slices"
	"time"

	"rnimart-be/internal/cart"
	"rnimart-be/internal/logger"
	"rnimart-be/internal/metrics"
	"rnimart-be/internal/notification"
	"rnimart-be/internal/user"
	"rnimart-be/internal/utils"

	"go.uber.org/zap"
)

// NoAddress is recorded when the customer has no address on file.
const NoAddress = "-"

// Cart is what checkout needs from the shopper's cart: Commit clears the
// lines only when the callback succeeds.
type Cart interface {
	Commit(fn func(lines []cart.Line) error) error
}

type Dispatcher interface {
	Dispatch(ctx context.Context, msg notification.Message) bool
}

type CheckoutInput struct {
	Cart           Cart
	Customer       *user.User
	PaymentMethod  string
	DeliveryMethod string
}

type CheckoutResult struct {
	Order        Order    `json:"order"`
	WhatsAppLink string   `json:"whatsapp_link"`
	Instructions []string `json:"instructions"`
}

type PaymentConfirmation struct {
	Order        Order  `json:"order"`
	Message      string `json:"message"`
	WhatsAppLink string `json:"whatsapp_link"`
}

type Service interface {
	Checkout(ctx context.Context, input CheckoutInput) (*CheckoutResult, error)
	UpdateStatus(ctx context.Context, id, status string) (Order, error)
	UpdatePaymentStatus(ctx context.Context, id, status string) (Order, error)
	List(ctx context.Context) ([]Order, error)
	ListByCustomer(ctx context.Context, customer string) ([]Order, error)
	Get(ctx context.Context, id string) (Order, error)
	RequestPaymentConfirmation(ctx context.Context, customer user.User, id string) (*PaymentConfirmation, error)
	PaymentMethods() []PaymentMethod
	DeliveryMethods() []DeliveryMethod
}

type service struct {
	repo       Repository
	dispatcher Dispatcher
	metrics    *metrics.Metrics
	adminWA    string

	now   func() time.Time
	newID func(time.Time) string
	loc   *time.Location
}

func NewService(repo Repository, dispatcher Dispatcher, m *metrics.Metrics, adminWA string) Service {
	loc, err := time.LoadLocation("Asia/Jakarta")
	if err != nil {
		logger.L().Warn("failed to load Jakarta location, using fixed UTC+7", zap.Error(err))
		loc = time.FixedZone("WIB", 7*60*60)
	}

	return &service{
		repo:       repo,
		dispatcher: dispatcher,
		metrics:    m,
		adminWA:    adminWA,
		now:        time.Now,
		newID:      utils.OrderIDFromTime,
		loc:        loc,
	}
}

func (s *service) Checkout(ctx context.Context, input CheckoutInput) (*CheckoutResult, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Checkout"),
	)

	if input.Customer == nil {
		log.Info("checkout declined, no customer")
		return nil, ErrUnauthenticated
	}
	if input.Cart == nil {
		return nil, ErrEmptyCart
	}
	if !validPaymentMethod(input.PaymentMethod) {
		return nil, ErrInvalidPaymentMethod
	}
	if !validDeliveryMethod(input.DeliveryMethod) {
		return nil, ErrInvalidDeliveryMethod
	}

	var placed Order
	err := input.Cart.Commit(func(lines []cart.Line) error {
		if len(lines) == 0 {
			return ErrEmptyCart
		}

		now := s.now()
		o := Order{
			ID:              s.newID(now),
			Customer:        input.Customer.Name,
			Items:           make([]Item, 0, len(lines)),
			PaymentMethod:   input.PaymentMethod,
			DeliveryMethod:  input.DeliveryMethod,
			Date:            now.In(s.loc).Format(time.DateOnly),
			Status:          StatusPending,
			ShippingAddress: input.Customer.Address,
			PaymentStatus:   PaymentUnpaid,
		}
		if o.ShippingAddress == "" {
			o.ShippingAddress = NoAddress
		}
		for _, l := range lines {
			it := Item{
				Name:   l.Product.Name,
				Qty:    l.Qty,
				Price:  l.Product.Price,
				Weight: l.Product.Weight,
			}
			o.Items = append(o.Items, it)
			o.Total += it.Subtotal()
		}

		if err := s.repo.UpdateOrders(ctx, func(orders []Order) ([]Order, error) {
			return append([]Order{o}, orders...), nil
		}); err != nil {
			return err
		}
		placed = o
		return nil
	})
	if err != nil {
		log.Warn("checkout failed", zap.String("customer", input.Customer.Username), zap.Error(err))
		return nil, err
	}

	s.metrics.ObserveCheckout(placed.Total)
	log.Info("order placed",
		zap.String("order_id", placed.ID),
		zap.Int64("total", placed.Total),
		zap.Int("items", len(placed.Items)),
	)

	text := ConfirmationText(placed)
	link := notification.WhatsAppLink(s.adminWA, text)
	s.dispatcher.Dispatch(ctx, notification.Message{
		Kind:      notification.KindOrderConfirmation,
		OrderID:   placed.ID,
		Customer:  placed.Customer,
		Recipient: s.adminWA,
		Text:      text,
		Link:      link,
	})

	return &CheckoutResult{
		Order:        placed,
		WhatsAppLink: link,
		Instructions: InjectVariables(GetInstructions(placed.PaymentMethod), InstructionVars{
			"amount":   notification.FormatRupiah(placed.Total),
			"order_id": placed.ID,
		}),
	}, nil
}

// UpdateStatus sets the fulfilment status. Any value may follow any other.
func (s *service) UpdateStatus(ctx context.Context, id, status string) (Order, error) {
	st, err := ParseStatus(status)
	if err != nil {
		return Order{}, err
	}
	return s.update(ctx, "UpdateStatus", id, func(o *Order) { o.Status = st })
}

// UpdatePaymentStatus sets the payment status. Any value may follow any other.
func (s *service) UpdatePaymentStatus(ctx context.Context, id, status string) (Order, error) {
	st, err := ParsePaymentStatus(status)
	if err != nil {
		return Order{}, err
	}
	return s.update(ctx, "UpdatePaymentStatus", id, func(o *Order) { o.PaymentStatus = st })
}

func (s *service) update(ctx context.Context, method, id string, apply func(*Order)) (Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", method),
		zap.String("order_id", id),
	)

	var updated Order
	err := s.repo.UpdateOrders(ctx, func(orders []Order) ([]Order, error) {
		idx := slices.IndexFunc(orders, func(o Order) bool { return o.ID == id })
		if idx < 0 {
			return nil, ErrOrderNotFound
		}
		next := slices.Clone(orders)
		apply(&next[idx])
		updated = next[idx]
		return next, nil
	})
	if err != nil {
		log.Warn("order update failed", zap.Error(err))
		return Order{}, err
	}

	log.Info("order updated",
		zap.String("status", string(updated.Status)),
		zap.String("payment_status", string(updated.PaymentStatus)),
	)
	return updated, nil
}

func (s *service) List(ctx context.Context) ([]Order, error) {
	return s.repo.Orders(ctx)
}

// ListByCustomer matches the customer display name exactly.
func (s *service) ListByCustomer(ctx context.Context, customer string) ([]Order, error) {
	orders, err := s.repo.Orders(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Order, 0)
	for _, o := range orders {
		if o.Customer == customer {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id string) (Order, error) {
	orders, err := s.repo.Orders(ctx)
	if err != nil {
		return Order{}, err
	}
	for _, o := range orders {
		if o.ID == id {
			return o, nil
		}
	}
	return Order{}, ErrOrderNotFound
}

func (s *service) RequestPaymentConfirmation(ctx context.Context, customer user.User, id string) (*PaymentConfirmation, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "RequestPaymentConfirmation"),
		zap.String("order_id", id),
	)

	o, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.Customer != customer.Name {
		log.Warn("payment confirmation for someone else's order", zap.String("customer", customer.Username))
		return nil, ErrNotOrderOwner
	}
	if !o.CanRequestPaymentConfirmation() {
		return nil, ErrPaymentConfirmationNotAllowed
	}

	text := PaymentConfirmationText(o)
	link := notification.WhatsAppLink(s.adminWA, text)
	s.dispatcher.Dispatch(ctx, notification.Message{
		Kind:      notification.KindPaymentConfirmation,
		OrderID:   o.ID,
		Customer:  o.Customer,
		Recipient: s.adminWA,
		Text:      text,
		Link:      link,
	})

	log.Info("payment confirmation requested")
	return &PaymentConfirmation{Order: o, Message: text, WhatsAppLink: link}, nil
}

func (s *service) PaymentMethods() []PaymentMethod {
	return PaymentMethods()
}

func (s *service) DeliveryMethods() []DeliveryMethod {
	return DeliveryMethods()
}
