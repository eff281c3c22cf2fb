package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrAddressIsRequired       = errors.New("delivery address is required")
	ErrPaymentMethodIsRequired = errors.New("payment method is required")
	ErrLinesAreRequired        = errors.New("order must contain at least one line")
	ErrLineQuantityIsInvalid   = errors.New("line quantity must be greater than 0")
)

// OrderLine is one requested product with its quantity. Name and price are
// not part of the request; they are snapshotted from the catalog at creation
// time.
type OrderLine struct {
	ProductID kernel.UUID
	Quantity  int
}

// CreateOrderCommand represents a customer's request to place an order with a
// vendor: the requested lines, the dropoff point and address, and the chosen
// payment method.
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID       kernel.UUID
	customerID    kernel.UUID
	vendorID      kernel.UUID
	lines         []OrderLine
	dropoff       kernel.GeoPoint
	address       string
	paymentMethod string
	notes         string
	discount      kernel.Money

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to place a new order.
// Validates identifiers, the dropoff point, the address, the payment method,
// and that every line has a valid product and positive quantity.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	customerID kernel.UUID,
	vendorID kernel.UUID,
	lines []OrderLine,
	dropoff kernel.GeoPoint,
	address string,
	paymentMethod string,
	notes string,
	discount kernel.Money,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setCustomerID(customerID),
		cmd.setVendorID(vendorID),
		cmd.setLines(lines),
		cmd.setDropoff(dropoff),
		cmd.setAddress(address),
		cmd.setPaymentMethod(paymentMethod),
		cmd.setDiscount(discount),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	cmd.notes = notes
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the client-generated identifier for the new order.
func (c CreateOrderCommand) OrderID() kernel.UUID { return c.orderID }

// CustomerID returns the ordering customer.
func (c CreateOrderCommand) CustomerID() kernel.UUID { return c.customerID }

// VendorID returns the vendor the order is placed with.
func (c CreateOrderCommand) VendorID() kernel.UUID { return c.vendorID }

// Lines returns the requested product lines.
func (c CreateOrderCommand) Lines() []OrderLine {
	return append([]OrderLine(nil), c.lines...)
}

// Dropoff returns the delivery coordinates.
func (c CreateOrderCommand) Dropoff() kernel.GeoPoint { return c.dropoff }

// Address returns the human-readable delivery address.
func (c CreateOrderCommand) Address() string { return c.address }

// PaymentMethod returns the chosen payment method.
func (c CreateOrderCommand) PaymentMethod() string { return c.paymentMethod }

// Notes returns free-form customer notes, possibly empty.
func (c CreateOrderCommand) Notes() string { return c.notes }

// Discount returns the promotional discount to apply, possibly zero.
func (c CreateOrderCommand) Discount() kernel.Money { return c.discount }

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}

	c.customerID = customerID
	return nil
}

func (c *CreateOrderCommand) setVendorID(vendorID kernel.UUID) error {
	if err := vendorID.Validate(); err != nil {
		return err
	}

	c.vendorID = vendorID
	return nil
}

func (c *CreateOrderCommand) setLines(lines []OrderLine) error {
	if len(lines) == 0 {
		return ErrLinesAreRequired
	}
	for _, line := range lines {
		if err := line.ProductID.Validate(); err != nil {
			return err
		}
		if line.Quantity <= 0 {
			return ErrLineQuantityIsInvalid
		}
	}

	c.lines = append([]OrderLine(nil), lines...)
	return nil
}

func (c *CreateOrderCommand) setDropoff(dropoff kernel.GeoPoint) error {
	if err := dropoff.Validate(); err != nil {
		return err
	}

	c.dropoff = dropoff
	return nil
}

func (c *CreateOrderCommand) setAddress(address string) error {
	if address == "" {
		return ErrAddressIsRequired
	}

	c.address = address
	return nil
}

func (c *CreateOrderCommand) setPaymentMethod(paymentMethod string) error {
	if paymentMethod == "" {
		return ErrPaymentMethodIsRequired
	}

	c.paymentMethod = paymentMethod
	return nil
}

func (c *CreateOrderCommand) setDiscount(discount kernel.Money) error {
	if discount < 0 {
		return errors.New("discount cannot be negative")
	}

	c.discount = discount
	return nil
}
