package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrRateOrderCommandIsNotConstructed = errors.New(
	"RateOrderCommand must be created via NewRateOrderCommand constructor",
)

// RateOrderCommand represents a customer's rating of the vendor or the
// courier on a delivered order.
type RateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	raterID kernel.UUID
	target  order.RatingTarget
	score   int
	comment string

	guard guard.ConstructorGuard
}

// NewRateOrderCommand creates a rating command. Score must be between 1 and 5
// and the target must name a ratable party.
func NewRateOrderCommand(
	orderID kernel.UUID,
	raterID kernel.UUID,
	target order.RatingTarget,
	score int,
	comment string,
) (RateOrderCommand, error) {
	cmd := RateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setRaterID(raterID),
		cmd.setTarget(target),
		cmd.setScore(score),
	); err != nil {
		return RateOrderCommand{}, err
	}

	cmd.comment = comment
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RateOrderCommand) Validate() error {
	return c.guard.Validate(ErrRateOrderCommandIsNotConstructed)
}

// OrderID returns the rated order.
func (c RateOrderCommand) OrderID() kernel.UUID { return c.orderID }

// RaterID returns who is rating.
func (c RateOrderCommand) RaterID() kernel.UUID { return c.raterID }

// Target returns the rated party.
func (c RateOrderCommand) Target() order.RatingTarget { return c.target }

// Score returns the rating score in the 1 to 5 range.
func (c RateOrderCommand) Score() int { return c.score }

// Comment returns the optional free-form comment.
func (c RateOrderCommand) Comment() string { return c.comment }

func (c *RateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *RateOrderCommand) setRaterID(raterID kernel.UUID) error {
	if err := raterID.Validate(); err != nil {
		return err
	}

	c.raterID = raterID
	return nil
}

func (c *RateOrderCommand) setTarget(target order.RatingTarget) error {
	if target != order.RatingTargetVendor && target != order.RatingTargetCourier {
		return errs.NewValueIsInvalidError("rating target")
	}

	c.target = target
	return nil
}

func (c *RateOrderCommand) setScore(score int) error {
	if score < 1 || score > 5 {
		return errs.NewValueIsOutOfRangeError("score", score, 1, 5)
	}

	c.score = score
	return nil
}
