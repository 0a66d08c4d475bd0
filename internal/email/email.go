package email

import (
	"context"
	"fmt"

	"github.com/Domenick1991/aircargo/internal/kafka"
)

type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	fmt.Printf("notify ops: booking %s %s (%s -> %s) now %s\n", event.RefID, event.Type, event.Origin, event.Destination, event.Status)
	return nil
}
