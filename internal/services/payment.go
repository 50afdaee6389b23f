package services

import (
	"context"
	"fmt"
	"time"
)

// PaymentGateway is the external settlement collaborator. The core only cares
// about the boolean outcome of one attempt; retries and real settlement live
// elsewhere.
type PaymentGateway interface {
	Charge(ctx context.Context, amount int64, reference string) (txRef string, ok bool, err error)
}

// StubGateway approves every charge and fabricates a transaction reference.
type StubGateway struct{}

func (StubGateway) Charge(_ context.Context, _ int64, reference string) (string, bool, error) {
	return fmt.Sprintf("PAY-%s-%d", reference, time.Now().UnixNano()), true, nil
}
