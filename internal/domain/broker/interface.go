package broker

import "context"

//go:generate mockgen -source=interface.go -destination=mock/interface_mock.go -package=mock

// Broker executes position actions against an external execution venue.
// Calls are synchronous; a returned error means the action did not take
// effect and may be retried by the caller.
type Broker interface {
	OpenLong(ctx context.Context, symbol string, size, price, stopLoss, takeProfit float64) error
	CloseLong(ctx context.Context, symbol string, size, price float64) error
}
