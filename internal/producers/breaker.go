package producers

import (
	"time"

	"github.com/sony/gobreaker"
)

// NewNetworkBreaker builds the circuit breaker the engine's producer
// harness wraps any network-facing producer call in, the HTTP fetcher
// being the motivating case. Any producer declared network-facing
// shares this breaker: a flaky collaborator trips it instead of being
// hammered every revision.
func NewNetworkBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})
}

// NetworkCall is an outbound, possibly-failing operation performed by a
// network-facing producer.
type NetworkCall func() ([]byte, error)

// RunNetworkProducer executes call through cb. Both a breaker trip and
// the call's own failure surface as a plain error; callers translate it
// into the engine's cacheable IO error kind with their own context.
func RunNetworkProducer(cb *gobreaker.CircuitBreaker, call NetworkCall) ([]byte, error) {
	out, err := cb.Execute(func() (interface{}, error) {
		return call()
	})
	if err != nil {
		return nil, err
	}
	return out.([]byte), nil
}
