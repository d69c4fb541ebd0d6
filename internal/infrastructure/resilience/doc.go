/*
Package resilience provides the circuit breaker that guards origin traffic.

# Overview

The portal the proxy fronts is slow and occasionally falls over for minutes at
a time. When that happens every proxied page would otherwise hang until the
origin timeout. The breaker short-circuits those calls so the user gets an
immediate error page instead.

# States

- Closed: requests pass through, failures are counted per Interval window
- Open: requests fail with ErrCircuitOpen until Timeout elapses
- Half-Open: up to MaxRequests probes are admitted; one failure reopens

	Closed --[ReadyToTrip]-> Open --[Timeout]-> Half-Open --[MaxRequests successes]-> Closed
	                                               |
	                                           [failure] -> Open

# Usage

	breaker := resilience.New("origin", resilience.Settings{
		Timeout: 30 * time.Second,
		ReadyToTrip: func(c resilience.Counts) bool {
			return c.ConsecutiveFailures >= 5
		},
		IsFailure: func(err error) bool {
			return err != nil && !errors.Is(err, context.Canceled)
		},
	})

	err := breaker.Execute(func() error {
		resp, err = req.Get(target)
		return err
	})
*/
package resilience
