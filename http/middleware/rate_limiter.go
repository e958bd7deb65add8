package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/tep-hq/playbook"
	"golang.org/x/time/rate"
)

// A Visitor tracks a rate limiter and last seen time.
type Visitor struct {
	LastSeen time.Time
	Limiter  *rate.Limiter
}

// A Visitors maps a Visitor to an IP address.
type Visitors struct {
	val   map[string]Visitor
	limit rate.Limit
	burst int
	sync.Mutex
}

// NewVisitors constructs a *Visitors allowing each one limit requests every second with bursts of up to burst.
// A non-positive limit defaults to 5 requests every second with bursts of up to 20.
func NewVisitors(limit float64, burst int) *Visitors {
	if limit <= 0 {
		limit, burst = 5, 20
	}

	if burst <= 0 {
		burst = 1
	}

	return &Visitors{val: make(map[string]Visitor), limit: rate.Limit(limit), burst: burst}
}

// Fetch retrieves the Visitor for the given ip creating a new Visitor if not seen.
func (vs *Visitors) Fetch(ip string) Visitor {
	vs.Lock()
	defer vs.Unlock()

	v, ok := vs.val[ip]
	if !ok {
		v = Visitor{Limiter: rate.NewLimiter(vs.limit, vs.burst)}
	}

	v.LastSeen = time.Now().UTC()
	vs.val[ip] = v
	return v
}

// Len reports how many visitors are tracked.
func (vs *Visitors) Len() int {
	vs.Lock()
	defer vs.Unlock()
	return len(vs.val)
}

// cleanup deletes a Visitor from Visitors if they have not been seen in over an hour.
func (vs *Visitors) cleanup() {
	vs.Lock()
	defer vs.Unlock()
	for ip, v := range vs.val {
		if time.Since(v.LastSeen) > 60*time.Minute {
			delete(vs.val, ip)
		}
	}
}

// RateLimit encloses the Visitors map and serves the http.Handler,
// answering 429 to visitors over their limit.
//
// Visitors are keyed by the address InjectIPAddress stored, or the headers otherwise.
//
// NOTE: implementation found here:
// https://www.alexedwards.net/blog/how-to-rate-limit-http-requests
func RateLimit(visitors *Visitors) Adapter {
	if visitors == nil {
		return NoopAdapter
	}

	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, ok := r.Context().Value(playbook.IpAddrKey).(string)
			if !ok {
				ip = GetIPAddress(r.Header)
			}

			if !visitors.Fetch(ip).Limiter.Allow() {
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}

			visitors.cleanup()
			h.ServeHTTP(w, r)
		})
	}
}
