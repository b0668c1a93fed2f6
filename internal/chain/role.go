// Package chain defines the fixed five-stage supply chain: the closed set of
// roles, their total order, and adjacency lookups. "Downstream" always means
// toward the retailer, "upstream" toward the supplier.
package chain

import "errors"

// ErrUnknownRole indicates a role outside the fixed chain.
var ErrUnknownRole = errors.New("unknown supply chain role")

// Role identifies one stage of the supply chain.
type Role int

const (
	Supplier Role = iota
	Manufacturer
	Wholesaler
	Distributor
	Retailer
)

// Order lists every role from the most upstream to the most downstream.
// It is structural and never changes during a game.
var Order = [5]Role{Supplier, Manufacturer, Wholesaler, Distributor, Retailer}

var names = [5]string{"supplier", "manufacturer", "wholesaler", "distributor", "retailer"}

func (r Role) String() string {
	if !r.Valid() {
		return "unknown"
	}
	return names[r]
}

// Valid reports whether r is a member of the fixed chain.
func (r Role) Valid() bool {
	return r >= Supplier && r <= Retailer
}

// MarshalText lets roles serve as JSON values and map keys.
func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, ErrUnknownRole
	}
	return []byte(r.String()), nil
}

// UnmarshalText parses a role name.
func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Parse resolves a role by its lowercase name.
func Parse(name string) (Role, error) {
	for i, n := range names {
		if n == name {
			return Role(i), nil
		}
	}
	return 0, ErrUnknownRole
}

// Downstream returns the adjacent role toward the retailer.
// ok is false at the chain terminus.
func Downstream(r Role) (next Role, ok bool) {
	if !r.Valid() || r == Retailer {
		return 0, false
	}
	return r + 1, true
}

// Upstream returns the adjacent role toward the supplier.
// ok is false at the chain head.
func Upstream(r Role) (next Role, ok bool) {
	if !r.Valid() || r == Supplier {
		return 0, false
	}
	return r - 1, true
}

// DownstreamDistance returns how many steps toward the retailer separate
// from and to. The result is negative when to sits upstream of from.
func DownstreamDistance(from, to Role) int {
	return int(to) - int(from)
}
