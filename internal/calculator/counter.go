// Package calculator holds the stateless game calculators behind the
// troop counter, gear and resource pages.
package calculator

// TroopCounts is a composition of the three basic combat troop types.
type TroopCounts struct {
	Bruisers int `json:"bruisers"`
	Hitmen   int `json:"hitmen"`
	Bikers   int `json:"bikers"`
}

// CounterTroops returns the composition that counters opponent one for one:
// bikers beat bruisers, bruisers beat hitmen and hitmen beat bikers.
func CounterTroops(opponent TroopCounts) TroopCounts {
	var out TroopCounts
	out.Bikers += opponent.Bruisers
	out.Bruisers += opponent.Hitmen
	out.Hitmen += opponent.Bikers
	return out
}
