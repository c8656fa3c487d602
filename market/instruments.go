// market/instruments.go
package market

import "fmt"

type InstrumentMeta struct {
	Name       string
	Exchange   string
	TickSize   float64
	PointValue float64 // currency per full point per contract
}

// TickValue is the currency value of a single tick for one contract.
func (m InstrumentMeta) TickValue() float64 {
	return m.TickSize * m.PointValue
}

var Instruments = map[string]InstrumentMeta{
	"MNQ": {
		Name:       "MNQ",
		Exchange:   "CME",
		TickSize:   0.25,
		PointValue: 2,
	},
	"NQ": {
		Name:       "NQ",
		Exchange:   "CME",
		TickSize:   0.25,
		PointValue: 20,
	},
	"MES": {
		Name:       "MES",
		Exchange:   "CME",
		TickSize:   0.25,
		PointValue: 5,
	},
	"ES": {
		Name:       "ES",
		Exchange:   "CME",
		TickSize:   0.25,
		PointValue: 50,
	},
}

// Lookup returns metadata for a known instrument.
func Lookup(name string) (InstrumentMeta, error) {
	meta, ok := Instruments[name]
	if !ok {
		return InstrumentMeta{}, fmt.Errorf("unknown instrument %s", name)
	}
	return meta, nil
}
