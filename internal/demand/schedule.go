package demand

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrBadSchedule indicates a schedule file that does not describe a valid
// 20-round game.
var ErrBadSchedule = errors.New("invalid demand schedule")

type scheduleFile struct {
	Phases []struct {
		Rounds     int     `yaml:"rounds"`
		Min        int     `yaml:"min"`
		Max        int     `yaml:"max"`
		Volatility float64 `yaml:"volatility"`
	} `yaml:"phases"`
}

// LoadSchedule reads a YAML phase list and expands it into a per-round
// schedule. The phases must cover exactly Rounds rounds.
func LoadSchedule(path string) (Schedule, error) {
	var s Schedule
	raw, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read schedule: %w", err)
	}
	var f scheduleFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return s, fmt.Errorf("parse schedule: %w", err)
	}
	if len(f.Phases) == 0 {
		return s, fmt.Errorf("%w: no phases", ErrBadSchedule)
	}

	i := 0
	for n, p := range f.Phases {
		switch {
		case p.Rounds < 1:
			return s, fmt.Errorf("%w: phase %d has no rounds", ErrBadSchedule, n+1)
		case p.Min < 0 || p.Max < p.Min:
			return s, fmt.Errorf("%w: phase %d bounds [%d,%d]", ErrBadSchedule, n+1, p.Min, p.Max)
		case p.Volatility < 0:
			return s, fmt.Errorf("%w: phase %d volatility %v", ErrBadSchedule, n+1, p.Volatility)
		}
		for r := 0; r < p.Rounds; r++ {
			if i >= Rounds {
				return s, fmt.Errorf("%w: phases cover more than %d rounds", ErrBadSchedule, Rounds)
			}
			s[i] = Phase{Min: p.Min, Max: p.Max, Volatility: p.Volatility}
			i++
		}
	}
	if i != Rounds {
		return s, fmt.Errorf("%w: phases cover %d of %d rounds", ErrBadSchedule, i, Rounds)
	}
	return s, nil
}
