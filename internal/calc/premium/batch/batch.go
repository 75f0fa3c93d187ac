package batch

import (
	"fmt"

	sfrc "SFRC/internal/calc/sfrc"

	"github.com/montanaflynn/stats"
)

type Input struct {
	Items []sfrc.Input `json:"items"`
}

// Item carries either a result or the validation error of one mix.
type Item struct {
	Index  int          `json:"index"`
	Result *sfrc.Result `json:"result,omitempty"`
	Error  string       `json:"error,omitempty"`
}

type Spread struct {
	Mean   float64 `json:"mean"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	StdDev float64 `json:"std_dev"`
}

type Summary struct {
	Count    int    `json:"count"`
	Valid    int    `json:"valid"`
	InDomain int    `json:"in_domain"`
	MeanFR1  Spread `json:"mean_fr1"`
	MeanFR3  Spread `json:"mean_fr3"`
}

type Result struct {
	Items   []Item  `json:"items"`
	Summary Summary `json:"summary"`
}

// MaxItems bounds one request.
const MaxItems = 1000

func Calculate(e *sfrc.Engine, in Input) (Result, error) {
	if len(in.Items) == 0 {
		return Result{}, fmt.Errorf("no items")
	}
	if len(in.Items) > MaxItems {
		return Result{}, fmt.Errorf("too many items: %d > %d", len(in.Items), MaxItems)
	}
	if e == nil {
		e = sfrc.Default()
	}

	out := Result{Items: make([]Item, 0, len(in.Items))}
	var fr1, fr3 []float64
	for i, mix := range in.Items {
		res, err := e.Predict(mix)
		if err != nil {
			out.Items = append(out.Items, Item{Index: i, Error: err.Error()})
			continue
		}
		if res.InDomain {
			out.Summary.InDomain++
		}
		fr1 = append(fr1, res.MeanFR1)
		fr3 = append(fr3, res.MeanFR3)
		out.Items = append(out.Items, Item{Index: i, Result: &res})
	}
	out.Summary.Count = len(in.Items)
	out.Summary.Valid = len(fr1)

	var err error
	if out.Summary.MeanFR1, err = spread(fr1); err != nil {
		return Result{}, err
	}
	if out.Summary.MeanFR3, err = spread(fr3); err != nil {
		return Result{}, err
	}
	return out, nil
}

// spread of an empty sample is all zeros.
func spread(data stats.Float64Data) (Spread, error) {
	if len(data) == 0 {
		return Spread{}, nil
	}
	var s Spread
	var err error
	if s.Mean, err = data.Mean(); err != nil {
		return Spread{}, err
	}
	if s.Min, err = data.Min(); err != nil {
		return Spread{}, err
	}
	if s.Max, err = data.Max(); err != nil {
		return Spread{}, err
	}
	if s.StdDev, err = data.StandardDeviation(); err != nil {
		return Spread{}, err
	}
	return s, nil
}
