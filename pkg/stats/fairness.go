// Package stats provides distribution metrics over assigned hours.
package stats

import (
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/venueops/roster/pkg/model"
)

// HourDistribution summarizes how assigned hours spread across staff.
type HourDistribution struct {
	Hours    map[uuid.UUID]float64 `json:"hours"`
	Mean     float64               `json:"mean"`
	Variance float64               `json:"variance"`
	StdDev   float64               `json:"std_dev"`
	Max      float64               `json:"max"`
	Min      float64               `json:"min"`
	Gini     float64               `json:"gini"`
}

// Distribute computes per-staff hours for a set of assignments. Staff with no
// assignments count as zero hours so fairness sees the full roster.
func Distribute(assignments []model.Assignment, staff []model.StaffMember) *HourDistribution {
	hours := make(map[uuid.UUID]float64, len(staff))
	for _, s := range staff {
		hours[s.ID] = 0
	}
	for _, a := range assignments {
		hours[a.StaffID] += a.Hours()
	}

	values := make([]float64, 0, len(hours))
	for _, h := range hours {
		values = append(values, h)
	}

	d := &HourDistribution{Hours: hours}
	if len(values) == 0 {
		return d
	}

	d.Mean = mean(values)
	d.Variance = variance(values, d.Mean)
	d.StdDev = math.Sqrt(d.Variance)
	d.Max, d.Min = valueRange(values)
	d.Gini = gini(values)
	return d
}

// ImbalancePenalty returns a smooth 0..1 penalty factor for uneven hours:
// 0 for a perfectly even split, approaching 1 as the spread dominates the mean.
func (d *HourDistribution) ImbalancePenalty() float64 {
	if d.Mean <= 0 {
		return 0
	}
	return math.Min(1, d.StdDev/d.Mean)
}

// FairnessScore maps the distribution to a 0-100 score, higher is fairer.
func (d *HourDistribution) FairnessScore() float64 {
	score := (1-d.Gini)*60 + (1-d.ImbalancePenalty())*40
	return math.Max(0, math.Min(100, score))
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func variance(values []float64, mean float64) float64 {
	sumSquares := 0.0
	for _, v := range values {
		diff := v - mean
		sumSquares += diff * diff
	}
	return sumSquares / float64(len(values))
}

func valueRange(values []float64) (max, min float64) {
	max, min = values[0], values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
		if v < min {
			min = v
		}
	}
	return
}

// gini computes the Gini coefficient of the values (0 = even, 1 = one-sided).
func gini(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}
	if sum == 0 {
		return 0
	}

	g := 0.0
	for i, v := range sorted {
		g += (2*float64(i+1) - float64(n) - 1) * v
	}
	g = g / (float64(n) * sum)
	return math.Max(0, math.Min(1, g))
}
