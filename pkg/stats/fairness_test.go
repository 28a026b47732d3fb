package stats

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/venueops/roster/pkg/model"
)

func member() model.StaffMember {
	return model.StaffMember{ID: uuid.New()}
}

func shift(staffID uuid.UUID, hours int) model.Assignment {
	return model.Assignment{
		StaffID: staffID,
		Day:     model.Monday,
		Window:  model.Window{Start: 9 * 60, End: model.ClockTime((9 + hours) * 60)},
	}
}

func TestDistributeEvenSplit(t *testing.T) {
	a, b := member(), member()
	d := Distribute([]model.Assignment{shift(a.ID, 6), shift(b.ID, 6)},
		[]model.StaffMember{a, b})

	assert.Equal(t, 6.0, d.Mean)
	assert.Equal(t, 0.0, d.StdDev)
	assert.Equal(t, 0.0, d.ImbalancePenalty())
	assert.Equal(t, 100.0, d.FairnessScore())
}

func TestDistributeCountsIdleStaff(t *testing.T) {
	a, b := member(), member()
	d := Distribute([]model.Assignment{shift(a.ID, 8)}, []model.StaffMember{a, b})

	assert.Equal(t, 8.0, d.Hours[a.ID])
	assert.Equal(t, 0.0, d.Hours[b.ID])
	assert.Equal(t, 4.0, d.Mean)
	assert.Equal(t, 8.0, d.Max)
	assert.Equal(t, 0.0, d.Min)
	// One person holds all the hours: fully one-sided for two people.
	assert.Equal(t, 1.0, d.ImbalancePenalty())
	assert.InDelta(t, 0.5, d.Gini, 1e-9)
}

func TestImbalancePenaltyIsSmooth(t *testing.T) {
	a, b := member(), member()
	staff := []model.StaffMember{a, b}

	mild := Distribute([]model.Assignment{shift(a.ID, 5), shift(b.ID, 7)}, staff)
	harsh := Distribute([]model.Assignment{shift(a.ID, 2), shift(b.ID, 10)}, staff)

	assert.Greater(t, mild.ImbalancePenalty(), 0.0)
	assert.Greater(t, harsh.ImbalancePenalty(), mild.ImbalancePenalty())
	assert.LessOrEqual(t, harsh.ImbalancePenalty(), 1.0)
}

func TestDistributeEmpty(t *testing.T) {
	d := Distribute(nil, nil)
	assert.Equal(t, 0.0, d.Mean)
	assert.Equal(t, 0.0, d.ImbalancePenalty())
}
