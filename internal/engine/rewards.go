package engine

import (
	"github.com/julianstephens/neuroflow/internal/constants"
	"github.com/julianstephens/neuroflow/internal/models"
)

// TaskReward is the default sparks reward for a task of priority p.
func TaskReward(p models.Priority) int {
	switch p {
	case models.PriorityHigh:
		return constants.TaskRewardHigh
	case models.PriorityMedium:
		return constants.TaskRewardMedium
	default:
		return constants.TaskRewardLow
	}
}

// HabitReward is the default sparks reward for a habit of frequency f.
func HabitReward(f models.Frequency) int {
	switch f {
	case models.FrequencyWeekly:
		return constants.HabitRewardWeekly
	case models.FrequencyMonthly:
		return constants.HabitRewardMonthly
	default:
		return constants.HabitRewardDaily
	}
}
