package constants

const (
	// Onboarding grant and starting progression for a new user
	StartingSparks = 100
	StartingLevel  = 1

	// Task rewards by priority
	TaskRewardHigh   = 25
	TaskRewardMedium = 15
	TaskRewardLow    = 10

	// Habit rewards by frequency
	HabitRewardDaily   = 20
	HabitRewardWeekly  = 50
	HabitRewardMonthly = 100

	// Pomodoro rewards by session type
	PomodoroWorkReward  = 30
	PomodoroBreakReward = 10

	// Nominal session durations in seconds
	WorkDurationSec       = 25 * 60
	ShortBreakDurationSec = 5 * 60
	LongBreakDurationSec  = 15 * 60

	// Entity defaults
	DefaultTaskCategory = "General"
	DefaultHabitColor   = "#10B981"
	DefaultEmail        = "user@neuroflow.com"
)

func init() {
	// Rewards must rank with effort, the reward tables assume it
	if !(TaskRewardHigh > TaskRewardMedium && TaskRewardMedium > TaskRewardLow) {
		panic("task rewards must be ordered high > medium > low")
	}
	if PomodoroWorkReward <= PomodoroBreakReward {
		panic("work sessions must reward more than breaks")
	}
}
