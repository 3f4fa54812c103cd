package constants

import "time"

// SessionState represents the current view of the TUI application
type SessionState int

const (
	AppName            = "neuroflow"
	DefaultKeyringUser = "database-connection"
	RedisKeyringUser   = "redis-password"
	DefaultConfigDir   = "~/.config/neuroflow"
	DefaultConfigPath  = "~/.config/neuroflow/config.yaml"
	DefaultDataPath    = "~/.config/neuroflow/neuroflow.db"
	Version            = "v0.3.0"

	// TablePrefix namespaces every table key written to the key-value medium
	TablePrefix = "neuroflow_"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "neuroflow-"
	BackupFileSuffix = ".json"

	// Notify constants
	NotifyMaxRetries       = 3
	NotifyRetryDelay       = 100 * time.Millisecond
	NotifierLockfileName   = "neuroflow-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.neuroflow"

	// Views
	ViewDashboard = "dashboard"
	ViewTasks     = "tasks"
	ViewHabits    = "habits"
	ViewPomodoro  = "pomodoro"
	ViewDiary     = "diary"
	ViewHealth    = "health"
	ViewFinance   = "finance"
	ViewNutrition = "nutrition"
	ViewRewards   = "rewards"
)

// Session States
const (
	StateDashboard SessionState = iota
	StateTasks
	StateHabits
	StatePomodoro
)

// Tables lists every collection the table store knows about, in creation order.
var Tables = []string{
	TableUsers,
	TableTasks,
	TableHabits,
	TableDiaryEntries,
	TableHealthMetrics,
	TableFinanceEntries,
	TableNutritionEntries,
	TableAchievements,
	TablePomodoroSessions,
}

const (
	TableUsers            = "users"
	TableTasks            = "tasks"
	TableHabits           = "habits"
	TableDiaryEntries     = "diary_entries"
	TableHealthMetrics    = "health_metrics"
	TableFinanceEntries   = "finance_entries"
	TableNutritionEntries = "nutrition_entries"
	TableAchievements     = "achievements"
	TablePomodoroSessions = "pomodoro_sessions"
)
