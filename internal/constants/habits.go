package constants

// Timeframe selects the window used by the statistics view
type Timeframe string

// FilterState selects which habits the list view shows
type FilterState string

const (
	TimeframeWeek  Timeframe = "week"
	TimeframeMonth Timeframe = "month"
	TimeframeYear  Timeframe = "year"

	FilterAll       FilterState = "all"
	FilterActive    FilterState = "active"
	FilterCompleted FilterState = "completed"

	// Default window lengths for the progress views
	ProgressWindowDays = 7
	ChartWindowDays    = 7
	TopHabitsCount     = 3

	DefaultCategoryColor = "#64748B"
)

// CategoryColors maps well-known categories to their display color.
var CategoryColors = map[string]string{
	"Health":       "#3B82F6",
	"Fitness":      "#10B981",
	"Education":    "#8B5CF6",
	"Mindfulness":  "#EC4899",
	"Productivity": "#F59E0B",
	"Finance":      "#6366F1",
	"Social":       "#F97316",
	"Creativity":   "#06B6D4",
}

// CategoryNames lists the well-known categories in display order.
var CategoryNames = []string{
	"Health",
	"Fitness",
	"Education",
	"Mindfulness",
	"Productivity",
	"Finance",
	"Social",
	"Creativity",
}
