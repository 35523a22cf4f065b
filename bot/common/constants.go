package common

// Discord color constants
const (
	ColorPrimary = 0x5865F2 // Discord blurple
	ColorSuccess = 0x57F287 // Green
	ColorDanger  = 0xED4245 // Red
	ColorWarning = 0xFEE75C // Yellow
	ColorInfo    = 0x3498DB // Blue
	ColorGold    = 0xF1C40F
)

// Display constants
const (
	DinksEmoji   = "🥞"
	BitcoinEmoji = "₿"

	LeaderboardSize = 10
	PrisonListSize  = 15
	HistorySize     = 10
)
