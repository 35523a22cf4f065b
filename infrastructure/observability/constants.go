package observability

// Metric name prefixes
const (
	MetricPrefix = "dinks"
)

// Metric names
const (
	// Balance metrics
	BalanceTransactionsTotal = MetricPrefix + ".balance.transactions_total"
	AccountsCreatedTotal     = MetricPrefix + ".accounts.created_total"

	// Rob metrics
	RobAttemptsTotal = MetricPrefix + ".rob.attempts_total"

	// Gambling metrics
	GamblesTotal = MetricPrefix + ".gambles.total"

	// Interest metrics
	InterestRunsTotal      = MetricPrefix + ".interest.runs_total"
	InterestAccountsTotal  = MetricPrefix + ".interest.accounts_total"
	InterestDistributed    = MetricPrefix + ".interest.distributed"
	PrisonTransitionsTotal = MetricPrefix + ".prison.transitions_total"
	ConcurrencyRetries     = MetricPrefix + ".transactions.conflict_retries_total"
	NATSMessagesPublished  = MetricPrefix + ".nats.messages_published_total"
	NATSPublishFailures    = MetricPrefix + ".nats.publish_failures_total"
)

// Label keys
const (
	LabelType      = "type"
	LabelEventType = "event_type"
	LabelOutcome   = "outcome"
	LabelGame      = "game"
	LabelWon       = "won"
	LabelReason    = "reason"
	LabelJailed    = "jailed"
)
