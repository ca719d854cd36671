package metrics

// ============================================================================
// Metric Names
// ============================================================================

// Scaling metric names
const (
	MetricNameRecomputeTotal   = "autobalance_recompute_total"
	MetricNameDamageAdjusted   = "autobalance_damage_adjusted_total"
	MetricNameXPScaled         = "autobalance_xp_scaled_total"
	MetricNameTrackedInstances = "autobalance_tracked_instances"
	MetricNameTrackedCreatures = "autobalance_tracked_creatures"
	MetricNameTrackerEvents    = "autobalance_tracker_events_total"
	MetricNameImmunityChanges  = "autobalance_immunity_changes_total"
	MetricNameConfigReloads    = "autobalance_config_reloads_total"
)

// Reward metric names
const (
	MetricNameRewardGrants = "autobalance_reward_grants_total"
	MetricNameRewardSkips  = "autobalance_reward_skips_total"
	MetricNameLedgerErrors = "autobalance_ledger_errors_total"
)

// Console metric names
const (
	MetricNameConsoleSessions  = "autobalance_console_sessions"
	MetricNameConsoleCommands  = "autobalance_console_commands_total"
	MetricNameConsoleAuthFails = "autobalance_console_auth_failures_total"
	MetricNameConsoleThrottled = "autobalance_console_throttled_total"
	MetricNameConsoleRejected  = "autobalance_console_rejected_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// Scaling metric help text
const (
	HelpTextRecomputeTotal   = "Creature scaling passes by outcome and early-exit reason"
	HelpTextDamageAdjusted   = "Damage and heal amounts changed by a creature damage multiplier"
	HelpTextXPScaled         = "Kill experience grants scaled down for small groups"
	HelpTextTrackedInstances = "Instances with a population record"
	HelpTextTrackedCreatures = "Creatures with a scaling record"
	HelpTextTrackerEvents    = "Population tracker events by kind"
	HelpTextImmunityChanges  = "Player enter and leave events that ran the immunity rules"
	HelpTextConfigReloads    = "Configuration reloads by result"
)

// Reward metric help text
const (
	HelpTextRewardGrants = "Encounter tokens granted to players"
	HelpTextRewardSkips  = "Encounter credits that granted nothing, by gate"
	HelpTextLedgerErrors = "Reward grants that could not be recorded"
)

// Console metric help text
const (
	HelpTextConsoleSessions  = "Open admin console sessions"
	HelpTextConsoleCommands  = "Admin console commands by subcommand"
	HelpTextConsoleAuthFails = "Admin console logins rejected"
	HelpTextConsoleThrottled = "Admin console commands rejected by the rate limit"
	HelpTextConsoleRejected  = "Admin console connections refused by session caps"
)

// ============================================================================
// Label Names
// ============================================================================

const (
	LabelOutcome = "outcome"
	LabelReason  = "reason"
	LabelEvent   = "event"
	LabelResult  = "result"
	LabelKind    = "kind"
	LabelCommand = "command"
	LabelLimit   = "limit"
)

// ============================================================================
// Label Values
// ============================================================================

// Tracker events
const (
	EventEnter          = "enter"
	EventLeave          = "leave"
	EventCountPreserved = "combat_preserved"
	EventVacated        = "vacated"
	EventLevelChange    = "level_change"
	EventRecheck        = "recheck"
)

// Reload results
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Immunity kinds
const (
	KindEnter = "enter"
	KindLeave = "leave"
	KindPet   = "pet"
)
