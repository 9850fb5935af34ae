package match

import "time"

// LogType is the category of an audit log entry.
type LogType string

const (
	LogPlay             LogType = "play"
	LogDamage           LogType = "damage"
	LogShieldBreak      LogType = "divine_shield"
	LogHeal             LogType = "heal"
	LogBuff             LogType = "buff"
	LogSummon           LogType = "summon"
	LogDraw             LogType = "draw"
	LogBurn             LogType = "burn"
	LogDiscard          LogType = "discard"
	LogDestroy          LogType = "destroy"
	LogDeath            LogType = "death"
	LogReturn           LogType = "return"
	LogTransform        LogType = "transform"
	LogSilence          LogType = "silence"
	LogFreeze           LogType = "freeze"
	LogMindControl      LogType = "mind_control"
	LogDiscover         LogType = "discover"
	LogQuestStarted     LogType = "quest_started"
	LogQuestProgress    LogType = "quest_progress"
	LogQuestCompleted   LogType = "quest_completed"
	LogQuestRewardAdded LogType = "quest_reward_added"
	LogArmor            LogType = "armor"
	LogEquip            LogType = "equip"
	LogAddToHand        LogType = "add_to_hand"
	LogDeathrattle      LogType = "deathrattle"
	LogFrenzy           LogType = "frenzy"
	LogMagnetic         LogType = "magnetic"
	LogColossal         LogType = "colossal"
	LogEcho             LogType = "echo"
	LogCombo            LogType = "combo"
	LogSecret           LogType = "secret"
	LogEffect           LogType = "effect"
	LogAction           LogType = "action"
	LogEndTurn          LogType = "end_turn"
	LogMulligan         LogType = "mulligan"
)

// LogEvent is one append-only audit log entry.
type LogEvent struct {
	ID        string
	Type      LogType
	Player    Side
	Text      string
	Timestamp time.Time
	Turn      int
	CardID    string
	CardName  string
	TargetID  string
	Value     int
	Progress  int
	Target    int
}

// IntentKind tags a presentation intent.
type IntentKind string

const (
	IntentDraw          IntentKind = "draw"
	IntentBurn          IntentKind = "burn"
	IntentDamage        IntentKind = "damage"
	IntentShieldBreak   IntentKind = "shield_break"
	IntentHeal          IntentKind = "heal"
	IntentSummon        IntentKind = "summon"
	IntentDeath         IntentKind = "death"
	IntentTransform     IntentKind = "transform"
	IntentFreeze        IntentKind = "freeze"
	IntentDiscover      IntentKind = "discover"
	IntentQuestComplete IntentKind = "quest_complete"
)

// Intent is a side-channel instruction for the presentation layer. Resolution only
// records intents; it never acts on them.
type Intent struct {
	Kind     IntentKind
	Side     Side
	Instance InstanceID
	CardID   string
	Amount   int
}
