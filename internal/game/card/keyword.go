package card

// Keyword is a printed keyword tag.
type Keyword string

const (
	KeywordTaunt        Keyword = "taunt"
	KeywordDivineShield Keyword = "divine_shield"
	KeywordCharge       Keyword = "charge"
	KeywordRush         Keyword = "rush"
	KeywordWindfury     Keyword = "windfury"
	KeywordStealth      Keyword = "stealth"
	KeywordPoisonous    Keyword = "poisonous"
	KeywordLifesteal    Keyword = "lifesteal"
	KeywordSpellDamage  Keyword = "spell_damage"
	KeywordFrenzy       Keyword = "frenzy"
	KeywordMagnetic     Keyword = "magnetic"
	KeywordColossal     Keyword = "colossal"
	KeywordEcho         Keyword = "echo"
	KeywordBattlecry    Keyword = "battlecry"
	KeywordDeathrattle  Keyword = "deathrattle"
	KeywordCombo        Keyword = "combo"
)
