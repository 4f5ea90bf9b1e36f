package camp

// Wire shapes of the analytics API responses. Every endpoint wraps its
// payload in a data envelope.

type heroListResponse struct {
	Data []HeroListEntry `json:"data"`
}

// HeroListEntry is one row of the hero roster.
type HeroListEntry struct {
	HeroID   int    `json:"hero_id"`
	HeroName string `json:"hero_name"`
}

type heroInfoResponse struct {
	Data []HeroInfo `json:"data"`
}

// HeroInfo is the detail record for a single hero.
type HeroInfo struct {
	HeroID   int    `json:"hero_id"`
	HeroName string `json:"hero_name"`
	TypeName string `json:"hero_type_name"`
	LaneName string `json:"hero_lane_name"`
	Icon     string `json:"hero_icon"`
	Banner   string `json:"hero_banner"`
	Head     string `json:"hero_head"`
	Region   string `json:"hero_region"`
	Identity string `json:"hero_identity"`
	Energy   string `json:"hero_energy"`

	SurvivalAbility float64 `json:"survival_ability"`
	AttackDamage    float64 `json:"attack_damage"`
	SkillEffect     float64 `json:"skill_effect"`
	Difficulty      float64 `json:"difficulty"`
}

type heroStatsResponse struct {
	Data *HeroStats `json:"data"`
}

// HeroStats carries ranked-mode rates as fractions (0.5231 = 52.31%).
type HeroStats struct {
	WinRate       float64 `json:"win_rate"`
	AppearRate    float64 `json:"appear_rate"`
	BanRate       float64 `json:"ban_rate"`
	StrengthLabel string  `json:"strength_label"`
}

type skillListResponse struct {
	Data []SkillEntry `json:"data"`
}

// SkillEntry is one ability. Cooldown and consume are slash-separated
// per-level progressions ("10/9/8").
type SkillEntry struct {
	Name    string `json:"skill_name"`
	CD      string `json:"skill_cd"`
	Consume string `json:"skill_consume"`
	Desc    string `json:"skill_desc"`
	Icon    string `json:"skill_icon"`
}

type equipResponse struct {
	Data *EquipData `json:"data"`
}

// EquipData wraps the recommended equipment list.
type EquipData struct {
	BuildTitle string       `json:"build_title"`
	EquipList  []EquipEntry `json:"equip_list"`
}

// EquipEntry is one recommended item.
type EquipEntry struct {
	ID     int    `json:"equip_id"`
	Name   string `json:"equip_name"`
	Icon   string `json:"equip_icon"`
	Desc   string `json:"equip_desc"`
	Price  int    `json:"equip_price"`
	IsCore int    `json:"is_core"`
}

type runeListResponse struct {
	Data []RuneEntry `json:"data"`
}

// RuneEntry is one recommended arcana.
type RuneEntry struct {
	ID   int    `json:"rune_id"`
	Name string `json:"rune_name"`
	Icon string `json:"rune_icon"`
	Desc string `json:"rune_desc"`
}

type relationResponse struct {
	Data *RelationData `json:"data"`
}

// RelationData groups matchup lists for one hero.
type RelationData struct {
	BestPartner []RelationEntry `json:"best_partner"`
	WinOdds     []RelationEntry `json:"win_odds_hero"`
	WeakOdds    []RelationEntry `json:"weak_odds_hero"`
}

// RelationEntry is one counterpart hero in a matchup list.
type RelationEntry struct {
	HeroName string `json:"hero_name"`
	Icon     string `json:"hero_icon"`
	Tips     string `json:"tips"`
}
