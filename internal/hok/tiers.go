package hok

// Skin tier classification, following the official tier system. Lookup
// precedence: exact skin name, then series mapping, then the default
// (series present = Epic, no series = Rare).

// TierInfo is display metadata for a tier key.
type TierInfo struct {
	Name  string
	Color string
}

// CollabTag marks a crossover series on a skin.
type CollabTag struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Tier keys.
const (
	TierNoTag    = "NO_TAG"
	TierRare     = "RARE"
	TierEpic     = "EPIC"
	TierLegend   = "LEGEND"
	TierPrecious = "PRECIOUS"
	TierMythic   = "MYTHIC"
	TierFlawless = "FLAWLESS"
)

var skinTiers = map[string]TierInfo{
	TierNoTag:    {Name: "No Tag", Color: "#9CA3AF"},
	TierRare:     {Name: "Rare", Color: "#3B82F6"},
	TierEpic:     {Name: "Epic", Color: "#8B5CF6"},
	TierLegend:   {Name: "Legend", Color: "#F59E0B"},
	TierPrecious: {Name: "Precious", Color: "#EC4899"},
	TierMythic:   {Name: "Mythic", Color: "#EF4444"},
	TierFlawless: {Name: "Flawless", Color: "#F472B6"},
}

var collabTags = map[string]CollabTag{
	"SAINT_SEIYA":     {Name: "Saint Seiya", Color: "#FFD700"},
	"SAILOR_MOON":     {Name: "Sailor Moon", Color: "#FF69B4"},
	"SANRIO":          {Name: "Sanrio Characters", Color: "#FF6B6B"},
	"JUJUTSU_KAISEN":  {Name: "Jujutsu Kaisen", Color: "#1E3A5F"},
	"BLEACH":          {Name: "Bleach: TYBW", Color: "#FF4500"},
	"DETECTIVE_CONAN": {Name: "Detective Conan", Color: "#1E90FF"},
	"FROZEN":          {Name: "Disney's Frozen", Color: "#87CEEB"},
	"SNK":             {Name: "SNK", Color: "#8B0000"},
	"LORD_MYSTERIES":  {Name: "Lord of the Mysteries", Color: "#4B0082"},
}

type seriesEntry struct {
	Tier   string
	Collab string
	Tag    string
}

var seriesMapping = map[string]seriesEntry{
	"DETECTIVE CONAN": {Tier: TierEpic, Collab: "DETECTIVE_CONAN"},
	"PRETTY GUARDIAN SAILOR MOON COSMOS THE MOVIE COLLAB": {Tier: TierEpic, Collab: "SAILOR_MOON"},
	"SNK": {Tier: TierEpic, Collab: "SNK"},

	"FUTURE ERA":            {Tier: TierEpic},
	"DOOMSDAY MECHA":        {Tier: TierEpic},
	"COSMIC SONG":           {Tier: TierEpic},
	"SPACE ODYSSEY":         {Tier: TierEpic},
	"INTERSTELLAR":          {Tier: TierEpic},
	"HELLFIRE":              {Tier: TierLegend},
	"MAGIC":                 {Tier: TierEpic},
	"MAGIC - MAGIC ACADEMY": {Tier: TierEpic},
	"JOURNEY TO THE WEST":   {Tier: TierEpic},
	"GAMER":                 {Tier: TierEpic},
	"MANGA CROSSOVER":       {Tier: TierEpic},
	"SIRIUS SQUAD":          {Tier: TierEpic},
	"LIMBO":                 {Tier: TierLegend},
	"FIVE HONORS":           {Tier: TierLegend},
	"FIVE TIGER GENERALS":   {Tier: TierLegend},
	"FIVE MOUNTAINS":        {Tier: TierLegend},
	"DRAGON HUNTER":         {Tier: TierEpic},
	"YEAR OF THE DRAGON":    {Tier: TierEpic},
	"NUTCRACKER MONARCH":    {Tier: TierEpic},
	"CHRISTMAS CAROL":       {Tier: TierEpic},
	"ODE TO WINTER":         {Tier: TierEpic},
	"BEACH VACATION":        {Tier: TierEpic},
	"HOME SWEET HOME":       {Tier: TierEpic},
	"CAMPUS DIARIES":        {Tier: TierRare},
	"FLOWER WHISPER":        {Tier: TierEpic},
	"COLORS OF THE SOUL":    {Tier: TierEpic},
	"TALES OLD AND NEW":     {Tier: TierEpic},
	"STRANGE TALES":         {Tier: TierEpic},
	"DUNHUANG ENCOUNTER":    {Tier: TierLegend},
	"SHI YI'S TALE":         {Tier: TierLegend},
	"MASK SPIRITS":          {Tier: TierEpic},
	"DAWNVILLE":             {Tier: TierEpic},
	"RAIN PLAY":             {Tier: TierEpic},
	"ENDLESS LOVE":          {Tier: TierEpic},
	"WORLD CUP":             {Tier: TierEpic, Tag: "LIMITED"},
	"EWC":                   {Tier: TierLegend, Tag: "KIC"},
	"AMPED UP":              {Tier: TierEpic},
	"AMPED UP: TRUE HERTZ":  {Tier: TierLegend},
	"AMBER ERA":             {Tier: TierEpic},
	"Ascension":             {Tier: TierEpic, Tag: "WORLDLY"},
}

var specialSkins = map[string]string{
	"Eternal Night":     TierFlawless,
	"Nine-Tailed Fox":   TierFlawless,
	"Swan Princess":     TierFlawless,
	"Drunken Swordsman": TierFlawless,
	"Frostfire Dragon":  TierMythic,
	"Time Keeper":       TierMythic,
	"Blazing Stars":     TierMythic,
	"Astral Magic":      TierLegend,
}

// SkinTier resolves the tier key for a skin.
func SkinTier(skinName, skinSeries string) string {
	if tier, ok := specialSkins[skinName]; ok {
		return tier
	}
	if skinSeries != "" {
		if entry, ok := seriesMapping[skinSeries]; ok {
			return entry.Tier
		}
		return TierEpic
	}
	return TierRare
}

// ClassifySkin stamps tier, display metadata, and any collab or special
// tag onto the skin in place.
func ClassifySkin(s *Skin) {
	tier := SkinTier(s.Name, s.Series)
	s.Tier = tier
	if info, ok := skinTiers[tier]; ok {
		s.TierName = info.Name
		s.TierColor = info.Color
	} else {
		s.TierName = tier
	}
	s.Collab = nil
	s.Tag = ""
	if s.Series == "" {
		return
	}
	if _, special := specialSkins[s.Name]; special {
		return
	}
	if entry, ok := seriesMapping[s.Series]; ok {
		if entry.Collab != "" {
			if tag, ok := collabTags[entry.Collab]; ok {
				s.Collab = &tag
			}
		}
		s.Tag = entry.Tag
	}
}
