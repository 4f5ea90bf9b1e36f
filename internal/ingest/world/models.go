package world

// Wire shapes of the world-site JSON documents. The upstream key names
// are obfuscated; the mapping here is the whole contract.

// HeroListDoc is the hero list document.
type HeroListDoc struct {
	Heroes []HeroRecord `json:"yzzyxl_5891"`
}

// HeroRecord is one hero entry. ID arrives as a string.
type HeroRecord struct {
	ID        string `json:"id_6123"`
	Name      string `json:"yxpy_5883"`
	Title     string `json:"ch_1965"`
	Role      string `json:"zy_2816"`
	Region    string `json:"yxqy_2536"`
	Icon      string `json:"yxlbfm_8417"`
	Banner    string `json:"yxlbfm_8938"`
	Thumbnail string `json:"yxlbfm_2561"`
}

// SkinListDoc is the skin-series document.
type SkinListDoc struct {
	Skins []SkinSeriesRecord `json:"pflbzt_5151"`
}

// SkinSeriesRecord maps a skin name to its series for a CSV list of
// hero ids.
type SkinSeriesRecord struct {
	Name    string `json:"btpfjs_7484"`
	Series  string `json:"pftxmc_8315"`
	HeroIDs string `json:"pfjsgy_4147"`
}
