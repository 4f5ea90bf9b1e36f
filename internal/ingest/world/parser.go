package world

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/herolabs/hokhub/internal/hok"
)

// Skin gallery captions read "Skin Name — HERONAME"; the suffix is
// stripped before use.
var skinCaptionSuffix = regexp.MustCompile(`\s*—\s*[A-Z\s]+$`)

// ParseHTML converts raw HTML to a goquery Document for parsing.
func ParseHTML(htmlContent string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

// ParseHeroPageSkins extracts the skin gallery from a rendered hero
// page. Images are lazy-loaded, so data-src is preferred over src.
func ParseHeroPageSkins(doc *goquery.Document, baseURL string) []hok.Skin {
	var skins []hok.Skin

	doc.Find(".dskin-center-text.font-title-cn").Each(func(_ int, textEl *goquery.Selection) {
		name := strings.TrimSpace(skinCaptionSuffix.ReplaceAllString(strings.TrimSpace(textEl.Text()), ""))
		if name == "" {
			return
		}

		// Caption -> .dskin-text -> .dskin-poster-inner, which holds the img.
		var image string
		container := textEl.Parent().Parent()
		if img := container.Find("img").First(); img.Length() > 0 {
			image, _ = img.Attr("data-src")
			if image == "" {
				image, _ = img.Attr("src")
			}
			image = absoluteURL(image, baseURL)
		}

		skins = append(skins, hok.Skin{
			Name:  name,
			Cover: image,
			Image: image,
		})
	})

	return skins
}

func absoluteURL(src, baseURL string) string {
	if src == "" || !strings.HasPrefix(src, "/") {
		return src
	}
	src = strings.Replace(src, "//", "/", 1)
	return baseURL + src
}

// SeriesIndex maps "<heroID>-<skinName>" to a series label.
type SeriesIndex map[string]string

// BuildSeriesIndex flattens the skin-series document. One record covers
// every hero id in its CSV list.
func BuildSeriesIndex(doc *SkinListDoc) SeriesIndex {
	index := SeriesIndex{}
	if doc == nil {
		return index
	}
	for _, rec := range doc.Skins {
		if rec.Name == "" {
			continue
		}
		for _, id := range strings.Split(rec.HeroIDs, ",") {
			id = strings.TrimSpace(id)
			if id == "" {
				continue
			}
			index[id+"-"+rec.Name] = rec.Series
		}
	}
	return index
}

// Lookup returns the series for a (heroID, skinName) pair, empty when
// unmapped.
func (idx SeriesIndex) Lookup(heroID int, skinName string) string {
	return idx[fmt.Sprintf("%d-%s", heroID, skinName)]
}
