package domain

// CatalogItem stores information about an anime as returned by the catalog source
type CatalogItem struct {
	MalID        int    `json:"malId" yaml:"malid"`
	Title        string `json:"title" yaml:"title"`
	TitleEnglish string `json:"titleEnglish,omitempty" yaml:"titleEnglish,omitempty"`
	Image        string `json:"image,omitempty" yaml:"image,omitempty"`
	LargeImage   string `json:"largeImage,omitempty" yaml:"largeImage,omitempty"`
	URL          string `json:"url" yaml:"url"`
	Synopsis     string `json:"synopsis,omitempty" yaml:"synopsis,omitempty"`
	Year         int    `json:"year,omitempty" yaml:"year,omitempty"`
	Type         string `json:"type,omitempty" yaml:"type,omitempty"`
}

// DisplayTitle prefers the english title, used by hero slides
func (c CatalogItem) DisplayTitle() string {
	if c.TitleEnglish != "" {
		return c.TitleEnglish
	}
	if c.Title != "" {
		return c.Title
	}
	return "Untitled"
}

// Favorite builds the My List payload for this item
func (c CatalogItem) Favorite() Favorite {
	return Favorite{
		MalID: c.MalID,
		Title: c.Title,
		Image: c.Image,
		URL:   c.URL,
	}
}

// Genre is a catalog genre used by the genre browser
type Genre struct {
	MalID int    `json:"malId"`
	Name  string `json:"name"`
	Count int    `json:"count,omitempty"`
}
