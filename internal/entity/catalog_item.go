package entity

// CatalogItem mirrors one record of the catalog's paginated uploads listing.
type CatalogItem struct {
	Name          string `json:"name"`
	LastVisitedAt string `json:"last_visited_at"` // empty when the catalog never recorded a visit
	FinalURL      string `json:"finalurl"`
}

// Candidate is a single unit of revival work.
type Candidate struct {
	FinalURL string `json:"finalurl"`
}

// MediaSelection controls which file categories a scan keeps.
type MediaSelection struct {
	Images bool
	Videos bool
}

// AllMedia selects both images and videos.
func AllMedia() MediaSelection {
	return MediaSelection{Images: true, Videos: true}
}
