package models

// CategoryCount is a category and how many approved events use it.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// AdminStats is returned by GET /api/admin/stats.
type AdminStats struct {
	TotalUsers       int64         `json:"totalUsers"`
	TotalEvents      int64         `json:"totalEvents"`
	PendingApprovals int64         `json:"pendingApprovals"`
	PopularCategory  CategoryCount `json:"popularCategory"`
}

// NoPopularCategory is reported when no approved event exists.
var NoPopularCategory = CategoryCount{Name: "N/A", Count: 0}
