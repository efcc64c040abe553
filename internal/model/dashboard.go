package model

// DashboardStats is the body of GET /portal/auth/dashboard-stats.
type DashboardStats struct {
	TotalUsers      int             `json:"totalUsers"`
	Patients        int             `json:"patients"`
	HealthProviders int             `json:"healthProviders"`
	TotalTowns      int             `json:"totalTowns"`
	LineData        []MonthlyCount  `json:"lineData"`
	TopDepartments  []CategoryCount `json:"topDepartments"`
}

// MonthlyCount is one point of the registrations line chart.
type MonthlyCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// CategoryCount is one slice of the top regions chart. Count is a pointer
// because entries without a count are dropped rather than shown as zero.
type CategoryCount struct {
	Label string `json:"primaryIndustry"`
	Count *int   `json:"industryCount"`
}

// ValidCategories drops entries without a label or a count.
func ValidCategories(in []CategoryCount) []CategoryCount {
	out := make([]CategoryCount, 0, len(in))
	for _, c := range in {
		if c.Label == "" || c.Count == nil {
			continue
		}
		out = append(out, c)
	}
	return out
}
