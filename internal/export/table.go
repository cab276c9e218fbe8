package export

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"DevInsights/internal/domain"
)

const summaryWidth = 60

// WriteTable renders a compact console overview with one row per profile.
func WriteTable(w io.Writer, profiles []domain.Profile) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"User", "Name", "Followers", "Repos", "Contributions", "Skills", "Status"})
	table.SetAutoWrapText(true)
	table.SetColWidth(summaryWidth)

	for _, p := range profiles {
		status := "ok"
		if p.Error != nil {
			status = *p.Error
		}
		table.Append([]string{
			p.Name(),
			deref(p.DisplayName),
			fmt.Sprintf("%d", p.Followers),
			fmt.Sprintf("%d", p.PublicRepos),
			fmt.Sprintf("%d", p.ContributionsThisYear),
			analysisField(p.AIAnalysis, "skills"),
			status,
		})
	}
	table.Render()
}
