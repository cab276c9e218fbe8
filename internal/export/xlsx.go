package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"DevInsights/internal/domain"
)

// SheetName is the worksheet that holds the profile rows.
const SheetName = "Profiles"

var xlsxHeader = []string{
	"Username", "Display Name", "Profile URL", "Location", "Company", "Website", "Email",
	"Followers", "Following", "Public Repos", "Contributions", "Created At",
	"Pinned Repos", "Organizations",
	"Skills", "Tech Stack", "Notable Contributions", "Summary",
	"Error", "Scraped At",
}

// WriteXLSX saves profiles as a workbook at path.
func WriteXLSX(path string, profiles []domain.Profile) error {
	f, err := buildWorkbook(profiles)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

// WriteWorkbook streams the workbook to w.
func WriteWorkbook(w io.Writer, profiles []domain.Profile) error {
	f, err := buildWorkbook(profiles)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func buildWorkbook(profiles []domain.Profile) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	if err := setRow(f, 1, toCells(xlsxHeader)); err != nil {
		f.Close()
		return nil, err
	}

	for i, p := range profiles {
		if err := setRow(f, i+2, profileRow(p)); err != nil {
			f.Close()
			return nil, err
		}
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		f.Close()
		return nil, fmt.Errorf("freeze header: %w", err)
	}
	return f, nil
}

func setRow(f *excelize.File, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("cell for row %d: %w", row, err)
	}
	if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}

func toCells(values []string) []any {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}

func profileRow(p domain.Profile) []any {
	return []any{
		deref(p.Username),
		deref(p.DisplayName),
		p.ProfileURL,
		deref(p.Location),
		deref(p.Company),
		deref(p.Website),
		deref(p.Email),
		p.Followers,
		p.Following,
		p.PublicRepos,
		p.ContributionsThisYear,
		formatTime(p.CreatedAt),
		pinnedNames(p.PinnedRepos),
		orgNames(p.Organizations),
		analysisField(p.AIAnalysis, "skills"),
		analysisField(p.AIAnalysis, "techStack"),
		analysisField(p.AIAnalysis, "notableContributions"),
		analysisField(p.AIAnalysis, "overallSummary"),
		deref(p.Error),
		formatTime(&p.ScrapedAt),
	}
}

// columnIndex returns the 1-based column of a header, or 0 when unknown.
func columnIndex(header string) int {
	for i, h := range xlsxHeader {
		if h == header {
			return i + 1
		}
	}
	return 0
}
