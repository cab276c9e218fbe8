package extract

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	leadingDigits    = regexp.MustCompile(`^\d+`)
	contributionExpr = regexp.MustCompile(`([\d,]+)\s+contributions`)
)

// optionalText returns the trimmed text of the first match, or nil when nothing matches.
func optionalText(sel *goquery.Selection) *string {
	if sel.Length() == 0 {
		return nil
	}
	value := strings.TrimSpace(sel.First().Text())
	return &value
}

// optionalAttr returns the named attribute of the first match, or nil when absent.
func optionalAttr(sel *goquery.Selection, name string) *string {
	if sel.Length() == 0 {
		return nil
	}
	value, ok := sel.First().Attr(name)
	if !ok {
		return nil
	}
	return &value
}

// optionalURL resolves an attribute against base the way a DOM .href/.src property would.
func optionalURL(sel *goquery.Selection, name string, base *url.URL) *string {
	raw := optionalAttr(sel, name)
	if raw == nil {
		return nil
	}
	resolved := resolve(base, *raw)
	return &resolved
}

// LeadingInt parses the leading digit run of the trimmed text; anything else yields 0.
func LeadingInt(text string) int {
	match := leadingDigits.FindString(strings.TrimSpace(text))
	if match == "" {
		return 0
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return 0
	}
	return n
}

// countOf reads a leading integer from the first match; missing elements count as 0.
func countOf(sel *goquery.Selection) int {
	if sel.Length() == 0 {
		return 0
	}
	return LeadingInt(sel.First().Text())
}

// ContributionCount extracts N from text shaped like "1,234 contributions in the last year".
func ContributionCount(text string) int {
	match := contributionExpr.FindStringSubmatch(text)
	if len(match) < 2 {
		return 0
	}
	return LeadingInt(strings.ReplaceAll(match[1], ",", ""))
}

func resolve(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if base == nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
