package extract

import (
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"DevInsights/internal/domain"
)

// ProfileReadySelector must appear before a profile page is considered loaded.
const ProfileReadySelector = ".vcard-fullname"

// ProfileFromDocument maps a rendered profile page into a Profile.
// Every field is read independently; absent markup yields nil or 0, never an error.
// ScrapedAt is left for the caller.
func ProfileFromDocument(doc *goquery.Document, pageURL string) domain.Profile {
	base, _ := url.Parse(pageURL)

	profile := domain.Profile{
		Username:    optionalText(doc.Find(".vcard-username")),
		DisplayName: optionalText(doc.Find(".vcard-fullname")),
		Bio:         optionalText(doc.Find(".user-profile-bio")),
		Location:    optionalText(doc.Find(".p-label")),
		Company:     optionalText(doc.Find(".p-org")),
		Website:     optionalURL(doc.Find(`[data-test-selector="profile-website"] a`), "href", base),
		Email:       emailOf(doc.Find(`[data-test-selector="profile-email"] a`)),
		ProfileURL:  pageURL,
		Avatar:      optionalURL(doc.Find(".avatar-user"), "src", base),

		Followers:             countOf(doc.Find(`a[href*="followers"] .text-bold`)),
		Following:             countOf(doc.Find(`a[href*="following"] .text-bold`)),
		PublicRepos:           countOf(doc.Find(`[data-tab-item="repositories"] .Counter`)),
		ContributionsThisYear: contributionsOf(doc.Find(".js-yearly-contributions h2")),

		CreatedAt:     createdAtOf(doc.Find("relative-time")),
		PinnedRepos:   pinnedReposOf(doc, base),
		Organizations: organizationsOf(doc, base),
	}

	return profile
}

func emailOf(sel *goquery.Selection) *string {
	href := optionalAttr(sel, "href")
	if href == nil {
		return nil
	}
	email := strings.TrimPrefix(strings.TrimSpace(*href), "mailto:")
	return &email
}

func contributionsOf(sel *goquery.Selection) int {
	if sel.Length() == 0 {
		return 0
	}
	return ContributionCount(sel.First().Text())
}

func createdAtOf(sel *goquery.Selection) *time.Time {
	raw := optionalAttr(sel, "datetime")
	if raw == nil {
		return nil
	}
	parsed, err := time.Parse(time.RFC3339, strings.TrimSpace(*raw))
	if err != nil {
		return nil
	}
	parsed = parsed.UTC()
	return &parsed
}

func pinnedReposOf(doc *goquery.Document, base *url.URL) []domain.PinnedRepo {
	repos := make([]domain.PinnedRepo, 0)

	doc.Find(".js-pinned-item-list-item").Each(func(_ int, item *goquery.Selection) {
		name := item.Find(".repo").First()
		if name.Length() == 0 {
			return
		}

		href, _ := name.Attr("href")
		if link := name.Closest("a"); href == "" && link.Length() > 0 {
			href, _ = link.Attr("href")
		}

		repos = append(repos, domain.PinnedRepo{
			Name:        strings.TrimSpace(name.Text()),
			URL:         resolve(base, href),
			Description: optionalText(item.Find(".pinned-item-desc")),
			Language:    optionalText(item.Find(`[itemprop="programmingLanguage"]`)),
			Stars:       countOf(item.Find(`a[href*="stargazers"] .text-small`)),
			Forks:       countOf(item.Find(`a[href*="forks"] .text-small`)),
		})
	})

	return repos
}

func organizationsOf(doc *goquery.Document, base *url.URL) []domain.Organization {
	orgs := make([]domain.Organization, 0)

	doc.Find(`.border-top a[data-hovercard-type="organization"]`).Each(func(_ int, org *goquery.Selection) {
		img := org.Find("img").First()
		if img.Length() == 0 {
			return
		}

		alt, _ := img.Attr("alt")
		src, _ := img.Attr("src")
		href, _ := org.Attr("href")

		orgs = append(orgs, domain.Organization{
			Name:   strings.TrimSpace(alt),
			URL:    resolve(base, href),
			Avatar: resolve(base, src),
		})
	})

	return orgs
}
