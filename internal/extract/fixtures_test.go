package extract

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

const searchPageHTML = `
<html><body>
<div data-testid="results-list">
  <div class="result">
    <div class="search-title"><a href="/ferris">  ferris  </a></div>
  </div>
  <div class="result">
    <div class="search-title"><a href="https://github.com/rustacean">rustacean</a></div>
  </div>
  <div class="result">
    <div class="search-title"><span>no link here</span></div>
  </div>
  <div class="result">
    <div class="search-title"><a href="/empty-name">   </a></div>
  </div>
  <div class="result">
    <div class="search-title"><a>missing-href</a></div>
  </div>
</div>
<div class="search-title"><a href="/outside">outside</a></div>
</body></html>`

const profilePageHTML = `
<html><body>
<div class="vcard">
  <img class="avatar-user" src="https://avatars.githubusercontent.com/u/1?v=4" alt="">
  <h1>
    <span class="vcard-fullname">  Ada Lovelace </span>
    <span class="vcard-username">ada</span>
  </h1>
  <div class="user-profile-bio"><div>Analytical engines, Go and Rust.</div></div>
  <span class="p-org">@analytical</span>
  <span class="p-label">London</span>
  <div data-test-selector="profile-website"><a href="https://ada.dev">ada.dev</a></div>
  <div data-test-selector="profile-email"><a href="mailto:ada@example.com">ada@example.com</a></div>
  <a href="/ada?tab=followers"><span class="text-bold">1.2k</span> followers</a>
  <a href="/ada?tab=following"><span class="text-bold">42</span> following</a>
</div>
<nav>
  <a data-tab-item="repositories" href="/ada?tab=repositories">Repositories <span class="Counter">37</span></a>
</nav>
<ol>
  <li class="js-pinned-item-list-item">
    <a href="/ada/engine"><span class="repo">engine</span></a>
    <p class="pinned-item-desc"> The first program. </p>
    <span itemprop="programmingLanguage">Go</span>
    <a href="/ada/engine/stargazers"><span class="text-small">128</span></a>
    <a href="/ada/engine/forks"><span class="text-small">9</span></a>
  </li>
  <li class="js-pinned-item-list-item">
    <a href="/ada/notes"><span class="repo">notes</span></a>
  </li>
  <li class="js-pinned-item-list-item">
    <p class="pinned-item-desc">nameless entry is skipped</p>
  </li>
</ol>
<div class="border-top">
  <a data-hovercard-type="organization" href="/analytical"><img src="https://avatars.githubusercontent.com/u/9?s=40" alt="@analytical"></a>
  <a data-hovercard-type="organization" href="/no-image">no image</a>
</div>
<div class="js-yearly-contributions"><h2> 1,234 contributions in the last year </h2></div>
<relative-time datetime="2015-03-04T05:06:07Z">Mar 4, 2015</relative-time>
</body></html>`

func mustDocument(t *testing.T, html string) *goquery.Document {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}
