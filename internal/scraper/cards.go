package scraper

import (
	"net/url"
	"strings"
	"time"

	"job-scraping/internal/domain/job"
	"job-scraping/internal/pkg/serrors"

	"github.com/PuerkitoBio/goquery"
)

const (
	linkedInCardSelector     = "div.base-card, div.job-search-card"
	linkedInTitleSelector    = "h3.base-search-card__title, h3.job-search-card__title, h2.base-search-card__title, h2.job-search-card__title"
	linkedInCompanySelector  = "h4.base-search-card__subtitle, h4.job-search-card__subtitle, a.base-search-card__subtitle, a.job-search-card__subtitle"
	linkedInLocationSelector = "span.job-search-card__location, span.job-result-card__location"
	linkedInSalarySelector   = "span.job-search-card__salary-info, div.job-search-card__salary-info, span.job-result-card__salary-info, div.job-result-card__salary-info"
	linkedInLinkSelector     = "a.base-card__full-link, a.job-search-card__link"

	timesJobsCardSelector    = "li.clearfix.job-bx.wht-shd-bx"
	timesJobsTitleSelector   = `a[target="_blank"]`
	timesJobsCompanySelector = "h3.joblist-comp-name"
)

// cardParser turns one card into a listing, or returns an ErrParse error.
type cardParser func(card *goquery.Selection) (job.Listing, error)

type cardFailure struct {
	index    int
	fragment string
	err      error
}

// extractCards parses every card under root, skipping the ones that fail,
// and stops once limit listings were produced.
func extractCards(root *goquery.Selection, selector string, limit int, parse cardParser) ([]job.Listing, []cardFailure) {
	out := make([]job.Listing, 0)
	var failures []cardFailure

	root.Find(selector).EachWithBreak(func(i int, card *goquery.Selection) bool {
		if limit > 0 && len(out) >= limit {
			return false
		}
		l, err := parse(card)
		if err != nil {
			frag, _ := goquery.OuterHtml(card)
			failures = append(failures, cardFailure{index: i, fragment: frag, err: err})
			return true
		}
		out = append(out, l)
		return true
	})
	return out, failures
}

func linkedInCardParser(base *url.URL, fetchedAt time.Time) cardParser {
	return func(card *goquery.Selection) (job.Listing, error) {
		title := cleanText(card.Find(linkedInTitleSelector).First().Text())
		company := cleanText(card.Find(linkedInCompanySelector).First().Text())
		if title == "" || company == "" {
			return job.Listing{}, serrors.With(serrors.ErrParse, "linkedin card missing title or company")
		}

		location := cleanText(card.Find(linkedInLocationSelector).First().Text())
		if location == "" {
			location = job.LocationNotSpecified
		}

		href, _ := card.Find(linkedInLinkSelector).First().Attr("href")

		return job.Listing{
			Title:     title,
			Company:   company,
			Location:  location,
			SalaryRaw: optional(cleanText(card.Find(linkedInSalarySelector).First().Text())),
			Source:    job.SourceLinkedIn,
			Link:      optional(absoluteURL(base, href)),
			FetchedAt: fetchedAt,
		}, nil
	}
}

// timesJobsCardParser falls back to the searched location when a card has none.
func timesJobsCardParser(base *url.URL, fallbackLocation string, fetchedAt time.Time) cardParser {
	return func(card *goquery.Selection) (job.Listing, error) {
		titleEl := card.Find(timesJobsTitleSelector).First()
		title := cleanText(titleEl.Text())
		company := firstLine(card.Find(timesJobsCompanySelector).First().Text())
		if title == "" || company == "" {
			return job.Listing{}, serrors.With(serrors.ErrParse, "timesjobs card missing title or company")
		}

		location := cleanText(card.Find("ul.top-jd-dtl li").Not(".salary").Find("span").First().Text())
		if location == "" {
			location = fallbackLocation
		}

		href, _ := titleEl.Attr("href")

		return job.Listing{
			Title:     title,
			Company:   company,
			Location:  location,
			SalaryRaw: optional(cleanText(card.Find("li.salary").First().Find("span").First().Text())),
			Source:    job.SourceTimesJobs,
			Link:      optional(absoluteURL(base, href)),
			FetchedAt: fetchedAt,
		}, nil
	}
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return cleanText(s)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func absoluteURL(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	if base == nil || ref.IsAbs() {
		return ref.String()
	}
	return base.ResolveReference(ref).String()
}
