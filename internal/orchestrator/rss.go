package orchestrator

import (
	"encoding/xml"
	"strings"

	"jobsift/internal/pipeline/urlnorm"
)

// rssFeed covers the subset of RSS 2.0 and Atom needed to pull item links out
// of a job feed
type rssFeed struct {
	XMLName xml.Name   `xml:"rss"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Items []rssItem `xml:"item"`
}

type rssItem struct {
	Title string `xml:"title"`
	Link  string `xml:"link"`
	GUID  string `xml:"guid"`
}

type atomFeed struct {
	XMLName xml.Name    `xml:"feed"`
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	Title string     `xml:"title"`
	Links []atomLink `xml:"link"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
}

// parseFeedLinks extracts candidate detail URLs from an RSS or Atom feed
// body. Links are normalized and deduplicated; order follows the feed.
func parseFeedLinks(body, baseURL string, maxLinks int) []string {
	var links []string

	var rss rssFeed
	if err := xml.Unmarshal([]byte(body), &rss); err == nil && len(rss.Channel.Items) > 0 {
		for _, item := range rss.Channel.Items {
			link := strings.TrimSpace(item.Link)
			if link == "" {
				link = strings.TrimSpace(item.GUID)
			}
			if link != "" {
				links = append(links, link)
			}
		}
	} else {
		var atom atomFeed
		if err := xml.Unmarshal([]byte(body), &atom); err == nil {
			for _, entry := range atom.Entries {
				for _, l := range entry.Links {
					if l.Rel == "" || l.Rel == "alternate" {
						if href := strings.TrimSpace(l.Href); href != "" {
							links = append(links, href)
							break
						}
					}
				}
			}
		}
	}

	seen := make(map[string]bool, len(links))
	out := make([]string, 0, len(links))
	for _, link := range links {
		normalized := urlnorm.Normalize(urlnorm.Resolve(baseURL, link))
		if normalized == "" || seen[normalized] {
			continue
		}
		seen[normalized] = true
		out = append(out, normalized)
		if maxLinks > 0 && len(out) >= maxLinks {
			break
		}
	}

	return out
}
