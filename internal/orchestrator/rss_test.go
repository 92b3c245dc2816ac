package orchestrator

import (
	"reflect"
	"testing"
)

const rssFixture = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
	<channel>
		<title>Example Relief Jobs</title>
		<item>
			<title>Programme Officer</title>
			<link>https://example.org/jobs/101/programme-officer?utm_source=rss</link>
		</item>
		<item>
			<title>Finance Manager</title>
			<link>https://example.org/jobs/102/finance-manager</link>
		</item>
		<item>
			<title>Duplicate Posting</title>
			<link>https://example.org/jobs/101/programme-officer</link>
		</item>
		<item>
			<title>GUID only</title>
			<guid>https://example.org/jobs/103/guid-only</guid>
		</item>
	</channel>
</rss>`

const atomFixture = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
	<title>Example Relief Jobs</title>
	<entry>
		<title>Programme Officer</title>
		<link rel="self" href="https://example.org/feed/101"/>
		<link rel="alternate" href="https://example.org/jobs/101/programme-officer"/>
	</entry>
	<entry>
		<title>Finance Manager</title>
		<link href="/jobs/102/finance-manager"/>
	</entry>
</feed>`

func TestParseFeedLinksRSS(t *testing.T) {
	links := parseFeedLinks(rssFixture, "https://example.org/feed.xml", 25)

	want := []string{
		"https://example.org/jobs/101/programme-officer",
		"https://example.org/jobs/102/finance-manager",
		"https://example.org/jobs/103/guid-only",
	}
	if !reflect.DeepEqual(links, want) {
		t.Errorf("parseFeedLinks = %v, want %v", links, want)
	}
}

func TestParseFeedLinksAtom(t *testing.T) {
	links := parseFeedLinks(atomFixture, "https://example.org/feed.xml", 25)

	want := []string{
		"https://example.org/jobs/101/programme-officer",
		"https://example.org/jobs/102/finance-manager",
	}
	if !reflect.DeepEqual(links, want) {
		t.Errorf("parseFeedLinks = %v, want %v", links, want)
	}
}

func TestParseFeedLinksCap(t *testing.T) {
	links := parseFeedLinks(rssFixture, "https://example.org/feed.xml", 2)
	if len(links) != 2 {
		t.Errorf("got %d links, want 2 (capped)", len(links))
	}
}

func TestParseFeedLinksGarbage(t *testing.T) {
	if links := parseFeedLinks("not xml at all", "https://example.org/feed.xml", 10); len(links) != 0 {
		t.Errorf("garbage input yielded links: %v", links)
	}
	if links := parseFeedLinks("", "https://example.org/feed.xml", 10); len(links) != 0 {
		t.Errorf("empty input yielded links: %v", links)
	}
}
