package news

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"

	"github.com/Athreyasp/sentiment-dashboard-sub001/internal/model"
)

var htmlTagRegex = regexp.MustCompile("<[^>]*>")

type feedDocument struct {
	XMLName xml.Name
	Channel struct {
		Title string    `xml:"title"`
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
	// RSS 1.0 (RDF) keeps items at the root.
	Items   []rssItem   `xml:"item"`
	Title   string      `xml:"title"`
	Entries []atomEntry `xml:"entry"`
}

const (
	rss1Namespace    = "http://purl.org/rss/1.0/"
	contentNamespace = "http://purl.org/rss/1.0/modules/content/"
	dcNamespace      = "http://purl.org/dc/elements/1.1/"
)

type rssItem struct {
	Title       string
	Link        string
	Description string
	Encoded     string
	PubDate     string
	DCDate      string
	GUID        string
}

// UnmarshalXML reads core item fields only from un-namespaced (or RSS 1.0)
// elements, so extension tags such as media:title or atom:link never
// overwrite them. The first occurrence of each field wins.
func (it *rssItem) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			var text string
			if err := d.DecodeElement(&text, &t); err != nil {
				return err
			}

			switch t.Name.Space {
			case "", rss1Namespace:
				switch t.Name.Local {
				case "title":
					setOnce(&it.Title, text)
				case "link":
					setOnce(&it.Link, text)
				case "description":
					setOnce(&it.Description, text)
				case "pubDate":
					setOnce(&it.PubDate, text)
				case "guid":
					setOnce(&it.GUID, text)
				}
			case contentNamespace:
				if t.Name.Local == "encoded" {
					setOnce(&it.Encoded, text)
				}
			case dcNamespace:
				if t.Name.Local == "date" {
					setOnce(&it.DCDate, text)
				}
			}
		case xml.EndElement:
			return nil
		}
	}
}

func setOnce(dst *string, value string) {
	if strings.TrimSpace(*dst) == "" {
		*dst = value
	}
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
}

type atomEntry struct {
	Title     string     `xml:"title"`
	Links     []atomLink `xml:"link"`
	Summary   string     `xml:"summary"`
	Content   string     `xml:"content"`
	Published string     `xml:"published"`
	Updated   string     `xml:"updated"`
}

// ParseRSS extracts items from an RSS 2.0, RSS 1.0 or Atom payload. Titles
// and descriptions come back with CDATA unwrapped and markup stripped.
func ParseRSS(sourceURL string, payload []byte) ([]model.RawFeedItem, error) {
	decoder := xml.NewDecoder(bytes.NewReader(payload))
	decoder.Strict = false
	decoder.CharsetReader = charset.NewReaderLabel

	var doc feedDocument
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}

	feedTitle := strings.TrimSpace(doc.Channel.Title)
	if feedTitle == "" {
		feedTitle = strings.TrimSpace(doc.Title)
	}

	items := append(doc.Channel.Items, doc.Items...)
	out := make([]model.RawFeedItem, 0, len(items)+len(doc.Entries))

	for _, it := range items {
		description := it.Description
		if strings.TrimSpace(description) == "" {
			description = it.Encoded
		}
		published := it.PubDate
		if strings.TrimSpace(published) == "" {
			published = it.DCDate
		}
		link := strings.TrimSpace(it.Link)
		if link == "" && strings.HasPrefix(strings.TrimSpace(it.GUID), "http") {
			link = strings.TrimSpace(it.GUID)
		}

		out = append(out, model.RawFeedItem{
			SourceURL:    sourceURL,
			SourceName:   feedTitle,
			Title:        CleanText(it.Title),
			Description:  CleanText(description),
			Link:         link,
			PublishedRaw: strings.TrimSpace(published),
		})
	}

	for _, entry := range doc.Entries {
		description := entry.Summary
		if strings.TrimSpace(description) == "" {
			description = entry.Content
		}
		published := entry.Published
		if strings.TrimSpace(published) == "" {
			published = entry.Updated
		}

		out = append(out, model.RawFeedItem{
			SourceURL:    sourceURL,
			SourceName:   feedTitle,
			Title:        CleanText(entry.Title),
			Description:  CleanText(description),
			Link:         atomHref(entry.Links),
			PublishedRaw: strings.TrimSpace(published),
		})
	}

	return out, nil
}

func atomHref(links []atomLink) string {
	var fallback string
	for _, l := range links {
		href := strings.TrimSpace(l.Href)
		if href == "" {
			continue
		}
		if l.Rel == "" || l.Rel == "alternate" {
			return href
		}
		if fallback == "" {
			fallback = href
		}
	}
	return fallback
}

// CleanText strips HTML markup and collapses whitespace.
func CleanText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	if strings.ContainsAny(s, "<&") {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
		if err == nil {
			s = doc.Text()
		} else {
			s = htmlTagRegex.ReplaceAllString(s, " ")
		}
	}

	return strings.Join(strings.Fields(s), " ")
}
