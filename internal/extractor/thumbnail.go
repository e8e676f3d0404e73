package extractor

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	minThumbnailWidth  = 400
	minThumbnailHeight = 300
)

// FindThumbnail picks the best thumbnail candidate from page HTML.
// Preference order: og:image, twitter:image, the first image inside an
// article element, then the largest sufficiently large image on the page.
func FindThumbnail(html string, pageURL *url.URL) string {
	doc, parseErr := goquery.NewDocumentFromReader(strings.NewReader(html))
	if parseErr != nil {
		return ""
	}

	if src, ok := doc.Find(`meta[property="og:image"]`).Attr("content"); ok {
		if resolved := resolveImageURL(src, pageURL); resolved != "" {
			return resolved
		}
	}

	if src, ok := doc.Find(`meta[name="twitter:image"]`).Attr("content"); ok {
		if resolved := resolveImageURL(src, pageURL); resolved != "" {
			return resolved
		}
	}

	if src, ok := doc.Find("article img").First().Attr("src"); ok {
		if resolved := resolveImageURL(src, pageURL); resolved != "" {
			return resolved
		}
	}

	return largestImage(doc, pageURL)
}

// largestImage returns the biggest image by declared area that meets the
// minimum dimensions. Images without width and height attributes are skipped.
func largestImage(doc *goquery.Document, pageURL *url.URL) string {
	var best string
	var bestArea int

	doc.Find("img").Each(func(_ int, sel *goquery.Selection) {
		src, ok := sel.Attr("src")
		if !ok {
			return
		}

		width := intAttr(sel, "width")
		height := intAttr(sel, "height")
		if width < minThumbnailWidth || height < minThumbnailHeight {
			return
		}

		area := width * height
		if area <= bestArea {
			return
		}

		if resolved := resolveImageURL(src, pageURL); resolved != "" {
			best = resolved
			bestArea = area
		}
	})

	return best
}

func intAttr(sel *goquery.Selection, name string) int {
	raw, ok := sel.Attr(name)
	if !ok {
		return 0
	}
	n, convErr := strconv.Atoi(strings.TrimSpace(raw))
	if convErr != nil {
		return 0
	}
	return n
}

// resolveImageURL normalizes protocol-relative, root-relative, and
// document-relative image URLs against the page URL.
func resolveImageURL(src string, pageURL *url.URL) string {
	src = strings.TrimSpace(src)
	if src == "" {
		return ""
	}

	ref, parseErr := url.Parse(src)
	if parseErr != nil {
		return ""
	}

	var resolved *url.URL
	if pageURL != nil {
		resolved = pageURL.ResolveReference(ref)
	} else {
		resolved = ref
	}

	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	return resolved.String()
}
