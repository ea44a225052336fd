package probe

import (
	"io"
	"slices"
	"strings"

	"golang.org/x/net/html"
)

// Technology names reported by Detect.
const (
	TechShopify         = "Shopify"
	TechJQuery          = "jQuery"
	TechGoogleAnalytics = "Google Analytics"
	TechGoogleTagMgr    = "Google Tag Manager"
	TechFacebookPixel   = "Facebook Pixel"
	TechWordPress       = "WordPress"
)

// signature matches one technology. Each list is a set of lowercase
// substrings; any hit in the corresponding document part is a match.
type signature struct {
	name      string
	srcs      []string
	inline    []string
	hrefs     []string
	generator string
}

var signatures = []signature{
	{
		name:   TechShopify,
		srcs:   []string{"cdn.shopify.com", "shopifycdn"},
		inline: []string{"shopify.shop", "window.shopify"},
		hrefs:  []string{"cdn.shopify.com"},
	},
	{
		name: TechJQuery,
		srcs: []string{"jquery"},
	},
	{
		name:   TechGoogleAnalytics,
		srcs:   []string{"google-analytics.com/analytics.js", "google-analytics.com/ga.js", "googletagmanager.com/gtag/js"},
		inline: []string{"gtag('config'", `gtag("config"`, "ga('create'"},
	},
	{
		name:   TechGoogleTagMgr,
		srcs:   []string{"googletagmanager.com/gtm.js"},
		inline: []string{"googletagmanager.com/gtm.js"},
		hrefs:  []string{"googletagmanager.com/ns.html"},
	},
	{
		name:   TechFacebookPixel,
		srcs:   []string{"connect.facebook.net"},
		inline: []string{"fbq('init'", `fbq("init"`, "connect.facebook.net"},
	},
	{
		name:      TechWordPress,
		srcs:      []string{"/wp-content/", "/wp-includes/"},
		hrefs:     []string{"/wp-content/", "/wp-includes/", "/wp-json/"},
		generator: "wordpress",
	},
}

// page holds the document parts that signatures are matched against.
type page struct {
	title     string
	srcs      []string
	inline    []string
	hrefs     []string
	generator string
}

func parsePage(r io.Reader) (*page, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	p := &page{}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			p.element(n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return p, nil
}

func (p *page) element(n *html.Node) {
	switch n.Data {
	case "title":
		if p.title == "" && n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
			p.title = strings.TrimSpace(n.FirstChild.Data)
		}
	case "script":
		if src := getAttr(n, "src"); src != "" {
			p.srcs = append(p.srcs, strings.ToLower(src))
		} else if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
			p.inline = append(p.inline, strings.ToLower(n.FirstChild.Data))
		}
	case "link", "a":
		if href := getAttr(n, "href"); href != "" {
			p.hrefs = append(p.hrefs, strings.ToLower(href))
		}
	case "iframe", "img":
		if src := getAttr(n, "src"); src != "" {
			p.hrefs = append(p.hrefs, strings.ToLower(src))
		}
	case "meta":
		if strings.EqualFold(getAttr(n, "name"), "generator") {
			p.generator = strings.ToLower(getAttr(n, "content"))
		}
	}
}

func (p *page) technologies() []string {
	found := make([]string, 0)
	for _, sig := range signatures {
		if p.matches(sig) {
			found = append(found, sig.name)
		}
	}
	return found
}

func (p *page) matches(sig signature) bool {
	if sig.generator != "" && strings.HasPrefix(p.generator, sig.generator) {
		return true
	}
	return containsAny(p.srcs, sig.srcs) || containsAny(p.inline, sig.inline) || containsAny(p.hrefs, sig.hrefs)
}

func containsAny(haystack, needles []string) bool {
	return slices.ContainsFunc(haystack, func(h string) bool {
		return slices.ContainsFunc(needles, func(n string) bool {
			return strings.Contains(h, n)
		})
	})
}

// Detect parses an HTML document and returns the technologies it loads,
// in a fixed order.
func Detect(r io.Reader) ([]string, error) {
	p, err := parsePage(r)
	if err != nil {
		return nil, err
	}
	return p.technologies(), nil
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
