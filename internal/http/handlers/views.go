package handlers

import (
	"html/template"
	"strings"

	"github.com/dustin/go-humanize"
	html "github.com/gofiber/template/html/v2"
)

// NewViews loads the html templates and registers the helpers they use.
func NewViews(dir string) *html.Engine {
	engine := html.New(dir, ".html")
	engine.AddFunc("rupiah", Rupiah)
	// data: URLs are rejected by html/template unless marked safe
	engine.AddFunc("dataURL", func(s string) template.URL {
		if !strings.HasPrefix(s, "data:image/") {
			return ""
		}
		return template.URL(s)
	})
	return engine
}

// Rupiah formats whole rupiah the Indonesian way: Rp 350.000
func Rupiah(v int64) string {
	return "Rp " + strings.ReplaceAll(humanize.Comma(v), ",", ".")
}
