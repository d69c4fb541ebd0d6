package transform

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

const stylesheet = `body{font-family:sans-serif;font-size:14px;line-height:1.2;padding:10px;color:#000;background:#fff}` +
	`table{width:100%;border-collapse:collapse;margin-top:10px}` +
	`th,td{border:1px solid #ccc;padding:4px;text-align:left}` +
	`input,select,textarea{width:100%;padding:8px;margin:4px 0;border:1px solid #999}` +
	`button,input[type="submit"]{background:#000;color:#fff;border:none;padding:10px;width:100%}` +
	`.captcha-box{background:#eee;padding:10px;text-align:center;font-weight:bold}` +
	`.captcha-img{display:block;margin:10px auto;max-width:100%;border:1px solid #ccc;background:#fff}`

var titlePolicy = bluemonday.StrictPolicy()

// assemble wraps the rewritten region in the fixed document shell.
// The region goes inside a single <main> so a second pass selects exactly
// the same content again.
func assemble(title, region string) string {
	var b strings.Builder
	b.Grow(len(region) + len(stylesheet) + 256)

	b.WriteString(`<!DOCTYPE html><html lang="en"><head><meta charset="UTF-8">`)
	b.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1.0">`)
	if t := cleanTitle(title); t != "" {
		b.WriteString("<title>")
		b.WriteString(t)
		b.WriteString("</title>")
	}
	b.WriteString("<style>")
	b.WriteString(stylesheet)
	b.WriteString("</style></head><body><main>")
	b.WriteString(region)
	b.WriteString("</main></body></html>")
	return b.String()
}

// cleanTitle reduces an origin title to escaped plain text on one line.
func cleanTitle(title string) string {
	return titlePolicy.Sanitize(strings.Join(strings.Fields(title), " "))
}
