package scraper

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/raysh454/sitecheck/internal/model"
	"github.com/raysh454/sitecheck/internal/urlx"
)

// maxLinks caps the number of extracted links per page.
const maxLinks = 50

// ExtractContent parses HTML and pulls out everything the assessor looks at.
// Parse failures degrade to a snapshot with raw HTML only; extraction never
// fails outright.
func ExtractContent(url string, body []byte) *model.SiteContent {
	content := &model.SiteContent{
		URL:         url,
		HTMLContent: string(body),
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return content
	}

	content.Title = strings.TrimSpace(doc.Find("title").First().Text())
	content.TextContent = extractText(doc)
	content.MetaDescription = getAttr(doc.Find(`meta[name="description"]`).First(), "content")
	content.MetaKeywords = splitKeywords(getAttr(doc.Find(`meta[name="keywords"]`).First(), "content"))
	content.Links = extractLinks(doc, url)
	content.Forms = extractForms(doc)

	return content
}

// extractText returns the visible body text with scripts and styles removed
// and whitespace collapsed.
func extractText(doc *goquery.Document) string {
	sel := doc.Find("body")
	if sel.Length() == 0 {
		sel = doc.Selection
	}
	clone := sel.Clone()
	clone.Find("script, style, noscript").Remove()
	return strings.Join(strings.Fields(clone.Text()), " ")
}

func extractLinks(doc *goquery.Document, baseURL string) []string {
	var links []string
	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href := getAttr(sel, "href")
		if href == "" {
			return true
		}
		links = append(links, urlx.Resolve(baseURL, href))
		return len(links) < maxLinks
	})
	return links
}

func extractForms(doc *goquery.Document) []model.Form {
	var forms []model.Form
	doc.Find("form").Each(func(_ int, formSel *goquery.Selection) {
		method := strings.ToLower(getAttr(formSel, "method"))
		if method == "" {
			method = "get"
		}

		form := model.Form{
			Action: getAttr(formSel, "action"),
			Method: method,
		}

		formSel.Find("input, textarea, select").Each(func(_ int, inputSel *goquery.Selection) {
			fieldType := strings.ToLower(getAttr(inputSel, "type"))
			if fieldType == "" {
				// default for <input> without type; textarea/select carry none
				fieldType = "text"
			}
			form.Fields = append(form.Fields, model.FormField{
				Type:        fieldType,
				Name:        getAttr(inputSel, "name"),
				Placeholder: getAttr(inputSel, "placeholder"),
			})
		})

		forms = append(forms, form)
	})
	return forms
}

func splitKeywords(content string) []string {
	if content == "" {
		return nil
	}
	parts := strings.Split(content, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if kw := strings.TrimSpace(p); kw != "" {
			out = append(out, kw)
		}
	}
	return out
}

func getAttr(sel *goquery.Selection, attrName string) string {
	val, exists := sel.Attr(attrName)
	if !exists {
		return ""
	}
	return strings.TrimSpace(val)
}
