package web

import (
	"bytes"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Feeds may come from a remote repository, so every rendered fragment passes
// through a bluemonday policy before it reaches a template.
var (
	mdRenderer = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)

	// storyPolicy covers long-form page copy such as the about story.
	storyPolicy = bluemonday.UGCPolicy()

	// cardPolicy keeps course card descriptions to inline emphasis, links and
	// short lists so a description cannot break the card layout.
	cardPolicy = newCardPolicy()
)

func newCardPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("p", "br", "strong", "em", "code", "del", "ul", "ol", "li")
	p.AllowStandardURLs()
	p.AllowAttrs("href").OnElements("a")
	p.RequireNoFollowOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}

// RenderMarkdown converts page copy to sanitized HTML. Returns "" for empty input.
func RenderMarkdown(src string) string {
	return renderWith(storyPolicy, src)
}

// RenderCourseDescription converts a course description to sanitized HTML
// restricted to what fits on a course card. Returns "" for empty input.
func RenderCourseDescription(src string) string {
	return renderWith(cardPolicy, src)
}

func renderWith(policy *bluemonday.Policy, src string) string {
	if src == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(src), &buf); err != nil {
		return policy.Sanitize(src)
	}
	return policy.Sanitize(buf.String())
}
