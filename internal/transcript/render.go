package transcript

import (
	"fmt"
	"html/template"
	"io"
	"regexp"
	"time"

	"github.com/dustin/go-humanize"
)

// defaultAccent is the embed accent used when no color is supplied.
const defaultAccent = "#5865f2"

// codeSpanRE matches double-backtick-delimited inline code in embed field
// values. Applied after HTML escaping, so the captured text is already safe.
var codeSpanRE = regexp.MustCompile("``(.*?)``")

// PageView is the full template input for one transcript render.
type PageView struct {
	// Error, when non-empty, switches the page to the error/usage layout.
	Error  string
	Groups []GroupView
}

// GroupView is one message group under a shared author/time header.
type GroupView struct {
	Author      string
	AuthorClass string // author-system | author-support | author-member
	TimeAgo     string
	Messages    []MessageView
}

// MessageView is one rendered message inside a group.
type MessageView struct {
	Content         string
	AttachmentCount int
	Embeds          []EmbedView
}

// EmbedView is one rendered embed block.
type EmbedView struct {
	Accent string // CSS hex color for the left border
	Title  string
	Fields []FieldView
	Footer string
}

// FieldView is one rendered embed field. Value is pre-escaped HTML with only
// the code-span substitution re-introduced as markup.
type FieldView struct {
	Name   string
	Value  template.HTML
	Inline bool
}

// BuildView groups messages and prepares the template input. Relative
// timestamps are computed against now; timestamps that fail to parse are
// shown verbatim.
func BuildView(msgs []Message, now time.Time) PageView {
	groups := Group(msgs)
	view := PageView{Groups: make([]GroupView, 0, len(groups))}

	for _, g := range groups {
		first := g[0]
		gv := GroupView{
			Author:      first.Author,
			AuthorClass: authorClass(first.UserType),
			TimeAgo:     relativeTime(first.Timestamp, now),
			Messages:    make([]MessageView, 0, len(g)),
		}
		for _, m := range g {
			mv := MessageView{
				Content:         m.Content,
				AttachmentCount: len(m.Attachments),
				Embeds:          make([]EmbedView, 0, len(m.Embeds)),
			}
			for _, e := range m.Embeds {
				mv.Embeds = append(mv.Embeds, buildEmbedView(e))
			}
			gv.Messages = append(gv.Messages, mv)
		}
		view.Groups = append(view.Groups, gv)
	}
	return view
}

// ErrorView returns the template input for an in-page decode error.
func ErrorView(msg string) PageView {
	return PageView{Error: msg}
}

// Render writes the transcript page for view to w.
func Render(w io.Writer, view PageView) error {
	return pageTmpl.Execute(w, view)
}

func buildEmbedView(e Embed) EmbedView {
	ev := EmbedView{
		Accent: AccentColor(e.Color),
		Title:  e.Title,
		Fields: make([]FieldView, 0, len(e.Fields)),
	}
	for _, f := range e.Fields {
		ev.Fields = append(ev.Fields, FieldView{
			Name:   f.Name,
			Value:  FieldValueHTML(f.Value),
			Inline: f.Inline,
		})
	}
	if e.Footer != nil {
		ev.Footer = e.Footer.Text
	}
	return ev
}

// AccentColor converts an embed color to a CSS hex value, defaulting when
// absent. Mirrors the lowercase, unpadded hex the viewer always used.
func AccentColor(color *int) string {
	if color == nil {
		return defaultAccent
	}
	return fmt.Sprintf("#%x", *color)
}

// FieldValueHTML escapes a field value and then substitutes double-backtick
// spans with <code> markup. Field text is untrusted; escaping first means the
// only raw markup in the output is the substitution itself.
func FieldValueHTML(v string) template.HTML {
	escaped := template.HTMLEscapeString(v)
	return template.HTML(codeSpanRE.ReplaceAllString(escaped, "<code>$1</code>"))
}

func authorClass(userType string) string {
	switch userType {
	case UserTypeSystem:
		return "author-system"
	case UserTypeSupport:
		return "author-support"
	default:
		return "author-member"
	}
}

func relativeTime(ts string, now time.Time) string {
	t, ok := ParseTimestamp(ts)
	if !ok {
		return ts
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

var pageTmpl = template.Must(template.New("transcript").Funcs(template.FuncMap{
	// iterate yields 1..n for numbering attachment chips.
	"iterate": func(n int) []int {
		out := make([]int, n)
		for i := range out {
			out[i] = i + 1
		}
		return out
	},
}).Parse(pageHTML))

const pageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Support Ticket</title>
<style>
  body { margin: 0; background: #36393f; color: #dcddde; font-family: "gg sans", "Helvetica Neue", Helvetica, Arial, sans-serif; }
  header, footer { background: #2f3136; padding: 16px; border-color: #202225; }
  header { border-bottom: 1px solid #202225; }
  header h1 { margin: 0; font-size: 16px; color: #fff; }
  main { max-width: 960px; margin: 0 auto; padding: 16px; }
  .group { margin-bottom: 24px; }
  .group-header { display: flex; align-items: baseline; margin-bottom: 4px; }
  .author-system { color: #fde047; font-weight: 500; }
  .author-support { color: #93c5fd; font-weight: 500; }
  .author-member { color: #86efac; font-weight: 500; }
  .time-ago { margin-left: 8px; font-size: 12px; color: #a3a6aa; }
  .message { margin-bottom: 4px; padding-left: 4px; }
  .message p { margin: 0; color: #e5e7eb; word-break: break-word; white-space: pre-wrap; }
  .attachment { display: inline-block; background: #2f3136; border-radius: 4px; padding: 8px; margin: 8px 8px 0 0; font-size: 14px; color: #d1d5db; }
  .embed { margin-top: 8px; background: #2f3136; border-radius: 6px; overflow: hidden; }
  .embed-title { padding: 12px 12px 0; color: #fff; font-weight: 500; }
  .embed-fields { padding: 12px; }
  .embed-field { margin-bottom: 12px; }
  .embed-field.inline { display: inline-block; margin-right: 16px; }
  .embed-field h4 { margin: 0 0 2px; font-size: 13px; color: #d1d5db; }
  .embed-field div { font-size: 13px; color: #a3a6aa; white-space: pre-wrap; }
  .embed-footer { padding: 8px 12px; border-top: 1px solid #202225; font-size: 12px; color: #a3a6aa; }
  code { background: #202225; border-radius: 3px; padding: 0 4px; font-size: 12px; }
  .error-box { max-width: 560px; margin: 80px auto 0; text-align: center; }
  .error-box .headline { color: #f87171; margin-bottom: 16px; }
  .usage { margin-top: 24px; background: #2f3136; border-radius: 6px; padding: 16px; text-align: left; }
  .usage h3 { margin: 0 0 8px; color: #e5e7eb; font-size: 14px; }
  .usage p { color: #a3a6aa; font-size: 13px; }
  .usage code { display: block; padding: 12px; overflow-x: auto; }
  .empty { display: flex; flex-direction: column; align-items: center; justify-content: center; height: 240px; color: #a3a6aa; }
  .notice { background: #40444b; border-radius: 6px; padding: 12px; color: #a3a6aa; font-size: 14px; max-width: 960px; margin: 0 auto; }
</style>
</head>
<body>
{{- if .Error}}
<div class="error-box">
  <div class="headline">Error</div>
  <p>{{.Error}}</p>
  <div class="usage">
    <h3>Example Usage:</h3>
    <p>Encode your JSON data as base64 and add it to the URL as a query parameter:</p>
    <code>/chat?data=eyJ0aW1lc3RhbXAiOiIuLi4ifQ==</code>
  </div>
</div>
{{- else}}
<header><h1>Support Ticket</h1></header>
<main>
{{- range .Groups}}
  <div class="group">
    <div class="group-header">
      <span class="{{.AuthorClass}}">{{.Author}}</span>
      <span class="time-ago">{{.TimeAgo}}</span>
    </div>
    {{- range .Messages}}
    <div class="message">
      {{- if .Content}}<p>{{.Content}}</p>{{end}}
      {{- range iterate .AttachmentCount}}
      <span class="attachment">Attachment {{.}}</span>
      {{- end}}
      {{- range .Embeds}}
      <div class="embed" style="border-left: 4px solid {{.Accent}}">
        {{- if .Title}}<div class="embed-title">{{.Title}}</div>{{end}}
        {{- if .Fields}}
        <div class="embed-fields">
          {{- range .Fields}}
          <div class="embed-field{{if .Inline}} inline{{end}}">
            <h4>{{.Name}}</h4>
            <div>{{.Value}}</div>
          </div>
          {{- end}}
        </div>
        {{- end}}
        {{- if .Footer}}<div class="embed-footer">{{.Footer}}</div>{{end}}
      </div>
      {{- end}}
    </div>
    {{- end}}
  </div>
{{- end}}
{{- if not .Groups}}
  <div class="empty"><p>No messages to display</p></div>
{{- end}}
</main>
<footer><div class="notice">Chat history view only - messages cannot be sent</div></footer>
{{- end}}
</body>
</html>
`
