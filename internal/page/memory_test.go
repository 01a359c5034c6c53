package page

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildForm(t *testing.T) *Document {
	t.Helper()
	doc := NewDocument()
	form := doc.CreateElement("form")
	form.SetAttribute("id", "plan")
	form.SetAttribute("class", "fp wide")
	doc.Body().Append(form)

	dep := doc.CreateElement("input")
	dep.SetAttribute("id", "d")
	dep.SetAttribute("name", "departure")
	dep.SetAttribute("value", "KJFK")
	form.Append(dep)

	span := doc.CreateElement("span")
	span.SetAttribute("class", "callsign")
	span.SetText("N123")
	form.Append(span)
	return doc
}

func TestQuerySelector(t *testing.T) {
	doc := buildForm(t)

	cases := []struct {
		selector string
		wantTag  string
	}{
		{"#d", "input"},
		{"input", "input"},
		{"input#d", "input"},
		{"[name=departure]", "input"},
		{`input[name="departure"]`, "input"},
		{".callsign", "span"},
		{"form.fp.wide", "form"},
		{"#plan span", "span"},
		{"form [value]", "input"},
	}
	for _, tc := range cases {
		el, ok := doc.QuerySelector(tc.selector)
		require.True(t, ok, tc.selector)
		assert.Equal(t, tc.wantTag, el.Tag(), tc.selector)
	}

	for _, miss := range []string{"#missing", "div", ".fp span.other", "[name=arrival]", "", "#", "a[b"} {
		_, ok := doc.QuerySelector(miss)
		assert.False(t, ok, miss)
	}
}

func TestContentRendering(t *testing.T) {
	doc := buildForm(t)
	span, ok := doc.QuerySelector(".callsign")
	require.True(t, ok)
	assert.Equal(t, "N123", span.Content())

	span.SetText("<b>")
	assert.Equal(t, "&lt;b&gt;", span.Content())
	assert.Equal(t, "<b>", span.(*Node).Text())

	span.SetContent("<i>raw</i>")
	assert.Equal(t, "<i>raw</i>", span.Content())

	box := doc.CreateElement("div")
	box.SetAttribute("id", "box")
	box.SetStyle("display", "none")
	doc.Body().Append(box)
	assert.Contains(t, doc.Body().Content(), `<div id="box" style="display: none"></div>`)
}

func TestClickSkipsDisabled(t *testing.T) {
	doc := NewDocument()
	btn := doc.CreateElement("button").(*Node)
	doc.Body().Append(btn)

	clicks := 0
	dispose := btn.OnClick(func() { clicks++ })

	assert.True(t, btn.Click())
	btn.SetAttribute("disabled", "disabled")
	assert.False(t, btn.Click())
	btn.RemoveAttribute("disabled")
	assert.True(t, btn.Click())

	dispose()
	dispose()
	assert.False(t, btn.Click())
	assert.Equal(t, 2, clicks)
}

func TestAppendMovesNode(t *testing.T) {
	doc := NewDocument()
	a := doc.CreateElement("div").(*Node)
	b := doc.CreateElement("div").(*Node)
	child := doc.CreateElement("p")
	doc.Body().Append(a)
	doc.Body().Append(b)

	a.Append(child)
	b.Append(child)
	assert.Empty(t, a.Children())
	assert.Len(t, b.Children(), 1)

	other := NewDocument()
	b.Append(other.CreateElement("p"))
	assert.Len(t, b.Children(), 1)
}

func TestPromptWithoutPrompter(t *testing.T) {
	doc := NewDocument()
	_, ok := doc.Prompt("pin?")
	assert.False(t, ok)

	doc.Prompter = func(string) (string, bool) { return "1234", true }
	answer, ok := doc.Prompt("pin?")
	assert.True(t, ok)
	assert.Equal(t, "1234", answer)
}
