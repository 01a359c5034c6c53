//go:build js && wasm
// +build js,wasm

package jsdom

import (
	"net/url"
	"strings"
	"syscall/js"
)

// CookieCell keeps credential values in document.cookie, mirroring the
// browser-persisted cell the page has always used.
type CookieCell struct {
	document js.Value
}

func NewCookieCell() *CookieCell {
	return &CookieCell{document: js.Global().Get("document")}
}

func (c *CookieCell) Get(name string) (string, bool) {
	for _, pair := range strings.Split(c.document.Get("cookie").String(), ";") {
		k, v, found := strings.Cut(strings.TrimSpace(pair), "=")
		if !found || k != url.QueryEscape(name) {
			continue
		}
		value, err := url.QueryUnescape(v)
		if err != nil {
			return "", false
		}
		return value, true
	}
	return "", false
}

func (c *CookieCell) Set(name, value string) error {
	c.document.Set("cookie", url.QueryEscape(name)+"="+url.QueryEscape(value)+"; path=/; SameSite=Lax")
	return nil
}

func (c *CookieCell) Remove(name string) error {
	c.document.Set("cookie", url.QueryEscape(name)+"=; path=/; expires=Thu, 01 Jan 1970 00:00:00 GMT")
	return nil
}
