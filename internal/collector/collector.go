// Package collector reads a flat record out of the page following a
// declarative field mapping.
package collector

import (
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/exp/slices"

	"fsfplink/internal/page"
	"fsfplink/internal/utils"
)

// ContentAttribute selects the rendered content instead of an attribute.
const ContentAttribute = "innerHTML"

// Source says where a field's value comes from: Located or Computed.
type Source interface {
	source()
}

// Located reads the first element matching Selector.
type Located struct {
	Selector  string
	Attribute string
}

// Computed produces the value itself. Fn receives its own entry.
type Computed struct {
	Fn func(Entry) any
}

func (Located) source()  {}
func (Computed) source() {}

// ParseLocated reads a {"selector": ..., "attribute": ...} entry decoded from
// JSON. Anything else is a *utils.ValidationError naming field.
func ParseLocated(field string, v any) (Located, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return Located{}, &utils.ValidationError{Field: field, Message: fmt.Sprintf("mapping entry %q must be a function or {selector, attribute}", field)}
	}
	selector, _ := obj["selector"].(string)
	attribute, _ := obj["attribute"].(string)
	if selector == "" || attribute == "" {
		return Located{}, &utils.ValidationError{Field: field, Message: fmt.Sprintf("mapping entry %q needs string selector and attribute", field)}
	}
	return Located{Selector: selector, Attribute: attribute}, nil
}

// Entry is one mapping line annotated with the field it fills.
type Entry struct {
	Field  string
	Source Source
}

// Mapping maps record field names to sources.
type Mapping map[string]Source

type Collector struct {
	page   page.Page
	logger *utils.Logger
}

func New(p page.Page, logger *utils.Logger) *Collector {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &Collector{page: p, logger: logger}
}

// Collect resolves every entry. Unresolvable entries are logged and left out,
// so the result may be partial.
func (c *Collector) Collect(m Mapping) map[string]any {
	fields := make([]string, 0, len(m))
	for field := range m {
		fields = append(fields, field)
	}
	slices.Sort(fields)

	record := make(map[string]any, len(m))
	for _, field := range fields {
		if v, ok := c.resolve(Entry{Field: field, Source: m[field]}); ok {
			record[field] = v
		}
	}
	return record
}

func (c *Collector) resolve(e Entry) (any, bool) {
	switch src := e.Source.(type) {
	case Computed:
		if src.Fn == nil {
			c.logger.Warn("collection_miss", zap.String("field", e.Field), zap.String("reason", "nil function"))
			return nil, false
		}
		return c.compute(src, e)
	case Located:
		el, ok := c.page.QuerySelector(src.Selector)
		if !ok {
			c.logger.Warn("collection_miss", zap.String("field", e.Field), zap.String("selector", src.Selector))
			return nil, false
		}
		if src.Attribute == ContentAttribute {
			return el.Content(), true
		}
		v, ok := el.Attribute(src.Attribute)
		if !ok {
			c.logger.Warn("collection_miss", zap.String("field", e.Field), zap.String("selector", src.Selector),
				zap.String("attribute", src.Attribute))
			return nil, false
		}
		return v, true
	default:
		c.logger.Warn("collection_miss", zap.String("field", e.Field), zap.String("reason", "no source"))
		return nil, false
	}
}

// compute runs a Computed source. A panicking function counts as a miss.
func (c *Collector) compute(src Computed, e Entry) (v any, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Warn("collection_miss", zap.String("field", e.Field), zap.String("reason", "function failed"),
				zap.Any("panic", r))
			v, ok = nil, false
		}
	}()
	return src.Fn(e), true
}
