package utility

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fsfplink/internal/api"
	"fsfplink/internal/api/apitest"
	"fsfplink/internal/collector"
	"fsfplink/internal/credential"
	"fsfplink/internal/overlay"
	"fsfplink/internal/page"
	"fsfplink/internal/plan"
	"fsfplink/internal/submit"
	"fsfplink/internal/utils"
)

func setup(t *testing.T) (*page.Document, *apitest.Desktop, *overlay.Overlay, *Utility) {
	t.Helper()
	doc := page.NewDocument()
	for id, text := range map[string]string{"d": "KJFK", "a": "KLAX", "c": "N123"} {
		el := doc.CreateElement("span")
		el.SetAttribute("id", id)
		el.SetText(text)
		doc.Body().Append(el)
	}
	route := doc.CreateElement("input")
	route.SetAttribute("name", "route")
	route.SetAttribute("value", "DCT")
	doc.Body().Append(route)

	desk := apitest.NewDesktop("1234")
	t.Cleanup(desk.Close)

	store := credential.NewStore(credential.NewMemoryCell(), "FSFPL_PIN", doc, nil)
	store.Set("1234")
	ov := overlay.New(doc, "FSFPL")
	deps := plan.Deps{
		Page:     doc,
		Overlay:  ov,
		Workflow: submit.New(store, ov, api.NewClient(desk.URL, "User", nil), nil),
	}
	return doc, desk, ov, New(deps, plan.Options{Buttons: []plan.ButtonSpec{{To: "nowhere", Text: "x"}}})
}

// One mapped element exists, the other does not.
func TestCollectSkipsMissing(t *testing.T) {
	_, _, _, u := setup(t)
	record := u.Collect(collector.Mapping{
		"departure": collector.Located{Selector: "#d", Attribute: collector.ContentAttribute},
		"callsign":  collector.Located{Selector: "#missing", Attribute: "value"},
	})
	assert.Equal(t, plan.Record{"departure": "KJFK"}, record)
}

func TestCollectThenSend(t *testing.T) {
	_, desk, ov, u := setup(t)
	record := u.Collect(collector.Mapping{
		"departure":   collector.Located{Selector: "#d", Attribute: collector.ContentAttribute},
		"destination": collector.Located{Selector: "#a", Attribute: collector.ContentAttribute},
		"callsign":    collector.Located{Selector: "#c", Attribute: collector.ContentAttribute},
		"route":       collector.Located{Selector: "[name=route]", Attribute: "value"},
		"remarks": collector.Computed{Fn: func(e collector.Entry) any {
			return "generated for " + e.Field
		}},
	})

	res, err := u.Send(context.Background(), record)
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.Equal(t, submit.MsgSent, ov.Message())

	got := desk.Received()
	require.Len(t, got, 1)
	sent := got[0].Body["plan"].(map[string]any)
	assert.Equal(t, "DCT", sent["route"])
	assert.Equal(t, "generated for remarks", sent["remarks"])
}

func TestSendIncompleteRecord(t *testing.T) {
	_, desk, _, u := setup(t)
	_, err := u.Send(context.Background(), plan.Record{"departure": "KJFK"})

	var verr *utils.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "destination", verr.Field)
	assert.Empty(t, desk.Received())
}
