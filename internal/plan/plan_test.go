package plan

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fsfplink/internal/api"
	"fsfplink/internal/api/apitest"
	"fsfplink/internal/credential"
	"fsfplink/internal/overlay"
	"fsfplink/internal/page"
	"fsfplink/internal/submit"
	"fsfplink/internal/trigger"
	"fsfplink/internal/utils"
)

type harness struct {
	doc     *page.Document
	desk    *apitest.Desktop
	store   *credential.Store
	overlay *overlay.Overlay
	deps    Deps

	mu      sync.Mutex
	prompts int
	answer  string
}

func newHarness(t *testing.T, containers ...string) *harness {
	t.Helper()
	h := &harness{doc: page.NewDocument(), desk: apitest.NewDesktop("1234")}
	t.Cleanup(h.desk.Close)
	for _, id := range containers {
		el := h.doc.CreateElement("div")
		el.SetAttribute("id", id)
		h.doc.Body().Append(el)
	}
	h.doc.Prompter = func(string) (string, bool) {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.prompts++
		return h.answer, h.answer != ""
	}
	h.store = credential.NewStore(credential.NewMemoryCell(), "FSFPL_PIN", h.doc, nil)
	h.overlay = overlay.New(h.doc, "FSFPL")
	h.deps = Deps{
		Page:     h.doc,
		Overlay:  h.overlay,
		Workflow: submit.New(h.store, h.overlay, api.NewClient(h.desk.URL, "User", nil), nil),
	}
	return h
}

func scenarioRecord() Record {
	return Record{"departure": "KJFK", "destination": "KLAX", "callsign": "N123", "route": "DCT"}
}

func TestValidateRequiredFields(t *testing.T) {
	for _, missing := range RequiredFields {
		r := scenarioRecord()
		delete(r, missing)
		_, err := New(r, Options{}, Deps{})
		var verr *utils.ValidationError
		require.ErrorAs(t, err, &verr, missing)
		assert.Equal(t, missing, verr.Field)
		assert.Equal(t, "Missing required field: "+missing, err.Error())
	}

	r := scenarioRecord()
	r["alternate"] = "KSAN"
	r["cruise"] = 350
	p, err := New(r, Options{}, Deps{})
	require.NoError(t, err)
	assert.Equal(t, 350, p.Record()["cruise"])
}

func TestSecondaryPlanIsValidated(t *testing.T) {
	_, err := New(scenarioRecord(), Options{Secondary: Record{"departure": "KLAX"}}, Deps{})
	var verr *utils.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "destination", verr.Field)
}

func TestRecordIsCopied(t *testing.T) {
	r := scenarioRecord()
	p, err := New(r, Options{}, Deps{})
	require.NoError(t, err)
	r["route"] = "changed"
	p.Record()["route"] = "changed too"
	assert.Equal(t, "DCT", p.Record()["route"])
}

func TestButtonsAreCreated(t *testing.T) {
	h := newHarness(t, "a", "b")
	p, err := New(scenarioRecord(), Options{Buttons: []ButtonSpec{{To: "a", Text: "Send"}, {To: "b", Text: "To desktop"}}}, h.deps)
	require.NoError(t, err)

	require.Len(t, p.Buttons(), 2)
	assert.Len(t, h.doc.QuerySelectorAll("#a button"), 1)
	assert.Len(t, h.doc.QuerySelectorAll("#b button"), 1)

	p.PrintToButtons("Sending...")
	for _, b := range p.Buttons() {
		assert.Equal(t, "Sending...", b.Label())
	}
	p.ResetButtonTexts()
	assert.Equal(t, "Send", p.Buttons()[0].Label())
	assert.Equal(t, "To desktop", p.Buttons()[1].Label())
}

func TestMissingContainerFails(t *testing.T) {
	h := newHarness(t, "a")
	_, err := New(scenarioRecord(), Options{Buttons: []ButtonSpec{{To: "a", Text: "ok"}, {To: "gone", Text: "x"}}}, h.deps)
	var verr *utils.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "buttons", verr.Field)
}

func click(t *testing.T, tr *trigger.Trigger) {
	t.Helper()
	require.True(t, tr.Element().(*page.Node).Click())
}

// A cached PIN and an accepting desktop end in the success message.
func TestSendWithCachedPinSucceeds(t *testing.T) {
	h := newHarness(t, "slot")
	h.store.Set("1234")
	p, err := New(scenarioRecord(), Options{Buttons: []ButtonSpec{{To: "slot", Text: "Send"}}}, h.deps)
	require.NoError(t, err)

	click(t, p.Buttons()[0])

	assert.Equal(t, "Flight Plan Sended to Desktop.", h.overlay.Message())
	assert.True(t, h.overlay.Visible())
	assert.Equal(t, trigger.IdleAfterResult, p.Buttons()[0].State())
	assert.False(t, p.Buttons()[0].Disabled())
	assert.Zero(t, h.prompts)

	got := h.desk.Received()
	require.Len(t, got, 1)
	assert.Equal(t, "N123", got[0].Body["plan"].(map[string]any)["callsign"])
}

// A refused PIN is forgotten and the next send prompts again.
func TestSendWrongPinForgetsAndReprompts(t *testing.T) {
	h := newHarness(t, "slot")
	h.store.Set("9999")
	p, err := New(scenarioRecord(), Options{Buttons: []ButtonSpec{{To: "slot", Text: "Send"}}}, h.deps)
	require.NoError(t, err)
	button := p.Buttons()[0]

	click(t, button)
	assert.Equal(t, "Wrong Pin.", h.overlay.Message())
	_, cached := h.store.Get(false)
	assert.False(t, cached)
	assert.False(t, button.Disabled())

	h.answer = "1234"
	res := p.Send(context.Background(), SendOptions{Caller: button})
	assert.True(t, res.OK())
	assert.Equal(t, 1, h.prompts)
	assert.Equal(t, "Flight Plan Sended to Desktop.", h.overlay.Message())
	assert.Len(t, h.doc.QuerySelectorAll("#FSFPL-modal"), 1)
}

// Nothing listens on the desktop port.
func TestSendDesktopNotRunning(t *testing.T) {
	h := newHarness(t, "slot")
	h.store.Set("1234")
	h.desk.Close()
	p, err := New(scenarioRecord(), Options{Buttons: []ButtonSpec{{To: "slot", Text: "Send"}}}, h.deps)
	require.NoError(t, err)

	click(t, p.Buttons()[0])
	assert.Contains(t, h.overlay.Message(), "desktop application is running")
	assert.Equal(t, trigger.IdleAfterResult, p.Buttons()[0].State())
}

func TestSendWithoutCaller(t *testing.T) {
	h := newHarness(t)
	h.store.Set("1234")
	p, err := New(scenarioRecord(), Options{Secondary: Record{"departure": "KLAX", "destination": "KSFO", "callsign": "N123", "route": "DCT"}}, h.deps)
	require.NoError(t, err)

	res := p.Send(context.Background(), SendOptions{})
	require.True(t, res.OK())
	assert.Equal(t, "KSFO", res.Response.SecondaryPlan["destination"])
}

func TestDispatchAndClose(t *testing.T) {
	h := newHarness(t, "slot")
	h.store.Set("1234")

	var wg sync.WaitGroup
	h.deps.Dispatch = func(fn func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn()
		}()
	}
	p, err := New(scenarioRecord(), Options{Buttons: []ButtonSpec{{To: "slot", Text: "Send"}}}, h.deps)
	require.NoError(t, err)

	click(t, p.Buttons()[0])
	wg.Wait()
	assert.Len(t, h.desk.Received(), 1)

	p.Close()
	assert.False(t, p.Buttons()[0].Element().(*page.Node).Click())
}

func TestModalHelpers(t *testing.T) {
	h := newHarness(t)
	p, err := New(scenarioRecord(), Options{}, h.deps)
	require.NoError(t, err)

	p.Modal("custom")
	assert.Equal(t, "custom", h.overlay.Message())
	p.CloseModal()
	assert.False(t, h.overlay.Visible())
}
