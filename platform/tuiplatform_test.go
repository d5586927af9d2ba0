package platform

import (
	"os"
	"syscall"
	"testing"

	"github.com/rivo/tview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	c "lautenbacher.net/ledanim/config"
	"lautenbacher.net/ledanim/led"
	"lautenbacher.net/ledanim/util"
)

func testTUIConfig() *c.Config {
	return &c.Config{
		Params: map[string]any{"night": false, "speed": 0, "mode": "x"},
		Bindings: []c.BindingConfig{
			{Leds: []int{0}, Animation: c.AnimationConfig{Kind: c.KindIndicator}},
			{Leds: []int{1}, Animation: c.AnimationConfig{Kind: c.KindSwitch, Param: "lights"}},
			{Leds: []int{2}, Animation: c.AnimationConfig{
				Kind: c.KindSelector,
				Timelines: map[string][]c.KeyframeConfig{
					"police": {{Colors: []string{"blue"}}},
					"alarm":  {{Colors: []string{"red"}}},
				},
			}},
		},
	}
}

func newTestTUI(t *testing.T) (*TUIPlatform, chan os.Signal, *util.AtomicMapEvent[any]) {
	t.Helper()
	sig := make(chan os.Signal, 1)
	params := util.NewAtomicMapEvent[any]()
	p := NewTUIPlatform(testTUIConfig(), sig, params)
	p.intro = tview.NewTextView()
	return p, sig, params
}

func TestToggleParams(t *testing.T) {
	assert.Equal(t, []string{"indicators", "lights", "night"}, toggleParams(testTUIConfig()))
}

func TestSelectorChoices(t *testing.T) {
	name, choices := selectorChoices(testTUIConfig())
	assert.Equal(t, "animation", name)
	assert.Equal(t, []string{"alarm", "police"}, choices)

	name, choices = selectorChoices(&c.Config{})
	assert.Empty(t, name)
	assert.Empty(t, choices)
}

func TestNextChoice(t *testing.T) {
	choices := []string{"a", "b", "c"}
	assert.Equal(t, "a", nextChoice(choices, nil))
	assert.Equal(t, "b", nextChoice(choices, "a"))
	assert.Equal(t, "a", nextChoice(choices, "c"))
	assert.Equal(t, "a", nextChoice(choices, "unknown"))
}

func TestHandleRune_Toggle(t *testing.T) {
	p, _, params := newTestTUI(t)

	p.handleRune('1')
	assert.Equal(t, false, params.Value()["indicators"])
	p.handleRune('1')
	assert.Equal(t, true, params.Value()["indicators"])

	// no binding for key 9
	p.handleRune('9')
	assert.Len(t, params.Value(), 1)
}

func TestHandleRune_Speed(t *testing.T) {
	p, _, params := newTestTUI(t)

	p.handleRune('+')
	p.handleRune('+')
	assert.Equal(t, 20.0, params.Value()["speed"])

	for range 30 {
		p.handleRune('-')
	}
	assert.Equal(t, -200.0, params.Value()["speed"])
}

func TestHandleRune_Selector(t *testing.T) {
	p, _, params := newTestTUI(t)

	p.handleRune('a')
	assert.Equal(t, "alarm", params.Value()["animation"])
	p.handleRune('a')
	assert.Equal(t, "police", params.Value()["animation"])
}

func TestHandleRune_Signals(t *testing.T) {
	p, sig, _ := newTestTUI(t)

	p.handleRune('q')
	require.Len(t, sig, 1)
	assert.Equal(t, os.Interrupt, <-sig)

	p.handleRune('r')
	require.Len(t, sig, 1)
	assert.Equal(t, syscall.SIGHUP, <-sig)
}

func TestParamText(t *testing.T) {
	text := paramText(map[string]any{"indicators": false, "speed": 30.0, "animation": "police"},
		[]string{"indicators", "night"}, "animation")
	assert.Contains(t, text, "[blue]1[-] indicators: [#ff0000]off[-]")
	assert.Contains(t, text, "[blue]2[-] night: [#00ff00]on[-]")
	assert.Contains(t, text, "speed: [#ffff00]30[-]")
	assert.Contains(t, text, "animation: [#ffff00]police[-]")
}

func TestScaledColor(t *testing.T) {
	assert.Equal(t, "[#000000]", scaledColor(led.RGB{}))
	assert.Equal(t, "[#ff0000]", scaledColor(led.RGB{Red: 255}))
	assert.Equal(t, "[#ff8000]", scaledColor(led.RGB{Red: 128, Green: 64}))
}

func TestBlockChars(t *testing.T) {
	top, bottom := blockChars(0)
	assert.Equal(t, " ", top)
	assert.Equal(t, "▁", bottom)

	top, bottom = blockChars(255)
	assert.Equal(t, "█", top)
	assert.Equal(t, "█", bottom)
}

func TestRenderStrip(t *testing.T) {
	frame := []byte{0, 0, 0, 0, 255, 0}
	assert.Equal(t, "  [#ff0000] [-]\n ·[#ff0000]▅[-]\n\n", renderStrip(frame, 60))

	rows := renderStrip(make([]byte, 3*5), 2)
	assert.Equal(t, "   \n ··\n\n   \n ··\n\n  \n ·\n\n", rows)
}

func TestStripeHeight(t *testing.T) {
	assert.Equal(t, 5, stripeHeight(0))
	assert.Equal(t, 5, stripeHeight(60))
	assert.Equal(t, 8, stripeHeight(61))
	assert.Equal(t, 11, stripeHeight(150))
}

func TestTUIPlatform_AllocateFollowsChain(t *testing.T) {
	p, _, _ := newTestTUI(t)
	require.NoError(t, p.Allocate(130))
	assert.Equal(t, 130, p.LedsTotal())
	assert.Equal(t, 11, stripeHeight(p.LedsTotal()))
}
