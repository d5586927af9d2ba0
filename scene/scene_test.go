package scene

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lautenbacher.net/ledanim/animation"
	c "lautenbacher.net/ledanim/config"
	"lautenbacher.net/ledanim/led"
)

func evalAt(t *testing.T, conf c.AnimationConfig, ts int64, params animation.Params) animation.Colors {
	t.Helper()
	anim, err := NewAnimation(conf, t.TempDir())
	require.NoError(t, err)
	out, err := anim.Evaluate(ts, params)
	require.NoError(t, err)
	return out
}

func TestNewAnimation_Defaults(t *testing.T) {
	ind := c.AnimationConfig{Kind: c.KindIndicator}
	assert.Equal(t, animation.Colors{led.Orange}, evalAt(t, ind, 0, nil))
	assert.Equal(t, animation.Colors{led.Off}, evalAt(t, ind, 500, nil))
	assert.Equal(t, animation.Colors{led.Off}, evalAt(t, ind, 0, animation.Params{"indicators": false}))

	brake := c.AnimationConfig{Kind: c.KindBrake}
	assert.Equal(t, animation.Colors{led.Red}, evalAt(t, brake, 0, nil))
	assert.Equal(t, animation.Colors{led.DarkRed}, evalAt(t, brake, 0, animation.Params{"speed": 1}))
	assert.Equal(t, animation.Colors{led.White}, evalAt(t, brake, 0, animation.Params{"speed": -1}))

	sw := c.AnimationConfig{Kind: c.KindSwitch}
	assert.Equal(t, animation.Colors{led.White}, evalAt(t, sw, 0, nil))
	assert.Equal(t, animation.Colors{led.Off}, evalAt(t, sw, 0, animation.Params{"switch": false}))

	delayed := c.AnimationConfig{Kind: c.KindDelayed}
	assert.Equal(t, animation.Colors{led.Red}, evalAt(t, delayed, 1999, nil))
	assert.Equal(t, animation.Colors{led.Off}, evalAt(t, delayed, 2000, nil))

	hue := c.AnimationConfig{Kind: c.KindHueShift}
	assert.Equal(t, evalAt(t, hue, 0, nil), evalAt(t, hue, 1000, nil))

	pulse := c.AnimationConfig{Kind: c.KindPulse}
	assert.Equal(t, animation.Colors{led.White}, evalAt(t, pulse, 1250, nil))

	kr := c.AnimationConfig{Kind: c.KindKnightRider}
	assert.Len(t, evalAt(t, kr, 0, nil), animation.DefaultKnightRiderWidth)
}

func TestNewAnimation_Arguments(t *testing.T) {
	ind := c.AnimationConfig{Kind: c.KindIndicator, On: "blue", Off: "gray", Interval: 100 * time.Millisecond, Param: "left"}
	assert.Equal(t, animation.Colors{led.Blue}, evalAt(t, ind, 0, nil))
	assert.Equal(t, animation.Colors{led.Gray}, evalAt(t, ind, 150, nil))
	assert.Equal(t, animation.Colors{led.Gray}, evalAt(t, ind, 0, animation.Params{"left": false}))

	maxPct := 40.0
	pulse := c.AnimationConfig{Kind: c.KindPulse, Color: "#ffffff", Period: time.Second, MinPct: 20, MaxPct: &maxPct}
	assert.Equal(t, animation.Colors{{51, 51, 51}}, evalAt(t, pulse, 750, nil))

	kr := c.AnimationConfig{Kind: c.KindKnightRider, Width: 3, Color: "green"}
	out := evalAt(t, kr, 0, nil)
	require.Len(t, out, 3)
	assert.Equal(t, byte(0), out[1][1], "red channel")
}

func TestNewAnimation_Keyframes(t *testing.T) {
	frames := c.AnimationConfig{Kind: c.KindKeyframes, Frames: []c.KeyframeConfig{
		{At: 0, Colors: []string{"red", "blue"}},
		{At: 300 * time.Millisecond},
		{At: 600 * time.Millisecond},
	}}
	assert.Equal(t, animation.Colors{led.Red, led.Blue}, evalAt(t, frames, 0, nil))
	assert.Equal(t, animation.Colors{led.Off}, evalAt(t, frames, 350, nil))
	assert.Equal(t, animation.Colors{led.Red, led.Blue}, evalAt(t, frames, 600, nil))

	emergency := c.AnimationConfig{Kind: c.KindKeyframes, Preset: c.PresetEmergency1}
	assert.Len(t, evalAt(t, emergency, 0, nil), 6)

	scanner := c.AnimationConfig{Kind: c.KindKeyframes, Preset: c.PresetKnightRider, Width: 4}
	assert.Len(t, evalAt(t, scanner, 0, nil), 4)

	wide := c.AnimationConfig{Kind: c.KindKeyframes, Preset: c.PresetKnightRider, Width: 300}
	assert.Len(t, evalAt(t, wide, 1234, nil), 300)

	_, err := NewAnimation(c.AnimationConfig{Kind: c.KindKeyframes, Preset: "police"}, "")
	assert.Error(t, err)
}

func TestNewAnimation_Selector(t *testing.T) {
	sel := c.AnimationConfig{Kind: c.KindSelector, Timelines: map[string][]c.KeyframeConfig{
		"on":  {{At: 0, Colors: []string{"white"}}},
		"off": {{At: 0, Colors: []string{"off"}}},
	}}
	assert.Equal(t, animation.Colors{led.White}, evalAt(t, sel, 5, animation.Params{"animation": "on"}))
	assert.Equal(t, animation.Colors{led.Off}, evalAt(t, sel, 5, nil))

	broken := c.AnimationConfig{Kind: c.KindSelector, Timelines: map[string][]c.KeyframeConfig{
		"late": {{At: time.Second, Colors: []string{"white"}}},
	}}
	_, err := NewAnimation(broken, "")
	assert.Error(t, err)
}

func TestNewAnimation_ScriptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "blue.lua"), []byte("function animate(t, p) return 0, 0, 255 end"), 0o644))

	anim, err := NewAnimation(c.AnimationConfig{Kind: c.KindScript, ScriptFile: "blue.lua"}, dir)
	require.NoError(t, err)
	out, err := anim.Evaluate(0, nil)
	require.NoError(t, err)
	assert.Equal(t, animation.Colors{led.Blue}, out)

	_, err = NewAnimation(c.AnimationConfig{Kind: c.KindScript, ScriptFile: "missing.lua"}, dir)
	assert.Error(t, err)
}

func TestNewAnimation_Errors(t *testing.T) {
	_, err := NewAnimation(c.AnimationConfig{Kind: "disco"}, "")
	assert.Error(t, err)

	_, err = NewAnimation(c.AnimationConfig{Kind: c.KindSwitch, On: "not-a-color"}, "")
	assert.Error(t, err)

	_, err = NewAnimation(c.AnimationConfig{Kind: c.KindBrake, Reverse: "not-a-color"}, "")
	assert.Error(t, err)
}

func TestBuild(t *testing.T) {
	s, err := Build([]c.BindingConfig{
		{Name: "roof", Range: []int{0, 2}, Animation: c.AnimationConfig{Kind: c.KindHueShift}},
		{Name: "lua", Leds: []int{3}, Animation: c.AnimationConfig{Kind: c.KindScript, Script: "function animate(t, p) return 1, 2, 3 end"}},
	}, t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	require.Len(t, s.Bindings, 2)
	assert.Equal(t, []int{0, 1, 2}, s.Bindings[0].Positions)
	assert.Equal(t, []int{3}, s.Bindings[1].Positions)
	assert.Len(t, s.scripts, 1)
}

func TestBuild_Error(t *testing.T) {
	_, err := Build([]c.BindingConfig{
		{Name: "ok", Leds: []int{0}, Animation: c.AnimationConfig{Kind: c.KindBrake}},
		{Name: "bad", Leds: []int{1}, Animation: c.AnimationConfig{Kind: "disco"}},
	}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "binding 1 bad")
}

func TestBuild_ExampleConfig(t *testing.T) {
	conf, err := c.ReadConfig(filepath.Join("..", c.CONFILE))
	require.NoError(t, err)

	sc, err := Build(conf.Bindings, "..")
	require.NoError(t, err)
	defer sc.Close()
	require.Len(t, sc.Bindings, len(conf.Bindings))

	for i, b := range sc.Bindings {
		colors, err := b.Animation.Evaluate(0, conf.Params)
		require.NoError(t, err, "binding %d", i)
		assert.NotEmpty(t, colors, "binding %d", i)
	}
}
