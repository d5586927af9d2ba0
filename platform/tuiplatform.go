package platform

import (
	"fmt"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"lautenbacher.net/ledanim/animation"
	c "lautenbacher.net/ledanim/config"
	"lautenbacher.net/ledanim/led"
	"lautenbacher.net/ledanim/logging"
	"lautenbacher.net/ledanim/util"
)

const (
	ledsPerRow = 60
	speedStep  = 10
	speedLimit = 200
)

type TUIPlatform struct {
	*AbstractPlatform
	tviewapp     *tview.Application
	intro        *tview.TextView
	ledDisplay   *tview.TextView
	layout       *tview.Flex
	logView      *tview.TextView
	ossignalChan chan os.Signal
	params       *util.AtomicMapEvent[any]
	toggles      []string
	selector     string
	choices      []string
	logFlushOnce sync.Once
}

// NewTUIPlatform simulates the LED chain in the terminal. Key presses
// change the values in params.
func NewTUIPlatform(conf *c.Config, ossignalchan chan os.Signal, params *util.AtomicMapEvent[any]) *TUIPlatform {
	inst := &TUIPlatform{
		ossignalChan: ossignalchan,
		params:       params,
		toggles:      toggleParams(conf),
	}
	inst.selector, inst.choices = selectorChoices(conf)
	inst.AbstractPlatform = newAbstractPlatform(conf, inst.DisplayLeds)
	return inst
}

func (s *TUIPlatform) Start() error {
	s.initSimulationTUI()
	return nil
}

func (s *TUIPlatform) Stop() {
	s.setInShutdown()
	if s.tviewapp != nil {
		s.tviewapp.Stop()
	}
}

// Allocate sizes the frame and fits the LED pane to the new chain
// length.
func (s *TUIPlatform) Allocate(ledsTotal int) error {
	if err := s.AbstractPlatform.Allocate(ledsTotal); err != nil {
		return err
	}
	if s.tviewapp != nil {
		s.tviewapp.QueueUpdateDraw(func() {
			s.layout.ResizeItem(s.ledDisplay, stripeHeight(ledsTotal), 0)
		})
	}
	return nil
}

// stripeHeight is the height of the LED pane: two text lines plus a
// blank line per row of LEDs and the border.
func stripeHeight(ledsTotal int) int {
	rows := (max(ledsTotal, 1) + ledsPerRow - 1) / ledsPerRow
	return 3*rows + 2
}

func (s *TUIPlatform) DisplayLeds() error {
	s.tviewapp.QueueUpdateDraw(s.simulateLedDisplay)
	return nil
}

// toggleParams lists the boolean parameters reachable with the number
// keys: every boolean in Params plus the names switch style bindings
// read.
func toggleParams(conf *c.Config) []string {
	set := make(map[string]bool)
	for name, v := range conf.Params {
		if _, ok := v.(bool); ok {
			set[name] = true
		}
	}
	for _, b := range conf.Bindings {
		switch b.Animation.Kind {
		case c.KindIndicator:
			set[paramName(b.Animation.Param, animation.DefaultIndicatorName)] = true
		case c.KindSwitch:
			set[paramName(b.Animation.Param, animation.DefaultSwitchName)] = true
		}
	}
	if conf.Night.Enabled {
		set[conf.Night.Param] = true
	}
	names := slices.Sorted(maps.Keys(set))
	if len(names) > 9 {
		names = names[:9]
	}
	return names
}

// selectorChoices returns the parameter and the sorted timeline names
// of the first selector binding.
func selectorChoices(conf *c.Config) (string, []string) {
	for _, b := range conf.Bindings {
		if b.Animation.Kind != c.KindSelector {
			continue
		}
		choices := slices.Sorted(maps.Keys(b.Animation.Timelines))
		return paramName(b.Animation.Param, animation.DefaultSelectorName), choices
	}
	return "", nil
}

func paramName(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// nextChoice returns the entry following current, wrapping around. An
// unknown current selects the first entry.
func nextChoice(choices []string, current any) string {
	name, _ := current.(string)
	i := slices.Index(choices, name)
	return choices[(i+1)%len(choices)]
}

// paramText renders the current parameter values for the intro pane.
func paramText(values map[string]any, toggles []string, selector string) string {
	var buf strings.Builder
	for i, name := range toggles {
		state := "[#00ff00]on[-]"
		if v, ok := values[name].(bool); ok && !v {
			state = "[#ff0000]off[-]"
		}
		fmt.Fprintf(&buf, "[blue]%d[-] %s: %s  ", i+1, name, state)
	}
	speed, err := animation.Params(values).Number(animation.SpeedParam, 0)
	if err != nil {
		speed = 0
	}
	fmt.Fprintf(&buf, "\n%s: [#ffff00]%.0f[-]", animation.SpeedParam, speed)
	if selector != "" {
		current, _ := values[selector].(string)
		fmt.Fprintf(&buf, "  %s: [#ffff00]%s[-]", selector, current)
	}
	return buf.String()
}

func (s *TUIPlatform) getIntroText() string {
	line1 := paramText(s.params.Value(), s.toggles, s.selector)
	line2 := "Hit [#ff0000]+[white]/[#ff0000]-[white] to change speed"
	if len(s.choices) > 0 {
		line2 += ", [#ff0000]a[white] to switch animation"
	}
	line3 := "Hit [#ff0000]q[-] to exit, [#ff0000]r[-] to reload, [#ff0000]Up/Down[-] to scroll logs"
	return fmt.Sprintf("%s\n%s\n%s", line1, line2, line3)
}

func (s *TUIPlatform) initSimulationTUI() {
	s.tviewapp = tview.NewApplication()

	s.intro = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	s.intro.SetText(s.getIntroText())
	s.intro.SetBorder(true).SetTitle(" LEDANIM Simulation ").SetTitleColor(tcell.ColorLightBlue)
	s.intro.SetBackgroundColor(tcell.NewRGBColor(20, 20, 20))

	s.ledDisplay = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	s.ledDisplay.SetBorder(true)
	s.ledDisplay.SetBackgroundColor(tcell.NewRGBColor(30, 30, 30))

	s.logView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetChangedFunc(func() {
			s.logView.ScrollToEnd()
			s.tviewapp.Draw()
		})
	s.logView.SetBorder(true).SetTitle(" Logs ").SetTitleColor(tcell.ColorLightBlue)
	s.logView.SetBackgroundColor(tcell.NewRGBColor(40, 40, 40))

	s.layout = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(s.intro, 6, 0, false).
		AddItem(s.ledDisplay, stripeHeight(s.LedsTotal()), 0, false).
		AddItem(s.logView, 0, 1, true)

	s.tviewapp.SetAfterDrawFunc(func(screen tcell.Screen) {
		s.logFlushOnce.Do(func() {
			logWriter := tview.ANSIWriter(s.logView)
			if err := logging.SetOutput(logWriter); err != nil {
				slog.Error("Can't redirect log output", "error", err)
			}
			close(s.readyChan)
		})
	})

	s.tviewapp.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyCtrlC:
			s.ossignalChan <- os.Interrupt
			return nil
		case tcell.KeyRune:
			s.handleRune(event.Rune())
			return nil
		case tcell.KeyUp:
			row, col := s.logView.GetScrollOffset()
			s.logView.ScrollTo(row-1, col)
			return nil
		case tcell.KeyDown:
			row, col := s.logView.GetScrollOffset()
			s.logView.ScrollTo(row+1, col)
			return nil
		}
		return event
	})

	go func() {
		if err := s.tviewapp.SetRoot(s.layout, true).Run(); err != nil {
			slog.Error("Error running TUI", "error", err)
			s.ossignalChan <- os.Interrupt
		}
	}()
}

// handleRune runs on the TUI goroutine.
func (s *TUIPlatform) handleRune(r rune) {
	switch {
	case r == 'q' || r == 'Q':
		s.ossignalChan <- os.Interrupt
		return
	case r == 'r' || r == 'R':
		s.ossignalChan <- syscall.SIGHUP
		return
	case r == '+' || r == '-':
		step := float64(speedStep)
		if r == '-' {
			step = -step
		}
		speed := s.params.Update(animation.SpeedParam, func(old any, ok bool) any {
			current, err := animation.Params{animation.SpeedParam: old}.Number(animation.SpeedParam, 0)
			if !ok || err != nil {
				current = 0
			}
			return util.Clamp(current+step, -speedLimit, speedLimit)
		})
		slog.Debug("Changed parameter", "name", animation.SpeedParam, "value", speed)
	case r == 'a' || r == 'A':
		if len(s.choices) == 0 {
			return
		}
		choice := s.params.Update(s.selector, func(old any, _ bool) any {
			return nextChoice(s.choices, old)
		})
		slog.Debug("Changed parameter", "name", s.selector, "value", choice)
	case r >= '1' && r <= '9':
		idx := int(r - '1')
		if idx >= len(s.toggles) {
			return
		}
		name := s.toggles[idx]
		value := s.params.Update(name, func(old any, ok bool) any {
			v, isBool := old.(bool)
			if !ok || !isBool {
				return false
			}
			return !v
		})
		slog.Debug("Changed parameter", "name", name, "value", value)
	default:
		return
	}
	s.intro.SetText(s.getIntroText())
}

// simulateLedDisplay redraws the entire LED display pane.
// This function must be called on the main TUI thread via app.QueueUpdateDraw().
func (s *TUIPlatform) simulateLedDisplay() {
	var text string
	s.withFrame(func(frame []byte) {
		text = renderStrip(frame, ledsPerRow)
	})
	s.ledDisplay.SetText(text)
}

// renderStrip draws a frame in device order as pairs of text lines,
// perRow LEDs wide. Brightness is shown by the height of a block
// character, the color is normalized to full intensity.
func renderStrip(frame []byte, perRow int) string {
	var buf strings.Builder
	total := len(frame) / 3
	for start := 0; start < total; start += perRow {
		end := min(start+perRow, total)
		var top, bottom strings.Builder
		for i := start; i < end; i++ {
			g := led.GRB{frame[3*i], frame[3*i+1], frame[3*i+2]}
			if g.IsOff() {
				top.WriteString(" ")
				bottom.WriteString("·")
				continue
			}
			v := g.ToRGB()
			colorStr := scaledColor(v)
			topChar, bottomChar := blockChars(brightness(v))
			top.WriteString(colorStr + topChar + "[-]")
			bottom.WriteString(colorStr + bottomChar + "[-]")
		}
		buf.WriteString(" ")
		buf.WriteString(top.String())
		buf.WriteString("\n ")
		buf.WriteString(bottom.String())
		buf.WriteString("\n\n")
	}
	return buf.String()
}

func brightness(v led.RGB) int {
	return (int(v.Red) + int(v.Green) + int(v.Blue) + 1) / 3
}

var bars = []string{"▁", "▂", "▃", "▄", "▅", "▆", "▇", "█"}

// blockChars maps 0..255 onto a two character high bar.
func blockChars(value int) (string, string) {
	level := util.Clamp(value*16/256, 0, 15)
	if level < 8 {
		return " ", bars[level]
	}
	return bars[level-8], "█"
}

func scaledColor(v led.RGB) string {
	m := max(v.Red, v.Green, v.Blue)
	if m == 0 {
		return "[#000000]"
	}
	scale := func(x byte) byte {
		return byte((int(x)*255 + int(m)/2) / int(m))
	}
	return fmt.Sprintf("[#%02x%02x%02x]", scale(v.Red), scale(v.Green), scale(v.Blue))
}

// Local Variables:
// compile-command: "cd .. && go build"
// End:
