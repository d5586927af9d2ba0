package animation

import (
	"fmt"
	"math"

	lua "github.com/yuin/gopher-lua"

	"lautenbacher.net/ledanim/led"
)

// ScriptEntry is the global Lua function a script must define. It is
// called as animate(t, params) and returns either three numbers r, g, b
// or a list of {r, g, b} tables.
const ScriptEntry = "animate"

// Script is an animation implemented in Lua. A Script owns a Lua
// state and is not safe for concurrent use.
type Script struct {
	name  string
	state *lua.LState
	fn    *lua.LFunction
}

// NewScript compiles source and looks up its entry function.
func NewScript(name, source string) (*Script, error) {
	L := lua.NewState()
	registerHelpers(L)
	if err := L.DoString(source); err != nil {
		L.Close()
		return nil, fmt.Errorf("script %s: %w", name, err)
	}
	fn, ok := L.GetGlobal(ScriptEntry).(*lua.LFunction)
	if !ok {
		L.Close()
		return nil, fmt.Errorf("script %s: no function %q defined", name, ScriptEntry)
	}
	return &Script{name: name, state: L, fn: fn}, nil
}

func registerHelpers(L *lua.LState) {
	// hsl(h, s, l) -> r, g, b
	L.SetGlobal("hsl", L.NewFunction(func(L *lua.LState) int {
		rgb := led.HSLToRGB(led.HSL{
			Hue:        float64(L.CheckNumber(1)),
			Saturation: float64(L.CheckNumber(2)),
			Lightness:  float64(L.CheckNumber(3)),
		})
		L.Push(lua.LNumber(rgb.Red))
		L.Push(lua.LNumber(rgb.Green))
		L.Push(lua.LNumber(rgb.Blue))
		return 3
	}))
}

func (s *Script) Evaluate(t int64, params Params) (Colors, error) {
	L := s.state
	if err := L.CallByParam(lua.P{Fn: s.fn, NRet: 3, Protect: true}, lua.LNumber(t), s.paramTable(params)); err != nil {
		return nil, fmt.Errorf("script %s: %w", s.name, err)
	}
	r, g, b := L.Get(-3), L.Get(-2), L.Get(-1)
	L.Pop(3)

	if tbl, ok := r.(*lua.LTable); ok {
		out := make(Colors, 0, tbl.Len())
		for i := 1; i <= tbl.Len(); i++ {
			entry, ok := tbl.RawGetInt(i).(*lua.LTable)
			if !ok {
				return nil, fmt.Errorf("script %s: entry %d is not a {r, g, b} table", s.name, i)
			}
			out = append(out, toGRB(entry.RawGetInt(1), entry.RawGetInt(2), entry.RawGetInt(3)))
		}
		if len(out) == 0 {
			return offColors, nil
		}
		return out, nil
	}
	if r.Type() != lua.LTNumber {
		return nil, fmt.Errorf("script %s: returned %s, expected r, g, b or a list of colors", s.name, r.Type())
	}
	return Colors{toGRB(r, g, b)}, nil
}

func (s *Script) paramTable(params Params) *lua.LTable {
	tbl := s.state.NewTable()
	for k, value := range params {
		switch v := value.(type) {
		case bool:
			tbl.RawSetString(k, lua.LBool(v))
		case string:
			tbl.RawSetString(k, lua.LString(v))
		default:
			if n, err := params.Number(k, 0); err == nil {
				tbl.RawSetString(k, lua.LNumber(n))
			}
		}
	}
	return tbl
}

func toGRB(r, g, b lua.LValue) led.GRB {
	channel := func(v lua.LValue) byte {
		return byte(math.Max(0, math.Min(255, math.RoundToEven(float64(lua.LVAsNumber(v))))))
	}
	return led.RGB{Red: channel(r), Green: channel(g), Blue: channel(b)}.ToGRB()
}

// Close releases the Lua state.
func (s *Script) Close() {
	s.state.Close()
}

// Local Variables:
// compile-command: "cd .. && go build"
// End:
