package animation

import (
	"fmt"

	"lautenbacher.net/ledanim/keyframe"
	"lautenbacher.net/ledanim/led"
)

const DefaultSelectorName = "animation"

var offColors = Colors{led.Off}

// Keyframes plays a keyframe timeline in a loop.
func Keyframes(frames []keyframe.Keyframe) (Func, error) {
	tl, err := keyframe.NewTimeline(frames)
	if err != nil {
		return nil, err
	}
	return func(t int64, _ Params) (Colors, error) {
		return tl.Lookup(t), nil
	}, nil
}

// KeyframesBySelector plays the timeline named by the string parameter
// name. Every timeline keeps its own period; an unset or unknown
// selection shows a single off color.
func KeyframesBySelector(timelines map[string][]keyframe.Keyframe, name string) (Func, error) {
	compiled := make(map[string]*keyframe.Timeline, len(timelines))
	for key, frames := range timelines {
		tl, err := keyframe.NewTimeline(frames)
		if err != nil {
			return nil, fmt.Errorf("timeline %q: %w", key, err)
		}
		compiled[key] = tl
	}
	return func(t int64, params Params) (Colors, error) {
		key, ok, err := params.String(name)
		if err != nil {
			return nil, err
		}
		if !ok {
			return offColors, nil
		}
		tl, ok := compiled[key]
		if !ok {
			return offColors, nil
		}
		return tl.Lookup(t), nil
	}, nil
}

// Local Variables:
// compile-command: "cd .. && go build"
// End:
