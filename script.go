package reef

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
)

// scriptStep represents a single control action in a script.
type scriptStep struct {
	Action string  `json:"action"`
	Target string  `json:"target,omitempty"`
	Label  string  `json:"label,omitempty"`
	Value  float64 `json:"value,omitempty"`
	Frames int     `json:"frames,omitempty"`
	Count  int     `json:"count,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Z      float64 `json:"z,omitempty"`
	Spread float64 `json:"spread,omitempty"`
}

// scriptFile is the top-level JSON structure for a script.
type scriptFile struct {
	Steps []scriptStep `json:"steps"`
}

// Script sequences control-surface actions across frames: pausing, time
// scale changes, resets, door open/close, particle bursts and screenshots.
// It lets a demo or a headless run replay the same interaction every time.
// Attach to a Scene via SetScript.
//
// Example:
//
//	{"steps": [
//	  {"action": "wait", "frames": 300},
//	  {"action": "open", "target": "lidHinge"},
//	  {"action": "burst", "target": "bubbles", "count": 20, "x": 0, "y": -4, "z": 5, "spread": 2},
//	  {"action": "speed", "value": -1},
//	  {"action": "wait", "frames": 120},
//	  {"action": "mark", "label": "rewound"}
//	]}
type Script struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

var scriptActions = map[string]bool{
	"wait": true, "pause": true, "resume": true, "togglePause": true,
	"speed": true, "reset": true, "open": true, "close": true, "toggle": true,
	"burst": true, "mark": true, "screenshot": true,
}

// LoadScript parses a JSON script and returns a Script ready to be attached
// to a Scene via SetScript.
func LoadScript(jsonData []byte) (*Script, error) {
	var f scriptFile
	if err := json.Unmarshal(jsonData, &f); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(f.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	for i, st := range f.Steps {
		if !scriptActions[st.Action] {
			return nil, fmt.Errorf("parse script: step %d has unknown action %q", i, st.Action)
		}
	}
	return &Script{steps: f.Steps}, nil
}

// SetScript attaches a Script to the scene. Its step method is called at the
// start of every Scene.Update, before queued registry changes are applied.
func (s *Scene) SetScript(script *Script) {
	s.script = script
}

// Done reports whether all steps in the script have been executed.
func (r *Script) Done() bool {
	return r.done
}

// step advances the script by one frame. Called from Scene.Update.
func (r *Script) step(s *Scene) {
	if r.done {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	// Consecutive non-wait steps all run in the same frame.
	for r.cursor < len(r.steps) {
		st := r.steps[r.cursor]
		r.cursor++
		if st.Action == "wait" {
			if st.Frames > 0 {
				r.waitCount = st.Frames - 1 // this frame counts as one
			}
			break
		}
		r.apply(s, st)
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 {
		r.done = true
	}
}

func (r *Script) apply(s *Scene, st scriptStep) {
	switch st.Action {
	case "pause":
		s.Pause()
	case "resume":
		s.Resume()
	case "togglePause":
		s.TogglePause()
	case "speed":
		s.SetTimeScale(st.Value)
	case "reset":
		s.Reset()
	case "open", "close", "toggle":
		a := s.Animation(st.Target)
		if a == nil || a.Door == nil {
			debugWarn("script: %q is not a door animation", st.Target)
			return
		}
		switch st.Action {
		case "open":
			a.Door.Open()
		case "close":
			a.Door.Close()
		default:
			a.Door.Toggle()
		}
	case "burst":
		p := s.ParticlePool(st.Target)
		if p == nil {
			debugWarn("script: unknown particle pool %q", st.Target)
			return
		}
		spread := mgl64.Vec3{st.Spread, st.Spread / 2, st.Spread}
		p.Burst(st.Count, mgl64.Vec3{st.X, st.Y, st.Z}, spread, Range{2, 4})
	case "screenshot":
		s.Screenshot(st.Label)
	case "mark":
		_, _ = fmt.Fprintf(os.Stderr, "[reef] script mark %q at frame %d, t=%.3f\n", st.Label, s.frame, s.clock.Time())
	}
}
