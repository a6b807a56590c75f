package automation

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/san-kum/splitflap/internal/story"
	"gopkg.in/yaml.v3"
)

var ErrUnknownAction = errors.New("automation: unknown action")

// Scenario scripts the viewer's side of a session: which control is used
// and when, on the session's virtual clock.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
	// EndMS stops the clock; zero runs until nothing is pending.
	EndMS int `yaml:"end_ms"`
}

type Step struct {
	AtMS   int    `yaml:"at_ms"`
	Action string `yaml:"action"`
}

const (
	ActionOpen       = "open"
	ActionContinue   = "continue"
	ActionCloseFeed  = "close_feed"
	ActionReopenFeed = "reopen_feed"
	ActionCancel     = "cancel"
)

// StepError reports which step of a scenario failed.
type StepError struct {
	Index   int
	Step    Step
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s at %dms): %v", e.Index+1, e.Step.Action, e.Step.AtMS, e.Wrapped)
}

func (e *StepError) Unwrap() error { return e.Wrapped }

// DefaultScenario opens the letter, continues once it has settled and
// closes the feed.
func DefaultScenario() *Scenario {
	return &Scenario{
		Name: "walkthrough",
		Steps: []Step{
			{AtMS: 0, Action: ActionOpen},
			{AtMS: 5000, Action: ActionContinue},
			{AtMS: 7000, Action: ActionCloseFeed},
			{AtMS: 8000, Action: ActionReopenFeed},
		},
	}
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("automation: parse %s: %w", path, err)
	}
	return &sc, nil
}

// Event is one line of a session timeline.
type Event struct {
	AtMS   float64
	Kind   string
	Detail string
}

const drainLimit = 1 << 20

// Run plays the scenario against a fresh session and returns everything
// that happened, in order.
func Run(sess *story.Session, sc *Scenario) ([]Event, error) {
	s := sess.Scheduler()
	var events []Event
	record := func(kind, detail string) {
		events = append(events, Event{AtMS: millis(s.Now()), Kind: kind, Detail: detail})
	}
	sess.SetHooks(story.Hooks{
		OnTransition: func(from, to story.State) { record("state", from.String()+" -> "+to.String()) },
		OnFeed: func(visible bool) {
			if visible {
				record("feed", "shown")
			} else {
				record("feed", "hidden")
			}
		},
	})

	steps := append([]Step(nil), sc.Steps...)
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].AtMS < steps[j].AtMS })

	sess.AssetsLoaded(nil)
	for i, st := range steps {
		if sc.EndMS > 0 && st.AtMS > sc.EndMS {
			break
		}
		sess.Advance(ms(st.AtMS))
		ok, err := apply(sess, st.Action)
		if err != nil {
			return events, &StepError{Index: i, Step: st, Wrapped: err}
		}
		detail := st.Action
		if !ok {
			detail += " (ignored)"
		}
		record("action", detail)
	}

	if sc.EndMS > 0 {
		sess.Advance(ms(sc.EndMS))
	} else {
		s.Drain(drainLimit)
	}
	return events, nil
}

func apply(sess *story.Session, action string) (bool, error) {
	switch action {
	case ActionOpen:
		return sess.Open(), nil
	case ActionContinue:
		if sess.Animating() {
			return false, nil
		}
		return sess.Continue(), nil
	case ActionCloseFeed:
		return sess.CloseFeed(), nil
	case ActionReopenFeed:
		return sess.ReopenFeed(), nil
	case ActionCancel:
		sess.Cancel()
		return true, nil
	default:
		return false, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
}

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

func millis(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }
