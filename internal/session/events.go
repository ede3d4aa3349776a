package session

import "fmt"

type NoticeKind string

const (
	NoticeNone     NoticeKind = ""
	NoticeBoosted  NoticeKind = "boosted"
	NoticeMastered NoticeKind = "mastered"
	NoticeLogged   NoticeKind = "logged"
)

// Notification is the user-visible outcome of an event.
type Notification struct {
	Kind     NoticeKind
	Message  string
	Language string
	Score    int
}

// Event is a user interaction on the dashboard.
type Event interface {
	isEvent()
}

type BoostRequested struct {
	Language string
}

type LogSubmitted struct {
	Language string
	Hours    float64
}

type ProjectSelected struct {
	Key string
}

func (BoostRequested) isEvent()  {}
func (LogSubmitted) isEvent()    {}
func (ProjectSelected) isEvent() {}

// Dispatch applies an event to the state. The caller re-renders afterwards.
func Dispatch(st *State, ev Event) (Notification, error) {
	switch e := ev.(type) {
	case BoostRequested:
		return st.Boost(e.Language)
	case LogSubmitted:
		entry, err := st.Log(e.Language, e.Hours)
		if err != nil {
			return Notification{}, err
		}
		return Notification{
			Kind:     NoticeLogged,
			Language: entry.Language,
			Message:  "Study session logged!",
		}, nil
	case ProjectSelected:
		if _, err := st.SelectProject(e.Key); err != nil {
			return Notification{}, err
		}
		return Notification{}, nil
	default:
		return Notification{}, fmt.Errorf("unsupported event %T", ev)
	}
}
