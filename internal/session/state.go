// Package session owns the mutable, per-visitor dashboard state: the skill
// scores, the study log and the selections made on the page.
package session

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/Zachkp/cs-journey/internal/portfolio"
)

const (
	BoostStep     = 5
	MaxScore      = 100
	MinStudyHours = 0.1
	MaxStudyHours = 10.0
	// StudyHoursStep is the input granularity; both bounds and
	// DefaultStudyHours are whole steps from MinStudyHours.
	StudyHoursStep    = 0.1
	DefaultStudyHours = 1.0
	RecentLogSize = 5

	seedLogLanguage = "Python"
	seedLogHours    = 1.5
)

var (
	ErrUnknownLanguage    = errors.New("unknown language")
	ErrDurationOutOfRange = errors.New("study duration out of range")
)

// StudyLogEntry is one self-reported study session.
type StudyLogEntry struct {
	Date          time.Time
	Language      string
	DurationHours float64
}

// Snapshot is a copy of a State taken under its lock.
type Snapshot struct {
	ID              string
	Skills          []portfolio.Skill
	Log             []StudyLogEntry
	SelectedProject string
	FocusLanguage   string
	LastLogLanguage string
}

// RecentLog returns the last n entries in append order.
func (s Snapshot) RecentLog(n int) []StudyLogEntry {
	if n < 0 {
		n = 0
	}
	start := max(len(s.Log)-n, 0)
	return s.Log[start:]
}

// State is one visitor's dashboard state. All methods are safe for
// concurrent use; each mutation runs to completion under the state lock.
type State struct {
	ID string

	content *portfolio.Content
	now     func() time.Time

	mu              sync.Mutex
	skills          []portfolio.Skill
	index           map[string]int
	log             []StudyLogEntry
	selectedProject string
	focusLanguage   string
	lastLogLanguage string

	// guarded by the owning Store's lock
	lastSeen time.Time
}

// NewState seeds a state from content. now supplies "today" for log entries.
func NewState(id string, content *portfolio.Content, now func() time.Time) *State {
	if now == nil {
		now = time.Now
	}
	st := &State{
		ID:      id,
		content: content,
		now:     now,
		skills:  make([]portfolio.Skill, len(content.Skills)),
		index:   make(map[string]int, len(content.Skills)),
	}
	copy(st.skills, content.Skills)
	for i, s := range st.skills {
		st.index[s.Name] = i
	}
	st.log = []StudyLogEntry{{Date: today(now()), Language: seedLogLanguage, DurationHours: seedLogHours}}
	if len(content.Projects) > 0 {
		st.selectedProject = content.Projects[0].Name
	}
	if _, ok := st.index[seedLogLanguage]; ok {
		st.focusLanguage = seedLogLanguage
		st.lastLogLanguage = seedLogLanguage
	} else if len(st.skills) > 0 {
		st.focusLanguage = st.skills[0].Name
	}
	return st
}

// Boost adds BoostStep to a language score, capped at MaxScore. A score
// already at the cap is left alone and reported as mastered.
func (s *State) Boost(language string) (Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[language]
	if !ok {
		return Notification{}, fmt.Errorf("%w: %q", ErrUnknownLanguage, language)
	}
	s.focusLanguage = language

	skill := &s.skills[i]
	if skill.Score >= MaxScore {
		return Notification{
			Kind:     NoticeMastered,
			Language: language,
			Score:    skill.Score,
			Message:  fmt.Sprintf("Mastery reached! %s is already at 100%%. Great job!", language),
		}, nil
	}
	skill.Score = min(skill.Score+BoostStep, MaxScore)
	return Notification{
		Kind:     NoticeBoosted,
		Language: language,
		Score:    skill.Score,
		Message:  fmt.Sprintf("+5 Points Added! %s score is now %d%%.", language, skill.Score),
	}, nil
}

// Log appends a study session dated today.
func (s *State) Log(language string, hours float64) (StudyLogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[language]; !ok {
		return StudyLogEntry{}, fmt.Errorf("%w: %q", ErrUnknownLanguage, language)
	}
	if math.IsNaN(hours) || hours < MinStudyHours || hours > MaxStudyHours {
		return StudyLogEntry{}, fmt.Errorf("%w: %g not in [%g, %g]", ErrDurationOutOfRange, hours, MinStudyHours, MaxStudyHours)
	}

	entry := StudyLogEntry{Date: today(s.now()), Language: language, DurationHours: hours}
	s.log = append(s.log, entry)
	s.lastLogLanguage = language
	return entry, nil
}

// SelectProject records which project card is shown.
func (s *State) SelectProject(key string) (portfolio.Project, error) {
	p, err := s.content.Project(key)
	if err != nil {
		return portfolio.Project{}, err
	}

	s.mu.Lock()
	s.selectedProject = p.Name
	s.mu.Unlock()
	return p, nil
}

// Score returns the current score for a language.
func (s *State) Score(language string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[language]
	if !ok {
		return 0, false
	}
	return s.skills[i].Score, true
}

func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:              s.ID,
		Skills:          make([]portfolio.Skill, len(s.skills)),
		Log:             make([]StudyLogEntry, len(s.log)),
		SelectedProject: s.selectedProject,
		FocusLanguage:   s.focusLanguage,
		LastLogLanguage: s.lastLogLanguage,
	}
	copy(snap.Skills, s.skills)
	copy(snap.Log, s.log)
	return snap
}

func today(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
