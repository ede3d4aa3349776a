// Package portfolio holds the static content of the dashboard: seed skill
// scores, project cards, the timeline, the walking path and profile copy.
// Everything here is read-only once Default returns.
package portfolio

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrUnknownProject = errors.New("unknown project")

// Skill pairs a language with a proficiency score in [0,100].
type Skill struct {
	Name  string
	Score int
}

// SkillGroup names a column of progress bars on the skills section.
type SkillGroup struct {
	Title     string
	Languages []string
}

// StatusAttr is one row of a project's status table.
type StatusAttr struct {
	Name  string
	Value string
}

type Project struct {
	Name        string
	Description string
	Summary     string // one-liner used by the résumé
	Focus       string
	Progress    float64
	NextStep    string
	ImageURL    string
}

// Status returns the project's status attributes in display order.
func (p Project) Status() []StatusAttr {
	return []StatusAttr{
		{Name: "Focus", Value: p.Focus},
		{Name: "Progress", Value: strconv.FormatFloat(p.Progress, 'g', -1, 64)},
		{Name: "Next Step", Value: p.NextStep},
	}
}

// ProgressPercent truncates Progress to a whole percentage.
func (p Project) ProgressPercent() int {
	return int(p.Progress * 100)
}

type TimelineEntry struct {
	Year      string
	Text      string
	Highlight string // phrase rendered in bold, may be empty
}

type Metric struct {
	Label string
	Value string
	Delta string
}

type ContactLink struct {
	Label string
	Text  string
	URL   string
}

type Profile struct {
	Name            string
	Title           string
	University      string
	UniversityShort string
	Year            string
	PhotoPath       string
	Metrics         []Metric
	Achievements    []string
	Affiliations    []string
	MotivationLevel int
	Email           string
	GitHub          string
	LinkedIn        string
}

// Content is the whole static store.
type Content struct {
	Profile     Profile
	Skills      []Skill
	SkillGroups []SkillGroup
	Projects    []Project
	Timeline    []TimelineEntry
	Path        []Coordinate
	Contact     []ContactLink
}

// Project looks up a project by name.
func (c *Content) Project(key string) (Project, error) {
	for _, p := range c.Projects {
		if p.Name == key {
			return p, nil
		}
	}
	return Project{}, fmt.Errorf("%w: %q", ErrUnknownProject, key)
}

// ProjectNames lists project keys in display order.
func (c *Content) ProjectNames() []string {
	names := make([]string, 0, len(c.Projects))
	for _, p := range c.Projects {
		names = append(names, p.Name)
	}
	return names
}

// SkillNames lists the seeded languages in seed order.
func (c *Content) SkillNames() []string {
	names := make([]string, 0, len(c.Skills))
	for _, s := range c.Skills {
		names = append(names, s.Name)
	}
	return names
}

// Theme colors shared by the stylesheet and the placeholder images.
const (
	RoyalBlue   = "#4169E1"
	VibrantGold = "#FFD700"
	DarkGray    = "#161B22"
)

func placeholderImage(bg, fg, text string) string {
	return fmt.Sprintf("https://placehold.co/400x200/%s/%s?text=%s",
		strings.TrimPrefix(bg, "#"), strings.TrimPrefix(fg, "#"), strings.ReplaceAll(text, " ", "+"))
}

// Default returns a fresh copy of the portfolio content.
func Default() *Content {
	return &Content{
		Profile: Profile{
			Name:            "Kesha Jane L. Ceniza",
			Title:           "CS Student & Project Analytics Officer",
			University:      "Cebu Institute of Technology - University",
			UniversityShort: "CIT-U",
			Year:            "2nd Year Computer Science",
			PhotoPath:       "/static/profile.svg",
			Metrics: []Metric{
				{Label: "University", Value: "CIT-U"},
				{Label: "Student Status", Value: "2nd Year CS"},
				{Label: "Duolingo Streak (Days)", Value: "450", Delta: "Consistent Learning!"},
			},
			Achievements:    []string{"Advanced Past Round 1: Ceb-i Hacks Cutoff"},
			Affiliations:    []string{"Project Analytics Officer: GDG CIT-U"},
			MotivationLevel: 85,
			Email:           "keshajane24@gmail.com",
			GitHub:          "martianK3jC",
			LinkedIn:        "Kesha Jane L. Ceniza",
		},
		Skills: []Skill{
			{Name: "Python", Score: 90},
			{Name: "C++", Score: 85},
			{Name: "Java", Score: 75},
			{Name: "SQL", Score: 80},
			{Name: "C", Score: 70},
			{Name: "JavaScript", Score: 65},
			{Name: "C#", Score: 50},
			{Name: "Kotlin", Score: 40},
			{Name: "Assembly", Score: 30},
		},
		SkillGroups: []SkillGroup{
			{Title: "Core Languages", Languages: []string{"Python", "SQL", "C++", "Java"}},
			{Title: "Web & Foundations", Languages: []string{"JavaScript", "C", "C#"}},
			{Title: "Specialty", Languages: []string{"Kotlin", "Assembly"}},
		},
		Projects: []Project{
			{
				Name:        "Tamagotchi Teaches Programming",
				Description: "An interactive, gamified learning tool where users nurture a digital pet by successfully completing programming challenges.",
				Summary:     "Gamified learning tool for programming",
				Focus:       "Full-Stack, Gamification",
				Progress:    0.1,
				NextStep:    "Wireframing UI",
				ImageURL:    placeholderImage(RoyalBlue, DarkGray, "WEB DEV PROJECT"),
			},
			{
				Name:        "Budgetables",
				Description: "A localized guide to track the real-time or seasonal range of prices for fruits and vegetables in local markets to aid budgeting.",
				Summary:     "Price tracking app for local market produce",
				Focus:       "App Development, Data Collection, UX",
				Progress:    0.05,
				NextStep:    "Market Research & Data Sourcing",
				ImageURL:    placeholderImage(VibrantGold, DarkGray, "APP DEV PROJECT"),
			},
		},
		Timeline: []TimelineEntry{
			{Year: "2005", Text: "Born in Cebu, Philippines!"},
			{Year: "2017", Text: "Elementary School Graduation 🎓"},
			{Year: "2021", Text: "High School Graduation"},
			{Year: "2023", Text: "Senior High School Graduation"},
			{Year: "2023-2024", Text: "The Pivot: Initially failing Computer Engineering. This period was crucial, teaching me the true meaning of persistence and refining my career passion."},
			{Year: "2024", Text: "Persistence Pays: I took a risk, faced the Dean, and successfully advocated for my transfer into the Computer Science program. That decision made all the difference.", Highlight: "Computer Science"},
			{Year: "2024-Present", Text: "Current Trajectory: I'm navigating the CS curriculum now, embracing the daily grind and pushing forward to build a rock-solid technical foundation.", Highlight: "Current Trajectory"},
		},
		Path: WalkingPath(),
		Contact: []ContactLink{
			{Label: "GitHub", Text: "martianK3jC", URL: "https://github.com/martianK3jC"},
			{Label: "LinkedIn", Text: "Kesha Jane L. Ceniza", URL: "https://www.linkedin.com/in/kesha-jane-ceniza-88923b38b/"},
			{Label: "Email", Text: "keshajane24@gmail.com", URL: "mailto:keshajane24@gmail.com"},
		},
	}
}
