// Package view turns session state and static content into the page model
// printed by the HTML templates.
package view

import "html/template"

// Page is the whole dashboard, sections in display order.
type Page struct {
	Title    string
	Sidebar  Sidebar
	Bio      Bio
	Skills   Skills
	Timeline []TimelineItem
	Projects Projects
	Map      Map
	StudyLog StudyLog
	Booster  Booster
	Contact  Contact
	Footer   string
}

type Option struct {
	Value    string
	Selected bool
}

// Bar is one row of a chart projection; Percent is the bar width.
type Bar struct {
	Label   string
	Score   int
	Percent int
}

type Metric struct {
	Label string
	Value string
	Delta string
}

type Sidebar struct {
	Heading         string
	PhotoPath       string
	Metrics         []Metric
	ResumeURL       string
	Achievements    []string
	Affiliations    []string
	Aspirations     string
	FunFacts        string
	MotivationLevel int
}

type Bio struct {
	Title      string
	Headline   string
	Paragraphs []template.HTML
	Focus      Metric
}

type SkillGroup struct {
	Title string
	Bars  []Bar
}

type Skills struct {
	Chart  []Bar
	Groups []SkillGroup
}

type TimelineItem struct {
	Year string
	Text template.HTML
}

type StatusRow struct {
	Attribute string
	Value     string
}

type Projects struct {
	Options         []Option
	Name            string
	Description     string
	ImageURL        string
	ProgressPercent int
	ProgressLabel   string
	Status          []StatusRow
}

type Point struct {
	X float64
	Y float64
}

// Map is the walking path projected into an SVG viewport.
type Map struct {
	Width    int
	Height   int
	Polyline string
	Start    Point
	Caption  string
}

type LogRow struct {
	Index    int
	Date     string
	Language string
	Hours    string
}

type StudyLog struct {
	Languages    []Option
	MinHours     float64
	MaxHours     float64
	StepHours    float64
	DefaultHours float64
	Recent       []LogRow
	Total        int
	ExportURL    string
}

type Booster struct {
	Languages   []Option
	Focus       string
	ButtonLabel string
	Chart       []Bar
}

type ContactLink struct {
	Label string
	Text  string
	URL   string
}

type Contact struct {
	Blurb string
	Links []ContactLink
}
