package view

import (
	"fmt"
	"html"
	"html/template"
	"math"
	"strconv"
	"strings"

	"github.com/Zachkp/cs-journey/internal/portfolio"
	"github.com/Zachkp/cs-journey/internal/session"
)

const (
	mapWidth   = 640
	mapHeight  = 320
	mapPadding = 24

	logDateLayout = "2006-01-02"
)

// Render builds the page for one session. It only reads its inputs, so
// rendering the same snapshot twice yields equal pages.
func Render(snap session.Snapshot, content *portfolio.Content) Page {
	chart := chartProjection(snap.Skills)
	scores := make(map[string]int, len(snap.Skills))
	for _, s := range snap.Skills {
		scores[s.Name] = s.Score
	}

	return Page{
		Title:    content.Profile.Name + " - CS Student Portfolio",
		Sidebar:  renderSidebar(content),
		Bio:      renderBio(content),
		Skills:   Skills{Chart: chart, Groups: renderGroups(content.SkillGroups, scores)},
		Timeline: renderTimeline(content.Timeline),
		Projects: renderProjects(snap.SelectedProject, content),
		Map:      renderMap(content.Path),
		StudyLog: renderStudyLog(snap),
		Booster:  renderBooster(snap),
		Contact:  renderContact(content),
		Footer:   "Built with Go and Gin",
	}
}

// chartProjection is the name->score table behind both bar charts.
func chartProjection(skills []portfolio.Skill) []Bar {
	bars := make([]Bar, len(skills))
	for i, s := range skills {
		bars[i] = Bar{Label: s.Name, Score: s.Score, Percent: clampPercent(s.Score)}
	}
	return bars
}

func renderSidebar(content *portfolio.Content) Sidebar {
	p := content.Profile
	metrics := make([]Metric, len(p.Metrics))
	for i, m := range p.Metrics {
		metrics[i] = Metric(m)
	}
	return Sidebar{
		Heading:         "About the Author",
		PhotoPath:       p.PhotoPath,
		Metrics:         metrics,
		ResumeURL:       "/resume.txt",
		Achievements:    p.Achievements,
		Affiliations:    p.Affiliations,
		Aspirations:     collapse(portfolio.Aspirations),
		FunFacts:        collapse(portfolio.FunFacts),
		MotivationLevel: clampPercent(p.MotivationLevel),
	}
}

func renderBio(content *portfolio.Content) Bio {
	p := content.Profile
	return Bio{
		Title:    "The CS Journey Portfolio",
		Headline: portfolio.Headline,
		Paragraphs: []template.HTML{
			emphasize(collapse(portfolio.BioIntro), "feature"),
			emphasize(collapse(portfolio.BioRole),
				"Second-Year Computer Science Student at "+p.University+" ("+p.UniversityShort+")",
				"Project Analytics Officer"),
		},
		Focus: Metric{Label: "Experience Focus", Value: "Analytics + Code", Delta: "Growing Daily!"},
	}
}

func renderGroups(groups []portfolio.SkillGroup, scores map[string]int) []SkillGroup {
	out := make([]SkillGroup, 0, len(groups))
	for _, g := range groups {
		group := SkillGroup{Title: g.Title}
		for _, lang := range g.Languages {
			score, ok := scores[lang]
			if !ok {
				continue
			}
			group.Bars = append(group.Bars, Bar{Label: lang, Score: score, Percent: clampPercent(score)})
		}
		out = append(out, group)
	}
	return out
}

func renderTimeline(entries []portfolio.TimelineEntry) []TimelineItem {
	items := make([]TimelineItem, len(entries))
	for i, e := range entries {
		items[i] = TimelineItem{Year: e.Year, Text: emphasize(e.Text, e.Highlight)}
	}
	return items
}

func renderProjects(selected string, content *portfolio.Content) Projects {
	p, err := content.Project(selected)
	if err != nil {
		if len(content.Projects) == 0 {
			return Projects{}
		}
		p = content.Projects[0]
	}

	view := Projects{
		Name:            p.Name,
		Description:     p.Description,
		ImageURL:        p.ImageURL,
		ProgressPercent: clampPercent(p.ProgressPercent()),
		ProgressLabel:   fmt.Sprintf("Mock Progress: %d%%", p.ProgressPercent()),
	}
	for _, name := range content.ProjectNames() {
		view.Options = append(view.Options, Option{Value: name, Selected: name == p.Name})
	}
	for _, attr := range p.Status() {
		view.Status = append(view.Status, StatusRow{Attribute: attr.Name, Value: attr.Value})
	}
	return view
}

// renderMap fits the path into the viewport with north up.
func renderMap(path []portfolio.Coordinate) Map {
	m := Map{Width: mapWidth, Height: mapHeight, Caption: collapse(portfolio.MapCaption)}
	if len(path) == 0 {
		return m
	}

	minLat, maxLat := path[0].Lat, path[0].Lat
	minLon, maxLon := path[0].Lon, path[0].Lon
	for _, c := range path[1:] {
		minLat, maxLat = math.Min(minLat, c.Lat), math.Max(maxLat, c.Lat)
		minLon, maxLon = math.Min(minLon, c.Lon), math.Max(maxLon, c.Lon)
	}
	spanLat := math.Max(maxLat-minLat, 1e-9)
	spanLon := math.Max(maxLon-minLon, 1e-9)
	innerW := float64(mapWidth - 2*mapPadding)
	innerH := float64(mapHeight - 2*mapPadding)

	project := func(c portfolio.Coordinate) Point {
		return Point{
			X: round1(mapPadding + (c.Lon-minLon)/spanLon*innerW),
			Y: round1(mapPadding + (maxLat-c.Lat)/spanLat*innerH),
		}
	}

	points := make([]string, len(path))
	for i, c := range path {
		pt := project(c)
		points[i] = strconv.FormatFloat(pt.X, 'f', 1, 64) + "," + strconv.FormatFloat(pt.Y, 'f', 1, 64)
	}
	m.Polyline = strings.Join(points, " ")
	m.Start = project(path[0])
	return m
}

func renderStudyLog(snap session.Snapshot) StudyLog {
	recent := snap.RecentLog(session.RecentLogSize)
	first := len(snap.Log) - len(recent)

	rows := make([]LogRow, len(recent))
	for i, e := range recent {
		rows[i] = LogRow{
			Index:    first + i,
			Date:     e.Date.Format(logDateLayout),
			Language: e.Language,
			Hours:    strconv.FormatFloat(e.DurationHours, 'f', -1, 64),
		}
	}

	return StudyLog{
		Languages:    options(snap.Skills, logLanguage(snap)),
		MinHours:     session.MinStudyHours,
		MaxHours:     session.MaxStudyHours,
		StepHours:    session.StudyHoursStep,
		DefaultHours: session.DefaultStudyHours,
		Recent:       rows,
		Total:        len(snap.Log),
		ExportURL:    "/study-log.txt",
	}
}

func renderBooster(snap session.Snapshot) Booster {
	return Booster{
		Languages:   options(snap.Skills, snap.FocusLanguage),
		Focus:       snap.FocusLanguage,
		ButtonLabel: "+5 Boost to " + snap.FocusLanguage,
		Chart:       chartProjection(snap.Skills),
	}
}

func renderContact(content *portfolio.Content) Contact {
	links := make([]ContactLink, len(content.Contact))
	for i, l := range content.Contact {
		links[i] = ContactLink(l)
	}
	return Contact{Blurb: portfolio.ContactBlurb, Links: links}
}

func options(skills []portfolio.Skill, selected string) []Option {
	opts := make([]Option, len(skills))
	for i, s := range skills {
		opts[i] = Option{Value: s.Name, Selected: s.Name == selected}
	}
	return opts
}

// logLanguage preselects the language of the latest log entry.
func logLanguage(snap session.Snapshot) string {
	if snap.LastLogLanguage != "" {
		return snap.LastLogLanguage
	}
	return firstSkill(snap.Skills)
}

func firstSkill(skills []portfolio.Skill) string {
	if len(skills) == 0 {
		return ""
	}
	return skills[0].Name
}

// emphasize escapes text and wraps each phrase in <strong>.
func emphasize(text string, phrases ...string) template.HTML {
	out := html.EscapeString(text)
	for _, phrase := range phrases {
		if phrase == "" {
			continue
		}
		escaped := html.EscapeString(phrase)
		out = strings.Replace(out, escaped, "<strong>"+escaped+"</strong>", 1)
	}
	return template.HTML(out) //nolint:gosec // input is escaped above
}

// collapse folds the indentation of multi-line copy into single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func clampPercent(v int) int {
	return max(0, min(v, 100))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
