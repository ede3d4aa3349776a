// Package resume builds the plain-text downloads offered by the dashboard.
package resume

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/Zachkp/cs-journey/internal/portfolio"
	"github.com/Zachkp/cs-journey/internal/session"
)

const (
	ContentType     = "text/plain; charset=utf-8"
	Filename        = "portfolio_resume.txt"
	StudyLogFile    = "study_log.txt"
	rule            = "========================================"
	headingIndent   = "          "
	studyDateLayout = "2006-01-02"
)

// Text renders the résumé from static content only, so every session
// downloads the same document.
func Text(c *portfolio.Content) string {
	p := c.Profile
	var b strings.Builder

	heading := func(title string) {
		b.WriteString(rule + "\n")
		b.WriteString(headingIndent + title + "\n")
		b.WriteString(rule + "\n")
	}

	b.WriteString("\n")
	heading("PORTFOLIO RESUME")
	b.WriteString("\n")
	fmt.Fprintf(&b, "Name: %s\n", p.Name)
	fmt.Fprintf(&b, "Title: %s\n", p.Title)
	fmt.Fprintf(&b, "University: %s\n", p.University)
	fmt.Fprintf(&b, "Year: %s\n", p.Year)
	b.WriteString("\n")

	heading("TECHNICAL SKILLS")
	b.WriteString(strings.Join(c.SkillNames(), ", ") + "\n")
	b.WriteString("\n")

	heading("PROJECT IDEAS")
	for i, proj := range c.Projects {
		if i > 0 {
			b.WriteString("    \n")
		}
		fmt.Fprintf(&b, "%d. %s\n", i+1, proj.Name)
		fmt.Fprintf(&b, "    - %s\n", proj.Summary)
	}
	b.WriteString("\n")

	heading("CONTACT")
	fmt.Fprintf(&b, "Email: %s\n", p.Email)
	fmt.Fprintf(&b, "GitHub: %s\n", p.GitHub)
	fmt.Fprintf(&b, "LinkedIn: %s\n", p.LinkedIn)
	b.WriteString("\n")
	b.WriteString(rule + "\n")
	return b.String()
}

// WriteStudyLog prints the full study log as a text table followed by the
// total hours.
func WriteStudyLog(w io.Writer, entries []session.StudyLogEntry) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"#", "Date", "Language", "Hours"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	total := 0.0
	for i, e := range entries {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			e.Date.Format(studyDateLayout),
			e.Language,
			strconv.FormatFloat(e.DurationHours, 'f', 1, 64),
		})
		total += e.DurationHours
	}

	if err := table.Bulk(data); err != nil {
		return fmt.Errorf("study log rows: %w", err)
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("render study log: %w", err)
	}
	_, err := fmt.Fprintf(w, "\n%d sessions, %s hours total\n", len(entries), strconv.FormatFloat(total, 'f', 1, 64))
	return err
}
