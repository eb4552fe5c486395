package render

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"github.com/matzehuels/gemstar/pkg/pipeline"
)

//go:embed report.html.tmpl
var reportTemplate string

var tmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"tagName": func(url string) string { return path.Base(url) },
}).Parse(reportTemplate))

// TimeLayout formats the generation time in the report header.
const TimeLayout = "2006-01-02 15:04:05 -0700"

// Report is everything the HTML page shows.
type Report struct {
	Project     string // shown in the title, usually the working directory name
	From        string // old snapshot revision
	To          string // new snapshot revision, empty for the working tree
	GeneratedAt time.Time
	RunID       string
	Updates     []pipeline.Update
	Failures    []pipeline.Failure
}

// view is the template model for the whole page.
type view struct {
	Project   string
	From      string
	ToLabel   string
	Generated string
	RunID     string
	Sections  []section
	Failures  []pipeline.Failure
}

// section is the template model for one gem.
type section struct {
	Name        string
	Old         string
	OldLabel    string
	New         string
	Icon        string
	Homepage    string
	Description string
	CompareURL  string
	ReleasePage string
	ReleaseURLs []string
	Bodies      []template.HTML
}

// HTML writes the report page to w.
func HTML(w io.Writer, r Report) error {
	v, err := newView(r)
	if err != nil {
		return err
	}
	return tmpl.Execute(w, v)
}

// WriteFile writes the report page to path.
func WriteFile(path string, r Report) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := HTML(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func newView(r Report) (view, error) {
	v := view{
		Project:   r.Project,
		From:      r.From,
		ToLabel:   r.To,
		Generated: r.GeneratedAt.Format(TimeLayout),
		RunID:     r.RunID,
		Failures:  r.Failures,
	}
	if v.ToLabel == "" {
		v.ToLabel = "now"
	}

	for _, u := range r.Updates {
		s := section{
			Name:        u.Name,
			Old:         u.Old,
			OldLabel:    u.Old,
			New:         u.New,
			Icon:        Icon(u.HomepageURL),
			Homepage:    u.HomepageURL,
			Description: u.Description,
			CompareURL:  u.CompareURL,
			ReleasePage: u.ReleasePage,
			ReleaseURLs: u.ReleaseURLs,
		}
		if u.Added() {
			s.OldLabel = "new"
		}
		for _, e := range u.Sections {
			body, err := Markdown(e.Lines)
			if err != nil {
				return view{}, fmt.Errorf("render %s %s: %w", u.Name, e.Version, err)
			}
			s.Bodies = append(s.Bodies, body)
		}
		v.Sections = append(v.Sections, s)
	}
	return v, nil
}

// Icon returns the marker shown before a gem's name.
func Icon(homepage string) string {
	if strings.Contains(homepage, "github.com") {
		return "🐙"
	}
	return "💎"
}
