package arxiv

import (
	"encoding/xml"
	"strings"
	"time"
)

// Atom feed shapes. The primary_category element lives in arXiv's own
// namespace, hence the qualified tag.
type feed struct {
	XMLName xml.Name `xml:"feed"`
	Entries []entry  `xml:"entry"`
}

type entry struct {
	ID              string     `xml:"id"`
	Title           string     `xml:"title"`
	Summary         string     `xml:"summary"`
	Published       string     `xml:"published"`
	Updated         string     `xml:"updated"`
	Authors         []author   `xml:"author"`
	Links           []link     `xml:"link"`
	PrimaryCategory category   `xml:"http://arxiv.org/schemas/atom primary_category"`
	Categories      []category `xml:"category"`
}

type author struct {
	Name string `xml:"name"`
}

type link struct {
	Href  string `xml:"href,attr"`
	Rel   string `xml:"rel,attr"`
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
}

type category struct {
	Term string `xml:"term,attr"`
}

func entryToPaper(e entry) (Paper, bool) {
	id := CanonicalID(e.ID)
	if id == "" {
		return Paper{}, false
	}

	paper := Paper{
		ArxivID: id,
		Title:   collapseWhitespace(e.Title),
		Summary: collapseWhitespace(e.Summary),
	}
	for _, a := range e.Authors {
		if name := strings.TrimSpace(a.Name); name != "" {
			paper.Authors = append(paper.Authors, name)
		}
	}

	paper.Category = strings.TrimSpace(e.PrimaryCategory.Term)
	if paper.Category == "" && len(e.Categories) > 0 {
		paper.Category = strings.TrimSpace(e.Categories[0].Term)
	}

	for _, l := range e.Links {
		switch {
		case l.Rel == "alternate" || (l.Rel == "" && l.Type == "text/html"):
			paper.AbsURL = l.Href
		case strings.EqualFold(l.Title, "pdf") || l.Type == "application/pdf":
			paper.PDFURL = l.Href
		}
	}
	if paper.AbsURL == "" {
		paper.AbsURL = strings.TrimSpace(e.ID)
	}
	if paper.PDFURL == "" {
		paper.PDFURL = "https://arxiv.org/pdf/" + id
	}

	if t, err := time.Parse(time.RFC3339, strings.TrimSpace(e.Published)); err == nil {
		paper.Published = t
	}
	if t, err := time.Parse(time.RFC3339, strings.TrimSpace(e.Updated)); err == nil {
		paper.Updated = t
	}
	return paper, true
}

// CanonicalID reduces an Atom entry identifier to the bare arXiv ID:
// "http://arxiv.org/abs/2401.12345v2" becomes "2401.12345". Old-style IDs
// keep their subject prefix ("math/0309136").
func CanonicalID(entryID string) string {
	id := strings.TrimSpace(entryID)
	if id == "" {
		return ""
	}
	if i := strings.LastIndex(id, "/abs/"); i >= 0 {
		id = id[i+len("/abs/"):]
	}
	id = strings.TrimSuffix(id, "/")
	return stripVersion(id)
}

func stripVersion(id string) string {
	i := strings.LastIndexByte(id, 'v')
	if i <= 0 || i == len(id)-1 {
		return id
	}
	for _, r := range id[i+1:] {
		if r < '0' || r > '9' {
			return id
		}
	}
	return id[:i]
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
