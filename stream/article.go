package stream

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/finlight/finlight-go/pkg/timestamp"
)

// Company carries per-company sentiment data inside an enriched Article.
// Confidence is coerced from the wire's string-encoded float, all other
// fields are preserved verbatim.
type Company struct {
	Name       string          `json:"name"`
	Confidence float64         `json:"confidence"`
	Raw        json.RawMessage `json:"-"`
}

// RawArticle is the record shape delivered by the raw stream variant.
// Only PublishDate receives type coercion; every other field is passed
// through as received.
type RawArticle struct {
	Link        string    `json:"link"`
	Title       string    `json:"title"`
	PublishDate time.Time `json:"publishDate"`
	Source      string    `json:"source"`
	Language    string    `json:"language"`
	Summary     string    `json:"summary,omitempty"`
	Images      []string  `json:"images,omitempty"`
}

// Article is the record shape delivered by the enriched stream variant.
type Article struct {
	Link        string    `json:"link"`
	Title       string    `json:"title"`
	PublishDate time.Time `json:"publishDate"`
	Source      string    `json:"source"`
	Language    string    `json:"language"`
	Summary     string    `json:"summary,omitempty"`
	Images      []string  `json:"images,omitempty"`

	Sentiment  string    `json:"sentiment,omitempty"`
	Confidence float64   `json:"confidence,omitempty"`
	Content    string    `json:"content,omitempty"`
	CreatedAt  time.Time `json:"createdAt,omitempty"`
	Companies  []Company `json:"companies,omitempty"`
	Categories []string  `json:"categories,omitempty"`
	Countries  []string  `json:"countries,omitempty"`
}

// wireArticle mirrors the JSON shape sent over the wire, where dates are
// ISO-8601 strings and confidence fields are string-encoded floats.
type wireArticle struct {
	Link        string          `json:"link"`
	Title       string          `json:"title"`
	PublishDate json.RawMessage `json:"publishDate"`
	Source      string          `json:"source"`
	Language    string          `json:"language"`
	Summary     string          `json:"summary,omitempty"`
	Images      []string        `json:"images,omitempty"`

	Sentiment  string          `json:"sentiment,omitempty"`
	Confidence json.RawMessage `json:"confidence,omitempty"`
	Content    string          `json:"content,omitempty"`
	CreatedAt  json.RawMessage `json:"createdAt,omitempty"`
	Companies  []wireCompany   `json:"companies,omitempty"`
	Categories []string        `json:"categories,omitempty"`
	Countries  []string        `json:"countries,omitempty"`
}

type wireCompany struct {
	Name       string          `json:"name"`
	Confidence json.RawMessage `json:"confidence,omitempty"`
}

// ParsePublishDate coerces a publishDate/createdAt field into a
// time.Time. It accepts an ISO-8601 string, a raw JSON number (assumed
// unix seconds or milliseconds per pkg/timestamp's heuristic), or a
// JSON null, in which case the zero time.Time is returned.
func ParsePublishDate(raw json.RawMessage) time.Time {
	if len(raw) == 0 || string(raw) == "null" {
		return time.Time{}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return timestamp.FromUnixMs(timestamp.Parse(s))
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return timestamp.FromUnixMs(timestamp.Parse(f))
	}
	return time.Time{}
}

// ParseConfidence coerces a string-encoded or numeric confidence field.
// An absent or empty field yields 0.
func ParseConfidence(raw json.RawMessage) float64 {
	if len(raw) == 0 || string(raw) == "null" || string(raw) == `""` {
		return 0
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		return f
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}
	return 0
}

// TransformEnriched implements the enriched-variant article transformer
// (spec §4.8): publishDate and createdAt are parsed from ISO-8601,
// top-level confidence and each company's confidence are parsed from
// string-encoded floats, and all other fields pass through verbatim.
func TransformEnriched(data json.RawMessage) (Article, error) {
	var w wireArticle
	if err := json.Unmarshal(data, &w); err != nil {
		return Article{}, err
	}

	a := Article{
		Link:       w.Link,
		Title:      w.Title,
		Source:     w.Source,
		Language:   w.Language,
		Summary:    w.Summary,
		Images:     w.Images,
		Sentiment:  w.Sentiment,
		Content:    w.Content,
		Categories: w.Categories,
		Countries:  w.Countries,
	}
	a.PublishDate = ParsePublishDate(w.PublishDate)
	a.CreatedAt = ParsePublishDate(w.CreatedAt)
	a.Confidence = ParseConfidence(w.Confidence)

	if w.Companies != nil {
		a.Companies = make([]Company, len(w.Companies))
		for i, c := range w.Companies {
			a.Companies[i] = Company{
				Name:       c.Name,
				Confidence: ParseConfidence(c.Confidence),
			}
		}
	}

	return a, nil
}

// TransformRaw implements the raw-variant article transformer (spec
// §4.8): only publishDate coercion is performed.
func TransformRaw(data json.RawMessage) (RawArticle, error) {
	var w wireArticle
	if err := json.Unmarshal(data, &w); err != nil {
		return RawArticle{}, err
	}

	return RawArticle{
		Link:        w.Link,
		Title:       w.Title,
		PublishDate: ParsePublishDate(w.PublishDate),
		Source:      w.Source,
		Language:    w.Language,
		Summary:     w.Summary,
		Images:      w.Images,
	}, nil
}
