package application

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/ericfisherdev/iatsite/internal/domain/model"
)

// recordID accepts both JSON strings and JSON numbers, since hand-edited
// fixtures use either form.
type recordID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *recordID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = recordID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	if _, err := strconv.ParseInt(n.String(), 10, 64); err != nil {
		return fmt.Errorf("numeric id %s is not an integer", n)
	}
	*id = recordID(n.String())
	return nil
}

type courseRecord struct {
	ID          recordID `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Duration    string   `json:"duration"`
	Level       string   `json:"level"`
	Icon        string   `json:"icon"`
	Features    []string `json:"features"`
}

type testimonialRecord struct {
	ID      recordID `json:"id"`
	Name    string   `json:"name"`
	Course  string   `json:"course"`
	Company string   `json:"company"`
	Comment string   `json:"comment"`
	Image   string   `json:"image"`
	Rating  int      `json:"rating"`
}

type companyRecord struct {
	ID   recordID `json:"id"`
	Name string   `json:"name"`
	Logo string   `json:"logo"`
}

type placementRecord struct {
	ID      recordID `json:"id"`
	Name    string   `json:"name"`
	Course  string   `json:"course"`
	Company string   `json:"company"`
	Package string   `json:"package"`
	Image   string   `json:"image"`
	Year    int      `json:"year"`
}

type highlightRecord struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

type statRecord struct {
	ID     string `yaml:"id"`
	Label  string `yaml:"label"`
	Number int    `yaml:"number"`
	Suffix string `yaml:"suffix"`
}

type siteRecord struct {
	Name           string            `yaml:"name"`
	Tagline        string            `yaml:"tagline"`
	Phones         []string          `yaml:"phones"`
	Emails         []string          `yaml:"emails"`
	Address        string            `yaml:"address"`
	OfficeHours    string            `yaml:"office_hours"`
	About          string            `yaml:"about"`
	Features       []highlightRecord `yaml:"features"`
	Process        []highlightRecord `yaml:"process"`
	PlacementPerks []highlightRecord `yaml:"placement_perks"`
	Stats          struct {
		Home       []statRecord `yaml:"home"`
		Placements []statRecord `yaml:"placements"`
	} `yaml:"stats"`
}

func decodeCourses(data []byte) ([]model.Course, error) {
	var records []courseRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}

	courses := make([]model.Course, 0, len(records))
	for _, r := range records {
		features := r.Features
		if features == nil {
			features = []string{}
		}
		courses = append(courses, model.Course{
			ID:          string(r.ID),
			Title:       r.Title,
			Description: r.Description,
			Category:    r.Category,
			Duration:    r.Duration,
			Level:       r.Level,
			Icon:        r.Icon,
			Features:    features,
		})
	}
	return courses, nil
}

func decodeTestimonials(data []byte) ([]model.Testimonial, error) {
	var records []testimonialRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}

	out := make([]model.Testimonial, 0, len(records))
	for _, r := range records {
		out = append(out, model.Testimonial{
			ID:      string(r.ID),
			Name:    r.Name,
			Course:  r.Course,
			Company: r.Company,
			Comment: r.Comment,
			Image:   r.Image,
			Rating:  r.Rating,
		})
	}
	return out, nil
}

func decodeCompanies(data []byte) ([]model.Company, error) {
	var records []companyRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}

	out := make([]model.Company, 0, len(records))
	for _, r := range records {
		out = append(out, model.Company{ID: string(r.ID), Name: r.Name, Logo: r.Logo})
	}
	return out, nil
}

func decodePlacements(data []byte) ([]model.Placement, error) {
	var records []placementRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}

	out := make([]model.Placement, 0, len(records))
	for _, r := range records {
		out = append(out, model.Placement{
			ID:      string(r.ID),
			Name:    r.Name,
			Course:  r.Course,
			Company: r.Company,
			Package: r.Package,
			Image:   r.Image,
			Year:    r.Year,
		})
	}
	return out, nil
}

func decodeSite(data []byte) (model.SiteInfo, error) {
	var r siteRecord
	if err := yaml.Unmarshal(data, &r); err != nil {
		return model.SiteInfo{}, err
	}

	return model.SiteInfo{
		Name:           r.Name,
		Tagline:        r.Tagline,
		Phones:         nonNil(r.Phones),
		Emails:         nonNil(r.Emails),
		Address:        r.Address,
		OfficeHours:    r.OfficeHours,
		AboutMarkdown:  r.About,
		Features:       toHighlights(r.Features),
		Process:        toHighlights(r.Process),
		PlacementPerks: toHighlights(r.PlacementPerks),
		HomeStats:      toStats(r.Stats.Home),
		PlacementStats: toStats(r.Stats.Placements),
	}, nil
}

func toHighlights(records []highlightRecord) []model.Highlight {
	out := make([]model.Highlight, 0, len(records))
	for _, r := range records {
		out = append(out, model.Highlight{Title: r.Title, Description: r.Description})
	}
	return out
}

func toStats(records []statRecord) []model.Stat {
	out := make([]model.Stat, 0, len(records))
	for _, r := range records {
		out = append(out, model.Stat{ID: r.ID, Label: r.Label, Number: r.Number, Suffix: r.Suffix})
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
