package web

import (
	"net/url"
	"strconv"
	"strings"

	vm "github.com/ericfisherdev/iatsite/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/iatsite/internal/application"
	"github.com/ericfisherdev/iatsite/internal/domain/model"
)

// Home page preview sizes.
const (
	featuredCourseCount      = 6
	featuredTestimonialCount = 6
)

// toCounterViewModel renders a stat in its idle state. The counter socket
// takes over once the element scrolls into view.
func toCounterViewModel(stat model.Stat) vm.Counter {
	spec := application.CounterSpec{End: stat.Number, Suffix: stat.Suffix}
	idle := application.NewCounter(spec, nil)
	final := application.FormatCounter(idle.Spec().End, stat.Suffix)

	return vm.Counter{
		ID:         stat.ID,
		Label:      stat.Label,
		Initial:    idle.Display(),
		Final:      final,
		SocketPath: "/ws/counters/" + url.PathEscape(stat.ID),
	}
}

func toCounterViewModels(stats []model.Stat) []vm.Counter {
	out := make([]vm.Counter, 0, len(stats))
	for _, s := range stats {
		out = append(out, toCounterViewModel(s))
	}
	return out
}

func toHighlightViewModels(items []model.Highlight) []vm.Highlight {
	out := make([]vm.Highlight, 0, len(items))
	for _, h := range items {
		out = append(out, vm.Highlight{Title: h.Title, Description: h.Description})
	}
	return out
}

// toCourseCardViewModel converts a course, rendering its markdown description.
func toCourseCardViewModel(c model.Course) vm.CourseCard {
	features := c.Features
	if features == nil {
		features = []string{}
	}

	return vm.CourseCard{
		ID:              c.ID,
		Title:           c.Title,
		Category:        c.Category,
		Duration:        c.Duration,
		Level:           c.Level,
		Icon:            c.Icon,
		DescriptionHTML: RenderCourseDescription(c.Description),
		Features:        features,
		EnquirePath:     "/contact?" + url.Values{"course": {c.Title}}.Encode(),
	}
}

func toCourseCardViewModels(courses []model.Course) []vm.CourseCard {
	out := make([]vm.CourseCard, 0, len(courses))
	for _, c := range courses {
		out = append(out, toCourseCardViewModel(c))
	}
	return out
}

// toCoursesPageViewModel builds the category tabs and the filtered grid for
// the current selection.
func toCoursesPageViewModel(filter application.CourseFilter) vm.CoursesPage {
	categories := filter.Categories()
	tabs := make([]vm.CategoryTab, 0, len(categories))
	for _, name := range categories {
		tabs = append(tabs, vm.CategoryTab{Name: name, Selected: name == filter.Selected()})
	}

	return vm.CoursesPage{
		Categories: tabs,
		List: vm.CourseList{
			Selected: filter.Selected(),
			Courses:  toCourseCardViewModels(filter.Visible()),
		},
	}
}

// stars renders a rating as filled and empty stars, clamped to 0..MaxRating.
func stars(rating int) string {
	rating = min(max(rating, 0), model.MaxRating)
	return strings.Repeat("★", rating) + strings.Repeat("☆", model.MaxRating-rating)
}

func toTestimonialViewModels(items []model.Testimonial) []vm.Testimonial {
	out := make([]vm.Testimonial, 0, len(items))
	for _, t := range items {
		byline := t.Course
		if t.Company != "" {
			byline += " · " + t.Company
		}
		out = append(out, vm.Testimonial{
			Name:    t.Name,
			Byline:  byline,
			Comment: t.Comment,
			Image:   t.Image,
			Stars:   stars(t.Rating),
		})
	}
	return out
}

func toCompanyViewModels(items []model.Company) []vm.Company {
	out := make([]vm.Company, 0, len(items))
	for _, c := range items {
		out = append(out, vm.Company{Name: c.Name, Logo: c.Logo})
	}
	return out
}

func toPlacementViewModels(items []model.Placement) []vm.PlacementCard {
	out := make([]vm.PlacementCard, 0, len(items))
	for _, p := range items {
		year := ""
		if p.Year > 0 {
			year = strconv.Itoa(p.Year)
		}
		out = append(out, vm.PlacementCard{
			Name:    p.Name,
			Course:  p.Course,
			Company: p.Company,
			Package: p.Package,
			Image:   p.Image,
			Year:    year,
		})
	}
	return out
}

func toHomePageViewModel(snap *application.ContentSnapshot) vm.HomePage {
	site := snap.Content.Site
	courses := snap.Catalog.Courses()
	if len(courses) > featuredCourseCount {
		courses = courses[:featuredCourseCount]
	}
	testimonials := snap.Content.Testimonials
	if len(testimonials) > featuredTestimonialCount {
		testimonials = testimonials[:featuredTestimonialCount]
	}

	return vm.HomePage{
		SiteName:        site.Name,
		Tagline:         site.Tagline,
		Stats:           toCounterViewModels(site.HomeStats),
		Features:        toHighlightViewModels(site.Features),
		FeaturedCourses: toCourseCardViewModels(courses),
		Testimonials:    toTestimonialViewModels(testimonials),
		Companies:       toCompanyViewModels(snap.Content.Companies),
	}
}

func toAboutPageViewModel(snap *application.ContentSnapshot) vm.AboutPage {
	site := snap.Content.Site
	return vm.AboutPage{
		SiteName:  site.Name,
		StoryHTML: RenderMarkdown(site.AboutMarkdown),
		Stats:     toCounterViewModels(site.HomeStats),
		Features:  toHighlightViewModels(site.Features),
		Process:   toHighlightViewModels(site.Process),
	}
}

func toPlacementsPageViewModel(snap *application.ContentSnapshot) vm.PlacementsPage {
	site := snap.Content.Site
	return vm.PlacementsPage{
		Stats:      toCounterViewModels(site.PlacementStats),
		Perks:      toHighlightViewModels(site.PlacementPerks),
		Placements: toPlacementViewModels(snap.Content.Placements),
		Companies:  toCompanyViewModels(snap.Content.Companies),
	}
}

// toContactForm builds the form view model with the course select options,
// marking selectedCourse when it names a catalog course.
func toContactForm(catalog *application.Catalog, csrf string, in application.InquiryInput, errs map[string]string) vm.ContactForm {
	courses := catalog.Courses()
	options := make([]vm.Option, 0, len(courses))
	for _, c := range courses {
		options = append(options, vm.Option{Value: c.Title, Selected: c.Title == in.Course})
	}
	if errs == nil {
		errs = map[string]string{}
	}

	return vm.ContactForm{
		CSRFToken: csrf,
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Message:   in.Message,
		Courses:   options,
		Errors:    errs,
	}
}

func toContactPageViewModel(site model.SiteInfo, form vm.ContactForm) vm.ContactPage {
	return vm.ContactPage{
		Phones:      site.Phones,
		Emails:      site.Emails,
		Address:     site.Address,
		OfficeHours: site.OfficeHours,
		Form:        form,
	}
}
