// Package navigation holds the menu and breadcrumb state rendered by the base layout.
package navigation

// Menu sections of the base layout.
const (
	SectionDashboard = "dashboard"
	SectionSettings  = "settings"
	SectionGiving    = "giving"
)

// HomeTitle is the first breadcrumb of every page.
const HomeTitle = "Home"

// BreadcrumbItem is one link of the trail.
type BreadcrumbItem struct {
	Title  string
	URL    string
	Active bool
}

// Context tells the layout which page is shown.
type Context struct {
	ActiveSection string
	ActivePage    string
	Breadcrumbs   []BreadcrumbItem
	PageTitle     string
}

// NewContext starts a context whose trail begins with the home link.
func NewContext(pageTitle, activeSection, activePage, homeURL string) *Context {
	return &Context{
		PageTitle:     pageTitle,
		ActiveSection: activeSection,
		ActivePage:    activePage,
		Breadcrumbs:   []BreadcrumbItem{{Title: HomeTitle, URL: homeURL}},
	}
}

// Crumb appends a link to the trail.
func (c *Context) Crumb(title, url string) *Context {
	c.Breadcrumbs = append(c.Breadcrumbs, BreadcrumbItem{Title: title, URL: url})

	return c
}

// Current appends the trail entry of the page itself.
func (c *Context) Current(title, url string) *Context {
	c.Breadcrumbs = append(c.Breadcrumbs, BreadcrumbItem{Title: title, URL: url, Active: true})

	return c
}

// IsActive reports whether section and page are the ones shown.
func (c *Context) IsActive(section, page string) bool {
	return c.ActiveSection == section && c.ActivePage == page
}

// IsSectionActive is used by the menu.
func (c *Context) IsSectionActive(section string) bool {
	return c.ActiveSection == section
}
