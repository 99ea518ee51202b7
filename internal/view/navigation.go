package view

type NavItem struct {
	Href   string `json:"href"`
	Label  string `json:"label"`
	Icon   string `json:"icon"`
	Active bool   `json:"active"`
}

var navItems = []NavItem{
	{Href: "/", Label: "Home", Icon: "🏠"},
	{Href: "/resale-market", Label: "Market", Icon: "🏪"},
	{Href: "/my-resales", Label: "My Sales", Icon: "💰"},
	{Href: "/profile", Label: "Profile", Icon: "👤"},
	{Href: "/referral", Label: "Referral", Icon: "👥"},
}

// Navigation returns the bottom bar with the item whose href equals
// currentPath marked active. No prefix matching: "/profile/edit" activates
// nothing.
func Navigation(currentPath string) []NavItem {
	out := make([]NavItem, len(navItems))
	for i, it := range navItems {
		it.Active = it.Href == currentPath
		out[i] = it
	}
	return out
}
