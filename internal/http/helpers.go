package http

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"ratecalc/internal/calculator"
	"ratecalc/internal/core"
)

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
	return result
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// itemURL is the base path of an item's mutation endpoints.
func itemURL(name string) string {
	return "/ui/items/" + url.PathEscape(name)
}

var iconGlyphs = map[core.Icon]string{
	core.IconWatch:      "⌚",
	core.IconDiamond:    "💎",
	core.IconGem:        "💠",
	core.IconLink:       "🔗",
	core.IconGamepad:    "🎮",
	core.IconLaptop:     "💻",
	core.IconCamera:     "📷",
	core.IconSmartphone: "📱",
}

func iconGlyph(icon core.Icon) string {
	if g, ok := iconGlyphs[icon]; ok {
		return g
	}
	return "•"
}

type itemView struct {
	Name          string
	URL           string
	Glyph         string
	Category      core.Category
	Unit          string
	Line          string
	Quantity      int64
	QuantityInput string
	Step          int64
	Increase      []int64
	Decrease      []int64
}

type itemsView struct {
	Active core.Category
	Items  []itemView
}

type tabView struct {
	Category core.Category
	Label    string
	Count    int
	Active   bool
}

type pageView struct {
	Tabs  []tabView
	Items itemsView
	Total string
}

func newItemView(s *calculator.Session, item core.Item) itemView {
	qty := s.Quantity(item.Name)
	v := itemView{
		Name:     item.Name,
		URL:      itemURL(item.Name),
		Glyph:    iconGlyph(item.Icon),
		Category: item.Category,
		Unit:     core.UnitValue(item, s.Values()).String(),
		Line:     core.LineValue(item, qty, s.Values()).String(),
		Quantity: qty,
		Step:     s.StepSize(item.Name),
		Increase: calculator.IncreaseSteps,
		Decrease: calculator.DecreaseSteps,
	}
	// Zero shows as the placeholder, not a literal 0
	if qty > 0 {
		v.QuantityInput = strconv.FormatInt(qty, 10)
	}
	return v
}

func newItemsView(s *calculator.Session, cat core.Category) itemsView {
	items := s.Catalog().ByCategory(cat)
	views := make([]itemView, 0, len(items))
	for _, it := range items {
		views = append(views, newItemView(s, it))
	}
	return itemsView{Active: cat, Items: views}
}

func newPageView(s *calculator.Session, active core.Category) pageView {
	var tabs []tabView
	for _, c := range core.Categories() {
		tabs = append(tabs, tabView{
			Category: c,
			Label:    c.Label(),
			Count:    s.Catalog().Count(c),
			Active:   c == active,
		})
	}
	return pageView{
		Tabs:  tabs,
		Items: newItemsView(s, active),
		Total: s.Total().String(),
	}
}
