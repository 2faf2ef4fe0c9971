package http

import (
	"fmt"
	"net/http"
	"sort"

	"ratecalc/internal/core"
	"ratecalc/internal/log"
)

type catalogItemJSON struct {
	Name      string `json:"name"`
	Category  string `json:"category"`
	Label     string `json:"label"`
	Icon      string `json:"icon"`
	Stack     int64  `json:"stack,omitempty"`
	Roll      int64  `json:"roll,omitempty"`
	Loose     int64  `json:"loose,omitempty"`
	UnitCents int64  `json:"unit_cents"`
	Unit      string `json:"unit"`
}

type quoteLineJSON struct {
	Item          string `json:"item"`
	Category      string `json:"category"`
	Quantity      int64  `json:"quantity"`
	UnitCents     int64  `json:"unit_cents"`
	Unit          string `json:"unit"`
	SubtotalCents int64  `json:"subtotal_cents"`
	Subtotal      string `json:"subtotal"`
}

type quoteJSON struct {
	Lines      []quoteLineJSON `json:"lines"`
	TotalCents int64           `json:"total_cents"`
	Total      string          `json:"total"`
	Unknown    []string        `json:"unknown,omitempty"`
}

type quoteRequest struct {
	Selection map[string]int64 `json:"selection"`
}

// handleAPICatalog lists catalog items with their unit values, optionally
// filtered by ?category=.
func (s *Server) handleAPICatalog(w http.ResponseWriter, r *http.Request) {
	cat := s.session.Catalog()
	items := cat.Items()
	if r.URL.Query().Get("category") != "" {
		items = cat.ByCategory(ParseCategoryParam(r.URL.Query()))
	}

	out := make([]catalogItemJSON, 0, len(items))
	for _, it := range items {
		unit := core.UnitValue(it, s.session.Values())
		out = append(out, catalogItemJSON{
			Name:      it.Name,
			Category:  string(it.Category),
			Label:     it.Category.Label(),
			Icon:      string(it.Icon),
			Stack:     it.Cash.Stack,
			Roll:      it.Cash.Roll,
			Loose:     it.Cash.Loose,
			UnitCents: unit.Cents,
			Unit:      unit.String(),
		})
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"items":       out,
		"total_count": len(out),
	})
}

// handleAPISelection reports the interactive session's selection and quote.
func (s *Server) handleAPISelection(w http.ResponseWriter, r *http.Request) {
	sel := s.session.Selection()

	steps := map[string]int64{}
	for name := range sel {
		steps[name] = s.session.StepSize(name)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"selection": sel,
		"steps":     steps,
		"quote":     toQuoteJSON(s.session.Quote(), nil),
	})
}

// handleAPIQuote prices a selection sent by the client without touching the
// interactive session. Quotes are memoised by the canonical selection key.
func (s *Server) handleAPIQuote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sel := core.Selection{}
	var unknown []string
	for name, qty := range req.Selection {
		if !core.ValidQuantity(qty) {
			respondError(w, http.StatusUnprocessableEntity,
				fmt.Sprintf("quantity for %s must be between 0 and %d", name, core.MaxQuantity))
			return
		}
		if _, ok := s.session.Catalog().Lookup(name); !ok {
			unknown = append(unknown, name)
			continue
		}
		if qty > 0 {
			sel[name] = qty
		}
	}
	sort.Strings(unknown)

	quote, hit := s.quotes.GetOrCompute(sel.Key(), func() core.Quote {
		return core.Price(s.session.Catalog(), sel, s.session.Values())
	})

	log.FromContext(r.Context()).DebugContext(r.Context(), "Quote computed",
		log.FieldOperation, log.OpQuote,
		log.FieldTotalCents, quote.Total.Cents,
		"lines", len(quote.Lines),
		"cache_hit", hit)

	respondJSON(w, http.StatusOK, toQuoteJSON(quote, unknown))
}

func toQuoteJSON(q core.Quote, unknown []string) quoteJSON {
	out := quoteJSON{
		Lines:      make([]quoteLineJSON, 0, len(q.Lines)),
		TotalCents: q.Total.Cents,
		Total:      q.Total.String(),
		Unknown:    unknown,
	}
	for _, l := range q.Lines {
		out.Lines = append(out.Lines, quoteLineJSON{
			Item:          l.Item.Name,
			Category:      string(l.Item.Category),
			Quantity:      l.Quantity,
			UnitCents:     l.Unit.Cents,
			Unit:          l.Unit.String(),
			SubtotalCents: l.Subtotal.Cents,
			Subtotal:      l.Subtotal.String(),
		})
	}
	return out
}
