package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ratecalc/internal/calculator"
	"ratecalc/internal/core"
	"ratecalc/internal/log"
)

// handleSetQuantity stores the typed quantity. A rejected value is not an
// error state: the row is re-rendered with the quantity it already had.
func (s *Server) handleSetQuantity(w http.ResponseWriter, r *http.Request) {
	name, err := ItemNameParam(r, "name")
	if err != nil {
		BadRequestError("Missing item").Write(w)
		return
	}

	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("Invalid request format").Write(w)
		return
	}
	if !parser.Has("quantity") {
		BadRequestError("Missing quantity").Write(w)
		return
	}
	input := parser.Get("quantity")

	qty, err := s.session.SetQuantity(name, input)
	switch {
	case errors.Is(err, calculator.ErrUnknownItem):
		NotFoundError("Unknown item").Write(w)
		return
	case errors.Is(err, core.ErrInvalidQuantity):
		log.FromContext(r.Context()).DebugContext(r.Context(), "Quantity input rejected",
			log.FieldItem, name,
			"input", input,
			log.FieldQuantity, qty)
		s.writeRow(w, r, name, false)
		return
	case err != nil:
		InternalServerError("Unable to update quantity").Write(w)
		return
	}

	s.changed(r.Context(), log.OpSetQuantity, name, qty)
	s.writeRow(w, r, name, true)
}

// handleStep applies a single +/- action with the item's remembered step.
func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	name, err := ItemNameParam(r, "name")
	if err != nil {
		BadRequestError("Missing item").Write(w)
		return
	}
	dir, err := calculator.ParseDirection(chi.URLParam(r, "direction"))
	if err != nil {
		BadRequestError("Invalid direction").Write(w)
		return
	}

	qty, err := s.session.Step(name, dir)
	if err != nil {
		s.writeMutationError(w, err)
		return
	}

	s.changed(r.Context(), log.OpStep, name, qty)
	s.writeRow(w, r, name, true)
}

// handleQuickSelect applies a quick-select amount and remembers its magnitude.
func (s *Server) handleQuickSelect(w http.ResponseWriter, r *http.Request) {
	name, err := ItemNameParam(r, "name")
	if err != nil {
		BadRequestError("Missing item").Write(w)
		return
	}
	amount, err := ParseQuickAmount(chi.URLParam(r, "amount"))
	if err != nil {
		BadRequestError("Invalid amount").Write(w)
		return
	}

	qty, err := s.session.QuickSelect(name, amount)
	if err != nil {
		s.writeMutationError(w, err)
		return
	}

	s.changed(r.Context(), log.OpQuickSelect, name, qty)
	s.writeRow(w, r, name, true)
}

// handleReset clears the selection and remembered steps, answering with the
// zeroed total bar; the item list refreshes itself on the reset event.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.session.Reset()
	s.eventsFor(r.Context()).LogReset(r.Context())

	body, err := s.render(r.Context(), "total", s.session.Total().String())
	if err != nil {
		InternalServerError("Unable to render total").Write(w)
		return
	}
	NewHTMXResponse().
		TriggerSelectionReset().
		BodyHTML(body).
		Write(w)
}

func (s *Server) writeMutationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, calculator.ErrUnknownItem):
		NotFoundError("Unknown item").Write(w)
	case errors.Is(err, calculator.ErrInvalidStep):
		BadRequestError("Invalid amount").Write(w)
	default:
		InternalServerError("Unable to update quantity").Write(w)
	}
}

func (s *Server) changed(ctx context.Context, op, name string, qty int64) {
	s.eventsFor(ctx).LogSelectionChanged(ctx, op, name, qty, s.session.StepSize(name), s.session.Total().Cents)
}

// writeRow re-renders one item row. When changed is set the response also
// raises the selection-changed event so the total bar refreshes.
func (s *Server) writeRow(w http.ResponseWriter, r *http.Request, name string, changed bool) {
	item, ok := s.session.Catalog().Lookup(name)
	if !ok {
		NotFoundError("Unknown item").Write(w)
		return
	}
	view := newItemView(s.session, item)

	body, err := s.render(r.Context(), "item_row", view)
	if err != nil {
		InternalServerError("Unable to render item").Write(w)
		return
	}

	resp := NewHTMXResponse().BodyHTML(body)
	if changed {
		resp.TriggerSelectionChanged(name, view.Quantity, s.session.Total())
	}
	resp.Write(w)
}
