// Package web serves the review loop over HTTP as HTML fragments, for
// learners who prefer a browser to the terminal. The page and its script are
// embedded, so it works offline.
package web

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"io/fs"
	"net/http"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/conorfennell/leitnerbox/internal/review"
)

//go:embed all:static
var staticFiles embed.FS

//go:embed templates/*.html
var templateFiles embed.FS

// deckChangedHeader tells the page to reload the box counts.
const deckChangedHeader = "X-Deck-Changed"

// Server holds the dependencies for the HTTP server.
type Server struct {
	mu        sync.Mutex
	session   *review.Session
	title     string
	router    *http.ServeMux
	templates *template.Template
}

type boxView struct {
	Number   int
	Count    int
	Capacity int
}

// reviewView is the current card plus an optional error shown above it.
type reviewView struct {
	review.State
	Error string
}

type deckView struct {
	Boxes []boxView
	Stash int
	Done  int
}

// NewServer creates and configures a new server. title is shown as the page
// heading.
func NewServer(session *review.Session, title string) (*Server, error) {
	tpl, err := template.ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, err
	}
	s := &Server{
		session:   session,
		title:     title,
		router:    http.NewServeMux(),
		templates: tpl,
	}
	if err := s.routes(); err != nil {
		return nil, err
	}
	return s, nil
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() error {
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return err
	}
	s.router.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	s.router.HandleFunc("GET /{$}", s.handleIndex())
	s.router.HandleFunc("GET /deck", s.handleGetDeck())
	s.router.HandleFunc("GET /review/next", s.handleGetNextReview())
	s.router.HandleFunc("GET /review/answer", s.handleShowAnswer())
	s.router.HandleFunc("POST /review", s.handlePostReview())
	s.router.HandleFunc("POST /refill", s.handlePostRefill())
	return nil
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		log.Err(err).Str("template", name).Msg("render-failed")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (s *Server) handleIndex() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.render(w, http.StatusOK, "index", map[string]any{"Title": s.title})
	}
}

// handleGetDeck renders the per-box counts.
func (s *Server) handleGetDeck() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st := s.session.State()
		view := deckView{Stash: st.StashSize, Done: st.DoneCount}
		for i, n := range st.Counts {
			view.Boxes = append(view.Boxes, boxView{Number: i + 1, Count: n, Capacity: st.Capacities[i]})
		}
		s.render(w, http.StatusOK, "deck", view)
	}
}

// handleGetNextReview renders the current card, or the refill prompt when
// nothing is due.
func (s *Server) handleGetNextReview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.renderCurrent(w, http.StatusOK, "")
	}
}

// renderCurrent renders whatever the session shows now, with message above
// it when not empty.
func (s *Server) renderCurrent(w http.ResponseWriter, status int, message string) {
	view := reviewView{State: s.session.State(), Error: message}
	switch {
	case !view.HasQueue:
		s.render(w, status, "nothing_due", view)
	case view.Screen == review.Checking:
		s.render(w, status, "card_back", view)
	default:
		s.render(w, status, "card_front", view)
	}
}

// handleShowAnswer flips the current card.
func (s *Server) handleShowAnswer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.session.Reveal(); err != nil && !errors.Is(err, review.ErrNothingToReview) {
			log.Err(err).Msg("reveal-failed")
		}
		s.renderCurrent(w, http.StatusOK, "")
	}
}

// handlePostReview records the answer and renders the next card.
func (s *Server) handlePostReview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var recalled bool
		switch r.PostFormValue("recalled") {
		case "yes":
			recalled = true
		case "no":
		default:
			http.Error(w, "recalled must be yes or no", http.StatusBadRequest)
			return
		}

		_, err := s.session.Answer(r.Context(), recalled)
		switch {
		case errors.Is(err, review.ErrNothingToReview), errors.Is(err, review.ErrNotRevealed):
			s.renderCurrent(w, http.StatusConflict, err.Error())
			return
		case err != nil:
			log.Err(err).Msg("answer-failed")
			w.Header().Set(deckChangedHeader, "true")
			s.renderCurrent(w, http.StatusInternalServerError, "could not save: "+err.Error())
			return
		}
		w.Header().Set(deckChangedHeader, "true")
		s.renderCurrent(w, http.StatusOK, "")
	}
}

// handlePostRefill moves stash cards into box 1 when nothing is due.
func (s *Server) handlePostRefill() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, err := s.session.Refill(r.Context())
		switch {
		case errors.Is(err, review.ErrReviewPending):
			s.renderCurrent(w, http.StatusConflict, err.Error())
			return
		case err != nil:
			log.Err(err).Msg("refill-failed")
			w.Header().Set(deckChangedHeader, "true")
			s.renderCurrent(w, http.StatusInternalServerError, "could not save: "+err.Error())
			return
		}
		w.Header().Set(deckChangedHeader, "true")
		s.renderCurrent(w, http.StatusOK, "")
	}
}
