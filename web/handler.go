// Package web serves the holdings page: one form and one valuation per section.
package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"slices"
	"time"

	"github.com/etnz/cryptofolio"
	"github.com/etnz/cryptofolio/docs"
	"github.com/etnz/cryptofolio/renderer"
	"github.com/gorilla/mux"
	"golang.org/x/time/rate"
)

const (
	invalidInput    = "Invalid input."
	tooManyRequests = "Too many submissions, try again in a moment."
)

// Handler serves the page for fixed prices.
type Handler struct {
	store      *cryptofolio.Store
	controller *cryptofolio.Controller
	prices     cryptofolio.PriceTable
	router     *mux.Router

	// submissions throttles POSTs, each one rewrites the whole document.
	submissions *rate.Limiter
}

// NewHandler returns the web handler. The price table is fetched once by the
// caller and never refreshed.
func NewHandler(store *cryptofolio.Store, controller *cryptofolio.Controller, prices cryptofolio.PriceTable) *Handler {
	h := &Handler{
		store:       store,
		controller:  controller,
		prices:      prices,
		router:      mux.NewRouter(),
		submissions: rate.NewLimiter(rate.Every(time.Second), 5),
	}
	h.router.HandleFunc("/", h.index).Methods(http.MethodGet)
	h.router.HandleFunc("/sections/{section}/entries", h.submit).Methods(http.MethodPost)
	h.router.HandleFunc("/api/view", h.view).Methods(http.MethodGet)
	h.router.HandleFunc("/help", h.help).Methods(http.MethodGet)
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// load returns the current view, alert is set when the stored document is corrupt.
func (h *Handler) load(r *http.Request) (v cryptofolio.View, alert string, err error) {
	doc, err := h.store.Load(r.Context())
	var corrupt *cryptofolio.CorruptError
	if errors.As(err, &corrupt) {
		log.Printf("warning, %v", err)
		alert, err = "Stored holdings cannot be read, they are shown empty and new entries are refused.", nil
	}
	if err != nil {
		return v, "", err
	}
	return cryptofolio.Compute(doc, h.prices, h.controller.Sections()), alert, nil
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	v, alert, err := h.load(r)
	if err != nil {
		log.Printf("GET /: %v", err)
		http.Error(w, "cannot load holdings", http.StatusInternalServerError)
		return
	}
	h.page(w, http.StatusOK, v, alert)
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	section := mux.Vars(r)["section"]
	if !slices.Contains(h.controller.Sections(), section) {
		http.NotFound(w, r)
		return
	}
	if !h.submissions.Allow() {
		h.alert(w, r, http.StatusTooManyRequests, tooManyRequests)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	_, err := h.controller.SubmitEntry(r.Context(), section, r.PostForm.Get("coin"), r.PostForm.Get("amount"), r.PostForm.Get("price"))

	var verr *cryptofolio.ValidationError
	var corrupt *cryptofolio.CorruptError
	switch {
	case err == nil:
		// the redirect resets the form and renders the new entry.
		http.Redirect(w, r, "/", http.StatusSeeOther)
	case errors.As(err, &verr), errors.Is(err, cryptofolio.ErrUnknownCoin):
		h.alert(w, r, http.StatusBadRequest, invalidInput)
	case errors.As(err, &corrupt):
		h.alert(w, r, http.StatusConflict, "Stored holdings cannot be read, the entry was not recorded.")
	default:
		log.Printf("POST %s: %v", r.URL.Path, err)
		http.Error(w, "cannot record entry", http.StatusInternalServerError)
	}
}

// alert renders the page with status and an alert message.
func (h *Handler) alert(w http.ResponseWriter, r *http.Request, status int, alert string) {
	v, _, err := h.load(r)
	if err != nil {
		log.Printf("POST %s: %v", r.URL.Path, err)
		http.Error(w, "cannot load holdings", http.StatusInternalServerError)
		return
	}
	h.page(w, status, v, alert)
}

func (h *Handler) page(w http.ResponseWriter, status int, v cryptofolio.View, alert string) {
	var b bytes.Buffer
	if err := renderer.HTML(&b, renderer.Page{View: v, Coins: cryptofolio.Coins(), Alert: alert}); err != nil {
		log.Printf("cannot render page: %v", err)
		http.Error(w, "cannot render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	b.WriteTo(w)
}

func (h *Handler) view(w http.ResponseWriter, r *http.Request) {
	v, _, err := h.load(r)
	if err != nil {
		log.Printf("GET /api/view: %v", err)
		http.Error(w, "cannot load holdings", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("GET /api/view: %v", err)
	}
}

func (h *Handler) help(w http.ResponseWriter, r *http.Request) {
	body, err := docs.HTML("readme")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	var b bytes.Buffer
	if err := renderer.HelpHTML(&b, body); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	b.WriteTo(w)
}
