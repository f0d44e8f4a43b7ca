// Package handlers wires HTTP routing and API handlers.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Jean-Jawed/4Films/internal/images"
	"github.com/Jean-Jawed/4Films/internal/store"
	"github.com/Jean-Jawed/4Films/internal/tmdb"
)

type Handler struct {
	store  *store.Store
	tmdb   *tmdb.Client
	images *images.Resolver

	genres    listCache[tmdb.Genre]
	languages listCache[tmdb.Language]
	providers listCache[tmdb.ProviderOption]
}

type Config struct {
	Store  *store.Store
	TMDB   *tmdb.Client
	Images *images.Resolver
}

// listCache holds filter-form options fetched from the catalog, refreshed
// at most once per TTL.
type listCache[T any] struct {
	mu        sync.RWMutex
	items     []T
	fetchedAt time.Time
}

const optionCacheTTL = 24 * time.Hour

func (c *listCache[T]) get(ctx context.Context, fetch func(context.Context) ([]T, error)) ([]T, error) {
	c.mu.RLock()
	if c.items != nil && time.Since(c.fetchedAt) < optionCacheTTL {
		items := append([]T(nil), c.items...)
		c.mu.RUnlock()
		return items, nil
	}
	c.mu.RUnlock()

	items, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.items = append([]T(nil), items...)
	c.fetchedAt = time.Now()
	c.mu.Unlock()

	return items, nil
}

func New(cfg *Config) (*Handler, error) {
	if cfg.Store == nil {
		return nil, errors.New("store is required")
	}
	if cfg.TMDB == nil {
		return nil, errors.New("tmdb client is required")
	}
	if cfg.Images == nil {
		return nil, errors.New("image resolver is required")
	}
	return &Handler{
		store:  cfg.Store,
		tmdb:   cfg.TMDB,
		images: cfg.Images,
	}, nil
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/filters", Adapt(h.getFilters))
		r.Method(http.MethodGet, "/search/movies", Adapt(h.getSearchMovies))
		r.Method(http.MethodGet, "/search/people", Adapt(h.getSearchPeople))

		r.Route("/carousel", func(r chi.Router) {
			r.Method(http.MethodGet, "/", Adapt(h.getCarousel))
			r.Method(http.MethodPost, "/discover", Adapt(h.postCarouselDiscover))
			r.Method(http.MethodPost, "/similar", Adapt(h.postCarouselSimilar))
			r.Method(http.MethodPost, "/advance", Adapt(h.postCarouselAdvance))
			r.Method(http.MethodPost, "/jump", Adapt(h.postCarouselJump))
			r.Method(http.MethodPost, "/gesture", Adapt(h.postCarouselGesture))
			r.Method(http.MethodPost, "/reset", Adapt(h.postCarouselReset))
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}

type genreOption struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type languageOption struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type providerOption struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	LogoURL string `json:"logoUrl"`
}

type filtersResponse struct {
	Genres    []genreOption    `json:"genres"`
	Languages []languageOption `json:"languages"`
	Providers []providerOption `json:"providers"`
	Region    string           `json:"region"`
	ImageBase imageBases       `json:"imageBase"`
}

// imageBases gives the frontend resolved prefixes so it can build image
// URLs from the relative paths carried in carousel views.
type imageBases struct {
	Poster string `json:"poster"`
	Logo   string `json:"logo"`
}

func (h *Handler) getFilters(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	genres, err := h.genres.get(ctx, h.tmdb.Genres)
	if err != nil {
		return badGateway("could not load filter options, please retry")
	}
	languages, err := h.languages.get(ctx, h.tmdb.Languages)
	if err != nil {
		return badGateway("could not load filter options, please retry")
	}
	providers, err := h.providers.get(ctx, h.tmdb.ProviderList)
	if err != nil {
		return badGateway("could not load filter options, please retry")
	}

	resp := &filtersResponse{
		Genres:    make([]genreOption, 0, len(genres)),
		Languages: make([]languageOption, 0, len(languages)),
		Providers: make([]providerOption, 0, len(providers)),
		Region:    h.tmdb.Region(),
		ImageBase: imageBases{
			Poster: h.images.Prefix(images.Poster, images.Medium),
			Logo:   h.images.Prefix(images.Logo, images.Medium),
		},
	}
	for _, g := range genres {
		if strings.TrimSpace(g.Name) == "" {
			continue
		}
		resp.Genres = append(resp.Genres, genreOption{ID: g.ID, Name: g.Name})
	}
	for _, l := range languages {
		if strings.TrimSpace(l.Name) == "" {
			continue
		}
		resp.Languages = append(resp.Languages, languageOption{Code: l.Code, Name: l.Name})
	}
	for _, p := range providers {
		resp.Providers = append(resp.Providers, providerOption{
			ID:      p.ID,
			Name:    p.Name,
			LogoURL: h.images.URL(p.LogoPath, images.Logo, images.Medium),
		})
	}

	writeJSON(w, http.StatusOK, resp)
	return nil
}

type movieSuggestion struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Year      string `json:"year"`
	PosterURL string `json:"posterUrl"`
}

type personSuggestion struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	ProfileURL string `json:"profileUrl"`
}

func (h *Handler) getSearchMovies(w http.ResponseWriter, r *http.Request) error {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		return badRequest("q is required")
	}

	movies, err := h.tmdb.SearchMovies(r.Context(), query)
	if err != nil {
		return badGateway(retryMessage)
	}

	results := make([]movieSuggestion, 0, len(movies))
	for _, m := range movies {
		results = append(results, movieSuggestion{
			ID:        m.ID,
			Title:     m.Title,
			Year:      tmdb.YearFromDate(m.ReleaseDate),
			PosterURL: h.images.URL(m.PosterPath, images.Poster, images.Small),
		})
	}
	writeJSON(w, http.StatusOK, map[string][]movieSuggestion{"results": results})
	return nil
}

func (h *Handler) getSearchPeople(w http.ResponseWriter, r *http.Request) error {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		return badRequest("q is required")
	}

	people, err := h.tmdb.SearchPeople(r.Context(), query)
	if err != nil {
		return badGateway(retryMessage)
	}

	results := make([]personSuggestion, 0, len(people))
	for _, p := range people {
		results = append(results, personSuggestion{
			ID:         p.ID,
			Name:       p.Name,
			ProfileURL: h.images.URL(p.ProfilePath, images.Profile, images.Small),
		})
	}
	writeJSON(w, http.StatusOK, map[string][]personSuggestion{"results": results})
	return nil
}
