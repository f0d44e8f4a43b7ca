package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/Jean-Jawed/4Films/internal/carousel"
	"github.com/Jean-Jawed/4Films/internal/logger"
	"github.com/Jean-Jawed/4Films/internal/tmdb"
)

// retryMessage is the generic user-facing message for catalog failures.
const retryMessage = "The movie catalog is unavailable right now. Please try again."

type noticeSeverity string

const (
	severityInfo    noticeSeverity = "info"
	severityWarning noticeSeverity = "warning"
)

type notice struct {
	Severity noticeSeverity `json:"severity"`
	Message  string         `json:"message"`
}

type carouselResponse struct {
	View   carousel.View `json:"view"`
	Notice *notice       `json:"notice,omitempty"`
}

type discoverRequest struct {
	GenreID    int    `json:"genreId,omitempty"`
	Year       int    `json:"year,omitempty"`
	Language   string `json:"language,omitempty"`
	ProviderID int    `json:"providerId,omitempty"`
	PersonID   int64  `json:"personId,omitempty"`
}

type similarRequest struct {
	MovieID int64 `json:"movieId"`
}

type advanceRequest struct {
	Direction string `json:"direction"`
}

type jumpRequest struct {
	Index int `json:"index"`
}

type gestureRequest struct {
	Kind    string  `json:"kind"`
	Origin  float64 `json:"origin"`
	Current float64 `json:"current"`
}

func (h *Handler) postCarouselDiscover(w http.ResponseWriter, r *http.Request) error {
	var req discoverRequest
	if err := decodeJSON(r, &req); err != nil {
		return badRequest("bad request")
	}

	filters := tmdb.DiscoverFilters{
		GenreID:    req.GenreID,
		Year:       req.Year,
		Language:   req.Language,
		ProviderID: req.ProviderID,
		PersonID:   req.PersonID,
	}
	if filters.IsEmpty() {
		return badRequest("at least one filter is required")
	}

	return h.populate(w, r, func(ctx context.Context) ([]tmdb.Movie, error) {
		return h.tmdb.DiscoverTop(ctx, filters)
	})
}

func (h *Handler) postCarouselSimilar(w http.ResponseWriter, r *http.Request) error {
	var req similarRequest
	if err := decodeJSON(r, &req); err != nil {
		return badRequest("bad request")
	}
	if req.MovieID <= 0 {
		return badRequest("movieId is required")
	}

	return h.populate(w, r, func(ctx context.Context) ([]tmdb.Movie, error) {
		return h.tmdb.Recommendations(ctx, req.MovieID)
	})
}

// populate runs one fetch-and-initialize cycle: the fetch is tagged with
// a sequence number at dispatch, and its result is applied only if no
// newer fetch was dispatched for the session in the meantime.
func (h *Handler) populate(w http.ResponseWriter, r *http.Request, fetch func(context.Context) ([]tmdb.Movie, error)) error {
	ctx := r.Context()
	token := sessionToken(w, r)

	seq, err := h.store.BeginFetch(ctx, token)
	if err != nil {
		return err
	}

	movies, err := fetch(ctx)
	if err != nil {
		slog.Error("catalog fetch failed", logger.Error(err))
		return badGateway(retryMessage)
	}

	items := h.withAvailability(ctx, movies)
	state := carousel.Initialize(items)

	applied, err := h.store.CompleteFetch(ctx, token, seq, state)
	if err != nil {
		return err
	}
	if !applied {
		// A newer fetch won; respond with whatever it produced.
		current, err := h.store.State(ctx, token)
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, &carouselResponse{View: carousel.Render(current)})
		return nil
	}

	writeJSON(w, http.StatusOK, &carouselResponse{
		View:   carousel.Render(state),
		Notice: resultNotice(len(items)),
	})
	return nil
}

func resultNotice(count int) *notice {
	switch {
	case count == 0:
		return &notice{Severity: severityInfo, Message: "No movies match your search."}
	case count < carousel.MaxItems:
		return &notice{
			Severity: severityWarning,
			Message:  fmt.Sprintf("Only %d matching titles were found.", count),
		}
	}
	return nil
}

// withAvailability looks up streaming availability for each movie
// concurrently. A failed lookup only costs that movie its badges.
func (h *Handler) withAvailability(ctx context.Context, movies []tmdb.Movie) []carousel.Item {
	items := make([]carousel.Item, len(movies))
	g, ctx := errgroup.WithContext(ctx)
	for i, m := range movies {
		i, m := i, m
		items[i] = carousel.Item{
			ID:          m.ID,
			Title:       m.Title,
			VoteAverage: m.VoteAverage,
			ReleaseDate: m.ReleaseDate,
			Overview:    m.Overview,
			PosterPath:  m.PosterPath,
		}
		g.Go(func() error {
			av, err := h.tmdb.WatchProviders(ctx, m.ID)
			if err != nil {
				slog.Warn("availability lookup failed",
					slog.Int64("movie_id", m.ID), logger.Error(err))
				return nil
			}
			if converted := convertAvailability(av); converted != nil {
				items[i].Availability = converted
			}
			return nil
		})
	}
	// Lookups never report errors; failures degrade to missing badges.
	_ = g.Wait()
	return items
}

func convertAvailability(av tmdb.Availability) *carousel.Availability {
	if len(av.Flatrate) == 0 && len(av.Rent) == 0 && len(av.Buy) == 0 {
		return nil
	}
	return &carousel.Availability{
		Flatrate: convertProviders(av.Flatrate),
		Rent:     convertProviders(av.Rent),
		Buy:      convertProviders(av.Buy),
	}
}

func convertProviders(in []tmdb.Provider) []carousel.Provider {
	if len(in) == 0 {
		return nil
	}
	out := make([]carousel.Provider, 0, len(in))
	for _, p := range in {
		out = append(out, carousel.Provider{Name: p.Name, LogoPath: p.LogoPath})
	}
	return out
}

func (h *Handler) getCarousel(w http.ResponseWriter, r *http.Request) error {
	token := sessionToken(w, r)
	state, err := h.store.State(r.Context(), token)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, &carouselResponse{View: carousel.Render(state)})
	return nil
}

func (h *Handler) postCarouselAdvance(w http.ResponseWriter, r *http.Request) error {
	var req advanceRequest
	if err := decodeJSON(r, &req); err != nil {
		return badRequest("bad request")
	}

	var direction carousel.Direction
	switch req.Direction {
	case "next":
		direction = carousel.Forward
	case "prev":
		direction = carousel.Backward
	default:
		return badRequest("direction must be next or prev")
	}

	return h.mutate(w, r, func(s carousel.State) (carousel.State, error) {
		return s.Advance(direction), nil
	})
}

func (h *Handler) postCarouselJump(w http.ResponseWriter, r *http.Request) error {
	var req jumpRequest
	if err := decodeJSON(r, &req); err != nil {
		return badRequest("bad request")
	}

	return h.mutate(w, r, func(s carousel.State) (carousel.State, error) {
		next, err := s.JumpTo(req.Index)
		if err != nil {
			return s, badRequest(err.Error())
		}
		return next, nil
	})
}

func (h *Handler) postCarouselGesture(w http.ResponseWriter, r *http.Request) error {
	var req gestureRequest
	if err := decodeJSON(r, &req); err != nil {
		return badRequest("bad request")
	}

	var kind carousel.PointerKind
	switch req.Kind {
	case "touch":
		kind = carousel.Touch
	case "mouse":
		kind = carousel.Mouse
	default:
		return badRequest("kind must be touch or mouse")
	}

	return h.mutate(w, r, func(s carousel.State) (carousel.State, error) {
		g := carousel.Begin(kind, req.Origin)
		g = g.Move(req.Current)
		intent, _ := g.End()
		return s.Apply(intent), nil
	})
}

func (h *Handler) postCarouselReset(w http.ResponseWriter, r *http.Request) error {
	return h.mutate(w, r, func(s carousel.State) (carousel.State, error) {
		return s.Reset(), nil
	})
}

// mutate loads the session's state, applies one navigation intent and
// stores the successor before rendering it.
func (h *Handler) mutate(w http.ResponseWriter, r *http.Request, op func(carousel.State) (carousel.State, error)) error {
	ctx := r.Context()
	token := sessionToken(w, r)

	state, err := h.store.State(ctx, token)
	if err != nil {
		return err
	}

	next, err := op(state)
	if err != nil {
		return err
	}

	if err := h.store.SetState(ctx, token, next); err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, &carouselResponse{View: carousel.Render(next)})
	return nil
}
