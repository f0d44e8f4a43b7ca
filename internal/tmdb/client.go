// Package tmdb wraps the TMDB API for discovering movies, searching
// titles and people, and fetching streaming availability.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	// DiscoverLimit bounds discovery and recommendation results.
	DiscoverLimit = 4
	// SearchLimit bounds title and person suggestion results.
	SearchLimit = 10

	// minVoteCount filters out movies with too few ratings for the
	// vote average to mean anything.
	minVoteCount = 100
)

type Client struct {
	baseURL   string
	readToken string
	language  string
	region    string
	http      *http.Client
}

type Config struct {
	BaseURL   string
	ReadToken string
	Language  string
	Region    string
}

func New(cfg Config) *Client {
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.themoviedb.org/3"
	}
	language := cfg.Language
	if language == "" {
		language = "en-US"
	}
	region := cfg.Region
	if region == "" {
		region = "US"
	}
	return &Client{
		baseURL:   baseURL,
		readToken: strings.TrimSpace(cfg.ReadToken),
		language:  language,
		region:    region,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Region returns the fixed watch region the client queries availability for.
func (c *Client) Region() string { return c.region }

type Movie struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int     `json:"vote_count"`
	ReleaseDate string  `json:"release_date"`
	Overview    string  `json:"overview"`
	PosterPath  string  `json:"poster_path"`
}

type Person struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	ProfilePath string `json:"profile_path"`
}

type Provider struct {
	Name     string `json:"provider_name"`
	LogoPath string `json:"logo_path"`
}

// Availability groups streaming providers by access mode for one region.
type Availability struct {
	Flatrate []Provider `json:"flatrate"`
	Rent     []Provider `json:"rent"`
	Buy      []Provider `json:"buy"`
}

type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Language struct {
	Code string `json:"iso_639_1"`
	Name string `json:"english_name"`
}

// DiscoverFilters are the optional criteria of the filter form. Zero
// values mean "not set".
type DiscoverFilters struct {
	GenreID    int
	Year       int
	Language   string
	ProviderID int
	PersonID   int64
}

func (f DiscoverFilters) IsEmpty() bool {
	return f.GenreID == 0 && f.Year == 0 && f.Language == "" && f.ProviderID == 0 && f.PersonID == 0
}

type movieListResponse struct {
	Results []Movie `json:"results"`
}

type personListResponse struct {
	Results []Person `json:"results"`
}

// DiscoverTop returns the highest-rated movies matching the filters,
// capped at DiscoverLimit. Adult content is excluded and a minimum
// vote-count floor keeps averages meaningful.
func (c *Client) DiscoverTop(ctx context.Context, filters DiscoverFilters) ([]Movie, error) {
	values := url.Values{}
	values.Set("sort_by", "vote_average.desc")
	values.Set("vote_count.gte", strconv.Itoa(minVoteCount))
	values.Set("include_adult", "false")
	if filters.GenreID != 0 {
		values.Set("with_genres", strconv.Itoa(filters.GenreID))
	}
	if filters.Year != 0 {
		values.Set("primary_release_year", strconv.Itoa(filters.Year))
	}
	if filters.Language != "" {
		values.Set("with_original_language", filters.Language)
	}
	if filters.ProviderID != 0 {
		values.Set("with_watch_providers", strconv.Itoa(filters.ProviderID))
		values.Set("watch_region", c.region)
	}
	if filters.PersonID != 0 {
		values.Set("with_cast", strconv.FormatInt(filters.PersonID, 10))
	}

	var payload movieListResponse
	if err := c.get(ctx, "/discover/movie", values, &payload); err != nil {
		return nil, err
	}
	return capMovies(payload.Results, DiscoverLimit), nil
}

// Recommendations returns movies similar to the reference movie, capped
// at DiscoverLimit.
func (c *Client) Recommendations(ctx context.Context, movieID int64) ([]Movie, error) {
	var payload movieListResponse
	path := fmt.Sprintf("/movie/%d/recommendations", movieID)
	if err := c.get(ctx, path, url.Values{}, &payload); err != nil {
		return nil, err
	}
	return capMovies(payload.Results, DiscoverLimit), nil
}

// SearchMovies returns up to SearchLimit title matches for the query.
func (c *Client) SearchMovies(ctx context.Context, query string) ([]Movie, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	values := url.Values{}
	values.Set("query", query)
	values.Set("include_adult", "false")

	var payload movieListResponse
	if err := c.get(ctx, "/search/movie", values, &payload); err != nil {
		return nil, err
	}
	return capMovies(payload.Results, SearchLimit), nil
}

// SearchPeople returns up to SearchLimit person matches for the query.
func (c *Client) SearchPeople(ctx context.Context, query string) ([]Person, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	values := url.Values{}
	values.Set("query", query)
	values.Set("include_adult", "false")

	var payload personListResponse
	if err := c.get(ctx, "/search/person", values, &payload); err != nil {
		return nil, err
	}
	if len(payload.Results) > SearchLimit {
		payload.Results = payload.Results[:SearchLimit]
	}
	return payload.Results, nil
}

// WatchProviders returns the streaming availability of a movie in the
// client's fixed region. A movie with no listing for the region yields
// a zero Availability, not an error.
func (c *Client) WatchProviders(ctx context.Context, movieID int64) (Availability, error) {
	var payload struct {
		Results map[string]Availability `json:"results"`
	}
	path := fmt.Sprintf("/movie/%d/watch/providers", movieID)
	if err := c.get(ctx, path, url.Values{}, &payload); err != nil {
		return Availability{}, err
	}
	return payload.Results[c.region], nil
}

// Genres returns the movie genre list for the filter form.
func (c *Client) Genres(ctx context.Context) ([]Genre, error) {
	var payload struct {
		Genres []Genre `json:"genres"`
	}
	if err := c.get(ctx, "/genre/movie/list", url.Values{}, &payload); err != nil {
		return nil, err
	}
	return payload.Genres, nil
}

// Languages returns the original-language options for the filter form.
func (c *Client) Languages(ctx context.Context) ([]Language, error) {
	var payload []Language
	if err := c.get(ctx, "/configuration/languages", url.Values{}, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// ProviderList returns the streaming platforms available in the client's
// region, for the filter form.
func (c *Client) ProviderList(ctx context.Context) ([]ProviderOption, error) {
	values := url.Values{}
	values.Set("watch_region", c.region)

	var payload struct {
		Results []ProviderOption `json:"results"`
	}
	if err := c.get(ctx, "/watch/providers/movie", values, &payload); err != nil {
		return nil, err
	}
	return payload.Results, nil
}

type ProviderOption struct {
	ID       int    `json:"provider_id"`
	Name     string `json:"provider_name"`
	LogoPath string `json:"logo_path"`
}

func (c *Client) get(ctx context.Context, path string, values url.Values, dst any) error {
	values.Set("language", c.language)
	endpoint := c.baseURL + path + "?" + values.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.readToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.readToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("tmdb request %s: %w", path, err)
	}
	if resp.StatusCode >= 400 {
		statusErr := fmt.Errorf("tmdb request %s failed: %s", path, resp.Status)
		if cerr := resp.Body.Close(); cerr != nil {
			return errors.Join(statusErr, cerr)
		}
		return statusErr
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		if cerr := resp.Body.Close(); cerr != nil {
			return errors.Join(err, cerr)
		}
		return fmt.Errorf("tmdb decode %s: %w", path, err)
	}
	return resp.Body.Close()
}

func capMovies(items []Movie, limit int) []Movie {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}

// YearFromDate extracts the release year from a yyyy-mm-dd date, or ""
// when the date is absent or malformed.
func YearFromDate(date string) string {
	if len(date) < 4 {
		return ""
	}
	return date[:4]
}
