package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{
		BaseURL:   srv.URL,
		ReadToken: "test-token",
		Language:  "en-US",
		Region:    "US",
	})
}

func writeMovies(w http.ResponseWriter, n int) {
	movies := make([]Movie, n)
	for i := range movies {
		movies[i] = Movie{ID: int64(i + 1), Title: fmt.Sprintf("Movie %d", i+1)}
	}
	json.NewEncoder(w).Encode(movieListResponse{Results: movies})
}

func TestDiscoverTop_QueryParameters(t *testing.T) {
	var gotQuery map[string]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/discover/movie" {
			t.Errorf("path: %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-token" {
			t.Errorf("authorization: %q", auth)
		}
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		writeMovies(w, 2)
	})

	_, err := client.DiscoverTop(context.Background(), DiscoverFilters{
		GenreID:    28,
		Year:       1999,
		Language:   "fr",
		ProviderID: 8,
		PersonID:   6384,
	})
	if err != nil {
		t.Fatal(err)
	}

	want := map[string]string{
		"sort_by":                "vote_average.desc",
		"vote_count.gte":         "100",
		"include_adult":          "false",
		"with_genres":            "28",
		"primary_release_year":   "1999",
		"with_original_language": "fr",
		"with_watch_providers":   "8",
		"watch_region":           "US",
		"with_cast":              "6384",
		"language":               "en-US",
	}
	for k, v := range want {
		if gotQuery[k] != v {
			t.Errorf("param %s: got %q, want %q", k, gotQuery[k], v)
		}
	}
}

func TestDiscoverTop_CapsAtFour(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeMovies(w, 20)
	})
	movies, err := client.DiscoverTop(context.Background(), DiscoverFilters{GenreID: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(movies) != DiscoverLimit {
		t.Fatalf("got %d movies, want %d", len(movies), DiscoverLimit)
	}
	if movies[0].ID != 1 || movies[3].ID != 4 {
		t.Fatalf("cap changed ordering: %+v", movies)
	}
}

func TestRecommendations_PathAndCap(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/603/recommendations" {
			t.Errorf("path: %s", r.URL.Path)
		}
		writeMovies(w, 6)
	})
	movies, err := client.Recommendations(context.Background(), 603)
	if err != nil {
		t.Fatal(err)
	}
	if len(movies) != DiscoverLimit {
		t.Fatalf("got %d movies, want %d", len(movies), DiscoverLimit)
	}
}

func TestSearchMovies_CapsAtTen(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/movie" {
			t.Errorf("path: %s", r.URL.Path)
		}
		if q := r.URL.Query().Get("query"); q != "matrix" {
			t.Errorf("query: %q", q)
		}
		writeMovies(w, 20)
	})
	movies, err := client.SearchMovies(context.Background(), "matrix")
	if err != nil {
		t.Fatal(err)
	}
	if len(movies) != SearchLimit {
		t.Fatalf("got %d movies, want %d", len(movies), SearchLimit)
	}
}

func TestSearchMovies_EmptyQuery(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for an empty query")
	})
	movies, err := client.SearchMovies(context.Background(), "   ")
	if err != nil {
		t.Fatal(err)
	}
	if movies != nil {
		t.Fatalf("expected nil, got %v", movies)
	}
}

func TestWatchProviders_RegionBreakdown(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/550/watch/providers" {
			t.Errorf("path: %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"results":{
			"US":{"flatrate":[{"provider_name":"StreamCo","logo_path":"/s.png"}],
			      "buy":[{"provider_name":"BuyCo","logo_path":"/b.png"}]},
			"FR":{"rent":[{"provider_name":"LoueurTV","logo_path":"/l.png"}]}
		}}`)
	})
	av, err := client.WatchProviders(context.Background(), 550)
	if err != nil {
		t.Fatal(err)
	}
	if len(av.Flatrate) != 1 || av.Flatrate[0].Name != "StreamCo" {
		t.Fatalf("flatrate: %+v", av.Flatrate)
	}
	if len(av.Buy) != 1 || len(av.Rent) != 0 {
		t.Fatalf("unexpected breakdown: %+v", av)
	}
}

func TestWatchProviders_NoRegionListing(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results":{}}`)
	})
	av, err := client.WatchProviders(context.Background(), 550)
	if err != nil {
		t.Fatal(err)
	}
	if len(av.Flatrate)+len(av.Rent)+len(av.Buy) != 0 {
		t.Fatalf("expected empty availability, got %+v", av)
	}
}

func TestGet_ErrorStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"status_message":"nope"}`, http.StatusUnauthorized)
	})
	if _, err := client.DiscoverTop(context.Background(), DiscoverFilters{GenreID: 1}); err == nil {
		t.Fatal("expected error for 401 response")
	}
}

func TestYearFromDate(t *testing.T) {
	cases := map[string]string{
		"1999-03-31": "1999",
		"":           "",
		"19":         "",
	}
	for in, want := range cases {
		if got := YearFromDate(in); got != want {
			t.Errorf("YearFromDate(%q) = %q, want %q", in, got, want)
		}
	}
}
