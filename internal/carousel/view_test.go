package carousel

import "testing"

func TestRender_Empty(t *testing.T) {
	v := Render(Initialize(nil))
	if !v.Empty {
		t.Fatal("expected empty view")
	}
	if len(v.Slots) != 0 || len(v.Indicators) != 0 {
		t.Fatalf("empty view carries slots or indicators: %+v", v)
	}
}

func TestRender_RanksFollowInputOrder(t *testing.T) {
	items := []Item{
		{ID: 1, Title: "First", VoteAverage: 8.5, ReleaseDate: "1999-03-31"},
		{ID: 2, Title: "Second", VoteAverage: 8.2, ReleaseDate: "2001-05-01"},
		{ID: 3, Title: "Third", VoteAverage: 8.2, ReleaseDate: "2008-07-18"},
		{ID: 4, Title: "Fourth", VoteAverage: 8.0, ReleaseDate: "2014-11-05"},
	}
	s := Initialize(items)
	if s.ActiveIndex != 0 {
		t.Fatalf("expected item 1 front-facing, active index %d", s.ActiveIndex)
	}

	// Navigating must not renumber the badges: rank stays the position
	// in the original result ordering.
	s = s.Advance(Forward).Advance(Forward)
	v := Render(s)
	for i, slot := range v.Slots {
		if slot.Rank != i+1 {
			t.Errorf("slot %d: rank %d", i, slot.Rank)
		}
		if slot.Angle != i*90 {
			t.Errorf("slot %d: angle %d", i, slot.Angle)
		}
	}
	if v.Slots[0].Title != "First" {
		t.Fatalf("slot order changed: %q", v.Slots[0].Title)
	}
}

func TestRender_ExactlyOneActiveIndicator(t *testing.T) {
	s := Initialize(itemsN(4))
	for step := 0; step < 6; step++ {
		v := Render(s)
		active := 0
		for i, on := range v.Indicators {
			if on {
				active++
				if i != s.ActiveIndex {
					t.Errorf("step %d: indicator %d active, index is %d", step, i, s.ActiveIndex)
				}
			}
		}
		if active != 1 {
			t.Errorf("step %d: %d active indicators", step, active)
		}
		s = s.Advance(Forward)
	}
}

func TestRender_Fallbacks(t *testing.T) {
	s := Initialize([]Item{{ID: 1, Title: "Bare", VoteAverage: 7.25}})
	v := Render(s)
	slot := v.Slots[0]

	if slot.Rating != "7.2" {
		t.Errorf("rating: got %q", slot.Rating)
	}
	if slot.Year != "unknown" {
		t.Errorf("year fallback: got %q", slot.Year)
	}
	if slot.Overview != "No synopsis available." {
		t.Errorf("overview fallback: got %q", slot.Overview)
	}
	if slot.Providers != nil {
		t.Errorf("expected no provider badges, got %v", slot.Providers)
	}
}

func TestRender_YearFromReleaseDate(t *testing.T) {
	s := Initialize([]Item{{ID: 1, Title: "Dated", ReleaseDate: "1994-09-23"}})
	if got := Render(s).Slots[0].Year; got != "1994" {
		t.Fatalf("year: got %q", got)
	}
}

func TestBadgeProviders_PriorityOrder(t *testing.T) {
	flatrate := []Provider{{Name: "SubA"}, {Name: "SubB"}}
	rent := []Provider{{Name: "RentA"}}
	buy := []Provider{{Name: "BuyA"}, {Name: "BuyB"}, {Name: "BuyC"}, {Name: "BuyD"}, {Name: "BuyE"}}

	cases := []struct {
		name string
		av   *Availability
		want []string
	}{
		{"nil availability", nil, nil},
		{"subscription wins", &Availability{Flatrate: flatrate, Rent: rent, Buy: buy}, []string{"SubA", "SubB"}},
		{"rental when no subscription", &Availability{Rent: rent, Buy: buy}, []string{"RentA"}},
		{"purchase capped at three in input order", &Availability{Buy: buy}, []string{"BuyA", "BuyB", "BuyC"}},
		{"all tiers empty", &Availability{}, nil},
	}
	for _, tc := range cases {
		got := badgeProviders(tc.av)
		if len(got) != len(tc.want) {
			t.Errorf("%s: got %d providers, want %d", tc.name, len(got), len(tc.want))
			continue
		}
		for i := range tc.want {
			if got[i].Name != tc.want[i] {
				t.Errorf("%s: provider %d = %q, want %q", tc.name, i, got[i].Name, tc.want[i])
			}
		}
	}
}
