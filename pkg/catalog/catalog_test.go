package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"tableflip.dev/critterdex/pkg/creature"
)

const fishJSON = `[
  {"name":"bitterling","number":1,"location":"River","shadow_size":"Smallest",
   "north":{"months":"Nov – Mar","months_array":[11,12,1,2,3],"times_by_month":{"1":"All day","2":"All day","3":"All day","11":"All day","12":"All day"}},
   "south":{"months":"May – Sep","months_array":[5,6,7,8,9],"times_by_month":{"5":"All day","6":"All day","7":"All day","8":"All day","9":"All day"}}},
  {"name":"pale chub","number":2,"location":"River","shadow_size":"Smallest",
   "north":{"months":"All year","months_array":[1,2,3,4,5,6,7,8,9,10,11,12],"times_by_month":{"1":"9 AM – 4 PM"}},
   "south":{"months":"All year","months_array":[1,2,3,4,5,6,7,8,9,10,11,12],"times_by_month":{"1":"9 AM – 4 PM"}}},
  {"name":"crucian carp","number":3,"location":"River","shadow_size":"Small",
   "north":{"months":"All year","months_array":[1,2,3,4,5,6,7,8,9,10,11,12],"times_by_month":{}},
   "south":{"months":"All year","months_array":[1,2,3,4,5,6,7,8,9,10,11,12],"times_by_month":{}}},
  {"name":"carp","number":5,"location":"Pond","shadow_size":"Large",
   "north":{"months":"All year","months_array":[1,2,3,4,5,6,7,8,9,10,11,12],"times_by_month":{}},
   "south":{"months":"All year","months_array":[1,2,3,4,5,6,7,8,9,10,11,12],"times_by_month":{}}}
]`

func newServer(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		if r.Header.Get("X-API-KEY") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Path != "/nh/fish" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(fishJSON))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPSourceFetch(t *testing.T) {
	var hits int32
	srv := newServer(t, &hits)

	list, err := NewHTTPSource(srv.URL+"/", "secret").Fetch(context.Background(), creature.Fish)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(list) != 4 || list[0].Name != "bitterling" {
		t.Fatalf("unexpected catalog %+v", list)
	}
}

func TestHTTPSourceStatusIsNetworkError(t *testing.T) {
	var hits int32
	srv := newServer(t, &hits)

	_, err := NewHTTPSource(srv.URL, "wrong").Fetch(context.Background(), creature.Fish)
	var ne *NetworkError
	if !errors.As(err, &ne) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
	if ne.Status != http.StatusUnauthorized || ne.Kind != creature.Fish {
		t.Fatalf("unexpected error %+v", ne)
	}
}

func TestHTTPSourceTransportIsNetworkError(t *testing.T) {
	var hits int32
	srv := newServer(t, &hits)
	url := srv.URL
	srv.Close()

	_, err := NewHTTPSource(url, "secret").Fetch(context.Background(), creature.Bug)
	var ne *NetworkError
	if !errors.As(err, &ne) || ne.Err == nil {
		t.Fatalf("expected transport NetworkError, got %v", err)
	}
}

func TestCachedFetchesOncePerSession(t *testing.T) {
	var hits int32
	srv := newServer(t, &hits)
	dir := t.TempDir()
	ctx := context.Background()

	c := NewCached(NewHTTPSource(srv.URL, "secret"), dir)
	for i := 0; i < 3; i++ {
		if _, err := c.Fetch(ctx, creature.Fish); err != nil {
			t.Fatalf("fetch %d: %v", i, err)
		}
	}
	if atomic.LoadInt32(&hits) != 1 {
		t.Fatalf("expected one upstream request, got %d", hits)
	}
	if _, err := os.Stat(filepath.Join(dir, creature.Fish.CacheKey())); err != nil {
		t.Fatalf("expected durable cache entry: %v", err)
	}

	// A new session with the durable cache present does not hit the network.
	again := NewCached(NewHTTPSource(srv.URL, "secret"), dir)
	list, err := again.Fetch(ctx, creature.Fish)
	if err != nil {
		t.Fatalf("cached fetch: %v", err)
	}
	if atomic.LoadInt32(&hits) != 1 || len(list) != 4 {
		t.Fatalf("expected cache hit, hits=%d len=%d", hits, len(list))
	}

	if _, err := again.Refresh(ctx, creature.Fish); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if atomic.LoadInt32(&hits) != 2 {
		t.Fatalf("refresh should hit upstream, got %d", hits)
	}

	if err := again.Clear(creature.Fish); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := again.Fetch(ctx, creature.Fish); err != nil {
		t.Fatalf("fetch after clear: %v", err)
	}
	if atomic.LoadInt32(&hits) != 3 {
		t.Fatalf("fetch after clear should hit upstream, got %d", hits)
	}
}

func TestCachedSurfacesFailures(t *testing.T) {
	var hits int32
	srv := newServer(t, &hits)
	c := NewCached(NewHTTPSource(srv.URL, "secret"), t.TempDir())
	_, err := c.Fetch(context.Background(), creature.SeaCreature)
	var ne *NetworkError
	if !errors.As(err, &ne) || ne.Status != http.StatusNotFound {
		t.Fatalf("expected 404 NetworkError, got %v", err)
	}
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	src := FileSource{Dir: dir}
	if err := os.WriteFile(src.Path(creature.Fish), []byte(fishJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	cat, err := Load(context.Background(), src, creature.Fish)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cat.Items) != 4 {
		t.Fatalf("expected 4 items, got %d", len(cat.Items))
	}
	if _, err := src.Fetch(context.Background(), creature.Bug); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestFind(t *testing.T) {
	items, err := creature.Decode([]byte(fishJSON))
	if err != nil {
		t.Fatal(err)
	}
	cat := New(creature.Fish, items)

	tests := []struct {
		query string
		want  int
	}{
		{"2", 2},
		{"Pale Chub", 2},
		{"  pale   chub ", 2},
		{"bitter", 1},
		{"crucian", 3},
		{"bitterlin", 1},
		{"crucain carp", 3},
		{"carp", 5},
	}
	for _, tc := range tests {
		got, err := cat.Find(tc.query)
		if err != nil {
			t.Fatalf("Find(%q): %v", tc.query, err)
		}
		if got.Number != tc.want {
			t.Fatalf("Find(%q) = #%d want #%d", tc.query, got.Number, tc.want)
		}
	}

	for _, bad := range []string{"", "99", "shark", "c"} {
		if _, err := cat.Find(bad); err == nil {
			t.Fatalf("Find(%q) should fail", bad)
		}
	}
}
