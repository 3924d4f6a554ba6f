package media_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/verte-zerg/phonicpal/internal/media"
	"github.com/verte-zerg/phonicpal/internal/media/mock"
)

func TestCacheKey(t *testing.T) {
	cases := map[string]string{
		"Cat":               "img_cat",
		"  Ice Cream  ":     "img_ice_cream",
		"Hot\tAir  Balloon": "img_hot_air_balloon",
	}
	for in, want := range cases {
		if got := media.CacheKey(in); got != want {
			t.Fatalf("CacheKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestImagePrompt(t *testing.T) {
	if p := media.ImagePrompt("Skeleton", "Bones."); !strings.Contains(p, "dancing cartoon skeleton") {
		t.Fatalf("expected curated scene, got %q", p)
	}
	p := media.ImagePrompt("Kite", "A toy that flies.")
	if !strings.HasPrefix(p, "A cute and happy cartoon version of kite. A toy that flies.") {
		t.Fatalf("unexpected default prompt %q", p)
	}
	if !strings.Contains(p, "picture book") {
		t.Fatalf("missing style block: %q", p)
	}
}

func TestSpokenFeedback(t *testing.T) {
	if got := media.SpokenFeedback("Great job", "Open wide"); got != "Great job. Open wide" {
		t.Fatalf("got %q", got)
	}
	if got := media.SpokenFeedback("Great job", ""); got != "Great job" {
		t.Fatalf("got %q", got)
	}
}

func TestCachedServiceUsesLayers(t *testing.T) {
	svc := &mock.Service{IllustrateResult: []byte("png")}
	cache := &mock.Cache{}
	cached, err := media.NewCachedService(svc, cache)
	if err != nil {
		t.Fatalf("new cached service: %v", err)
	}
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		img, err := cached.Illustrate(ctx, "Cat", "pet")
		if err != nil || string(img) != "png" {
			t.Fatalf("illustrate: %q %v", img, err)
		}
	}
	if n, _, _ := svc.CallCounts(); n != 1 {
		t.Fatalf("expected one remote fetch, got %d", n)
	}
	if v, ok, _ := cache.Get(ctx, "img_cat"); !ok || string(v) != "png" {
		t.Fatalf("expected persisted image")
	}

	// A fresh decorator over the same store hits the persistent layer.
	again, _ := media.NewCachedService(svc, cache)
	if _, err := again.Illustrate(ctx, "cat", "pet"); err != nil {
		t.Fatalf("illustrate: %v", err)
	}
	if n, _, _ := svc.CallCounts(); n != 1 {
		t.Fatalf("expected cache hit, got %d fetches", n)
	}
}

func TestCachedServiceEvictsAndRetries(t *testing.T) {
	svc := &mock.Service{IllustrateResult: []byte("png")}
	cache := &mock.Cache{MaxEntries: 1}
	cached, _ := media.NewCachedService(svc, cache)
	ctx := context.Background()
	if _, err := cached.Illustrate(ctx, "cat", ""); err != nil {
		t.Fatalf("illustrate: %v", err)
	}
	if _, err := cached.Illustrate(ctx, "dog", ""); err != nil {
		t.Fatalf("illustrate: %v", err)
	}
	if cache.CallCountEvict != 1 {
		t.Fatalf("expected one eviction, got %d", cache.CallCountEvict)
	}
	if _, ok, _ := cache.Get(ctx, "img_dog"); !ok {
		t.Fatalf("expected retried write to succeed")
	}
	if _, ok, _ := cache.Get(ctx, "img_cat"); ok {
		t.Fatalf("expected old entry evicted")
	}
}

func TestCachedServiceIgnoresWriteFailure(t *testing.T) {
	svc := &mock.Service{IllustrateResult: []byte("png")}
	cache := &mock.Cache{SetErr: media.ErrCacheFull}
	cached, _ := media.NewCachedService(svc, cache)
	img, err := cached.Illustrate(context.Background(), "cat", "")
	if err != nil || string(img) != "png" {
		t.Fatalf("expected image despite cache failure: %q %v", img, err)
	}
	if cache.CallCountSet != 2 {
		t.Fatalf("expected write and one retry, got %d", cache.CallCountSet)
	}
}

func TestCachedServicePropagatesFetchFailure(t *testing.T) {
	svc := &mock.Service{IllustrateErr: media.ErrIllustration}
	cached, _ := media.NewCachedService(svc, nil)
	if _, err := cached.Illustrate(context.Background(), "cat", ""); !errors.Is(err, media.ErrIllustration) {
		t.Fatalf("expected ErrIllustration, got %v", err)
	}
}

func TestCachedServiceConcurrentFetches(t *testing.T) {
	svc := &mock.Service{IllustrateResult: []byte("png")}
	cached, _ := media.NewCachedService(svc, &mock.Cache{})
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cached.Illustrate(context.Background(), "owl", ""); err != nil {
				t.Errorf("illustrate: %v", err)
			}
		}()
	}
	wg.Wait()
	if n, _, _ := svc.CallCounts(); n < 1 || n > 8 {
		t.Fatalf("unexpected fetch count %d", n)
	}
}

func TestCachedServiceFetchOutlivesCancelledCaller(t *testing.T) {
	gate := make(chan struct{})
	svc := &mock.Service{IllustrateResult: []byte("png"), IllustrateGate: gate}
	cached, _ := media.NewCachedService(svc, &mock.Cache{})

	first, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := cached.Illustrate(first, "owl", "")
		firstErr <- err
	}()
	waitFor(t, func() bool {
		n, _, _ := svc.CallCounts()
		return n == 1
	})

	type result struct {
		img []byte
		err error
	}
	second := make(chan result, 1)
	go func() {
		img, err := cached.Illustrate(context.Background(), "owl", "")
		second <- result{img, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancelled caller to see context.Canceled, got %v", err)
	}
	close(gate)

	res := <-second
	if res.err != nil {
		t.Fatalf("joined caller failed: %v", res.err)
	}
	if string(res.img) != "png" {
		t.Fatalf("unexpected image %q", res.img)
	}
	if n, _, _ := svc.CallCounts(); n != 1 {
		t.Fatalf("expected one shared fetch, got %d", n)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(time.Millisecond)
	}
}
