package nav

import (
	"errors"
	"testing"

	"github.com/verte-zerg/phonicpal/internal/catalog"
	"github.com/verte-zerg/phonicpal/internal/deck"
	"github.com/verte-zerg/phonicpal/internal/model"
)

func newController() *Controller {
	cat := catalog.New([]model.WordEntry{
		{Word: "cat", Definition: "d", Level: model.Preschool, Topic: model.NatureAnimals},
		{Word: "dog", Definition: "d", Level: model.Preschool, Topic: model.NatureAnimals},
		{Word: "moon", Definition: "d", Level: model.Grade1, Topic: model.ScienceSpace},
	})
	return New(cat, deck.NewWithSeed(1), deck.BuildReview)
}

func mustOK(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHappyPath(t *testing.T) {
	c := newController()
	if c.Screen() != Landing {
		t.Fatalf("expected landing, got %s", c.Screen())
	}
	mustOK(t, c.Open())
	mustOK(t, c.SelectAge(model.Preschool))
	mustOK(t, c.SelectTopic(model.NatureAnimals))
	if c.Screen() != PreGame || len(c.Deck()) != 2 {
		t.Fatalf("expected pre-game with 2 words, got %s %d", c.Screen(), len(c.Deck()))
	}
	if c.TotalPossibleStars() != 6 {
		t.Fatalf("unexpected total stars %v", c.TotalPossibleStars())
	}
	mustOK(t, c.Start())
	mustOK(t, c.Finish(4, []model.WordEntry{{Word: "dog"}}))
	if c.Screen() != Finish || c.Stars() != 4 || len(c.Struggled()) != 1 {
		t.Fatalf("unexpected finish state")
	}
}

func TestReviewResetsRound(t *testing.T) {
	c := newController()
	mustOK(t, c.Open())
	mustOK(t, c.SelectAge(model.Preschool))
	mustOK(t, c.SelectTopic(model.NatureAnimals))
	mustOK(t, c.Start())
	mustOK(t, c.Finish(4, []model.WordEntry{{Word: "dog"}}))
	mustOK(t, c.Review())
	if c.Screen() != PreGame || !c.IsReview() {
		t.Fatalf("expected review pre-game")
	}
	d := c.Deck()
	if len(d) != 1 || d[0].Word != "dog" {
		t.Fatalf("unexpected review deck %+v", d)
	}
	if c.Stars() != 0 || len(c.Struggled()) != 0 {
		t.Fatalf("expected results reset")
	}
	if c.TotalPossibleStars() != 3 {
		t.Fatalf("unexpected total %v", c.TotalPossibleStars())
	}
}

func TestReviewWithoutStruggles(t *testing.T) {
	c := newController()
	mustOK(t, c.Open())
	mustOK(t, c.SelectAge(model.Preschool))
	mustOK(t, c.SelectTopic(model.NatureAnimals))
	mustOK(t, c.Start())
	mustOK(t, c.Finish(6, nil))
	if err := c.Review(); !errors.Is(err, ErrNothingToReview) || c.Screen() != Finish {
		t.Fatalf("expected ErrNothingToReview on finish, got %v %s", err, c.Screen())
	}
	mustOK(t, c.Restart())
	if c.Screen() != TopicSelection || c.Age() != model.Preschool {
		t.Fatalf("expected topic selection keeping age")
	}
}

func TestEmptyDeckBlocksStart(t *testing.T) {
	c := newController()
	mustOK(t, c.Open())
	mustOK(t, c.SelectAge(model.Grade6))
	mustOK(t, c.SelectTopic(model.DailyLife))
	if err := c.Start(); !errors.Is(err, ErrEmptyDeck) {
		t.Fatalf("expected ErrEmptyDeck, got %v", err)
	}
	if c.Screen() != PreGame {
		t.Fatalf("screen changed on rejected start")
	}
}

func TestInvalidTransitions(t *testing.T) {
	c := newController()
	checks := []func() error{
		c.Start,
		c.Restart,
		c.Review,
		c.Back,
		func() error { return c.SelectAge(model.Grade1) },
		func() error { return c.SelectTopic(model.ArtsSports) },
		func() error { return c.Finish(1, nil) },
	}
	for i, fn := range checks {
		if err := fn(); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("check %d: expected ErrInvalidTransition, got %v", i, err)
		}
		if c.Screen() != Landing {
			t.Fatalf("check %d: screen changed to %s", i, c.Screen())
		}
	}
}

func TestBackChain(t *testing.T) {
	c := newController()
	mustOK(t, c.Open())
	mustOK(t, c.SelectAge(model.Grade1))
	mustOK(t, c.SelectTopic(model.ScienceSpace))
	for _, want := range []Screen{TopicSelection, AgeSelection, Landing} {
		mustOK(t, c.Back())
		if c.Screen() != want {
			t.Fatalf("expected %s, got %s", want, c.Screen())
		}
	}
}

func TestLoadDeck(t *testing.T) {
	c := newController()
	mustOK(t, c.LoadDeck(model.NatureAnimals, []model.WordEntry{{Word: "cat"}}))
	if c.Screen() != PreGame || len(c.Deck()) != 1 {
		t.Fatalf("expected loaded pre-game")
	}
	mustOK(t, c.Start())
	if err := c.LoadDeck(model.NatureAnimals, nil); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected load rejected during game, got %v", err)
	}
}

func TestLoadedDeckWithoutAgeReturnsToAgePicker(t *testing.T) {
	c := newController()
	mustOK(t, c.LoadDeck("", []model.WordEntry{{Word: "cat"}}))
	mustOK(t, c.Start())
	mustOK(t, c.Finish(1, nil))
	mustOK(t, c.Restart())
	if c.Screen() != AgeSelection {
		t.Fatalf("expected age selection after restart, got %s", c.Screen())
	}

	c = newController()
	mustOK(t, c.LoadDeck("", []model.WordEntry{{Word: "cat"}}))
	mustOK(t, c.Back())
	if c.Screen() != AgeSelection {
		t.Fatalf("expected age selection after back, got %s", c.Screen())
	}
}

func TestRestartKeepsChosenAge(t *testing.T) {
	c := newController()
	mustOK(t, c.Open())
	mustOK(t, c.SelectAge(model.Preschool))
	mustOK(t, c.LoadDeck(model.NatureAnimals, []model.WordEntry{{Word: "cat"}}))
	mustOK(t, c.Start())
	mustOK(t, c.Finish(3, nil))
	mustOK(t, c.Restart())
	if c.Screen() != TopicSelection {
		t.Fatalf("expected topic selection, got %s", c.Screen())
	}
}
