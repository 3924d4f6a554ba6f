// Package nav sequences the application screens.
package nav

import (
	"errors"
	"fmt"

	"github.com/verte-zerg/phonicpal/internal/catalog"
	"github.com/verte-zerg/phonicpal/internal/model"
)

// Screen is a top-level screen.
type Screen int

// Screens in flow order.
const (
	Landing Screen = iota
	AgeSelection
	TopicSelection
	PreGame
	Game
	Finish
)

var screenNames = map[Screen]string{
	Landing:        "landing",
	AgeSelection:   "age-selection",
	TopicSelection: "topic-selection",
	PreGame:        "pre-game",
	Game:           "game",
	Finish:         "finish",
}

func (s Screen) String() string {
	if name, ok := screenNames[s]; ok {
		return name
	}
	return "unknown"
}

var (
	// ErrInvalidTransition is returned for events the current screen does not accept.
	ErrInvalidTransition = errors.New("nav: invalid transition")
	// ErrEmptyDeck is returned when starting a game without words.
	ErrEmptyDeck = errors.New("nav: deck is empty")
	// ErrNothingToReview is returned by Review when no word was struggled with.
	ErrNothingToReview = errors.New("nav: nothing to review")
)

// Event names a user action.
type Event string

// Events.
const (
	EventOpen        Event = "open"
	EventSelectAge   Event = "select-age"
	EventSelectTopic Event = "select-topic"
	EventStart       Event = "start"
	EventFinish      Event = "finish"
	EventReview      Event = "review"
	EventRestart     Event = "restart"
	EventBack        Event = "back"
	EventLoadDeck    Event = "load-deck"
)

type transitionKey struct {
	event Event
	from  Screen
}

// transitions maps (event, screen) to the next screen. load-deck is handled
// separately since it is valid from several screens.
var transitions = map[transitionKey]Screen{
	{EventOpen, Landing}:               AgeSelection,
	{EventSelectAge, AgeSelection}:     TopicSelection,
	{EventSelectTopic, TopicSelection}: PreGame,
	{EventStart, PreGame}:              Game,
	{EventFinish, Game}:                Finish,
	{EventReview, Finish}:              PreGame,
	{EventRestart, Finish}:             TopicSelection,
	{EventBack, AgeSelection}:          Landing,
	{EventBack, TopicSelection}:        AgeSelection,
	{EventBack, PreGame}:               TopicSelection,
}

// DeckBuilder builds decks for a selection.
type DeckBuilder interface {
	Build(cat catalog.Catalog, level model.AgeGroup, topic model.Topic) []model.WordEntry
}

// ReviewFunc builds a review deck from struggled words.
type ReviewFunc func(struggled []model.WordEntry) []model.WordEntry

// Controller holds cross-screen state.
type Controller struct {
	catalog catalog.Catalog
	builder DeckBuilder
	review  ReviewFunc

	screen    Screen
	age       model.AgeGroup
	topic     model.Topic
	deck      []model.WordEntry
	isReview  bool
	stars     float64
	struggled []model.WordEntry
}

// New returns a controller on the Landing screen.
func New(cat catalog.Catalog, builder DeckBuilder, review ReviewFunc) *Controller {
	return &Controller{catalog: cat, builder: builder, review: review, screen: Landing}
}

// Screen returns the current screen.
func (c *Controller) Screen() Screen { return c.screen }

// Age returns the selected age group.
func (c *Controller) Age() model.AgeGroup { return c.age }

// Topic returns the selected topic.
func (c *Controller) Topic() model.Topic { return c.topic }

// Deck returns a copy of the current deck.
func (c *Controller) Deck() []model.WordEntry {
	return append([]model.WordEntry(nil), c.deck...)
}

// IsReview reports whether the current deck is a review round.
func (c *Controller) IsReview() bool { return c.isReview }

// Stars returns the stars of the last finished session.
func (c *Controller) Stars() float64 { return c.stars }

// Struggled returns the struggled words of the last finished session.
func (c *Controller) Struggled() []model.WordEntry {
	return append([]model.WordEntry(nil), c.struggled...)
}

// Catalog returns the word catalog.
func (c *Controller) Catalog() catalog.Catalog { return c.catalog }

// TotalPossibleStars is the best score the current deck allows.
func (c *Controller) TotalPossibleStars() float64 {
	return 3 * float64(len(c.deck))
}

func (c *Controller) move(event Event) error {
	next, ok := transitions[transitionKey{event, c.screen}]
	if !ok {
		return fmt.Errorf("%w: %s on %s", ErrInvalidTransition, event, c.screen)
	}
	c.screen = next
	return nil
}

func (c *Controller) accepts(event Event) bool {
	_, ok := transitions[transitionKey{event, c.screen}]
	return ok
}

func (c *Controller) reject(event Event) error {
	return fmt.Errorf("%w: %s on %s", ErrInvalidTransition, event, c.screen)
}

// Open leaves the landing screen.
func (c *Controller) Open() error {
	return c.move(EventOpen)
}

// SelectAge records the age group and moves to the topic picker.
func (c *Controller) SelectAge(age model.AgeGroup) error {
	if !c.accepts(EventSelectAge) {
		return c.reject(EventSelectAge)
	}
	if !age.Valid() {
		return fmt.Errorf("nav: unknown age group %d", int(age))
	}
	c.age = age
	return c.move(EventSelectAge)
}

// SelectTopic records the topic, builds a fresh deck and clears old results.
func (c *Controller) SelectTopic(topic model.Topic) error {
	if !c.accepts(EventSelectTopic) {
		return c.reject(EventSelectTopic)
	}
	if !topic.Valid() {
		return fmt.Errorf("nav: unknown topic %q", topic)
	}
	c.topic = topic
	c.deck = c.builder.Build(c.catalog, c.age, topic)
	c.isReview = false
	c.stars = 0
	c.struggled = nil
	return c.move(EventSelectTopic)
}

// Start enters the game. An empty deck is rejected.
func (c *Controller) Start() error {
	if !c.accepts(EventStart) {
		return c.reject(EventStart)
	}
	if len(c.deck) == 0 {
		return ErrEmptyDeck
	}
	return c.move(EventStart)
}

// Finish records a session's results.
func (c *Controller) Finish(stars float64, struggled []model.WordEntry) error {
	if !c.accepts(EventFinish) {
		return c.reject(EventFinish)
	}
	c.stars = stars
	c.struggled = append([]model.WordEntry(nil), struggled...)
	return c.move(EventFinish)
}

// Review starts a round over the struggled words with stars reset.
func (c *Controller) Review() error {
	if !c.accepts(EventReview) {
		return c.reject(EventReview)
	}
	if len(c.struggled) == 0 {
		return ErrNothingToReview
	}
	c.deck = c.review(c.struggled)
	c.isReview = true
	c.stars = 0
	c.struggled = nil
	return c.move(EventReview)
}

// Restart returns to the topic picker, or to the age picker when no age was
// chosen (a loaded weak-word deck).
func (c *Controller) Restart() error {
	if err := c.move(EventRestart); err != nil {
		return err
	}
	c.requireAge()
	return nil
}

// Back returns to the previous selection screen.
func (c *Controller) Back() error {
	if err := c.move(EventBack); err != nil {
		return err
	}
	c.requireAge()
	return nil
}

// requireAge keeps the topic picker unreachable without an age group.
func (c *Controller) requireAge() {
	if c.screen == TopicSelection && !c.age.Valid() {
		c.screen = AgeSelection
	}
}

// LoadDeck replaces the deck with a prepared one and opens the pre-game
// screen. It is used for weak-word practice.
func (c *Controller) LoadDeck(topic model.Topic, deck []model.WordEntry) error {
	if c.screen == Game {
		return c.reject(EventLoadDeck)
	}
	c.topic = topic
	c.deck = append([]model.WordEntry(nil), deck...)
	c.isReview = false
	c.stars = 0
	c.struggled = nil
	c.screen = PreGame
	return nil
}
