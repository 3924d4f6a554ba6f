package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/phonicpal/internal/catalog"
	"github.com/verte-zerg/phonicpal/internal/model"
	"github.com/verte-zerg/phonicpal/internal/session"
)

const (
	contentWidth    = 56
	pictureCols     = 36
	minPictureCols  = 12
	pictureFallback = 8
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FCD34D"))
	textStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F3F4F6"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	recordStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444"))
	starStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FBBF24"))
	buttonStyle  = lipgloss.NewStyle().Padding(0, 2).Border(lipgloss.RoundedBorder())
	cardStyle    = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder())
	modalStyle   = lipgloss.NewStyle().Padding(1, 3).Border(lipgloss.ThickBorder()).BorderForeground(lipgloss.Color("#EF4444"))
	selectedMark = "▸ "
)

func topicStyle(topic model.Topic) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(catalog.Describe(topic).Color))
}

func (m *Model) viewLanding() string {
	d := catalog.Describe("")
	return lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render(fmt.Sprintf("%s %s %s", d.Icon, d.Name, d.Icon)),
		"",
		textStyle.Render("Say it, see it, learn it!"),
		mutedStyle.Render("Look at the picture, listen, then say the word out loud."),
		"",
		buttonStyle.BorderForeground(lipgloss.Color(d.Color)).Render("Press enter to play"),
	)
}

func (m *Model) viewAgePicker() string {
	lines := []string{titleStyle.Render("How old are you?"), ""}
	for i, age := range model.AgeGroups {
		label := fmt.Sprintf("%d. %s", i+1, age)
		if i == m.cursor {
			lines = append(lines, titleStyle.Render(selectedMark+label))
		} else {
			lines = append(lines, textStyle.Render("  "+label))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *Model) viewTopicPicker() string {
	age := m.nav.Age()
	lines := []string{titleStyle.Render(fmt.Sprintf("Pick a topic (%s)", age)), ""}
	for i, topic := range model.Topics {
		d := catalog.Describe(topic)
		count := m.nav.Catalog().Count(age, topic)
		label := fmt.Sprintf("%d. %s %s", i+1, d.Icon, topic)
		challenges := mutedStyle.Render(fmt.Sprintf("  %d challenges", count))
		if i == m.cursor {
			lines = append(lines, topicStyle(topic).Bold(true).Render(selectedMark+label)+challenges)
		} else {
			lines = append(lines, textStyle.Render("  "+label)+challenges)
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *Model) viewPreGame() string {
	topic := m.nav.Topic()
	d := catalog.Describe(topic)
	heading := fmt.Sprintf("%s %s", d.Icon, topic)
	if m.nav.IsReview() {
		heading = "🔁 Tricky words review"
	}
	lines := []string{
		topicStyle(topic).Bold(true).Render(heading),
		mutedStyle.Render(m.nav.Age().String()),
		"",
	}
	deck := m.nav.Deck()
	if len(deck) == 0 {
		lines = append(lines,
			noticeStyle.Render("There are no words for this age and topic yet."),
			mutedStyle.Render("Press esc to pick another topic."),
		)
		return lipgloss.JoinVertical(lipgloss.Center, lines...)
	}
	lines = append(lines,
		textStyle.Render(fmt.Sprintf("%d words are ready for you!", len(deck))),
		mutedStyle.Render(fmt.Sprintf("Earn up to %.0f stars.", m.nav.TotalPossibleStars())),
		"",
		buttonStyle.BorderForeground(lipgloss.Color(d.Color)).Render("Press enter to start"),
	)
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (m *Model) viewGame() string {
	mc := m.machine
	if mc == nil {
		return ""
	}
	if mc.MicDenied() {
		return modalStyle.Render(lipgloss.JoinVertical(lipgloss.Center,
			recordStyle.Render("🎤 I can't hear you!"),
			"",
			wrapText("Please check that a microphone is plugged in and that phonicpal may use it.", textStyle, 40),
			"",
			mutedStyle.Render("Press enter to close"),
		))
	}
	word, ok := mc.Current()
	if !ok {
		return ""
	}
	topic := m.nav.Topic()
	width := m.contentWidth()

	header := lipgloss.JoinHorizontal(lipgloss.Top,
		topicStyle(topic).Render(fmt.Sprintf("%s %s", catalog.Describe(topic).Icon, topic)),
		mutedStyle.Render(fmt.Sprintf("   Word %d/%d   ", mc.Index()+1, mc.Len())),
		starStyle.Render(fmt.Sprintf("⭐ %s", formatStars(mc.SessionStars()))),
	)
	wordCard := cardStyle.BorderForeground(lipgloss.Color(catalog.Describe(topic).Color)).
		Render(titleStyle.Render(strings.ToUpper(word.Word)))

	parts := []string{header, "", m.viewPicture(topic), "", wordCard}
	if mc.ShowDefinition() {
		parts = append(parts, wrapText(word.Definition, mutedStyle.Italic(true), width))
	}
	parts = append(parts, "", m.viewGameStatus(width))
	return lipgloss.JoinVertical(lipgloss.Center, parts...)
}

func (m *Model) viewPicture(topic model.Topic) string {
	mc := m.machine
	if mc.ImageLoading() {
		return mutedStyle.Render(m.spinner.View() + " Drawing a picture...")
	}
	cols := pictureCols
	if m.width > 0 {
		cols = min(cols, m.width-4)
	}
	if m.height > 0 {
		// Keep room for the word, status and footer.
		cols = min(cols, max(0, (m.height-16)*2))
	}
	if cols >= minPictureCols {
		if art, err := m.picture.render(mc.Image(), cols); err == nil {
			return art
		}
	}
	icon := catalog.Describe(topic).Icon
	return lipgloss.NewStyle().Width(pictureFallback*2).Height(pictureFallback/2).
		Align(lipgloss.Center, lipgloss.Center).Render(icon)
}

func (m *Model) viewGameStatus(width int) string {
	mc := m.machine
	switch mc.State() {
	case session.Recording:
		return recordStyle.Render(fmt.Sprintf("● Recording... %d", mc.Remaining()))
	case session.Analyzing:
		return mutedStyle.Render(m.spinner.View() + " Listening carefully...")
	case session.ReviewingResult:
		res, ok := mc.Result()
		if !ok {
			return ""
		}
		lines := []string{
			starStyle.Render(renderStars(session.Stars(res.PronunciationScore))),
			textStyle.Render(fmt.Sprintf("Pronunciation %.0f   Fluency %.0f", res.PronunciationScore, res.FluencyScore)),
		}
		if res.Feedback != "" {
			lines = append(lines, wrapText(res.Feedback, textStyle, width))
		}
		if res.CoachingTip != "" {
			lines = append(lines, wrapText("Tip: "+res.CoachingTip, mutedStyle, width))
		}
		return lipgloss.JoinVertical(lipgloss.Center, lines...)
	}
	switch {
	case mc.MicPending():
		return mutedStyle.Render(m.spinner.View() + " Getting the microphone ready...")
	case mc.Speaking():
		return textStyle.Render("🔊 Listen...")
	}
	if mc.IsCompleted(mc.Index()) {
		return textStyle.Render("🎤 Press enter to say it again")
	}
	return textStyle.Render("🎤 Press enter and say the word")
}

func (m *Model) viewFinish() string {
	topic := m.nav.Topic()
	d := catalog.Describe(topic)
	title := "Amazing work!"
	if m.lastQuit {
		title = "Good try!"
	}
	lines := []string{
		titleStyle.Render("🎉 " + title),
		"",
		topicStyle(topic).Bold(true).Render(fmt.Sprintf("%s %s badge", d.BadgeIcon, d.BadgeName)),
		starStyle.Render(fmt.Sprintf("⭐ %s / %.0f stars", formatStars(m.nav.Stars()), m.nav.TotalPossibleStars())),
		"",
	}
	struggled := m.nav.Struggled()
	if len(struggled) == 0 {
		lines = append(lines, textStyle.Render("You said every word like a pro!"))
	} else {
		words := make([]string, len(struggled))
		for i, w := range struggled {
			words[i] = w.Word
		}
		lines = append(lines,
			textStyle.Render("Words to practice:"),
			wrapText(strings.Join(words, ", "), noticeStyle, m.contentWidth()),
		)
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (m *Model) contentWidth() int {
	if m.width > 0 {
		return max(10, min(contentWidth, m.width-4))
	}
	return contentWidth
}

func formatStars(stars float64) string {
	if stars == math.Trunc(stars) {
		return fmt.Sprintf("%.0f", stars)
	}
	return fmt.Sprintf("%.1f", stars)
}

// renderStars draws a per-word rating with a half mark for .5.
func renderStars(stars float64) string {
	full := int(stars)
	half := stars-float64(full) >= 0.5
	var b strings.Builder
	b.WriteString(strings.Repeat("★", full))
	if half {
		b.WriteString("½")
	}
	empty := session.MaxStarsPerWord - full
	if half {
		empty--
	}
	b.WriteString(strings.Repeat("☆", max(0, empty)))
	return b.String()
}
