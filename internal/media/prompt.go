package media

import (
	"fmt"
	"strings"
)

const pictureBookStyle = "A cheerful, friendly cartoon illustration in a children's picture book style. " +
	"Thick outlines, bright primary colors, and simple shapes. " +
	"The background must be uncluttered and simple so the subject is clear. No realistic photos."

var curatedScenes = map[string]string{
	"archaeologist":  "A cute cartoon archaeologist wearing a big hat, smiling while happily digging up a shiny dinosaur bone in the sand with a small shovel.",
	"photosynthesis": "A happy cartoon flower with a smiling face, soaking up bright yellow sun rays, with little green energy sparkles around its leaves.",
	"gravity":        "A funny cartoon apple falling from a tree and bouncing off a cute teddy bear's head.",
	"skeleton":       "A friendly, dancing cartoon skeleton with a big smile, making a funny pose.",
	"galaxy":         "A swirling, colorful purple and blue galaxy with happy little stars twinkling and smiling.",
	"nutrition":      nutritionScene,
	"protein":        nutritionScene,
	"vitamin":        nutritionScene,
}

const nutritionScene = "Strong cartoon vegetables with tiny hero capes and big smiles, looking very healthy and powerful."

// ImagePrompt builds the illustration prompt for a word.
func ImagePrompt(word, definition string) string {
	lower := strings.ToLower(strings.TrimSpace(word))
	scene, ok := curatedScenes[lower]
	if !ok {
		scene = fmt.Sprintf("A cute and happy cartoon version of %s. %s", lower, definition)
	}
	return scene + " " + pictureBookStyle
}

// Narration instructions.
const (
	SayWord        = "Say this word clearly with an excited, warm female coach's voice"
	SayWordAgain   = "Say this word clearly like a cheerful female coach"
	SayWordSlowly  = "Say this word very slowly and clearly"
	GiveFeedback   = "Give this feedback with a super excited and encouraging female coach's voice"
	coachPersona   = "Use a very friendly, excited, and cheerful female tone. Speak with high energy like an encouraging coach."
	defaultSayText = "Speak clearly"
)

// NarrationInstruction prefixes instruction with the coach persona.
func NarrationInstruction(instruction string) string {
	if strings.TrimSpace(instruction) == "" {
		instruction = defaultSayText
	}
	return coachPersona + " " + instruction + "."
}

// ScorePrompt is the grading request sent with a recording.
func ScorePrompt(word string) string {
	return fmt.Sprintf("Evaluate the child's pronunciation of: %q. Be encouraging but precise. "+
		"Return JSON: { pronunciationScore (0-100), fluencyScore (0-100), "+
		"feedback (2-3 word enthusiastic phrase), coachingTip (one short, natural tip) }", word)
}

// SpokenFeedback joins the feedback and tip for narration.
func SpokenFeedback(feedback, tip string) string {
	feedback = strings.TrimSpace(feedback)
	tip = strings.TrimSpace(tip)
	switch {
	case tip == "":
		return feedback
	case feedback == "":
		return tip
	}
	return feedback + ". " + tip
}
