// Package openai provides a media service backed by the OpenAI API.
package openai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/verte-zerg/phonicpal/internal/media"
	"github.com/verte-zerg/phonicpal/internal/model"
)

// Default models.
const (
	DefaultImageModel  = oai.ImageModelDallE3
	DefaultSpeechModel = oai.SpeechModelGPT4oMiniTTS
	DefaultScoreModel  = shared.ChatModelGPT4oAudioPreview
)

// maxSpeechBytes bounds a narration response (about 40s of PCM).
const maxSpeechBytes = 2 << 20

// Service implements media.Service using the OpenAI API.
type Service struct {
	client      oai.Client
	imageModel  string
	speechModel string
	scoreModel  string
}

type config struct {
	baseURL     string
	timeout     time.Duration
	imageModel  string
	speechModel string
	scoreModel  string
}

// Option is a functional option for Service.
type Option func(*config)

// WithBaseURL overrides the default OpenAI API base URL.
func WithBaseURL(url string) Option {
	return func(c *config) {
		c.baseURL = url
	}
}

// WithTimeout sets a per-request HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// WithImageModel overrides the illustration model.
func WithImageModel(m string) Option {
	return func(c *config) {
		c.imageModel = m
	}
}

// WithSpeechModel overrides the narration model.
func WithSpeechModel(m string) Option {
	return func(c *config) {
		c.speechModel = m
	}
}

// WithScoreModel overrides the audio-capable chat model used for scoring.
func WithScoreModel(m string) Option {
	return func(c *config) {
		c.scoreModel = m
	}
}

// New constructs an OpenAI-backed media service.
func New(apiKey string, opts ...Option) (*Service, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai: apiKey must not be empty")
	}
	cfg := &config{
		imageModel:  string(DefaultImageModel),
		speechModel: string(DefaultSpeechModel),
		scoreModel:  string(DefaultScoreModel),
	}
	for _, o := range opts {
		o(cfg)
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}
	if cfg.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.baseURL))
	}
	if cfg.timeout > 0 {
		reqOpts = append(reqOpts, option.WithHTTPClient(&http.Client{
			Timeout: cfg.timeout,
		}))
	}

	return &Service{
		client:      oai.NewClient(reqOpts...),
		imageModel:  cfg.imageModel,
		speechModel: cfg.speechModel,
		scoreModel:  cfg.scoreModel,
	}, nil
}

// Illustrate implements media.Service.
func (s *Service) Illustrate(ctx context.Context, word, definition string) ([]byte, error) {
	params := oai.ImageGenerateParams{
		Prompt: media.ImagePrompt(word, definition),
		Model:  oai.ImageModel(s.imageModel),
		Size:   oai.ImageGenerateParamsSize1024x1024,
	}
	if params.Model != oai.ImageModelGPTImage1 {
		params.ResponseFormat = oai.ImageGenerateParamsResponseFormatB64JSON
	}
	resp, err := s.client.Images.Generate(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", media.ErrIllustration, err)
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, fmt.Errorf("%w: empty image response", media.ErrIllustration)
	}
	img, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("%w: decode image: %v", media.ErrIllustration, err)
	}
	return img, nil
}

// Narrate implements media.Service.
func (s *Service) Narrate(ctx context.Context, text, instruction, voice string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty text", media.ErrNarration)
	}
	if voice == "" {
		voice = media.DefaultVoices.Teacher
	}
	resp, err := s.client.Audio.Speech.New(ctx, oai.AudioSpeechNewParams{
		Input:          text,
		Model:          oai.SpeechModel(s.speechModel),
		Voice:          oai.AudioSpeechNewParamsVoice(voice),
		Instructions:   oai.String(media.NarrationInstruction(instruction)),
		ResponseFormat: oai.AudioSpeechNewParamsResponseFormatPCM,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", media.ErrNarration, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			// Best-effort close; the body has been read.
			_ = cerr
		}
	}()
	pcm, err := io.ReadAll(io.LimitReader(resp.Body, maxSpeechBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read audio: %v", media.ErrNarration, err)
	}
	if len(pcm) > maxSpeechBytes {
		return nil, fmt.Errorf("%w: audio exceeds %d bytes", media.ErrNarration, maxSpeechBytes)
	}
	if len(pcm) == 0 {
		return nil, fmt.Errorf("%w: empty audio", media.ErrNarration)
	}
	return pcm, nil
}

var assessmentSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"pronunciationScore": map[string]any{"type": "number"},
		"fluencyScore":       map[string]any{"type": "number"},
		"feedback":           map[string]any{"type": "string"},
		"coachingTip":        map[string]any{"type": "string"},
	},
	"required":             []string{"pronunciationScore", "fluencyScore", "feedback", "coachingTip"},
	"additionalProperties": false,
}

// ScorePronunciation implements media.Service.
func (s *Service) ScorePronunciation(ctx context.Context, word string, wav []byte) (model.AssessmentResult, error) {
	if len(wav) == 0 {
		return model.AssessmentResult{}, fmt.Errorf("%w: empty recording", media.ErrScoring)
	}
	params := oai.ChatCompletionNewParams{
		Model:      shared.ChatModel(s.scoreModel),
		Modalities: []string{"text"},
		Messages: []oai.ChatCompletionMessageParamUnion{
			oai.UserMessage([]oai.ChatCompletionContentPartUnionParam{
				oai.InputAudioContentPart(oai.ChatCompletionContentPartInputAudioInputAudioParam{
					Data:   base64.StdEncoding.EncodeToString(wav),
					Format: "wav",
				}),
				oai.TextContentPart(media.ScorePrompt(word)),
			}),
		},
		ResponseFormat: oai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
				JSONSchema: shared.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   "pronunciation_assessment",
					Schema: assessmentSchema,
					Strict: oai.Bool(true),
				},
			},
		},
	}
	resp, err := s.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return model.AssessmentResult{}, fmt.Errorf("%w: %v", media.ErrScoring, err)
	}
	if len(resp.Choices) == 0 {
		return model.AssessmentResult{}, fmt.Errorf("%w: empty choices in response", media.ErrScoring)
	}
	return ParseAssessment(resp.Choices[0].Message.Content)
}

// ParseAssessment decodes a JSON assessment and clamps scores to 0..100.
func ParseAssessment(content string) (model.AssessmentResult, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var raw struct {
		PronunciationScore *float64 `json:"pronunciationScore"`
		FluencyScore       *float64 `json:"fluencyScore"`
		Feedback           string   `json:"feedback"`
		CoachingTip        string   `json:"coachingTip"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &raw); err != nil {
		return model.AssessmentResult{}, fmt.Errorf("%w: parse assessment: %v", media.ErrScoring, err)
	}
	if raw.PronunciationScore == nil || math.IsNaN(*raw.PronunciationScore) {
		return model.AssessmentResult{}, fmt.Errorf("%w: missing pronunciationScore", media.ErrScoring)
	}
	res := model.AssessmentResult{
		PronunciationScore: clamp(*raw.PronunciationScore),
		Feedback:           strings.TrimSpace(raw.Feedback),
		CoachingTip:        strings.TrimSpace(raw.CoachingTip),
	}
	if raw.FluencyScore != nil && !math.IsNaN(*raw.FluencyScore) {
		res.FluencyScore = clamp(*raw.FluencyScore)
	}
	return res, nil
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

var _ media.Service = (*Service)(nil)
