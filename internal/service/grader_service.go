package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/lshigami/Proctora/config"
	"github.com/lshigami/Proctora/internal/dto"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// SkillScore is one graded skill as returned by a Grader.
type SkillScore struct {
	SkillID   string
	SkillName string
	Score     float64
	Passed    bool
}

// GradeResult is the Grader contract's output shape.
type GradeResult struct {
	PerSkill   []SkillScore
	FinalGrade float64
}

// Grader turns a question set plus submitted answers into per-skill
// scores. The orchestrator owns the final-grade policy (mean, truncation,
// pass threshold); graders only score skills.
type Grader interface {
	Grade(ctx context.Context, questions []PackageQuestion, answers []dto.AnswerSubmission, passingGrade float64) (GradeResult, error)
}

// answerKeyGrader scores deterministically against the package's answer
// keys. A skill whose questions received no answers scores 0 and stays in
// the result set; that strictness is deliberate.
type answerKeyGrader struct{}

func NewAnswerKeyGrader() Grader {
	return &answerKeyGrader{}
}

func (g *answerKeyGrader) Grade(_ context.Context, questions []PackageQuestion, answers []dto.AnswerSubmission, passingGrade float64) (GradeResult, error) {
	answerByQuestion := make(map[string]string, len(answers))
	for _, a := range answers {
		answerByQuestion[a.QuestionID] = strings.TrimSpace(a.Response)
	}

	type tally struct {
		name    string
		total   int
		correct int
	}
	tallies := map[string]*tally{}
	for _, q := range questions {
		t, ok := tallies[q.SkillID]
		if !ok {
			t = &tally{name: q.SkillName}
			tallies[q.SkillID] = t
		}
		t.total++
		if response, answered := answerByQuestion[q.QuestionID]; answered && strings.EqualFold(response, q.AnswerKey) {
			t.correct++
		}
	}

	result := GradeResult{}
	sum := 0.0
	for skillID, t := range tallies {
		score := 0.0
		if t.total > 0 {
			score = 100 * float64(t.correct) / float64(t.total)
		}
		result.PerSkill = append(result.PerSkill, SkillScore{
			SkillID:   skillID,
			SkillName: t.name,
			Score:     score,
			Passed:    score >= passingGrade,
		})
		sum += score
	}
	sort.Slice(result.PerSkill, func(i, j int) bool { return result.PerSkill[i].SkillID < result.PerSkill[j].SkillID })

	if len(result.PerSkill) > 0 {
		result.FinalGrade = sum / float64(len(result.PerSkill))
	}
	return result, nil
}

// geminiGrader adjudicates free-form responses with Gemini, falling back
// to the answer-key grader when no API key is configured or the model
// call fails. Exact key matches never reach the model.
type geminiGrader struct {
	client   *genai.GenerativeModel
	fallback Grader
}

func NewGeminiGrader(cfg *config.Config) Grader {
	fallback := NewAnswerKeyGrader()
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. Grading uses the answer-key grader only.")
		return &geminiGrader{fallback: fallback}
	}
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize Gemini client, grading uses the answer-key grader only")
		return &geminiGrader{fallback: fallback}
	}
	return &geminiGrader{client: client.GenerativeModel("gemini-1.5-flash"), fallback: fallback}
}

func (g *geminiGrader) Grade(ctx context.Context, questions []PackageQuestion, answers []dto.AnswerSubmission, passingGrade float64) (GradeResult, error) {
	if g.client == nil {
		return g.fallback.Grade(ctx, questions, answers, passingGrade)
	}

	questionByID := make(map[string]PackageQuestion, len(questions))
	for _, q := range questions {
		questionByID[q.QuestionID] = q
	}

	// Rewrite non-matching free-form responses that the model accepts
	// into the answer key, then let the deterministic grader tally.
	adjusted := make([]dto.AnswerSubmission, len(answers))
	copy(adjusted, answers)
	for i, a := range adjusted {
		q, ok := questionByID[a.QuestionID]
		if !ok || strings.EqualFold(strings.TrimSpace(a.Response), q.AnswerKey) {
			continue
		}
		accepted, err := g.adjudicate(ctx, q, a.Response)
		if err != nil {
			log.Warn().Err(err).Str("questionID", q.QuestionID).Msg("Gemini adjudication failed, keeping literal response")
			continue
		}
		if accepted {
			adjusted[i].Response = q.AnswerKey
		}
	}
	return g.fallback.Grade(ctx, questions, adjusted, passingGrade)
}

func (g *geminiGrader) adjudicate(ctx context.Context, question PackageQuestion, response string) (bool, error) {
	var prompt strings.Builder
	prompt.WriteString("You are grading one exam answer. Question prompt:\n")
	prompt.WriteString(question.Prompt)
	prompt.WriteString(fmt.Sprintf("\nExpected answer: %s\nLearner response: %s\n", question.AnswerKey, response))
	prompt.WriteString("Reply with exactly one word: CORRECT if the response is equivalent to the expected answer, otherwise INCORRECT.")

	resp, err := g.client.GenerateContent(ctx, genai.Text(prompt.String()))
	if err != nil {
		return false, fmt.Errorf("gemini call failed: %w", err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return false, fmt.Errorf("gemini returned no content")
	}
	text := ""
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text += string(t)
		}
	}
	return strings.Contains(strings.ToUpper(text), "CORRECT") && !strings.Contains(strings.ToUpper(text), "INCORRECT"), nil
}
