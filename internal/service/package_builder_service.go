package service

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/lshigami/Proctora/internal/gateway"
	"github.com/lshigami/Proctora/internal/model"
	"gorm.io/datatypes"
)

// PackageQuestion is the stored document shape of one question. Answer
// keys and hints exist only inside the package store; every learner-facing
// read strips them.
type PackageQuestion struct {
	QuestionID string                 `json:"question_id"`
	SkillID    string                 `json:"skill_id"`
	SkillName  string                 `json:"skill_name"`
	Prompt     string                 `json:"prompt"`
	Options    []string               `json:"options"`
	AnswerKey  string                 `json:"answer_key"`
	Hints      []string               `json:"hints,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

const questionsPerSkill = 2

// PackageBuilderService assembles QuestionPackage documents at exam-build
// time and produces the hint-stripped learner view on reads.
type PackageBuilderService interface {
	BuildBaselinePackage(attemptID uint, skills []gateway.Skill) (*model.QuestionPackage, error)
	BuildCoursePackage(attemptID uint, coverage gateway.CourseCoverage) (*model.QuestionPackage, error)
	Questions(pkg *model.QuestionPackage) ([]PackageQuestion, error)
	LearnerView(pkg *model.QuestionPackage) ([]map[string]interface{}, error)
}

type packageBuilderService struct{}

func NewPackageBuilderService() PackageBuilderService {
	return &packageBuilderService{}
}

func questionsForSkill(skillID, skillName string) []PackageQuestion {
	questions := make([]PackageQuestion, 0, questionsPerSkill)
	for i := 1; i <= questionsPerSkill; i++ {
		questions = append(questions, PackageQuestion{
			QuestionID: fmt.Sprintf("%s-q%d", skillID, i),
			SkillID:    skillID,
			SkillName:  skillName,
			Prompt:     fmt.Sprintf("Question %d on %s: select the correct statement.", i, skillName),
			Options:    []string{"A", "B", "C", "D"},
			// Deterministic key so a degraded-mode rebuild of the same
			// skill set grades identically.
			AnswerKey: string(rune('A' + (len(skillID)+i)%4)),
			Hints:     []string{fmt.Sprintf("Review the %s material before answering.", skillName)},
			Metadata:  map[string]interface{}{"difficulty": 1 + i%3},
		})
	}
	return questions
}

func (s *packageBuilderService) buildPackage(attemptID uint, questions []PackageQuestion, coverage interface{}) (*model.QuestionPackage, error) {
	rawQuestions, err := json.Marshal(questions)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal question set: %w", err)
	}

	pkg := &model.QuestionPackage{
		PackageRef: uuid.NewString(),
		AttemptID:  attemptID,
		Questions:  datatypes.JSON(rawQuestions),
		Status:     model.PackageStatusDraft,
	}

	if coverage != nil {
		rawCoverage, err := json.Marshal(coverage)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal coverage map: %w", err)
		}
		pkg.CoverageMap = datatypes.JSON(rawCoverage)
	}
	return pkg, nil
}

func (s *packageBuilderService) BuildBaselinePackage(attemptID uint, skills []gateway.Skill) (*model.QuestionPackage, error) {
	var questions []PackageQuestion
	for _, skill := range skills {
		questions = append(questions, questionsForSkill(skill.SkillID, skill.SkillName)...)
	}
	return s.buildPackage(attemptID, questions, nil)
}

func (s *packageBuilderService) BuildCoursePackage(attemptID uint, coverage gateway.CourseCoverage) (*model.QuestionPackage, error) {
	seen := map[string]bool{}
	var questions []PackageQuestion
	for _, entry := range coverage.CoverageMap {
		if seen[entry.SkillID] {
			continue
		}
		seen[entry.SkillID] = true
		questions = append(questions, questionsForSkill(entry.SkillID, entry.SkillName)...)
	}
	return s.buildPackage(attemptID, questions, coverage)
}

func (s *packageBuilderService) Questions(pkg *model.QuestionPackage) ([]PackageQuestion, error) {
	var questions []PackageQuestion
	if err := json.Unmarshal(pkg.Questions, &questions); err != nil {
		return nil, fmt.Errorf("package %s has a corrupt question set: %w", pkg.PackageRef, err)
	}
	return questions, nil
}

// LearnerView returns the question set with hints and answer keys removed
// at every nesting depth.
func (s *packageBuilderService) LearnerView(pkg *model.QuestionPackage) ([]map[string]interface{}, error) {
	var questions []map[string]interface{}
	if err := json.Unmarshal(pkg.Questions, &questions); err != nil {
		return nil, fmt.Errorf("package %s has a corrupt question set: %w", pkg.PackageRef, err)
	}
	for i := range questions {
		stripKeys(questions[i], "hints", "answer_key")
	}
	return questions, nil
}

// stripKeys deletes the named keys from a decoded JSON value recursively.
// Stored documents may nest question material arbitrarily deep (metadata,
// sub-parts), so the strip walks everything.
func stripKeys(value interface{}, keys ...string) {
	switch v := value.(type) {
	case map[string]interface{}:
		for _, k := range keys {
			delete(v, k)
		}
		for _, nested := range v {
			stripKeys(nested, keys...)
		}
	case []interface{}:
		for _, nested := range v {
			stripKeys(nested, keys...)
		}
	}
}
