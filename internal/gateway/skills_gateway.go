package gateway

import (
	"context"
	"fmt"

	"github.com/lshigami/Proctora/config"
)

// Skill is one entry of the skills-engine profile used to scope a
// baseline exam.
type Skill struct {
	SkillID   string `json:"skill_id"`
	SkillName string `json:"skill_name"`
}

// SkillResult is pushed back to the skills engine after grading.
type SkillResult struct {
	SkillID   string  `json:"skill_id"`
	SkillName string  `json:"skill_name"`
	Score     float64 `json:"score"`
	Acquired  bool    `json:"acquired"`
}

// mockSkills is the deterministic baseline profile substituted when the
// skills engine is unreachable.
var mockSkills = []Skill{
	{SkillID: "skill-variables", SkillName: "Variables and Types"},
	{SkillID: "skill-control-flow", SkillName: "Control Flow"},
	{SkillID: "skill-functions", SkillName: "Functions"},
	{SkillID: "skill-data-structures", SkillName: "Data Structures"},
	{SkillID: "skill-debugging", SkillName: "Debugging"},
}

type SkillsGateway interface {
	FetchSkills(ctx context.Context, userID uint) []Skill
	PushResults(ctx context.Context, userID uint, results []SkillResult) error
}

type skillsGateway struct {
	client *client
}

func NewSkillsGateway(cfg *config.Config) SkillsGateway {
	return &skillsGateway{client: newClient("skills-engine", cfg.Coordinator.SkillsEngineURL, cfg)}
}

func (g *skillsGateway) FetchSkills(ctx context.Context, userID uint) []Skill {
	resp, err := g.client.send(ctx, "get_user_skills", map[string]interface{}{"user_id": userID})
	if err != nil {
		g.client.degraded("get_user_skills", err)
		return mockSkills
	}

	rawSkills, ok := resp["skills"].([]interface{})
	if !ok || len(rawSkills) == 0 {
		g.client.degraded("get_user_skills", errMissingField("skills"))
		return mockSkills
	}

	skills := make([]Skill, 0, len(rawSkills))
	for _, raw := range rawSkills {
		entry, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		id, _ := entry["skill_id"].(string)
		name, _ := entry["skill_name"].(string)
		if id == "" {
			continue
		}
		if name == "" {
			name = id
		}
		skills = append(skills, Skill{SkillID: id, SkillName: name})
	}
	if len(skills) == 0 {
		g.client.degraded("get_user_skills", fmt.Errorf("skills list had no usable entries"))
		return mockSkills
	}
	return skills
}

func (g *skillsGateway) PushResults(ctx context.Context, userID uint, results []SkillResult) error {
	payload := make([]interface{}, 0, len(results))
	for _, r := range results {
		payload = append(payload, map[string]interface{}{
			"skill_id":   r.SkillID,
			"skill_name": r.SkillName,
			"score":      r.Score,
			"acquired":   r.Acquired,
		})
	}
	_, err := g.client.send(ctx, "push_skill_results", map[string]interface{}{
		"user_id": userID,
		"skills":  payload,
	})
	if err != nil {
		g.client.degraded("push_skill_results", err)
	}
	return nil
}
