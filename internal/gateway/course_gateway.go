package gateway

import (
	"context"
	"fmt"

	"github.com/lshigami/Proctora/config"
)

// CoverageEntry maps one course lesson to the skill it teaches. The set of
// entries scopes a post-course exam.
type CoverageEntry struct {
	LessonID   string `json:"lesson_id"`
	LessonName string `json:"lesson_name"`
	SkillID    string `json:"skill_id"`
	SkillName  string `json:"skill_name"`
}

// CourseCoverage is the course-builder's view of what a course covers.
type CourseCoverage struct {
	CourseID    uint            `json:"course_id"`
	CourseName  string          `json:"course_name"`
	CoverageMap []CoverageEntry `json:"coverage_map"`
}

// mockCoverage derives a deterministic coverage map from the course id so
// repeated degraded calls for the same course build the same exam.
func mockCoverage(courseID uint) CourseCoverage {
	return CourseCoverage{
		CourseID:   courseID,
		CourseName: fmt.Sprintf("Course %d", courseID),
		CoverageMap: []CoverageEntry{
			{LessonID: fmt.Sprintf("c%d-l1", courseID), LessonName: "Lesson 1", SkillID: "skill-fundamentals", SkillName: "Fundamentals"},
			{LessonID: fmt.Sprintf("c%d-l2", courseID), LessonName: "Lesson 2", SkillID: "skill-applied-practice", SkillName: "Applied Practice"},
			{LessonID: fmt.Sprintf("c%d-l3", courseID), LessonName: "Lesson 3", SkillID: "skill-review", SkillName: "Review and Synthesis"},
		},
	}
}

type CourseGateway interface {
	FetchCoverage(ctx context.Context, courseID uint) CourseCoverage
	PushResult(ctx context.Context, userID, courseID uint, finalGrade float64, passed bool) error
}

type courseGateway struct {
	client *client
}

func NewCourseGateway(cfg *config.Config) CourseGateway {
	return &courseGateway{client: newClient("course-builder", cfg.Coordinator.CourseBuilderURL, cfg)}
}

func (g *courseGateway) FetchCoverage(ctx context.Context, courseID uint) CourseCoverage {
	resp, err := g.client.send(ctx, "get_course_coverage", map[string]interface{}{"course_id": courseID})
	if err != nil {
		g.client.degraded("get_course_coverage", err)
		return mockCoverage(courseID)
	}

	rawMap, ok := resp["coverage_map"].([]interface{})
	if !ok || len(rawMap) == 0 {
		g.client.degraded("get_course_coverage", errMissingField("coverage_map"))
		return mockCoverage(courseID)
	}

	coverage := CourseCoverage{CourseID: courseID}
	if name, ok := resp["course_name"].(string); ok {
		coverage.CourseName = name
	}
	for _, raw := range rawMap {
		entry, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		ce := CoverageEntry{}
		ce.LessonID, _ = entry["lesson_id"].(string)
		ce.LessonName, _ = entry["lesson_name"].(string)
		ce.SkillID, _ = entry["skill_id"].(string)
		ce.SkillName, _ = entry["skill_name"].(string)
		if ce.SkillID == "" {
			continue
		}
		coverage.CoverageMap = append(coverage.CoverageMap, ce)
	}
	if len(coverage.CoverageMap) == 0 {
		g.client.degraded("get_course_coverage", fmt.Errorf("coverage map had no usable entries"))
		return mockCoverage(courseID)
	}
	return coverage
}

func (g *courseGateway) PushResult(ctx context.Context, userID, courseID uint, finalGrade float64, passed bool) error {
	_, err := g.client.send(ctx, "push_course_exam_result", map[string]interface{}{
		"user_id":     userID,
		"course_id":   courseID,
		"final_grade": finalGrade,
		"passed":      passed,
	})
	if err != nil {
		g.client.degraded("push_course_exam_result", err)
	}
	return nil
}
