package service

import (
	"context"
	"sync"
	"time"

	"github.com/lshigami/Proctora/internal/gateway"
	"github.com/lshigami/Proctora/internal/model"
	"github.com/lshigami/Proctora/internal/tracker"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// In-memory doubles for the repository, tracker and gateway interfaces.
// They mirror the row-level guards of the real implementations (MarkStarted
// once, MarkSubmitted and MarkCanceled conditional on status) so the state
// machine tests exercise the same race semantics.

type fakeExamRepo struct {
	mu             sync.Mutex
	nextID         uint
	exams          map[uint]*model.Exam
	baselineExists bool
}

func newFakeExamRepo() *fakeExamRepo {
	return &fakeExamRepo{nextID: 1, exams: map[uint]*model.Exam{}}
}

func (r *fakeExamRepo) Create(exam *model.Exam) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	exam.ID = r.nextID
	r.nextID++
	copied := *exam
	r.exams[exam.ID] = &copied
	return nil
}

func (r *fakeExamRepo) FindByID(id uint) (*model.Exam, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	exam, ok := r.exams[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *exam
	return &copied, nil
}

func (r *fakeExamRepo) BaselineExistsForUser(userID uint) (bool, error) {
	return r.baselineExists, nil
}

type fakeAttemptRepo struct {
	mu       sync.Mutex
	nextID   uint
	attempts map[uint]*model.ExamAttempt
}

func newFakeAttemptRepo() *fakeAttemptRepo {
	return &fakeAttemptRepo{nextID: 1, attempts: map[uint]*model.ExamAttempt{}}
}

func (r *fakeAttemptRepo) Create(attempt *model.ExamAttempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	attempt.ID = r.nextID
	r.nextID++
	copied := *attempt
	r.attempts[attempt.ID] = &copied
	return nil
}

func (r *fakeAttemptRepo) FindByID(id uint) (*model.ExamAttempt, error) {
	return r.FindByIDWithExam(id)
}

func (r *fakeAttemptRepo) FindByIDWithExam(id uint) (*model.ExamAttempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	attempt, ok := r.attempts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *attempt
	return &copied, nil
}

func (r *fakeAttemptRepo) FindAllByUser(userID uint) ([]model.ExamAttempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.ExamAttempt
	for _, attempt := range r.attempts {
		if attempt.Exam.UserID == userID {
			out = append(out, *attempt)
		}
	}
	return out, nil
}

func (r *fakeAttemptRepo) CountByExamID(examID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, attempt := range r.attempts {
		if attempt.ExamID == examID {
			count++
		}
	}
	return count, nil
}

func (r *fakeAttemptRepo) SetPackageRef(attemptID uint, ref string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if attempt, ok := r.attempts[attemptID]; ok {
		attempt.PackageRef = ref
	}
	return nil
}

func (r *fakeAttemptRepo) MarkStarted(attemptID uint, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	attempt, ok := r.attempts[attemptID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if attempt.StartedAt == nil && attempt.Status == model.AttemptStatusCreated {
		attempt.StartedAt = &at
		attempt.Status = model.AttemptStatusInProgress
	}
	return nil
}

func (r *fakeAttemptRepo) MarkSubmitted(attemptID uint, at time.Time, finalGrade float64, passed bool) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	attempt, ok := r.attempts[attemptID]
	if !ok {
		return false, gorm.ErrRecordNotFound
	}
	if attempt.Status != model.AttemptStatusCreated && attempt.Status != model.AttemptStatusInProgress {
		return false, nil
	}
	attempt.Status = model.AttemptStatusSubmitted
	attempt.SubmittedAt = &at
	attempt.FinalGrade = &finalGrade
	attempt.Passed = &passed
	return true, nil
}

func (r *fakeAttemptRepo) MarkCanceled(attemptID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	attempt, ok := r.attempts[attemptID]
	if !ok {
		return false, gorm.ErrRecordNotFound
	}
	if attempt.Status == model.AttemptStatusCanceled {
		return false, nil
	}
	attempt.Status = model.AttemptStatusCanceled
	return true, nil
}

func (r *fakeAttemptRepo) FindMissingPackageRef(olderThan time.Time) ([]model.ExamAttempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.ExamAttempt
	for _, attempt := range r.attempts {
		if attempt.PackageRef == "" && attempt.CreatedAt.Before(olderThan) {
			out = append(out, *attempt)
		}
	}
	return out, nil
}

type fakeSkillRepo struct {
	mu   sync.Mutex
	rows map[uint]map[string]model.AttemptSkill
}

func newFakeSkillRepo() *fakeSkillRepo {
	return &fakeSkillRepo{rows: map[uint]map[string]model.AttemptSkill{}}
}

func (r *fakeSkillRepo) Upsert(skills []model.AttemptSkill) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, sk := range skills {
		if r.rows[sk.AttemptID] == nil {
			r.rows[sk.AttemptID] = map[string]model.AttemptSkill{}
		}
		r.rows[sk.AttemptID][sk.SkillID] = sk
	}
	return nil
}

func (r *fakeSkillRepo) FindByAttemptID(attemptID uint) ([]model.AttemptSkill, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.AttemptSkill
	for _, sk := range r.rows[attemptID] {
		out = append(out, sk)
	}
	return out, nil
}

type fakePackageRepo struct {
	mu              sync.Mutex
	packages        map[string]*model.QuestionPackage
	updateStatusErr error
}

func newFakePackageRepo() *fakePackageRepo {
	return &fakePackageRepo{packages: map[string]*model.QuestionPackage{}}
}

func (r *fakePackageRepo) Create(pkg *model.QuestionPackage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *pkg
	r.packages[pkg.PackageRef] = &copied
	return nil
}

func (r *fakePackageRepo) FindByRef(ref string) (*model.QuestionPackage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pkg, ok := r.packages[ref]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *pkg
	return &copied, nil
}

func (r *fakePackageRepo) FindByAttemptID(attemptID uint) (*model.QuestionPackage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, pkg := range r.packages {
		if pkg.AttemptID == attemptID {
			copied := *pkg
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakePackageRepo) UpdateStatus(ref, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateStatusErr != nil {
		return r.updateStatusErr
	}
	if pkg, ok := r.packages[ref]; ok {
		pkg.Status = status
	}
	return nil
}

func (r *fakePackageRepo) Complete(ref string, summary datatypes.JSON) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	pkg, ok := r.packages[ref]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	pkg.GradingSummary = summary
	pkg.Status = model.PackageStatusCompleted
	return nil
}

func (r *fakePackageRepo) status(ref string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if pkg, ok := r.packages[ref]; ok {
		return pkg.Status
	}
	return ""
}

type fakeProctorRepo struct {
	mu         sync.Mutex
	sessions   map[uint]*model.ProctoringSession
	violations map[uint]*model.ProctoringViolation
}

func newFakeProctorRepo() *fakeProctorRepo {
	return &fakeProctorRepo{
		sessions:   map[uint]*model.ProctoringSession{},
		violations: map[uint]*model.ProctoringViolation{},
	}
}

func (r *fakeProctorRepo) UpsertSession(attemptID, examID uint, at time.Time) (*model.ProctoringSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if session, ok := r.sessions[attemptID]; ok {
		copied := *session
		return &copied, nil
	}
	session := &model.ProctoringSession{
		AttemptID:    attemptID,
		ExamID:       examID,
		CameraStatus: model.CameraStatusActive,
		StartedAt:    &at,
	}
	r.sessions[attemptID] = session
	copied := *session
	return &copied, nil
}

func (r *fakeProctorRepo) FindSessionByAttemptID(attemptID uint) (*model.ProctoringSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[attemptID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *session
	return &copied, nil
}

func (r *fakeProctorRepo) GetOrCreateViolation(attemptID uint) (*model.ProctoringViolation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if violation, ok := r.violations[attemptID]; ok {
		copied := *violation
		return &copied, nil
	}
	violation := &model.ProctoringViolation{AttemptID: attemptID}
	r.violations[attemptID] = violation
	copied := *violation
	return &copied, nil
}

func (r *fakeProctorRepo) FindViolationByAttemptID(attemptID uint) (*model.ProctoringViolation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	violation, ok := r.violations[attemptID]
	if !ok {
		return nil, nil
	}
	copied := *violation
	return &copied, nil
}

func (r *fakeProctorRepo) SaveViolation(violation *model.ProctoringViolation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *violation
	r.violations[violation.AttemptID] = &copied
	return nil
}

type fakeIncidentRepo struct {
	mu        sync.Mutex
	incidents []model.Incident
}

func (r *fakeIncidentRepo) Create(incident *model.Incident) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	incident.ID = uint(len(r.incidents) + 1)
	r.incidents = append(r.incidents, *incident)
	return nil
}

func (r *fakeIncidentRepo) FindByAttemptID(attemptID uint) ([]model.Incident, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Incident
	for _, inc := range r.incidents {
		if inc.AttemptID == attemptID {
			out = append(out, inc)
		}
	}
	return out, nil
}

type stubTracker struct {
	mu        sync.Mutex
	decision  tracker.Decision
	until     *time.Time
	recorded  int
	cooldowns []int
}

func newStubTracker() *stubTracker {
	return &stubTracker{decision: tracker.DecisionOK}
}

func (t *stubTracker) CanAttempt(userID uint, examType string, maxAttempts int) (tracker.Decision, *time.Time, error) {
	return t.decision, t.until, nil
}

func (t *stubTracker) RecordAttempt(userID uint, examType string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.recorded++
	return nil
}

func (t *stubTracker) SetCooldown(userID uint, examType string, hours int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cooldowns = append(t.cooldowns, hours)
	return nil
}

func (t *stubTracker) SetOverride(userID uint, examType string) error {
	return nil
}

func (t *stubTracker) cooldownCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.cooldowns)
}

type stubDirectoryGateway struct {
	policy gateway.PolicySnapshot
}

func (g *stubDirectoryGateway) FetchPolicy(ctx context.Context, userID uint, examType string) gateway.PolicySnapshot {
	return g.policy
}

func (g *stubDirectoryGateway) PushResult(ctx context.Context, userID, examID uint, examType string, finalGrade float64, passed bool) error {
	return nil
}

type stubSkillsGateway struct {
	skills []gateway.Skill
}

func (g *stubSkillsGateway) FetchSkills(ctx context.Context, userID uint) []gateway.Skill {
	return g.skills
}

func (g *stubSkillsGateway) PushResults(ctx context.Context, userID uint, results []gateway.SkillResult) error {
	return nil
}

type stubCourseGateway struct {
	coverage gateway.CourseCoverage
}

func (g *stubCourseGateway) FetchCoverage(ctx context.Context, courseID uint) gateway.CourseCoverage {
	return g.coverage
}

func (g *stubCourseGateway) PushResult(ctx context.Context, userID, courseID uint, finalGrade float64, passed bool) error {
	return nil
}

type stubDevLabGateway struct{}

func (g *stubDevLabGateway) ProvisionRemediation(ctx context.Context, userID uint, failedSkillIDs []string) error {
	return nil
}

type stubCameraGateway struct{}

func (g *stubCameraGateway) Activate(ctx context.Context, attemptID, userID uint) gateway.CameraActivation {
	return gateway.CameraActivation{SessionToken: "test-camera-token", Activated: true}
}

func (g *stubCameraGateway) PushSummary(ctx context.Context, attemptID, userID uint, strikes int, canceled bool) error {
	return nil
}

// stubIncidentGateway surfaces the async cancellation alert on a channel so
// tests can await it.
type stubIncidentGateway struct {
	alerts chan uint
}

func newStubIncidentGateway() *stubIncidentGateway {
	return &stubIncidentGateway{alerts: make(chan uint, 8)}
}

func (g *stubIncidentGateway) AlertCancellation(ctx context.Context, userID, attemptID uint, examType string) error {
	g.alerts <- attemptID
	return nil
}

func (g *stubIncidentGateway) RelayIncident(ctx context.Context, attemptID uint, incidentType, severity string, details map[string]interface{}) error {
	return nil
}
