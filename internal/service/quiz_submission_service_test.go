package service

import (
	"errors"
	"sync"
	"testing"

	"github.com/quangdng/edumart/internal/apperr"
	"github.com/quangdng/edumart/internal/model"
)

func newTestQuestionnaire(t *testing.T, repo *fakeQuestionnaireRepo, answers ...string) *model.Questionnaire {
	t.Helper()
	questions := make([]model.Question, len(answers))
	for i, answer := range answers {
		questions[i] = model.Question{
			Prompt:        "question " + answer,
			Options:       []string{answer, "other"},
			CorrectAnswer: answer,
			Position:      i + 1,
		}
	}
	q := &model.Questionnaire{
		CourseID:     1,
		ChapterID:    1,
		Title:        "Unit quiz",
		Position:     1,
		MinPassScore: 80,
		Questions:    questions,
	}
	if err := repo.Create(q); err != nil {
		t.Fatalf("creating questionnaire: %v", err)
	}
	return q
}

func TestSubmitAttemptScoresExample(t *testing.T) {
	repo := newFakeQuestionnaireRepo()
	ledger := newFakeAttemptLedger()
	engine := NewQuizSubmissionService(repo, ledger)

	q := newTestQuestionnaire(t, repo, "A", "true")
	q1, q2 := q.Questions[0].ID, q.Questions[1].ID

	result, err := engine.SubmitAttempt(7, q.ID, map[uint]string{q1: "a", q2: "false"})
	if err != nil {
		t.Fatalf("SubmitAttempt: %v", err)
	}
	if result.Score != 50 {
		t.Errorf("expected score 50, got %d", result.Score)
	}
	if result.CorrectCount != 1 {
		t.Errorf("expected 1 correct, got %d", result.CorrectCount)
	}
	if result.TotalQuestions != 2 {
		t.Errorf("expected 2 total questions, got %d", result.TotalQuestions)
	}
	if result.AttemptCount != 1 {
		t.Errorf("expected attempt count 1, got %d", result.AttemptCount)
	}
	if result.Passed {
		t.Errorf("score 50 should not pass a min score of 80")
	}
	if len(result.Feedback) != 2 {
		t.Fatalf("expected feedback for 2 questions, got %d", len(result.Feedback))
	}
	if !result.Feedback[0].IsCorrect || result.Feedback[1].IsCorrect {
		t.Errorf("unexpected feedback correctness: %+v", result.Feedback)
	}
}

func TestSubmitAttemptNormalizesAnswers(t *testing.T) {
	repo := newFakeQuestionnaireRepo()
	ledger := newFakeAttemptLedger()
	engine := NewQuizSubmissionService(repo, ledger)

	q := newTestQuestionnaire(t, repo, "paris")

	result, err := engine.SubmitAttempt(7, q.ID, map[uint]string{q.Questions[0].ID: "  Paris "})
	if err != nil {
		t.Fatalf("SubmitAttempt: %v", err)
	}
	if result.Score != 100 {
		t.Errorf("expected whitespace/case-insensitive match to score 100, got %d", result.Score)
	}
	if !result.Passed {
		t.Errorf("expected a full score to pass")
	}
}

func TestSubmitAttemptIgnoresForeignQuestionIDs(t *testing.T) {
	repo := newFakeQuestionnaireRepo()
	ledger := newFakeAttemptLedger()
	engine := NewQuizSubmissionService(repo, ledger)

	q := newTestQuestionnaire(t, repo, "A", "B")

	answers := map[uint]string{
		q.Questions[0].ID: "A",
		q.Questions[1].ID: "B",
		99999:             "A", // not part of the questionnaire
	}
	result, err := engine.SubmitAttempt(7, q.ID, answers)
	if err != nil {
		t.Fatalf("SubmitAttempt: %v", err)
	}
	if result.TotalQuestions != 2 {
		t.Errorf("foreign question id changed denominator: got %d", result.TotalQuestions)
	}
	if result.Score != 100 {
		t.Errorf("expected score 100, got %d", result.Score)
	}
}

func TestSubmitAttemptMissingAnswersCountIncorrect(t *testing.T) {
	repo := newFakeQuestionnaireRepo()
	ledger := newFakeAttemptLedger()
	engine := NewQuizSubmissionService(repo, ledger)

	q := newTestQuestionnaire(t, repo, "A", "B", "C")

	result, err := engine.SubmitAttempt(7, q.ID, map[uint]string{q.Questions[0].ID: "A"})
	if err != nil {
		t.Fatalf("SubmitAttempt: %v", err)
	}
	if result.Score != 33 {
		t.Errorf("expected round(100/3) = 33, got %d", result.Score)
	}
	if result.Feedback[1].SubmittedAnswer != nil {
		t.Errorf("unanswered question should have nil submitted answer")
	}
}

func TestSubmitAttemptUnconfiguredAnswerKeyCountsIncorrect(t *testing.T) {
	repo := newFakeQuestionnaireRepo()
	ledger := newFakeAttemptLedger()
	engine := NewQuizSubmissionService(repo, ledger)

	q := newTestQuestionnaire(t, repo, "A", "  ")

	answers := map[uint]string{
		q.Questions[0].ID: "A",
		q.Questions[1].ID: "  ", // matches the blank key textually, still incorrect
	}
	result, err := engine.SubmitAttempt(7, q.ID, answers)
	if err != nil {
		t.Fatalf("SubmitAttempt: %v", err)
	}
	if result.Score != 50 {
		t.Errorf("question without an answer key must count incorrect, got score %d", result.Score)
	}
}

func TestSubmitAttemptQuestionnaireNotFound(t *testing.T) {
	engine := NewQuizSubmissionService(newFakeQuestionnaireRepo(), newFakeAttemptLedger())

	_, err := engine.SubmitAttempt(7, 42, map[uint]string{})
	if !errors.Is(err, apperr.ErrQuestionnaireNotFound) {
		t.Errorf("expected ErrQuestionnaireNotFound, got %v", err)
	}
}

func TestSubmitAttemptNoQuestions(t *testing.T) {
	repo := newFakeQuestionnaireRepo()
	engine := NewQuizSubmissionService(repo, newFakeAttemptLedger())

	q := &model.Questionnaire{CourseID: 1, ChapterID: 1, Title: "empty", MinPassScore: 80}
	if err := repo.Create(q); err != nil {
		t.Fatalf("creating questionnaire: %v", err)
	}

	_, err := engine.SubmitAttempt(7, q.ID, map[uint]string{1: "A"})
	if !errors.Is(err, apperr.ErrNoQuestions) {
		t.Errorf("expected ErrNoQuestions, got %v", err)
	}
}

func TestSubmitAttemptEnforcesCeiling(t *testing.T) {
	repo := newFakeQuestionnaireRepo()
	ledger := newFakeAttemptLedger()
	engine := NewQuizSubmissionService(repo, ledger)

	q := newTestQuestionnaire(t, repo, "A")
	answers := map[uint]string{q.Questions[0].ID: "A"}

	for i := 1; i <= MaxQuizAttempts; i++ {
		result, err := engine.SubmitAttempt(7, q.ID, answers)
		if err != nil {
			t.Fatalf("attempt %d: %v", i, err)
		}
		if result.AttemptCount != i {
			t.Errorf("attempt %d reported count %d", i, result.AttemptCount)
		}
	}

	_, err := engine.SubmitAttempt(7, q.ID, answers)
	var limitErr *apperr.AttemptLimitError
	if !errors.As(err, &limitErr) {
		t.Fatalf("expected AttemptLimitError on 4th attempt, got %v", err)
	}
	if limitErr.Count != MaxQuizAttempts {
		t.Errorf("expected reported count %d, got %d", MaxQuizAttempts, limitErr.Count)
	}
	if !errors.Is(err, apperr.ErrAttemptLimitExceeded) {
		t.Errorf("AttemptLimitError should unwrap to ErrAttemptLimitExceeded")
	}

	// Another learner is unaffected by this learner's history.
	if _, err := engine.SubmitAttempt(8, q.ID, answers); err != nil {
		t.Errorf("different learner should not be gated: %v", err)
	}
}

func TestSubmitAttemptConcurrentCeiling(t *testing.T) {
	repo := newFakeQuestionnaireRepo()
	ledger := newFakeAttemptLedger()
	engine := NewQuizSubmissionService(repo, ledger)

	q := newTestQuestionnaire(t, repo, "A")
	answers := map[uint]string{q.Questions[0].ID: "A"}

	const submissions = 5
	var wg sync.WaitGroup
	errs := make([]error, submissions)
	for i := 0; i < submissions; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			_, errs[idx] = engine.SubmitAttempt(7, q.ID, answers)
		}(i)
	}
	wg.Wait()

	succeeded, limited := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, apperr.ErrAttemptLimitExceeded):
			limited++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != MaxQuizAttempts {
		t.Errorf("expected exactly %d recorded attempts, got %d", MaxQuizAttempts, succeeded)
	}
	if limited != submissions-MaxQuizAttempts {
		t.Errorf("expected %d refused submissions, got %d", submissions-MaxQuizAttempts, limited)
	}

	recorded, err := ledger.CountByUserAndQuestionnaire(7, q.ID)
	if err != nil {
		t.Fatalf("CountByUserAndQuestionnaire: %v", err)
	}
	if recorded != MaxQuizAttempts {
		t.Errorf("ledger holds %d attempts, want %d", recorded, MaxQuizAttempts)
	}
}

func TestCountAttemptsIsStable(t *testing.T) {
	repo := newFakeQuestionnaireRepo()
	ledger := newFakeAttemptLedger()
	engine := NewQuizSubmissionService(repo, ledger)

	q := newTestQuestionnaire(t, repo, "A")
	if _, err := engine.SubmitAttempt(7, q.ID, map[uint]string{q.Questions[0].ID: "A"}); err != nil {
		t.Fatalf("SubmitAttempt: %v", err)
	}

	first, err := engine.CountAttempts(7, q.ID)
	if err != nil {
		t.Fatalf("CountAttempts: %v", err)
	}
	second, err := engine.CountAttempts(7, q.ID)
	if err != nil {
		t.Fatalf("CountAttempts: %v", err)
	}
	if first != 1 || second != 1 {
		t.Errorf("expected stable count of 1, got %d then %d", first, second)
	}
}

func TestGetUserAttemptsMostRecentFirst(t *testing.T) {
	repo := newFakeQuestionnaireRepo()
	ledger := newFakeAttemptLedger()
	engine := NewQuizSubmissionService(repo, ledger)

	q := newTestQuestionnaire(t, repo, "A")
	qid := q.Questions[0].ID

	if _, err := engine.SubmitAttempt(7, q.ID, map[uint]string{qid: "A"}); err != nil {
		t.Fatalf("first attempt: %v", err)
	}
	if _, err := engine.SubmitAttempt(7, q.ID, map[uint]string{qid: "wrong"}); err != nil {
		t.Fatalf("second attempt: %v", err)
	}

	attempts, err := engine.GetUserAttempts(7, q.ID)
	if err != nil {
		t.Fatalf("GetUserAttempts: %v", err)
	}
	if len(attempts) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(attempts))
	}
	if attempts[0].Score != 0 || attempts[1].Score != 100 {
		t.Errorf("expected most recent first (0 then 100), got %d then %d", attempts[0].Score, attempts[1].Score)
	}
}

func TestGetAttemptDetailsHidesOtherLearners(t *testing.T) {
	repo := newFakeQuestionnaireRepo()
	ledger := newFakeAttemptLedger()
	engine := NewQuizSubmissionService(repo, ledger)

	q := newTestQuestionnaire(t, repo, "A")
	result, err := engine.SubmitAttempt(7, q.ID, map[uint]string{q.Questions[0].ID: "A"})
	if err != nil {
		t.Fatalf("SubmitAttempt: %v", err)
	}

	if _, err := engine.GetAttemptDetails(7, result.AttemptID); err != nil {
		t.Errorf("owner should see their attempt: %v", err)
	}
	if _, err := engine.GetAttemptDetails(8, result.AttemptID); err == nil {
		t.Errorf("another learner must not see the attempt")
	}
}

func TestScoreRounding(t *testing.T) {
	// round-half-up semantics across a few denominators
	cases := []struct {
		correct int
		total   int
		want    int
	}{
		{0, 1, 0},
		{1, 1, 100},
		{1, 2, 50},
		{1, 3, 33},
		{2, 3, 67},
		{1, 6, 17},
		{5, 6, 83},
		{1, 8, 13}, // 12.5 rounds up
		{3, 8, 38}, // 37.5 rounds up
	}
	for _, tc := range cases {
		repo := newFakeQuestionnaireRepo()
		engine := NewQuizSubmissionService(repo, newFakeAttemptLedger())

		answers := make([]string, tc.total)
		for i := range answers {
			answers[i] = "opt"
		}
		q := newTestQuestionnaire(t, repo, answers...)

		submission := make(map[uint]string, tc.correct)
		for i := 0; i < tc.correct; i++ {
			submission[q.Questions[i].ID] = "opt"
		}
		result, err := engine.SubmitAttempt(7, q.ID, submission)
		if err != nil {
			t.Fatalf("%d/%d: SubmitAttempt: %v", tc.correct, tc.total, err)
		}
		if result.Score != tc.want {
			t.Errorf("%d/%d: expected score %d, got %d", tc.correct, tc.total, tc.want, result.Score)
		}
		if result.Score < 0 || result.Score > 100 {
			t.Errorf("%d/%d: score out of bounds: %d", tc.correct, tc.total, result.Score)
		}
	}
}
