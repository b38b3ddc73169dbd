package service

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/quangdng/edumart/internal/apperr"
	"github.com/quangdng/edumart/internal/dto"
	"github.com/quangdng/edumart/internal/model"
	"github.com/quangdng/edumart/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// MaxQuizAttempts is the hard ceiling on attempts per learner and
// questionnaire. Kept as a single named constant so it can be promoted to a
// per-questionnaire setting without reshaping the engine.
const MaxQuizAttempts = 3

// QuizSubmissionService scores a learner's submission against the stored
// answer keys and gates it behind the attempt ceiling.
type QuizSubmissionService interface {
	SubmitAttempt(userID, questionnaireID uint, answers map[uint]string) (*dto.QuizResultDTO, error)
	CountAttempts(userID, questionnaireID uint) (int, error)
	GetUserAttempts(userID, questionnaireID uint) ([]dto.AttemptSummaryDTO, error)
	GetAttemptDetails(userID, attemptID uint) (*dto.AttemptDetailDTO, error)
}

type quizSubmissionService struct {
	questionnaireRepo repository.QuestionnaireRepository
	attemptRepo       repository.AttemptRepository
}

func NewQuizSubmissionService(
	questionnaireRepo repository.QuestionnaireRepository,
	attemptRepo repository.AttemptRepository,
) QuizSubmissionService {
	return &quizSubmissionService{
		questionnaireRepo: questionnaireRepo,
		attemptRepo:       attemptRepo,
	}
}

// normalizeAnswer makes answer comparison case- and whitespace-insensitive.
func normalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// SubmitAttempt runs the submission pipeline: gate on the attempt ceiling,
// score each question against its answer key, append the attempt to the
// ledger, and return per-question feedback.
func (s *quizSubmissionService) SubmitAttempt(userID, questionnaireID uint, answers map[uint]string) (*dto.QuizResultDTO, error) {
	// Gate first: history is the only thing that can refuse a submission, so
	// check it before any scoring work. The ledger re-checks the ceiling
	// atomically at insert time; this early check just avoids wasted work.
	prior, err := s.attemptRepo.CountByUserAndQuestionnaire(userID, questionnaireID)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Uint("questionnaireID", questionnaireID).Msg("SubmitAttempt: failed to count prior attempts")
		return nil, fmt.Errorf("counting attempts: %w", err)
	}
	if prior >= MaxQuizAttempts {
		return nil, &apperr.AttemptLimitError{Count: prior}
	}

	questionnaire, err := s.questionnaireRepo.FindByIDWithQuestions(questionnaireID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrQuestionnaireNotFound
		}
		log.Error().Err(err).Uint("questionnaireID", questionnaireID).Msg("SubmitAttempt: failed to load questionnaire")
		return nil, fmt.Errorf("loading questionnaire %d: %w", questionnaireID, err)
	}
	if len(questionnaire.Questions) == 0 {
		return nil, apperr.ErrNoQuestions
	}

	// Grade every question of the questionnaire, in position order. Answer
	// entries for question ids outside the questionnaire are ignored; a
	// missing submission or an unconfigured answer key counts as incorrect,
	// never as an error, so the denominator stays intact.
	totalQuestions := len(questionnaire.Questions)
	correctCount := 0
	attemptAnswers := make([]model.AttemptAnswer, 0, totalQuestions)
	for _, question := range questionnaire.Questions {
		var submittedPtr *string
		submitted, answered := answers[question.ID]
		if answered {
			v := submitted
			submittedPtr = &v
		}

		isCorrect := false
		key := normalizeAnswer(question.CorrectAnswer)
		if answered && key != "" && normalizeAnswer(submitted) == key {
			isCorrect = true
			correctCount++
		}

		attemptAnswers = append(attemptAnswers, model.AttemptAnswer{
			QuestionID:      question.ID,
			SubmittedAnswer: submittedPtr,
			IsCorrect:       isCorrect,
		})
	}

	score := int(math.Round(float64(correctCount) / float64(totalQuestions) * 100))

	attempt := model.Attempt{
		UserID:          userID,
		QuestionnaireID: questionnaireID,
		Score:           score,
		Answers:         attemptAnswers,
	}
	if err := s.attemptRepo.CreateCapped(&attempt, MaxQuizAttempts); err != nil {
		var limitErr *apperr.AttemptLimitError
		if errors.As(err, &limitErr) {
			// A concurrent submission filled the last slot between the gate
			// check and the insert.
			return nil, limitErr
		}
		log.Error().Err(err).Uint("userID", userID).Uint("questionnaireID", questionnaireID).Msg("SubmitAttempt: failed to record attempt")
		return nil, err
	}

	feedback := make([]dto.QuestionFeedbackDTO, len(attempt.Answers))
	for i, a := range attempt.Answers {
		feedback[i] = dto.QuestionFeedbackDTO{
			QuestionID:      a.QuestionID,
			SubmittedAnswer: a.SubmittedAnswer,
			IsCorrect:       a.IsCorrect,
		}
	}

	log.Info().
		Uint("userID", userID).
		Uint("questionnaireID", questionnaireID).
		Int("score", score).
		Int("attempt", prior+1).
		Msg("Quiz attempt scored")

	return &dto.QuizResultDTO{
		AttemptID:      attempt.ID,
		Score:          score,
		AttemptCount:   prior + 1,
		CorrectCount:   correctCount,
		TotalQuestions: totalQuestions,
		Passed:         score >= questionnaire.MinPassScore,
		Feedback:       feedback,
	}, nil
}

func (s *quizSubmissionService) CountAttempts(userID, questionnaireID uint) (int, error) {
	count, err := s.attemptRepo.CountByUserAndQuestionnaire(userID, questionnaireID)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Uint("questionnaireID", questionnaireID).Msg("CountAttempts: ledger read failed")
		return 0, fmt.Errorf("counting attempts: %w", err)
	}
	return count, nil
}

func (s *quizSubmissionService) GetUserAttempts(userID, questionnaireID uint) ([]dto.AttemptSummaryDTO, error) {
	attempts, err := s.attemptRepo.FindAllByUserAndQuestionnaire(userID, questionnaireID)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Uint("questionnaireID", questionnaireID).Msg("GetUserAttempts: ledger read failed")
		return nil, fmt.Errorf("fetching attempts: %w", err)
	}

	summaries := make([]dto.AttemptSummaryDTO, len(attempts))
	for i, attempt := range attempts {
		summaries[i] = dto.AttemptSummaryDTO{
			ID:              attempt.ID,
			QuestionnaireID: attempt.QuestionnaireID,
			Score:           attempt.Score,
			CreatedAt:       attempt.CreatedAt,
		}
	}
	return summaries, nil
}

func (s *quizSubmissionService) GetAttemptDetails(userID, attemptID uint) (*dto.AttemptDetailDTO, error) {
	attempt, err := s.attemptRepo.FindByIDWithAnswers(attemptID)
	if err != nil {
		log.Warn().Err(err).Uint("attemptID", attemptID).Msg("GetAttemptDetails: attempt not found")
		return nil, fmt.Errorf("attempt not found with ID %d: %w", attemptID, err)
	}
	if attempt.UserID != userID {
		// Another learner's attempt is indistinguishable from a missing one.
		return nil, fmt.Errorf("attempt not found with ID %d: %w", attemptID, gorm.ErrRecordNotFound)
	}

	answers := make([]dto.QuestionFeedbackDTO, len(attempt.Answers))
	for i, a := range attempt.Answers {
		answers[i] = dto.QuestionFeedbackDTO{
			QuestionID:      a.QuestionID,
			SubmittedAnswer: a.SubmittedAnswer,
			IsCorrect:       a.IsCorrect,
		}
	}

	return &dto.AttemptDetailDTO{
		ID:              attempt.ID,
		QuestionnaireID: attempt.QuestionnaireID,
		Score:           attempt.Score,
		Answers:         answers,
		CreatedAt:       attempt.CreatedAt,
	}, nil
}
