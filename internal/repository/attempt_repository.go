package repository

import (
	"fmt"

	"github.com/quangdng/edumart/internal/apperr"
	"github.com/quangdng/edumart/internal/model"
	"gorm.io/gorm"
)

// AttemptRepository is the append-only attempt ledger. There is deliberately
// no Update or Delete: once recorded, an attempt is immutable even if the
// questionnaire it belongs to is later edited or removed.
type AttemptRepository interface {
	CountByUserAndQuestionnaire(userID, questionnaireID uint) (int, error)
	FindAllByUserAndQuestionnaire(userID, questionnaireID uint) ([]model.Attempt, error)
	FindByIDWithAnswers(id uint) (*model.Attempt, error)
	// CreateCapped appends the attempt after re-checking the attempt count
	// inside the same transaction, so two concurrent submissions cannot both
	// slip under the ceiling. Returns *apperr.AttemptLimitError when the cap
	// is already reached.
	CreateCapped(attempt *model.Attempt, maxAttempts int) error
	StatsByCourse(courseID uint) ([]QuestionnaireStats, error)
}

// QuestionnaireStats is a dashboard aggregate over the ledger.
type QuestionnaireStats struct {
	QuestionnaireID uint
	AttemptCount    int
	AverageScore    float64
}

type attemptRepository struct {
	db *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) AttemptRepository {
	return &attemptRepository{db: db}
}

func (r *attemptRepository) CountByUserAndQuestionnaire(userID, questionnaireID uint) (int, error) {
	var count int64
	err := r.db.Model(&model.Attempt{}).
		Where("user_id = ? AND questionnaire_id = ?", userID, questionnaireID).
		Count(&count).Error
	return int(count), err
}

func (r *attemptRepository) FindAllByUserAndQuestionnaire(userID, questionnaireID uint) ([]model.Attempt, error) {
	var attempts []model.Attempt
	// id DESC breaks ties between attempts sharing a timestamp, so "most
	// recent first" stays deterministic.
	err := r.db.Where("user_id = ? AND questionnaire_id = ?", userID, questionnaireID).
		Order("created_at DESC, id DESC").
		Find(&attempts).Error
	return attempts, err
}

func (r *attemptRepository) FindByIDWithAnswers(id uint) (*model.Attempt, error) {
	var attempt model.Attempt
	err := r.db.Preload("Answers").First(&attempt, id).Error
	return &attempt, err
}

func (r *attemptRepository) CreateCapped(attempt *model.Attempt, maxAttempts int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// Serialize concurrent submissions for the same (learner,
		// questionnaire) pair; the lock is released at commit/rollback.
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?, ?)",
			int32(attempt.UserID), int32(attempt.QuestionnaireID)).Error; err != nil {
			return fmt.Errorf("%w: acquiring submission lock: %v", apperr.ErrWriteConflict, err)
		}

		var count int64
		if err := tx.Model(&model.Attempt{}).
			Where("user_id = ? AND questionnaire_id = ?", attempt.UserID, attempt.QuestionnaireID).
			Count(&count).Error; err != nil {
			return fmt.Errorf("%w: counting attempts: %v", apperr.ErrWriteConflict, err)
		}
		if int(count) >= maxAttempts {
			return &apperr.AttemptLimitError{Count: int(count)}
		}

		if err := tx.Create(attempt).Error; err != nil {
			return fmt.Errorf("%w: recording attempt: %v", apperr.ErrWriteConflict, err)
		}
		return nil
	})
}

func (r *attemptRepository) StatsByCourse(courseID uint) ([]QuestionnaireStats, error) {
	var stats []QuestionnaireStats
	err := r.db.Model(&model.Attempt{}).
		Select("attempts.questionnaire_id, COUNT(*) as attempt_count, AVG(attempts.score) as average_score").
		Joins("JOIN questionnaires ON questionnaires.id = attempts.questionnaire_id").
		Where("questionnaires.course_id = ?", courseID).
		Group("attempts.questionnaire_id").
		Scan(&stats).Error
	return stats, err
}
