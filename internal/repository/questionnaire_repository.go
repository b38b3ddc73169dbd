package repository

import (
	"github.com/quangdng/edumart/internal/model"
	"gorm.io/gorm"
)

// QuestionnaireRepository is read-only from the quiz engine's point of view;
// the mutating methods exist for instructor CRUD only.
type QuestionnaireRepository interface {
	Create(questionnaire *model.Questionnaire) error
	FindByID(id uint) (*model.Questionnaire, error)
	FindByIDWithQuestions(id uint) (*model.Questionnaire, error)
	FindQuestions(questionnaireID uint) ([]model.Question, error)
	FindByCourseID(courseID uint) ([]model.Questionnaire, error)
	Update(questionnaire *model.Questionnaire) error
	Delete(id uint) error
}

type questionnaireRepository struct {
	db *gorm.DB
}

func NewQuestionnaireRepository(db *gorm.DB) QuestionnaireRepository {
	return &questionnaireRepository{db: db}
}

func (r *questionnaireRepository) Create(questionnaire *model.Questionnaire) error {
	return r.db.Create(questionnaire).Error
}

func (r *questionnaireRepository) FindByID(id uint) (*model.Questionnaire, error) {
	var questionnaire model.Questionnaire
	err := r.db.First(&questionnaire, id).Error
	return &questionnaire, err
}

func (r *questionnaireRepository) FindByIDWithQuestions(id uint) (*model.Questionnaire, error) {
	var questionnaire model.Questionnaire
	err := r.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("questions.position ASC")
	}).First(&questionnaire, id).Error
	return &questionnaire, err
}

func (r *questionnaireRepository) FindQuestions(questionnaireID uint) ([]model.Question, error) {
	var questions []model.Question
	err := r.db.Where("questionnaire_id = ?", questionnaireID).
		Order("position ASC").
		Find(&questions).Error
	return questions, err
}

func (r *questionnaireRepository) FindByCourseID(courseID uint) ([]model.Questionnaire, error) {
	var questionnaires []model.Questionnaire
	err := r.db.Where("course_id = ?", courseID).
		Order("position ASC").
		Find(&questionnaires).Error
	return questionnaires, err
}

func (r *questionnaireRepository) Update(questionnaire *model.Questionnaire) error {
	return r.db.Save(questionnaire).Error
}

// Delete cascades to the questionnaire's questions via the FK constraint.
// Historical attempts are never touched.
func (r *questionnaireRepository) Delete(id uint) error {
	return r.db.Delete(&model.Questionnaire{}, id).Error
}
