package repository

import (
	"github.com/quangdng/edumart/internal/model"
	"gorm.io/gorm"
)

type CourseRepository interface {
	Create(course *model.Course) error
	FindByID(id uint) (*model.Course, error)
	FindByIDWithChapters(id uint) (*model.Course, error)
	FindAllPublishedWithCounts() ([]struct {
		model.Course
		ChapterCount       int
		QuestionnaireCount int
	}, error)
	Update(course *model.Course) error
	Delete(id uint) error
}

type courseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) Create(course *model.Course) error {
	// GORM creates associated chapters and questionnaires when populated.
	return r.db.Create(course).Error
}

func (r *courseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.db.First(&course, id).Error
	return &course, err
}

func (r *courseRepository) FindByIDWithChapters(id uint) (*model.Course, error) {
	var course model.Course
	err := r.db.
		Preload("Chapters", func(db *gorm.DB) *gorm.DB {
			return db.Order("chapters.position ASC")
		}).
		Preload("Chapters.Questionnaires", func(db *gorm.DB) *gorm.DB {
			return db.Order("questionnaires.position ASC")
		}).
		First(&course, id).Error
	return &course, err
}

func (r *courseRepository) FindAllPublishedWithCounts() ([]struct {
	model.Course
	ChapterCount       int
	QuestionnaireCount int
}, error) {
	var results []struct {
		model.Course
		ChapterCount       int
		QuestionnaireCount int
	}
	err := r.db.Model(&model.Course{}).
		Select("courses.*, " +
			"(SELECT COUNT(*) FROM chapters WHERE chapters.course_id = courses.id AND chapters.deleted_at IS NULL) as chapter_count, " +
			"(SELECT COUNT(*) FROM questionnaires WHERE questionnaires.course_id = courses.id AND questionnaires.deleted_at IS NULL) as questionnaire_count").
		Where("courses.published = ?", true).
		Where("courses.deleted_at IS NULL").
		Order("courses.created_at DESC").
		Scan(&results).Error
	return results, err
}

func (r *courseRepository) Update(course *model.Course) error {
	return r.db.Save(course).Error
}

func (r *courseRepository) Delete(id uint) error {
	return r.db.Delete(&model.Course{}, id).Error
}
