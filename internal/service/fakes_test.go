package service

import (
	"sync"
	"time"

	"github.com/quangdng/edumart/internal/apperr"
	"github.com/quangdng/edumart/internal/model"
	"github.com/quangdng/edumart/internal/repository"
	"gorm.io/gorm"
)

// In-memory fakes for the repository interfaces. The attempt ledger fake
// mirrors the real one's guarantees: most-recent-first ordering and an
// atomic capped insert.

type fakeQuestionnaireRepo struct {
	mu             sync.Mutex
	nextID         uint
	questionnaires map[uint]*model.Questionnaire
}

func newFakeQuestionnaireRepo() *fakeQuestionnaireRepo {
	return &fakeQuestionnaireRepo{questionnaires: make(map[uint]*model.Questionnaire)}
}

func (f *fakeQuestionnaireRepo) Create(q *model.Questionnaire) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	q.ID = f.nextID
	for i := range q.Questions {
		q.Questions[i].ID = q.ID*100 + uint(i) + 1
		q.Questions[i].QuestionnaireID = q.ID
	}
	f.questionnaires[q.ID] = q
	return nil
}

func (f *fakeQuestionnaireRepo) FindByID(id uint) (*model.Questionnaire, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q, ok := f.questionnaires[id]
	if !ok {
		return &model.Questionnaire{}, gorm.ErrRecordNotFound
	}
	return q, nil
}

func (f *fakeQuestionnaireRepo) FindByIDWithQuestions(id uint) (*model.Questionnaire, error) {
	return f.FindByID(id)
}

func (f *fakeQuestionnaireRepo) FindQuestions(questionnaireID uint) ([]model.Question, error) {
	q, err := f.FindByID(questionnaireID)
	if err != nil {
		return nil, err
	}
	return q.Questions, nil
}

func (f *fakeQuestionnaireRepo) FindByCourseID(courseID uint) ([]model.Questionnaire, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Questionnaire
	for _, q := range f.questionnaires {
		if q.CourseID == courseID {
			out = append(out, *q)
		}
	}
	return out, nil
}

func (f *fakeQuestionnaireRepo) Update(q *model.Questionnaire) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.questionnaires[q.ID] = q
	return nil
}

func (f *fakeQuestionnaireRepo) Delete(id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.questionnaires, id)
	return nil
}

type fakeAttemptLedger struct {
	mu       sync.Mutex
	nextID   uint
	attempts []model.Attempt
}

func newFakeAttemptLedger() *fakeAttemptLedger {
	return &fakeAttemptLedger{}
}

func (f *fakeAttemptLedger) CountByUserAndQuestionnaire(userID, questionnaireID uint) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.countLocked(userID, questionnaireID), nil
}

func (f *fakeAttemptLedger) countLocked(userID, questionnaireID uint) int {
	n := 0
	for _, a := range f.attempts {
		if a.UserID == userID && a.QuestionnaireID == questionnaireID {
			n++
		}
	}
	return n
}

func (f *fakeAttemptLedger) FindAllByUserAndQuestionnaire(userID, questionnaireID uint) ([]model.Attempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	// Insertion order with ascending ids doubles as chronological order, so
	// walking backwards yields most-recent-first.
	var out []model.Attempt
	for i := len(f.attempts) - 1; i >= 0; i-- {
		a := f.attempts[i]
		if a.UserID == userID && a.QuestionnaireID == questionnaireID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAttemptLedger) FindByIDWithAnswers(id uint) (*model.Attempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.attempts {
		if a.ID == id {
			found := a
			return &found, nil
		}
	}
	return &model.Attempt{}, gorm.ErrRecordNotFound
}

func (f *fakeAttemptLedger) CreateCapped(attempt *model.Attempt, maxAttempts int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := f.countLocked(attempt.UserID, attempt.QuestionnaireID)
	if count >= maxAttempts {
		return &apperr.AttemptLimitError{Count: count}
	}
	f.nextID++
	attempt.ID = f.nextID
	if attempt.CreatedAt.IsZero() {
		attempt.CreatedAt = time.Now()
	}
	f.attempts = append(f.attempts, *attempt)
	return nil
}

func (f *fakeAttemptLedger) StatsByCourse(courseID uint) ([]repository.QuestionnaireStats, error) {
	return nil, nil
}

type fakeCourseRepo struct {
	mu      sync.Mutex
	nextID  uint
	courses map[uint]*model.Course
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{courses: make(map[uint]*model.Course)}
}

func (f *fakeCourseRepo) Create(course *model.Course) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	course.ID = f.nextID
	f.courses[course.ID] = course
	return nil
}

func (f *fakeCourseRepo) FindByID(id uint) (*model.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	course, ok := f.courses[id]
	if !ok {
		return &model.Course{}, gorm.ErrRecordNotFound
	}
	return course, nil
}

func (f *fakeCourseRepo) FindByIDWithChapters(id uint) (*model.Course, error) {
	return f.FindByID(id)
}

func (f *fakeCourseRepo) FindAllPublishedWithCounts() ([]struct {
	model.Course
	ChapterCount       int
	QuestionnaireCount int
}, error) {
	return nil, nil
}

func (f *fakeCourseRepo) Update(course *model.Course) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.courses[course.ID] = course
	return nil
}

func (f *fakeCourseRepo) Delete(id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.courses, id)
	return nil
}

type fakeCertificateRepo struct {
	mu     sync.Mutex
	nextID uint
	certs  []model.Certificate
}

func newFakeCertificateRepo() *fakeCertificateRepo {
	return &fakeCertificateRepo{}
}

func (f *fakeCertificateRepo) Create(cert *model.Certificate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	cert.ID = f.nextID
	if cert.IssuedAt.IsZero() {
		cert.IssuedAt = time.Now()
	}
	f.certs = append(f.certs, *cert)
	return nil
}

func (f *fakeCertificateRepo) FindByUserAndCourse(userID, courseID uint) (*model.Certificate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.certs {
		if c.UserID == userID && c.CourseID == courseID {
			found := c
			return &found, nil
		}
	}
	return &model.Certificate{}, gorm.ErrRecordNotFound
}

type fakeEnrollmentRepo struct {
	mu          sync.Mutex
	nextID      uint
	enrollments []model.Enrollment
}

func newFakeEnrollmentRepo() *fakeEnrollmentRepo {
	return &fakeEnrollmentRepo{}
}

func (f *fakeEnrollmentRepo) Create(e *model.Enrollment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	e.ID = f.nextID
	f.enrollments = append(f.enrollments, *e)
	return nil
}

func (f *fakeEnrollmentRepo) Exists(userID, courseID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.enrollments {
		if e.UserID == userID && e.CourseID == courseID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeEnrollmentRepo) CountByCourse(courseID uint) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, e := range f.enrollments {
		if e.CourseID == courseID {
			n++
		}
	}
	return n, nil
}

type fakeOrderRepo struct {
	mu     sync.Mutex
	nextID uint
	orders map[string]*model.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[string]*model.Order)}
}

func (f *fakeOrderRepo) Create(order *model.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	order.ID = f.nextID
	f.orders[order.OrderCode] = order
	return nil
}

func (f *fakeOrderRepo) FindByOrderCode(orderCode string) (*model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[orderCode]
	if !ok {
		return &model.Order{}, gorm.ErrRecordNotFound
	}
	return order, nil
}

func (f *fakeOrderRepo) Update(order *model.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders[order.OrderCode] = order
	return nil
}
