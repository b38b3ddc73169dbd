package service

import (
	"errors"
	"testing"

	"github.com/quangdng/edumart/internal/apperr"
	"github.com/quangdng/edumart/internal/model"
)

type certificateFixture struct {
	svc        CertificateService
	courseRepo *fakeCourseRepo
	quizRepo   *fakeQuestionnaireRepo
	ledger     *fakeAttemptLedger
	certRepo   *fakeCertificateRepo
}

func newCertificateFixture() *certificateFixture {
	f := &certificateFixture{
		courseRepo: newFakeCourseRepo(),
		quizRepo:   newFakeQuestionnaireRepo(),
		ledger:     newFakeAttemptLedger(),
		certRepo:   newFakeCertificateRepo(),
	}
	f.svc = NewCertificateService(f.courseRepo, f.quizRepo, f.ledger, f.certRepo)
	return f
}

func (f *certificateFixture) seedCourse(t *testing.T) *model.Course {
	t.Helper()
	course := &model.Course{Title: "Go Basics", Published: true}
	if err := f.courseRepo.Create(course); err != nil {
		t.Fatalf("creating course: %v", err)
	}
	return course
}

func (f *certificateFixture) seedQuiz(t *testing.T, courseID uint, required bool, minPassScore int) *model.Questionnaire {
	t.Helper()
	q := &model.Questionnaire{
		CourseID:     courseID,
		ChapterID:    1,
		Title:        "Quiz",
		Required:     required,
		MinPassScore: minPassScore,
	}
	if err := f.quizRepo.Create(q); err != nil {
		t.Fatalf("creating questionnaire: %v", err)
	}
	return q
}

func TestIssueCertificateWhenAllRequiredPassed(t *testing.T) {
	f := newCertificateFixture()
	course := f.seedCourse(t)
	required := f.seedQuiz(t, course.ID, true, 80)
	f.seedQuiz(t, course.ID, false, 80) // optional quiz, never attempted

	recordAttempt(t, f.ledger, 7, required.ID, 85)

	cert, err := f.svc.IssueCertificate(7, course.ID)
	if err != nil {
		t.Fatalf("IssueCertificate: %v", err)
	}
	if cert.SerialNumber == "" {
		t.Errorf("certificate issued without a serial number")
	}
	if cert.CourseID != course.ID {
		t.Errorf("certificate bound to course %d, want %d", cert.CourseID, course.ID)
	}
}

func TestIssueCertificateIdempotent(t *testing.T) {
	f := newCertificateFixture()
	course := f.seedCourse(t)
	required := f.seedQuiz(t, course.ID, true, 80)
	recordAttempt(t, f.ledger, 7, required.ID, 100)

	first, err := f.svc.IssueCertificate(7, course.ID)
	if err != nil {
		t.Fatalf("first issue: %v", err)
	}
	second, err := f.svc.IssueCertificate(7, course.ID)
	if err != nil {
		t.Fatalf("re-issue: %v", err)
	}
	if first.SerialNumber != second.SerialNumber {
		t.Errorf("re-issue minted a new serial: %s vs %s", first.SerialNumber, second.SerialNumber)
	}
}

func TestIssueCertificateRequiredQuizUnattempted(t *testing.T) {
	f := newCertificateFixture()
	course := f.seedCourse(t)
	f.seedQuiz(t, course.ID, true, 80)

	_, err := f.svc.IssueCertificate(7, course.ID)
	if !errors.Is(err, apperr.ErrCourseNotCompleted) {
		t.Errorf("expected ErrCourseNotCompleted, got %v", err)
	}
}

func TestIssueCertificateLatestAttemptBelowPassScore(t *testing.T) {
	f := newCertificateFixture()
	course := f.seedCourse(t)
	required := f.seedQuiz(t, course.ID, true, 80)

	recordAttempt(t, f.ledger, 7, required.ID, 90)
	recordAttempt(t, f.ledger, 7, required.ID, 50) // most recent attempt decides

	_, err := f.svc.IssueCertificate(7, course.ID)
	if !errors.Is(err, apperr.ErrCourseNotCompleted) {
		t.Errorf("expected ErrCourseNotCompleted when the latest attempt fails, got %v", err)
	}
}

func TestIssueCertificateCourseWithoutRequiredQuizzes(t *testing.T) {
	f := newCertificateFixture()
	course := f.seedCourse(t)
	f.seedQuiz(t, course.ID, false, 80)

	cert, err := f.svc.IssueCertificate(7, course.ID)
	if err != nil {
		t.Fatalf("a course with no required quizzes should certify immediately: %v", err)
	}
	if cert.SerialNumber == "" {
		t.Errorf("certificate issued without a serial number")
	}
}

func TestIssueCertificateCourseNotFound(t *testing.T) {
	f := newCertificateFixture()

	_, err := f.svc.IssueCertificate(7, 404)
	if !errors.Is(err, apperr.ErrCourseNotFound) {
		t.Errorf("expected ErrCourseNotFound, got %v", err)
	}
}
