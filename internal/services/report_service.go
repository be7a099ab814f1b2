package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/campus-hub/learning-platform/internal/models"
	"github.com/campus-hub/learning-platform/internal/repositories"
)

type reportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewReportService(repo repositories.Repository, logger *slog.Logger) ReportService {
	return &reportService{repo: repo, logger: logger}
}

// CourseGradebook builds an .xlsx workbook for one course: a row per
// enrollment with progress, status, grade and quiz average.
func (s *reportService) CourseGradebook(ctx context.Context, courseID uint) ([]byte, error) {
	course, err := s.repo.Courses().GetByID(ctx, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, wrapError(KindStore, err, "failed to get course %d", courseID)
	}

	enrollments, _, err := s.repo.Enrollments().List(ctx, repositories.EnrollmentFilters{
		CourseID: &courseID,
	})
	if err != nil {
		return nil, wrapError(KindStore, err, "failed to list enrollments")
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Gradebook"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headers := []string{"Student ID", "Student Name", "Email", "Status", "Progress %", "Final Grade", "Quiz Avg", "Enrolled At", "Completed At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, wrapError(KindStore, err, "failed to write header")
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(headers), 1)
		_ = f.SetCellStyle(sheet, "A1", last, headerStyle)
	}

	for i, e := range enrollments {
		row := i + 2

		student, err := s.repo.Users().GetByID(ctx, e.StudentID)
		if err != nil {
			// A deleted student still has a gradebook row; fall back to the id.
			student = &models.User{ID: e.StudentID, Name: fmt.Sprintf("user %d", e.StudentID)}
		}

		quizAvg, err := s.repo.QuizSubmissions().AverageScoreByStudent(ctx, e.StudentID)
		if err != nil {
			return nil, wrapError(KindStore, err, "failed to compute quiz average for student %d", e.StudentID)
		}

		values := []interface{}{
			e.StudentID,
			student.Name,
			student.Email,
			string(e.Status),
			e.ProgressPercentage,
			gradeCell(e.FinalGrade),
			quizAvg,
			e.EnrolledAt.Format("2006-01-02"),
			completedCell(e),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, wrapError(KindStore, err, "failed to write row %d", row)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, wrapError(KindStore, err, "failed to render workbook")
	}

	s.logger.InfoContext(ctx, "Gradebook exported",
		"course_id", courseID,
		"course_title", course.Title,
		"rows", len(enrollments))
	return buf.Bytes(), nil
}

func gradeCell(grade *float64) interface{} {
	if grade == nil {
		return ""
	}
	return *grade
}

func completedCell(e *models.Enrollment) string {
	if e.CompletedAt == nil {
		return ""
	}
	return e.CompletedAt.Format("2006-01-02")
}
