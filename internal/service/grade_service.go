package service

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"peoplefirst_backend/internal/model"
	"peoplefirst_backend/internal/repository"
)

// GradeStore is the persistence surface the grade service needs.
type GradeStore interface {
	Create(grade *model.Grade) error
	CreateBatch(grades []model.Grade) error
	FindByID(id string) (*model.Grade, error)
	FindByUser(userID uint, semester string, gradeType model.GradeType) ([]model.Grade, error)
	Update(grade *model.Grade) error
	Delete(id string) error
	FindSemesters(userID uint) ([]string, error)
}

var _ GradeStore = (*repository.GradeRepository)(nil)

type GradeService struct {
	Grades GradeStore
}

func NewGradeService(grades GradeStore) *GradeService {
	return &GradeService{Grades: grades}
}

// LetterGrade maps a percentage onto the letter scale.
func LetterGrade(percentage float64) string {
	switch {
	case percentage >= 90:
		return "A"
	case percentage >= 80:
		return "B"
	case percentage >= 70:
		return "C"
	case percentage >= 60:
		return "D"
	default:
		return "F"
	}
}

// GradePoints converts a score ratio onto the 4.0 scale.
func GradePoints(score, maxScore float64) float64 {
	if maxScore <= 0 {
		return 0
	}
	return score / maxScore * 4
}

// ComputeGPA averages grade points over the given grades, rounded to
// two decimals. An empty slice yields 0.
func ComputeGPA(grades []model.Grade) float64 {
	if len(grades) == 0 {
		return 0
	}
	sum := 0.0
	for _, g := range grades {
		sum += GradePoints(g.Score, g.MaxScore)
	}
	return math.Round(sum/float64(len(grades))*100) / 100
}

// fill derives percentage, letter grade and pass state from the raw
// score before a grade row is stored.
func fill(grade *model.Grade) {
	if grade.MaxScore > 0 {
		grade.Percentage = math.Round(grade.Score/grade.MaxScore*10000) / 100
	}
	grade.LetterGrade = LetterGrade(grade.Percentage)
	grade.IsPassed = grade.Score >= 0.6*grade.MaxScore
	if grade.GradedAt == nil {
		now := time.Now()
		grade.GradedAt = &now
	}
}

type GradeInput struct {
	UserID   uint            `json:"userId" binding:"required"`
	CourseID string          `json:"courseId"`
	SkillID  string          `json:"skillId"`
	Type     model.GradeType `json:"gradeType" binding:"required"`
	Title    string          `json:"title" binding:"required"`
	Semester string          `json:"semester"`
	Credits  int             `json:"credits"`
	MaxScore float64         `json:"maxScore" binding:"required,gt=0"`
	Score    float64         `json:"score" binding:"min=0"`
	Feedback string          `json:"feedback"`
}

func (s *GradeService) Record(graderID uint, input GradeInput) (*model.Grade, error) {
	credits := input.Credits
	if credits <= 0 {
		credits = 3
	}
	grade := &model.Grade{
		UserID:    input.UserID,
		CourseID:  input.CourseID,
		SkillID:   input.SkillID,
		GradeType: input.Type,
		Title:     input.Title,
		Semester:  input.Semester,
		Credits:   credits,
		MaxScore:  input.MaxScore,
		Score:     input.Score,
		Feedback:  input.Feedback,
		GradedBy:  graderID,
	}
	fill(grade)
	if err := s.Grades.Create(grade); err != nil {
		return nil, err
	}
	return grade, nil
}

type GradeReport struct {
	Grades       []model.Grade      `json:"grades"`
	GPA          float64            `json:"gpa"`
	Passed       int                `json:"passed"`
	Failed       int                `json:"failed"`
	Semesters    []string           `json:"semesters"`
	Distribution map[string]int     `json:"distribution"`
	SemesterGPA  map[string]float64 `json:"semesterGpa"`
}

func (s *GradeService) Report(userID uint, semester string, gradeType model.GradeType) (*GradeReport, error) {
	grades, err := s.Grades.FindByUser(userID, semester, gradeType)
	if err != nil {
		return nil, err
	}
	semesters, err := s.Grades.FindSemesters(userID)
	if err != nil {
		return nil, err
	}

	report := &GradeReport{
		Grades:       grades,
		GPA:          ComputeGPA(grades),
		Semesters:    semesters,
		Distribution: map[string]int{},
		SemesterGPA:  map[string]float64{},
	}
	bySemester := map[string][]model.Grade{}
	for _, g := range grades {
		if g.IsPassed {
			report.Passed++
		} else {
			report.Failed++
		}
		report.Distribution[g.LetterGrade]++
		if g.Semester != "" {
			bySemester[g.Semester] = append(bySemester[g.Semester], g)
		}
	}
	for sem, semGrades := range bySemester {
		report.SemesterGPA[sem] = ComputeGPA(semGrades)
	}
	return report, nil
}

func (s *GradeService) Update(graderID uint, id string, input GradeInput) (*model.Grade, error) {
	grade, err := s.Grades.FindByID(id)
	if err != nil {
		return nil, err
	}

	grade.Title = input.Title
	grade.GradeType = input.Type
	grade.Semester = input.Semester
	grade.MaxScore = input.MaxScore
	grade.Score = input.Score
	grade.Feedback = input.Feedback
	grade.GradedBy = graderID
	grade.GradedAt = nil
	fill(grade)

	if err := s.Grades.Update(grade); err != nil {
		return nil, err
	}
	return grade, nil
}

func (s *GradeService) Delete(id string) error {
	return s.Grades.Delete(id)
}

var csvHeader = []string{"user_id", "title", "grade_type", "semester", "credits", "max_score", "score", "feedback"}

// ExportCSV writes a user's grades in the same column layout ImportCSV
// accepts.
func (s *GradeService) ExportCSV(userID uint, semester string, w io.Writer) error {
	grades, err := s.Grades.FindByUser(userID, semester, "")
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, g := range grades {
		record := []string{
			strconv.FormatUint(uint64(g.UserID), 10),
			g.Title,
			string(g.GradeType),
			g.Semester,
			strconv.Itoa(g.Credits),
			strconv.FormatFloat(g.MaxScore, 'f', 2, 64),
			strconv.FormatFloat(g.Score, 'f', 2, 64),
			g.Feedback,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ImportCSV bulk-records grades from a CSV stream. The first row must
// be the header. Rows are validated before anything is written, a bad
// row rejects the whole file.
func (s *GradeService) ImportCSV(graderID uint, r io.Reader) (int, error) {
	cr := csv.NewReader(r)
	rows, err := cr.ReadAll()
	if err != nil {
		return 0, err
	}
	if len(rows) < 2 {
		return 0, errors.New("csv has no data rows")
	}

	grades := make([]model.Grade, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) < 7 {
			return 0, fmt.Errorf("row %d: expected at least 7 columns", i+2)
		}
		userID, err := strconv.ParseUint(row[0], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("row %d: bad user_id: %w", i+2, err)
		}
		credits, err := strconv.Atoi(row[4])
		if err != nil || credits <= 0 {
			credits = 3
		}
		maxScore, err := strconv.ParseFloat(row[5], 64)
		if err != nil || maxScore <= 0 {
			return 0, fmt.Errorf("row %d: bad max_score", i+2)
		}
		score, err := strconv.ParseFloat(row[6], 64)
		if err != nil || score < 0 {
			return 0, fmt.Errorf("row %d: bad score", i+2)
		}

		feedback := ""
		if len(row) > 7 {
			feedback = row[7]
		}

		grade := model.Grade{
			UserID:    uint(userID),
			Title:     row[1],
			GradeType: model.GradeType(row[2]),
			Semester:  row[3],
			Credits:   credits,
			MaxScore:  maxScore,
			Score:     score,
			Feedback:  feedback,
			GradedBy:  graderID,
		}
		fill(&grade)
		grades = append(grades, grade)
	}

	if err := s.Grades.CreateBatch(grades); err != nil {
		return 0, err
	}
	return len(grades), nil
}
