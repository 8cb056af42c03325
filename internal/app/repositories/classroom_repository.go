package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/classtrack/classtrack/internal/app/models"
	"github.com/classtrack/classtrack/internal/pkg/apperrors"
	"github.com/classtrack/classtrack/internal/pkg/dberrors"
	"github.com/classtrack/classtrack/internal/pkg/logger"
)

// ClassroomRepository handles classroom and enrollment database operations
type ClassroomRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewClassroomRepository creates a new ClassroomRepository
func NewClassroomRepository(db *pgxpool.Pool) *ClassroomRepository {
	return &ClassroomRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// classroomColumns are the columns selected for every classroom read,
// with the instructor name joined in.
func (r *ClassroomRepository) selectClassrooms() squirrel.SelectBuilder {
	return r.sb.Select(
		"c.id", "c.name", "c.description", "c.join_code", "c.instructor_id",
		"u.full_name", "c.created_at",
	).
		From("classrooms c").
		Join("users u ON u.id = c.instructor_id")
}

func scanClassroom(row pgx.Row) (*models.Classroom, error) {
	var c models.Classroom
	err := row.Scan(
		&c.ID, &c.Name, &c.Description, &c.JoinCode, &c.InstructorID,
		&c.InstructorName, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new classroom
func (r *ClassroomRepository) Create(ctx context.Context, classroom *models.Classroom) error {
	sql, args, err := r.sb.Insert("classrooms").
		Columns("id", "name", "description", "join_code", "instructor_id", "created_at").
		Values(classroom.ID, classroom.Name, classroom.Description, classroom.JoinCode, classroom.InstructorID, time.Now()).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create classroom query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "classrooms_pkey") {
			return apperrors.ErrClassroomAlreadyExists
		}
		if dberrors.IsUniqueViolation(err) {
			// join_code collision, extremely unlikely with 36^8 codes
			return apperrors.ErrClassroomAlreadyExists
		}
		logger.Error().Err(err).Str("classroomID", classroom.ID).Msg("Error creating classroom")
		return fmt.Errorf("error creating classroom: %w", err)
	}

	return nil
}

// GetByID retrieves a classroom by ID
func (r *ClassroomRepository) GetByID(ctx context.Context, id string) (*models.Classroom, error) {
	sql, args, err := r.selectClassrooms().
		Where(squirrel.Eq{"c.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get classroom query: %w", err)
	}

	classroom, err := scanClassroom(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrClassroomNotFound
		}
		return nil, fmt.Errorf("error retrieving classroom: %w", err)
	}

	return classroom, nil
}

// GetByJoinCode retrieves a classroom by its join code
func (r *ClassroomRepository) GetByJoinCode(ctx context.Context, joinCode string) (*models.Classroom, error) {
	sql, args, err := r.selectClassrooms().
		Where(squirrel.Eq{"c.join_code": joinCode}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get classroom query: %w", err)
	}

	classroom, err := scanClassroom(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrJoinCodeNotFound
		}
		return nil, fmt.Errorf("error retrieving classroom by join code: %w", err)
	}

	return classroom, nil
}

// Update changes a classroom's name and description
func (r *ClassroomRepository) Update(ctx context.Context, id, name, description string) error {
	sql, args, err := r.sb.Update("classrooms").
		Set("name", name).
		Set("description", description).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update classroom query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating classroom: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrClassroomNotFound
	}

	return nil
}

// Delete removes a classroom. The classroom_id foreign keys on
// enrollments and leave_requests carry no cascade, so a classroom with
// enrollments or request history is refused here with
// ErrClassroomHasRelations.
func (r *ClassroomRepository) Delete(ctx context.Context, id string) error {
	sql, args, err := r.sb.Delete("classrooms").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete classroom query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrClassroomHasRelations
		}
		return fmt.Errorf("error deleting classroom: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrClassroomNotFound
	}

	return nil
}

// ListByInstructor retrieves classrooms taught by an instructor
func (r *ClassroomRepository) ListByInstructor(ctx context.Context, instructorID int64) ([]*models.Classroom, error) {
	sql, args, err := r.selectClassrooms().
		Where(squirrel.Eq{"c.instructor_id": instructorID}).
		OrderBy("c.created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list classrooms query: %w", err)
	}

	return r.queryClassrooms(ctx, sql, args)
}

// ListByStudent retrieves classrooms a student is enrolled in
func (r *ClassroomRepository) ListByStudent(ctx context.Context, studentID int64) ([]*models.Classroom, error) {
	sql, args, err := r.selectClassrooms().
		Join("enrollments e ON e.classroom_id = c.id").
		Where(squirrel.Eq{"e.student_id": studentID}).
		OrderBy("e.joined_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list enrolled classrooms query: %w", err)
	}

	return r.queryClassrooms(ctx, sql, args)
}

func (r *ClassroomRepository) queryClassrooms(ctx context.Context, sql string, args []interface{}) ([]*models.Classroom, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing classrooms: %w", err)
	}
	defer rows.Close()

	var classrooms []*models.Classroom
	for rows.Next() {
		classroom, err := scanClassroom(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning classroom row: %w", err)
		}
		classrooms = append(classrooms, classroom)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return classrooms, nil
}

// Enroll adds a student to a classroom
func (r *ClassroomRepository) Enroll(ctx context.Context, studentID int64, classroomID string) error {
	sql, args, err := r.sb.Insert("enrollments").
		Columns("student_id", "classroom_id", "joined_at").
		Values(studentID, classroomID, time.Now()).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build enroll query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrAlreadyEnrolled
		}
		logger.Error().Err(err).Int64("studentID", studentID).Str("classroomID", classroomID).Msg("Error enrolling student")
		return fmt.Errorf("error enrolling student: %w", err)
	}

	return nil
}

// Unenroll removes a student from a classroom
func (r *ClassroomRepository) Unenroll(ctx context.Context, studentID int64, classroomID string) error {
	sql, args, err := r.sb.Delete("enrollments").
		Where(squirrel.Eq{"student_id": studentID, "classroom_id": classroomID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build unenroll query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error unenrolling student: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotEnrolled
	}

	return nil
}

// IsEnrolled checks classroom membership for a student
func (r *ClassroomRepository) IsEnrolled(ctx context.Context, studentID int64, classroomID string) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("enrollments").
		Where(squirrel.Eq{"student_id": studentID, "classroom_id": classroomID}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build enrollment check query: %w", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking enrollment: %w", err)
	}

	return exists, nil
}

// ListStudents retrieves the roster of a classroom ordered by name
func (r *ClassroomRepository) ListStudents(ctx context.Context, classroomID string) ([]*models.User, error) {
	sql, args, err := r.sb.Select("u.id", "u.email", "u.password", "u.full_name", "u.role", "u.created_at").
		From("users u").
		Join("enrollments e ON e.student_id = u.id").
		Where(squirrel.Eq{"e.classroom_id": classroomID}).
		OrderBy("u.full_name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing students: %w", err)
	}
	defer rows.Close()

	var students []*models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Password, &u.FullName, &u.Role, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning student row: %w", err)
		}
		students = append(students, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return students, nil
}

// StudentCount returns how many students are enrolled in a classroom
func (r *ClassroomRepository) StudentCount(ctx context.Context, classroomID string) (int, error) {
	sql, args, err := r.sb.Select("COUNT(*)").
		From("enrollments").
		Where(squirrel.Eq{"classroom_id": classroomID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build student count query: %w", err)
	}

	var count int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting students: %w", err)
	}

	return count, nil
}

// JoinCodeExists checks whether a join code is already taken
func (r *ClassroomRepository) JoinCodeExists(ctx context.Context, joinCode string) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("classrooms").
		Where(squirrel.Eq{"join_code": joinCode}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build join code check query: %w", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking join code: %w", err)
	}

	return exists, nil
}
