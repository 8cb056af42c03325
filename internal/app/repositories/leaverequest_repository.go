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

// ReportRow is a single line of an attendance report: one decided or
// pending absence of one student.
type ReportRow struct {
	StudentEmail string
	StudentName  string
	AbsenceDate  time.Time
	Status       models.RequestStatus
}

// LeaveRequestRepository handles leave request database operations
type LeaveRequestRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewLeaveRequestRepository creates a new LeaveRequestRepository
func NewLeaveRequestRepository(db *pgxpool.Pool) *LeaveRequestRepository {
	return &LeaveRequestRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *LeaveRequestRepository) selectRequests() squirrel.SelectBuilder {
	return r.sb.Select(
		"lr.id", "lr.student_id", "u.full_name", "lr.classroom_id", "c.name",
		"lr.absence_date", "lr.reason", "lr.evidence_path", "lr.status",
		"lr.denial_reason", "lr.decided_by", "lr.decided_at", "lr.created_at",
	).
		From("leave_requests lr").
		Join("users u ON u.id = lr.student_id").
		Join("classrooms c ON c.id = lr.classroom_id")
}

func scanLeaveRequest(row pgx.Row) (*models.LeaveRequest, error) {
	var lr models.LeaveRequest
	err := row.Scan(
		&lr.ID, &lr.StudentID, &lr.StudentName, &lr.ClassroomID, &lr.ClassroomName,
		&lr.AbsenceDate, &lr.Reason, &lr.EvidencePath, &lr.Status,
		&lr.DenialReason, &lr.DecidedBy, &lr.DecidedAt, &lr.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	lr.HasEvidence = lr.EvidencePath != nil
	return &lr, nil
}

// Create inserts a new leave request in PENDING state and sets its ID
func (r *LeaveRequestRepository) Create(ctx context.Context, lr *models.LeaveRequest) error {
	sql, args, err := r.sb.Insert("leave_requests").
		Columns("student_id", "classroom_id", "absence_date", "reason", "evidence_path", "status", "created_at").
		Values(lr.StudentID, lr.ClassroomID, lr.AbsenceDate, lr.Reason, lr.EvidencePath, models.StatusPending, time.Now()).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create leave request query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&lr.ID, &lr.CreatedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrDuplicateRequest
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrClassroomNotFound
		}
		logger.Error().Err(err).Int64("studentID", lr.StudentID).Str("classroomID", lr.ClassroomID).Msg("Error creating leave request")
		return fmt.Errorf("error creating leave request: %w", err)
	}
	lr.Status = models.StatusPending

	return nil
}

// GetByID retrieves a leave request by ID
func (r *LeaveRequestRepository) GetByID(ctx context.Context, id int64) (*models.LeaveRequest, error) {
	sql, args, err := r.selectRequests().
		Where(squirrel.Eq{"lr.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get leave request query: %w", err)
	}

	lr, err := scanLeaveRequest(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrLeaveRequestNotFound
		}
		return nil, fmt.Errorf("error retrieving leave request: %w", err)
	}

	return lr, nil
}

// ListByStudent retrieves a student's requests, optionally filtered by
// status, newest absence first.
func (r *LeaveRequestRepository) ListByStudent(ctx context.Context, studentID int64, status models.RequestStatus) ([]*models.LeaveRequest, error) {
	qb := r.selectRequests().
		Where(squirrel.Eq{"lr.student_id": studentID})
	if status != "" {
		qb = qb.Where(squirrel.Eq{"lr.status": status})
	}
	sql, args, err := qb.OrderBy("lr.absence_date DESC", "lr.id DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list leave requests query: %w", err)
	}

	return r.queryRequests(ctx, sql, args)
}

// ListByClassroom retrieves all requests for one classroom
func (r *LeaveRequestRepository) ListByClassroom(ctx context.Context, classroomID string, status models.RequestStatus) ([]*models.LeaveRequest, error) {
	qb := r.selectRequests().
		Where(squirrel.Eq{"lr.classroom_id": classroomID})
	if status != "" {
		qb = qb.Where(squirrel.Eq{"lr.status": status})
	}
	sql, args, err := qb.OrderBy("lr.absence_date DESC", "lr.id DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list leave requests query: %w", err)
	}

	return r.queryRequests(ctx, sql, args)
}

// ListByInstructor retrieves requests across every classroom taught by
// an instructor.
func (r *LeaveRequestRepository) ListByInstructor(ctx context.Context, instructorID int64, status models.RequestStatus) ([]*models.LeaveRequest, error) {
	qb := r.selectRequests().
		Where(squirrel.Eq{"c.instructor_id": instructorID})
	if status != "" {
		qb = qb.Where(squirrel.Eq{"lr.status": status})
	}
	sql, args, err := qb.OrderBy("lr.absence_date DESC", "lr.id DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list leave requests query: %w", err)
	}

	return r.queryRequests(ctx, sql, args)
}

func (r *LeaveRequestRepository) queryRequests(ctx context.Context, sql string, args []interface{}) ([]*models.LeaveRequest, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing leave requests: %w", err)
	}
	defer rows.Close()

	var requests []*models.LeaveRequest
	for rows.Next() {
		lr, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning leave request row: %w", err)
		}
		requests = append(requests, lr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return requests, nil
}

// UpdateDecision records an approval or denial. The WHERE clause pins
// the row to PENDING so a concurrent decision loses cleanly; zero rows
// affected means the request was already decided or is gone.
func (r *LeaveRequestRepository) UpdateDecision(ctx context.Context, id int64, status models.RequestStatus, denialReason *string, decidedBy int64) error {
	sql, args, err := r.sb.Update("leave_requests").
		Set("status", status).
		Set("denial_reason", denialReason).
		Set("decided_by", decidedBy).
		Set("decided_at", time.Now()).
		Where(squirrel.Eq{"id": id, "status": models.StatusPending}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build decision query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error recording decision: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrRequestNotPending
	}

	return nil
}

// Delete removes a pending leave request. Like UpdateDecision, the
// WHERE clause pins the row to PENDING so a withdrawal racing a
// decision cannot erase an already-decided request; zero rows affected
// means the request was decided or is gone.
func (r *LeaveRequestRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("leave_requests").
		Where(squirrel.Eq{"id": id, "status": models.StatusPending}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete leave request query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting leave request: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrRequestNotPending
	}

	return nil
}

// CountPending counts a student's pending requests in one classroom
func (r *LeaveRequestRepository) CountPending(ctx context.Context, studentID int64, classroomID string) (int, error) {
	sql, args, err := r.sb.Select("COUNT(*)").
		From("leave_requests").
		Where(squirrel.Eq{
			"student_id":   studentID,
			"classroom_id": classroomID,
			"status":       models.StatusPending,
		}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build pending count query: %w", err)
	}

	var count int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting pending requests: %w", err)
	}

	return count, nil
}

// ReportRows retrieves attendance report rows for a classroom between
// two dates inclusive, ordered by date then student name.
func (r *LeaveRequestRepository) ReportRows(ctx context.Context, classroomID string, from, to time.Time) ([]ReportRow, error) {
	sql, args, err := r.sb.Select("u.email", "u.full_name", "lr.absence_date", "lr.status").
		From("leave_requests lr").
		Join("users u ON u.id = lr.student_id").
		Where(squirrel.Eq{"lr.classroom_id": classroomID}).
		Where(squirrel.GtOrEq{"lr.absence_date": from}).
		Where(squirrel.LtOrEq{"lr.absence_date": to}).
		OrderBy("lr.absence_date ASC", "u.full_name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build report query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying report rows: %w", err)
	}
	defer rows.Close()

	var report []ReportRow
	for rows.Next() {
		var row ReportRow
		if err := rows.Scan(&row.StudentEmail, &row.StudentName, &row.AbsenceDate, &row.Status); err != nil {
			return nil, fmt.Errorf("error scanning report row: %w", err)
		}
		report = append(report, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return report, nil
}
