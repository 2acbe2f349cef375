package service

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/csta-edu/enrollment-api/internal/models"
	"github.com/csta-edu/enrollment-api/internal/repository"
)

// fakeHasher keeps provisioning tests deterministic and fast.
type fakeHasher struct{}

func (fakeHasher) Hash(plaintext string) (string, error) { return "hashed:" + plaintext, nil }

func (fakeHasher) Compare(plaintext, digest string) error {
	if digest != "hashed:"+plaintext {
		return ErrInvalidCredentials
	}
	return nil
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Student{}, &models.EnrollRequest{}, &models.AuditLog{}))
	return db
}

func newEnrollmentService(db *gorm.DB) EnrollmentService {
	return NewEnrollmentService(
		db,
		repository.NewEnrollRequestRepository(db),
		repository.NewUserRepository(db),
		repository.NewStudentRepository(db),
		repository.NewAuditLogRepository(db),
		fakeHasher{},
		nil,
		zerolog.Nop(),
	)
}

func createPendingRequest(t *testing.T, db *gorm.DB, email, yearLevel string) models.EnrollRequest {
	t.Helper()
	request := models.EnrollRequest{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     email,
		Program:   "BSCS",
		YearLevel: yearLevel,
		Contact:   "555-0100",
		Address:   "12 Elm Street",
		Status:    models.EnrollStatusPending,
	}
	require.NoError(t, db.Create(&request).Error)
	return request
}

func TestEnrollmentServiceAcceptProvisionsAccount(t *testing.T) {
	db := setupTestDB(t)
	svc := newEnrollmentService(db)
	request := createPendingRequest(t, db, "jane.doe@x.com", "2")

	result, err := svc.Accept(context.Background(), request.ID, Actor{ID: 1, Role: models.RoleAdmin})
	require.NoError(t, err)
	require.Equal(t, "jane.doe", result.Username)
	require.NotEmpty(t, result.TempPassword)
	require.NotZero(t, result.UserID)
	require.NotZero(t, result.StudentID)

	var user models.User
	require.NoError(t, db.First(&user, result.UserID).Error)
	require.Equal(t, models.RoleStudent, user.Role)
	require.True(t, user.TempPassword)
	require.Equal(t, "hashed:"+result.TempPassword, user.PasswordHash)
	require.NotNil(t, user.Email)
	require.Equal(t, "jane.doe@x.com", *user.Email)

	var student models.Student
	require.NoError(t, db.First(&student, result.StudentID).Error)
	require.Equal(t, user.ID, student.UserID)
	require.NotNil(t, student.YearLevel)
	require.Equal(t, 2, *student.YearLevel)
	require.Equal(t, "555-0100", student.Contact)

	var stored models.EnrollRequest
	require.NoError(t, db.First(&stored, request.ID).Error)
	require.Equal(t, models.EnrollStatusAccepted, stored.Status)
	require.NotNil(t, stored.HandledBy)
	require.Equal(t, uint(1), *stored.HandledBy)
	require.NotNil(t, stored.HandledAt)

	var audits []models.AuditLog
	require.NoError(t, db.Where("entity = ? AND entity_id = ?", "enroll_request", request.ID).Find(&audits).Error)
	require.Len(t, audits, 1)
	require.Equal(t, models.AuditActionAccept, audits[0].Action)
	require.Equal(t, uint(1), audits[0].ActorUserID)
}

func TestEnrollmentServiceAcceptResolvesUsernameCollisions(t *testing.T) {
	db := setupTestDB(t)
	svc := newEnrollmentService(db)

	existing := models.User{Username: "alice", PasswordHash: "digest", Role: models.RoleStudent}
	require.NoError(t, db.Create(&existing).Error)

	first := createPendingRequest(t, db, "alice@one.com", "1")
	result, err := svc.Accept(context.Background(), first.ID, Actor{ID: 1, Role: models.RoleAdmin})
	require.NoError(t, err)
	require.Equal(t, "alice1", result.Username)

	second := createPendingRequest(t, db, "alice@two.com", "1")
	result, err = svc.Accept(context.Background(), second.ID, Actor{ID: 1, Role: models.RoleAdmin})
	require.NoError(t, err)
	require.Equal(t, "alice2", result.Username)
}

func TestEnrollmentServiceAcceptExhaustsUsernameCandidates(t *testing.T) {
	db := setupTestDB(t)
	svc := newEnrollmentService(db)

	for i := 0; i <= maxUsernameSuffix; i++ {
		username := "bob"
		if i > 0 {
			username = "bob" + strconv.Itoa(i)
		}
		require.NoError(t, db.Create(&models.User{Username: username, PasswordHash: "digest", Role: models.RoleStudent}).Error)
	}

	var usersBefore int64
	require.NoError(t, db.Model(&models.User{}).Count(&usersBefore).Error)

	request := createPendingRequest(t, db, "bob@x.com", "1")
	_, err := svc.Accept(context.Background(), request.ID, Actor{ID: 1, Role: models.RoleAdmin})
	require.ErrorIs(t, err, ErrUsernameExhausted)

	var usersAfter int64
	require.NoError(t, db.Model(&models.User{}).Count(&usersAfter).Error)
	require.Equal(t, usersBefore, usersAfter, "no identity may survive an exhausted run")

	var stored models.EnrollRequest
	require.NoError(t, db.First(&stored, request.ID).Error)
	require.Equal(t, models.EnrollStatusPending, stored.Status)

	var auditCount int64
	require.NoError(t, db.Model(&models.AuditLog{}).Count(&auditCount).Error)
	require.Zero(t, auditCount)
}

func TestEnrollmentServiceAcceptFallsBackToUserBase(t *testing.T) {
	db := setupTestDB(t)
	svc := newEnrollmentService(db)

	request := createPendingRequest(t, db, "", "1")
	result, err := svc.Accept(context.Background(), request.ID, Actor{ID: 1, Role: models.RoleAdmin})
	require.NoError(t, err)
	require.Equal(t, "user", result.Username)

	var user models.User
	require.NoError(t, db.First(&user, result.UserID).Error)
	require.Nil(t, user.Email)
}

func TestEnrollmentServiceTerminalTransitionIsOneShot(t *testing.T) {
	db := setupTestDB(t)
	svc := newEnrollmentService(db)
	actor := Actor{ID: 1, Role: models.RoleAdmin}

	t.Run("accept then accept", func(t *testing.T) {
		request := createPendingRequest(t, db, "a1@x.com", "1")
		_, err := svc.Accept(context.Background(), request.ID, actor)
		require.NoError(t, err)
		_, err = svc.Accept(context.Background(), request.ID, actor)
		require.ErrorIs(t, err, ErrRequestAlreadyHandled)
	})

	t.Run("reject then reject", func(t *testing.T) {
		request := createPendingRequest(t, db, "a2@x.com", "1")
		_, err := svc.Reject(context.Background(), request.ID, actor)
		require.NoError(t, err)
		_, err = svc.Reject(context.Background(), request.ID, actor)
		require.ErrorIs(t, err, ErrRequestAlreadyHandled)
	})

	t.Run("accept then reject", func(t *testing.T) {
		request := createPendingRequest(t, db, "a3@x.com", "1")
		_, err := svc.Accept(context.Background(), request.ID, actor)
		require.NoError(t, err)
		_, err = svc.Reject(context.Background(), request.ID, actor)
		require.ErrorIs(t, err, ErrRequestAlreadyHandled)
	})

	t.Run("reject then accept", func(t *testing.T) {
		request := createPendingRequest(t, db, "a4@x.com", "1")
		_, err := svc.Reject(context.Background(), request.ID, actor)
		require.NoError(t, err)
		_, err = svc.Accept(context.Background(), request.ID, actor)
		require.ErrorIs(t, err, ErrRequestAlreadyHandled)
	})
}

func TestEnrollmentServiceRejectWritesAudit(t *testing.T) {
	db := setupTestDB(t)
	svc := newEnrollmentService(db)
	request := createPendingRequest(t, db, "carl@x.com", "3")

	result, err := svc.Reject(context.Background(), request.ID, Actor{ID: 9, Role: models.RoleDean})
	require.NoError(t, err)
	require.Equal(t, models.EnrollStatusRejected, result.Status)

	var stored models.EnrollRequest
	require.NoError(t, db.First(&stored, request.ID).Error)
	require.Equal(t, models.EnrollStatusRejected, stored.Status)
	require.NotNil(t, stored.HandledBy)
	require.Equal(t, uint(9), *stored.HandledBy)

	var audits []models.AuditLog
	require.NoError(t, db.Where("entity_id = ?", request.ID).Find(&audits).Error)
	require.Len(t, audits, 1)
	require.Equal(t, models.AuditActionReject, audits[0].Action)

	var userCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	require.Zero(t, userCount, "rejection must not provision an identity")
}

func TestEnrollmentServiceUnknownRequest(t *testing.T) {
	db := setupTestDB(t)
	svc := newEnrollmentService(db)
	actor := Actor{ID: 1, Role: models.RoleAdmin}

	_, err := svc.Accept(context.Background(), 999, actor)
	require.ErrorIs(t, err, ErrRequestNotFound)

	_, err = svc.Reject(context.Background(), 999, actor)
	require.ErrorIs(t, err, ErrRequestNotFound)
}

func TestEnrollmentServiceAcceptRollsBackWhenProfileInsertFails(t *testing.T) {
	db := setupTestDB(t)
	svc := newEnrollmentService(db)
	request := createPendingRequest(t, db, "dana@x.com", "1")

	// Forcing the profile insert to fail after the identity insert succeeded
	// must leave no observable writes from the attempt.
	require.NoError(t, db.Migrator().DropTable(&models.Student{}))

	_, err := svc.Accept(context.Background(), request.ID, Actor{ID: 1, Role: models.RoleAdmin})
	require.Error(t, err)

	var userCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	require.Zero(t, userCount)

	var stored models.EnrollRequest
	require.NoError(t, db.First(&stored, request.ID).Error)
	require.Equal(t, models.EnrollStatusPending, stored.Status)
	require.Nil(t, stored.HandledBy)

	var auditCount int64
	require.NoError(t, db.Model(&models.AuditLog{}).Count(&auditCount).Error)
	require.Zero(t, auditCount)
}

func TestParseYearLevel(t *testing.T) {
	cases := []struct {
		input string
		want  *int
	}{
		{"2", intPtr(2)},
		{"2.0", intPtr(2)},
		{" 3 ", intPtr(3)},
		{"", nil},
		{"sophomore", nil},
		{"1st", nil},
	}

	for _, tc := range cases {
		got := parseYearLevel(tc.input)
		if tc.want == nil {
			require.Nil(t, got, "input %q", tc.input)
			continue
		}
		require.NotNil(t, got, "input %q", tc.input)
		require.Equal(t, *tc.want, *got, "input %q", tc.input)
	}
}

func TestUsernameBase(t *testing.T) {
	require.Equal(t, "jane.doe", usernameBase("jane.doe@x.com"))
	require.Equal(t, "user", usernameBase("@x.com"))
	require.Equal(t, "user", usernameBase(""))
	require.Equal(t, "user", usernameBase("   @x.com"))
	require.Equal(t, "plainaddress", usernameBase("plainaddress"))
}

func intPtr(v int) *int { return &v }
