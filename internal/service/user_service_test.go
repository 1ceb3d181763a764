package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/22146025/lord-s-heart-educational-complex/internal/access"
	"github.com/22146025/lord-s-heart-educational-complex/internal/dto"
	"github.com/22146025/lord-s-heart-educational-complex/internal/model"
	"github.com/22146025/lord-s-heart-educational-complex/internal/repository"
	pkgerrors "github.com/22146025/lord-s-heart-educational-complex/pkg/errors"
)

// ── helpers ──

func setupTestUserService() (UserService, *mockRepos) {
	repo, mocks := newMockRepository()
	return NewUserService(repo, zap.NewNop()), mocks
}

func createTestUser(t *testing.T, svc UserService, username string) *dto.UserResponse {
	t.Helper()
	resp, err := svc.Create(context.Background(), &dto.CreateUserRequest{
		Username:        username,
		Email:           username + "@school.test",
		FirstName:       "Test",
		LastName:        "User",
		Password:        "s3cretpass",
		PasswordConfirm: "s3cretpass",
	})
	if err != nil {
		t.Fatalf("create user %s failed: %v", username, err)
	}
	return resp
}

func staffCaller(id uint) access.Caller {
	return access.Caller{UserID: id, Username: "staff", IsStaff: true}
}

// ── Create ──

func TestUserService_Create_AttachesExactlyOneProfile(t *testing.T) {
	svc, mocks := setupTestUserService()

	role := model.RoleTeacher
	dept := "Science"
	resp, err := svc.Create(context.Background(), &dto.CreateUserRequest{
		Username:        "ateacher",
		Password:        "s3cretpass",
		PasswordConfirm: "s3cretpass",
		Profile:         &dto.ProfileInput{Role: &role, Department: &dept},
	})
	if err != nil {
		t.Fatalf("Create should succeed: %v", err)
	}
	if mocks.profile.creates != 1 {
		t.Fatalf("expected exactly one profile, got %d", mocks.profile.creates)
	}
	if resp.Profile == nil || resp.Profile.Role != model.RoleTeacher || *resp.Profile.Department != "Science" {
		t.Errorf("expected the payload applied to the new profile, got %+v", resp.Profile)
	}
	if resp.IsStaff {
		t.Error("a regular create must not grant staff")
	}

	stored := mocks.user.users[resp.ID]
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("s3cretpass")) != nil {
		t.Error("password must be stored as a bcrypt hash")
	}
}

func TestUserService_Create_DefaultProfileRole(t *testing.T) {
	svc, _ := setupTestUserService()
	resp := createTestUser(t, svc, "plain")
	if resp.Profile == nil || resp.Profile.Role != model.RoleStaff {
		t.Errorf("expected the default staff role, got %+v", resp.Profile)
	}
}

func TestUserService_Create_Validation(t *testing.T) {
	svc, _ := setupTestUserService()
	createTestUser(t, svc, "taken")

	_, err := svc.Create(context.Background(), &dto.CreateUserRequest{
		Username:        "taken",
		Password:        "12345678",
		PasswordConfirm: "87654321",
	})
	fields := validationFields(t, err)
	if len(fields["username"]) == 0 {
		t.Error("expected a duplicate username error")
	}
	if len(fields["password"]) == 0 {
		t.Error("expected an entirely numeric password error")
	}
	if len(fields["non_field_errors"]) == 0 {
		t.Error("expected a mismatch error under non_field_errors")
	}
}

func TestUserService_CreateSuperuser(t *testing.T) {
	svc, _ := setupTestUserService()
	resp, err := svc.CreateSuperuser(context.Background(), &dto.CreateUserRequest{
		Username:        "root",
		Password:        "rootpass1",
		PasswordConfirm: "rootpass1",
	})
	if err != nil {
		t.Fatalf("CreateSuperuser should succeed: %v", err)
	}
	if !resp.IsStaff || resp.Profile == nil {
		t.Errorf("expected a staff identity with a profile, got %+v", resp)
	}
}

func TestValidatePassword(t *testing.T) {
	cases := []struct {
		password string
		want     int
	}{
		{"short", 1},
		{"1234567", 2},
		{"12345678", 1},
		{"longenough", 0},
	}
	for _, tc := range cases {
		if got := ValidatePassword(tc.password); len(got) != tc.want {
			t.Errorf("ValidatePassword(%q): expected %d messages, got %v", tc.password, tc.want, got)
		}
	}
}

// ── Read / Update ──

func TestUserService_GetByID_SelfOrStaff(t *testing.T) {
	svc, _ := setupTestUserService()
	ctx := context.Background()
	a := createTestUser(t, svc, "alice")
	b := createTestUser(t, svc, "bob")

	self := access.Caller{UserID: a.ID, Username: "alice"}
	if _, err := svc.GetByID(ctx, a.ID, self); err != nil {
		t.Errorf("self read should succeed: %v", err)
	}
	if _, err := svc.GetByID(ctx, b.ID, self); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("reading another user should look missing, got %v", err)
	}
	if _, err := svc.GetByID(ctx, b.ID, staffCaller(a.ID)); err != nil {
		t.Errorf("staff read should succeed: %v", err)
	}
}

func TestUserService_Update_NeverRecreatesProfile(t *testing.T) {
	svc, mocks := setupTestUserService()
	ctx := context.Background()
	u := createTestUser(t, svc, "carol")

	email := "carol@new.test"
	phone := "0244000000"
	resp, err := svc.Update(ctx, u.ID, &dto.UpdateUserRequest{
		Email:   &email,
		Profile: &dto.ProfileInput{PhoneNumber: &phone},
	}, staffCaller(99))
	if err != nil {
		t.Fatalf("Update should succeed: %v", err)
	}
	if resp.Email != email || *resp.Profile.PhoneNumber != phone {
		t.Errorf("unexpected update result: %+v", resp)
	}
	if mocks.profile.creates != 1 {
		t.Errorf("update must not create a profile, creates=%d", mocks.profile.creates)
	}

	// profile removed: update saves the identity only
	for id := range mocks.profile.profiles {
		delete(mocks.profile.profiles, id)
	}
	if _, err := svc.UpdateMe(ctx, u.ID, &dto.UpdateUserRequest{Profile: &dto.ProfileInput{PhoneNumber: &phone}}); err != nil {
		t.Fatalf("UpdateMe should succeed: %v", err)
	}
	if len(mocks.profile.profiles) != 0 || mocks.profile.creates != 1 {
		t.Error("a missing profile must not be recreated")
	}
}

func TestUserService_Update_OtherUserLooksMissing(t *testing.T) {
	svc, _ := setupTestUserService()
	a := createTestUser(t, svc, "dave")
	b := createTestUser(t, svc, "erin")

	name := "Hacked"
	_, err := svc.Update(context.Background(), b.ID, &dto.UpdateUserRequest{FirstName: &name},
		access.Caller{UserID: a.ID, Username: "dave"})
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

// ── Delete ──

func TestUserService_Delete(t *testing.T) {
	svc, mocks := setupTestUserService()
	ctx := context.Background()
	a := createTestUser(t, svc, "frank")
	b := createTestUser(t, svc, "gina")

	if err := svc.Delete(ctx, a.ID, a.ID); !errors.Is(err, ErrUserSelfDelete) {
		t.Errorf("expected ErrUserSelfDelete, got %v", err)
	}
	if err := svc.Delete(ctx, b.ID, a.ID); err != nil {
		t.Fatalf("Delete should succeed: %v", err)
	}
	if len(mocks.profile.profiles) != 1 {
		t.Errorf("the deleted user's profile must go with it, %d left", len(mocks.profile.profiles))
	}
	if err := svc.Delete(ctx, b.ID, a.ID); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

// ── Passwords ──

func TestUserService_ChangePassword(t *testing.T) {
	svc, mocks := setupTestUserService()
	ctx := context.Background()
	u := createTestUser(t, svc, "hank")

	err := svc.ChangePassword(ctx, u.ID, &dto.ChangePasswordRequest{
		OldPassword:        "wrong-pass",
		NewPassword:        "brandnew1",
		NewPasswordConfirm: "brandnew1",
	})
	if fields := validationFields(t, err); len(fields["old_password"]) == 0 {
		t.Error("expected an old_password error")
	}

	err = svc.ChangePassword(ctx, u.ID, &dto.ChangePasswordRequest{
		OldPassword:        "s3cretpass",
		NewPassword:        "brandnew1",
		NewPasswordConfirm: "brandnew1",
	})
	if err != nil {
		t.Fatalf("ChangePassword should succeed: %v", err)
	}
	hash := mocks.user.users[u.ID].PasswordHash
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte("brandnew1")) != nil {
		t.Error("expected the new password to be stored")
	}
}

func TestUserService_SetPassword(t *testing.T) {
	svc, mocks := setupTestUserService()
	ctx := context.Background()
	u := createTestUser(t, svc, "ivy")

	if err := svc.SetPassword(ctx, "ivy", "123"); err == nil {
		t.Error("password rules must apply to resets")
	}
	if err := svc.SetPassword(ctx, "nobody", "resetpass1"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
	if err := svc.SetPassword(ctx, "ivy", "resetpass1"); err != nil {
		t.Fatalf("SetPassword should succeed: %v", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(mocks.user.users[u.ID].PasswordHash), []byte("resetpass1")) != nil {
		t.Error("expected the reset password to be stored")
	}
}

// ── Statistics ──

func TestUserService_Statistics(t *testing.T) {
	svc, mocks := setupTestUserService()
	ctx := context.Background()
	createTestUser(t, svc, "jack")
	k := createTestUser(t, svc, "kate")
	mocks.user.users[k.ID].IsStaff = true
	mocks.user.users[k.ID].IsActive = false

	stats, err := svc.Statistics(ctx)
	if err != nil {
		t.Fatalf("Statistics should succeed: %v", err)
	}
	if stats.TotalUsers != 2 || stats.ActiveUsers != 1 || stats.StaffUsers != 1 || stats.RecentUsers != 2 {
		t.Errorf("unexpected counts: %+v", stats)
	}
	if len(stats.RoleStatistics) != 1 || stats.RoleStatistics[0].Key != model.RoleStaff || stats.RoleStatistics[0].Count != 2 {
		t.Errorf("unexpected role breakdown: %+v", stats.RoleStatistics)
	}
}

// countingTx records how often the service opened a transaction
type countingTx struct {
	inner repository.Transactor
	calls int
}

func (c *countingTx) Transaction(ctx context.Context, fn func(tx *repository.Repository) error) error {
	c.calls++
	return c.inner.Transaction(ctx, fn)
}

func TestUserService_Create_RunsInTransaction(t *testing.T) {
	repo, mocks := newMockRepository()
	tx := &countingTx{inner: repo.Tx}
	repo.Tx = tx
	svc := NewUserService(repo, zap.NewNop())

	createTestUser(t, svc, "tamsin")
	if tx.calls != 1 {
		t.Errorf("expected identity and profile in one transaction, got %d", tx.calls)
	}
	if mocks.profile.creates != 1 {
		t.Errorf("expected one profile, got %d", mocks.profile.creates)
	}
}

func TestUserService_Create_UnknownProfileRole(t *testing.T) {
	repo, mocks := newMockRepository()
	tx := &countingTx{inner: repo.Tx}
	repo.Tx = tx
	svc := NewUserService(repo, zap.NewNop())

	role := "janitor"
	_, err := svc.Create(context.Background(), &dto.CreateUserRequest{
		Username:        "odile",
		Password:        "s3cretpass",
		PasswordConfirm: "s3cretpass",
		Profile:         &dto.ProfileInput{Role: &role},
	})
	var verr *pkgerrors.ValidationError
	if !errors.As(err, &verr) || !verr.Has("profile.role") {
		t.Fatalf("expected a profile.role error, got %v", err)
	}
	if tx.calls != 0 || mocks.profile.creates != 0 {
		t.Error("nothing must be written for an invalid payload")
	}
}
