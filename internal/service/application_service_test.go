package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/22146025/lord-s-heart-educational-complex/internal/dto"
	"github.com/22146025/lord-s-heart-educational-complex/internal/model"
	pkgerrors "github.com/22146025/lord-s-heart-educational-complex/pkg/errors"
)

// ── helpers ──

func setupTestApplicationService() (ApplicationService, *mockRepos) {
	repo, mocks := newMockRepository()
	return NewApplicationService(repo, zap.NewNop()), mocks
}

func strPtr(s string) *string { return &s }

func validApplicationRequest() *dto.CreateApplicationRequest {
	return &dto.CreateApplicationRequest{
		Surname:              "MENSAH",
		FirstName:            "Ama",
		DateOfBirth:          model.NewDate(2016, time.March, 2),
		Age:                  9,
		Gender:               model.GenderFemale,
		PlaceOfBirth:         "Kumasi",
		RegionOfBirth:        "Ashanti",
		HomeTown:             "Ejisu",
		RegionOfHomeTown:     "Ashanti",
		ClassBeforeAdmission: "Basic 3",
		FatherContact:        strPtr("0244000000"),
		PostalAddress:        "P.O. Box 12",
		PlaceOfResidence:     "Adum",
	}
}

func validationFields(t *testing.T, err error) map[string][]string {
	t.Helper()
	var verr *pkgerrors.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected a validation error, got %v", err)
	}
	return verr.Fields
}

// ── Create ──

func TestApplicationService_Create_Success(t *testing.T) {
	svc, mocks := setupTestApplicationService()
	before := time.Now().UTC()

	resp, err := svc.Create(context.Background(), validApplicationRequest())
	if err != nil {
		t.Fatalf("Create should succeed: %v", err)
	}
	if resp.ID == 0 {
		t.Error("expected a server-assigned id")
	}
	if resp.Status != model.ApplicationPending || !resp.IsPending {
		t.Errorf("expected pending, got %s", resp.Status)
	}
	if resp.ApplicationDate.Before(before) {
		t.Error("expected application_date to be set at creation")
	}
	if resp.ReviewedByID != nil || resp.ReviewedDate != nil {
		t.Error("a new application has no reviewer")
	}
	if resp.FullName != "MENSAH Ama" {
		t.Errorf("unexpected full_name %q", resp.FullName)
	}
	if len(mocks.app.apps) != 1 {
		t.Errorf("expected 1 stored application, got %d", len(mocks.app.apps))
	}
}

func TestApplicationService_Create_DerivesAge(t *testing.T) {
	svc, _ := setupTestApplicationService()

	today := time.Now().UTC()
	req := validApplicationRequest()
	req.Age = 0
	req.DateOfBirth = model.DateOf(today.AddDate(-8, 0, -10))

	resp, err := svc.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("Create should succeed: %v", err)
	}
	if resp.Age != 8 {
		t.Errorf("expected derived age 8, got %d", resp.Age)
	}
}

func TestApplicationService_Create_ContactRule(t *testing.T) {
	svc, _ := setupTestApplicationService()

	// neither
	req := validApplicationRequest()
	req.FatherContact = nil
	req.MotherContact = strPtr("   ")
	_, err := svc.Create(context.Background(), req)
	fields := validationFields(t, err)
	if len(fields[pkgerrors.NonFieldErrors]) == 0 {
		t.Errorf("expected a non-field contact error, got %v", fields)
	}

	// exactly one
	req = validApplicationRequest()
	req.FatherContact = nil
	req.MotherContact = strPtr("0200000000")
	if _, err := svc.Create(context.Background(), req); err != nil {
		t.Errorf("one contact must be enough: %v", err)
	}
}

func TestApplicationService_Create_WhitespaceContactIsMissing(t *testing.T) {
	svc, mocks := setupTestApplicationService()

	req := validApplicationRequest()
	req.FatherContact = strPtr(" \t ")
	req.MotherContact = strPtr("")
	_, err := svc.Create(context.Background(), req)
	fields := validationFields(t, err)
	if len(fields[pkgerrors.NonFieldErrors]) == 0 {
		t.Errorf("whitespace contacts must not satisfy the contact rule, got %v", fields)
	}
	if len(mocks.app.apps) != 0 {
		t.Errorf("nothing should be stored, got %d", len(mocks.app.apps))
	}

	req = validApplicationRequest()
	req.FatherContact = strPtr("   ")
	req.MotherContact = strPtr(" 0200000000 ")
	if _, err := svc.Create(context.Background(), req); err != nil {
		t.Errorf("a padded number is still a contact: %v", err)
	}
}

func TestApplicationService_Create_FutureBirthAndAgeBounds(t *testing.T) {
	svc, mocks := setupTestApplicationService()

	req := validApplicationRequest()
	tomorrow := time.Now().UTC().AddDate(0, 0, 1)
	req.DateOfBirth = model.DateOf(tomorrow)
	_, err := svc.Create(context.Background(), req)
	if fields := validationFields(t, err); len(fields["date_of_birth"]) == 0 {
		t.Errorf("expected a date_of_birth error, got %v", fields)
	}

	for _, age := range []int{-1, 26} {
		req = validApplicationRequest()
		req.Age = age
		_, err = svc.Create(context.Background(), req)
		if fields := validationFields(t, err); len(fields["age"]) == 0 {
			t.Errorf("age %d: expected an age error, got %v", age, fields)
		}
	}

	for _, age := range []int{1, 25} {
		req = validApplicationRequest()
		req.Age = age
		if _, err := svc.Create(context.Background(), req); err != nil {
			t.Errorf("age %d must be accepted: %v", age, err)
		}
	}

	if len(mocks.app.apps) != 2 {
		t.Errorf("expected only the two valid applications stored, got %d", len(mocks.app.apps))
	}
}

func TestApplicationService_Create_WeakEmailCheck(t *testing.T) {
	svc, _ := setupTestApplicationService()

	req := validApplicationRequest()
	req.MotherEmail = strPtr("mother.example.com")
	_, err := svc.Create(context.Background(), req)
	if fields := validationFields(t, err); len(fields["mother_email"]) == 0 {
		t.Errorf("expected a mother_email error, got %v", fields)
	}

	req = validApplicationRequest()
	req.FatherEmail = strPtr("x@y")
	if _, err := svc.Create(context.Background(), req); err != nil {
		t.Errorf("an address containing @ must pass: %v", err)
	}
}

// ── Transitions ──

func TestApplicationService_Approve_StampsReviewer(t *testing.T) {
	svc, _ := setupTestApplicationService()
	ctx := context.Background()

	created, _ := svc.Create(ctx, validApplicationRequest())

	first, err := svc.Approve(ctx, created.ID, 7)
	if err != nil {
		t.Fatalf("Approve should succeed: %v", err)
	}
	if first.Status != model.ApplicationAccepted || first.ReviewedDate == nil || *first.ReviewedByID != 7 {
		t.Fatalf("unexpected state after approve: %+v", first.Application)
	}

	time.Sleep(2 * time.Millisecond)
	second, err := svc.Approve(ctx, created.ID, 8)
	if err != nil {
		t.Fatalf("re-approve should succeed: %v", err)
	}
	if !second.ReviewedDate.After(*first.ReviewedDate) {
		t.Error("re-approval must re-stamp reviewed_date")
	}
	if *second.ReviewedByID != 8 {
		t.Errorf("expected reviewer 8, got %d", *second.ReviewedByID)
	}
}

func TestApplicationService_Reject_NotFound(t *testing.T) {
	svc, _ := setupTestApplicationService()

	_, err := svc.Reject(context.Background(), 404, 1)
	if !errors.Is(err, ErrApplicationNotFound) {
		t.Errorf("expected ErrApplicationNotFound, got %v", err)
	}
}

func TestApplicationService_Update_StampsOnlyOnStatusChange(t *testing.T) {
	svc, _ := setupTestApplicationService()
	ctx := context.Background()
	created, _ := svc.Create(ctx, validApplicationRequest())

	notes := "called the father"
	resp, err := svc.Update(ctx, created.ID, &dto.UpdateApplicationRequest{Notes: &notes}, 3)
	if err != nil {
		t.Fatalf("Update should succeed: %v", err)
	}
	if resp.ReviewedByID != nil {
		t.Error("a notes-only update must not stamp a reviewer")
	}
	if resp.Notes == nil || *resp.Notes != notes {
		t.Error("expected notes to be applied")
	}

	same := model.ApplicationPending
	resp, _ = svc.Update(ctx, created.ID, &dto.UpdateApplicationRequest{Status: &same}, 3)
	if resp.ReviewedByID != nil {
		t.Error("an unchanged status must not stamp a reviewer")
	}

	reviewed := model.ApplicationReviewed
	resp, _ = svc.Update(ctx, created.ID, &dto.UpdateApplicationRequest{Status: &reviewed}, 3)
	if resp.ReviewedByID == nil || *resp.ReviewedByID != 3 || resp.ReviewedDate == nil {
		t.Error("a status change must stamp the reviewer")
	}

	bogus := "maybe"
	_, err = svc.Update(ctx, created.ID, &dto.UpdateApplicationRequest{Status: &bogus}, 3)
	if fields := validationFields(t, err); len(fields["status"]) == 0 {
		t.Errorf("expected a status error, got %v", fields)
	}
}

func TestApplicationService_BulkDoesNotStamp(t *testing.T) {
	svc, mocks := setupTestApplicationService()
	ctx := context.Background()

	a, _ := svc.Create(ctx, validApplicationRequest())
	b, _ := svc.Create(ctx, validApplicationRequest())

	n, err := svc.ApproveAll(ctx, []uint{a.ID, b.ID, 999})
	if err != nil {
		t.Fatalf("ApproveAll should succeed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 updated, got %d", n)
	}
	if !mocks.app.bulkCalled {
		t.Error("expected one batch update")
	}
	for _, id := range []uint{a.ID, b.ID} {
		got := mocks.app.apps[id]
		if got.Status != model.ApplicationAccepted {
			t.Errorf("id %d: expected accepted, got %s", id, got.Status)
		}
		if got.ReviewedDate != nil || got.ReviewedByID != nil {
			t.Errorf("id %d: bulk approval must not stamp a reviewer", id)
		}
	}

	if _, err := svc.MarkReviewedAll(ctx, nil); !errors.Is(err, ErrEmptySelection) {
		t.Errorf("expected ErrEmptySelection, got %v", err)
	}
}

// ── Listing ──

func TestApplicationService_ListPublic_OnlyDecided(t *testing.T) {
	svc, _ := setupTestApplicationService()
	ctx := context.Background()

	pending, _ := svc.Create(ctx, validApplicationRequest())
	accepted, _ := svc.Create(ctx, validApplicationRequest())
	rejected, _ := svc.Create(ctx, validApplicationRequest())
	_, _ = svc.Approve(ctx, accepted.ID, 1)
	_, _ = svc.Reject(ctx, rejected.ID, 1)

	items, total, err := svc.ListPublic(ctx, &dto.ApplicationListRequest{})
	if err != nil {
		t.Fatalf("ListPublic should succeed: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2 decided applications, got %d", total)
	}
	for _, it := range items {
		if it.ID == pending.ID {
			t.Error("pending applications must not be listed publicly")
		}
	}

	req := &dto.ApplicationListRequest{Status: model.ApplicationPending}
	items, total, _ = svc.ListPublic(ctx, req)
	if total != 0 || len(items) != 0 {
		t.Error("asking for pending publicly must return nothing")
	}

	staff, total, _ := svc.List(ctx, &dto.ApplicationListRequest{})
	if total != 3 || len(staff) != 3 {
		t.Errorf("staff listing must include every application, got %d", total)
	}
}

func TestApplicationService_Statistics(t *testing.T) {
	svc, _ := setupTestApplicationService()
	ctx := context.Background()

	a, _ := svc.Create(ctx, validApplicationRequest())
	boy := validApplicationRequest()
	boy.Gender = model.GenderMale
	boy.ClassBeforeAdmission = "KG 2"
	_, _ = svc.Create(ctx, boy)
	_, _ = svc.Approve(ctx, a.ID, 1)

	stats, err := svc.Statistics(ctx)
	if err != nil {
		t.Fatalf("Statistics should succeed: %v", err)
	}
	if stats.TotalApplications != 2 || stats.PendingApplications != 1 || stats.AcceptedApplications != 1 {
		t.Errorf("unexpected counts: %+v", stats)
	}
	if stats.RecentApplications != 2 {
		t.Errorf("expected 2 recent, got %d", stats.RecentApplications)
	}
	if len(stats.GenderStatistics) != 2 || len(stats.ClassStatistics) != 2 {
		t.Errorf("unexpected breakdowns: %+v / %+v", stats.GenderStatistics, stats.ClassStatistics)
	}
}

func TestApplicationService_Delete(t *testing.T) {
	svc, _ := setupTestApplicationService()
	ctx := context.Background()
	a, _ := svc.Create(ctx, validApplicationRequest())

	if err := svc.Delete(ctx, a.ID); err != nil {
		t.Fatalf("Delete should succeed: %v", err)
	}
	if err := svc.Delete(ctx, a.ID); !errors.Is(err, ErrApplicationNotFound) {
		t.Errorf("expected ErrApplicationNotFound, got %v", err)
	}
}
