package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/22146025/lord-s-heart-educational-complex/internal/model"
	"github.com/22146025/lord-s-heart-educational-complex/internal/repository"
)

// ── Mock ApplicationRepository ──

type mockApplicationRepo struct {
	apps       map[uint]*model.Application
	nextID     uint
	updates    int
	bulkCalled bool
	failWith   error
}

func newMockApplicationRepo() *mockApplicationRepo {
	return &mockApplicationRepo{apps: make(map[uint]*model.Application), nextID: 1}
}

func (m *mockApplicationRepo) Create(_ context.Context, app *model.Application) error {
	if m.failWith != nil {
		return m.failWith
	}
	app.ID = m.nextID
	m.nextID++
	now := time.Now().UTC()
	app.CreatedAt, app.UpdatedAt = now, now
	cp := *app
	m.apps[app.ID] = &cp
	return nil
}

func (m *mockApplicationRepo) GetByID(_ context.Context, id uint) (*model.Application, error) {
	if a, ok := m.apps[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockApplicationRepo) Update(_ context.Context, app *model.Application) error {
	m.updates++
	cp := *app
	m.apps[app.ID] = &cp
	return nil
}

func (m *mockApplicationRepo) Delete(_ context.Context, id uint) error {
	if _, ok := m.apps[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.apps, id)
	return nil
}

func (m *mockApplicationRepo) List(_ context.Context, filter *repository.ApplicationFilter, opts repository.ListOptions) ([]model.Application, int64, error) {
	var out []model.Application
	for _, a := range m.sorted() {
		if filter != nil {
			if len(filter.Statuses) > 0 && !containsString(filter.Statuses, a.Status) {
				continue
			}
			if filter.Gender != "" && a.Gender != filter.Gender {
				continue
			}
			if filter.ClassBeforeAdmission != "" && a.ClassBeforeAdmission != filter.ClassBeforeAdmission {
				continue
			}
		}
		if opts.Search != "" && !strings.Contains(strings.ToLower(a.Surname+" "+a.FirstName), strings.ToLower(opts.Search)) {
			continue
		}
		out = append(out, a)
	}
	return page(out, opts), int64(len(out)), nil
}

func (m *mockApplicationRepo) ListByStatus(_ context.Context, status string) ([]model.Application, error) {
	var out []model.Application
	for _, a := range m.sorted() {
		if a.Status == status {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockApplicationRepo) ListAll(_ context.Context) ([]model.Application, error) {
	return m.sorted(), nil
}

func (m *mockApplicationRepo) BulkUpdateStatus(_ context.Context, ids []uint, status string) (int64, error) {
	m.bulkCalled = true
	var n int64
	for _, id := range ids {
		if a, ok := m.apps[id]; ok {
			a.Status = status
			n++
		}
	}
	return n, nil
}

func (m *mockApplicationRepo) Count(_ context.Context, status string) (int64, error) {
	var n int64
	for _, a := range m.apps {
		if status == "" || a.Status == status {
			n++
		}
	}
	return n, nil
}

func (m *mockApplicationRepo) CountSince(_ context.Context, since time.Time) (int64, error) {
	var n int64
	for _, a := range m.apps {
		if !a.ApplicationDate.Before(since) {
			n++
		}
	}
	return n, nil
}

func (m *mockApplicationRepo) CountByGender(_ context.Context) ([]repository.GroupCount, error) {
	return m.group(func(a *model.Application) string { return a.Gender }), nil
}

func (m *mockApplicationRepo) CountByClass(_ context.Context) ([]repository.GroupCount, error) {
	return m.group(func(a *model.Application) string { return a.ClassBeforeAdmission }), nil
}

func (m *mockApplicationRepo) group(key func(*model.Application) string) []repository.GroupCount {
	counts := make(map[string]int64)
	for _, a := range m.apps {
		counts[key(a)]++
	}
	return groupCounts(counts)
}

// sorted application_date DESC, id DESC
func (m *mockApplicationRepo) sorted() []model.Application {
	out := make([]model.Application, 0, len(m.apps))
	for _, a := range m.apps {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ApplicationDate.Equal(out[j].ApplicationDate) {
			return out[i].ApplicationDate.After(out[j].ApplicationDate)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

// ── Mock MessageRepository ──

type mockMessageRepo struct {
	msgs    map[uint]*model.Message
	nextID  uint
	updates int
	saved   int
	daily   []repository.DayCount
}

func newMockMessageRepo() *mockMessageRepo {
	return &mockMessageRepo{msgs: make(map[uint]*model.Message), nextID: 1}
}

func (m *mockMessageRepo) Create(_ context.Context, msg *model.Message) error {
	msg.ID = m.nextID
	m.nextID++
	now := time.Now().UTC()
	msg.CreatedAt, msg.UpdatedAt = now, now
	cp := *msg
	m.msgs[msg.ID] = &cp
	return nil
}

func (m *mockMessageRepo) GetByID(_ context.Context, id uint) (*model.Message, error) {
	if msg, ok := m.msgs[id]; ok {
		cp := *msg
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMessageRepo) Update(_ context.Context, msg *model.Message) error {
	m.updates++
	cp := *msg
	m.msgs[msg.ID] = &cp
	return nil
}

func (m *mockMessageRepo) Delete(_ context.Context, id uint) error {
	if _, ok := m.msgs[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.msgs, id)
	return nil
}

func (m *mockMessageRepo) List(_ context.Context, status string, opts repository.ListOptions) ([]model.Message, int64, error) {
	var out []model.Message
	for _, msg := range m.sorted() {
		if status != "" && msg.Status != status {
			continue
		}
		out = append(out, msg)
	}
	return page(out, opts), int64(len(out)), nil
}

func (m *mockMessageRepo) ListByStatus(_ context.Context, status string) ([]model.Message, error) {
	var out []model.Message
	for _, msg := range m.sorted() {
		if msg.Status == status {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (m *mockMessageRepo) ListByIDs(_ context.Context, ids []uint) ([]model.Message, error) {
	var out []model.Message
	for _, id := range ids {
		if msg, ok := m.msgs[id]; ok {
			out = append(out, *msg)
		}
	}
	return out, nil
}

func (m *mockMessageRepo) ListAll(_ context.Context) ([]model.Message, error) {
	return m.sorted(), nil
}

func (m *mockMessageRepo) SaveAll(_ context.Context, msgs []model.Message) error {
	for i := range msgs {
		cp := msgs[i]
		m.msgs[cp.ID] = &cp
		m.saved++
	}
	return nil
}

func (m *mockMessageRepo) Count(_ context.Context, status string) (int64, error) {
	var n int64
	for _, msg := range m.msgs {
		if status == "" || msg.Status == status {
			n++
		}
	}
	return n, nil
}

func (m *mockMessageRepo) CountSince(_ context.Context, since time.Time) (int64, error) {
	var n int64
	for _, msg := range m.msgs {
		if !msg.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (m *mockMessageRepo) CountByStatus(_ context.Context) ([]repository.GroupCount, error) {
	counts := make(map[string]int64)
	for _, msg := range m.msgs {
		counts[msg.Status]++
	}
	return groupCounts(counts), nil
}

func (m *mockMessageRepo) DailyCountsSince(_ context.Context, _ time.Time) ([]repository.DayCount, error) {
	return m.daily, nil
}

func (m *mockMessageRepo) sorted() []model.Message {
	out := make([]model.Message, 0, len(m.msgs))
	for _, msg := range m.msgs {
		out = append(out, *msg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users    map[uint]*model.User
	profiles *mockProfileRepo
	nextID   uint
}

func newMockUserRepo(profiles *mockProfileRepo) *mockUserRepo {
	return &mockUserRepo{users: make(map[uint]*model.User), profiles: profiles, nextID: 1}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Username == user.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	user.ID = m.nextID
	m.nextID++
	user.DateJoined = time.Now().UTC()
	cp := *user
	cp.Profile = nil
	m.users[user.ID] = &cp
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id uint) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return m.withProfile(u), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return m.withProfile(u), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := m.GetByUsername(ctx, username)
	return err == nil, nil
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	cp := *user
	cp.Profile = nil
	m.users[user.ID] = &cp
	return nil
}

func (m *mockUserRepo) UpdatePassword(_ context.Context, id uint, hash string) error {
	u, ok := m.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (m *mockUserRepo) UpdateLastLogin(_ context.Context, id uint, at time.Time) error {
	u, ok := m.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.LastLogin = &at
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id uint) error {
	if _, ok := m.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.users, id)
	if m.profiles != nil {
		for pid, p := range m.profiles.profiles {
			if p.UserID == id {
				delete(m.profiles.profiles, pid)
			}
		}
	}
	return nil
}

func (m *mockUserRepo) List(_ context.Context, filter *repository.UserFilter, opts repository.ListOptions) ([]model.User, int64, error) {
	var out []model.User
	for _, u := range m.sorted() {
		if !matchUser(&u, filter) {
			continue
		}
		out = append(out, *m.withProfile(&u))
	}
	return page(out, opts), int64(len(out)), nil
}

func (m *mockUserRepo) Count(_ context.Context, filter *repository.UserFilter) (int64, error) {
	var n int64
	for _, u := range m.users {
		if matchUser(u, filter) {
			n++
		}
	}
	return n, nil
}

func (m *mockUserRepo) CountJoinedSince(_ context.Context, since time.Time) (int64, error) {
	var n int64
	for _, u := range m.users {
		if !u.DateJoined.Before(since) {
			n++
		}
	}
	return n, nil
}

func (m *mockUserRepo) withProfile(u *model.User) *model.User {
	cp := *u
	if m.profiles != nil {
		for _, p := range m.profiles.profiles {
			if p.UserID == u.ID {
				pc := *p
				cp.Profile = &pc
			}
		}
	}
	return &cp
}

func (m *mockUserRepo) sorted() []model.User {
	out := make([]model.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}

func matchUser(u *model.User, filter *repository.UserFilter) bool {
	if filter == nil {
		return true
	}
	if filter.IsActive != nil && u.IsActive != *filter.IsActive {
		return false
	}
	if filter.IsStaff != nil && u.IsStaff != *filter.IsStaff {
		return false
	}
	return true
}

// ── Mock ProfileRepository ──

type mockProfileRepo struct {
	profiles map[uint]*model.Profile
	nextID   uint
	creates  int
}

func newMockProfileRepo() *mockProfileRepo {
	return &mockProfileRepo{profiles: make(map[uint]*model.Profile), nextID: 1}
}

func (m *mockProfileRepo) Create(_ context.Context, p *model.Profile) error {
	for _, existing := range m.profiles {
		if existing.UserID == p.UserID {
			return gorm.ErrDuplicatedKey
		}
	}
	m.creates++
	p.ID = m.nextID
	m.nextID++
	cp := *p
	cp.User = nil
	m.profiles[p.ID] = &cp
	return nil
}

func (m *mockProfileRepo) GetByID(_ context.Context, id uint) (*model.Profile, error) {
	if p, ok := m.profiles[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProfileRepo) GetByUserID(_ context.Context, userID uint) (*model.Profile, error) {
	for _, p := range m.profiles {
		if p.UserID == userID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProfileRepo) Update(_ context.Context, p *model.Profile) error {
	cp := *p
	cp.User = nil
	m.profiles[p.ID] = &cp
	return nil
}

func (m *mockProfileRepo) Delete(_ context.Context, id uint) error {
	if _, ok := m.profiles[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.profiles, id)
	return nil
}

func (m *mockProfileRepo) List(_ context.Context, role string, opts repository.ListOptions) ([]model.Profile, int64, error) {
	var out []model.Profile
	for _, p := range m.profiles {
		if role == "" || p.Role == role {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, opts), int64(len(out)), nil
}

func (m *mockProfileRepo) CountByRole(_ context.Context) ([]repository.GroupCount, error) {
	counts := make(map[string]int64)
	for _, p := range m.profiles {
		counts[p.Role]++
	}
	return groupCounts(counts), nil
}

// ── Mock TokenBlacklist ──

type mockBlacklist struct {
	entries map[string]time.Duration
}

func newMockBlacklist() *mockBlacklist {
	return &mockBlacklist{entries: make(map[string]time.Duration)}
}

func (m *mockBlacklist) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	m.entries[jti] = ttl
	return nil
}

// ── helpers ──

type mockRepos struct {
	app     *mockApplicationRepo
	msg     *mockMessageRepo
	user    *mockUserRepo
	profile *mockProfileRepo
}

// newMockRepository aggregate without a database; Transaction runs inline
func newMockRepository() (*repository.Repository, *mockRepos) {
	profiles := newMockProfileRepo()
	m := &mockRepos{
		app:     newMockApplicationRepo(),
		msg:     newMockMessageRepo(),
		user:    newMockUserRepo(profiles),
		profile: profiles,
	}
	repo := &repository.Repository{
		Application: m.app,
		Message:     m.msg,
		User:        m.user,
		Profile:     m.profile,
	}
	repo.Tx = inlineTx{repo: repo}
	return repo, m
}

// inlineTx runs fn on the in-memory aggregate itself
type inlineTx struct {
	repo *repository.Repository
}

func (t inlineTx) Transaction(_ context.Context, fn func(tx *repository.Repository) error) error {
	return fn(t.repo)
}

func page[T any](items []T, opts repository.ListOptions) []T {
	if opts.Offset >= len(items) {
		return []T{}
	}
	items = items[opts.Offset:]
	if opts.Limit > 0 && opts.Limit < len(items) {
		items = items[:opts.Limit]
	}
	return items
}

func groupCounts(counts map[string]int64) []repository.GroupCount {
	out := make([]repository.GroupCount, 0, len(counts))
	for k, v := range counts {
		out = append(out, repository.GroupCount{Key: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
