package handlers

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/mindwell/apiserver/internal/auth"
	"github.com/mindwell/apiserver/internal/inference"
	"github.com/mindwell/apiserver/internal/store"
	"github.com/mindwell/apiserver/types"
)

// fakeUserRepo implements services.UserRepository in memory, mirroring
// the store contract including COALESCE-style identity linking.
type fakeUserRepo struct {
	users map[string]*types.User
	err   error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*types.User{}}
}

func userFixture(id, username, email string, passwordHash, googleID, avatarURL *string) *types.User {
	now := time.Now()
	return &types.User{
		ID:           id,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		GoogleID:     googleID,
		AvatarURL:    avatarURL,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// saturatedUserRepo reports every username as taken.
type saturatedUserRepo struct {
	*fakeUserRepo
}

func (s *saturatedUserRepo) UsernameExists(context.Context, string) (bool, error) {
	return true, nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (types.User, error) {
	if f.err != nil {
		return types.User{}, f.err
	}
	if user, ok := f.users[id]; ok {
		return *user, nil
	}
	return types.User{}, store.ErrNotFound
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (types.User, error) {
	if f.err != nil {
		return types.User{}, f.err
	}
	for _, user := range f.users {
		if user.Email == email {
			return *user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (f *fakeUserRepo) GetByEmailOrGoogleID(_ context.Context, email, googleID string) (types.User, error) {
	if f.err != nil {
		return types.User{}, f.err
	}
	for _, user := range f.users {
		if user.Email == email || (user.GoogleID != nil && *user.GoogleID == googleID) {
			return *user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (f *fakeUserRepo) ExistsByEmailOrUsername(_ context.Context, email, username string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	for _, user := range f.users {
		if user.Email == email || user.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) UsernameExists(_ context.Context, username string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	for _, user := range f.users {
		if user.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) Create(_ context.Context, user types.User) (types.User, error) {
	if f.err != nil {
		return types.User{}, f.err
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	stored := user
	f.users[user.ID] = &stored
	return user, nil
}

func (f *fakeUserRepo) LinkGoogleIdentity(_ context.Context, id, googleID, avatarURL string) (types.User, error) {
	if f.err != nil {
		return types.User{}, f.err
	}
	user, ok := f.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	if user.GoogleID == nil {
		value := googleID
		user.GoogleID = &value
	}
	if user.AvatarURL == nil && avatarURL != "" {
		value := avatarURL
		user.AvatarURL = &value
	}
	user.UpdatedAt = time.Now()
	return *user, nil
}

func (f *fakeUserRepo) Touch(_ context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	user, ok := f.users[id]
	if !ok {
		return store.ErrNotFound
	}
	user.UpdatedAt = time.Now()
	return nil
}

// fakeVerifier implements GoogleTokenVerifier.
type fakeVerifier struct {
	identity auth.GoogleIdentity
	err      error
}

func (f *fakeVerifier) Verify(_ context.Context, token string) (auth.GoogleIdentity, error) {
	if f.err != nil {
		return auth.GoogleIdentity{}, f.err
	}
	return f.identity, nil
}

// fakeInvoker implements Invoker, recording what it was asked to run.
type fakeInvoker struct {
	assessResult map[string]any
	assessErr    error
	moodResult   inference.MoodPrediction
	moodErr      error

	assessCalls   int
	moodCalls     int
	lastFeatures  map[string]int
	lastImagePath string
}

func (f *fakeInvoker) RunAssessment(_ context.Context, features map[string]int) (map[string]any, error) {
	f.assessCalls++
	f.lastFeatures = features
	if f.assessErr != nil {
		return nil, f.assessErr
	}
	return f.assessResult, nil
}

func (f *fakeInvoker) RunMoodImage(_ context.Context, imagePath string) (inference.MoodPrediction, error) {
	f.moodCalls++
	f.lastImagePath = imagePath
	if f.moodErr != nil {
		return inference.MoodPrediction{}, f.moodErr
	}
	return f.moodResult, nil
}

// fakeTipRepo implements services.TipRepository over a fixed slice.
type fakeTipRepo struct {
	tips []types.DailyTip
	err  error
}

func (f *fakeTipRepo) filtered(category string) []types.DailyTip {
	out := make([]types.DailyTip, 0, len(f.tips))
	for _, tip := range f.tips {
		if category == "" || (tip.Category != nil && *tip.Category == category) {
			out = append(out, tip)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (f *fakeTipRepo) Count(_ context.Context, category string) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return len(f.filtered(category)), nil
}

func (f *fakeTipRepo) List(_ context.Context, category string, offset, limit int) ([]types.DailyTip, error) {
	if f.err != nil {
		return nil, f.err
	}
	tips := f.filtered(category)
	if offset >= len(tips) {
		return []types.DailyTip{}, nil
	}
	end := offset + limit
	if end > len(tips) {
		end = len(tips)
	}
	return tips[offset:end], nil
}

func (f *fakeTipRepo) ListRandom(_ context.Context, category string, limit int) ([]types.DailyTip, error) {
	if f.err != nil {
		return nil, f.err
	}
	tips := f.filtered(category)
	if limit < len(tips) {
		tips = tips[:limit]
	}
	return tips, nil
}

func (f *fakeTipRepo) Get(_ context.Context, id int) (types.DailyTip, error) {
	if f.err != nil {
		return types.DailyTip{}, f.err
	}
	for _, tip := range f.tips {
		if tip.ID == id {
			return tip, nil
		}
	}
	return types.DailyTip{}, store.ErrNotFound
}

func (f *fakeTipRepo) Categories(_ context.Context) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	seen := map[string]bool{}
	categories := []string{}
	for _, tip := range f.tips {
		if tip.Category != nil && !seen[*tip.Category] {
			seen[*tip.Category] = true
			categories = append(categories, *tip.Category)
		}
	}
	sort.Strings(categories)
	return categories, nil
}

func moodRecordFixture(userID, mood string) types.MoodRecord {
	return types.MoodRecord{UserID: userID, Mood: mood, Confidence: 0.9}
}

// fakeMoodRepo implements services.MoodRepository.
type fakeMoodRepo struct {
	records   []types.MoodRecord
	createErr error
	nextID    int
}

func (f *fakeMoodRepo) Create(_ context.Context, record types.MoodRecord) (types.MoodRecord, error) {
	if f.createErr != nil {
		return types.MoodRecord{}, f.createErr
	}
	f.nextID++
	record.ID = f.nextID
	record.Timestamp = time.Now()
	f.records = append(f.records, record)
	return record, nil
}

func (f *fakeMoodRepo) ListByUser(_ context.Context, userID string) ([]types.MoodRecord, error) {
	out := []types.MoodRecord{}
	for _, record := range f.records {
		if record.UserID == userID {
			out = append(out, record)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

// fakeJournalRepo implements services.JournalRepository.
type fakeJournalRepo struct {
	entries map[int]types.JournalEntry
	nextID  int
	err     error
}

func newFakeJournalRepo() *fakeJournalRepo {
	return &fakeJournalRepo{entries: map[int]types.JournalEntry{}}
}

func (f *fakeJournalRepo) Create(_ context.Context, entry types.JournalEntry) (types.JournalEntry, error) {
	if f.err != nil {
		return types.JournalEntry{}, f.err
	}
	f.nextID++
	entry.ID = f.nextID
	entry.CreatedAt = time.Now()
	entry.UpdatedAt = entry.CreatedAt
	f.entries[entry.ID] = entry
	return entry, nil
}

func (f *fakeJournalRepo) ListByUser(_ context.Context, userID string) ([]types.JournalEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []types.JournalEntry{}
	for _, entry := range f.entries {
		if entry.UserID == userID {
			out = append(out, entry)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (f *fakeJournalRepo) Update(_ context.Context, entry types.JournalEntry) (types.JournalEntry, error) {
	if f.err != nil {
		return types.JournalEntry{}, f.err
	}
	existing, ok := f.entries[entry.ID]
	if !ok {
		return types.JournalEntry{}, store.ErrNotFound
	}
	existing.Title = entry.Title
	existing.Content = entry.Content
	existing.Mood = entry.Mood
	existing.Date = entry.Date
	existing.UpdatedAt = time.Now()
	f.entries[entry.ID] = existing
	return entry, nil
}

func (f *fakeJournalRepo) Delete(_ context.Context, id int) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.entries[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.entries, id)
	return nil
}

var errDatabaseDown = errors.New("database down")
